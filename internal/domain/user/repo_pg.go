package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clin/clin/internal/platform/db"
	"github.com/clin/clin/pkg/pagination"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const userCols = `id, name, email, password, admin, created_at, updated_at`

// Admins first, then alphabetical ignoring case.
const userOrder = `admin DESC, UPPER(name) ASC, id ASC`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Admin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO users (id, name, email, password, admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Admin,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("user create: %w", err)
	}
	return nil
}

func (r *repoPG) getOne(ctx context.Context, where string, arg interface{}) (*User, error) {
	u, err := scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE `+where, arg))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user get: %w", err)
	}
	return u, nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, `LOWER(email) = LOWER($1)`, email)
}

func (r *repoPG) collect(ctx context.Context, sql string, args ...interface{}) ([]*User, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *repoPG) List(ctx context.Context) ([]*User, error) {
	users, err := r.collect(ctx, `SELECT `+userCols+` FROM users ORDER BY `+userOrder)
	if err != nil {
		return nil, fmt.Errorf("user list: %w", err)
	}
	return users, nil
}

func (r *repoPG) LazyList(ctx context.Context, p pagination.Params) ([]*User, int, error) {
	q := db.NewQuery("users", userCols)
	q.Search(p.Search, "name", "email")
	q.OrderBy(userOrder)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(), q.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("user lazy count: %w", err)
	}

	users, err := r.collect(ctx, q.PageSQL(), q.PageArgs(p.Limit(), p.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("user lazy list: %w", err)
	}
	return users, total, nil
}

func (r *repoPG) Update(ctx context.Context, u *User) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE users SET name = $2, email = $3, password = $4, admin = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Admin,
	).Scan(&u.UpdatedAt)
	switch {
	case db.IsNoRows(err):
		return ErrNotFound
	case db.IsUniqueViolation(err):
		return ErrEmailTaken
	case err != nil:
		return fmt.Errorf("user update: %w", err)
	}
	return nil
}

func (r *repoPG) ToggleAdmin(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := scanUser(r.conn(ctx).QueryRow(ctx, `
		UPDATE users SET admin = NOT admin, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userCols, id))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user toggle admin: %w", err)
	}
	return u, nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("user delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
