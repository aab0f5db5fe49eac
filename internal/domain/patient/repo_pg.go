package patient

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

const (
	patientCols = `p.id, p.name, p.birthday, p.gender_id, g.description, p.cpf, p.user_id, u.name, p.created_at, p.updated_at`
	// Patients whose doctor was deleted keep a NULL user_id, hence the LEFT JOIN.
	patientFrom  = `patients p JOIN genders g ON g.id = p.gender_id LEFT JOIN users u ON u.id = p.user_id`
	patientOrder = `UPPER(p.name) ASC, p.id ASC`
)

// Columns matched by the lazy-list search term.
var searchExprs = []string{
	"p.name",
	"to_char(p.birthday, 'DD/MM/YYYY')",
	"p.cpf",
	"g.description",
	"u.name",
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Birthday, &p.GenderID, &p.Gender, &p.CPF, &p.UserID, &p.Doctor, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) GenderExists(ctx context.Context, id int) (bool, error) {
	var ok bool
	if err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM genders WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("gender exists: %w", err)
	}
	return ok, nil
}

func (r *repoPG) ListGenders(ctx context.Context) ([]Gender, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT id, description FROM genders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("gender list: %w", err)
	}
	defer rows.Close()

	genders := []Gender{}
	for rows.Next() {
		var g Gender
		if err := rows.Scan(&g.ID, &g.Description); err != nil {
			return nil, fmt.Errorf("gender scan: %w", err)
		}
		genders = append(genders, g)
	}
	return genders, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (id, name, birthday, gender_id, cpf, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Birthday, p.GenderID, p.CPF, p.UserID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return ErrCPFTaken
	}
	if err != nil {
		return fmt.Errorf("patient create: %w", err)
	}
	return nil
}

func (r *repoPG) getOne(ctx context.Context, where string, arg interface{}) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM `+patientFrom+` WHERE `+where, arg))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("patient get: %w", err)
	}
	return p, nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.getOne(ctx, `p.id = $1`, id)
}

func (r *repoPG) GetByCPF(ctx context.Context, cpf string) (*Patient, error) {
	return r.getOne(ctx, `p.cpf = $1`, cpf)
}

func (r *repoPG) collect(ctx context.Context, sql string, args ...interface{}) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patients := []*Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

func (r *repoPG) List(ctx context.Context) ([]*Patient, error) {
	q := db.NewQuery(patientFrom, patientCols)
	q.OrderBy(patientOrder)
	patients, err := r.collect(ctx, q.SQL())
	if err != nil {
		return nil, fmt.Errorf("patient list: %w", err)
	}
	return patients, nil
}

func (r *repoPG) LazyList(ctx context.Context, p pagination.Params, doctorID *uuid.UUID) ([]*Patient, int, error) {
	q := db.NewQuery(patientFrom, patientCols)
	if doctorID != nil {
		q.WhereEq("p.user_id", *doctorID)
	}
	q.Search(p.Search, searchExprs...)
	q.OrderBy(patientOrder)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(), q.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("patient lazy count: %w", err)
	}

	patients, err := r.collect(ctx, q.PageSQL(), q.PageArgs(p.Limit(), p.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("patient lazy list: %w", err)
	}
	return patients, total, nil
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE patients SET name = $2, birthday = $3, gender_id = $4, cpf = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.Name, p.Birthday, p.GenderID, p.CPF,
	).Scan(&p.UpdatedAt)
	switch {
	case db.IsNoRows(err):
		return ErrNotFound
	case db.IsUniqueViolation(err):
		return ErrCPFTaken
	case err != nil:
		return fmt.Errorf("patient update: %w", err)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("patient delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
