package healthcondition

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clin/clin/internal/platform/db"
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
	hcCols = `hc.id, hc.patient_id, hc.description, hc.relative_id, r.description, hc.created_at, hc.updated_at`
	hcFrom = `health_conditions hc LEFT JOIN relatives r ON r.id = hc.relative_id`
)

func scanCondition(row pgx.Row) (*HealthCondition, error) {
	var hc HealthCondition
	err := row.Scan(&hc.ID, &hc.PatientID, &hc.Description, &hc.RelativeID, &hc.Relative, &hc.CreatedAt, &hc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	hc.FamilyHistory = hc.RelativeID != nil
	return &hc, nil
}

func (r *repoPG) PatientExists(ctx context.Context, patientID uuid.UUID) (bool, error) {
	var ok bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)`, patientID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("patient exists: %w", err)
	}
	return ok, nil
}

func (r *repoPG) FindRelative(ctx context.Context, patientID uuid.UUID, description string) (*Relative, error) {
	var rel Relative
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, description FROM relatives
		WHERE patient_id = $1 AND description = $2`,
		patientID, description,
	).Scan(&rel.ID, &rel.PatientID, &rel.Description)
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("relative find: %w", err)
	}
	return &rel, nil
}

func (r *repoPG) CreateRelative(ctx context.Context, rel *Relative) error {
	rel.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `INSERT INTO relatives (id, patient_id, description) VALUES ($1, $2, $3)`,
		rel.ID, rel.PatientID, rel.Description)
	if db.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("relative create: %w", err)
	}
	return nil
}

func (r *repoPG) DescriptionExists(ctx context.Context, patientID uuid.UUID, description string, except uuid.UUID) (bool, error) {
	var ok bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM health_conditions
			WHERE patient_id = $1 AND description = $2 AND id <> $3
		)`,
		patientID, description, except,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("health condition description exists: %w", err)
	}
	return ok, nil
}

func (r *repoPG) Exists(ctx context.Context, patientID uuid.UUID, description string, relativeID *uuid.UUID, except uuid.UUID) (bool, error) {
	var ok bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM health_conditions
			WHERE patient_id = $1 AND description = $2
			  AND relative_id IS NOT DISTINCT FROM $3::uuid
			  AND id <> $4
		)`,
		patientID, description, relativeID, except,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("health condition exists: %w", err)
	}
	return ok, nil
}

func (r *repoPG) Create(ctx context.Context, hc *HealthCondition) error {
	hc.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO health_conditions (id, patient_id, relative_id, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		hc.ID, hc.PatientID, hc.RelativeID, hc.Description,
	).Scan(&hc.CreatedAt, &hc.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("health condition create: %w", err)
	}
	hc.FamilyHistory = hc.RelativeID != nil
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*HealthCondition, error) {
	hc, err := scanCondition(r.conn(ctx).QueryRow(ctx, `SELECT `+hcCols+` FROM `+hcFrom+` WHERE hc.id = $1`, id))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("health condition get: %w", err)
	}
	return hc, nil
}

func (r *repoPG) UpdateDescription(ctx context.Context, hc *HealthCondition) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE health_conditions SET description = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		hc.ID, hc.Description,
	).Scan(&hc.UpdatedAt)
	switch {
	case db.IsNoRows(err):
		return ErrNotFound
	case db.IsUniqueViolation(err):
		return ErrDuplicate
	case err != nil:
		return fmt.Errorf("health condition update: %w", err)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM health_conditions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("health condition delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*HealthCondition, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+hcCols+` FROM `+hcFrom+`
		WHERE hc.patient_id = $1
		ORDER BY (hc.relative_id IS NOT NULL), hc.description, r.description`, patientID)
	if err != nil {
		return nil, fmt.Errorf("health condition list: %w", err)
	}
	defer rows.Close()

	items := []*HealthCondition{}
	for rows.Next() {
		hc, err := scanCondition(rows)
		if err != nil {
			return nil, fmt.Errorf("health condition scan: %w", err)
		}
		items = append(items, hc)
	}
	return items, rows.Err()
}

func (r *repoPG) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	q := r.conn(ctx)
	if _, err := q.Exec(ctx, `DELETE FROM health_conditions WHERE patient_id = $1`, patientID); err != nil {
		return fmt.Errorf("health condition delete by patient: %w", err)
	}
	if _, err := q.Exec(ctx, `DELETE FROM relatives WHERE patient_id = $1`, patientID); err != nil {
		return fmt.Errorf("relative delete by patient: %w", err)
	}
	return nil
}
