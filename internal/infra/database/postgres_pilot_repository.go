package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pilot_license_tracker/internal/domain/pilot"

	"github.com/lib/pq"
)

var ErrPilotNotFound = errors.New("pilot not found")

type PostgresPilotRepository struct {
	db *sql.DB
}

func NewPostgresPilotRepository(db *sql.DB) *PostgresPilotRepository {
	return &PostgresPilotRepository{db: db}
}

const pilotColumns = `id, first_name, last_name, email, certification, categories, category,
       medical_expiry, is_instructor, instructor_expiry, restriction, custom_restriction,
       created_at, updated_at`

func (r *PostgresPilotRepository) Create(ctx context.Context, p *pilot.Pilot) error {
	query := `INSERT INTO pilots (id, first_name, last_name, email, certification, categories,
                medical_expiry, is_instructor, instructor_expiry, restriction, custom_restriction)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
              RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.FirstName, p.LastName, p.Email, string(p.Certification),
		pq.Array(categoryStrings(p.Categories)), p.MedicalExpiry, p.IsInstructor,
		p.InstructorExpiry, string(p.Restriction), p.CustomRestriction,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating pilot: %w", err)
	}
	return nil
}

func (r *PostgresPilotRepository) GetByID(ctx context.Context, id string) (*pilot.Pilot, error) {
	query := `SELECT ` + pilotColumns + ` FROM pilots WHERE id = $1`
	p, err := scanPilot(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPilotNotFound
		}
		return nil, fmt.Errorf("error getting pilot by ID: %w", err)
	}
	return p, nil
}

func (r *PostgresPilotRepository) Update(ctx context.Context, p *pilot.Pilot) error {
	query := `UPDATE pilots
              SET first_name = $1, last_name = $2, email = $3, certification = $4,
                  categories = $5, medical_expiry = $6, is_instructor = $7,
                  instructor_expiry = $8, restriction = $9, custom_restriction = $10,
                  updated_at = NOW()
              WHERE id = $11
              RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.FirstName, p.LastName, p.Email, string(p.Certification),
		pq.Array(categoryStrings(p.Categories)), p.MedicalExpiry, p.IsInstructor,
		p.InstructorExpiry, string(p.Restriction), p.CustomRestriction, p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrPilotNotFound
		}
		return fmt.Errorf("error updating pilot: %w", err)
	}
	return nil
}

func (r *PostgresPilotRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pilots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting pilot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted pilot rows: %w", err)
	}
	if affected == 0 {
		return ErrPilotNotFound
	}
	return nil
}

func (r *PostgresPilotRepository) ListAll(ctx context.Context) ([]*pilot.Pilot, error) {
	query := `SELECT ` + pilotColumns + ` FROM pilots ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing pilots: %w", err)
	}
	defer rows.Close()

	pilots := make([]*pilot.Pilot, 0)
	for rows.Next() {
		p, err := scanPilot(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning pilot: %w", err)
		}
		pilots = append(pilots, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pilots: %w", err)
	}
	return pilots, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPilot(row rowScanner) (*pilot.Pilot, error) {
	p := &pilot.Pilot{}
	var cert, restriction string
	var categories pq.StringArray
	var legacyCategory sql.NullString

	err := row.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Email, &cert, &categories, &legacyCategory,
		&p.MedicalExpiry, &p.IsInstructor, &p.InstructorExpiry, &restriction,
		&p.CustomRestriction, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Certification = pilot.Certification(cert)
	p.Restriction = pilot.Restriction(restriction)

	// Rows written before the multi-category migration hold a single
	// category column; normalize here so callers only see the current shape.
	if len(categories) == 0 && legacyCategory.Valid && legacyCategory.String != "" {
		categories = pq.StringArray{legacyCategory.String}
	}
	p.Categories = make([]pilot.Category, 0, len(categories))
	for _, c := range categories {
		p.Categories = append(p.Categories, pilot.Category(c))
	}
	return p, nil
}

func categoryStrings(categories []pilot.Category) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, string(c))
	}
	return out
}
