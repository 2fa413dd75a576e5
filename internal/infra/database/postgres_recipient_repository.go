package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pilot_license_tracker/internal/domain/recipient"

	"github.com/lib/pq"
)

var ErrRecipientNotFound = errors.New("manager recipient not found")
var ErrDuplicateRecipientEmail = errors.New("manager recipient with this email already exists")

// isDuplicateEmail reports whether err is a unique violation on the
// manager_recipients email constraint.
func isDuplicateEmail(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505" && pqErr.Constraint == "manager_recipients_email_key"
}

type PostgresRecipientRepository struct {
	db *sql.DB
}

func NewPostgresRecipientRepository(db *sql.DB) *PostgresRecipientRepository {
	return &PostgresRecipientRepository{db: db}
}

func (r *PostgresRecipientRepository) Create(ctx context.Context, m *recipient.ManagerRecipient) error {
	query := `INSERT INTO manager_recipients (id, name, email, position)
              VALUES ($1, $2, $3, $4)
              RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, m.ID, m.Name, m.Email, m.Position).Scan(&m.CreatedAt)
	if err != nil {
		if isDuplicateEmail(err) {
			return ErrDuplicateRecipientEmail
		}
		return fmt.Errorf("error creating manager recipient: %w", err)
	}
	return nil
}

func (r *PostgresRecipientRepository) GetByID(ctx context.Context, id string) (*recipient.ManagerRecipient, error) {
	query := `SELECT id, name, email, position, created_at
              FROM manager_recipients WHERE id = $1`
	m := &recipient.ManagerRecipient{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Name, &m.Email, &m.Position, &m.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("error getting manager recipient by ID: %w", err)
	}
	return m, nil
}

func (r *PostgresRecipientRepository) Update(ctx context.Context, m *recipient.ManagerRecipient) error {
	query := `UPDATE manager_recipients
              SET name = $1, email = $2, position = $3
              WHERE id = $4`

	res, err := r.db.ExecContext(ctx, query, m.Name, m.Email, m.Position, m.ID)
	if err != nil {
		if isDuplicateEmail(err) {
			return ErrDuplicateRecipientEmail
		}
		return fmt.Errorf("error updating manager recipient: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking updated manager recipient rows: %w", err)
	}
	if affected == 0 {
		return ErrRecipientNotFound
	}
	return nil
}

func (r *PostgresRecipientRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM manager_recipients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting manager recipient: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted manager recipient rows: %w", err)
	}
	if affected == 0 {
		return ErrRecipientNotFound
	}
	return nil
}

func (r *PostgresRecipientRepository) ListAll(ctx context.Context) ([]*recipient.ManagerRecipient, error) {
	query := `SELECT id, name, email, position, created_at
              FROM manager_recipients ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing manager recipients: %w", err)
	}
	defer rows.Close()

	recipients := make([]*recipient.ManagerRecipient, 0)
	for rows.Next() {
		m := &recipient.ManagerRecipient{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Position, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning manager recipient: %w", err)
		}
		recipients = append(recipients, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating manager recipients: %w", err)
	}
	return recipients, nil
}
