package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pilot_license_tracker/internal/domain/reminder"
)

type PostgresLedgerRepository struct {
	db *sql.DB
}

func NewPostgresLedgerRepository(db *sql.DB) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{db: db}
}

func (r *PostgresLedgerRepository) WasSent(ctx context.Context, key reminder.Key) (bool, error) {
	query := `SELECT EXISTS (
                SELECT 1 FROM reminder_ledger
                WHERE pilot_id = $1 AND field_kind = $2 AND expiry_day = $3
              )`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, key.PilotID, string(key.Kind), key.ExpiryDay).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking reminder ledger: %w", err)
	}
	return exists, nil
}

func (r *PostgresLedgerRepository) MarkSent(ctx context.Context, entry *reminder.Entry) error {
	// ON CONFLICT DO NOTHING makes the at-most-once invariant hold even if
	// two runs race on the same key.
	query := `INSERT INTO reminder_ledger (pilot_id, field_kind, expiry_day, pilot_name, sent_at)
              VALUES ($1, $2, $3, $4, $5)
              ON CONFLICT (pilot_id, field_kind, expiry_day) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		entry.Key.PilotID, string(entry.Key.Kind), entry.Key.ExpiryDay,
		entry.PilotName, entry.SentAt,
	)
	if err != nil {
		return fmt.Errorf("error writing reminder ledger entry: %w", err)
	}
	return nil
}

func (r *PostgresLedgerRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminder_ledger WHERE sent_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("error purging reminder ledger: %w", err)
	}
	purged, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error checking purged ledger rows: %w", err)
	}
	return purged, nil
}
