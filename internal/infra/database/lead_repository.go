package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tekhekspert/lead-capture/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, phone, phone_e164, source, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.Phone,
		lead.PhoneE164,
		lead.Source,
		lead.Status,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// UpdateStatus settles a PENDING lead. A lead the sweeper already marked
// ABANDONED is left alone and reported as ErrLeadNotFound.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3`,
		id, status, entity.LeadStatusPending,
	)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// MarkStalePending flips leads left PENDING for longer than olderThan to
// ABANDONED and returns their ids.
func (r *LeadRepository) MarkStalePending(ctx context.Context, olderThan time.Duration) ([]string, error) {
	query := `
		UPDATE leads
		SET status = $1, updated_at = NOW()
		WHERE status = $2
		  AND created_at < $3
		RETURNING id
	`
	rows, err := r.DB.QueryContext(ctx, query,
		entity.LeadStatusAbandoned,
		entity.LeadStatusPending,
		time.Now().Add(-olderThan),
	)
	if err != nil {
		return nil, fmt.Errorf("mark stale leads: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
