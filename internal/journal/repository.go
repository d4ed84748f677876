package journal

import (
	"context"
	"fmt"

	"github.com/bulkmail/bulkmail/internal/database"
	"github.com/bulkmail/bulkmail/internal/model"
)

// Repository handles delivery journal persistence
type Repository struct {
	db *database.Postgres
}

// NewRepository creates a new Repository
func NewRepository(db *database.Postgres) *Repository {
	return &Repository{db: db}
}

// Record inserts a delivery attempt
func (r *Repository) Record(ctx context.Context, d *model.Delivery) error {
	query := `
		INSERT INTO deliveries (id, batch_id, email, name, sequence, subject, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.BatchID,
		d.Email,
		d.Name,
		d.Sequence,
		d.Subject,
		d.Status,
		d.Error,
		d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record delivery: %w", err)
	}
	return nil
}

// ListByBatch returns the attempts of one dispatch pass in send order
func (r *Repository) ListByBatch(ctx context.Context, batchID string) ([]*model.Delivery, error) {
	query := `
		SELECT id, batch_id, email, name, sequence, subject, status, error, created_at
		FROM deliveries
		WHERE batch_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer rows.Close()

	var out []*model.Delivery
	for rows.Next() {
		var d model.Delivery
		if err := rows.Scan(
			&d.ID,
			&d.BatchID,
			&d.Email,
			&d.Name,
			&d.Sequence,
			&d.Subject,
			&d.Status,
			&d.Error,
			&d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deliveries: %w", err)
	}
	return out, nil
}
