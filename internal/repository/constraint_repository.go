package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campus-suite/timetable-api/internal/models"
)

// ConstraintRepository manages the soft-constraint catalogue.
type ConstraintRepository struct {
	db *sqlx.DB
}

// NewConstraintRepository constructs a ConstraintRepository.
func NewConstraintRepository(db *sqlx.DB) *ConstraintRepository {
	return &ConstraintRepository{db: db}
}

// Seed inserts catalogue entries, leaving existing rows untouched so tier
// and active edits survive restarts.
func (r *ConstraintRepository) Seed(ctx context.Context, entries []models.Constraint) error {
	const query = `INSERT INTO constraints (key, name, importance, active, position, updated_at)
		VALUES (:key, :name, :importance, :active, :position, :updated_at)
		ON CONFLICT (key) DO NOTHING`
	for i := range entries {
		if entries[i].UpdatedAt.IsZero() {
			entries[i].UpdatedAt = time.Now().UTC()
		}
		if _, err := r.db.NamedExecContext(ctx, query, entries[i]); err != nil {
			return fmt.Errorf("seed constraint %s: %w", entries[i].Key, err)
		}
	}
	return nil
}

// ListOrdered returns the catalogue in stable position order.
func (r *ConstraintRepository) ListOrdered(ctx context.Context) ([]models.Constraint, error) {
	const query = `SELECT key, name, importance, active, position, updated_at FROM constraints ORDER BY position`
	var entries []models.Constraint
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list constraints: %w", err)
	}
	return entries, nil
}

// FindByKey fetches a catalogue entry.
func (r *ConstraintRepository) FindByKey(ctx context.Context, key string) (*models.Constraint, error) {
	const query = `SELECT key, name, importance, active, position, updated_at FROM constraints WHERE key = $1`
	var entry models.Constraint
	if err := r.db.GetContext(ctx, &entry, query, key); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateWeighting sets the importance tier and active flag for an entry.
func (r *ConstraintRepository) UpdateWeighting(ctx context.Context, key string, importance models.ImportanceTier, active bool) error {
	const query = `UPDATE constraints SET importance = $2, active = $3, updated_at = $4 WHERE key = $1`
	if _, err := r.db.ExecContext(ctx, query, key, importance, active, time.Now().UTC()); err != nil {
		return fmt.Errorf("update constraint %s: %w", key, err)
	}
	return nil
}
