package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/campus-suite/timetable-api/internal/models"
)

// ScheduleConfigRepository manages persisted grid configurations.
type ScheduleConfigRepository struct {
	db *sqlx.DB
}

// NewScheduleConfigRepository constructs a ScheduleConfigRepository.
func NewScheduleConfigRepository(db *sqlx.DB) *ScheduleConfigRepository {
	return &ScheduleConfigRepository{db: db}
}

// List returns all schedule configs, most recent first.
func (r *ScheduleConfigRepository) List(ctx context.Context) ([]models.ScheduleConfig, error) {
	const query = `SELECT id, name, days, periods, start_time, class_duration, generated_periods, created_at, updated_at FROM schedule_configs ORDER BY created_at DESC`
	var configs []models.ScheduleConfig
	if err := r.db.SelectContext(ctx, &configs, query); err != nil {
		return nil, fmt.Errorf("list schedule configs: %w", err)
	}
	return configs, nil
}

// FindByID fetches a schedule config by ID.
func (r *ScheduleConfigRepository) FindByID(ctx context.Context, id string) (*models.ScheduleConfig, error) {
	const query = `SELECT id, name, days, periods, start_time, class_duration, generated_periods, created_at, updated_at FROM schedule_configs WHERE id = $1`
	var config models.ScheduleConfig
	if err := r.db.GetContext(ctx, &config, query, id); err != nil {
		return nil, err
	}
	return &config, nil
}

// Create inserts a new schedule config.
func (r *ScheduleConfigRepository) Create(ctx context.Context, config *models.ScheduleConfig) error {
	if config.ID == "" {
		config.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if config.CreatedAt.IsZero() {
		config.CreatedAt = now
	}
	config.UpdatedAt = now

	const query = `INSERT INTO schedule_configs (id, name, days, periods, start_time, class_duration, generated_periods, created_at, updated_at)
		VALUES (:id, :name, :days, :periods, :start_time, :class_duration, :generated_periods, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, config); err != nil {
		return fmt.Errorf("create schedule config: %w", err)
	}
	return nil
}

// UpdateGeneratedPeriods replaces the stored grid for a config. Grid
// parameter changes regenerate the slot sequence wholesale.
func (r *ScheduleConfigRepository) UpdateGeneratedPeriods(ctx context.Context, id string, periods types.JSONText) error {
	const query = `UPDATE schedule_configs SET generated_periods = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, periods, time.Now().UTC()); err != nil {
		return fmt.Errorf("update schedule config grid: %w", err)
	}
	return nil
}

// Delete removes a schedule config.
func (r *ScheduleConfigRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM schedule_configs WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete schedule config: %w", err)
	}
	return nil
}
