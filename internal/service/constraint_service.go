package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-suite/timetable-api/internal/dto"
	"github.com/campus-suite/timetable-api/internal/models"
	appErrors "github.com/campus-suite/timetable-api/pkg/errors"
)

// constraintCatalogue is the fixed set of soft constraints offered to the
// solver. Keys are stable identifiers; position fixes payload order.
var constraintCatalogue = []models.Constraint{
	{Key: "commute_time", Name: "Minimize teacher commute time", Importance: models.ImportanceImportant, Active: true, Position: 0},
	{Key: "teacher_day_minimization", Name: "Concentrate each teacher's classes on fewer days", Importance: models.ImportanceImportant, Active: true, Position: 1},
	{Key: "building_grouping", Name: "Group a batch's classes in the same building", Importance: models.ImportanceLessImportant, Active: true, Position: 2},
	{Key: "uniform_distribution", Name: "Distribute lessons uniformly across the week", Importance: models.ImportanceImportant, Active: true, Position: 3},
	{Key: "teacher_gap_minimization", Name: "Minimize idle gaps in teacher schedules", Importance: models.ImportanceVeryImportant, Active: true, Position: 4},
	{Key: "important_lessons_early", Name: "Place high-credit lessons early in the day", Importance: models.ImportanceLessImportant, Active: true, Position: 5},
	{Key: "consecutive_identical", Name: "Allow consecutive identical lessons", Importance: models.ImportanceLessImportant, Active: true, Position: 6},
	{Key: "no_triple_identical", Name: "Never place the same lesson three times in one day", Importance: models.ImportanceVeryImportant, Active: true, Position: 7},
	{Key: "day_spread", Name: "Spread a subject's lessons over appropriate days", Importance: models.ImportanceImportant, Active: true, Position: 8},
}

type constraintRepository interface {
	Seed(ctx context.Context, entries []models.Constraint) error
	ListOrdered(ctx context.Context) ([]models.Constraint, error)
	FindByKey(ctx context.Context, key string) (*models.Constraint, error)
	UpdateWeighting(ctx context.Context, key string, importance models.ImportanceTier, active bool) error
}

// ConstraintService manages the soft-constraint catalogue.
type ConstraintService struct {
	repo      constraintRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConstraintService wires constraint dependencies.
func NewConstraintService(repo constraintRepository, validate *validator.Validate, logger *zap.Logger) *ConstraintService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConstraintService{repo: repo, validator: validate, logger: logger}
}

// SeedCatalogue inserts any catalogue entries not yet present. Existing
// rows keep their stored weighting.
func (s *ConstraintService) SeedCatalogue(ctx context.Context) error {
	if err := s.repo.Seed(ctx, constraintCatalogue); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed constraint catalogue")
	}
	return nil
}

// List returns the catalogue in position order.
func (s *ConstraintService) List(ctx context.Context) ([]models.Constraint, error) {
	constraints, err := s.repo.ListOrdered(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list constraints")
	}
	return constraints, nil
}

// Update adjusts the weighting of one catalogue entry.
func (s *ConstraintService) Update(ctx context.Context, key string, req dto.UpdateConstraintRequest) (*models.Constraint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid constraint payload")
	}
	constraint, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "constraint not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraint")
	}
	if err := s.repo.UpdateWeighting(ctx, key, req.Importance, req.Active); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update constraint")
	}

	constraint.Importance = req.Importance
	constraint.Active = req.Active
	s.logger.Sugar().Infow("constraint updated", "key", key, "importance", req.Importance, "active", req.Active)
	return constraint, nil
}

// ActivePayload returns only active constraints with their importance, in
// catalogue order. Payload order must stay stable so identical catalogue
// state always produces an identical solver request.
func (s *ConstraintService) ActivePayload(ctx context.Context) ([]dto.ConstraintPayload, error) {
	constraints, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	payload := make([]dto.ConstraintPayload, 0, len(constraints))
	for _, constraint := range constraints {
		if constraint.Active {
			payload = append(payload, dto.ConstraintPayload{Key: constraint.Key, Importance: constraint.Importance})
		}
	}
	return payload, nil
}
