package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-suite/timetable-api/internal/dto"
	"github.com/campus-suite/timetable-api/internal/models"
	appErrors "github.com/campus-suite/timetable-api/pkg/errors"
)

// Batch names follow the intake convention: two year digits then the
// two-letter programme code, e.g. "21SW".
var batchNamePattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{2}$`)

type batchRepository interface {
	List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, int, error)
	FindByID(ctx context.Context, id string) (*models.Batch, error)
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
	CountSubjects(ctx context.Context, id string) (int, error)
	Create(ctx context.Context, batch *models.Batch) error
	Update(ctx context.Context, batch *models.Batch) error
	Delete(ctx context.Context, id string) error
}

// BatchService manages intake cohorts.
type BatchService struct {
	repo      batchRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBatchService wires batch dependencies.
func NewBatchService(repo batchRepository, validate *validator.Validate, logger *zap.Logger) *BatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{repo: repo, validator: validate, logger: logger}
}

// List returns batches with pagination metadata.
func (s *BatchService) List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, int, error) {
	batches, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list batches")
	}
	return batches, total, nil
}

// Get loads one batch.
func (s *BatchService) Get(ctx context.Context, id string) (*models.Batch, error) {
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	return batch, nil
}

// Create registers a new batch after the name convention and uniqueness
// checks pass.
func (s *BatchService) Create(ctx context.Context, req dto.CreateBatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}
	name := strings.ToUpper(strings.TrimSpace(req.Name))
	if !batchNamePattern.MatchString(name) {
		return nil, appErrors.Validation("name", "batch name must be two digits followed by two letters, e.g. 21SW")
	}
	taken, err := s.repo.ExistsByName(ctx, name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check batch name")
	}
	if taken {
		return nil, appErrors.Conflict("name", "a batch with this name already exists")
	}

	batch := &models.Batch{
		Name:           name,
		Description:    strings.TrimSpace(req.Description),
		SemesterNumber: req.SemesterNumber,
		AcademicYear:   strings.TrimSpace(req.AcademicYear),
		TotalSections:  req.TotalSections,
	}
	if err := s.repo.Create(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create batch")
	}
	s.logger.Sugar().Infow("batch created", "batch_id", batch.ID, "name", batch.Name)
	return batch, nil
}

// Update edits a batch; the name check excludes the batch itself.
func (s *BatchService) Update(ctx context.Context, id string, req dto.UpdateBatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}
	batch, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.ToUpper(strings.TrimSpace(req.Name))
	if !batchNamePattern.MatchString(name) {
		return nil, appErrors.Validation("name", "batch name must be two digits followed by two letters, e.g. 21SW")
	}
	taken, err := s.repo.ExistsByName(ctx, name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check batch name")
	}
	if taken {
		return nil, appErrors.Conflict("name", "a batch with this name already exists")
	}

	batch.Name = name
	batch.Description = strings.TrimSpace(req.Description)
	batch.SemesterNumber = req.SemesterNumber
	batch.AcademicYear = strings.TrimSpace(req.AcademicYear)
	batch.TotalSections = req.TotalSections
	if err := s.repo.Update(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update batch")
	}
	return batch, nil
}

// Delete removes a batch unless subjects still reference it.
func (s *BatchService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountSubjects(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count batch subjects")
	}
	if count > 0 {
		return appErrors.Conflict("id", "batch still has subjects registered against it")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete batch")
	}
	s.logger.Sugar().Infow("batch deleted", "batch_id", id)
	return nil
}
