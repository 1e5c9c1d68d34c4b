package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/campus-suite/timetable-api/internal/dto"
	"github.com/campus-suite/timetable-api/internal/models"
	appErrors "github.com/campus-suite/timetable-api/pkg/errors"
)

type availabilityTeacherRepository interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	UpdateUnavailable(ctx context.Context, id string, unavailable types.JSONText) error
}

type availabilityConfigLoader interface {
	GetConfig(ctx context.Context, id string) (*models.ScheduleConfig, error)
}

// AvailabilityService converts the per-cell editing grid to and from the
// compact wire form stored on each teacher.
type AvailabilityService struct {
	teachers  availabilityTeacherRepository
	configs   availabilityConfigLoader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService wires availability dependencies.
func NewAvailabilityService(teachers availabilityTeacherRepository, configs availabilityConfigLoader, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{teachers: teachers, configs: configs, validator: validate, logger: logger}
}

// EncodeAvailability maps set cells to time labels under the given grid
// vocabulary. Cells whose index falls outside the day's label list are
// dropped without error; they reference a grid shape that no longer exists.
// Break slots are not part of the vocabulary: their shared literal label
// cannot round-trip to a unique index, so cells on them are dropped too.
func EncodeAvailability(grid models.AvailabilityGrid, labels map[string][]string) models.AvailabilityWire {
	wire := models.AvailabilityWire{Mandatory: models.DayMap{}, Preferable: models.DayMap{}}
	for day, cells := range grid {
		dayLabels := labels[day]
		for index, mode := range cells {
			if index < 0 || index >= len(dayLabels) {
				continue
			}
			label := dayLabels[index]
			if label == models.BreakLabel {
				continue
			}
			switch mode {
			case models.AvailabilityMandatory:
				wire.Mandatory[day] = insertLabelOrdered(wire.Mandatory[day], label, dayLabels)
			case models.AvailabilityPreferable:
				wire.Preferable[day] = insertLabelOrdered(wire.Preferable[day], label, dayLabels)
			}
		}
	}
	return wire
}

// DecodeAvailability rebuilds the editing grid from the wire form. Labels
// not present in the current grid vocabulary, and break labels, are
// dropped silently.
func DecodeAvailability(wire models.AvailabilityWire, labels map[string][]string) models.AvailabilityGrid {
	grid := models.AvailabilityGrid{}
	applyDayMap(grid, wire.Mandatory, labels, models.AvailabilityMandatory)
	applyDayMap(grid, wire.Preferable, labels, models.AvailabilityPreferable)
	return grid
}

func applyDayMap(grid models.AvailabilityGrid, dayMap models.DayMap, labels map[string][]string, mode models.AvailabilityMode) {
	for day, marked := range dayMap {
		dayLabels := labels[day]
		for _, label := range marked {
			if label == models.BreakLabel {
				continue
			}
			if index := labelIndex(dayLabels, label); index >= 0 {
				grid.Set(day, index, mode)
			}
		}
	}
}

func labelIndex(labels []string, label string) int {
	for i, candidate := range labels {
		if candidate == label {
			return i
		}
	}
	return -1
}

// insertLabelOrdered keeps day label lists in grid order regardless of the
// iteration order of the cell map.
func insertLabelOrdered(existing []string, label string, dayLabels []string) []string {
	target := labelIndex(dayLabels, label)
	for i, current := range existing {
		if labelIndex(dayLabels, current) > target {
			out := make([]string, 0, len(existing)+1)
			out = append(out, existing[:i]...)
			out = append(out, label)
			return append(out, existing[i:]...)
		}
	}
	return append(existing, label)
}

// GetForTeacher loads a teacher's stored availability and decodes it
// against the named config's current grid.
func (s *AvailabilityService) GetForTeacher(ctx context.Context, teacherID, configID string) (*dto.AvailabilityResponse, error) {
	teacher, err := s.loadTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	labels, err := s.gridLabels(ctx, configID)
	if err != nil {
		return nil, err
	}

	var wire models.AvailabilityWire
	if len(teacher.Unavailable) > 0 {
		if err := json.Unmarshal(teacher.Unavailable, &wire); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored availability is unreadable")
		}
	}

	grid := DecodeAvailability(wire, labels)
	// Re-encode so stale labels dropped during decode disappear from the
	// response as well.
	return &dto.AvailabilityResponse{Wire: EncodeAvailability(grid, labels), Grid: presentGrid(grid)}, nil
}

// UpdateForTeacher replaces a teacher's availability from the supplied
// cells, persisting the encoded wire form.
func (s *AvailabilityService) UpdateForTeacher(ctx context.Context, teacherID string, req dto.UpdateAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	if _, err := s.loadTeacher(ctx, teacherID); err != nil {
		return nil, err
	}
	labels, err := s.gridLabels(ctx, req.ScheduleConfigID)
	if err != nil {
		return nil, err
	}

	grid := models.AvailabilityGrid{}
	for _, cell := range req.Cells {
		grid.Set(cell.Day, cell.Index, cell.Mode)
	}

	wire := EncodeAvailability(grid, labels)
	encoded, err := json.Marshal(wire)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode availability")
	}
	if err := s.teachers.UpdateUnavailable(ctx, teacherID, types.JSONText(encoded)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save availability")
	}
	s.logger.Sugar().Infow("teacher availability updated", "teacher_id", teacherID, "config_id", req.ScheduleConfigID)
	return &dto.AvailabilityResponse{Wire: wire, Grid: presentGrid(DecodeAvailability(wire, labels))}, nil
}

func (s *AvailabilityService) loadTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.teachers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

func (s *AvailabilityService) gridLabels(ctx context.Context, configID string) (map[string][]string, error) {
	cfg, err := s.configs.GetConfig(ctx, configID)
	if err != nil {
		return nil, err
	}
	grid := make(models.PeriodGrid)
	if len(cfg.GeneratedPeriods) > 0 {
		if err := json.Unmarshal(cfg.GeneratedPeriods, &grid); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored grid is unreadable")
		}
	}
	return grid.Labels(), nil
}

func presentGrid(grid models.AvailabilityGrid) map[string]map[int]string {
	out := make(map[string]map[int]string, len(grid))
	for day, cells := range grid {
		out[day] = make(map[int]string, len(cells))
		for index, mode := range cells {
			out[day][index] = string(mode)
		}
	}
	return out
}
