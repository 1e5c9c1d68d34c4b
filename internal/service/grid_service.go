package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/campus-suite/timetable-api/internal/dto"
	"github.com/campus-suite/timetable-api/internal/models"
	"github.com/campus-suite/timetable-api/pkg/config"
	appErrors "github.com/campus-suite/timetable-api/pkg/errors"
)

type scheduleConfigRepository interface {
	List(ctx context.Context) ([]models.ScheduleConfig, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleConfig, error)
	Create(ctx context.Context, cfg *models.ScheduleConfig) error
	UpdateGeneratedPeriods(ctx context.Context, id string, periods types.JSONText) error
	Delete(ctx context.Context, id string) error
}

type configCache interface {
	SetConfig(ctx context.Context, cfg *models.ScheduleConfig)
	GetConfig(ctx context.Context, id string) (*models.ScheduleConfig, bool)
	InvalidateConfig(ctx context.Context, id string)
}

// GridService owns period grid generation and the persisted schedule
// configurations the grids live in.
type GridService struct {
	configs   scheduleConfigRepository
	cache     configCache
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.GridConfig
}

// NewGridService wires grid dependencies.
func NewGridService(configs scheduleConfigRepository, cache configCache, validate *validator.Validate, logger *zap.Logger, cfg config.GridConfig) *GridService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MinDurationMinutes <= 0 {
		cfg.MinDurationMinutes = 30
	}
	if cfg.MaxPeriodsPerDay <= 0 {
		cfg.MaxPeriodsPerDay = 12
	}
	return &GridService{configs: configs, cache: cache, validator: validate, logger: logger, cfg: cfg}
}

// GenerateGrid builds the ordered slot sequence for each day. It is pure:
// the produced grid replaces any previous one wholesale.
func GenerateGrid(startTime string, periods, durationMinutes int, days []string) (models.PeriodGrid, error) {
	if periods < 1 {
		return nil, appErrors.Validation("periods", "periods must be at least 1")
	}
	if durationMinutes < 30 {
		return nil, appErrors.Validation("classDuration", "class duration must be at least 30 minutes")
	}
	hour, minute, err := parseClock(startTime)
	if err != nil {
		return nil, appErrors.Validation("startTime", "start time must be a well-formed HH:MM value")
	}
	if len(days) == 0 {
		return nil, appErrors.Validation("days", "days must contain at least one entry")
	}

	grid := make(models.PeriodGrid, len(days))
	for _, day := range days {
		slots := make([]models.PeriodSlot, 0, periods)
		h, m := hour, minute
		for i := 0; i < periods; i++ {
			endH, endM := addMinutes(h, m, durationMinutes)
			slots = append(slots, models.PeriodSlot{
				ID:        uuid.NewString(),
				Day:       day,
				Index:     i,
				StartTime: formatTwelveHour(h, m),
				EndTime:   formatTwelveHour(endH, endM),
				Kind:      models.SlotKindClass,
			})
			h, m = endH, endM
		}
		grid[day] = slots
	}
	return grid, nil
}

// InsertBreak places a break marker immediately after afterIndex for one
// day. Time labels are untouched; only positional indices shift.
func InsertBreak(grid models.PeriodGrid, day string, afterIndex int) error {
	slots, ok := grid[day]
	if !ok {
		return appErrors.Validation("day", fmt.Sprintf("day %s is not part of the grid", day))
	}
	if afterIndex < 0 || afterIndex >= len(slots) {
		return appErrors.Validation("afterIndex", "break position is outside the day's slot range")
	}

	marker := models.PeriodSlot{ID: uuid.NewString(), Day: day, Kind: models.SlotKindBreak}
	updated := make([]models.PeriodSlot, 0, len(slots)+1)
	updated = append(updated, slots[:afterIndex+1]...)
	updated = append(updated, marker)
	updated = append(updated, slots[afterIndex+1:]...)
	reindex(updated)
	grid[day] = updated
	return nil
}

// RemoveSlot drops the slot at the given position for one day.
func RemoveSlot(grid models.PeriodGrid, day string, index int) error {
	slots, ok := grid[day]
	if !ok {
		return appErrors.Validation("day", fmt.Sprintf("day %s is not part of the grid", day))
	}
	if index < 0 || index >= len(slots) {
		return appErrors.Validation("index", "slot position is outside the day's slot range")
	}

	updated := append(slots[:index:index], slots[index+1:]...)
	reindex(updated)
	grid[day] = updated
	return nil
}

// AppendSlot extends a day by one class slot. The next start is computed
// from the last class slot, skipping trailing break markers; an empty day
// falls back to the configured start time plus one duration.
func AppendSlot(grid models.PeriodGrid, day, startTime string, durationMinutes int) error {
	slots, ok := grid[day]
	if !ok {
		return appErrors.Validation("day", fmt.Sprintf("day %s is not part of the grid", day))
	}

	var h, m int
	if last := lastClassSlot(slots); last != nil {
		var err error
		h, m, err = parseTwelveHour(last.StartTime)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored slot label is unreadable")
		}
		h, m = addMinutes(h, m, durationMinutes)
	} else {
		var err error
		h, m, err = parseClock(startTime)
		if err != nil {
			return appErrors.Validation("startTime", "start time must be a well-formed HH:MM value")
		}
		h, m = addMinutes(h, m, durationMinutes)
	}

	endH, endM := addMinutes(h, m, durationMinutes)
	updated := append(slots, models.PeriodSlot{
		ID:        uuid.NewString(),
		Day:       day,
		StartTime: formatTwelveHour(h, m),
		EndTime:   formatTwelveHour(endH, endM),
		Kind:      models.SlotKindClass,
	})
	reindex(updated)
	grid[day] = updated
	return nil
}

// Generate builds a grid from request parameters without persisting it.
func (s *GridService) Generate(ctx context.Context, req dto.GenerateGridRequest) (models.PeriodGrid, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grid payload")
	}
	if req.Periods > s.cfg.MaxPeriodsPerDay {
		return nil, appErrors.Validation("periods", fmt.Sprintf("periods may not exceed %d", s.cfg.MaxPeriodsPerDay))
	}
	return GenerateGrid(req.StartTime, req.Periods, req.ClassDuration, req.Days)
}

// SaveConfig persists a named configuration together with a freshly
// generated grid.
func (s *GridService) SaveConfig(ctx context.Context, req dto.SaveScheduleConfigRequest) (*models.ScheduleConfig, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule config payload")
	}
	grid, err := GenerateGrid(req.StartTime, req.Periods, req.ClassDuration, req.Days)
	if err != nil {
		return nil, err
	}

	gridJSON, err := json.Marshal(grid)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode grid")
	}
	daysJSON, err := json.Marshal(req.Days)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode days")
	}

	record := &models.ScheduleConfig{
		Name:             req.Name,
		Days:             types.JSONText(daysJSON),
		Periods:          req.Periods,
		StartTime:        req.StartTime,
		ClassDuration:    req.ClassDuration,
		GeneratedPeriods: types.JSONText(gridJSON),
	}
	if err := s.configs.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule config")
	}
	if s.cache != nil {
		s.cache.SetConfig(ctx, record)
	}
	s.logger.Sugar().Infow("schedule config saved", "config_id", record.ID, "periods", record.Periods)
	return record, nil
}

// ListConfigs returns all stored configurations.
func (s *GridService) ListConfigs(ctx context.Context) ([]models.ScheduleConfig, error) {
	configs, err := s.configs.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule configs")
	}
	return configs, nil
}

// GetConfig loads one configuration, preferring the cache.
func (s *GridService) GetConfig(ctx context.Context, id string) (*models.ScheduleConfig, error) {
	if s.cache != nil {
		if cfg, ok := s.cache.GetConfig(ctx, id); ok {
			return cfg, nil
		}
	}
	cfg, err := s.configs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule config not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule config")
	}
	if s.cache != nil {
		s.cache.SetConfig(ctx, cfg)
	}
	return cfg, nil
}

// InsertBreak mutates a stored config's grid by inserting a break marker.
func (s *GridService) InsertBreak(ctx context.Context, configID string, req dto.InsertBreakRequest) (models.PeriodGrid, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid break payload")
	}
	return s.mutateGrid(ctx, configID, func(cfg *models.ScheduleConfig, grid models.PeriodGrid) error {
		return InsertBreak(grid, req.Day, req.AfterIndex)
	})
}

// RemoveSlot mutates a stored config's grid by removing one slot.
func (s *GridService) RemoveSlot(ctx context.Context, configID string, req dto.RemoveSlotRequest) (models.PeriodGrid, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	return s.mutateGrid(ctx, configID, func(cfg *models.ScheduleConfig, grid models.PeriodGrid) error {
		return RemoveSlot(grid, req.Day, req.Index)
	})
}

// AppendSlot mutates a stored config's grid by appending one class slot.
func (s *GridService) AppendSlot(ctx context.Context, configID string, req dto.AppendSlotRequest) (models.PeriodGrid, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid append payload")
	}
	return s.mutateGrid(ctx, configID, func(cfg *models.ScheduleConfig, grid models.PeriodGrid) error {
		return AppendSlot(grid, req.Day, cfg.StartTime, cfg.ClassDuration)
	})
}

// DeleteConfig removes a stored configuration.
func (s *GridService) DeleteConfig(ctx context.Context, id string) error {
	if _, err := s.GetConfig(ctx, id); err != nil {
		return err
	}
	if err := s.configs.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule config")
	}
	if s.cache != nil {
		s.cache.InvalidateConfig(ctx, id)
	}
	return nil
}

func (s *GridService) mutateGrid(ctx context.Context, configID string, mutate func(*models.ScheduleConfig, models.PeriodGrid) error) (models.PeriodGrid, error) {
	cfg, err := s.GetConfig(ctx, configID)
	if err != nil {
		return nil, err
	}
	grid := make(models.PeriodGrid)
	if len(cfg.GeneratedPeriods) > 0 {
		if err := json.Unmarshal(cfg.GeneratedPeriods, &grid); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored grid is unreadable")
		}
	}
	if err := mutate(cfg, grid); err != nil {
		return nil, err
	}

	gridJSON, err := json.Marshal(grid)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode grid")
	}
	if err := s.configs.UpdateGeneratedPeriods(ctx, configID, types.JSONText(gridJSON)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist grid")
	}
	cfg.GeneratedPeriods = types.JSONText(gridJSON)
	if s.cache != nil {
		s.cache.SetConfig(ctx, cfg)
	}
	return grid, nil
}

// --- Time helpers ---

func parseClock(raw string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed clock value %q", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("malformed hour in %q", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("malformed minute in %q", raw)
	}
	return hour, minute, nil
}

// addMinutes advances a clock position, wrapping at midnight.
func addMinutes(hour, minute, delta int) (int, int) {
	total := hour*60 + minute + delta
	total %= 24 * 60
	if total < 0 {
		total += 24 * 60
	}
	return total / 60, total % 60
}

// formatTwelveHour renders a 24-hour clock position as "H:MM AM/PM" with
// the 0 -> 12 normalisation.
func formatTwelveHour(hour, minute int) string {
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, meridiem)
}

func parseTwelveHour(label string) (int, int, error) {
	var hour, minute int
	var meridiem string
	if _, err := fmt.Sscanf(strings.TrimSpace(label), "%d:%d %s", &hour, &minute, &meridiem); err != nil {
		return 0, 0, fmt.Errorf("malformed time label %q", label)
	}
	if hour < 1 || hour > 12 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("malformed time label %q", label)
	}
	hour %= 12
	if strings.EqualFold(meridiem, "PM") {
		hour += 12
	} else if !strings.EqualFold(meridiem, "AM") {
		return 0, 0, fmt.Errorf("malformed time label %q", label)
	}
	return hour, minute, nil
}

func lastClassSlot(slots []models.PeriodSlot) *models.PeriodSlot {
	for i := len(slots) - 1; i >= 0; i-- {
		if slots[i].Kind == models.SlotKindClass {
			return &slots[i]
		}
	}
	return nil
}

func reindex(slots []models.PeriodSlot) {
	for i := range slots {
		slots[i].Index = i
	}
}
