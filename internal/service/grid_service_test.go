package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-suite/timetable-api/internal/dto"
	"github.com/campus-suite/timetable-api/internal/models"
	"github.com/campus-suite/timetable-api/pkg/config"
	appErrors "github.com/campus-suite/timetable-api/pkg/errors"
)

type stubConfigRepo struct {
	configs map[string]*models.ScheduleConfig
	updated types.JSONText
}

func newStubConfigRepo() *stubConfigRepo {
	return &stubConfigRepo{configs: make(map[string]*models.ScheduleConfig)}
}

func (s *stubConfigRepo) List(ctx context.Context) ([]models.ScheduleConfig, error) {
	out := make([]models.ScheduleConfig, 0, len(s.configs))
	for _, cfg := range s.configs {
		out = append(out, *cfg)
	}
	return out, nil
}

func (s *stubConfigRepo) FindByID(ctx context.Context, id string) (*models.ScheduleConfig, error) {
	if cfg, ok := s.configs[id]; ok {
		copied := *cfg
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubConfigRepo) Create(ctx context.Context, cfg *models.ScheduleConfig) error {
	if cfg.ID == "" {
		cfg.ID = "cfg-1"
	}
	stored := *cfg
	s.configs[cfg.ID] = &stored
	return nil
}

func (s *stubConfigRepo) UpdateGeneratedPeriods(ctx context.Context, id string, periods types.JSONText) error {
	s.updated = periods
	if cfg, ok := s.configs[id]; ok {
		cfg.GeneratedPeriods = periods
	}
	return nil
}

func (s *stubConfigRepo) Delete(ctx context.Context, id string) error {
	delete(s.configs, id)
	return nil
}

func newGridService(repo *stubConfigRepo) *GridService {
	return NewGridService(repo, nil, nil, nil, config.GridConfig{MaxPeriodsPerDay: 12, MinDurationMinutes: 30})
}

func TestGenerateGridLabels(t *testing.T) {
	grid, err := GenerateGrid("08:00", 4, 60, []string{"monday"})
	require.NoError(t, err)

	labels := grid.Labels()
	assert.Equal(t, []string{"8:00 AM", "9:00 AM", "10:00 AM", "11:00 AM"}, labels["monday"])
	for i, slot := range grid["monday"] {
		assert.Equal(t, i, slot.Index)
		assert.NotEmpty(t, slot.ID)
		assert.Equal(t, models.SlotKindClass, slot.Kind)
	}
}

func TestGenerateGridNoonAndMidnight(t *testing.T) {
	grid, err := GenerateGrid("11:30", 2, 45, []string{"friday"})
	require.NoError(t, err)
	assert.Equal(t, []string{"11:30 AM", "12:15 PM"}, grid.Labels()["friday"])

	grid, err = GenerateGrid("23:30", 2, 60, []string{"friday"})
	require.NoError(t, err)
	assert.Equal(t, []string{"11:30 PM", "12:30 AM"}, grid.Labels()["friday"])
}

func TestGenerateGridValidation(t *testing.T) {
	cases := []struct {
		name     string
		start    string
		periods  int
		duration int
		days     []string
		field    string
	}{
		{"zero periods", "08:00", 0, 60, []string{"monday"}, "periods"},
		{"short duration", "08:00", 4, 20, []string{"monday"}, "classDuration"},
		{"malformed start", "8 o'clock", 4, 60, []string{"monday"}, "startTime"},
		{"hour out of range", "25:00", 4, 60, []string{"monday"}, "startTime"},
		{"no days", "08:00", 4, 60, nil, "days"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := GenerateGrid(tc.start, tc.periods, tc.duration, tc.days)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
			assert.Equal(t, tc.field, appErr.Field)
		})
	}
}

func TestInsertBreakShiftsIndices(t *testing.T) {
	grid, err := GenerateGrid("08:00", 4, 60, []string{"monday"})
	require.NoError(t, err)
	before := grid["monday"][2]

	require.NoError(t, InsertBreak(grid, "monday", 1))

	labels := grid.Labels()["monday"]
	assert.Equal(t, []string{"8:00 AM", "9:00 AM", "Break", "10:00 AM", "11:00 AM"}, labels)

	// The slot that moved keeps its identity under the new index.
	moved := grid["monday"][3]
	assert.Equal(t, before.ID, moved.ID)
	assert.Equal(t, 3, moved.Index)
	assert.Equal(t, "10:00 AM", moved.StartTime)
}

func TestInsertBreakOutOfRange(t *testing.T) {
	grid, err := GenerateGrid("08:00", 2, 60, []string{"monday"})
	require.NoError(t, err)

	require.Error(t, InsertBreak(grid, "monday", 5))
	require.Error(t, InsertBreak(grid, "tuesday", 0))
}

func TestRemoveSlotReindexes(t *testing.T) {
	grid, err := GenerateGrid("08:00", 3, 60, []string{"monday"})
	require.NoError(t, err)

	require.NoError(t, RemoveSlot(grid, "monday", 0))

	labels := grid.Labels()["monday"]
	assert.Equal(t, []string{"9:00 AM", "10:00 AM"}, labels)
	for i, slot := range grid["monday"] {
		assert.Equal(t, i, slot.Index)
	}
}

func TestAppendSlotSkipsTrailingBreaks(t *testing.T) {
	grid, err := GenerateGrid("08:00", 4, 60, []string{"monday"})
	require.NoError(t, err)
	require.NoError(t, InsertBreak(grid, "monday", 3))

	require.NoError(t, AppendSlot(grid, "monday", "08:00", 60))

	labels := grid.Labels()["monday"]
	assert.Equal(t, []string{"8:00 AM", "9:00 AM", "10:00 AM", "11:00 AM", "Break", "12:00 PM"}, labels)
}

func TestAppendSlotEmptyDay(t *testing.T) {
	grid := models.PeriodGrid{"monday": {}}

	require.NoError(t, AppendSlot(grid, "monday", "08:00", 60))

	assert.Equal(t, []string{"9:00 AM"}, grid.Labels()["monday"])
}

func TestSaveConfigPersistsGrid(t *testing.T) {
	repo := newStubConfigRepo()
	svc := newGridService(repo)

	cfg, err := svc.SaveConfig(context.Background(), dto.SaveScheduleConfigRequest{
		Name:          "Autumn block",
		StartTime:     "08:00",
		Periods:       4,
		ClassDuration: 60,
		Days:          []string{"monday", "tuesday"},
	})
	require.NoError(t, err)
	require.NotNil(t, cfg)

	var grid models.PeriodGrid
	require.NoError(t, json.Unmarshal(cfg.GeneratedPeriods, &grid))
	assert.Len(t, grid["monday"], 4)
	assert.Len(t, grid["tuesday"], 4)
}

func TestGridMutationsPersistThroughConfig(t *testing.T) {
	repo := newStubConfigRepo()
	svc := newGridService(repo)

	cfg, err := svc.SaveConfig(context.Background(), dto.SaveScheduleConfigRequest{
		Name:          "Autumn block",
		StartTime:     "08:00",
		Periods:       4,
		ClassDuration: 60,
		Days:          []string{"monday"},
	})
	require.NoError(t, err)

	_, err = svc.InsertBreak(context.Background(), cfg.ID, dto.InsertBreakRequest{Day: "monday", AfterIndex: 1})
	require.NoError(t, err)

	grid, err := svc.AppendSlot(context.Background(), cfg.ID, dto.AppendSlotRequest{Day: "monday"})
	require.NoError(t, err)
	assert.Equal(t, []string{"8:00 AM", "9:00 AM", "Break", "10:00 AM", "11:00 AM", "12:00 PM"}, grid.Labels()["monday"])

	require.NotEmpty(t, repo.updated)
}

func TestGetConfigNotFound(t *testing.T) {
	svc := newGridService(newStubConfigRepo())

	_, err := svc.GetConfig(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
