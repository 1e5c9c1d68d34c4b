package service

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-suite/timetable-api/internal/models"
	"github.com/campus-suite/timetable-api/pkg/config"
	appErrors "github.com/campus-suite/timetable-api/pkg/errors"
)

func exportFixture(t *testing.T) *models.ScheduleConfig {
	t.Helper()
	grid, err := GenerateGrid("08:00", 2, 60, []string{"tuesday", "monday"})
	require.NoError(t, err)
	require.NoError(t, InsertBreak(grid, "monday", 0))
	encoded, err := json.Marshal(grid)
	require.NoError(t, err)
	return &models.ScheduleConfig{ID: "cfg-1", Name: "Autumn block", GeneratedPeriods: types.JSONText(encoded)}
}

func TestExportCSVOrdersDays(t *testing.T) {
	svc := NewExportService(&stubConfigLoader{cfg: exportFixture(t)}, nil, config.ExportConfig{})

	out, err := svc.CSV(context.Background(), "cfg-1")
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Equal(t, "Period,monday,tuesday", string(lines[0]))
	assert.Equal(t, "1,8:00 AM,8:00 AM", string(lines[1]))
	assert.Equal(t, "2,Break,9:00 AM", string(lines[2]))
	assert.Equal(t, "3,9:00 AM,", string(lines[3]))
}

func TestExportPDFProducesDocument(t *testing.T) {
	svc := NewExportService(&stubConfigLoader{cfg: exportFixture(t)}, nil, config.ExportConfig{Title: "Weekly Timetable"})

	out, err := svc.PDF(context.Background(), "cfg-1")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportRejectsEmptyGrid(t *testing.T) {
	svc := NewExportService(&stubConfigLoader{cfg: &models.ScheduleConfig{ID: "cfg-1"}}, nil, config.ExportConfig{})

	_, err := svc.CSV(context.Background(), "cfg-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
