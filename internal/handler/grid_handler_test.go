package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-suite/timetable-api/internal/dto"
	"github.com/campus-suite/timetable-api/internal/models"
	appErrors "github.com/campus-suite/timetable-api/pkg/errors"
	"github.com/campus-suite/timetable-api/pkg/response"
)

type gridServiceMock struct {
	grid       models.PeriodGrid
	generated  *dto.GenerateGridRequest
	generErr   error
	config     *models.ScheduleConfig
	configErr  error
	deleteErr  error
	breakGrids models.PeriodGrid
}

func (m *gridServiceMock) Generate(ctx context.Context, req dto.GenerateGridRequest) (models.PeriodGrid, error) {
	m.generated = &req
	if m.generErr != nil {
		return nil, m.generErr
	}
	return m.grid, nil
}

func (m *gridServiceMock) SaveConfig(ctx context.Context, req dto.SaveScheduleConfigRequest) (*models.ScheduleConfig, error) {
	if m.configErr != nil {
		return nil, m.configErr
	}
	return m.config, nil
}

func (m *gridServiceMock) ListConfigs(ctx context.Context) ([]models.ScheduleConfig, error) {
	if m.config == nil {
		return []models.ScheduleConfig{}, nil
	}
	return []models.ScheduleConfig{*m.config}, nil
}

func (m *gridServiceMock) GetConfig(ctx context.Context, id string) (*models.ScheduleConfig, error) {
	if m.configErr != nil {
		return nil, m.configErr
	}
	return m.config, nil
}

func (m *gridServiceMock) InsertBreak(ctx context.Context, configID string, req dto.InsertBreakRequest) (models.PeriodGrid, error) {
	return m.breakGrids, nil
}

func (m *gridServiceMock) RemoveSlot(ctx context.Context, configID string, req dto.RemoveSlotRequest) (models.PeriodGrid, error) {
	return m.breakGrids, nil
}

func (m *gridServiceMock) AppendSlot(ctx context.Context, configID string, req dto.AppendSlotRequest) (models.PeriodGrid, error) {
	return m.breakGrids, nil
}

func (m *gridServiceMock) DeleteConfig(ctx context.Context, id string) error {
	return m.deleteErr
}

func jsonContext(t *testing.T, method, path string, payload interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var body []byte
	if raw, ok := payload.([]byte); ok {
		body = raw
	} else if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	req, err := http.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestGridHandlerGeneratePreview(t *testing.T) {
	grid := models.PeriodGrid{"monday": {{ID: "slot-1", Day: "monday", StartTime: "8:00 AM", Kind: models.SlotKindClass}}}
	mock := &gridServiceMock{grid: grid}
	handler := NewGridHandler(mock)

	c, w := jsonContext(t, http.MethodPost, "/schedule-configs/preview", dto.GenerateGridRequest{
		StartTime:     "08:00",
		Periods:       4,
		ClassDuration: 60,
		Days:          []string{"monday"},
	})

	handler.Generate(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mock.generated)
	assert.Equal(t, "08:00", mock.generated.StartTime)
}

func TestGridHandlerGenerateInvalidBody(t *testing.T) {
	handler := NewGridHandler(&gridServiceMock{})

	c, w := jsonContext(t, http.MethodPost, "/schedule-configs/preview", []byte(`not json`))

	handler.Generate(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGridHandlerGenerateValidationError(t *testing.T) {
	mock := &gridServiceMock{generErr: appErrors.Validation("classDuration", "class duration must be at least 30 minutes")}
	handler := NewGridHandler(mock)

	c, w := jsonContext(t, http.MethodPost, "/schedule-configs/preview", dto.GenerateGridRequest{
		StartTime:     "08:00",
		Periods:       4,
		ClassDuration: 10,
		Days:          []string{"monday"},
	})

	handler.Generate(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "classDuration", envelope.Error.Field)
}

func TestGridHandlerGetMissingConfig(t *testing.T) {
	mock := &gridServiceMock{configErr: appErrors.Clone(appErrors.ErrNotFound, "schedule config not found")}
	handler := NewGridHandler(mock)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/schedule-configs/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGridHandlerInsertBreak(t *testing.T) {
	mock := &gridServiceMock{breakGrids: models.PeriodGrid{"monday": {}}}
	handler := NewGridHandler(mock)

	c, w := jsonContext(t, http.MethodPost, "/schedule-configs/cfg-1/breaks", dto.InsertBreakRequest{Day: "monday", AfterIndex: 1})
	c.Params = gin.Params{{Key: "id", Value: "cfg-1"}}

	handler.InsertBreak(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
