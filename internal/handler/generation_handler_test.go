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

type generationServiceMock struct {
	submitResp *models.GenerationJob
	submitErr  error
	statusResp *models.GenerationJob
	cancelResp *models.GenerationJob
	cancelErr  error
	resultResp json.RawMessage
	resultErr  error
}

func (m *generationServiceMock) Submit(ctx context.Context, req dto.SubmitGenerationRequest) (*models.GenerationJob, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return m.submitResp, nil
}

func (m *generationServiceMock) Status(ctx context.Context) *models.GenerationJob {
	return m.statusResp
}

func (m *generationServiceMock) Cancel(ctx context.Context) (*models.GenerationJob, error) {
	if m.cancelErr != nil {
		return nil, m.cancelErr
	}
	return m.cancelResp, nil
}

func (m *generationServiceMock) Result(ctx context.Context, taskID string) (json.RawMessage, error) {
	if m.resultErr != nil {
		return nil, m.resultErr
	}
	return m.resultResp, nil
}

func submitContext(t *testing.T, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/generation", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestGenerationHandlerSubmitAccepted(t *testing.T) {
	mock := &generationServiceMock{submitResp: &models.GenerationJob{TaskID: "task-1", State: models.JobStatePolling}}
	handler := NewGenerationHandler(mock)

	body, _ := json.Marshal(dto.SubmitGenerationRequest{ScheduleConfigID: "cfg-1"})
	c, w := submitContext(t, body)

	handler.Submit(c)
	require.Equal(t, http.StatusAccepted, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Error)
}

func TestGenerationHandlerSubmitConflict(t *testing.T) {
	mock := &generationServiceMock{submitErr: appErrors.Clone(appErrors.ErrAlreadyInProgress, "")}
	handler := NewGenerationHandler(mock)

	body, _ := json.Marshal(dto.SubmitGenerationRequest{ScheduleConfigID: "cfg-1"})
	c, w := submitContext(t, body)

	handler.Submit(c)
	require.Equal(t, http.StatusConflict, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrAlreadyInProgress.Code, envelope.Error.Code)
}

func TestGenerationHandlerSubmitInvalidBody(t *testing.T) {
	handler := NewGenerationHandler(&generationServiceMock{})

	c, w := submitContext(t, []byte(`invalid`))

	handler.Submit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerationHandlerStatus(t *testing.T) {
	mock := &generationServiceMock{statusResp: &models.GenerationJob{State: models.JobStateIdle}}
	handler := NewGenerationHandler(mock)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/generation", nil)

	handler.Status(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(models.JobStateIdle))
}

func TestGenerationHandlerCancelWithoutJob(t *testing.T) {
	mock := &generationServiceMock{cancelErr: appErrors.Validation("state", "no generation job is in progress")}
	handler := NewGenerationHandler(mock)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/generation", nil)

	handler.Cancel(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerationHandlerResultNotFound(t *testing.T) {
	mock := &generationServiceMock{resultErr: appErrors.Clone(appErrors.ErrNotFound, "no result for this task")}
	handler := NewGenerationHandler(mock)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/generation/results/task-9", nil)
	c.Params = gin.Params{{Key: "task_id", Value: "task-9"}}

	handler.Result(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
