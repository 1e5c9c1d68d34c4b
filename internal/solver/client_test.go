package solver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-suite/timetable-api/internal/dto"
	"github.com/campus-suite/timetable-api/internal/models"
	"github.com/campus-suite/timetable-api/pkg/config"
	appErrors "github.com/campus-suite/timetable-api/pkg/errors"
)

func TestClientSubmit(t *testing.T) {
	var captured dto.SolverSubmission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/generate", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("X-API-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(dto.SolverTask{TaskID: "task-1"})
	}))
	defer srv.Close()

	client := NewClient(config.SolverConfig{BaseURL: srv.URL, APIKey: "secret"})
	task, err := client.Submit(context.Background(), dto.SolverSubmission{
		ConfigRef:   "cfg-1",
		Constraints: []dto.ConstraintPayload{{Key: "commute_time", Importance: models.ImportanceImportant}},
	})
	require.NoError(t, err)
	assert.Equal(t, "task-1", task.TaskID)
	assert.Equal(t, "cfg-1", captured.ConfigRef)
	require.Len(t, captured.Constraints, 1)
}

func TestClientSubmitNetworkError(t *testing.T) {
	client := NewClient(config.SolverConfig{BaseURL: "http://127.0.0.1:1"})
	_, err := client.Submit(context.Background(), dto.SolverSubmission{ConfigRef: "cfg-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNetwork.Code, appErrors.FromError(err).Code)
}

func TestClientSubmitMissingTaskID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(dto.SolverTask{})
	}))
	defer srv.Close()

	client := NewClient(config.SolverConfig{BaseURL: srv.URL})
	_, err := client.Submit(context.Background(), dto.SolverSubmission{ConfigRef: "cfg-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNetwork.Code, appErrors.FromError(err).Code)
}

func TestClientStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tasks/task-1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(dto.SolverTaskStatus{Status: StatusSuccess, Result: json.RawMessage(`{"slots":[]}`)})
	}))
	defer srv.Close()

	client := NewClient(config.SolverConfig{BaseURL: srv.URL})
	status, err := client.Status(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, status.Status)
	assert.NotEmpty(t, status.Result)
}

func TestClientStatusHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(config.SolverConfig{BaseURL: srv.URL})
	_, err := client.Status(context.Background(), "task-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNetwork.Code, appErrors.FromError(err).Code)
}
