package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-suite/timetable-api/internal/dto"
	"github.com/campus-suite/timetable-api/internal/models"
	"github.com/campus-suite/timetable-api/internal/solver"
	"github.com/campus-suite/timetable-api/pkg/config"
	appErrors "github.com/campus-suite/timetable-api/pkg/errors"
)

type scriptedSolver struct {
	mu          sync.Mutex
	submitErr   error
	submitGate  chan struct{}
	statuses    []dto.SolverTaskStatus
	submitCalls int
	statusCalls int
}

func (s *scriptedSolver) Submit(ctx context.Context, submission dto.SolverSubmission) (*dto.SolverTask, error) {
	s.mu.Lock()
	s.submitCalls++
	err := s.submitErr
	gate := s.submitGate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return &dto.SolverTask{TaskID: "task-1"}, nil
}

func (s *scriptedSolver) Status(ctx context.Context, taskID string) (*dto.SolverTaskStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusCalls++
	if len(s.statuses) == 0 {
		return &dto.SolverTaskStatus{Status: solver.StatusPending}, nil
	}
	next := s.statuses[0]
	if len(s.statuses) > 1 {
		s.statuses = s.statuses[1:]
	}
	return &next, nil
}

func (s *scriptedSolver) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitCalls, s.statusCalls
}

type staticConstraintSource struct{}

func (staticConstraintSource) ActivePayload(ctx context.Context) ([]dto.ConstraintPayload, error) {
	return []dto.ConstraintPayload{{Key: "commute_time", Importance: models.ImportanceImportant}}, nil
}

func newGenerationService(client *scriptedSolver, pollTimeout time.Duration) *GenerationService {
	configs := &stubConfigLoader{cfg: &models.ScheduleConfig{ID: "cfg-1"}}
	return NewGenerationService(client, staticConstraintSource{}, configs, nil, NewMetricsService(), nil, nil, config.SolverConfig{
		PollInterval: 5 * time.Millisecond,
		PollTimeout:  pollTimeout,
	})
}

func submitRequest() dto.SubmitGenerationRequest {
	return dto.SubmitGenerationRequest{ScheduleConfigID: "cfg-1"}
}

func TestGenerationSucceeds(t *testing.T) {
	client := &scriptedSolver{statuses: []dto.SolverTaskStatus{
		{Status: solver.StatusPending},
		{Status: "RUNNING"},
		{Status: solver.StatusSuccess, Result: json.RawMessage(`{"timetable":[]}`)},
	}}
	svc := newGenerationService(client, time.Minute)

	job, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)
	assert.Equal(t, models.JobStatePolling, job.State)
	assert.Equal(t, "task-1", job.TaskID)

	require.Eventually(t, func() bool {
		return svc.Status(context.Background()).State == models.JobStateSucceeded
	}, time.Second, 5*time.Millisecond)

	resolved := svc.Status(context.Background())
	assert.JSONEq(t, `{"timetable":[]}`, string(resolved.Result))
	require.NotNil(t, resolved.ResolvedAt)

	result, err := svc.Result(context.Background(), "task-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"timetable":[]}`, string(result))
}

func TestGenerationDoubleSubmitFailsFast(t *testing.T) {
	client := &scriptedSolver{}
	svc := newGenerationService(client, time.Minute)

	_, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), submitRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyInProgress.Code, appErrors.FromError(err).Code)

	// The rejected submit must not have reached the solver.
	submits, _ := client.counts()
	assert.Equal(t, 1, submits)

	_, err = svc.Cancel(context.Background())
	require.NoError(t, err)
}

func TestGenerationSubmissionFailureReturnsToIdle(t *testing.T) {
	client := &scriptedSolver{submitErr: appErrors.Clone(appErrors.ErrNetwork, "")}
	svc := newGenerationService(client, time.Minute)

	_, err := svc.Submit(context.Background(), submitRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNetwork.Code, appErrors.FromError(err).Code)
	assert.Equal(t, models.JobStateIdle, svc.Status(context.Background()).State)

	// A submission-level failure must not block the next attempt.
	client.mu.Lock()
	client.submitErr = nil
	client.mu.Unlock()
	_, err = svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background())
	require.NoError(t, err)
}

func TestGenerationFailureCarriesReason(t *testing.T) {
	client := &scriptedSolver{statuses: []dto.SolverTaskStatus{
		{Status: solver.StatusFailure, Error: "infeasible constraint set"},
	}}
	svc := newGenerationService(client, time.Minute)

	_, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return svc.Status(context.Background()).State == models.JobStateFailed
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "infeasible constraint set", svc.Status(context.Background()).FailureReason)

	// Terminal jobs release the single-job slot.
	_, err = svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background())
	require.NoError(t, err)
}

func TestGenerationCancelStopsPolling(t *testing.T) {
	client := &scriptedSolver{}
	svc := newGenerationService(client, time.Minute)

	_, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	job, err := svc.Cancel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.JobStateCancelled, job.State)
	require.NotNil(t, job.ResolvedAt)

	_, after := client.counts()
	time.Sleep(50 * time.Millisecond)
	_, later := client.counts()
	assert.Equal(t, after, later)

	_, err = svc.Cancel(context.Background())
	require.Error(t, err)
}

func TestGenerationCancelDuringSubmitStaysCancelled(t *testing.T) {
	gate := make(chan struct{})
	client := &scriptedSolver{submitGate: gate}
	svc := newGenerationService(client, time.Minute)

	done := make(chan struct{})
	go func() {
		defer close(done)
		job, err := svc.Submit(context.Background(), submitRequest())
		assert.NoError(t, err)
		assert.Equal(t, models.JobStateCancelled, job.State)
	}()

	require.Eventually(t, func() bool {
		return svc.Status(context.Background()).State == models.JobStateSubmitting
	}, time.Second, time.Millisecond)

	job, err := svc.Cancel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.JobStateCancelled, job.State)

	// Releasing the in-flight submit must not revive the job.
	close(gate)
	<-done
	assert.Equal(t, models.JobStateCancelled, svc.Status(context.Background()).State)

	_, before := client.counts()
	time.Sleep(50 * time.Millisecond)
	_, after := client.counts()
	assert.Equal(t, before, after)
}

func TestGenerationPollTimeout(t *testing.T) {
	client := &scriptedSolver{}
	svc := newGenerationService(client, 10*time.Millisecond)

	_, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return svc.Status(context.Background()).State == models.JobStateFailed
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, svc.Status(context.Background()).FailureReason, "timed out")
}
