package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-suite/timetable-api/internal/dto"
	"github.com/campus-suite/timetable-api/internal/models"
	"github.com/campus-suite/timetable-api/internal/solver"
	"github.com/campus-suite/timetable-api/pkg/config"
	appErrors "github.com/campus-suite/timetable-api/pkg/errors"
	"github.com/campus-suite/timetable-api/pkg/poll"
)

type solverClient interface {
	Submit(ctx context.Context, submission dto.SolverSubmission) (*dto.SolverTask, error)
	Status(ctx context.Context, taskID string) (*dto.SolverTaskStatus, error)
}

type constraintPayloadSource interface {
	ActivePayload(ctx context.Context) ([]dto.ConstraintPayload, error)
}

type generationConfigLoader interface {
	GetConfig(ctx context.Context, id string) (*models.ScheduleConfig, error)
}

type resultCache interface {
	SetResult(ctx context.Context, taskID string, result json.RawMessage)
	GetResult(ctx context.Context, taskID string) (json.RawMessage, bool)
}

// GenerationService orchestrates solver runs. It holds at most one live
// job; a resolved job is kept only until the next submit replaces it.
type GenerationService struct {
	client      solverClient
	constraints constraintPayloadSource
	configs     generationConfigLoader
	cache       resultCache
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         config.SolverConfig
	poller      *poll.Poller

	mu  sync.Mutex
	job models.GenerationJob
}

// NewGenerationService wires the orchestrator.
func NewGenerationService(client solverClient, constraints constraintPayloadSource, configs generationConfigLoader, cache resultCache, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg config.SolverConfig) *GenerationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 5 * time.Minute
	}
	return &GenerationService{
		client:      client,
		constraints: constraints,
		configs:     configs,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
		poller:      poll.New("generation", cfg.PollInterval, logger),
		job:         models.GenerationJob{State: models.JobStateIdle},
	}
}

// Submit posts a generation request and starts the poll loop. It fails
// fast, without touching the network, while a previous job is still live.
func (s *GenerationService) Submit(ctx context.Context, req dto.SubmitGenerationRequest) (*models.GenerationJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}

	s.mu.Lock()
	if s.job.State == models.JobStateSubmitting || s.job.State == models.JobStatePolling {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrAlreadyInProgress, "")
	}
	s.job = models.GenerationJob{State: models.JobStateSubmitting, SubmittedAt: time.Now().UTC()}
	s.mu.Unlock()

	cfg, err := s.configs.GetConfig(ctx, req.ScheduleConfigID)
	if err != nil {
		s.reset()
		return nil, err
	}
	payload, err := s.constraints.ActivePayload(ctx)
	if err != nil {
		s.reset()
		return nil, err
	}

	task, err := s.client.Submit(ctx, dto.SolverSubmission{Constraints: payload, ConfigRef: cfg.ID})
	if err != nil {
		// Submission-level failure: no job id was obtained, so there is
		// nothing to poll and the orchestrator returns to idle.
		s.reset()
		return nil, err
	}
	s.metrics.RecordSubmission()

	s.mu.Lock()
	if s.job.State.Terminal() {
		// Cancelled while the submit call was in flight. The obtained
		// task is abandoned and the poller never starts.
		job := s.job
		s.mu.Unlock()
		s.logger.Sugar().Infow("generation job cancelled during submission", "task_id", task.TaskID)
		return &job, nil
	}
	s.job.TaskID = task.TaskID
	s.job.State = models.JobStatePolling
	job := s.job
	s.mu.Unlock()

	// A finished poller may not have flipped its running flag yet; Stop
	// waits it out and is a no-op otherwise.
	s.poller.Stop()
	if err := s.poller.Start(context.Background(), s.pollOnce); err != nil {
		s.reset()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start poll loop")
	}

	s.logger.Sugar().Infow("generation job submitted", "task_id", task.TaskID, "config_id", cfg.ID, "constraints", len(payload))
	return &job, nil
}

// Status returns a copy of the current job.
func (s *GenerationService) Status(ctx context.Context) *models.GenerationJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.job
	return &job
}

// Cancel stops the poll loop and marks a live job cancelled. Cancelling an
// idle or resolved job is a validation error.
func (s *GenerationService) Cancel(ctx context.Context) (*models.GenerationJob, error) {
	s.mu.Lock()
	if s.job.State != models.JobStateSubmitting && s.job.State != models.JobStatePolling {
		s.mu.Unlock()
		return nil, appErrors.Validation("state", "no generation job is in progress")
	}
	now := time.Now().UTC()
	s.job.State = models.JobStateCancelled
	s.job.ResolvedAt = &now
	job := s.job
	s.mu.Unlock()

	// Stop outside the lock: the poll goroutine takes the same mutex.
	s.poller.Stop()
	s.metrics.RecordOutcome(string(models.JobStateCancelled))
	s.logger.Sugar().Infow("generation job cancelled", "task_id", job.TaskID)
	return &job, nil
}

// Result returns the resolved result for a task, consulting the cache
// before the in-memory job.
func (s *GenerationService) Result(ctx context.Context, taskID string) (json.RawMessage, error) {
	if s.cache != nil {
		if result, ok := s.cache.GetResult(ctx, taskID); ok {
			return result, nil
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job.TaskID == taskID && s.job.State == models.JobStateSucceeded {
		return s.job.Result, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "no result for this task")
}

// pollOnce runs on the poll cadence. Every status other than SUCCESS or
// FAILURE keeps the loop alive until the poll timeout elapses.
func (s *GenerationService) pollOnce(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.job.State.Terminal() {
		s.mu.Unlock()
		return true, nil
	}
	taskID := s.job.TaskID
	submittedAt := s.job.SubmittedAt
	s.mu.Unlock()

	s.metrics.RecordPollTick()
	if time.Since(submittedAt) > s.cfg.PollTimeout {
		s.resolve(models.JobStateFailed, nil, "generation timed out before the solver resolved the task")
		return true, nil
	}

	started := time.Now()
	status, err := s.client.Status(ctx, taskID)
	s.metrics.ObserveSolverCall("status", time.Since(started))
	if err != nil {
		// Transient poll failures count toward the timeout but do not
		// resolve the job.
		return false, err
	}

	switch status.Status {
	case solver.StatusSuccess:
		s.resolve(models.JobStateSucceeded, status.Result, "")
		if s.cache != nil {
			s.cache.SetResult(ctx, taskID, status.Result)
		}
		return true, nil
	case solver.StatusFailure:
		reason := status.Error
		if reason == "" {
			reason = "the solver reported failure without a reason"
		}
		s.resolve(models.JobStateFailed, nil, reason)
		return true, nil
	default:
		return false, nil
	}
}

func (s *GenerationService) resolve(state models.JobState, result json.RawMessage, reason string) {
	now := time.Now().UTC()
	s.mu.Lock()
	if s.job.State.Terminal() {
		s.mu.Unlock()
		return
	}
	s.job.State = state
	s.job.Result = result
	s.job.FailureReason = reason
	s.job.ResolvedAt = &now
	taskID := s.job.TaskID
	s.mu.Unlock()

	s.metrics.RecordOutcome(string(state))
	s.logger.Sugar().Infow("generation job resolved", "task_id", taskID, "state", state, "reason", reason)
}

func (s *GenerationService) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job.State.Terminal() {
		// A job cancelled mid-submission keeps its terminal state.
		return
	}
	s.job = models.GenerationJob{State: models.JobStateIdle}
}
