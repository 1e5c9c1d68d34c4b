package dto

import (
	"encoding/json"

	"github.com/campus-suite/timetable-api/internal/models"
)

// ConstraintPayload is one active soft constraint sent to the solver.
type ConstraintPayload struct {
	Key        string                `json:"key"`
	Importance models.ImportanceTier `json:"importance"`
}

// SubmitGenerationRequest kicks off a solver run against a stored config.
type SubmitGenerationRequest struct {
	ScheduleConfigID string `json:"scheduleConfigId" validate:"required"`
}

// SolverSubmission is the body posted to the external generation service.
type SolverSubmission struct {
	Constraints []ConstraintPayload `json:"constraints"`
	ConfigRef   string              `json:"config_ref"`
}

// SolverTask is the handle returned by the generation service.
type SolverTask struct {
	TaskID string `json:"task_id"`
}

// SolverTaskStatus mirrors the generation service's poll response. Any
// status other than SUCCESS or FAILURE means the task is still running.
type SolverTaskStatus struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// JobStatusResponse reports the orchestrator's current job to clients.
type JobStatusResponse struct {
	Job *models.GenerationJob `json:"job"`
}
