package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/campus-suite/timetable-api/internal/dto"
	"github.com/campus-suite/timetable-api/pkg/config"
	appErrors "github.com/campus-suite/timetable-api/pkg/errors"
)

// Task statuses reported by the generation service. Anything else counts as
// still running.
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
	StatusPending = "PENDING"
)

// Client talks to the external constraint-solving service.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient constructs a solver client from configuration.
func NewClient(cfg config.SolverConfig) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Submit posts a generation request and returns the solver's task handle.
func (c *Client) Submit(ctx context.Context, submission dto.SolverSubmission) (*dto.SolverTask, error) {
	body, err := json.Marshal(submission)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode generation request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build generation request")
	}
	c.decorate(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "generation service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, appErrors.Clone(appErrors.ErrNetwork, fmt.Sprintf("generation service rejected submission: %s", resp.Status))
	}

	var task dto.SolverTask
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "malformed generation service response")
	}
	if task.TaskID == "" {
		return nil, appErrors.Clone(appErrors.ErrNetwork, "generation service returned no task id")
	}
	return &task, nil
}

// Status fetches the state of a submitted task.
func (c *Client) Status(ctx context.Context, taskID string) (*dto.SolverTaskStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/tasks/%s", c.baseURL, taskID), nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build status request")
	}
	c.decorate(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "generation service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, appErrors.Clone(appErrors.ErrNetwork, fmt.Sprintf("generation service status error: %s", resp.Status))
	}

	var status dto.SolverTaskStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "malformed status response")
	}
	return &status, nil
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
}
