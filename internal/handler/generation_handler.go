package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-suite/timetable-api/internal/dto"
	"github.com/campus-suite/timetable-api/internal/models"
	appErrors "github.com/campus-suite/timetable-api/pkg/errors"
	"github.com/campus-suite/timetable-api/pkg/response"
)

type generationService interface {
	Submit(ctx context.Context, req dto.SubmitGenerationRequest) (*models.GenerationJob, error)
	Status(ctx context.Context) *models.GenerationJob
	Cancel(ctx context.Context) (*models.GenerationJob, error)
	Result(ctx context.Context, taskID string) (json.RawMessage, error)
}

// GenerationHandler exposes the generation job protocol.
type GenerationHandler struct {
	service generationService
}

// NewGenerationHandler builds a new handler.
func NewGenerationHandler(service generationService) *GenerationHandler {
	return &GenerationHandler{service: service}
}

// Submit godoc
// @Summary Submit a generation job
// @Tags Generation
// @Accept json
// @Produce json
// @Param payload body dto.SubmitGenerationRequest true "Generation payload"
// @Success 202 {object} response.Envelope
// @Router /generation [post]
func (h *GenerationHandler) Submit(c *gin.Context) {
	var req dto.SubmitGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	job, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, dto.JobStatusResponse{Job: job}, nil)
}

// Status godoc
// @Summary Report the current generation job
// @Tags Generation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /generation [get]
func (h *GenerationHandler) Status(c *gin.Context) {
	job := h.service.Status(c.Request.Context())
	response.JSON(c, http.StatusOK, dto.JobStatusResponse{Job: job}, nil)
}

// Cancel godoc
// @Summary Cancel the live generation job
// @Tags Generation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /generation [delete]
func (h *GenerationHandler) Cancel(c *gin.Context) {
	job, err := h.service.Cancel(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.JobStatusResponse{Job: job}, nil)
}

// Result godoc
// @Summary Fetch the resolved result for a task
// @Tags Generation
// @Produce json
// @Param task_id path string true "Task ID"
// @Success 200 {object} response.Envelope
// @Router /generation/results/{task_id} [get]
func (h *GenerationHandler) Result(c *gin.Context) {
	result, err := h.service.Result(c.Request.Context(), c.Param("task_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
