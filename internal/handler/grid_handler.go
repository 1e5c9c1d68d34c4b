package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-suite/timetable-api/internal/dto"
	"github.com/campus-suite/timetable-api/internal/models"
	appErrors "github.com/campus-suite/timetable-api/pkg/errors"
	"github.com/campus-suite/timetable-api/pkg/response"
)

type gridService interface {
	Generate(ctx context.Context, req dto.GenerateGridRequest) (models.PeriodGrid, error)
	SaveConfig(ctx context.Context, req dto.SaveScheduleConfigRequest) (*models.ScheduleConfig, error)
	ListConfigs(ctx context.Context) ([]models.ScheduleConfig, error)
	GetConfig(ctx context.Context, id string) (*models.ScheduleConfig, error)
	InsertBreak(ctx context.Context, configID string, req dto.InsertBreakRequest) (models.PeriodGrid, error)
	RemoveSlot(ctx context.Context, configID string, req dto.RemoveSlotRequest) (models.PeriodGrid, error)
	AppendSlot(ctx context.Context, configID string, req dto.AppendSlotRequest) (models.PeriodGrid, error)
	DeleteConfig(ctx context.Context, id string) error
}

// GridHandler exposes period grid and schedule config endpoints.
type GridHandler struct {
	service gridService
}

// NewGridHandler builds a new handler.
func NewGridHandler(service gridService) *GridHandler {
	return &GridHandler{service: service}
}

// Generate godoc
// @Summary Preview a period grid without persisting it
// @Tags Schedule configs
// @Accept json
// @Produce json
// @Param payload body dto.GenerateGridRequest true "Grid parameters"
// @Success 200 {object} response.Envelope
// @Router /schedule-configs/preview [post]
func (h *GridHandler) Generate(c *gin.Context) {
	var req dto.GenerateGridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grid payload"))
		return
	}
	grid, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// Create godoc
// @Summary Save a schedule config with a generated grid
// @Tags Schedule configs
// @Accept json
// @Produce json
// @Param payload body dto.SaveScheduleConfigRequest true "Schedule config payload"
// @Success 201 {object} response.Envelope
// @Router /schedule-configs [post]
func (h *GridHandler) Create(c *gin.Context) {
	var req dto.SaveScheduleConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule config payload"))
		return
	}
	cfg, err := h.service.SaveConfig(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cfg)
}

// List godoc
// @Summary List schedule configs
// @Tags Schedule configs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule-configs [get]
func (h *GridHandler) List(c *gin.Context) {
	configs, err := h.service.ListConfigs(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, configs, nil)
}

// Get godoc
// @Summary Get schedule config by id
// @Tags Schedule configs
// @Produce json
// @Param id path string true "Schedule config ID"
// @Success 200 {object} response.Envelope
// @Router /schedule-configs/{id} [get]
func (h *GridHandler) Get(c *gin.Context) {
	cfg, err := h.service.GetConfig(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}

// InsertBreak godoc
// @Summary Insert a break marker into a config's grid
// @Tags Schedule configs
// @Accept json
// @Produce json
// @Param id path string true "Schedule config ID"
// @Param payload body dto.InsertBreakRequest true "Break position"
// @Success 200 {object} response.Envelope
// @Router /schedule-configs/{id}/breaks [post]
func (h *GridHandler) InsertBreak(c *gin.Context) {
	var req dto.InsertBreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid break payload"))
		return
	}
	grid, err := h.service.InsertBreak(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// RemoveSlot godoc
// @Summary Remove a slot from a config's grid
// @Tags Schedule configs
// @Accept json
// @Produce json
// @Param id path string true "Schedule config ID"
// @Param payload body dto.RemoveSlotRequest true "Slot position"
// @Success 200 {object} response.Envelope
// @Router /schedule-configs/{id}/slots/remove [post]
func (h *GridHandler) RemoveSlot(c *gin.Context) {
	var req dto.RemoveSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}
	grid, err := h.service.RemoveSlot(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// AppendSlot godoc
// @Summary Append a class slot to a day
// @Tags Schedule configs
// @Accept json
// @Produce json
// @Param id path string true "Schedule config ID"
// @Param payload body dto.AppendSlotRequest true "Day to extend"
// @Success 200 {object} response.Envelope
// @Router /schedule-configs/{id}/slots [post]
func (h *GridHandler) AppendSlot(c *gin.Context) {
	var req dto.AppendSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid append payload"))
		return
	}
	grid, err := h.service.AppendSlot(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// Delete godoc
// @Summary Delete schedule config
// @Tags Schedule configs
// @Param id path string true "Schedule config ID"
// @Success 204
// @Router /schedule-configs/{id} [delete]
func (h *GridHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteConfig(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
