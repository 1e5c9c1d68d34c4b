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

type constraintService interface {
	List(ctx context.Context) ([]models.Constraint, error)
	Update(ctx context.Context, key string, req dto.UpdateConstraintRequest) (*models.Constraint, error)
}

// ConstraintHandler exposes the soft-constraint catalogue.
type ConstraintHandler struct {
	service constraintService
}

// NewConstraintHandler builds a new handler.
func NewConstraintHandler(service constraintService) *ConstraintHandler {
	return &ConstraintHandler{service: service}
}

// List godoc
// @Summary List constraint catalogue in order
// @Tags Constraints
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /constraints [get]
func (h *ConstraintHandler) List(c *gin.Context) {
	constraints, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, constraints, nil)
}

// Update godoc
// @Summary Update constraint weighting
// @Tags Constraints
// @Accept json
// @Produce json
// @Param key path string true "Constraint key"
// @Param payload body dto.UpdateConstraintRequest true "Weighting payload"
// @Success 200 {object} response.Envelope
// @Router /constraints/{key} [put]
func (h *ConstraintHandler) Update(c *gin.Context) {
	var req dto.UpdateConstraintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid constraint payload"))
		return
	}
	constraint, err := h.service.Update(c.Request.Context(), c.Param("key"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, constraint, nil)
}
