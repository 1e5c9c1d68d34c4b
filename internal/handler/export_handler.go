package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-suite/timetable-api/pkg/response"
)

type exportService interface {
	CSV(ctx context.Context, configID string) ([]byte, error)
	PDF(ctx context.Context, configID string) ([]byte, error)
}

// ExportHandler serves timetable grid downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler builds a new handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// CSV godoc
// @Summary Download a config's grid as CSV
// @Tags Export
// @Produce text/csv
// @Param id path string true "Schedule config ID"
// @Success 200 {file} file
// @Router /schedule-configs/{id}/export/csv [get]
func (h *ExportHandler) CSV(c *gin.Context) {
	out, err := h.service.CSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=timetable-%s.csv", c.Param("id")))
	c.Data(http.StatusOK, "text/csv", out)
}

// PDF godoc
// @Summary Download a config's grid as PDF
// @Tags Export
// @Produce application/pdf
// @Param id path string true "Schedule config ID"
// @Success 200 {file} file
// @Router /schedule-configs/{id}/export/pdf [get]
func (h *ExportHandler) PDF(c *gin.Context) {
	out, err := h.service.PDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=timetable-%s.pdf", c.Param("id")))
	c.Data(http.StatusOK, "application/pdf", out)
}
