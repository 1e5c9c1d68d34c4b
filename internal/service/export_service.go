package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/campus-suite/timetable-api/internal/models"
	"github.com/campus-suite/timetable-api/pkg/config"
	appErrors "github.com/campus-suite/timetable-api/pkg/errors"
	"github.com/campus-suite/timetable-api/pkg/export"
)

// weekOrder fixes column order for exported timetables; days missing from
// a grid are skipped, unknown day names sort last in input order.
var weekOrder = map[string]int{
	"monday": 0, "tuesday": 1, "wednesday": 2, "thursday": 3,
	"friday": 4, "saturday": 5, "sunday": 6,
}

func dayRank(day string) int {
	if rank, ok := weekOrder[day]; ok {
		return rank
	}
	return len(weekOrder)
}

// ExportService renders a schedule config's period grid as CSV or PDF.
type ExportService struct {
	configs generationConfigLoader
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
	cfg     config.ExportConfig
}

// NewExportService wires export dependencies.
func NewExportService(configs generationConfigLoader, logger *zap.Logger, cfg config.ExportConfig) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		configs: configs,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
		cfg:     cfg,
	}
}

// CSV renders a config's grid as CSV bytes.
func (s *ExportService) CSV(ctx context.Context, configID string) ([]byte, error) {
	grid, err := s.buildGrid(ctx, configID)
	if err != nil {
		return nil, err
	}
	out, err := s.csv.Render(*grid)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return out, nil
}

// PDF renders a config's grid as a landscape PDF.
func (s *ExportService) PDF(ctx context.Context, configID string) ([]byte, error) {
	cfg, err := s.configs.GetConfig(ctx, configID)
	if err != nil {
		return nil, err
	}
	grid, err := s.buildGridFrom(cfg)
	if err != nil {
		return nil, err
	}
	title := s.cfg.Title
	if title == "" {
		title = cfg.Name
	}
	out, err := s.pdf.Render(*grid, title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return out, nil
}

func (s *ExportService) buildGrid(ctx context.Context, configID string) (*export.Grid, error) {
	cfg, err := s.configs.GetConfig(ctx, configID)
	if err != nil {
		return nil, err
	}
	return s.buildGridFrom(cfg)
}

// buildGridFrom lays the period grid out with one column per day and one
// row per slot position.
func (s *ExportService) buildGridFrom(cfg *models.ScheduleConfig) (*export.Grid, error) {
	periodGrid := make(models.PeriodGrid)
	if len(cfg.GeneratedPeriods) > 0 {
		if err := json.Unmarshal(cfg.GeneratedPeriods, &periodGrid); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored grid is unreadable")
		}
	}
	if len(periodGrid) == 0 {
		return nil, appErrors.Validation("id", "schedule config has no generated grid to export")
	}

	days := make([]string, 0, len(periodGrid))
	maxSlots := 0
	for day, slots := range periodGrid {
		days = append(days, day)
		if len(slots) > maxSlots {
			maxSlots = len(slots)
		}
	}
	sort.SliceStable(days, func(i, j int) bool {
		return dayRank(days[i]) < dayRank(days[j])
	})

	headers := append([]string{"Period"}, days...)
	rows := make([]map[string]string, 0, maxSlots)
	for i := 0; i < maxSlots; i++ {
		row := map[string]string{"Period": fmt.Sprintf("%d", i+1)}
		for _, day := range days {
			if slots := periodGrid[day]; i < len(slots) {
				row[day] = slots[i].Label()
			}
		}
		rows = append(rows, row)
	}
	return &export.Grid{Headers: headers, Rows: rows}, nil
}
