package service

import (
	"context"
	"fmt"

	"github.com/librerose/sitebook/internal/domain"
	"github.com/librerose/sitebook/internal/export"
)

// Exporter writes a workbook for one export request.
// *export.Exporter satisfies it.
type Exporter interface {
	Export(ctx context.Context, req export.Request) (export.Result, error)
}

// ExportService turns a category and a pair of dates into a workbook on disk.
type ExportService struct {
	exporter Exporter
	maxDays  int
}

// NewExportService constructs an ExportService backed by the provided Exporter.
// maxDays caps the number of calendar days one export may cover, since every
// day costs a store query; zero or less means no cap.
func NewExportService(e Exporter, maxDays int) *ExportService {
	return &ExportService{exporter: e, maxDays: maxDays}
}

// Export validates the date pair and writes the workbook for category c.
// Returns domain.ErrValidation for a malformed date, domain.ErrInvalidRange
// when end precedes start or the range is longer than the configured
// maximum, and whatever the exporter returns otherwise.
// The caller owns the file at Result.Path.
func (s *ExportService) Export(ctx context.Context, c domain.Category, site domain.Site, start, end string) (export.Result, error) {
	if !c.Valid() {
		return export.Result{}, fmt.Errorf("service.ExportService.Export: %w", domain.ErrUnknownCategory)
	}
	r, err := domain.NewDateRange(start, end)
	if err != nil {
		return export.Result{}, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	if s.maxDays > 0 && r.Len() > s.maxDays {
		return export.Result{}, fmt.Errorf("service.ExportService.Export: %w: %d days exceeds the limit of %d",
			domain.ErrInvalidRange, r.Len(), s.maxDays)
	}
	res, err := s.exporter.Export(ctx, export.Request{Category: c, Range: r, Site: site})
	if err != nil {
		return export.Result{}, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	return res, nil
}
