// Package export builds the per-day spreadsheet export of a record category.
//
// An export walks every calendar day of a DateRange in ascending order,
// fetches that day's records, and adds one sheet per day that has any.
// The first sheet always explains this layout. The finished workbook is
// written to a uniquely named file in the export directory; the caller owns
// that file and is expected to delete it once it has been streamed.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/librerose/sitebook/internal/domain"
)

// Fetcher returns the documents of collection whose field equals value.
// repo.DocumentRepo satisfies it.
type Fetcher interface {
	FindByField(ctx context.Context, collection, field, value string) ([]domain.Document, error)
}

// Request is one export call.
type Request struct {
	Category domain.Category
	Range    domain.DateRange
	Site     domain.Site
}

// Result describes a written workbook.
type Result struct {
	// Path is the absolute path of the temporary .xlsx file.
	Path string
	// FileName is the suggested download name.
	FileName string
	// Sheets lists the sheet names in workbook order.
	Sheets []string
}

// Exporter writes date-range workbooks into a directory.
type Exporter struct {
	fetch   Fetcher
	dir     string
	now     func() time.Time
	newName func() string
}

// Option customizes an Exporter.
type Option func(*Exporter)

// WithClock overrides the time source used for the export timestamp row.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithFileNamer overrides how the temporary file's base name is generated.
func WithFileNamer(fn func() string) Option {
	return func(e *Exporter) { e.newName = fn }
}

// New constructs an Exporter that reads through fetch and writes into dir.
// An empty dir is accepted; Export then fails with domain.ErrExportNotConfigured.
func New(fetch Fetcher, dir string, opts ...Option) *Exporter {
	e := &Exporter{
		fetch:   fetch,
		dir:     dir,
		now:     time.Now,
		newName: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DownloadName returns "{site}({code}) {label}数据表({start} - {end}).xlsx".
func DownloadName(req Request) string {
	return fmt.Sprintf("%s(%s - %s).xlsx", sheetTitle(req.Site, req.Category), req.Range.StartString(), req.Range.EndString())
}

// Export builds the workbook for req and writes it to the export directory.
//
// Returns domain.ErrExportNotConfigured when no directory is set, before any
// store access. Any failure while saving wraps domain.ErrSerialization and
// leaves no file behind. Store errors are returned as-is.
func (e *Exporter) Export(ctx context.Context, req Request) (Result, error) {
	if e.dir == "" {
		return Result{}, fmt.Errorf("export.Exporter.Export: %w", domain.ErrExportNotConfigured)
	}
	if !req.Category.Valid() {
		return Result{}, fmt.Errorf("export.Exporter.Export: %w", domain.ErrUnknownCategory)
	}

	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return Result{}, fmt.Errorf("export.Exporter.Export: styles: %w", err)
	}
	if err := writeInstructions(f, st, req.Site, req.Category); err != nil {
		return Result{}, fmt.Errorf("export.Exporter.Export: instructions: %w", err)
	}

	stamp := e.now()
	columns := Columns(req.Category)
	collection := req.Category.Collection()

	for day := range req.Range.Days() {
		records, err := e.fetch.FindByField(ctx, collection, domain.FieldDate, day)
		if err != nil {
			return Result{}, fmt.Errorf("export.Exporter.Export: fetch %s: %w", day, err)
		}
		if len(records) == 0 {
			continue
		}
		for _, doc := range records {
			Project(req.Category, doc)
		}

		err = writeDateSheet(f, st, dateSheet{
			date:     day,
			site:     req.Site,
			category: req.Category,
			columns:  columns,
			records:  records,
			stamp:    stamp,
		})
		if err != nil {
			return Result{}, fmt.Errorf("export.Exporter.Export: sheet %s: %w", day, err)
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:        workbookAuthor,
		LastModifiedBy: workbookAuthor,
		Created:        stamp.UTC().Format(time.RFC3339),
		Modified:       stamp.UTC().Format(time.RFC3339),
		Title:          sheetTitle(req.Site, req.Category),
	}); err != nil {
		return Result{}, fmt.Errorf("export.Exporter.Export: properties: %w", err)
	}

	path, err := filepath.Abs(filepath.Join(e.dir, e.newName()+".xlsx"))
	if err != nil {
		return Result{}, fmt.Errorf("export.Exporter.Export: %w: %w", domain.ErrSerialization, err)
	}
	if err := f.SaveAs(path); err != nil {
		_ = os.Remove(path)
		return Result{}, fmt.Errorf("export.Exporter.Export: %w: %w", domain.ErrSerialization, err)
	}

	return Result{
		Path:     path,
		FileName: DownloadName(req),
		Sheets:   f.GetSheetList(),
	}, nil
}
