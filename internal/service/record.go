// Package service contains the business logic for the site ledger.
// Services assemble records, enforce the few rules the ledger has, and
// orchestrate repo calls. No storage code lives here: services depend on the
// repo.DocumentRepo interface, not on a driver.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/librerose/sitebook/internal/domain"
	"github.com/librerose/sitebook/internal/repo"
)

// RecordService implements the add, edit, delete and listing operations of
// every record category.
type RecordService struct {
	docs repo.DocumentRepo
	now  func() time.Time
}

// NewRecordService constructs a RecordService backed by docs. now is the
// clock used to decide which day is "today"; pass time.Now in production.
func NewRecordService(docs repo.DocumentRepo, now func() time.Time) *RecordService {
	if now == nil {
		now = time.Now
	}
	return &RecordService{docs: docs, now: now}
}

// Today returns the current calendar date at the site as YYYY-MM-DD.
func (s *RecordService) Today() string {
	return domain.SiteDate(s.now())
}

// ListToday returns today's date and the records of category c dated today.
// Always returns a non-nil slice so callers can safely range over it.
func (s *RecordService) ListToday(ctx context.Context, c domain.Category) (string, []domain.Document, error) {
	if !c.Valid() {
		return "", nil, fmt.Errorf("service.RecordService.ListToday: %w", domain.ErrUnknownCategory)
	}
	today := s.Today()
	docs, err := s.docs.FindByField(ctx, c.Collection(), domain.FieldDate, today)
	if err != nil {
		return "", nil, fmt.Errorf("service.RecordService.ListToday: %w", err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return today, docs, nil
}

// FormOptions returns every document of the category's reference collection,
// used to populate the select box on the add and edit forms.
func (s *RecordService) FormOptions(ctx context.Context, c domain.Category) ([]domain.Document, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("service.RecordService.FormOptions: %w", domain.ErrUnknownCategory)
	}
	docs, err := s.docs.List(ctx, c.ReferenceCollection())
	if err != nil {
		return nil, fmt.Errorf("service.RecordService.FormOptions: %w", err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

// Get returns one record of category c.
// Returns domain.ErrNotFound if it does not exist.
func (s *RecordService) Get(ctx context.Context, c domain.Category, id string) (domain.Document, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("service.RecordService.Get: %w", domain.ErrUnknownCategory)
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("service.RecordService.Get: %w", domain.ErrNotFound)
	}
	doc, err := s.docs.GetByID(ctx, c.Collection(), id)
	if err != nil {
		return nil, fmt.Errorf("service.RecordService.Get: %w", err)
	}
	return doc, nil
}

// Create assembles a new record from input and stores it. The record gets
// the category's form fields, the resolved reference document, the site
// stamps and the pending review status.
func (s *RecordService) Create(ctx context.Context, c domain.Category, site domain.Site, input domain.Document) (domain.Document, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("service.RecordService.Create: %w", domain.ErrUnknownCategory)
	}
	rec, err := s.assemble(ctx, c, input)
	if err != nil {
		return nil, fmt.Errorf("service.RecordService.Create: %w", err)
	}
	rec[domain.FieldSiteID] = site.ID
	rec[domain.FieldSiteCode] = site.Code

	created, err := s.docs.Insert(ctx, c.Collection(), rec)
	if err != nil {
		return nil, fmt.Errorf("service.RecordService.Create: %w", err)
	}
	return created, nil
}

// Update overwrites the fields present in input on an existing record and
// resets its review status. Fields missing from input are kept.
// Returns domain.ErrValidation for an empty id and domain.ErrNotFound if the
// record does not exist.
func (s *RecordService) Update(ctx context.Context, c domain.Category, id string, input domain.Document) (domain.Document, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("service.RecordService.Update: %w", domain.ErrUnknownCategory)
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("service.RecordService.Update: %w: id is required", domain.ErrValidation)
	}
	set, err := s.assemble(ctx, c, input)
	if err != nil {
		return nil, fmt.Errorf("service.RecordService.Update: %w", err)
	}
	updated, err := s.docs.Update(ctx, c.Collection(), id, set)
	if err != nil {
		return nil, fmt.Errorf("service.RecordService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a record.
// Returns domain.ErrValidation for an empty id and domain.ErrNotFound if the
// record does not exist.
func (s *RecordService) Delete(ctx context.Context, c domain.Category, id string) error {
	if !c.Valid() {
		return fmt.Errorf("service.RecordService.Delete: %w", domain.ErrUnknownCategory)
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("service.RecordService.Delete: %w: id is required", domain.ErrValidation)
	}
	if err := s.docs.Delete(ctx, c.Collection(), id); err != nil {
		return fmt.Errorf("service.RecordService.Delete: %w", err)
	}
	return nil
}

// assemble builds the stored fields shared by add and edit.
//   - The reference id under c.ReferenceParam() is resolved to the full
//     reference document; an unknown or missing id stores null.
//   - Form fields present in input are copied verbatim.
//   - The review status is always reset to pending.
func (s *RecordService) assemble(ctx context.Context, c domain.Category, input domain.Document) (domain.Document, error) {
	rec := domain.Document{}

	ref, err := s.reference(ctx, c, input.String(c.ReferenceParam()))
	if err != nil {
		return nil, err
	}
	rec[c.ReferenceField()] = ref

	for _, field := range c.FormFields() {
		if v, ok := input[field]; ok {
			rec[field] = v
		}
	}
	rec[domain.FieldReviewStatus] = domain.StatusPendingReview
	return rec, nil
}

func (s *RecordService) reference(ctx context.Context, c domain.Category, id string) (domain.Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	ref, err := s.docs.GetByID(ctx, c.ReferenceCollection(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reference %s: %w", id, err)
	}
	return ref, nil
}
