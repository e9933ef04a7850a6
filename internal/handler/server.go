// Package handler implements the HTTP handlers for the sitebook API.
// All handlers are methods on Server. Methods are split into files by concern
// (health.go, record.go, export.go) but share the same Server struct so they
// can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/librerose/sitebook/internal/domain"
	"github.com/librerose/sitebook/internal/export"
)

// RecordServicer defines the record operations the handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the store or the service layer.
type RecordServicer interface {
	Today() string
	ListToday(ctx context.Context, c domain.Category) (string, []domain.Document, error)
	FormOptions(ctx context.Context, c domain.Category) ([]domain.Document, error)
	Get(ctx context.Context, c domain.Category, id string) (domain.Document, error)
	Create(ctx context.Context, c domain.Category, site domain.Site, input domain.Document) (domain.Document, error)
	Update(ctx context.Context, c domain.Category, id string, input domain.Document) (domain.Document, error)
	Delete(ctx context.Context, c domain.Category, id string) error
}

// ExportServicer defines the export operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context, c domain.Category, site domain.Site, start, end string) (export.Result, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	records  RecordServicer
	exports  ExportServicer
	validate *validator.Validate
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(records RecordServicer, exports ExportServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		records:  records,
		exports:  exports,
		validate: validator.New(),
		log:      log.With(slog.String("component", "handler")),
	}
}

// Routes registers every endpoint on r. Category routes are nested under the
// category slug, e.g. /buy-sell/save-add; an unknown slug answers 404.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.getHealth)
	r.Get("/openapi.yaml", s.getOpenAPI)

	r.Route("/{category}", func(r chi.Router) {
		r.Use(withCategory)

		r.Get("/", s.listToday)
		r.Get("/add", s.addForm)
		r.Get("/edit", s.editForm)
		r.Post("/save-add", s.saveAdd)
		r.Post("/save-edit", s.saveEdit)
		r.Post("/save-remove", s.saveRemove)
		r.Get("/export", s.export)
	})
}

type categoryKey struct{}

// withCategory resolves the {category} URL parameter and stores the Category
// in the request context.
func withCategory(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := domain.ParseCategory(chi.URLParam(r, "category"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), categoryKey{}, c)))
	})
}

func categoryFrom(ctx context.Context) domain.Category {
	c, _ := ctx.Value(categoryKey{}).(domain.Category)
	return c
}
