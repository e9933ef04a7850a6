package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/render"

	"github.com/librerose/sitebook/internal/domain"
	"github.com/librerose/sitebook/internal/middleware"
)

// listPage is the body of GET /{category}.
type listPage struct {
	TodayDate string            `json:"todayDate"`
	ItemList  []domain.Document `json:"itemList"`
}

// addPage is the body of GET /{category}/add.
type addPage struct {
	TodayDate        string            `json:"todayDate"`
	ProductClassList []domain.Document `json:"productClassList"`
}

// editPage is the body of GET /{category}/edit.
type editPage struct {
	Info             domain.Document   `json:"info"`
	ProductClassList []domain.Document `json:"productClassList"`
}

// listToday handles GET /{category}: today's records of the category.
func (s *Server) listToday(w http.ResponseWriter, r *http.Request) {
	c := categoryFrom(r.Context())

	today, items, err := s.records.ListToday(r.Context(), c)
	if err != nil {
		s.serverError(w, r, "list records", err)
		return
	}
	render.JSON(w, r, listPage{TodayDate: today, ItemList: items})
}

// addForm handles GET /{category}/add: the data for an empty add form.
func (s *Server) addForm(w http.ResponseWriter, r *http.Request) {
	c := categoryFrom(r.Context())

	options, err := s.records.FormOptions(r.Context(), c)
	if err != nil {
		s.serverError(w, r, "load form options", err)
		return
	}
	render.JSON(w, r, addPage{TodayDate: s.records.Today(), ProductClassList: options})
}

// editForm handles GET /{category}/edit?id=: one record plus the form options.
// A missing id answers 404; an unknown id answers 404 with a plain message.
func (s *Server) editForm(w http.ResponseWriter, r *http.Request) {
	c := categoryFrom(r.Context())

	id := r.URL.Query().Get("id")
	if err := s.validate.Var(id, "required"); err != nil {
		http.NotFound(w, r)
		return
	}

	info, err := s.records.Get(r.Context(), c, id)
	if errors.Is(err, domain.ErrNotFound) {
		respondText(w, r, http.StatusNotFound, msgItemNotFound)
		return
	}
	if err != nil {
		s.serverError(w, r, "load record", err)
		return
	}

	options, err := s.records.FormOptions(r.Context(), c)
	if err != nil {
		s.serverError(w, r, "load form options", err)
		return
	}
	render.JSON(w, r, editPage{Info: info, ProductClassList: options})
}

// saveAdd handles POST /{category}/save-add.
func (s *Server) saveAdd(w http.ResponseWriter, r *http.Request) {
	c := categoryFrom(r.Context())

	input, err := decodeInput(r)
	if err == nil {
		_, err = s.records.Create(r.Context(), c, middleware.SiteFromContext(r.Context()), input)
	}
	if err != nil {
		s.logFailure(r, "add record", err)
	}
	respondEnvelope(w, r, err, msgAddOK, msgAddFailed)
}

// saveEdit handles POST /{category}/save-edit. The record id is the _id body
// field.
func (s *Server) saveEdit(w http.ResponseWriter, r *http.Request) {
	c := categoryFrom(r.Context())

	input, err := decodeInput(r)
	if err == nil {
		id := input.String(domain.FieldID)
		if err = s.validate.Var(id, "required"); err != nil {
			err = fmt.Errorf("%w: _id is required", domain.ErrValidation)
		} else {
			_, err = s.records.Update(r.Context(), c, id, input)
		}
	}
	if err != nil {
		s.logFailure(r, "edit record", err)
	}
	respondEnvelope(w, r, err, msgEditOK, msgEditFailed)
}

// saveRemove handles POST /{category}/save-remove. The record id is the id
// body field; without it the caller is asked to pick a record first.
func (s *Server) saveRemove(w http.ResponseWriter, r *http.Request) {
	c := categoryFrom(r.Context())

	input, err := decodeInput(r)
	if err != nil {
		s.logFailure(r, "remove record", err)
		respondEnvelope(w, r, err, msgRemoveOK, msgRemoveFailed)
		return
	}

	id := input.String("id")
	if err := s.validate.Var(id, "required"); err != nil {
		render.JSON(w, r, envelope{Success: false, Msg: msgRemoveNoID})
		return
	}

	err = s.records.Delete(r.Context(), c, id)
	if err != nil {
		s.logFailure(r, "remove record", err)
	}
	respondEnvelope(w, r, err, msgRemoveOK, msgRemoveFailed)
}

// decodeInput reads a JSON object or a url-encoded form into a Document.
// Form fields keep only their first value.
func decodeInput(r *http.Request) (domain.Document, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		input := domain.Document{}
		if err := render.DecodeJSON(r.Body, &input); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		return input, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form body: %w", err)
	}
	input := make(domain.Document, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			input[key] = values[0]
		}
	}
	return input, nil
}

// serverError logs err and answers 500 with a generic plain-text body.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logFailure(r, op, err)
	respondText(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func (s *Server) logFailure(r *http.Request, op string, err error) {
	s.log.ErrorContext(r.Context(), op+" failed",
		slog.String("category", categoryFrom(r.Context()).String()),
		slog.String("error", err.Error()),
	)
}
