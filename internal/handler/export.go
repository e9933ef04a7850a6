package handler

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"time"

	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/librerose/sitebook/internal/domain"
	"github.com/librerose/sitebook/internal/middleware"
)

// xlsxContentType is the media type of an Office Open XML workbook.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// export handles GET /{category}/export?s=YYYY-MM-DD&e=YYYY-MM-DD.
// Both dates are required; a missing or malformed one answers 400.
// It streams the workbook as an attachment and removes the temporary file
// once the response has been written.
func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	c := categoryFrom(r.Context())

	var start, end openapi_types.Date
	query := r.URL.Query()
	// The binder accepts an absent or empty exploded form parameter and leaves
	// the zero date behind, so presence is checked first.
	if query.Get("s") == "" || query.Get("e") == "" {
		respondText(w, r, http.StatusBadRequest, msgExportDates)
		return
	}
	if err := runtime.BindQueryParameter("form", true, true, "s", query, &start); err != nil {
		respondText(w, r, http.StatusBadRequest, msgExportDates)
		return
	}
	if err := runtime.BindQueryParameter("form", true, true, "e", query, &end); err != nil {
		respondText(w, r, http.StatusBadRequest, msgExportDates)
		return
	}

	res, err := s.exports.Export(r.Context(), c, middleware.SiteFromContext(r.Context()),
		start.Format(openapi_types.DateFormat), end.Format(openapi_types.DateFormat))
	switch {
	case errors.Is(err, domain.ErrExportNotConfigured):
		s.logFailure(r, "export", err)
		respondText(w, r, http.StatusInternalServerError, msgExportNoConfig)
		return
	case errors.Is(err, domain.ErrInvalidRange), errors.Is(err, domain.ErrValidation):
		respondText(w, r, http.StatusBadRequest, msgExportDates)
		return
	case err != nil:
		s.logFailure(r, "export", err)
		respondText(w, r, http.StatusInternalServerError, msgExportFailed)
		return
	}
	defer func() {
		if err := os.Remove(res.Path); err != nil {
			s.log.WarnContext(r.Context(), "remove export file failed",
				slog.String("path", res.Path), slog.String("error", err.Error()))
		}
	}()

	f, err := os.Open(res.Path)
	if err != nil {
		s.logFailure(r, "open export file", err)
		respondText(w, r, http.StatusInternalServerError, msgExportFailed)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.FileName}))
	http.ServeContent(w, r, res.FileName, time.Time{}, f)
}
