package middleware

import (
	"context"
	"net/http"

	"github.com/librerose/sitebook/internal/domain"
)

type siteKey struct{}

// NewSiteHandler returns a middleware that attaches site to every request
// context. Handlers read it back with SiteFromContext.
func NewSiteHandler(site domain.Site) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithSite(r.Context(), site)))
		})
	}
}

// WithSite returns a copy of ctx carrying site.
func WithSite(ctx context.Context, site domain.Site) context.Context {
	return context.WithValue(ctx, siteKey{}, site)
}

// SiteFromContext returns the site attached by NewSiteHandler, or the zero
// Site when none is present.
func SiteFromContext(ctx context.Context) domain.Site {
	site, _ := ctx.Value(siteKey{}).(domain.Site)
	return site
}
