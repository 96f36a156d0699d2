package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/kiranshivaraju/tunevault/internal/api/middleware"
	"github.com/kiranshivaraju/tunevault/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	// RateLimit is optional; the API runs unlimited when Redis is not
	// configured.
	RateLimit *mw.RateLimit

	HealthHandler   http.HandlerFunc
	DownloadHandler http.HandlerFunc
	StatusHandler   http.HandlerFunc
	FileHandler     http.HandlerFunc
	CleanupHandler  http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	if deps.RateLimit != nil {
		r.Use(deps.RateLimit.Limit)
	}

	r.Get("/health", orNotImplemented(deps.HealthHandler))

	r.Post("/download", orNotImplemented(deps.DownloadHandler))
	r.Get("/status/{downloadID}", orNotImplemented(deps.StatusHandler))
	r.Get("/mp3/{downloadID}", orNotImplemented(deps.FileHandler))
	r.Post("/cleanup", orNotImplemented(deps.CleanupHandler))

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "Endpoint not yet implemented")
	}
}
