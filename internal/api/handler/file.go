package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/tunevault/internal/api/response"
	"github.com/kiranshivaraju/tunevault/internal/downloads"
	"github.com/kiranshivaraju/tunevault/internal/registry"
)

// Opener defines the interface the file handler depends on.
type Opener interface {
	Open(id uuid.UUID) (io.ReadSeekCloser, string, error)
}

// NewFileHandler returns an http.HandlerFunc for GET /mp3/{downloadID}.
// Completed downloads are streamed as an attachment with the stored
// display name.
func NewFileHandler(svc Opener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "downloadID"))
		if err != nil {
			response.Error(w, http.StatusNotFound, "Download ID not found")
			return
		}

		f, filename, err := svc.Open(id)
		switch {
		case errors.Is(err, registry.ErrNotFound):
			response.Error(w, http.StatusNotFound, "Download ID not found")
			return
		case errors.Is(err, downloads.ErrNotReady):
			response.Error(w, http.StatusBadRequest, "Download not completed yet")
			return
		case err != nil:
			response.Error(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}
		defer f.Close()

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		// Headers are already out; a broken client connection is not reportable.
		_, _ = io.Copy(w, f)
	}
}
