package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kiranshivaraju/tunevault/internal/api/response"
	"github.com/kiranshivaraju/tunevault/internal/downloads"
	"github.com/kiranshivaraju/tunevault/pkg/models"
)

// Submitter defines the interface the download handler depends on.
type Submitter interface {
	Submit(ctx context.Context, sourceURL string) (*models.Download, error)
}

// NewDownloadHandler returns an http.HandlerFunc for POST /download.
// It registers the job and returns immediately; the download itself runs in
// the background and is observed via GET /status/{id}.
func NewDownloadHandler(svc Submitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SpotifyURL string `json:"spotify_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Missing spotify_url parameter")
			return
		}

		d, err := svc.Submit(r.Context(), req.SpotifyURL)
		if err != nil {
			if errors.Is(err, downloads.ErrMissingURL) {
				response.Error(w, http.StatusBadRequest, "Missing spotify_url parameter")
				return
			}
			response.Error(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		response.JSON(w, downloadResponse{
			ID:        d.ID.String(),
			Status:    d.Status,
			StatusURL: "/status/" + d.ID.String(),
		})
	}
}

type downloadResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	StatusURL string `json:"status_url"`
}
