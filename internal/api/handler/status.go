package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/tunevault/internal/api/response"
	"github.com/kiranshivaraju/tunevault/pkg/models"
)

// Poller defines the interface the status handler depends on.
type Poller interface {
	Poll(id uuid.UUID) (*models.Download, error)
}

// NewStatusHandler returns an http.HandlerFunc for GET /status/{downloadID}.
func NewStatusHandler(svc Poller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "downloadID"))
		if err != nil {
			// Malformed ids can't exist in the registry.
			response.Error(w, http.StatusNotFound, "Download ID not found")
			return
		}

		d, err := svc.Poll(id)
		if err != nil {
			response.Error(w, http.StatusNotFound, "Download ID not found")
			return
		}

		resp := statusResponse{
			ID:     d.ID.String(),
			Status: d.Status,
			URL:    d.SourceURL,
		}
		switch d.Status {
		case models.StatusCompleted:
			resp.MP3URL = "/mp3/" + d.ID.String()
		case models.StatusFailed:
			resp.Error = d.Error
		}

		response.JSON(w, resp)
	}
}

type statusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	URL    string `json:"url"`
	MP3URL string `json:"mp3_url,omitempty"`
	Error  string `json:"error,omitempty"`
}
