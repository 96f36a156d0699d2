package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Download tracks one async track-download job. The API returns an id on
// POST /download; the client polls GET /status/{id} until status is
// completed or failed, then fetches the file from GET /mp3/{id}.
type Download struct {
	ID        uuid.UUID `json:"id"`
	SourceURL string    `json:"url"`
	Status    string    `json:"status"`
	FilePath  string    `json:"-"`
	Filename  string    `json:"filename,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Terminal reports whether the download has reached a final status.
func (d *Download) Terminal() bool {
	return d.Status == StatusCompleted || d.Status == StatusFailed
}
