package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kiranshivaraju/tunevault/internal/api/response"
)

// Purger defines the interface the cleanup handler depends on.
type Purger interface {
	Purge(now time.Time) int
}

// NewCleanupHandler returns an http.HandlerFunc for POST /cleanup. It
// removes every download older than the retention window along with its
// backing file.
func NewCleanupHandler(svc Purger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed := svc.Purge(time.Now().UTC())
		response.JSON(w, map[string]string{
			"message": fmt.Sprintf("Cleaned up %d old downloads", removed),
		})
	}
}
