// Package downloads drives track-download jobs from submission to a terminal
// status and serves the resulting artifacts.
package downloads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/tunevault/internal/fetcher"
	"github.com/kiranshivaraju/tunevault/internal/registry"
	"github.com/kiranshivaraju/tunevault/internal/spotify"
	"github.com/kiranshivaraju/tunevault/pkg/models"
)

var (
	ErrMissingURL = errors.New("missing spotify_url parameter")
	ErrNotReady   = errors.New("download not completed yet")
)

// Service orchestrates the download lifecycle: it owns the registry, spawns
// one goroutine per submitted job, and exposes poll/fetch/purge on top.
type Service struct {
	registry *registry.Registry
	resolver spotify.Client
	fetcher  fetcher.Fetcher
	dir      string
	ttl      time.Duration
}

// NewService creates a Service. dir must exist and be writable.
func NewService(reg *registry.Registry, resolver spotify.Client, f fetcher.Fetcher, dir string, ttl time.Duration) *Service {
	return &Service{
		registry: reg,
		resolver: resolver,
		fetcher:  f,
		dir:      dir,
		ttl:      ttl,
	}
}

// Submit registers a new download and dispatches it in a background
// goroutine. Returns the created record immediately without waiting for the
// resolve/fetch pipeline. There is no concurrency cap and no way to cancel
// a job once submitted.
func (s *Service) Submit(ctx context.Context, sourceURL string) (*models.Download, error) {
	if sourceURL == "" {
		return nil, ErrMissingURL
	}

	id := uuid.New()
	if err := s.registry.Create(id, sourceURL); err != nil {
		return nil, fmt.Errorf("creating download: %w", err)
	}

	// Snapshot before spawning so callers always see the initial
	// processing status, however fast the worker finishes.
	d, err := s.registry.Get(id)
	if err != nil {
		return nil, fmt.Errorf("reading download: %w", err)
	}

	go s.run(id, sourceURL)

	return d, nil
}

// run executes one download to a terminal status. It recovers from panics
// and always marks the record completed or failed; errors from the resolver
// and fetcher are captured as the record's error detail, never retried.
func (s *Service) run(id uuid.UUID, sourceURL string) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in download worker", "error", r, "download_id", id)
			_ = s.registry.Fail(id, fmt.Sprintf("panic: %v", r))
		}
	}()

	trackID := spotify.TrackID(sourceURL)

	info, err := s.resolver.Track(ctx, trackID)
	if err != nil {
		_ = s.registry.Fail(id, fmt.Sprintf("resolving track: %v", err))
		return
	}

	query := fmt.Sprintf("%s - %s", info.Artist, info.Title)
	safe := SafeName(query)
	outPath := filepath.Join(s.dir, fmt.Sprintf("%s_%s.mp3", id, safe))

	// No timeout: a stalled fetch leaves the job processing indefinitely.
	// On failure a half-written file may remain until purge picks it up.
	finalPath, err := s.fetcher.Fetch(ctx, query, outPath)
	if err != nil {
		_ = s.registry.Fail(id, fmt.Sprintf("fetching audio: %v", err))
		return
	}

	_ = s.registry.Complete(id, finalPath, safe+".mp3")
	slog.Info("download completed", "download_id", id, "file", finalPath)
}

// Poll returns the current state of a download.
func (s *Service) Poll(id uuid.UUID) (*models.Download, error) {
	return s.registry.Get(id)
}

// Open returns a reader over a completed download's artifact along with the
// suggested filename. Returns registry.ErrNotFound for unknown ids and
// ErrNotReady for any non-completed status, including failed.
func (s *Service) Open(id uuid.UUID) (io.ReadSeekCloser, string, error) {
	d, err := s.registry.Get(id)
	if err != nil {
		return nil, "", err
	}
	if d.Status != models.StatusCompleted {
		return nil, "", ErrNotReady
	}

	f, err := os.Open(d.FilePath)
	if err != nil {
		// A purge may have deleted the file between the status check and
		// the open. Known race, inherited from the original design.
		return nil, "", fmt.Errorf("opening artifact: %w", err)
	}
	return f, d.Filename, nil
}

// Purge removes every download older than the retention window together
// with its backing file. Missing files are ignored. Returns the number of
// records removed.
func (s *Service) Purge(now time.Time) int {
	removed := 0
	for _, id := range s.registry.ListExpired(now, s.ttl) {
		d, err := s.registry.Get(id)
		if err != nil {
			continue
		}
		if d.FilePath != "" {
			if err := os.Remove(d.FilePath); err != nil && !os.IsNotExist(err) {
				slog.Warn("removing artifact", "download_id", id, "error", err)
			}
		}
		s.registry.Delete(id)
		removed++
	}
	return removed
}

// Janitor purges expired downloads every interval until ctx is cancelled.
// Intended for deployments that cannot rely on an external POST /cleanup.
func (s *Service) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Purge(time.Now().UTC()); n > 0 {
				slog.Info("janitor purged downloads", "count", n)
			}
		}
	}
}
