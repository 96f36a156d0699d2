// Package registry holds the in-memory download registry. It is the only
// shared mutable state in the server: the HTTP handlers and every background
// download goroutine go through it. State is lost on restart.
package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/tunevault/pkg/models"
)

var (
	ErrNotFound = errors.New("download not found")
	ErrExists   = errors.New("download already exists")
	ErrTerminal = errors.New("download already in a terminal status")
)

// Registry is a concurrency-safe map of download id to record.
// All methods are safe for concurrent use; each returns or stores copies so
// callers never share memory with the registry's own records.
type Registry struct {
	mu        sync.RWMutex
	downloads map[uuid.UUID]*models.Download
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{downloads: make(map[uuid.UUID]*models.Download)}
}

// Create inserts a new record in processing status.
func (r *Registry) Create(id uuid.UUID, sourceURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.downloads[id]; ok {
		return ErrExists
	}
	r.downloads[id] = &models.Download{
		ID:        id,
		SourceURL: sourceURL,
		Status:    models.StatusProcessing,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// Get returns a snapshot copy of the record.
func (r *Registry) Get(id uuid.UUID) (*models.Download, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.downloads[id]
	if !ok {
		return nil, ErrNotFound
	}
	snapshot := *d
	return &snapshot, nil
}

// Complete transitions a processing record to completed and records the
// artifact location. Terminal records are never modified again.
func (r *Registry) Complete(id uuid.UUID, filePath, filename string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.downloads[id]
	if !ok {
		return ErrNotFound
	}
	if d.Terminal() {
		return ErrTerminal
	}
	d.Status = models.StatusCompleted
	d.FilePath = filePath
	d.Filename = filename
	return nil
}

// Fail transitions a processing record to failed with a human-readable cause.
func (r *Registry) Fail(id uuid.UUID, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.downloads[id]
	if !ok {
		return ErrNotFound
	}
	if d.Terminal() {
		return ErrTerminal
	}
	d.Status = models.StatusFailed
	d.Error = errMsg
	return nil
}

// ListExpired returns the ids of all records created before now-ttl.
func (r *Registry) ListExpired(now time.Time, ttl time.Duration) []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := now.Add(-ttl)
	var ids []uuid.UUID
	for id, d := range r.downloads {
		if d.CreatedAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Delete removes the record. Deleting an absent id is a no-op.
func (r *Registry) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.downloads, id)
}

// Len returns the number of tracked downloads.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.downloads)
}
