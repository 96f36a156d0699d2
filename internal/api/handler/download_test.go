package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/tunevault/internal/downloads"
	"github.com/kiranshivaraju/tunevault/pkg/models"
)

// --- mock Submitter ---

type mockSubmitter struct {
	fn func(ctx context.Context, sourceURL string) (*models.Download, error)
}

func (m *mockSubmitter) Submit(ctx context.Context, sourceURL string) (*models.Download, error) {
	return m.fn(ctx, sourceURL)
}

func successSubmitter(id uuid.UUID) *mockSubmitter {
	return &mockSubmitter{fn: func(_ context.Context, sourceURL string) (*models.Download, error) {
		if sourceURL == "" {
			return nil, downloads.ErrMissingURL
		}
		return &models.Download{
			ID:        id,
			SourceURL: sourceURL,
			Status:    models.StatusProcessing,
			CreatedAt: time.Now().UTC(),
		}, nil
	}}
}

// --- helpers ---

func downloadReq(t *testing.T, body string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/download", bytes.NewReader([]byte(body)))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func parseErr(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body.Error
}

// --- tests ---

func TestDownloadHandler_Success(t *testing.T) {
	id := uuid.New()
	h := NewDownloadHandler(successSubmitter(id))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, downloadReq(t, `{"spotify_url": "https://open.spotify.com/track/XYZ789"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		ID        string `json:"id"`
		Status    string `json:"status"`
		StatusURL string `json:"status_url"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != id.String() {
		t.Errorf("unexpected id: %s", body.ID)
	}
	if body.Status != "processing" {
		t.Errorf("unexpected status: %s", body.Status)
	}
	if !strings.HasPrefix(body.StatusURL, "/status/") {
		t.Errorf("unexpected status_url: %s", body.StatusURL)
	}
}

func TestDownloadHandler_MissingURL(t *testing.T) {
	submitted := false
	h := NewDownloadHandler(&mockSubmitter{fn: func(_ context.Context, sourceURL string) (*models.Download, error) {
		if sourceURL != "" {
			submitted = true
		}
		return nil, downloads.ErrMissingURL
	}})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, downloadReq(t, `{}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := parseErr(t, rec); msg != "Missing spotify_url parameter" {
		t.Errorf("unexpected error message: %s", msg)
	}
	if submitted {
		t.Error("no job should be submitted for a missing url")
	}
}

func TestDownloadHandler_EmptyBody(t *testing.T) {
	h := NewDownloadHandler(&mockSubmitter{fn: func(_ context.Context, _ string) (*models.Download, error) {
		t.Error("submitter must not be called for an empty body")
		return nil, nil
	}})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, downloadReq(t, ``))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDownloadHandler_MalformedJSON(t *testing.T) {
	h := NewDownloadHandler(successSubmitter(uuid.New()))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, downloadReq(t, `{"spotify_url": `))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDownloadHandler_InternalError(t *testing.T) {
	h := NewDownloadHandler(&mockSubmitter{fn: func(_ context.Context, _ string) (*models.Download, error) {
		return nil, errors.New("registry exploded")
	}})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, downloadReq(t, `{"spotify_url": "https://open.spotify.com/track/X"}`))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
