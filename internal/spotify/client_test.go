package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// --- helpers ---

// spotifyServer serves both the token endpoint and the tracks API so the
// client-credentials flow works against a single test server.
func spotifyServer(t *testing.T, tracks http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/v1/tracks/", tracks)
	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, baseURL string) *HTTPClient {
	t.Helper()
	return NewHTTPClient("id", "secret", baseURL, baseURL+"/api/token", 5*time.Second)
}

// --- TrackID tests ---

func TestTrackID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://open.spotify.com/track/XYZ789", "XYZ789"},
		{"https://open.spotify.com/track/XYZ789?si=abcdef", "XYZ789"},
		{"XYZ789", "XYZ789"},
		{"https://open.spotify.com/track/XYZ789?si=a&context=b", "XYZ789"},
	}
	for _, c := range cases {
		if got := TrackID(c.in); got != c.want {
			t.Errorf("TrackID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// --- Track tests ---

func TestTrack_ValidResponse(t *testing.T) {
	ts := spotifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tracks/XYZ789" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("unexpected authorization header: %s", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"name": "Hyperballad",
			"artists": []map[string]any{
				{"name": "Björk"},
				{"name": "Someone Else"},
			},
		})
	})
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	info, err := c.Track(context.Background(), "XYZ789")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Artist != "Björk" {
		t.Errorf("unexpected artist: %s", info.Artist)
	}
	if info.Title != "Hyperballad" {
		t.Errorf("unexpected title: %s", info.Title)
	}
}

func TestTrack_NotFound(t *testing.T) {
	ts := spotifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	_, err := c.Track(context.Background(), "missing")
	if !errors.Is(err, ErrTrackNotFound) {
		t.Errorf("expected ErrTrackNotFound, got %v", err)
	}
}

func TestTrack_Unauthorized(t *testing.T) {
	ts := spotifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	_, err := c.Track(context.Background(), "XYZ789")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestTrack_ServerError(t *testing.T) {
	ts := spotifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	_, err := c.Track(context.Background(), "XYZ789")
	if !errors.Is(err, ErrAPIError) {
		t.Errorf("expected ErrAPIError, got %v", err)
	}
}

func TestTrack_IncompleteMetadata(t *testing.T) {
	ts := spotifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"name": "", "artists": []any{}})
	})
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	_, err := c.Track(context.Background(), "XYZ789")
	if !errors.Is(err, ErrAPIError) {
		t.Errorf("expected ErrAPIError, got %v", err)
	}
}

func TestTrack_Unreachable(t *testing.T) {
	ts := spotifyServer(t, func(w http.ResponseWriter, r *http.Request) {})
	ts.Close() // connection refused

	c := newTestClient(t, ts.URL)
	_, err := c.Track(context.Background(), "XYZ789")
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}
	if !errors.Is(err, ErrUnreachable) && !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected transport-class error, got %v", err)
	}
}
