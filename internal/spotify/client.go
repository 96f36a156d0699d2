// Package spotify resolves track references against the Spotify Web API.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Sentinel errors for Spotify client failures.
var (
	ErrUnreachable   = errors.New("spotify unreachable")
	ErrUnauthorized  = errors.New("spotify authorization failed")
	ErrTrackNotFound = errors.New("spotify track not found")
	ErrAPIError      = errors.New("spotify api error")
)

// TrackInfo is the metadata needed to search for a track's audio.
type TrackInfo struct {
	Artist string
	Title  string
}

// Client is the interface for resolving track metadata.
type Client interface {
	Track(ctx context.Context, trackID string) (TrackInfo, error)
}

// HTTPClient implements Client using the Spotify Web API with the
// client-credentials OAuth flow. Token acquisition and refresh are handled
// by the oauth2 transport.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a Spotify client. baseURL and tokenURL are
// configurable so tests can point at a local server.
func NewHTTPClient(clientID, clientSecret, baseURL, tokenURL string, timeout time.Duration) *HTTPClient {
	creds := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	// The oauth2 transport reuses this client for token requests too.
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient,
		&http.Client{Timeout: timeout})

	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  creds.Client(ctx),
	}
}

// TrackID extracts the stable track identifier from a Spotify track URL:
// the last path segment with any query string stripped.
func TrackID(sourceURL string) string {
	id := sourceURL
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	if i := strings.Index(id, "?"); i >= 0 {
		id = id[:i]
	}
	return id
}

func (c *HTTPClient) Track(ctx context.Context, trackID string) (TrackInfo, error) {
	u := fmt.Sprintf("%s/v1/tracks/%s", c.baseURL, trackID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return TrackInfo{}, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return TrackInfo{}, classifyError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return TrackInfo{}, fmt.Errorf("%w: %s", ErrTrackNotFound, trackID)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return TrackInfo{}, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return TrackInfo{}, fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	var track trackResponse
	if err := json.NewDecoder(resp.Body).Decode(&track); err != nil {
		return TrackInfo{}, fmt.Errorf("decoding track response: %w", err)
	}
	if track.Name == "" || len(track.Artists) == 0 {
		return TrackInfo{}, fmt.Errorf("%w: incomplete track metadata for %s", ErrAPIError, trackID)
	}

	return TrackInfo{
		Artist: track.Artists[0].Name,
		Title:  track.Name,
	}, nil
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	// The oauth2 transport wraps token-endpoint failures in RetrieveError.
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}

// --- Spotify response types ---

type trackResponse struct {
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)
