package mock

import (
	"context"

	"github.com/kiranshivaraju/tunevault/internal/spotify"
)

// MockClient satisfies spotify.Client for testing.
type MockClient struct {
	TrackFunc func(ctx context.Context, trackID string) (spotify.TrackInfo, error)
}

func (m *MockClient) Track(ctx context.Context, trackID string) (spotify.TrackInfo, error) {
	if m.TrackFunc != nil {
		return m.TrackFunc(ctx, trackID)
	}
	return spotify.TrackInfo{}, nil
}

// NewMockClient returns a MockClient that resolves every track to a fixed
// artist and title.
func NewMockClient() *MockClient {
	return &MockClient{
		TrackFunc: func(_ context.Context, _ string) (spotify.TrackInfo, error) {
			return spotify.TrackInfo{Artist: "Test Artist", Title: "Test Track"}, nil
		},
	}
}

// NewFailingClient returns a MockClient that always returns the given error.
func NewFailingClient(err error) *MockClient {
	return &MockClient{
		TrackFunc: func(_ context.Context, _ string) (spotify.TrackInfo, error) {
			return spotify.TrackInfo{}, err
		},
	}
}

// Compile-time check that MockClient implements Client.
var _ spotify.Client = (*MockClient)(nil)
