package mock

import (
	"context"
	"os"

	"github.com/kiranshivaraju/tunevault/internal/fetcher"
)

// MockFetcher satisfies fetcher.Fetcher for testing.
type MockFetcher struct {
	FetchFunc func(ctx context.Context, query, outPath string) (string, error)
}

func (m *MockFetcher) Fetch(ctx context.Context, query, outPath string) (string, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, query, outPath)
	}
	return outPath, nil
}

// NewMockFetcher returns a MockFetcher that writes the given content to
// outPath, mimicking a successful download.
func NewMockFetcher(content []byte) *MockFetcher {
	return &MockFetcher{
		FetchFunc: func(_ context.Context, _, outPath string) (string, error) {
			if err := os.WriteFile(outPath, content, 0o644); err != nil {
				return "", err
			}
			return outPath, nil
		},
	}
}

// NewFailingFetcher returns a MockFetcher that always returns the given error.
func NewFailingFetcher(err error) *MockFetcher {
	return &MockFetcher{
		FetchFunc: func(_ context.Context, _, _ string) (string, error) {
			return "", err
		},
	}
}

// Compile-time check that MockFetcher implements Fetcher.
var _ fetcher.Fetcher = (*MockFetcher)(nil)
