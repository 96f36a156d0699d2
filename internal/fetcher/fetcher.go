// Package fetcher locates and downloads track audio given a search query.
package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Sentinel errors for fetcher failures.
var (
	ErrBinaryNotFound = errors.New("yt-dlp binary not found")
	ErrFetchFailed    = errors.New("audio fetch failed")
)

// Fetcher retrieves the best-available audio for a search query and writes
// it to outPath, transcoded to MP3. It returns the final artifact path.
type Fetcher interface {
	Fetch(ctx context.Context, query, outPath string) (string, error)
}

// YTDLP shells out to the yt-dlp binary. Audio is extracted with ffmpeg and
// transcoded to MP3 at 192K, matching what the service advertises on /mp3.
type YTDLP struct {
	binPath string
	timeout time.Duration
}

// NewYTDLP creates a YTDLP fetcher. timeout zero means no limit; a stalled
// download then blocks its job goroutine indefinitely.
func NewYTDLP(binPath string, timeout time.Duration) *YTDLP {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &YTDLP{binPath: binPath, timeout: timeout}
}

// Fetch searches for the query and downloads the first match. outPath must
// end in ".mp3"; yt-dlp receives the path without the extension and appends
// it after the ffmpeg transcode step.
func (f *YTDLP) Fetch(ctx context.Context, query, outPath string) (string, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, f.binPath, buildArgs(query, outPath)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrBinaryNotFound, f.binPath)
		}
		return "", fmt.Errorf("%w: %v: %s", ErrFetchFailed, err, stderrTail(stderr.String()))
	}

	return outPath, nil
}

// buildArgs assembles the yt-dlp invocation for a single search-and-download.
func buildArgs(query, outPath string) []string {
	template := strings.TrimSuffix(outPath, ".mp3") + ".%(ext)s"
	return []string{
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"-o", template,
		"--no-warnings",
		"--quiet",
		fmt.Sprintf("ytsearch1:%s audio", query),
	}
}

// stderrTail keeps error details short enough for a status response.
func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "no output"
	}
	lines := strings.Split(s, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// Compile-time check that YTDLP implements Fetcher.
var _ Fetcher = (*YTDLP)(nil)
