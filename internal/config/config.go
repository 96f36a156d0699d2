package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the tunevault server.
type Config struct {
	Server    ServerConfig
	Downloads DownloadsConfig
	Spotify   SpotifyConfig
	Fetcher   FetcherConfig
	Redis     RedisConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DownloadsConfig struct {
	Dir             string
	RetentionTTL    time.Duration
	CleanupInterval time.Duration
	RateLimitPerMin int
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	Timeout      time.Duration
}

type FetcherConfig struct {
	BinPath string
	Timeout time.Duration
}

type RedisConfig struct {
	// URL is optional; rate limiting is disabled when empty.
	URL string
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: envString("TUNEVAULT_HOST", "0.0.0.0"),
			Port: envInt("TUNEVAULT_PORT", 2354),
			Env:  envString("TUNEVAULT_ENV", "development"),
		},
		Downloads: DownloadsConfig{
			Dir:             envString("DOWNLOAD_DIR", "downloads"),
			RetentionTTL:    envDurationSecs("RETENTION_TTL_SECS", time.Hour),
			CleanupInterval: envDurationSecs("CLEANUP_INTERVAL_SECS", 0),
			RateLimitPerMin: envInt("RATE_LIMIT_PER_MIN", 60),
		},
		Spotify: SpotifyConfig{
			ClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
			ClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
			BaseURL:      envString("SPOTIFY_API_BASE_URL", "https://api.spotify.com"),
			TokenURL:     envString("SPOTIFY_TOKEN_URL", "https://accounts.spotify.com/api/token"),
			Timeout:      envDuration("SPOTIFY_TIMEOUT", 10*time.Second),
		},
		Fetcher: FetcherConfig{
			BinPath: envString("YTDLP_PATH", "yt-dlp"),
			Timeout: envDurationSecs("YTDLP_TIMEOUT_SECS", 0),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Spotify.ClientID == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_ID is required")
	}
	if c.Spotify.ClientSecret == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_SECRET is required")
	}

	if !strings.HasPrefix(c.Spotify.BaseURL, "http://") && !strings.HasPrefix(c.Spotify.BaseURL, "https://") {
		return fmt.Errorf("SPOTIFY_API_BASE_URL must start with http:// or https://, got %q", c.Spotify.BaseURL)
	}
	if !strings.HasPrefix(c.Spotify.TokenURL, "http://") && !strings.HasPrefix(c.Spotify.TokenURL, "https://") {
		return fmt.Errorf("SPOTIFY_TOKEN_URL must start with http:// or https://, got %q", c.Spotify.TokenURL)
	}

	if c.Downloads.Dir == "" {
		return fmt.Errorf("DOWNLOAD_DIR must not be empty")
	}
	if c.Downloads.RetentionTTL <= 0 {
		return fmt.Errorf("RETENTION_TTL_SECS must be positive")
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
