package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload" // Auto-load .env file
	"github.com/robfig/cron/v3"
	"golang.org/x/net/proxy"
)

// Defaults
const (
	// Server
	DefaultPort          = 5000
	DefaultAllowedOrigin = "*"

	// External tools
	DefaultYtDlpPath = "yt-dlp"

	// Info fetch
	DefaultInfoTimeout = 60 * time.Second

	// Download processes
	DefaultMaxDownloadAge = 2 * time.Hour
	DefaultReapSchedule   = "@every 1m"
	DefaultSpawnRate      = 5.0
	DefaultSpawnBurst     = 10
	DefaultBufferSize     = 64 * 1024 // 64KB

	// Stream rate limit (bytes per second), 0 = unlimited
	DefaultStreamRateLimit = 0

	// Kill a download that produces no output for this long, 0 = never
	DefaultStreamIdleTimeout = 60 * time.Second

	// Per-IP limit on /api
	DefaultRateLimitMax    = 30
	DefaultRateLimitWindow = 1 * time.Minute
)

// Container produced by the download pipeline
const (
	OutputContainer   = "mp4"
	OutputContentType = "video/mp4"
	PreferredAudioExt = "m4a"
)

// Config holds process-wide settings. It is built once at startup and passed
// into the server explicitly.
type Config struct {
	Port          int
	AllowedOrigin string

	YtDlpPath      string
	FFmpegLocation string
	ProxyURL       string

	InfoTimeout    time.Duration
	MaxDownloadAge time.Duration
	ReapSchedule   string

	SpawnRate         float64
	SpawnBurst        int
	StreamRateLimit   int
	StreamIdleTimeout time.Duration
	BufferSize        int

	RateLimitMax    int
	RateLimitWindow time.Duration
}

// Default returns a config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Port:              DefaultPort,
		AllowedOrigin:     DefaultAllowedOrigin,
		YtDlpPath:         DefaultYtDlpPath,
		InfoTimeout:       DefaultInfoTimeout,
		MaxDownloadAge:    DefaultMaxDownloadAge,
		ReapSchedule:      DefaultReapSchedule,
		SpawnRate:         DefaultSpawnRate,
		SpawnBurst:        DefaultSpawnBurst,
		StreamRateLimit:   DefaultStreamRateLimit,
		StreamIdleTimeout: DefaultStreamIdleTimeout,
		BufferSize:        DefaultBufferSize,
		RateLimitMax:      DefaultRateLimitMax,
		RateLimitWindow:   DefaultRateLimitWindow,
	}
}

// Load reads the config from the environment on top of the defaults.
func Load() (*Config, error) {
	cfg := Default()

	var err error
	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return nil, err
	}
	cfg.AllowedOrigin = envString("ALLOWED_ORIGIN", cfg.AllowedOrigin)
	cfg.YtDlpPath = envString("YTDLP_PATH", cfg.YtDlpPath)
	cfg.FFmpegLocation = envString("FFMPEG_LOCATION", cfg.FFmpegLocation)
	cfg.ProxyURL = envString("PROXY_URL", cfg.ProxyURL)
	cfg.ReapSchedule = envString("REAP_SCHEDULE", cfg.ReapSchedule)

	if cfg.InfoTimeout, err = envDuration("INFO_TIMEOUT", cfg.InfoTimeout); err != nil {
		return nil, err
	}
	if cfg.MaxDownloadAge, err = envDuration("MAX_DOWNLOAD_AGE", cfg.MaxDownloadAge); err != nil {
		return nil, err
	}
	if cfg.SpawnRate, err = envFloat("SPAWN_RATE", cfg.SpawnRate); err != nil {
		return nil, err
	}
	if cfg.SpawnBurst, err = envInt("SPAWN_BURST", cfg.SpawnBurst); err != nil {
		return nil, err
	}
	if cfg.StreamRateLimit, err = envInt("STREAM_RATE_LIMIT", cfg.StreamRateLimit); err != nil {
		return nil, err
	}
	if cfg.StreamIdleTimeout, err = envDuration("STREAM_IDLE_TIMEOUT", cfg.StreamIdleTimeout); err != nil {
		return nil, err
	}
	if cfg.BufferSize, err = envInt("BUFFER_SIZE", cfg.BufferSize); err != nil {
		return nil, err
	}
	if cfg.RateLimitMax, err = envInt("RATE_LIMIT_MAX", cfg.RateLimitMax); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = envDuration("RATE_LIMIT_WINDOW", cfg.RateLimitWindow); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the config values are usable.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	if c.YtDlpPath == "" {
		return fmt.Errorf("YTDLP_PATH must not be empty")
	}
	if c.InfoTimeout <= 0 {
		return fmt.Errorf("invalid INFO_TIMEOUT: %v", c.InfoTimeout)
	}
	if c.MaxDownloadAge <= 0 {
		return fmt.Errorf("invalid MAX_DOWNLOAD_AGE: %v", c.MaxDownloadAge)
	}
	if _, err := cron.ParseStandard(c.ReapSchedule); err != nil {
		return fmt.Errorf("invalid REAP_SCHEDULE %q: %w", c.ReapSchedule, err)
	}
	if c.SpawnRate < 0 || c.SpawnBurst < 1 {
		return fmt.Errorf("invalid spawn limit: rate=%v burst=%d", c.SpawnRate, c.SpawnBurst)
	}
	if c.StreamRateLimit < 0 {
		return fmt.Errorf("invalid STREAM_RATE_LIMIT: %d", c.StreamRateLimit)
	}
	if c.StreamIdleTimeout < 0 {
		return fmt.Errorf("invalid STREAM_IDLE_TIMEOUT: %v", c.StreamIdleTimeout)
	}
	if c.BufferSize < 1024 {
		return fmt.Errorf("BUFFER_SIZE must be at least 1024, got %d", c.BufferSize)
	}
	if c.RateLimitMax < 0 || (c.RateLimitMax > 0 && c.RateLimitWindow <= 0) {
		return fmt.Errorf("invalid rate limit: max=%d window=%v", c.RateLimitMax, c.RateLimitWindow)
	}
	if c.ProxyURL != "" {
		if err := validateProxyURL(c.ProxyURL); err != nil {
			return err
		}
	}
	return nil
}

// validateProxyURL makes sure the proxy handed to yt-dlp uses a scheme we can dial.
func validateProxyURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid PROXY_URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("invalid PROXY_URL: missing host")
		}
		return nil
	}
	if _, err := proxy.FromURL(u, proxy.Direct); err != nil {
		return fmt.Errorf("unsupported PROXY_URL: %w", err)
	}
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
