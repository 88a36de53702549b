package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "YTDLP_PATH", "INFO_TIMEOUT", "PROXY_URL", "REAP_SCHEDULE", "STREAM_IDLE_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("Expected port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.YtDlpPath != DefaultYtDlpPath {
		t.Errorf("Expected yt-dlp path %q, got %q", DefaultYtDlpPath, cfg.YtDlpPath)
	}
	if cfg.InfoTimeout != DefaultInfoTimeout {
		t.Errorf("Expected info timeout %v, got %v", DefaultInfoTimeout, cfg.InfoTimeout)
	}
	if cfg.StreamIdleTimeout != DefaultStreamIdleTimeout {
		t.Errorf("Expected stream idle timeout %v, got %v", DefaultStreamIdleTimeout, cfg.StreamIdleTimeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOWED_ORIGIN", "https://example.com")
	t.Setenv("INFO_TIMEOUT", "15s")
	t.Setenv("STREAM_RATE_LIMIT", "1048576")
	t.Setenv("STREAM_IDLE_TIMEOUT", "90s")
	t.Setenv("PROXY_URL", "socks5://127.0.0.1:1111")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Port)
	}
	if cfg.AllowedOrigin != "https://example.com" {
		t.Errorf("Expected allowed origin to be set, got %q", cfg.AllowedOrigin)
	}
	if cfg.InfoTimeout != 15*time.Second {
		t.Errorf("Expected info timeout 15s, got %v", cfg.InfoTimeout)
	}
	if cfg.StreamRateLimit != 1048576 {
		t.Errorf("Expected stream rate limit 1048576, got %d", cfg.StreamRateLimit)
	}
	if cfg.StreamIdleTimeout != 90*time.Second {
		t.Errorf("Expected stream idle timeout 90s, got %v", cfg.StreamIdleTimeout)
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non-numeric port", key: "PORT", value: "abc"},
		{name: "port out of range", key: "PORT", value: "70000"},
		{name: "bad duration", key: "INFO_TIMEOUT", value: "soon"},
		{name: "bad schedule", key: "REAP_SCHEDULE", value: "every minute"},
		{name: "negative stream limit", key: "STREAM_RATE_LIMIT", value: "-1"},
		{name: "negative idle timeout", key: "STREAM_IDLE_TIMEOUT", value: "-5s"},
		{name: "unsupported proxy scheme", key: "PROXY_URL", value: "ftp://127.0.0.1:21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%q, got nil", tt.key, tt.value)
			}
		})
	}
}

func TestValidateProxyURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "http proxy", raw: "http://proxy.local:3128", wantErr: false},
		{name: "socks5 proxy", raw: "socks5://127.0.0.1:1080", wantErr: false},
		{name: "http without host", raw: "http://", wantErr: true},
		{name: "unknown scheme", raw: "gopher://127.0.0.1:70", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateProxyURL(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateProxyURL(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}
