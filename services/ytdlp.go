package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"link-downloader-go/config"
	"link-downloader-go/models"

	"golang.org/x/time/rate"
)

// Format selector fallbacks used when the requested stream is unavailable
const (
	fallbackSelector = "bestvideo+bestaudio/best"
)

// YtDlp runs the yt-dlp binary
type YtDlp struct {
	path           string
	ffmpegLocation string
	proxyURL       string
	bufferSize     int

	spawn *rate.Limiter
	procs *ProcessRegistry
}

// NewYtDlp creates a runner from the config. Spawned downloads are tracked in procs.
func NewYtDlp(cfg *config.Config, procs *ProcessRegistry) *YtDlp {
	limit := rate.Inf
	if cfg.SpawnRate > 0 {
		limit = rate.Limit(cfg.SpawnRate)
	}

	return &YtDlp{
		path:           cfg.YtDlpPath,
		ffmpegLocation: cfg.FFmpegLocation,
		proxyURL:       cfg.ProxyURL,
		bufferSize:     cfg.BufferSize,
		spawn:          rate.NewLimiter(limit, cfg.SpawnBurst),
		procs:          procs,
	}
}

// FetchInfo runs yt-dlp in JSON metadata mode and parses its output
func (y *YtDlp) FetchInfo(ctx context.Context, url string) (*models.VideoData, error) {
	if err := y.spawn.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrToolFailed, err)
	}

	cmd := exec.CommandContext(ctx, y.path, y.infoArgs(url)...)
	configureProcessGroup(cmd)
	cmd.WaitDelay = processWaitDelay

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: exit code %d: %s", ErrToolFailed, exitErr.ExitCode(), lastLine(stderr.String()))
		}
		return nil, fmt.Errorf("%w: %w", ErrToolFailed, err)
	}

	return ParseVideoData(output)
}

// ParseVideoData decodes `yt-dlp -j` output
func ParseVideoData(output []byte) (*models.VideoData, error) {
	var data models.VideoData
	if err := json.Unmarshal(output, &data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadMetadata, err)
	}
	if data.Formats == nil {
		return nil, fmt.Errorf("%w: missing formats", ErrBadMetadata)
	}
	return &data, nil
}

// StartDownload spawns the yt-dlp + ffmpeg pipeline writing the muxed
// container to stdout. The returned process is registered until it exits.
func (y *YtDlp) StartDownload(ctx context.Context, req models.DownloadRequest) (*Process, error) {
	if err := y.spawn.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrToolFailed, err)
	}

	id := y.procs.NewID()
	proc, err := startProcess(ctx, id, y.path, y.downloadArgs(req.URL, req.FormatID), y.bufferSize, func() {
		y.procs.Remove(id)
	})
	if err != nil {
		return nil, err
	}

	proc.URL = req.URL
	proc.FormatID = req.FormatID
	y.procs.Add(proc)

	return proc, nil
}

// Version returns the output of `yt-dlp --version`
func (y *YtDlp) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, y.path, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrToolFailed, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// FormatSelector builds the -f argument: the chosen video stream plus the
// best m4a audio, falling back to best video + best audio, then best overall.
func FormatSelector(formatID string) string {
	if formatID == "" {
		return fallbackSelector
	}
	return fmt.Sprintf("%s+bestaudio[ext=%s]/%s", formatID, config.PreferredAudioExt, fallbackSelector)
}

func (y *YtDlp) infoArgs(url string) []string {
	args := []string{"-j", "--no-warnings", "--no-playlist"}
	args = append(args, y.commonArgs()...)
	return append(args, "--", url)
}

func (y *YtDlp) downloadArgs(url, formatID string) []string {
	args := []string{
		"-f", FormatSelector(formatID),
		"--merge-output-format", config.OutputContainer,
		"-o", "-",
	}
	args = append(args, FFmpegDownloaderArgs()...)
	args = append(args, y.commonArgs()...)
	return append(args, "--", url)
}

func (y *YtDlp) commonArgs() []string {
	var args []string
	if y.proxyURL != "" {
		args = append(args, "--proxy", y.proxyURL)
	}
	if y.ffmpegLocation != "" {
		args = append(args, "--ffmpeg-location", y.ffmpegLocation)
	}
	return args
}

// lastLine returns the last non-empty line of s
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
