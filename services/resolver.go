package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"link-downloader-go/models"
)

// UnknownSize is the size label used when the tool reports no size
const UnknownSize = "Unknown Size"

const bytesPerMB = 1024 * 1024

// InfoFetcher fetches raw metadata for a URL
type InfoFetcher interface {
	FetchInfo(ctx context.Context, url string) (*models.VideoData, error)
}

// Resolver turns a URL into a MediaSummary
type Resolver struct {
	fetcher InfoFetcher
	timeout time.Duration
}

// NewResolver creates a resolver. Each fetch is bounded by timeout.
func NewResolver(fetcher InfoFetcher, timeout time.Duration) *Resolver {
	return &Resolver{fetcher: fetcher, timeout: timeout}
}

// Resolve fetches metadata for url and builds the summary
func (r *Resolver) Resolve(ctx context.Context, url string) (*models.MediaSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	data, err := r.fetcher.FetchInfo(ctx, url)
	if err != nil {
		return nil, err
	}

	return BuildSummary(data), nil
}

// BuildSummary maps yt-dlp metadata to a MediaSummary
func BuildSummary(data *models.VideoData) *models.MediaSummary {
	duration := data.DurationString
	if duration == "" && data.Duration != nil {
		duration = FormatDuration(*data.Duration)
	}

	return &models.MediaSummary{
		Title:     data.Title,
		Thumbnail: data.Thumbnail,
		Duration:  duration,
		Formats:   SelectEncodings(data.Formats),
	}
}

// SelectEncodings keeps formats with a video track and a known height, keeps
// the first entry per resolution label, and sorts by descending height.
func SelectEncodings(formats []models.VideoFormat) []models.EncodingOption {
	options := make([]models.EncodingOption, 0, len(formats))
	seen := make(map[string]bool)

	for _, f := range formats {
		if f.VCodec == "none" || f.Height == nil {
			continue
		}

		option := toEncodingOption(f)
		if seen[option.Resolution] {
			continue
		}
		seen[option.Resolution] = true
		options = append(options, option)
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Height > options[j].Height
	})

	return options
}

func toEncodingOption(f models.VideoFormat) models.EncodingOption {
	size := f.Filesize
	if !known(size) {
		size = f.FilesizeApprox
	}

	return models.EncodingOption{
		ID:         f.FormatID,
		Ext:        f.Ext,
		Resolution: fmt.Sprintf("%dp", *f.Height),
		Filesize:   FormatSize(size),
		Height:     *f.Height,
	}
}

// known reports whether a size was reported; zero counts as absent
func known(size *float64) bool {
	return size != nil && *size > 0
}

// FormatSize renders a byte count as megabytes with one decimal
func FormatSize(size *float64) string {
	if !known(size) {
		return UnknownSize
	}
	return fmt.Sprintf("%.1f MB", *size/bytesPerMB)
}

// FormatDuration formats seconds the way yt-dlp's duration_string does:
// H:MM:SS, M:SS, or S.
func FormatDuration(seconds float64) string {
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%d:%02d", minutes, secs)
	default:
		return fmt.Sprintf("%d", secs)
	}
}
