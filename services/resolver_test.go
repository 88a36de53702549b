package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"link-downloader-go/models"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestSelectEncodingsExcludesAudioOnly(t *testing.T) {
	formats := []models.VideoFormat{
		{FormatID: "140", Ext: "m4a", VCodec: "none", ACodec: "mp4a.40.2"},
		{FormatID: "251", Ext: "webm", VCodec: "none", ACodec: "opus", Height: intPtr(0)},
		{FormatID: "137", Ext: "mp4", VCodec: "avc1.640028", ACodec: "none", Height: intPtr(1080)},
		{FormatID: "18", Ext: "mp4", VCodec: "avc1.42001E", ACodec: "mp4a.40.2", Height: intPtr(360)},
		{FormatID: "sb0", Ext: "mhtml", VCodec: "images"},
	}

	options := SelectEncodings(formats)

	if len(options) != 2 {
		t.Fatalf("Expected 2 options, got %d: %+v", len(options), options)
	}
	for _, o := range options {
		if o.ID == "140" || o.ID == "251" || o.ID == "sb0" {
			t.Errorf("Unexpected option %q in result", o.ID)
		}
	}
}

func TestSelectEncodingsDedupKeepsFirst(t *testing.T) {
	formats := []models.VideoFormat{
		{FormatID: "136", Ext: "mp4", VCodec: "avc1", Height: intPtr(720)},
		{FormatID: "247", Ext: "webm", VCodec: "vp9", Height: intPtr(720)},
		{FormatID: "22", Ext: "mp4", VCodec: "avc1", ACodec: "mp4a", Height: intPtr(720)},
		{FormatID: "135", Ext: "mp4", VCodec: "avc1", Height: intPtr(480)},
	}

	options := SelectEncodings(formats)

	if len(options) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(options))
	}
	if options[0].ID != "136" {
		t.Errorf("Expected first 720p entry (136) to survive, got %q", options[0].ID)
	}

	counts := map[string]int{}
	for _, o := range options {
		counts[o.Resolution]++
	}
	for res, n := range counts {
		if n != 1 {
			t.Errorf("Expected one option for %s, got %d", res, n)
		}
	}
}

func TestSelectEncodingsSortedByHeight(t *testing.T) {
	formats := []models.VideoFormat{
		{FormatID: "160", VCodec: "avc1", Height: intPtr(144)},
		{FormatID: "137", VCodec: "avc1", Height: intPtr(1080)},
		{FormatID: "134", VCodec: "avc1", Height: intPtr(360)},
		{FormatID: "313", VCodec: "vp9", Height: intPtr(2160)},
		{FormatID: "136", VCodec: "avc1", Height: intPtr(720)},
	}

	options := SelectEncodings(formats)

	want := []string{"2160p", "1080p", "720p", "360p", "144p"}
	if len(options) != len(want) {
		t.Fatalf("Expected %d options, got %d", len(want), len(options))
	}
	for i := range want {
		if options[i].Resolution != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], options[i].Resolution)
		}
		if i > 0 && options[i].Height > options[i-1].Height {
			t.Errorf("Heights not non-increasing at %d: %d > %d", i, options[i].Height, options[i-1].Height)
		}
	}
}

func TestFormatSizeLabels(t *testing.T) {
	tests := []struct {
		name   string
		format models.VideoFormat
		want   string
	}{
		{
			name:   "exact size",
			format: models.VideoFormat{Filesize: floatPtr(10485760), FilesizeApprox: floatPtr(999)},
			want:   "10.0 MB",
		},
		{
			name:   "approximate size only",
			format: models.VideoFormat{FilesizeApprox: floatPtr(5242880)},
			want:   "5.0 MB",
		},
		{
			name:   "zero exact falls back to approximate",
			format: models.VideoFormat{Filesize: floatPtr(0), FilesizeApprox: floatPtr(1572864)},
			want:   "1.5 MB",
		},
		{
			name:   "no size",
			format: models.VideoFormat{},
			want:   UnknownSize,
		},
		{
			name:   "zero both",
			format: models.VideoFormat{Filesize: floatPtr(0), FilesizeApprox: floatPtr(0)},
			want:   UnknownSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.format.FormatID = "x"
			tt.format.VCodec = "avc1"
			tt.format.Height = intPtr(720)

			option := toEncodingOption(tt.format)
			if option.Filesize != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, option.Filesize)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{seconds: 45, want: "45"},
		{seconds: 205, want: "3:25"},
		{seconds: 3723.6, want: "1:02:03"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestBuildSummary(t *testing.T) {
	data := &models.VideoData{
		Title:     "Some video",
		Thumbnail: "https://i.example.com/thumb.jpg",
		Duration:  floatPtr(212),
		Formats: []models.VideoFormat{
			{FormatID: "18", Ext: "mp4", VCodec: "avc1", Height: intPtr(360), Filesize: floatPtr(10485760)},
		},
	}

	summary := BuildSummary(data)

	if summary.Title != "Some video" || summary.Thumbnail != data.Thumbnail {
		t.Errorf("Unexpected title/thumbnail: %+v", summary)
	}
	if summary.Duration != "3:32" {
		t.Errorf("Expected duration derived from seconds, got %q", summary.Duration)
	}
	if len(summary.Formats) != 1 || summary.Formats[0].Filesize != "10.0 MB" {
		t.Errorf("Unexpected formats: %+v", summary.Formats)
	}

	data.DurationString = "3:33"
	if got := BuildSummary(data).Duration; got != "3:33" {
		t.Errorf("Expected duration_string to win, got %q", got)
	}
}

type fakeFetcher struct {
	data     *models.VideoData
	err      error
	deadline bool
}

func (f *fakeFetcher) FetchInfo(ctx context.Context, url string) (*models.VideoData, error) {
	_, f.deadline = ctx.Deadline()
	return f.data, f.err
}

func TestResolverResolve(t *testing.T) {
	fetcher := &fakeFetcher{data: &models.VideoData{Title: "t", Formats: []models.VideoFormat{}}}
	resolver := NewResolver(fetcher, time.Second)

	summary, err := resolver.Resolve(context.Background(), "https://example.com/v")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !fetcher.deadline {
		t.Error("Expected fetch context to carry a deadline")
	}
	if summary.Formats == nil {
		t.Error("Expected empty, non-nil formats")
	}

	fetcher.err = ErrToolFailed
	if _, err := resolver.Resolve(context.Background(), "https://example.com/v"); !errors.Is(err, ErrToolFailed) {
		t.Errorf("Expected ErrToolFailed, got %v", err)
	}
}
