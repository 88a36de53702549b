package models

// VideoData is the subset of `yt-dlp -j` output we rely on
type VideoData struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Thumbnail      string        `json:"thumbnail"`
	Duration       *float64      `json:"duration"`
	DurationString string        `json:"duration_string"`
	WebpageURL     string        `json:"webpage_url"`
	Formats        []VideoFormat `json:"formats"`
}

// VideoFormat is one entry of the `formats` array
type VideoFormat struct {
	FormatID       string   `json:"format_id"`
	Ext            string   `json:"ext"`
	VCodec         string   `json:"vcodec"`
	ACodec         string   `json:"acodec"`
	Width          *int     `json:"width"`
	Height         *int     `json:"height"`
	Filesize       *float64 `json:"filesize"`
	FilesizeApprox *float64 `json:"filesize_approx"`
	FormatNote     string   `json:"format_note"`
}
