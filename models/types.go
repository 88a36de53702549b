package models

// InfoRequest is the body of POST /api/get-info
type InfoRequest struct {
	URL string `json:"url"`
}

// DownloadRequest holds the query parameters of GET /api/download
type DownloadRequest struct {
	URL      string `query:"url"`
	Title    string `query:"title"`
	FormatID string `query:"formatId"`
}

// EncodingOption is one selectable video encoding
type EncodingOption struct {
	ID         string `json:"id"`
	Ext        string `json:"ext"`
	Resolution string `json:"resolution"` // 1080p, 720p, etc.
	Filesize   string `json:"filesize"`   // "10.0 MB" or "Unknown Size"
	Height     int    `json:"height"`
}

// MediaSummary is returned by POST /api/get-info
type MediaSummary struct {
	Title     string           `json:"title"`
	Thumbnail string           `json:"thumbnail"`
	Duration  string           `json:"duration"`
	Formats   []EncodingOption `json:"formats"`
}

// ActiveDownload describes a running download process
type ActiveDownload struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	FormatID  string `json:"formatId,omitempty"`
	StartedAt int64  `json:"startedAt"`
	Bytes     int64  `json:"bytes"`
}

// ErrorResponse for API errors
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse for health check
type HealthResponse struct {
	Status          string `json:"status"`
	Timestamp       int64  `json:"timestamp"`
	ActiveDownloads int    `json:"activeDownloads"`
}

// CancelResponse for download cancellation
type CancelResponse struct {
	Success bool `json:"success"`
}
