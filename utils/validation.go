package utils

import (
	"fmt"
	"regexp"
	"strings"

	"link-downloader-go/services"
)

var (
	// yt-dlp format ids are opaque, but must not carry selector syntax
	formatIDPattern   = regexp.MustCompile(`^[^\s+/\[\](),]{1,128}$`)
	downloadIDPattern = regexp.MustCompile(fmt.Sprintf(`^[a-zA-Z0-9_-]{%d}$`, services.DownloadIDLength))
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateSourceURL checks that a source was given. Anything yt-dlp accepts
// is passed through: page URLs, bare video ids, "ytsearch1:" style queries.
func ValidateSourceURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ValidationError{Field: "url", Message: "URL is required"}
	}
	return nil
}

// ValidateFormatID checks the format id chosen by the client. Empty is allowed.
func ValidateFormatID(formatID string) error {
	if formatID == "" {
		return nil
	}
	if !formatIDPattern.MatchString(formatID) {
		return ValidationError{Field: "formatId", Message: "Invalid format id"}
	}
	return nil
}

// ValidateDownloadID validates the download ID format
func ValidateDownloadID(id string) bool {
	return downloadIDPattern.MatchString(id)
}
