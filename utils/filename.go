package utils

import (
	"fmt"
	"regexp"
	"strings"

	"link-downloader-go/config"
)

const defaultTitle = "video"

var (
	// Anything that is not a word character, whitespace, dot or hyphen
	unsafeChars = regexp.MustCompile(`[^\w\s.-]`)
	// Line breaks and tabs would end up inside a header value
	controlSpaces = regexp.MustCompile(`[\t\n\v\f\r]`)
)

// SanitizeFilename strips every character outside word characters,
// whitespace, dots and hyphens.
func SanitizeFilename(name string) string {
	name = unsafeChars.ReplaceAllString(name, "")
	return controlSpaces.ReplaceAllString(name, " ")
}

// DownloadFilename builds the attachment filename for a title. An empty
// title, or one with nothing left after sanitizing, becomes "video".
func DownloadFilename(title string) string {
	stem := strings.TrimSpace(SanitizeFilename(title))
	if stem == "" {
		stem = defaultTitle
	}
	return fmt.Sprintf("%s.%s", stem, config.OutputContainer)
}

// ContentDisposition returns the attachment header value for filename
func ContentDisposition(filename string) string {
	return fmt.Sprintf(`attachment; filename="%s"`, filename)
}
