package services

import "errors"

var (
	// ErrToolFailed is returned when yt-dlp cannot be run or exits non-zero
	ErrToolFailed = errors.New("extraction tool failed")
	// ErrBadMetadata is returned when yt-dlp output cannot be parsed into VideoData
	ErrBadMetadata = errors.New("unexpected metadata output")
)
