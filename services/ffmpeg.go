package services

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Fragmented MP4 so the muxer can write to a pipe: keyframe fragments and
// an empty initial moov box.
const ffmpegMovFlags = "frag_keyframe+empty_moov"

// FFmpegDownloaderArgs returns the yt-dlp flags that delegate the download to
// ffmpeg producing a streamable container.
func FFmpegDownloaderArgs() []string {
	return []string{
		"--downloader", "ffmpeg",
		"--downloader-args", fmt.Sprintf("ffmpeg:-movflags %s", ffmpegMovFlags),
	}
}

// FFmpegAvailable checks that ffmpeg can be found. location is the value
// handed to yt-dlp's --ffmpeg-location: empty (PATH), a binary or a directory.
func FFmpegAvailable(location string) (string, error) {
	path := "ffmpeg"
	if location != "" {
		path = location
		if info, err := os.Stat(location); err == nil && info.IsDir() {
			path = filepath.Join(location, "ffmpeg")
		}
	}

	resolved, err := exec.LookPath(path)
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found: %w", err)
	}
	return resolved, nil
}
