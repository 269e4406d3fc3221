// Package media provides video frame extraction backed by the ffmpeg CLI.
package media

import "context"

// Extractor defines the interface for producing a still image from a video.
type Extractor interface {
	// ExtractThumbnail captures a single frame from the video at a fixed
	// offset and writes it as a webp image next to the video file.
	// It returns the path of the written thumbnail.
	ExtractThumbnail(ctx context.Context, videoPath string) (string, error)
}
