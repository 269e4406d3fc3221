package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrExtractionFailed is returned when ffmpeg reports an error or produces
// no output file.
var ErrExtractionFailed = errors.New("media: thumbnail extraction failed")

const (
	// thumbnailOffsetSec is the fixed capture point into the video.
	thumbnailOffsetSec = "4"
	// thumbnailSuffix is appended to the video's base name.
	thumbnailSuffix = "_thumbnail.webp"
)

// FFmpegExtractor implements Extractor using the ffmpeg CLI.
type FFmpegExtractor struct {
	// ffmpegPath is the path to the ffmpeg binary. Defaults to "ffmpeg".
	ffmpegPath string
}

// NewFFmpegExtractor creates a new FFmpegExtractor.
// If ffmpegPath is empty, it defaults to "ffmpeg" (found via PATH).
func NewFFmpegExtractor(ffmpegPath string) *FFmpegExtractor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &FFmpegExtractor{ffmpegPath: ffmpegPath}
}

// ExtractThumbnail captures one frame at the fixed 4 second offset and writes
// it as {videoBase}_thumbnail.webp in the video's directory. The call blocks
// until ffmpeg exits; a short or corrupt video surfaces as an error rather
// than an empty thumbnail.
func (e *FFmpegExtractor) ExtractThumbnail(ctx context.Context, videoPath string) (string, error) {
	thumbPath := ThumbnailPath(videoPath)

	args := []string{
		"-y",                      // Overwrite output file without asking
		"-ss", thumbnailOffsetSec, // Seek to the capture point
		"-i", videoPath, // Input video
		"-frames:v", "1", // Output a single frame
		thumbPath, // Output image; format inferred from .webp extension
	}

	if err := e.runFFmpeg(ctx, args); err != nil {
		// ffmpeg may have written a partial frame before failing; the
		// caller never learns thumbPath on error, so remove it here.
		_ = os.Remove(thumbPath)
		return "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	// ffmpeg can exit zero without writing a frame (e.g. empty input stream).
	if _, err := os.Stat(thumbPath); err != nil {
		return "", fmt.Errorf("%w: no output file produced: %w", ErrExtractionFailed, err)
	}

	return thumbPath, nil
}

// ThumbnailPath returns the thumbnail path derived from a video path:
// same directory, base name without extension, fixed suffix.
func ThumbnailPath(videoPath string) string {
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	return filepath.Join(filepath.Dir(videoPath), base+thumbnailSuffix)
}

// runFFmpeg executes ffmpeg with the given arguments and returns an error
// containing stderr output if the command fails.
func (e *FFmpegExtractor) runFFmpeg(ctx context.Context, args []string) error {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &FFmpegError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return nil
}

// FFmpegError represents an error from running ffmpeg, including the stderr output.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}
