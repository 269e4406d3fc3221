// Package pipeline orchestrates the download→transcode→upload flow for a
// social-media post URL: resolve the platform, fetch the direct video URL,
// download the video, publish it, derive a thumbnail and blurhash, publish
// the thumbnail and assemble the result. Temp files created along the way
// never outlive the run, success or failure.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/solerv/socialvid-api/internal/media"
	"github.com/solerv/socialvid-api/internal/platform"
	"github.com/solerv/socialvid-api/internal/storage"
)

// ErrInvalidRequest is returned when the request URL is empty or malformed.
var ErrInvalidRequest = errors.New("pipeline: a valid URL is required")

// State identifies the stage a pipeline run is in. Stages advance strictly
// in order; any failure moves the run to StateFailed.
type State string

const (
	StateResolving           State = "resolving"
	StateFetchingMetadata    State = "fetching_metadata"
	StateDownloading         State = "downloading"
	StateUploadingVideo      State = "uploading_video"
	StateExtractingThumbnail State = "extracting_thumbnail"
	StateUploadingThumbnail  State = "uploading_thumbnail"
	StateHashing             State = "hashing"
	StateDone                State = "done"
	StateFailed              State = "failed"
)

// keyPrefix is the object-store key namespace for published assets.
const keyPrefix = "social-media-videos"

// Request is the pipeline input.
type Request struct {
	// OriginalURL is the social-media post URL to process.
	OriginalURL string
}

// Result is the immutable output of a successful run.
type Result struct {
	Platform     platform.Platform `json:"platform"`
	OriginalURL  string            `json:"originalUrl"`
	VideoURL     string            `json:"videoUrl"`
	ThumbnailURL string            `json:"thumbnailUrl"`
	Blurhash     string            `json:"blurhash"`
}

// MetadataFetcher resolves a post URL into a direct video URL.
type MetadataFetcher interface {
	DirectVideoURL(ctx context.Context, originalURL string, p platform.Platform) (string, error)
}

// VideoFetcher downloads a direct video URL to a local temp file.
type VideoFetcher interface {
	Fetch(ctx context.Context, videoURL string) (string, error)
}

// HashFunc computes a perceptual hash for a local image file.
type HashFunc func(imagePath string) (string, error)

// Service sequences the pipeline stages. It holds no per-run state; the
// injected collaborators are long-lived and read-only, so concurrent runs
// never interfere.
type Service struct {
	metadata   MetadataFetcher
	downloader VideoFetcher
	extractor  media.Extractor
	uploader   storage.Uploader
	hash       HashFunc
	logger     *slog.Logger
}

// NewService creates a pipeline Service with its collaborators.
func NewService(
	metadata MetadataFetcher,
	downloader VideoFetcher,
	extractor media.Extractor,
	uploader storage.Uploader,
	hash HashFunc,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		metadata:   metadata,
		downloader: downloader,
		extractor:  extractor,
		uploader:   uploader,
		hash:       hash,
		logger:     logger,
	}
}

// run tracks the state and temp files of one pipeline execution.
type run struct {
	state     State
	tempFiles []string
	logger    *slog.Logger
}

// advance moves the run to the next stage.
func (r *run) advance(next State) {
	r.state = next
	r.logger.Info("pipeline stage", slog.String("state", string(next)))
}

// fail marks the run failed and wraps the stage error with the state it
// failed in. The original error is preserved for errors.Is/As.
func (r *run) fail(err error) error {
	failedIn := r.state
	r.state = StateFailed
	r.logger.Error("pipeline failed",
		slog.String("state", string(failedIn)),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("stage %s: %w", failedIn, err)
}

// track registers a temp file for end-of-run removal.
func (r *run) track(path string) {
	r.tempFiles = append(r.tempFiles, path)
}

// cleanup removes all tracked temp files. Best effort: removal failures are
// logged and swallowed so they never mask a pipeline error.
func (r *run) cleanup() {
	for _, p := range r.tempFiles {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			r.logger.Warn("failed to remove temp file",
				slog.String("path", p),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Process executes one pipeline run. It validates the request, sequences the
// stages and returns the assembled Result. Every temp file created by the
// run is removed before Process returns, on every exit path.
func (s *Service) Process(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	// The run starts in the zero state; the first advance moves it into
	// StateResolving.
	r := &run{
		logger: s.logger.With(
			slog.String("run_id", uuid.NewString()),
			slog.String("original_url", req.OriginalURL),
		),
	}
	defer r.cleanup()

	r.advance(StateResolving)
	plat, err := platform.Resolve(req.OriginalURL)
	if err != nil {
		return nil, r.fail(err)
	}

	r.advance(StateFetchingMetadata)
	directURL, err := s.metadata.DirectVideoURL(ctx, req.OriginalURL, plat)
	if err != nil {
		return nil, r.fail(err)
	}

	r.advance(StateDownloading)
	videoPath, err := s.downloader.Fetch(ctx, directURL)
	if err != nil {
		return nil, r.fail(err)
	}
	r.track(videoPath)

	r.advance(StateUploadingVideo)
	videoKey := fmt.Sprintf("%s/%s/%s", keyPrefix, plat, filepath.Base(videoPath))
	videoURL, err := s.uploader.UploadFile(ctx, videoPath, videoKey, "video/mp4")
	if err != nil {
		return nil, r.fail(err)
	}

	r.advance(StateExtractingThumbnail)
	thumbPath, err := s.extractor.ExtractThumbnail(ctx, videoPath)
	if err != nil {
		return nil, r.fail(err)
	}
	r.track(thumbPath)

	r.advance(StateUploadingThumbnail)
	thumbKey := fmt.Sprintf("%s/%s/thumbnails/%s", keyPrefix, plat, filepath.Base(thumbPath))
	thumbnailURL, err := s.uploader.UploadFile(ctx, thumbPath, thumbKey, "image/webp")
	if err != nil {
		return nil, r.fail(err)
	}

	r.advance(StateHashing)
	hash, err := s.hash(thumbPath)
	if err != nil {
		return nil, r.fail(err)
	}

	r.advance(StateDone)
	return &Result{
		Platform:     plat,
		OriginalURL:  req.OriginalURL,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Blurhash:     hash,
	}, nil
}

// validate checks the request before any stage runs.
func validate(req Request) error {
	if strings.TrimSpace(req.OriginalURL) == "" {
		return ErrInvalidRequest
	}
	u, err := url.Parse(req.OriginalURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, req.OriginalURL)
	}
	return nil
}
