// Package download streams resolved video URLs to local temporary files.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"
)

// ErrDownloadFailed is returned on any transport, status or write failure
// while fetching a video.
var ErrDownloadFailed = errors.New("download: video download failed")

// browserUserAgent is sent on video requests; some CDNs reject requests
// without a conventional browser user agent.
const browserUserAgent = "Mozilla/5.0"

// fallbackName is used when the source URL path yields no usable basename.
const fallbackName = "video.mp4"

// Downloader streams remote videos into a process-local temporary directory.
// The directory is created lazily on first use. Filenames carry a
// millisecond-timestamp prefix so concurrent downloads never collide.
type Downloader struct {
	tempDir    string
	httpClient *http.Client
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(d *Downloader) {
		d.httpClient = hc
	}
}

// NewDownloader creates a Downloader writing into tempDir.
// If tempDir is empty, a directory under os.TempDir() is used.
func NewDownloader(tempDir string, opts ...Option) *Downloader {
	if tempDir == "" {
		tempDir = filepath.Join(os.TempDir(), "socialvid")
	}
	d := &Downloader{
		tempDir: tempDir,
		// Videos can be large; no overall timeout, cancellation comes
		// from the request context.
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// TempDir returns the temporary directory path.
func (d *Downloader) TempDir() string {
	return d.tempDir
}

// Fetch downloads videoURL to a new file in the temp directory and returns
// the local path. Bytes are streamed straight to disk, so peak memory use is
// independent of video size. On any failure the partial file is removed.
func (d *Downloader) Fetch(ctx context.Context, videoURL string) (string, error) {
	if err := os.MkdirAll(d.tempDir, 0750); err != nil {
		return "", fmt.Errorf("%w: create temp directory: %w", ErrDownloadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", ErrDownloadFailed, err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrDownloadFailed, resp.StatusCode)
	}

	filePath := filepath.Join(d.tempDir, destName(videoURL))

	f, err := os.Create(filePath) // #nosec G304 - path is derived inside tempDir
	if err != nil {
		return "", fmt.Errorf("%w: create file: %w", ErrDownloadFailed, err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(filePath)
		return "", fmt.Errorf("%w: write file: %w", ErrDownloadFailed, err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(filePath)
		return "", fmt.Errorf("%w: close file: %w", ErrDownloadFailed, err)
	}

	return filePath, nil
}

// destName derives the destination filename: a millisecond timestamp prefix
// plus the basename of the URL path with the query string stripped.
func destName(videoURL string) string {
	base := ""
	if u, err := url.Parse(videoURL); err == nil {
		base = path.Base(u.Path)
	}
	if base == "" || base == "." || base == "/" {
		base = fallbackName
	}
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), base)
}
