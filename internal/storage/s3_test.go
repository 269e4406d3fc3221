package storage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testConfig(endpoint string) S3Config {
	return S3Config{
		Bucket:          "test-bucket",
		Region:          "us-east-1",
		Endpoint:        endpoint,
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
	}
}

// fakeS3 returns a test server accepting any PUT as a successful upload.
func fakeS3(t *testing.T, onPut func(r *http.Request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && onPut != nil {
			onPut(r)
		}
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
}

func writeTestFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("video bytes"), 0600); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	return path
}

func TestUploadFile_ReturnsS3URL(t *testing.T) {
	var gotPath, gotContentType string
	srv := fakeS3(t, func(r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
	})
	defer srv.Close()

	up, err := NewS3Uploader(context.Background(), testConfig(srv.URL), slog.Default())
	if err != nil {
		t.Fatalf("NewS3Uploader() error = %v", err)
	}

	url, err := up.UploadFile(context.Background(), writeTestFile(t), "social-media-videos/tiktok/1700_clip.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("UploadFile() error = %v", err)
	}

	want := "https://test-bucket.s3.amazonaws.com/social-media-videos/tiktok/1700_clip.mp4"
	if url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
	if gotPath != "/test-bucket/social-media-videos/tiktok/1700_clip.mp4" {
		t.Errorf("put path = %q", gotPath)
	}
	if gotContentType != "video/mp4" {
		t.Errorf("content type = %q, want video/mp4", gotContentType)
	}
}

func TestUploadFile_CDNURLWithFailedProbe(t *testing.T) {
	srv := fakeS3(t, nil)
	defer srv.Close()

	var probed bool
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			probed = true
		}
		// Propagation delay: object not on the CDN yet.
		w.WriteHeader(http.StatusNotFound)
	}))
	defer cdn.Close()

	cfg := testConfig(srv.URL)
	cfg.CDNBaseURL = cdn.URL + "/" // trailing slash must be trimmed

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	up, err := NewS3Uploader(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("NewS3Uploader() error = %v", err)
	}

	url, err := up.UploadFile(context.Background(), writeTestFile(t), "social-media-videos/tiktok/thumbnails/a.webp", "image/webp")
	if err != nil {
		t.Fatalf("UploadFile() error = %v, probe failure must be non-fatal", err)
	}

	want := cdn.URL + "/social-media-videos/tiktok/thumbnails/a.webp"
	if url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
	if !probed {
		t.Error("expected a HEAD probe against the CDN URL")
	}
	if !strings.Contains(logBuf.String(), "not reachable") {
		t.Errorf("expected a warning about the unreachable CDN URL, log: %s", logBuf.String())
	}
}

func TestUploadFile_UploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "access denied", http.StatusForbidden)
	}))
	defer srv.Close()

	up, err := NewS3Uploader(context.Background(), testConfig(srv.URL), slog.Default())
	if err != nil {
		t.Fatalf("NewS3Uploader() error = %v", err)
	}

	_, err = up.UploadFile(context.Background(), writeTestFile(t), "key", "video/mp4")
	if !errors.Is(err, ErrUploadFailed) {
		t.Errorf("error = %v, want ErrUploadFailed", err)
	}
}

func TestUploadFile_MissingLocalFile(t *testing.T) {
	srv := fakeS3(t, nil)
	defer srv.Close()

	up, err := NewS3Uploader(context.Background(), testConfig(srv.URL), slog.Default())
	if err != nil {
		t.Fatalf("NewS3Uploader() error = %v", err)
	}

	_, err = up.UploadFile(context.Background(), filepath.Join(t.TempDir(), "gone.mp4"), "key", "video/mp4")
	if !errors.Is(err, ErrUploadFailed) {
		t.Errorf("error = %v, want ErrUploadFailed", err)
	}
}

func TestEscapeKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"social-media-videos/tiktok/1700_clip.mp4", "social-media-videos/tiktok/1700_clip.mp4"},
		{"social-media-videos/tiktok/my clip.mp4", "social-media-videos/tiktok/my%20clip.mp4"},
		{"a/b#c.mp4", "a/b%23c.mp4"},
	}
	for _, tt := range tests {
		if got := escapeKey(tt.key); got != tt.want {
			t.Errorf("escapeKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
