package download

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFetch_StreamsToDisk(t *testing.T) {
	payload := strings.Repeat("binary-video-data", 1024)

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	d := NewDownloader(t.TempDir())

	path, err := d.Fetch(context.Background(), srv.URL+"/clips/abc123.mp4?token=xyz")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(content) != payload {
		t.Error("downloaded content does not match served payload")
	}
	if gotUA != "Mozilla/5.0" {
		t.Errorf("User-Agent = %q, want Mozilla/5.0", gotUA)
	}

	// Query string stripped, basename kept after the timestamp prefix.
	name := filepath.Base(path)
	if !strings.HasSuffix(name, "_abc123.mp4") {
		t.Errorf("filename = %q, want suffix _abc123.mp4", name)
	}
	if strings.Contains(name, "token") {
		t.Errorf("filename %q leaked the query string", name)
	}
}

func TestFetch_FallbackName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer srv.Close()

	d := NewDownloader(t.TempDir())

	path, err := d.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !strings.HasSuffix(filepath.Base(path), "_video.mp4") {
		t.Errorf("filename = %q, want fallback suffix _video.mp4", filepath.Base(path))
	}
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusForbidden)
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(dir)

	_, err := d.Fetch(context.Background(), srv.URL+"/expired.mp4")
	if !errors.Is(err, ErrDownloadFailed) {
		t.Fatalf("error = %v, want ErrDownloadFailed", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir has %d entries after failed download, want 0", len(entries))
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	d := NewDownloader(t.TempDir())

	_, err := d.Fetch(context.Background(), srv.URL+"/v.mp4")
	if !errors.Is(err, ErrDownloadFailed) {
		t.Errorf("error = %v, want ErrDownloadFailed", err)
	}
}

func TestFetch_LazyTempDir(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "not", "yet", "created")
	d := NewDownloader(dir)

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatal("temp dir should not exist before first use")
	}

	if _, err := d.Fetch(context.Background(), srv.URL+"/v.mp4"); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("temp dir should exist after first use: %v", err)
	}
}
