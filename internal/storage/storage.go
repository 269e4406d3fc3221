// Package storage publishes local files to durable object storage and
// computes their public-facing URLs.
package storage

import (
	"context"
	"errors"
)

// ErrUploadFailed is returned when the underlying write to the object store fails.
var ErrUploadFailed = errors.New("storage: failed to upload file")

// Uploader defines the interface for publishing a local file under a key.
// The key is uploaded raw; only the returned public URL percent-encodes it.
type Uploader interface {
	// UploadFile uploads the file at localPath under key with the given
	// content type and returns the public URL of the object.
	UploadFile(ctx context.Context, localPath, key, contentType string) (url string, err error)
}
