package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the configuration for S3 uploads.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // Optional: for custom S3-compatible endpoints
	AccessKeyID     string // Optional: AWS access key ID
	SecretAccessKey string // Optional: AWS secret access key
	CDNBaseURL      string // Optional: rewrite prefix for served assets
}

// S3Uploader implements Uploader backed by S3. When a CDN base URL is
// configured, returned URLs point at the CDN and a best-effort HEAD probe
// checks reachability; probe failures are logged, never fatal.
type S3Uploader struct {
	uploader   *manager.Uploader
	probe      *http.Client
	bucket     string
	cdnBaseURL string
	logger     *slog.Logger
}

// UploaderOption configures an S3Uploader.
type UploaderOption func(*S3Uploader)

// WithProbeClient sets the HTTP client used for CDN reachability probes.
func WithProbeClient(hc *http.Client) UploaderOption {
	return func(u *S3Uploader) {
		u.probe = hc
	}
}

// NewS3Uploader creates a new S3Uploader.
func NewS3Uploader(ctx context.Context, cfg S3Config, logger *slog.Logger, opts ...UploaderOption) (*S3Uploader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}

	// Use static credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, clientOpts...)

	u := &S3Uploader{
		uploader:   manager.NewUploader(client),
		probe:      &http.Client{Timeout: 10 * time.Second},
		bucket:     cfg.Bucket,
		cdnBaseURL: strings.TrimSuffix(cfg.CDNBaseURL, "/"),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(u)
	}

	return u, nil
}

// UploadFile uploads the file at localPath under key and returns its public
// URL. The key is sent to S3 unencoded; the returned URL carries the
// percent-encoded form.
func (u *S3Uploader) UploadFile(ctx context.Context, localPath, key, contentType string) (string, error) {
	f, err := os.Open(localPath) // #nosec G304 - path is produced by the pipeline, not user input
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", ErrUploadFailed, localPath, err)
	}
	defer func() { _ = f.Close() }()

	u.logger.Info("uploading to S3",
		slog.String("bucket", u.bucket),
		slog.String("key", key),
		slog.String("content_type", contentType),
	)

	_, err = u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	encodedKey := escapeKey(key)

	if u.cdnBaseURL != "" {
		cdnURL := u.cdnBaseURL + "/" + encodedKey
		u.probeCDN(ctx, cdnURL)
		return cdnURL, nil
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, encodedKey), nil
}

// probeCDN HEAD-checks the CDN URL. Object-store-to-CDN propagation is
// eventually consistent, so an unreachable URL is only worth a warning.
func (u *S3Uploader) probeCDN(ctx context.Context, cdnURL string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, cdnURL, nil)
	if err != nil {
		u.logger.Warn("CDN probe request failed",
			slog.String("url", cdnURL),
			slog.String("error", err.Error()),
		)
		return
	}

	resp, err := u.probe.Do(req)
	if err != nil {
		u.logger.Warn("CDN URL not reachable yet",
			slog.String("url", cdnURL),
			slog.String("error", err.Error()),
		)
		return
	}
	_ = resp.Body.Close()

	if resp.StatusCode >= 400 {
		u.logger.Warn("CDN URL not reachable yet",
			slog.String("url", cdnURL),
			slog.Int("status", resp.StatusCode),
		)
		return
	}

	u.logger.Info("CDN URL reachable",
		slog.String("url", cdnURL),
		slog.Int("status", resp.StatusCode),
	)
}

// escapeKey percent-encodes a key for use in a public URL, leaving the
// path separators intact.
func escapeKey(key string) string {
	return (&url.URL{Path: key}).EscapedPath()
}
