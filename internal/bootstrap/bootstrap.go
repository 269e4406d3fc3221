// Package bootstrap provides dependency initialization for the social video API.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/solerv/socialvid-api/internal/blurhash"
	"github.com/solerv/socialvid-api/internal/config"
	"github.com/solerv/socialvid-api/internal/download"
	"github.com/solerv/socialvid-api/internal/media"
	"github.com/solerv/socialvid-api/internal/pipeline"
	"github.com/solerv/socialvid-api/internal/scrape"
	"github.com/solerv/socialvid-api/internal/storage"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	Pipeline *pipeline.Service
}

// NewDependencies creates and initializes all dependencies for the application.
// The object-storage client and configuration are built once here and shared
// read-only across all pipeline runs.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	scrapeClient, err := scrape.NewClient(cfg.ScrapeAPIKey, scrape.WithBaseURL(cfg.ScrapeBaseURL))
	if err != nil {
		return nil, fmt.Errorf("create scrape client: %w", err)
	}

	uploader, err := storage.NewS3Uploader(ctx, storage.S3Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		CDNBaseURL:      cfg.CDNBaseURL,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create S3 uploader: %w", err)
	}
	logger.Info("S3 storage configured",
		slog.String("bucket", cfg.S3Bucket),
		slog.String("region", cfg.AWSRegion),
		slog.Bool("cdn_enabled", cfg.CDNBaseURL != ""),
	)

	downloader := download.NewDownloader(cfg.TempDir)
	extractor := media.NewFFmpegExtractor(cfg.FFmpegPath)

	svc := pipeline.NewService(
		scrapeClient,
		downloader,
		extractor,
		uploader,
		blurhash.FromFile,
		logger,
	)

	return &Dependencies{
		Pipeline: svc,
	}, nil
}
