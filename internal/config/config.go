// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrScrapeAPIKeyRequired is returned when SCRAPECREATORS_API_KEY is not set.
	ErrScrapeAPIKeyRequired = errors.New("config: SCRAPECREATORS_API_KEY is required")
	// ErrAWSRegionRequired is returned when AWS_REGION is not set.
	ErrAWSRegionRequired = errors.New("config: AWS_REGION is required")
	// ErrS3BucketRequired is returned when S3_BUCKET is not set.
	ErrS3BucketRequired = errors.New("config: S3_BUCKET is required")
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=8080" json:"port"`

	// ScrapeCreators metadata API settings
	ScrapeAPIKey  string `env:"SCRAPECREATORS_API_KEY, required" json:"-"` // Masked in JSON
	ScrapeBaseURL string `env:"SCRAPECREATORS_BASE_URL, default=https://api.scrapecreators.com" json:"scrape_base_url"`

	// AWS / object storage settings
	AWSRegion          string `env:"AWS_REGION, required" json:"aws_region"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON
	S3Bucket           string `env:"S3_BUCKET, required" json:"s3_bucket"`
	CDNBaseURL         string `env:"CDN_BASE_URL" json:"cdn_base_url,omitempty"`

	// Processing settings
	FFmpegPath string `env:"FFMPEG_PATH" json:"ffmpeg_path,omitempty"`
	TempDir    string `env:"TEMP_DIR" json:"temp_dir,omitempty"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// Load reads configuration from environment variables using go-envconfig.
// It returns an error if required variables are not set.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		// Map envconfig errors to our domain errors for required fields
		if strings.Contains(err.Error(), "SCRAPECREATORS_API_KEY") {
			return nil, ErrScrapeAPIKeyRequired
		}
		if strings.Contains(err.Error(), "AWS_REGION") {
			return nil, ErrAWSRegionRequired
		}
		if strings.Contains(err.Error(), "S3_BUCKET") {
			return nil, ErrS3BucketRequired
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.TempDir == "" {
		cfg.TempDir = filepath.Join(os.TempDir(), "socialvid")
	}

	return cfg, nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, ScrapeBaseURL: %s, AWSRegion: %s, S3Bucket: %s, CDNBaseURL: %s, FFmpegPath: %s, TempDir: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.ScrapeBaseURL,
		c.AWSRegion,
		c.S3Bucket,
		c.CDNBaseURL,
		c.FFmpegPath,
		c.TempDir,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
