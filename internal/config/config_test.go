package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT",
		"SCRAPECREATORS_API_KEY",
		"SCRAPECREATORS_BASE_URL",
		"AWS_REGION",
		"AWS_ACCESS_KEY_ID",
		"AWS_SECRET_ACCESS_KEY",
		"S3_BUCKET",
		"CDN_BASE_URL",
		"FFMPEG_PATH",
		"TEMP_DIR",
		"LOG_FORMAT",
		"LOG_LEVEL",
	} {
		os.Unsetenv(key)
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SCRAPECREATORS_API_KEY", "test-api-key")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("S3_BUCKET", "test-bucket")
}

func TestLoad_RequiredVariables(t *testing.T) {
	t.Run("missing SCRAPECREATORS_API_KEY returns error", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("AWS_REGION", "eu-west-1")
		t.Setenv("S3_BUCKET", "test-bucket")

		_, err := Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrScrapeAPIKeyRequired)
	})

	t.Run("missing AWS_REGION returns error", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SCRAPECREATORS_API_KEY", "test-api-key")
		t.Setenv("S3_BUCKET", "test-bucket")

		_, err := Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAWSRegionRequired)
	})

	t.Run("missing S3_BUCKET returns error", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SCRAPECREATORS_API_KEY", "test-api-key")
		t.Setenv("AWS_REGION", "eu-west-1")

		_, err := Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrS3BucketRequired)
	})

	t.Run("all required variables present succeeds", func(t *testing.T) {
		clearEnv(t)
		setRequired(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "test-api-key", cfg.ScrapeAPIKey)
		assert.Equal(t, "eu-west-1", cfg.AWSRegion)
		assert.Equal(t, "test-bucket", cfg.S3Bucket)
	})
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://api.scrapecreators.com", cfg.ScrapeBaseURL)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.TempDir)
	assert.Empty(t, cfg.CDNBaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("PORT", "5000")
	t.Setenv("CDN_BASE_URL", "https://cdn.example.com")
	t.Setenv("FFMPEG_PATH", "/usr/local/bin/ffmpeg")
	t.Setenv("TEMP_DIR", "/var/tmp/socialvid")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "https://cdn.example.com", cfg.CDNBaseURL)
	assert.Equal(t, "/usr/local/bin/ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "/var/tmp/socialvid", cfg.TempDir)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestString_MasksSecrets(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIAEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "super-secret")

	cfg, err := Load()
	require.NoError(t, err)

	s := cfg.String()
	assert.NotContains(t, s, "test-api-key")
	assert.NotContains(t, s, "AKIAEXAMPLE")
	assert.NotContains(t, s, "super-secret")
}
