// Package platform classifies social-media post URLs into supported platforms
// and maps each platform to its ScrapeCreators API route.
package platform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedPlatform is returned when a URL matches no supported platform.
var ErrUnsupportedPlatform = errors.New("platform: unsupported or invalid social media URL")

// Platform identifies a supported social-media source.
type Platform string

const (
	// Instagram covers instagram.com post URLs.
	Instagram Platform = "instagram"
	// Facebook covers facebook.com post URLs.
	Facebook Platform = "facebook"
	// TikTok covers tiktok.com video URLs.
	TikTok Platform = "tiktok"
)

// IsValid returns true if the platform is one of the supported values.
func (p Platform) IsValid() bool {
	return p == Instagram || p == Facebook || p == TikTok
}

// Route returns the ScrapeCreators API route segment for the platform.
func (p Platform) Route() string {
	switch p {
	case TikTok:
		return "v2/tiktok/video"
	case Instagram:
		return "v1/instagram/post"
	case Facebook:
		return "v1/facebook/post"
	default:
		return ""
	}
}

// Resolve classifies a post URL by case-insensitive substring match against
// the known platform domains. It is a pure function with no side effects.
func Resolve(rawURL string) (Platform, error) {
	lc := strings.ToLower(rawURL)

	switch {
	case strings.Contains(lc, "tiktok.com"):
		return TikTok, nil
	case strings.Contains(lc, "instagram.com"):
		return Instagram, nil
	case strings.Contains(lc, "facebook.com"):
		return Facebook, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, rawURL)
}
