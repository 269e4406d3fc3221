package scrape

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/solerv/socialvid-api/internal/platform"
)

// extractFunc pulls the direct video URL out of a platform-specific response
// body. Implementations are pure and total over the "container absent" and
// "no candidate URL" cases; they never return an empty URL without an error.
type extractFunc func(body []byte) (string, error)

// extractors maps each supported platform to its extraction function.
// Adding a platform means adding one response shape and one entry here.
var extractors = map[platform.Platform]extractFunc{
	platform.Instagram: extractInstagram,
	platform.Facebook:  extractFacebook,
	platform.TikTok:    extractTikTok,
}

func extractInstagram(body []byte) (string, error) {
	var resp instagramResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decode instagram response: %w", ErrUpstreamMetadata, err)
	}

	media := resp.Data.ShortcodeMedia
	if media == nil {
		return "", fmt.Errorf("%w: missing shortcode media object", ErrUpstreamMetadata)
	}
	if media.VideoURL == "" {
		return "", ErrNoVideoURL
	}
	return media.VideoURL, nil
}

func extractFacebook(body []byte) (string, error) {
	// The facebook route returns the media object as the top-level body,
	// so an absent container manifests as an empty or null payload.
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", fmt.Errorf("%w: empty facebook response body", ErrUpstreamMetadata)
	}

	var resp facebookResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decode facebook response: %w", ErrUpstreamMetadata, err)
	}

	if resp.Video == nil {
		return "", ErrNoVideoURL
	}
	if resp.Video.HDURL != "" {
		return resp.Video.HDURL, nil
	}
	if resp.Video.SDURL != "" {
		return resp.Video.SDURL, nil
	}
	return "", ErrNoVideoURL
}

func extractTikTok(body []byte) (string, error) {
	var resp tiktokResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decode tiktok response: %w", ErrUpstreamMetadata, err)
	}

	detail := resp.AwemeDetail
	if detail == nil {
		return "", fmt.Errorf("%w: missing aweme detail object", ErrUpstreamMetadata)
	}

	// Prefer the first bitrate variant, fall back to the top-level play address.
	if br := detail.Video.BitRate; len(br) > 0 && len(br[0].PlayAddr.URLList) > 0 {
		if u := br[0].PlayAddr.URLList[0]; u != "" {
			return u, nil
		}
	}
	if urls := detail.Video.PlayAddr.URLList; len(urls) > 0 && urls[0] != "" {
		return urls[0], nil
	}
	return "", ErrNoVideoURL
}
