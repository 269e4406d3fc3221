package scrape

// Response shapes for the ScrapeCreators API. Each platform returns a
// different body; only the fields on the path to the direct video URL are
// declared, the rest of the payload is discarded by encoding/json.

type instagramResponse struct {
	Data struct {
		ShortcodeMedia *instagramMedia `json:"xdt_shortcode_media"`
	} `json:"data"`
}

type instagramMedia struct {
	VideoURL string `json:"video_url"`
}

// facebookResponse is the top-level body; there is no wrapper object.
type facebookResponse struct {
	Video *facebookVideo `json:"video"`
}

type facebookVideo struct {
	HDURL string `json:"hd_url"`
	SDURL string `json:"sd_url"`
}

type tiktokResponse struct {
	AwemeDetail *tiktokAweme `json:"aweme_detail"`
}

type tiktokAweme struct {
	Video tiktokVideoMeta `json:"video"`
}

type tiktokVideoMeta struct {
	BitRate  []tiktokBitRate `json:"bit_rate"`
	PlayAddr tiktokPlayAddr  `json:"play_addr"`
}

type tiktokBitRate struct {
	PlayAddr tiktokPlayAddr `json:"play_addr"`
}

type tiktokPlayAddr struct {
	URLList []string `json:"url_list"`
}
