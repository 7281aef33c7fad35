// Package youtube derives canonical identifiers and result links from
// YouTube URLs and rendered pages.
package youtube

import (
	"net/url"
	"strings"
)

// ExtractVideoID returns the video id of a canonical watch URL.
// Only youtube.com/watch?v=... shapes yield an id; shorts, playlists,
// channel pages and share links do not.
func ExtractVideoID(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host != "youtube.com" && host != "www.youtube.com" {
		return "", false
	}
	if u.Path != "/watch" {
		return "", false
	}
	id := u.Query().Get("v")
	if id == "" {
		return "", false
	}
	return id, true
}
