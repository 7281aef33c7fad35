package youtube

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const origin = "https://www.youtube.com"

// consentHosts are the interstitial hosts YouTube may redirect to before
// showing results.
var consentHosts = []string{"consent.youtube.com", "consent.google.com"}

// ResultsURL builds the search results URL for a query.
func ResultsURL(query string) string {
	return origin + "/results?search_query=" + url.QueryEscape(query)
}

// IsConsentURL reports whether the URL points at a consent interstitial.
func IsConsentURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range consentHosts {
		if strings.Contains(host, h) {
			return true
		}
	}
	return false
}

// FirstOrganicResult returns the URL of the first organic video on a
// rendered results page. Only ytd-video-renderer entries are considered,
// which skips promoted results, shorts shelves and playlists. Relative
// hrefs are resolved against the YouTube origin.
func FirstOrganicResult(htmlSrc string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return "", false
	}

	var found string
	doc.Find("ytd-video-renderer a#video-title").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok || !strings.Contains(href, "/watch") {
			return true
		}
		if strings.HasPrefix(href, "/") {
			href = origin + href
		}
		found = href
		return false
	})

	return found, found != ""
}
