package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsFixture = `
<html><body>
<ytd-item-section-renderer>
  <ytd-promoted-sparkles-web-renderer>
    <a id="video-title" href="/watch?v=sponsored1">Sponsored thing</a>
  </ytd-promoted-sparkles-web-renderer>
  <ytd-reel-shelf-renderer>
    <a href="/shorts/short1">A short</a>
  </ytd-reel-shelf-renderer>
  <ytd-video-renderer>
    <a id="video-title" href="/watch?v=abc123">First organic hit</a>
  </ytd-video-renderer>
  <ytd-video-renderer>
    <a id="video-title" href="/watch?v=second9">Second hit</a>
  </ytd-video-renderer>
  <ytd-playlist-renderer>
    <a href="/playlist?list=PL1">A playlist</a>
  </ytd-playlist-renderer>
</ytd-item-section-renderer>
</body></html>`

func TestFirstOrganicResult(t *testing.T) {
	url, ok := FirstOrganicResult(resultsFixture)
	require.True(t, ok)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", url)
}

func TestFirstOrganicResultAbsoluteHref(t *testing.T) {
	html := `<ytd-video-renderer><a id="video-title" href="https://www.youtube.com/watch?v=xyz789">hit</a></ytd-video-renderer>`
	url, ok := FirstOrganicResult(html)
	require.True(t, ok)
	assert.Equal(t, "https://www.youtube.com/watch?v=xyz789", url)
}

func TestFirstOrganicResultSkipsNonWatchLinks(t *testing.T) {
	html := `<ytd-video-renderer><a id="video-title" href="/channel/UC123">channel</a></ytd-video-renderer>`
	_, ok := FirstOrganicResult(html)
	assert.False(t, ok)
}

func TestFirstOrganicResultEmptyPage(t *testing.T) {
	_, ok := FirstOrganicResult("<html><body></body></html>")
	assert.False(t, ok)
}

func TestResultsURL(t *testing.T) {
	assert.Equal(t,
		"https://www.youtube.com/results?search_query=song%3A+Blue+Monday",
		ResultsURL("song: Blue Monday"))
}

func TestIsConsentURL(t *testing.T) {
	assert.True(t, IsConsentURL("https://consent.youtube.com/m?continue=x"))
	assert.True(t, IsConsentURL("https://consent.google.com/ml"))
	assert.False(t, IsConsentURL("https://www.youtube.com/results?search_query=x"))
}
