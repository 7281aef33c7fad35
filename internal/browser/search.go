package browser

import (
	"fmt"
	"time"

	"tunedex/internal/youtube"
)

// FirstResult searches YouTube for the query and returns the URL of the
// first organic result. ErrNotFound means the results page rendered but
// held no qualifying video; ErrTimeout means results never rendered.
func (s *Session) FirstResult(query string) (string, error) {
	target := youtube.ResultsURL(query)
	if err := s.Navigate(target); err != nil {
		// One retry, search pages are flaky on first load.
		time.Sleep(time.Second)
		if err := s.Navigate(target); err != nil {
			return "", err
		}
	}

	s.handleConsent()

	// Results render asynchronously; wait for the section container
	// before reading the page.
	if _, err := s.page.Timeout(s.resultWaitBudget()).Element("ytd-item-section-renderer"); err != nil {
		return "", fmt.Errorf("search results for %q: %w", query, mapWaitErr(err, ErrTimeout))
	}

	html, err := s.page.HTML()
	if err != nil {
		return "", fmt.Errorf("reading results page: %w", err)
	}

	url, ok := youtube.FirstOrganicResult(html)
	if !ok {
		return "", fmt.Errorf("no organic result for %q: %w", query, ErrNotFound)
	}
	return url, nil
}

// handleConsent clicks through the consent interstitial when YouTube
// redirects to it. Best effort, the caller degrades to "no results" if the
// page stays blocked.
func (s *Session) handleConsent() {
	if !youtube.IsConsentURL(s.CurrentURL()) {
		return
	}
	s.log.Infow("consent page detected", "url", s.CurrentURL())

	for _, label := range []string{"I agree", "Accept all"} {
		if err := s.ClickButton(label); err == nil {
			time.Sleep(500 * time.Millisecond)
			return
		}
	}
	// Last resort, press the first visible button on the interstitial.
	if el, err := s.page.Timeout(s.cfg.ElementTimeout()).Element("button"); err == nil {
		_ = el.Click("left", 1)
	}
}
