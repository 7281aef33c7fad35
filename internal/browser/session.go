// Package browser wraps a rod browser session behind the small capability
// surface the pipelines consume: navigate, find, click, bounded waits and
// tab hygiene.
package browser

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"

	"tunedex/pkg/config"
)

// buttonSelector covers everything the converter site renders as a
// clickable action: buttons, submit inputs, role=button divs and links.
const buttonSelector = "button, input[type='button'], input[type='submit'], [role='button'], a"

// pollInterval paces the button-appearance wait loop.
const pollInterval = time.Second

// Session is one browser with one working tab. Both pipelines run their
// whole batch on this single tab; extra tabs opened by third-party sites
// are closed by CloseExtraPages.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	cfg     config.BrowserConfig
	log     *zap.SugaredLogger

	// resultWait bounds the search-results render wait; zero falls back
	// to the page load timeout.
	resultWait time.Duration
}

// SetResultWait sets the budget for search results to render.
func (s *Session) SetResultWait(d time.Duration) {
	s.resultWait = d
}

func (s *Session) resultWaitBudget() time.Duration {
	if s.resultWait > 0 {
		return s.resultWait
	}
	return s.cfg.PageLoadTimeout()
}

// NewSession launches a browser and opens the working tab. A non-empty
// downloadDir routes file downloads there.
func NewSession(cfg config.BrowserConfig, downloadDir string, log *zap.SugaredLogger) (*Session, error) {
	u, err := launcher.New().Headless(cfg.Headless).Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	page, err := stealth.Page(b)
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	if downloadDir != "" {
		err := proto.BrowserSetDownloadBehavior{
			Behavior:     proto.BrowserSetDownloadBehaviorBehaviorAllow,
			DownloadPath: downloadDir,
		}.Call(b)
		if err != nil {
			log.Warnw("could not set download directory", "dir", downloadDir, "error", err)
		} else {
			log.Infow("download directory configured", "dir", downloadDir)
		}
	}

	return &Session{browser: b, page: page, cfg: cfg, log: log}, nil
}

// Close shuts the browser down.
func (s *Session) Close() {
	if err := s.browser.Close(); err != nil {
		s.log.Warnw("closing browser", "error", err)
	}
}

// Navigate loads a URL on the working tab and waits for the load event.
func (s *Session) Navigate(url string) error {
	if err := s.page.Timeout(s.cfg.PageLoadTimeout()).Navigate(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, mapWaitErr(err, ErrTimeout))
	}
	if err := s.page.Timeout(s.cfg.PageLoadTimeout()).WaitLoad(); err != nil {
		return fmt.Errorf("waiting for %s to load: %w", url, mapWaitErr(err, ErrTimeout))
	}
	return nil
}

// WaitReady lets the page settle after load. Converter pages keep mutating
// the DOM for a moment after the load event fires.
func (s *Session) WaitReady() {
	_ = s.page.Timeout(s.cfg.SettleWait()).WaitStable(500 * time.Millisecond)
}

// CurrentURL returns the working tab's URL, empty when it cannot be read.
func (s *Session) CurrentURL() string {
	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// SubmitURL finds the input with the given id, clears it and types the
// value. Returns ErrNotFound when the input is absent or invisible.
func (s *Session) SubmitURL(inputID, value string) error {
	el, err := s.page.Timeout(s.cfg.ElementTimeout()).Element("#" + inputID)
	if err != nil {
		return fmt.Errorf("input #%s: %w", inputID, mapWaitErr(err, ErrNotFound))
	}
	if visible, err := el.Visible(); err != nil || !visible {
		return fmt.Errorf("input #%s: %w", inputID, ErrNotFound)
	}

	if err := el.Click("left", 1); err != nil {
		return fmt.Errorf("focusing input #%s: %w", inputID, ErrStale)
	}
	_ = el.SelectAllText()
	if err := el.Input(value); err != nil {
		return fmt.Errorf("typing into input #%s: %w", inputID, ErrStale)
	}
	return nil
}

// ClickButton clicks the first visible button-like element whose text
// contains the given label, case-insensitively.
func (s *Session) ClickButton(label string) error {
	el, err := s.findButton(s.cfg.ElementTimeout(), label)
	if err != nil {
		return err
	}
	if err := el.Click("left", 1); err != nil {
		return fmt.Errorf("clicking %q: %w", label, ErrStale)
	}
	s.log.Debugw("button clicked", "label", label)
	return nil
}

// WaitClickButton polls for a button with the given label and clicks it as
// soon as it appears. Returns ErrTimeout when the budget elapses.
func (s *Session) WaitClickButton(label string, budget time.Duration) error {
	s.log.Infow("waiting for button", "label", label, "budget", budget)
	deadline := time.Now().Add(budget)
	started := time.Now()
	lastProgress := started

	for {
		iterStart := time.Now()
		el, err := s.findButton(pollInterval, label)
		if err == nil {
			if clickErr := el.Click("left", 1); clickErr == nil {
				s.log.Infow("button appeared", "label", label, "after", time.Since(started).Round(time.Second))
				return nil
			}
			// Detached between find and click; keep polling.
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("button %q did not appear within %s: %w", label, budget, ErrTimeout)
		}
		if time.Since(lastProgress) >= 10*time.Second {
			s.log.Infow("still waiting for button", "label", label, "elapsed", time.Since(started).Round(time.Second))
			lastProgress = time.Now()
		}

		// A find can return fast, e.g. on an invisible match; keep the
		// loop at the poll interval instead of hammering the browser.
		time.Sleep(remainingPoll(pollInterval, time.Since(iterStart)))
	}
}

// CloseExtraPages closes every tab except the working one and refocuses
// it. The session is shared across the whole batch, leftover tabs would
// leak into later records.
func (s *Session) CloseExtraPages() error {
	pages, err := s.browser.Pages()
	if err != nil {
		return fmt.Errorf("listing pages: %w", err)
	}
	if len(pages) <= 1 {
		return nil
	}

	s.log.Infow("closing extra tabs", "open", len(pages))
	for _, p := range pages {
		if p.TargetID == s.page.TargetID {
			continue
		}
		if err := p.Close(); err != nil {
			s.log.Warnw("closing tab", "error", err)
		}
	}
	if _, err := s.page.Activate(); err != nil {
		return fmt.Errorf("refocusing working tab: %w", err)
	}
	return nil
}

// Reload reloads the working tab, used as best-effort recovery after an
// unexpected per-record failure.
func (s *Session) Reload() error {
	if err := s.page.Reload(); err != nil {
		return fmt.Errorf("reloading page: %w", err)
	}
	_ = s.page.Timeout(s.cfg.PageLoadTimeout()).WaitLoad()
	return nil
}

func (s *Session) findButton(timeout time.Duration, label string) (*rod.Element, error) {
	pattern := fmt.Sprintf("/%s/i", regexp.QuoteMeta(label))
	el, err := s.page.Timeout(timeout).ElementR(buttonSelector, pattern)
	if err != nil {
		return nil, fmt.Errorf("button %q: %w", label, mapWaitErr(err, ErrNotFound))
	}
	if visible, err := el.Visible(); err != nil || !visible {
		return nil, fmt.Errorf("button %q: %w", label, ErrNotFound)
	}
	return el, nil
}

// remainingPoll returns how much of the poll interval an iteration left
// unused, zero when it ran long.
func remainingPoll(interval, elapsed time.Duration) time.Duration {
	if remaining := interval - elapsed; remaining > 0 {
		return remaining
	}
	return 0
}

// mapWaitErr folds rod's deadline errors into the capability sentinel,
// keeping other causes intact for the caller's logs.
func mapWaitErr(err error, sentinel error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return sentinel
	}
	return err
}
