// Package converter drives the web converter UI over every record not yet
// done and writes each record's terminal status for the run back to the
// store immediately.
package converter

import (
	"errors"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"go.uber.org/zap"

	"tunedex/internal/browser"
	"tunedex/internal/models"
	"tunedex/internal/store"
	"tunedex/pkg/config"
)

// The converter site's fixed UI anchors.
const (
	urlInputID    = "v"
	convertLabel  = "Convert"
	downloadLabel = "Download"
)

// Page is the browser capability the pipeline consumes. Implementations
// signal enumerated failure reasons with browser.ErrNotFound,
// browser.ErrTimeout and browser.ErrStale.
type Page interface {
	Navigate(url string) error
	WaitReady()
	SubmitURL(inputID, value string) error
	ClickButton(label string) error
	WaitClickButton(label string, budget time.Duration) error
	CloseExtraPages() error
	Reload() error
}

// Summary aggregates one conversion run.
type Summary struct {
	Total       int
	AlreadyDone int
	Processed   int
	Succeeded   int
	TimedOut    int
	Skipped     int
	Elapsed     time.Duration
}

// SuccessRate is the share of processed entries that ended done.
func (s Summary) SuccessRate() float64 {
	if s.Processed == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Processed) * 100
}

// AveragePerEntry is the mean wall time spent per processed entry.
func (s Summary) AveragePerEntry() time.Duration {
	if s.Processed == 0 {
		return 0
	}
	return s.Elapsed / time.Duration(s.Processed)
}

type outcome int

const (
	outcomeDone outcome = iota
	outcomeTimeout
	outcomeSkipped
	outcomeFailed
)

// Pipeline runs the conversion batch on one shared page.
type Pipeline struct {
	store       *store.Store
	page        Page
	cfg         config.ConverterConfig
	downloadDir string
	log         *zap.SugaredLogger
	out         io.Writer

	// tabSettle is how long popup tabs get to open before hygiene runs.
	tabSettle time.Duration
}

// New builds a pipeline. out receives the progress bar; nil disables it.
func New(st *store.Store, page Page, cfg config.ConverterConfig, downloadDir string, log *zap.SugaredLogger, out io.Writer) *Pipeline {
	return &Pipeline{
		store:       st,
		page:        page,
		cfg:         cfg,
		downloadDir: downloadDir,
		log:         log,
		out:         out,
		tabSettle:   time.Second,
	}
}

// Run processes every record whose status is not done, in store order.
// Each record gets exactly one terminal status write for the run; done
// records are never revisited. A single record's failure never aborts the
// batch.
func (p *Pipeline) Run() (Summary, error) {
	records := p.store.Load()
	var summary Summary
	summary.Total = len(records)

	todo := 0
	for _, rec := range records {
		if rec.Done != models.StatusDone {
			todo++
		}
	}
	p.log.Infow("store loaded", "path", p.store.Path(), "entries", len(records), "to_process", todo)
	if todo == 0 {
		p.log.Info("all entries are already processed")
		summary.AlreadyDone = len(records)
		return summary, nil
	}

	var tracker *progress.Tracker
	if p.out != nil {
		pw := progress.NewWriter()
		pw.SetOutputWriter(p.out)
		pw.SetTrackerLength(25)
		go pw.Render()
		defer pw.Stop()
		tracker = &progress.Tracker{Message: "Converting", Total: int64(todo), Units: progress.UnitsDefault}
		pw.AppendTracker(tracker)
	}

	start := time.Now()
	for i, rec := range records {
		if rec.Done == models.StatusDone {
			summary.AlreadyDone++
			p.log.Debugw("already done, skipping", "title", rec.Title)
			continue
		}

		p.log.Infof("=== [%d/%d] %q ===", i+1, len(records), rec.Title)
		result := p.processRecord(rec)

		switch result {
		case outcomeDone:
			if err := p.store.UpsertStatus(rec.URL, models.StatusDone, p.downloadDir); err != nil {
				p.log.Errorw("status write failed", "title", rec.Title, "error", err)
			}
			summary.Succeeded++
			p.log.Infow("entry done", "title", rec.Title)
		case outcomeTimeout:
			if err := p.store.UpsertStatus(rec.URL, models.StatusTimeout, p.downloadDir); err != nil {
				p.log.Errorw("status write failed", "title", rec.Title, "error", err)
			}
			summary.TimedOut++
		case outcomeFailed:
			if err := p.store.UpsertStatus(rec.URL, models.StatusTimeout, p.downloadDir); err != nil {
				p.log.Errorw("status write failed", "title", rec.Title, "error", err)
			}
			summary.TimedOut++
			// Best-effort recovery before the next record.
			if err := p.page.Reload(); err != nil {
				p.log.Warnw("recovery reload failed", "error", err)
			}
		case outcomeSkipped:
			// Early skip leaves the stored status untouched.
			summary.Skipped++
		}

		summary.Processed++
		if tracker != nil {
			tracker.Increment(1)
		}

		// Fixed pacing between entries regardless of outcome.
		time.Sleep(p.cfg.Pause())
	}

	summary.Elapsed = time.Since(start)
	if tracker != nil {
		tracker.MarkAsDone()
	}

	// Every record persisted its own outcome through UpsertStatus, no
	// closing write is needed.
	p.log.Infow("conversion finished",
		"processed", summary.Processed,
		"succeeded", summary.Succeeded,
		"timed_out", summary.TimedOut,
		"skipped", summary.Skipped,
		"success_rate", summary.SuccessRate(),
		"elapsed", summary.Elapsed.Round(time.Second),
		"avg_per_entry", summary.AveragePerEntry().Round(time.Millisecond))

	return summary, nil
}

// processRecord walks one record through the converter UI:
// submit URL, Convert, wait for Download, click, tab hygiene, detect file.
func (p *Pipeline) processRecord(rec models.Record) outcome {
	log := p.log.With("title", rec.Title)

	if err := p.page.Navigate(p.cfg.BaseURL); err != nil {
		log.Errorw("navigation failed", "url", p.cfg.BaseURL, "error", err)
		return outcomeFailed
	}
	p.page.WaitReady()

	if err := p.page.SubmitURL(urlInputID, rec.URL); err != nil {
		if errors.Is(err, browser.ErrNotFound) {
			log.Warnw("url input missing, skipping entry", "error", err)
			return outcomeSkipped
		}
		log.Errorw("submitting url failed", "error", err)
		return outcomeFailed
	}

	if err := p.page.ClickButton(convertLabel); err != nil {
		if errors.Is(err, browser.ErrNotFound) {
			log.Warnw("convert button missing, skipping entry", "error", err)
			return outcomeSkipped
		}
		log.Errorw("convert click failed", "error", err)
		return outcomeFailed
	}
	p.page.WaitReady()

	before := SnapshotDir(p.downloadDir)

	if err := p.page.WaitClickButton(downloadLabel, p.cfg.DownloadButtonTimeout()); err != nil {
		if errors.Is(err, browser.ErrTimeout) {
			log.Errorw("download button never appeared", "budget", p.cfg.DownloadButtonTimeout())
			return outcomeTimeout
		}
		log.Errorw("download click failed", "error", err)
		return outcomeFailed
	}

	// The click tends to open popup tabs; give them a moment, then close
	// everything except the tab the batch runs on.
	time.Sleep(p.tabSettle)
	if err := p.page.CloseExtraPages(); err != nil {
		log.Warnw("tab hygiene failed", "error", err)
	}

	if name, ok := WaitForDownload(p.downloadDir, before, p.cfg.DownloadDetectTimeout()); ok {
		log.Infow("download confirmed", "file", name)
	} else {
		log.Warnw("no download detected, click still counts as success")
	}

	return outcomeDone
}
