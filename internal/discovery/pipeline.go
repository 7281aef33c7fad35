// Package discovery turns free-text queries into new pending records:
// search YouTube, take the first organic result, dedup by video id,
// append to the store.
package discovery

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"go.uber.org/zap"

	"tunedex/internal/models"
	"tunedex/internal/store"
	"tunedex/pkg/config"
)

// Searcher is the browser capability the pipeline consumes. An error means
// no usable result for this query, never a reason to abort the batch.
type Searcher interface {
	FirstResult(query string) (string, error)
}

// Duplicate reports a query whose result already exists in the store.
type Duplicate struct {
	Query    string
	Existing models.Record
}

// Summary aggregates one discovery run.
type Summary struct {
	Processed  int
	New        int
	Duplicates int
	NoResults  int
	Elapsed    time.Duration
}

// AveragePerQuery is the mean wall time spent per processed query.
func (s Summary) AveragePerQuery() time.Duration {
	if s.Processed == 0 {
		return 0
	}
	return s.Elapsed / time.Duration(s.Processed)
}

// Pipeline runs the discovery batch over a single searcher session.
type Pipeline struct {
	store    *store.Store
	searcher Searcher
	cfg      config.SearchConfig
	log      *zap.SugaredLogger
	out      io.Writer
}

// New builds a pipeline. out receives the progress bar; nil disables it.
func New(st *store.Store, searcher Searcher, cfg config.SearchConfig, log *zap.SugaredLogger, out io.Writer) *Pipeline {
	return &Pipeline{store: st, searcher: searcher, cfg: cfg, log: log, out: out}
}

// Run processes the queries in order and appends the new records to the
// store in one batch write at the end. A single query failing degrades to
// "no results" and the loop moves on.
func (p *Pipeline) Run(queries []string) (Summary, []Duplicate, error) {
	existing := p.store.Load()
	p.log.Infow("store loaded", "path", p.store.Path(), "entries", len(existing), "queries", len(queries))

	var tracker *progress.Tracker
	if p.out != nil {
		pw := progress.NewWriter()
		pw.SetOutputWriter(p.out)
		pw.SetTrackerLength(25)
		go pw.Render()
		defer pw.Stop()
		tracker = &progress.Tracker{Message: "YouTube search", Total: int64(len(queries)), Units: progress.UnitsDefault}
		pw.AppendTracker(tracker)
	}

	start := time.Now()
	var summary Summary
	var newRecords []models.Record
	var duplicates []Duplicate

	for i, query := range queries {
		p.log.Infof("[%d/%d] search: %s", i+1, len(queries), query)

		url, err := p.searcher.FirstResult(p.cfg.QueryPrefix + query)
		switch {
		case err != nil:
			summary.NoResults++
			p.log.Warnw("no results", "query", query, "reason", err)
		default:
			if dup, found := store.FindDuplicate(url, existing); found {
				summary.Duplicates++
				duplicates = append(duplicates, Duplicate{Query: query, Existing: dup})
				p.log.Infow("duplicate detected",
					"query", query,
					"existing_title", dup.Title,
					"existing_url", dup.URL,
					"download_path", dup.DownloadPath,
					"project", dup.Project)
			} else {
				summary.New++
				newRecords = append(newRecords, models.Record{
					Title: query,
					URL:   url,
					Done:  models.StatusPending,
				})
				p.log.Infow("new entry", "query", query, "url", url)
			}
		}

		summary.Processed++
		if tracker != nil {
			tracker.Increment(1)
		}

		// Fixed pacing between queries regardless of outcome, light
		// throttling against rate limiting.
		time.Sleep(p.cfg.Pause())
	}

	summary.Elapsed = time.Since(start)
	if tracker != nil {
		tracker.MarkAsDone()
	}

	if len(newRecords) > 0 {
		if err := p.store.Save(append(existing, newRecords...)); err != nil {
			return summary, duplicates, err
		}
	}

	p.log.Infow("discovery finished",
		"processed", summary.Processed,
		"new", summary.New,
		"duplicates", summary.Duplicates,
		"no_results", summary.NoResults,
		"elapsed", summary.Elapsed.Round(time.Second),
		"avg_per_query", summary.AveragePerQuery().Round(time.Millisecond))

	return summary, duplicates, nil
}
