package discovery

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tunedex/internal/models"
	"tunedex/internal/store"
	"tunedex/pkg/config"
)

// fakeSearcher maps queries (with prefix) to canned results.
type fakeSearcher struct {
	results map[string]string
	calls   []string
}

func (f *fakeSearcher) FirstResult(query string) (string, error) {
	f.calls = append(f.calls, query)
	url, ok := f.results[query]
	if !ok {
		return "", errors.New("no organic result")
	}
	return url, nil
}

func testConfig() config.SearchConfig {
	cfg := config.Default().Search
	cfg.PauseSec = 0
	return cfg
}

func newTestPipeline(t *testing.T, st *store.Store, searcher Searcher) *Pipeline {
	t.Helper()
	return New(st, searcher, testConfig(), zap.NewNop().Sugar(), nil)
}

func TestRunAppendsNewPendingRecord(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "db.json"))
	searcher := &fakeSearcher{results: map[string]string{
		"song: Song A": "https://www.youtube.com/watch?v=abc123",
	}}

	summary, dups, err := newTestPipeline(t, st, searcher).Run([]string{"Song A"})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.New)
	assert.Empty(t, dups)
	assert.Equal(t, []string{"song: Song A"}, searcher.calls, "query must carry the song prefix")

	records := st.Load()
	require.Len(t, records, 1)
	assert.Equal(t, "Song A", records[0].Title)
	assert.Contains(t, records[0].URL, "abc123")
	assert.Equal(t, models.StatusPending, records[0].Done)
	assert.Empty(t, records[0].DownloadPath)
	assert.Empty(t, records[0].Project)
}

func TestRunReportsDuplicateWithoutGrowingStore(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, st.Save([]models.Record{
		{Title: "Song A", URL: "https://www.youtube.com/watch?v=abc123", Done: models.StatusDone},
	}))

	searcher := &fakeSearcher{results: map[string]string{
		// Same video id behind different URL decoration.
		"song: Song A": "https://youtube.com/watch?v=abc123&t=5",
	}}

	summary, dups, err := newTestPipeline(t, st, searcher).Run([]string{"Song A"})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 0, summary.New)
	require.Len(t, dups, 1)
	assert.Equal(t, "Song A", dups[0].Query)
	assert.Equal(t, "Song A", dups[0].Existing.Title)

	assert.Len(t, st.Load(), 1, "duplicate must not grow the store")
}

func TestRunInsertsNonCanonicalURLWithoutDedup(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, st.Save([]models.Record{
		{Title: "Odd", URL: "https://youtu.be/abc123"},
	}))

	searcher := &fakeSearcher{results: map[string]string{
		"song: Odd": "https://youtu.be/abc123",
	}}

	summary, _, err := newTestPipeline(t, st, searcher).Run([]string{"Odd"})
	require.NoError(t, err)

	// No extractable id means the dedup check is skipped and the record
	// inserted as new.
	assert.Equal(t, 1, summary.New)
	assert.Len(t, st.Load(), 2)
}

func TestRunContinuesPastFailedQueries(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "db.json"))
	searcher := &fakeSearcher{results: map[string]string{
		"song: Song B": "https://www.youtube.com/watch?v=bbb222",
	}}

	summary, _, err := newTestPipeline(t, st, searcher).Run([]string{"Song A", "Song B"})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.NoResults)
	assert.Equal(t, 1, summary.New)

	records := st.Load()
	require.Len(t, records, 1)
	assert.Equal(t, "Song B", records[0].Title)
}

func TestRunPreservesExistingRecords(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, st.Save([]models.Record{
		{Title: "Kept", URL: "https://www.youtube.com/watch?v=keep11", Done: models.StatusDone, Project: "old"},
	}))

	searcher := &fakeSearcher{results: map[string]string{
		"song: Song A": "https://www.youtube.com/watch?v=abc123",
	}}

	_, _, err := newTestPipeline(t, st, searcher).Run([]string{"Song A"})
	require.NoError(t, err)

	records := st.Load()
	require.Len(t, records, 2)
	assert.Equal(t, "Kept", records[0].Title)
	assert.Equal(t, "old", records[0].Project)
}
