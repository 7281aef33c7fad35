// Package store persists the flat JSON record collection shared by the
// discovery and conversion pipelines and the inspector.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"tunedex/internal/models"
	"tunedex/internal/youtube"
)

// Store is a repository over a single JSON array file. The file is read and
// overwritten wholesale; there is no locking, exactly one pipeline process
// is expected to touch it at a time.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the store file is present on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads all records. A missing or corrupt file yields an empty
// collection; callers treat that as a first run.
func (s *Store) Load() []models.Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return []models.Record{}
	}
	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return []models.Record{}
	}
	return records
}

// Save overwrites the store file with the given records. HTML escaping is
// off so URLs stay readable, the file is curated by hand.
func (s *Store) Save(records []models.Record) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing store %s: %w", s.path, err)
	}
	return nil
}

// FindDuplicate checks a URL against existing records by recomputed video
// id. A URL whose id cannot be extracted never matches: non-canonical
// results are inserted as new records, bypassing dedup.
func FindDuplicate(rawURL string, records []models.Record) (models.Record, bool) {
	newID, ok := youtube.ExtractVideoID(rawURL)
	if !ok {
		return models.Record{}, false
	}
	for _, rec := range records {
		existingID, ok := youtube.ExtractVideoID(rec.URL)
		if ok && existingID == newID {
			return rec, true
		}
	}
	return models.Record{}, false
}

// UpsertStatus reloads the store, finds the record matching the URL and
// writes the new status back immediately. Matching is by recomputed video
// id, falling back to exact URL equality when either side has no id.
// An empty downloadPath leaves the stored path untouched.
func (s *Store) UpsertStatus(rawURL string, status models.Status, downloadPath string) error {
	records := s.Load()
	targetID, targetHasID := youtube.ExtractVideoID(rawURL)

	for i := range records {
		match := records[i].URL == rawURL
		if !match && targetHasID {
			if id, ok := youtube.ExtractVideoID(records[i].URL); ok && id == targetID {
				match = true
			}
		}
		if !match {
			continue
		}
		records[i].Done = status
		if downloadPath != "" {
			records[i].DownloadPath = downloadPath
		}
		return s.Save(records)
	}

	return fmt.Errorf("no record found for %s", rawURL)
}
