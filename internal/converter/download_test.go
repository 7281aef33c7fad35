package converter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestWaitForDownloadDetectsNewFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "old.mp3")
	before := SnapshotDir(dir)

	writeFile(t, dir, "new.mp3")

	name, ok := WaitForDownload(dir, before, time.Second)
	require.True(t, ok)
	assert.Equal(t, "new.mp3", name)
}

func TestWaitForDownloadIgnoresPartialMarkers(t *testing.T) {
	dir := t.TempDir()
	before := SnapshotDir(dir)

	writeFile(t, dir, "song.mp3.crdownload")
	writeFile(t, dir, "song.tmp")
	writeFile(t, dir, "song.part")

	_, ok := WaitForDownload(dir, before, 50*time.Millisecond)
	assert.False(t, ok)
}

func TestWaitForDownloadIgnoresPreexistingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "old.mp3")
	before := SnapshotDir(dir)

	_, ok := WaitForDownload(dir, before, 50*time.Millisecond)
	assert.False(t, ok)
}

func TestWaitForDownloadTimesOut(t *testing.T) {
	dir := t.TempDir()
	start := time.Now()
	_, ok := WaitForDownload(dir, SnapshotDir(dir), 100*time.Millisecond)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSnapshotDirMissingDirectory(t *testing.T) {
	snapshot := SnapshotDir(filepath.Join(t.TempDir(), "missing"))
	assert.Empty(t, snapshot)
}
