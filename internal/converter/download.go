package converter

import (
	"os"
	"strings"
	"time"
)

// partialSuffixes are in-flight download markers that must never count as
// a completed file.
var partialSuffixes = []string{".crdownload", ".tmp", ".part"}

func isPartial(name string) bool {
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// SnapshotDir records the file names currently present in dir. A missing
// directory yields an empty snapshot.
func SnapshotDir(dir string) map[string]struct{} {
	snapshot := make(map[string]struct{})
	entries, err := os.ReadDir(dir)
	if err != nil {
		return snapshot
	}
	for _, entry := range entries {
		snapshot[entry.Name()] = struct{}{}
	}
	return snapshot
}

// WaitForDownload polls dir until a file not present in the before
// snapshot materializes, ignoring partial-download markers. Returns the
// file name, or false once the budget elapses.
func WaitForDownload(dir string, before map[string]struct{}, budget time.Duration) (string, bool) {
	deadline := time.Now().Add(budget)
	for {
		entries, err := os.ReadDir(dir)
		if err == nil {
			for _, entry := range entries {
				name := entry.Name()
				if _, seen := before[name]; seen {
					continue
				}
				if isPartial(name) {
					continue
				}
				return name, true
			}
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return "", false
		}
		if remaining > time.Second {
			remaining = time.Second
		}
		time.Sleep(remaining)
	}
}
