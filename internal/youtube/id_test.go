package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVideoID(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"Canonical Watch URL", "https://www.youtube.com/watch?v=abc123", "abc123", true},
		{"Bare Host", "https://youtube.com/watch?v=abc123", "abc123", true},
		{"Extra Params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"Short Link", "https://youtu.be/abc123", "", false},
		{"Shorts", "https://www.youtube.com/shorts/abc123", "", false},
		{"Playlist", "https://www.youtube.com/playlist?list=PL123", "", false},
		{"Missing Param", "https://www.youtube.com/watch?t=1", "", false},
		{"Other Host", "https://example.com/watch?v=abc123", "", false},
		{"Garbage", "://not a url", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := ExtractVideoID(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, id)
		})
	}
}

func TestExtractVideoIDIsStable(t *testing.T) {
	// Two URLs with the same id but different decoration must dedup to the
	// same identifier.
	a, okA := ExtractVideoID("https://www.youtube.com/watch?v=abc123")
	b, okB := ExtractVideoID("https://youtube.com/watch?v=abc123&pp=ygUG")
	assert.True(t, okA)
	assert.True(t, okB)
	assert.Equal(t, a, b)
}
