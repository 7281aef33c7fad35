package browser

import "errors"

// Enumerated failure reasons for capability calls. Pipelines branch on
// these with errors.Is instead of swallowing everything.
var (
	// ErrNotFound means the element or button is absent from the page.
	ErrNotFound = errors.New("element not found")
	// ErrTimeout means a bounded wait elapsed before the condition held.
	ErrTimeout = errors.New("wait timed out")
	// ErrStale means the element detached from the DOM before it could be used.
	ErrStale = errors.New("element is stale")
)
