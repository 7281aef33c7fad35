package models

import (
	"encoding/json"
	"fmt"
)

// Status is the download lifecycle state of a record.
// Pending is the only state eligible for processing, Done is terminal,
// Timeout is retried on the next conversion run.
type Status int

const (
	StatusPending Status = iota
	StatusDone
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusTimeout:
		return "timeout"
	default:
		return "pending"
	}
}

// MarshalJSON writes the legacy wire encoding of the status:
// false for pending, true for done, the string "timeout" for timeout.
// The store file is shared with older tooling, so the encoding is fixed.
func (s Status) MarshalJSON() ([]byte, error) {
	switch s {
	case StatusDone:
		return json.Marshal(true)
	case StatusTimeout:
		return json.Marshal("timeout")
	default:
		return json.Marshal(false)
	}
}

// UnmarshalJSON accepts true, false or "timeout". A missing field decodes
// as pending through the zero value.
func (s *Status) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*s = StatusDone
		} else {
			*s = StatusPending
		}
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if str == "timeout" {
			*s = StatusTimeout
			return nil
		}
		return fmt.Errorf("unknown status value %q", str)
	}

	return fmt.Errorf("invalid status value %s", string(data))
}

// Record is one tracked song. Title is set at discovery time and never
// changed; Done and DownloadPath are written by the conversion pipeline;
// Project is filled in manually through the inspector.
type Record struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	Done         Status `json:"done"`
	DownloadPath string `json:"download_path"`
	Project      string `json:"project"`
}
