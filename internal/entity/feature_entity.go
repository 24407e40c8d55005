// FILE: internal/entity/feature_entity.go
// Domain entity for feature requests
package entity

import (
	"encoding/json"
	"time"
)

// Status is the position of a feature in the delivery pipeline.
// The zero value is StatusUnknown and is never assigned by the application;
// it only appears when stored data holds a value outside the pipeline.
type Status int

const (
	StatusUnknown Status = iota
	StatusSubmitted
	StatusUnderReview
	StatusPlanned
	StatusInProgress
	StatusStaging
	StatusLive
)

var statusNames = map[Status]string{
	StatusSubmitted:   "submitted",
	StatusUnderReview: "under-review",
	StatusPlanned:     "planned",
	StatusInProgress:  "in-progress",
	StatusStaging:     "staging",
	StatusLive:        "live",
}

// Statuses returns the pipeline statuses in roadmap order.
func Statuses() []Status {
	return []Status{
		StatusSubmitted,
		StatusUnderReview,
		StatusPlanned,
		StatusInProgress,
		StatusStaging,
		StatusLive,
	}
}

// ParseStatus maps the wire form ("under-review") to a Status.
func ParseStatus(s string) (Status, bool) {
	for status, name := range statusNames {
		if name == s {
			return status, true
		}
	}
	return StatusUnknown, false
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether s is one of the six pipeline statuses.
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, ok := ParseStatus(raw)
	if !ok {
		return ErrInvalidStatus
	}
	*s = parsed
	return nil
}

// Feature is a feature request submitted against a product.
type Feature struct {
	Id          int64
	ProductId   int64
	Title       string
	Description string
	Category    string
	Status      Status
	AuthorId    string
	VoteCount   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
