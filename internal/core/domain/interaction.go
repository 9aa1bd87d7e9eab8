package domain

import "time"

// MaxInteractionHistory caps the number of retained interactions.
const MaxInteractionHistory = 100

// Interaction records one page visit.
type Interaction struct {
	Slug        string    `json:"slug"`
	Timestamp   time.Time `json:"timestamp"`
	DurationMs  int64     `json:"duration"`
	ScrollDepth float64   `json:"scrollDepth"`
}

// Validate checks field ranges.
func (i Interaction) Validate() error {
	if i.Slug == "" {
		return ErrInvalidInput
	}
	if i.DurationMs < 0 || i.ScrollDepth < 0 || i.ScrollDepth > 1 {
		return ErrInvalidInput
	}
	return nil
}
