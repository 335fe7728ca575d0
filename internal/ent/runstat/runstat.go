// Package runstat accumulates per-unit outcomes of a batch stage. A failed
// unit never aborts its siblings; it lands here and surfaces in the final
// summary instead.
package runstat

import (
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"
)

// UnitError is one failed unit of work with enough context to retry it.
type UnitError struct {
	Unit string
	Err  error
}

// Summary tallies successes, skips and failures of one stage run. Safe for
// concurrent use by workers.
type Summary struct {
	mu       sync.Mutex
	success  int
	skipped  int
	failures []UnitError
}

// New returns an empty summary.
func New() *Summary {
	return &Summary{}
}

// Success records one successfully processed unit.
func (s *Summary) Success() {
	s.mu.Lock()
	s.success++
	s.mu.Unlock()
}

// Skip records one intentionally skipped unit.
func (s *Summary) Skip() {
	s.mu.Lock()
	s.skipped++
	s.mu.Unlock()
}

// Failure records one failed unit.
func (s *Summary) Failure(unit string, err error) {
	s.mu.Lock()
	s.failures = append(s.failures, UnitError{Unit: unit, Err: err})
	s.mu.Unlock()
}

// Failed returns the number of failed units.
func (s *Summary) Failed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.failures)
}

// Log prints the stage summary and each failed unit.
func (s *Summary) Log(stage string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slog.Info("Stage finished",
		"stage", stage,
		"success", humanize.Comma(int64(s.success)),
		"skipped", humanize.Comma(int64(s.skipped)),
		"failed", humanize.Comma(int64(len(s.failures))),
	)
	for _, f := range s.failures {
		slog.Warn("Unit failed", "stage", stage, "unit", f.Unit, "error", f.Err)
	}
}
