package hydrate

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"

	lerrors "github.com/vango-dev/lumen/internal/errors"
)

// ErrMismatch is returned by Report.Err when rehydration had to recover.
var ErrMismatch = lerrors.New("L044")

// Mismatch describes one recovered difference.
type Mismatch struct {
	// Code is the error code: L040 kind or tag, L041 text, L042 missing,
	// L043 unexpected, L045 stale attribute.
	Code     string
	Path     string
	Expected string
	Found    string
}

// Error returns the mismatch as a coded error.
func (m Mismatch) Error() error {
	return lerrors.New(m.Code).WithDetailf("at %s: expected %s, found %s", m.Path, m.Expected, m.Found)
}

// Report collects the mismatches of one rehydration.
type Report struct {
	mu         sync.Mutex
	mismatches []Mismatch
	claimed    int
	created    int
	logger     *slog.Logger
}

// NewReport creates a report that logs each mismatch to logger at Warn.
// A nil logger uses slog.Default().
func NewReport(logger *slog.Logger) *Report {
	if logger == nil {
		logger = slog.Default()
	}
	return &Report{logger: logger}
}

func (r *Report) add(m Mismatch) {
	r.mu.Lock()
	r.mismatches = append(r.mismatches, m)
	r.mu.Unlock()

	r.logger.Warn("hydrate: mismatch, recreating node",
		slog.String("code", m.Code),
		slog.String("path", m.Path),
		slog.String("expected", m.Expected),
		slog.String("found", m.Found),
	)
}

func (r *Report) countClaim() {
	r.mu.Lock()
	r.claimed++
	r.mu.Unlock()
}

func (r *Report) countCreate() {
	r.mu.Lock()
	r.created++
	r.mu.Unlock()
}

// Mismatches returns a copy of the recorded mismatches.
func (r *Report) Mismatches() []Mismatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Mismatch(nil), r.mismatches...)
}

// Count returns the number of mismatches.
func (r *Report) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.mismatches)
}

// Claimed returns how many existing nodes were reused.
func (r *Report) Claimed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.claimed
}

// Created returns how many nodes had to be created.
func (r *Report) Created() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.created
}

// Err returns nil for a clean rehydration, otherwise an ErrMismatch that
// wraps every recorded mismatch.
func (r *Report) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.mismatches) == 0 {
		return nil
	}
	errs := make([]error, len(r.mismatches))
	for i, m := range r.mismatches {
		errs[i] = m.Error()
	}
	return lerrors.New("L044").
		WithDetail(fmt.Sprintf("%d mismatches", len(r.mismatches))).
		Wrap(stderrors.Join(errs...))
}
