package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Source returns the raw analytics payload. *tenant.Client satisfies it.
type Source interface {
	Analytics(ctx context.Context) (json.RawMessage, error)
}

// FetcherConfig holds configuration for a Fetcher.
type FetcherConfig struct {
	Source Source

	// LogFn is called for log messages (optional)
	LogFn func(level, msg string)

	// Now overrides the clock (tests)
	Now func() time.Time
}

// Fetcher performs the one-shot analytics read. Failures are logged and
// otherwise ignored; Snapshot keeps returning the placeholder or the last
// good data.
type Fetcher struct {
	src   Source
	logFn func(level, msg string)
	now   func() time.Time

	mu      sync.Mutex
	snap    Snapshot
	lastErr error
	gen     uint64
}

// NewFetcher creates a Fetcher holding the placeholder snapshot.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Fetcher{
		src:   cfg.Source,
		logFn: cfg.LogFn,
		now:   now,
		snap:  Placeholder(),
	}
}

// Snapshot returns the current snapshot.
func (f *Fetcher) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

// LastError returns the error of the most recent failed fetch, nil after a
// success.
func (f *Fetcher) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Fetch reads the analytics once and returns the resulting snapshot. When a
// newer Fetch has started meanwhile, this result is discarded and the current
// snapshot is returned instead.
func (f *Fetcher) Fetch(ctx context.Context) Snapshot {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.mu.Unlock()

	raw, err := f.src.Analytics(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		f.log("debug", "analytics fetch superseded; result dropped")
		return f.snap
	}
	if err != nil {
		f.lastErr = err
		f.log("warning", fmt.Sprintf("analytics fetch failed: %v", err))
		return f.snap
	}

	snap := Decode(raw)
	snap.FetchedAt = f.now()
	f.snap = snap
	f.lastErr = nil
	f.log("debug", fmt.Sprintf("analytics fetched: %d series points", len(snap.Series)))
	return snap
}

func (f *Fetcher) log(level, msg string) {
	if f.logFn != nil {
		f.logFn(level, msg)
	}
}
