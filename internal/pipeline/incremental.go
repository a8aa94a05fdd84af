package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/theirongolddev/budgetpulse/internal/model"
)

// Source is a revisioned household snapshot provider, such as *store.Store.
type Source interface {
	Revision(ctx context.Context) (int64, error)
	LoadSnapshot(ctx context.Context) (model.Snapshot, error)
}

// Watcher recomputes a Report only when the source revision changes, the
// requested period changes, or the day rolls over.
type Watcher struct {
	src Source

	mu      sync.Mutex
	valid   bool
	last    Report
	lastKey periodKey
}

type periodKey struct {
	month   int64
	allTime bool
	horizon int64
	day     string
}

// NewWatcher creates a watcher over src.
func NewWatcher(src Source) *Watcher {
	return &Watcher{src: src}
}

// Report returns the current report and whether it was recomputed.
func (w *Watcher) Report(ctx context.Context, opts Options) (Report, bool, error) {
	opts = opts.withDefaults()

	rev, err := w.src.Revision(ctx)
	if err != nil {
		return Report{}, false, fmt.Errorf("reading revision: %w", err)
	}

	key := periodKey{month: opts.Month.Unix(), allTime: opts.AllTime, horizon: int64(opts.Horizon),
		day: opts.Now.Format("2006-01-02")}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.valid && w.last.Revision == rev && w.lastKey == key {
		return w.last, false, nil
	}

	snap, err := w.src.LoadSnapshot(ctx)
	if err != nil {
		return Report{}, false, fmt.Errorf("loading snapshot: %w", err)
	}

	r := Analyze(snap, opts)
	r.Revision = rev
	w.last = r
	w.lastKey = key
	w.valid = true
	return r, true, nil
}

// Invalidate forces the next Report call to recompute.
func (w *Watcher) Invalidate() {
	w.mu.Lock()
	w.valid = false
	w.mu.Unlock()
}
