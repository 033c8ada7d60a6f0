package watcher

import (
	"sort"
	"time"
)

// debouncer tracks the last event time per path and releases a path once
// it has been quiet for the wait duration
type debouncer struct {
	wait    time.Duration
	pending map[string]time.Time
}

func newDebouncer(wait time.Duration) *debouncer {
	return &debouncer{wait: wait, pending: make(map[string]time.Time)}
}

// touch records an event for path
func (d *debouncer) touch(path string, now time.Time) {
	d.pending[path] = now
}

// forget drops a pending path, e.g. after it was removed
func (d *debouncer) forget(path string) {
	delete(d.pending, path)
}

// due removes and returns the settled paths in name order
func (d *debouncer) due(now time.Time) []string {
	var ready []string
	for path, last := range d.pending {
		if now.Sub(last) >= d.wait {
			ready = append(ready, path)
		}
	}
	for _, path := range ready {
		delete(d.pending, path)
	}
	sort.Strings(ready)
	return ready
}

// next returns how long until the earliest pending path settles
func (d *debouncer) next(now time.Time) (time.Duration, bool) {
	if len(d.pending) == 0 {
		return 0, false
	}
	earliest := time.Duration(-1)
	for _, last := range d.pending {
		remaining := d.wait - now.Sub(last)
		if remaining < 0 {
			remaining = 0
		}
		if earliest < 0 || remaining < earliest {
			earliest = remaining
		}
	}
	return earliest, true
}
