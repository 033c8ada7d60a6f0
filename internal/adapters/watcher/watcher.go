package watcher

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher reports files in one directory that were created or written and
// then left alone for the debounce duration
type Watcher struct {
	fsw      *fsnotify.Watcher
	dir      string
	debounce time.Duration
	accept   func(path string) bool
	log      logrus.FieldLogger
}

// New starts watching dir. accept filters paths before they are debounced;
// nil accepts everything.
func New(dir string, debounce time.Duration, accept func(path string) bool, log logrus.FieldLogger) (*Watcher, error) {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	if accept == nil {
		accept = func(string) bool { return true }
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{
		fsw:      fsw,
		dir:      dir,
		debounce: debounce,
		accept:   accept,
		log:      log,
	}, nil
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run calls handle for every settled path until ctx is done. handle runs
// on the event loop, so files are processed one at a time and events that
// arrive meanwhile are queued by the watcher.
func (w *Watcher) Run(ctx context.Context, handle func(path string)) error {
	pending := newDebouncer(w.debounce)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	rearm := func() {
		if wait, ok := pending.next(time.Now()); ok {
			timer.Reset(wait)
		}
	}

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending.forget(event.Name)
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.accept(event.Name) {
				continue
			}

			w.log.WithFields(logrus.Fields{"file": filepath.Base(event.Name), "op": event.Op.String()}).Debug("Change detected")
			pending.touch(event.Name, time.Now())
			timer.Stop()
			rearm()

		case <-timer.C:
			for _, path := range pending.due(time.Now()) {
				if ctx.Err() != nil {
					return nil
				}
				handle(path)
			}
			rearm()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("Watcher error")

		case <-ctx.Done():
			return nil
		}
	}
}
