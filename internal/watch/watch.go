// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package watch reloads a circuit file whenever it changes on disk.
//
package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/db47h/logicsim"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Load reads a JSON encoded circuit file.
//
func Load(path string) (*logicsim.Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "load circuit")
	}
	defer f.Close()
	c, err := logicsim.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return c, nil
}

// Watcher calls a function with the reloaded circuit every time a file is
// written. Bursts of events closer than the debounce delay trigger a single
// reload.
//
type Watcher struct {
	// Log receives watcher events. Defaults to discarding.
	Log *slog.Logger

	path     string
	fn       func(*logicsim.Circuit, error)
	debounce time.Duration
	ready    chan struct{}
	once     sync.Once
}

// New returns a watcher for the given file. fn is called from Run's
// goroutine with the decoded circuit or the load error.
//
func New(path string, fn func(*logicsim.Circuit, error), debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "watch")
	}
	return &Watcher{
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		path:     abs,
		fn:       fn,
		debounce: debounce,
		ready:    make(chan struct{}),
	}, nil
}

// Path returns the absolute path of the watched file.
//
func (w *Watcher) Path() string { return w.path }

// Run watches the file until ctx is canceled. The file's directory is watched
// rather than the file itself so that editors replacing the file by rename
// are followed. Run may be called again after it returns.
//
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "watch")
	}
	defer fw.Close()
	if err = fw.Add(filepath.Dir(w.path)); err != nil {
		return errors.Wrapf(err, "watch %s", w.path)
	}
	w.once.Do(func() { close(w.ready) })
	w.Log.Info("watching", "path", w.path)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.Log.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Log.Warn("watch error", "error", err)
		case <-fire:
			fire = nil
			c, err := Load(w.path)
			if err != nil {
				w.Log.Warn("reload failed", "path", w.path, "error", err)
			} else {
				w.Log.Info("circuit reloaded", "path", w.path, "elements", c.Len())
			}
			w.fn(c, err)
		}
	}
}
