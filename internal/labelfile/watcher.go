// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package labelfile

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 250 * time.Millisecond

// Event is delivered after the watched file settles.
type Event struct {
	Label *Label
	Err   error
}

// =============================================================================
// FILE WATCHER INTERFACE
// =============================================================================

// FileWatcher delivers a reloaded Label whenever the file changes.
type FileWatcher interface {
	// Watch starts watching for file changes
	Watch() error

	// Events returns the channel of reload results
	Events() <-chan Event

	// Close stops watching and releases resources
	Close() error
}

// NewWatcher returns an fsnotify watcher for path, falling back to polling
// when fsnotify is unavailable.
func NewWatcher(path string, debounce time.Duration) (FileWatcher, error) {
	fw, err := NewFsnotifyWatcher(path, debounce)
	if err == nil {
		if err := fw.Watch(); err == nil {
			return fw, nil
		}
		fw.Close()
	}
	log.Printf("labelfile: fsnotify unavailable for %s, polling", path)

	pw := NewPollingWatcher(path, time.Second)
	if err := pw.Watch(); err != nil {
		return nil, err
	}
	return pw, nil
}

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// FsnotifyWatcher watches the file's directory so editors that save by
// rename are still seen.
type FsnotifyWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	events   chan Event

	mu      sync.Mutex
	pending time.Time // zero when nothing is pending

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFsnotifyWatcher creates a watcher for path. Call Watch to start it.
func NewFsnotifyWatcher(path string, debounce time.Duration) (*FsnotifyWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &FsnotifyWatcher{
		path:     abs,
		watcher:  watcher,
		debounce: debounce,
		events:   make(chan Event, 1),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching for file changes.
func (fw *FsnotifyWatcher) Watch() error {
	if err := fw.watcher.Add(filepath.Dir(fw.path)); err != nil {
		return err
	}
	fw.wg.Add(2)
	go fw.processEvents()
	go fw.processPending()
	return nil
}

// Events returns the reload channel.
func (fw *FsnotifyWatcher) Events() <-chan Event { return fw.events }

func (fw *FsnotifyWatcher) processEvents() {
	defer fw.wg.Done()
	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				fw.mu.Lock()
				fw.pending = time.Now()
				fw.mu.Unlock()
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("labelfile: watch error: %v", err)
		}
	}
}

func (fw *FsnotifyWatcher) processPending() {
	defer fw.wg.Done()
	tick := fw.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-fw.ctx.Done():
			return

		case <-ticker.C:
			fw.mu.Lock()
			due := !fw.pending.IsZero() && time.Since(fw.pending) >= fw.debounce
			if due {
				fw.pending = time.Time{}
			}
			fw.mu.Unlock()

			if due {
				// A rename may leave the file briefly missing.
				if _, err := os.Stat(fw.path); err != nil {
					continue
				}
				deliver(fw.ctx, fw.events, fw.path)
			}
		}
	}
}

// Close stops watching. Events is not closed.
func (fw *FsnotifyWatcher) Close() error {
	fw.cancel()
	err := fw.watcher.Close()
	fw.wg.Wait()
	return err
}

// =============================================================================
// POLLING WATCHER (FALLBACK)
// =============================================================================

// PollingWatcher checks the file's modification time periodically.
type PollingWatcher struct {
	path     string
	interval time.Duration
	events   chan Event
	modTime  time.Time
	size     int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPollingWatcher creates a polling watcher for path.
func NewPollingWatcher(path string, interval time.Duration) *PollingWatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &PollingWatcher{
		path:     path,
		interval: interval,
		events:   make(chan Event, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Watch records the current state and starts polling.
func (pw *PollingWatcher) Watch() error {
	info, err := os.Stat(pw.path)
	if err != nil {
		return err
	}
	pw.modTime, pw.size = info.ModTime(), info.Size()

	pw.wg.Add(1)
	go pw.poll()
	return nil
}

// Events returns the reload channel.
func (pw *PollingWatcher) Events() <-chan Event { return pw.events }

func (pw *PollingWatcher) poll() {
	defer pw.wg.Done()
	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-pw.ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(pw.path)
			if err != nil {
				continue
			}
			if info.ModTime().Equal(pw.modTime) && info.Size() == pw.size {
				continue
			}
			pw.modTime, pw.size = info.ModTime(), info.Size()
			deliver(pw.ctx, pw.events, pw.path)
		}
	}
}

// Close stops polling.
func (pw *PollingWatcher) Close() error {
	pw.cancel()
	pw.wg.Wait()
	return nil
}

// deliver reloads path and sends the result unless ctx is done.
func deliver(ctx context.Context, ch chan<- Event, path string) {
	label, err := Load(path)
	select {
	case ch <- Event{Label: label, Err: err}:
	case <-ctx.Done():
	}
}
