package style

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SheetChange carries the new text of a stylesheet file that changed on disk.
type SheetChange struct {
	Path string
	Text string
}

// Watcher reloads stylesheet files when they change on disk.
//
// Writes are debounced: a change is delivered once the file has been quiet
// for the debounce interval. Changes and errors are delivered on channels;
// the watcher never touches a Storage itself.
type Watcher struct {
	fs       *fsnotify.Watcher
	paths    map[string]bool
	debounce time.Duration

	pending   map[string]time.Time
	pendingMu sync.Mutex

	changes chan SheetChange
	errors  chan error

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewWatcher watches the given stylesheet files. Watching starts
// immediately; call Close to stop.
func NewWatcher(debounce time.Duration, paths ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("style watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	w := &Watcher{
		fs:       fsw,
		paths:    make(map[string]bool),
		debounce: debounce,
		pending:  make(map[string]time.Time),
		changes:  make(chan SheetChange, 16),
		errors:   make(chan error, 4),
		done:     make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("style watcher: %w", err)
		}
		w.paths[abs] = true
		// Editors often replace files, so the directory is watched.
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("style watcher: watch %s: %w", dir, err)
		}
	}

	w.wg.Add(2)
	go w.eventLoop()
	go w.debounceLoop()
	return w, nil
}

// Changes returns the channel of reloaded sheets.
func (w *Watcher) Changes() <-chan SheetChange { return w.changes }

// Errors returns the channel of watch and read errors.
func (w *Watcher) Errors() <-chan error { return w.errors }

// Close stops watching and closes both channels.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.wg.Wait()
		close(w.changes)
		close(w.errors)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			path, err := filepath.Abs(ev.Name)
			if err != nil || !w.paths[path] {
				continue
			}
			w.pendingMu.Lock()
			w.pending[path] = time.Now()
			w.pendingMu.Unlock()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

func (w *Watcher) debounceLoop() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()
	for {
		select {
		case <-w.done:
			return
		case now := <-ticker.C:
			for _, path := range w.settled(now) {
				data, err := os.ReadFile(path)
				if err != nil {
					w.sendError(fmt.Errorf("style watcher: %w", err))
					continue
				}
				select {
				case w.changes <- SheetChange{Path: path, Text: string(data)}:
				case <-w.done:
					return
				}
			}
		}
	}
}

// settled removes and returns paths that have been quiet for the debounce
// interval.
func (w *Watcher) settled(now time.Time) []string {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	var out []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			out = append(out, path)
			delete(w.pending, path)
		}
	}
	return out
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}
