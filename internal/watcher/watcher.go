// Package watcher reports changes to the transcript archive: new or modified
// session files and new project directories.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// EventType names a change notification.
type EventType string

const (
	SessionChanged EventType = "session_changed"
	ProjectChanged EventType = "project_changed"
)

// Event is one debounced change.
type Event struct {
	Type      EventType `json:"type"`
	ProjectID string    `json:"projectId"`
	SessionID string    `json:"sessionId,omitempty"`
}

func (e Event) key() string {
	return string(e.Type) + "/" + e.ProjectID + "/" + e.SessionID
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a path must stay quiet before its event fires.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// Watcher monitors the projects root and every project directory. Claude Code
// appends to session files continuously, so events are debounced per session.
type Watcher struct {
	root     string
	onEvent  func(Event)
	watcher  *fsnotify.Watcher
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	running  bool
	debounce time.Duration
	timers   map[string]*time.Timer
}

// New creates a Watcher for root. onEvent is called from timer goroutines.
func New(root string, onEvent func(Event), opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		root:     filepath.Clean(root),
		onEvent:  onEvent,
		watcher:  fsw,
		ctx:      ctx,
		cancel:   cancel,
		debounce: 500 * time.Millisecond,
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start watches the root and its current project directories.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.root); err != nil {
		return err
	}
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			w.addProject(filepath.Join(w.root, e.Name()))
		}
	}

	go w.watchLoop()
	return nil
}

// Stop stops the watcher and drops pending events.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	w.cancel()
	for key, t := range w.timers {
		t.Stop()
		delete(w.timers, key)
	}
	return w.watcher.Close()
}

func (w *Watcher) addProject(dir string) {
	if err := w.watcher.Add(dir); err != nil {
		log.Warn().Err(err).Str("path", dir).Msg("Failed to watch project directory")
	}
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			ev, ok := Classify(w.root, event.Name)
			if !ok {
				continue
			}
			if ev.Type == ProjectChanged && event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					log.Debug().Str("project", ev.ProjectID).Msg("New project directory")
					w.addProject(event.Name)
				}
			}
			w.schedule(ev)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("Watcher error")
		}
	}
}

// schedule (re)arms the debounce timer for ev.
func (w *Watcher) schedule(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}

	key := ev.key()
	if t, ok := w.timers[key]; ok {
		t.Stop()
	}
	w.timers[key] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, key)
		running := w.running
		w.mu.Unlock()
		if running && w.onEvent != nil {
			w.onEvent(ev)
		}
	})
}

// Classify maps a path under root to the event it represents: a project
// directory yields ProjectChanged, a session file SessionChanged. Anything
// else is ignored.
func Classify(root, path string) (Event, bool) {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return Event{}, false
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	switch len(parts) {
	case 1:
		if strings.HasPrefix(parts[0], ".") || filepath.Ext(parts[0]) != "" {
			return Event{}, false
		}
		return Event{Type: ProjectChanged, ProjectID: parts[0]}, true
	case 2:
		name, ok := strings.CutSuffix(parts[1], ".jsonl")
		if !ok || name == "" {
			return Event{}, false
		}
		return Event{Type: SessionChanged, ProjectID: parts[0], SessionID: name}, true
	default:
		return Event{}, false
	}
}
