package workflow

import (
	"sync"
	"time"
)

type leaver interface {
	Leave()
}

// Workspace tracks the screens of one session. Only one screen is active at a time;
// entering another leaves it.
type Workspace struct {
	mu       sync.Mutex
	active   string
	screens  map[string]leaver
	lastSeen time.Time
	closed   bool
}

func newWorkspace(now time.Time) *Workspace {
	return &Workspace{screens: make(map[string]leaver), lastSeen: now}
}

func (w *Workspace) Active() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Enter makes name the active screen, building it on first use. The previously active
// screen is left so its in-flight loads are discarded.
func Enter[V any](w *Workspace, name string, build func() *Screen[V]) *Screen[V] {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.active != "" && w.active != name {
		if prev, ok := w.screens[w.active]; ok {
			prev.Leave()
		}
	}
	w.active = name

	if existing, ok := w.screens[name].(*Screen[V]); ok && !w.closed {
		return existing
	}
	screen := build()
	if !w.closed {
		w.screens[name] = screen
	}
	return screen
}

func (w *Workspace) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, screen := range w.screens {
		screen.Leave()
	}
	w.screens = map[string]leaver{}
	w.active = ""
	w.closed = true
}

type Registry struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
	now        func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{workspaces: make(map[string]*Workspace), now: time.Now}
}

// Get returns the workspace of a session, creating it on first use.
func (r *Registry) Get(sessionID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	ws, ok := r.workspaces[sessionID]
	if !ok {
		ws = newWorkspace(now)
		r.workspaces[sessionID] = ws
	}
	ws.mu.Lock()
	ws.lastSeen = now
	ws.mu.Unlock()
	return ws
}

// Close leaves every screen of the session and forgets the workspace.
func (r *Registry) Close(sessionID string) {
	r.mu.Lock()
	ws, ok := r.workspaces[sessionID]
	delete(r.workspaces, sessionID)
	r.mu.Unlock()
	if ok {
		ws.close()
	}
}

// Sweep closes workspaces idle for longer than idle and returns how many were closed.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	cutoff := r.now().Add(-idle)
	var stale []*Workspace
	for id, ws := range r.workspaces {
		ws.mu.Lock()
		seen := ws.lastSeen
		ws.mu.Unlock()
		if seen.Before(cutoff) {
			stale = append(stale, ws)
			delete(r.workspaces, id)
		}
	}
	r.mu.Unlock()
	for _, ws := range stale {
		ws.close()
	}
	return len(stale)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}
