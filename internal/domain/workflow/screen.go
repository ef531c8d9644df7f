package workflow

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

type Phase string

const (
	PhaseLoading     Phase = "loading"
	PhaseReady       Phase = "ready"
	PhaseEmpty       Phase = "empty"
	PhaseUnavailable Phase = "unavailable"
)

const UnavailableMessage = "Data is not available yet. Please try again later."

// Loader fetches a screen's view. present=false selects the empty state.
type Loader[V any] func(ctx context.Context) (view V, present bool, err error)

type LoadRecorder interface {
	RecordScreenLoad(screen, phase string)
}

type State[V any] struct {
	Screen     string         `json:"screen"`
	Phase      Phase          `json:"phase"`
	View       *V             `json:"view,omitempty"`
	Message    string         `json:"message,omitempty"`
	Drafts     map[string]any `json:"drafts,omitempty"`
	Generation uint64         `json:"generation"`
}

// Screen holds the state of one screen for one session. Loads are last-request-wins:
// a load that finishes after a newer load started, or after Leave, is discarded.
type Screen[V any] struct {
	name         string
	emptyMessage string
	load         Loader[V]
	events       LoadRecorder

	mu         sync.Mutex
	generation uint64
	left       bool
	state      State[V]
	drafts     map[string]any
	busy       map[string]bool
}

func NewScreen[V any](name, emptyMessage string, load Loader[V], events LoadRecorder) *Screen[V] {
	return &Screen[V]{
		name:         name,
		emptyMessage: emptyMessage,
		load:         load,
		events:       events,
		state:        State[V]{Screen: name, Phase: PhaseLoading},
		drafts:       make(map[string]any),
		busy:         make(map[string]bool),
	}
}

func (s *Screen[V]) Name() string {
	return s.name
}

// Load fetches the view and returns the screen's state afterwards. When the result was
// discarded the returned state is whatever the newer load (or Leave) left behind.
func (s *Screen[V]) Load(ctx context.Context) (State[V], error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.left = false
	s.state.Phase = PhaseLoading
	s.state.Generation = gen
	s.mu.Unlock()

	view, present, err := s.load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.left {
		slog.Debug("discarding stale screen load", "screen", s.name, "generation", gen)
		return s.snapshot(), nil
	}

	next := State[V]{Screen: s.name, Generation: gen}
	switch {
	case IsUnauthorized(err):
		next.Phase = PhaseUnavailable
		next.Message = UnavailableMessage
		s.state = next
		s.record(next.Phase)
		return s.snapshot(), ErrSessionInvalid
	case err != nil:
		slog.Warn("screen load failed", "screen", s.name, "err", err)
		next.Phase = PhaseUnavailable
		next.Message = UnavailableMessage
		if present {
			next.View = &view
		}
	case !present:
		next.Phase = PhaseEmpty
		next.Message = s.emptyMessage
	default:
		next.Phase = PhaseReady
		next.View = &view
	}
	s.state = next
	s.record(next.Phase)
	return s.snapshot(), nil
}

// Leave marks the screen as no longer displayed. In-flight loads complete as no-ops.
func (s *Screen[V]) Leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.left = true
	s.generation++
}

func (s *Screen[V]) State() State[V] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Screen[V]) Draft(control string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[control]
	return draft, ok
}

// Mutation is one form submission on a screen.
type Mutation struct {
	Control        string
	Draft          any
	Validate       func() error
	Write          func(ctx context.Context) error
	FailureMessage string
}

// Submit validates the draft, performs the write and, on success, clears the draft and
// reloads the screen. On failure the draft is kept for correction.
func (s *Screen[V]) Submit(ctx context.Context, m Mutation) (State[V], error) {
	s.mu.Lock()
	if s.busy[m.Control] {
		s.mu.Unlock()
		return State[V]{}, ErrBusy
	}
	s.busy[m.Control] = true
	if m.Draft != nil {
		s.drafts[m.Control] = m.Draft
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.busy, m.Control)
		s.mu.Unlock()
	}()

	if m.Validate != nil {
		if err := m.Validate(); err != nil {
			return s.State(), err
		}
	}

	if err := m.Write(ctx); err != nil {
		if IsUnauthorized(err) {
			return s.State(), ErrSessionInvalid
		}
		slog.Warn("screen write failed", "screen", s.name, "control", m.Control, "err", err)
		return s.State(), newWriteError(err, m.FailureMessage)
	}

	s.mu.Lock()
	delete(s.drafts, m.Control)
	s.mu.Unlock()

	return s.Load(ctx)
}

func (s *Screen[V]) snapshot() State[V] {
	out := s.state
	if len(s.drafts) > 0 {
		out.Drafts = make(map[string]any, len(s.drafts))
		for k, v := range s.drafts {
			out.Drafts[k] = v
		}
	}
	return out
}

func (s *Screen[V]) record(phase Phase) {
	if s.events != nil {
		s.events.RecordScreenLoad(s.name, string(phase))
	}
}

// FetchAll runs reads concurrently and waits for all of them. There is no cancellation,
// so results written by reads that succeeded stay intact when another read fails.
func FetchAll(ctx context.Context, reads ...func(ctx context.Context) error) error {
	var (
		g            errgroup.Group
		mu           sync.Mutex
		unauthorized error
	)
	for _, read := range reads {
		g.Go(func() error {
			err := read(ctx)
			if IsUnauthorized(err) {
				mu.Lock()
				unauthorized = err
				mu.Unlock()
			}
			return err
		})
	}
	err := g.Wait()
	if unauthorized != nil {
		return unauthorized
	}
	return err
}
