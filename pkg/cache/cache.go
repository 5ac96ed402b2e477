// Package cache holds per-view snapshots of backend collections.
//
// A Store keeps the last successfully fetched collection for one resource and
// replaces it wholesale on every successful load; there is no partial merge.
// Loads are tagged with the identity bound when they were issued, so a
// response that lands after a logout or login switch is discarded instead of
// leaking one identity's rows into the next session.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// State is the lifecycle of a Store's snapshot.
type State int

// Snapshot states. Stale means the last load failed but an older good
// collection is still being shown.
const (
	Empty State = iota
	Loading
	Ready
	Stale
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Stale:
		return "stale"
	}

	return fmt.Sprintf("state(%d)", int(s))
}

var (
	// ErrLoadInFlight means a load for this resource is already outstanding.
	// The second trigger is not issued; one refresh per resource at a time.
	ErrLoadInFlight = errors.New("load already in flight")

	// ErrNoIdentity means a load was attempted with no identity bound.
	ErrNoIdentity = errors.New("no identity bound to cache")

	// ErrSuperseded means the fetch completed for an identity that is no
	// longer bound; the result was discarded.
	ErrSuperseded = errors.New("fetch superseded by identity change")
)

// Fetch loads the full collection from the backend.
type Fetch[T any] func(ctx context.Context) ([]T, error)

// Store is the snapshot cache for a single resource. All methods are safe to
// call from the UI goroutine and from fetch goroutines.
type Store[T any] struct {
	mu         sync.Mutex
	resource   string
	fetch      Fetch[T]
	identity   string
	state      State
	records    []T
	lastErr    error
	loading    bool
	loadingTag string
}

// NewStore returns an empty Store for the named resource ("tasks", "reports").
func NewStore[T any](resource string, fetch Fetch[T]) *Store[T] {
	return &Store[T]{resource: resource, fetch: fetch}
}

// Bind invalidates the snapshot and ties future loads to identity. Called on
// login with the new identity and on logout with the empty string; either way
// the previous identity's rows are gone before the next view can render.
func (s *Store[T]) Bind(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = identity
	s.state = Empty
	s.records = nil
	s.lastErr = nil

	log.Debug().Str("resource", s.resource).Str("identity", identity).Msg("cache bound")
}

// Load fetches the collection and replaces the snapshot. It blocks for the
// round-trip, so callers run it off the UI goroutine. Only one load may be in
// flight per Store; a second trigger returns ErrLoadInFlight without issuing
// a request. A result arriving after the bound identity changed is dropped
// with ErrSuperseded and the snapshot is left exactly as the new binding set
// it.
func (s *Store[T]) Load(ctx context.Context) error {
	s.mu.Lock()

	if s.identity == "" {
		s.mu.Unlock()

		return ErrNoIdentity
	}

	// a load already running for the *current* identity blocks a second
	// trigger; one still in flight for a superseded identity does not, since
	// its result will be discarded anyway
	if s.loading && s.loadingTag == s.identity {
		s.mu.Unlock()

		return ErrLoadInFlight
	}

	tag := s.identity
	s.loading = true
	s.loadingTag = tag

	if s.state == Empty {
		s.state = Loading
	}

	s.mu.Unlock()

	records, err := s.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	// only the load that owns the current guard may release it
	if s.loadingTag == tag {
		s.loading = false
	}

	if s.identity != tag {
		log.Info().
			Str("resource", s.resource).
			Str("issued_for", tag).
			Str("bound_to", s.identity).
			Msg("discarding superseded fetch result")

		return ErrSuperseded
	}

	if err != nil {
		// keep whatever was good before; the view renders stale or empty,
		// never a partial collection
		s.lastErr = err

		if len(s.records) > 0 {
			s.state = Stale
		} else {
			s.state = Empty
		}

		log.Error().Err(err).Str("resource", s.resource).Stringer("state", s.state).Msg("collection load failed")

		return err
	}

	s.records = records
	s.lastErr = nil
	s.state = Ready

	log.Debug().Str("resource", s.resource).Int("count", len(records)).Msg("collection replaced")

	return nil
}

// State returns the snapshot state.
func (s *Store[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Records returns the last good collection (Ready or Stale), or nil. The
// returned slice is a copy; callers may filter it freely.
func (s *Store[T]) Records() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 {
		return nil
	}

	out := make([]T, len(s.records))
	copy(out, s.records)

	return out
}

// LastErr returns the error from the most recent failed load, if the failure
// has not been superseded by a success or rebind.
func (s *Store[T]) LastErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastErr
}
