// Package store holds the in-memory event snapshot for the current
// viewer.
//
// The store owns exactly one snapshot at a time. Load replaces it
// wholesale with server data; Apply merges a partial update into one
// record. Readers and subscribers only ever see copies, so a snapshot
// handed out is never mutated behind the caller's back.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/cbruun/campus-events/internal/event"
)

// ErrStaleLoad is returned when a load response arrives after a newer
// load has started. The stale data is discarded, never applied.
var ErrStaleLoad = errors.New("load superseded by a newer load")

// Loader fetches the full event list for a viewer. *api.Client satisfies
// this.
type Loader interface {
	ListEvents(ctx context.Context, viewerID string) ([]event.WireEvent, error)
}

// Snapshot is an immutable point-in-time view of the store: every known
// event in server order, plus the viewer the data was loaded for.
type Snapshot struct {
	ViewerID string
	Events   []event.Event
}

// Get returns the event with the given id from the snapshot.
func (s Snapshot) Get(id string) (event.Event, bool) {
	for _, e := range s.Events {
		if e.ID == id {
			return e, true
		}
	}
	return event.Event{}, false
}

// Store is the authoritative in-memory mapping from event id to event
// record. Safe for concurrent use.
type Store struct {
	loader Loader

	mu         sync.Mutex
	events     map[string]event.Event
	order      []string // ids in server response order
	viewerID   string
	generation uint64
	subs       map[int]func(Snapshot)
	nextSub    int
}

// New creates an empty store that loads through the given loader.
func New(loader Loader) *Store {
	return &Store{
		loader: loader,
		events: make(map[string]event.Event),
		subs:   make(map[int]func(Snapshot)),
	}
}

// Load replaces the snapshot with fresh server data for the viewer.
//
// Last-call-wins: each Load takes a generation number before the network
// call, and the response is only applied if no newer Load has started in
// the meantime. A superseded response returns ErrStaleLoad and leaves
// the store untouched.
func (s *Store) Load(ctx context.Context, viewerID string) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	wires, err := s.loader.ListEvents(ctx, viewerID)
	if err != nil {
		return err
	}

	events := make(map[string]event.Event, len(wires))
	order := make([]string, 0, len(wires))
	for _, w := range wires {
		e := event.FromWire(w)
		if e.ID == "" {
			continue
		}
		if _, dup := events[e.ID]; dup {
			continue // ids are unique within a snapshot
		}
		events[e.ID] = e
		order = append(order, e.ID)
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return ErrStaleLoad
	}
	s.events = events
	s.order = order
	s.viewerID = viewerID
	snap := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return nil
}

// Apply merges a partial update into one record and notifies
// subscribers. Unspecified fields are preserved. Applying to an unknown
// id is a no-op: Apply never adds or removes records.
func (s *Store) Apply(id string, patch event.Patch) {
	s.mu.Lock()
	e, ok := s.events[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	s.events[id] = patch.ApplyTo(e)
	snap := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

// Get returns a copy of the event with the given id.
func (s *Store) Get(id string) (event.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	return e, ok
}

// All returns every event in server order.
func (s *Store) All() []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eventsLocked()
}

// Snapshot returns the current immutable snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ViewerID returns the viewer the current snapshot was loaded for.
func (s *Store) ViewerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewerID
}

// Subscribe registers a function called with the new snapshot after
// every replace or apply. Returns an unsubscribe function.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) eventsLocked() []event.Event {
	out := make([]event.Event, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.events[id])
	}
	return out
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{ViewerID: s.viewerID, Events: s.eventsLocked()}
}

func (s *Store) subscribersLocked() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
