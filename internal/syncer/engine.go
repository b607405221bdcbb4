// Package syncer translates create/update/delete/toggle intents into wire
// requests and keeps the local store consistent with the backend.
//
// CRUD operations validate client-side, call the backend, and reload the
// store on success. The high-frequency toggles (like, RSVP) are
// optimistic: the flag flip and the count adjustment are applied to the
// store at dispatch time, then either committed with the
// server-confirmed count or rolled back to the pre-dispatch values. A
// toggle is a three-state transaction per event id — pending, committed,
// rolled back — and a second toggle for an id is rejected while one is
// pending.
package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cbruun/campus-events/internal/api"
	"github.com/cbruun/campus-events/internal/event"
	"github.com/cbruun/campus-events/internal/logger"
	"github.com/cbruun/campus-events/internal/session"
	"github.com/cbruun/campus-events/internal/store"
)

var (
	// ErrSessionNotReady means the auth flow has not resolved yet; no
	// load may be issued for a not-yet-resolved identity.
	ErrSessionNotReady = errors.New("session not resolved yet")

	// ErrNotSignedIn means the operation needs a signed-in viewer.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrUnknownEvent means the id is not in the current snapshot.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrToggleInFlight means a toggle for this event is still pending;
	// the duplicate is dropped to preserve the count/flag invariant
	// under rapid repeated clicks.
	ErrToggleInFlight = errors.New("toggle already in flight for this event")

	// ErrCreateInFlight guards against double submission of the create
	// form.
	ErrCreateInFlight = errors.New("create already in flight")
)

// Backend is the slice of the API client the engine uses.
type Backend interface {
	CreateEvent(ctx context.Context, req api.CreateRequest) (string, error)
	UpdateEvent(ctx context.Context, id string, req api.UpdateRequest) error
	DeleteEvent(ctx context.Context, id, viewerID string) error
	Like(ctx context.Context, id, viewerID string) (int, error)
	Unlike(ctx context.Context, id, viewerID string) (int, error)
	RSVP(ctx context.Context, id, viewerID string) (int, error)
	UnRSVP(ctx context.Context, id, viewerID string) (int, error)
}

// Engine converts event intents into backend calls and store updates.
type Engine struct {
	backend Backend
	store   *store.Store
	session *session.Session
	log     *logger.Logger

	mu       sync.Mutex
	inflight map[string]bool // event ids with a pending toggle
	creating bool
}

// NewEngine creates an engine over the given collaborators. The logger
// may be nil, in which case the package default is used.
func NewEngine(backend Backend, st *store.Store, sess *session.Session, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Default()
	}
	return &Engine{
		backend:  backend,
		store:    st,
		session:  sess,
		log:      log,
		inflight: make(map[string]bool),
	}
}

// Refresh reloads the store for the current viewer. It must not run
// before the session has resolved: the first load is gated on
// readiness so it is never keyed by an unresolved identity.
func (e *Engine) Refresh(ctx context.Context) error {
	viewer, ready := e.session.Viewer()
	if !ready {
		return ErrSessionNotReady
	}

	started := time.Now()
	err := e.store.Load(ctx, viewer)
	logger.RecordTiming("store.load", time.Since(started))
	if errors.Is(err, store.ErrStaleLoad) {
		// A newer load owns the snapshot now; nothing to surface.
		return nil
	}
	return err
}

// Create validates the draft, posts it, reloads the store and returns
// the server-assigned id. No partial state is committed on failure.
func (e *Engine) Create(ctx context.Context, draft event.Draft) (string, error) {
	viewer, ready := e.session.Viewer()
	if !ready || viewer == "" {
		return "", ErrNotSignedIn
	}
	if err := ValidateDraft(draft, time.Now()); err != nil {
		return "", err
	}

	e.mu.Lock()
	if e.creating {
		e.mu.Unlock()
		return "", ErrCreateInFlight
	}
	e.creating = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.creating = false
		e.mu.Unlock()
	}()

	op := uuid.NewString()
	req := buildCreateRequest(draft, viewer)
	e.log.Debug("creating event", logger.Fields{"op": op, "title": draft.Title})

	id, err := e.backend.CreateEvent(ctx, req)
	if err != nil {
		e.log.Error("create failed", logger.Fields{"op": op}, err)
		return "", err
	}
	logger.IncrCounter("sync.create")

	if err := e.Refresh(ctx); err != nil {
		// The event exists server-side; the stale snapshot heals on the
		// next load.
		e.log.Warn("reload after create failed", logger.Fields{"op": op, "event_id": id})
	}
	return id, nil
}

// Update sends a full payload for the event (unset fields omitted on the
// wire) and reloads the store on success.
func (e *Engine) Update(ctx context.Context, ev event.Event) error {
	return e.update(ctx, ev, "")
}

// UpdateWithImage is Update plus a new image, which switches the request
// to a multipart form.
func (e *Engine) UpdateWithImage(ctx context.Context, ev event.Event, imageBase64 string) error {
	return e.update(ctx, ev, imageBase64)
}

func (e *Engine) update(ctx context.Context, ev event.Event, imageBase64 string) error {
	viewer, ready := e.session.Viewer()
	if !ready || viewer == "" {
		return ErrNotSignedIn
	}
	if ev.ID == "" {
		return ErrUnknownEvent
	}

	op := uuid.NewString()
	req := buildUpdateRequest(ev, viewer)
	req.ImageBase64 = imageBase64
	e.log.Debug("updating event", logger.Fields{"op": op, "event_id": ev.ID})

	if err := e.backend.UpdateEvent(ctx, ev.ID, req); err != nil {
		e.log.Error("update failed", logger.Fields{"op": op, "event_id": ev.ID}, err)
		return err
	}
	logger.IncrCounter("sync.update")

	if err := e.Refresh(ctx); err != nil {
		e.log.Warn("reload after update failed", logger.Fields{"op": op, "event_id": ev.ID})
	}
	return nil
}

// Delete soft-deletes the event (the backend marks it inactive) and
// reloads, which drops it from the snapshot.
func (e *Engine) Delete(ctx context.Context, id string) error {
	viewer, ready := e.session.Viewer()
	if !ready || viewer == "" {
		return ErrNotSignedIn
	}

	op := uuid.NewString()
	e.log.Debug("deleting event", logger.Fields{"op": op, "event_id": id})

	if err := e.backend.DeleteEvent(ctx, id, viewer); err != nil {
		e.log.Error("delete failed", logger.Fields{"op": op, "event_id": id}, err)
		return err
	}
	logger.IncrCounter("sync.delete")

	if err := e.Refresh(ctx); err != nil {
		e.log.Warn("reload after delete failed", logger.Fields{"op": op, "event_id": id})
	}
	return nil
}

// ToggleLike flips the viewer's like on the event. The flag and count
// are updated optimistically at dispatch; on success the count is
// overwritten with the server-confirmed total, on any non-success
// outcome both are rolled back to their pre-dispatch values.
func (e *Engine) ToggleLike(ctx context.Context, id string) error {
	return e.toggle(ctx, id, toggleLike)
}

// ToggleRSVP is ToggleLike for the RSVP flag and count.
func (e *Engine) ToggleRSVP(ctx context.Context, id string) error {
	return e.toggle(ctx, id, toggleRSVP)
}

type toggleKind int

const (
	toggleLike toggleKind = iota
	toggleRSVP
)

func (k toggleKind) name() string {
	if k == toggleLike {
		return "like"
	}
	return "rsvp"
}

func (e *Engine) toggle(ctx context.Context, id string, kind toggleKind) error {
	viewer, ready := e.session.Viewer()
	if !ready || viewer == "" {
		return ErrNotSignedIn
	}

	ev, ok := e.store.Get(id)
	if !ok {
		return ErrUnknownEvent
	}

	// Per-id guard: one pending toggle at a time. Toggles on different
	// ids proceed concurrently.
	e.mu.Lock()
	if e.inflight[id] {
		e.mu.Unlock()
		return ErrToggleInFlight
	}
	e.inflight[id] = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.inflight, id)
		e.mu.Unlock()
	}()

	var (
		active    bool // pre-dispatch membership flag
		prevCount int
	)
	if kind == toggleLike {
		active, prevCount = ev.UserLiked, ev.Likes
	} else {
		active, prevCount = ev.UserRSVPed, ev.RSVPs
	}

	// Optimistic flip: flag inverted, count adjusted by exactly one.
	flipped := !active
	optimistic := prevCount + 1
	if active {
		optimistic = prevCount - 1
	}
	e.store.Apply(id, togglePatch(kind, flipped, optimistic))

	op := uuid.NewString()
	e.log.Debug("toggle dispatched", logger.Fields{
		"op": op, "event_id": id, "kind": kind.name(), "joining": flipped,
	})

	serverCount, err := e.callToggle(ctx, id, viewer, kind, active)
	if err != nil {
		// Explicit rollback: restore the pre-dispatch flag and count.
		e.store.Apply(id, togglePatch(kind, active, prevCount))
		logger.IncrCounter("sync.toggle_rollback")
		e.log.Error("toggle failed, rolled back", logger.Fields{
			"op": op, "event_id": id, "kind": kind.name(),
		}, err)
		return err
	}

	// Commit: trust the server total over the local adjustment in case
	// of concurrent external changes.
	e.store.Apply(id, togglePatch(kind, flipped, serverCount))
	logger.IncrCounter("sync.toggle_" + kind.name())
	return nil
}

// callToggle picks join (POST) vs leave (DELETE) from the pre-dispatch
// flag and returns the server-confirmed count.
func (e *Engine) callToggle(ctx context.Context, id, viewer string, kind toggleKind, active bool) (int, error) {
	switch {
	case kind == toggleLike && active:
		return e.backend.Unlike(ctx, id, viewer)
	case kind == toggleLike:
		return e.backend.Like(ctx, id, viewer)
	case active:
		return e.backend.UnRSVP(ctx, id, viewer)
	default:
		return e.backend.RSVP(ctx, id, viewer)
	}
}

func togglePatch(kind toggleKind, flag bool, count int) event.Patch {
	if kind == toggleLike {
		return event.Patch{UserLiked: &flag, Likes: &count}
	}
	return event.Patch{UserRSVPed: &flag, RSVPs: &count}
}

func buildCreateRequest(d event.Draft, viewer string) api.CreateRequest {
	primary := d.Categories[0]
	var extra []string
	for _, c := range d.Categories[1:] {
		if c != primary {
			extra = append(extra, c)
		}
	}

	access := "Public"
	if d.Private {
		access = "Private"
	}

	var cost *float64
	priced := d.Price > 0
	if priced {
		cost = &d.Price
	}

	var images *string
	if d.ImageBase64 != "" {
		images = &d.ImageBase64
	}

	end := d.EndDate
	if end.IsZero() {
		end = d.StartDate
	}

	return api.CreateRequest{
		CreatorID:     viewer,
		Title:         d.Title,
		Description:   d.Description,
		Location:      d.Location,
		EventType:     primary,
		EventAccess:   access,
		Images:        images,
		StartDateTime: event.FormatWireTime(d.StartDate),
		EndDateTime:   event.FormatWireTime(end),
		RSVPRequired:  d.RSVPRequired,
		IsPriced:      priced,
		Cost:          cost,
		Categories:    extra,
	}
}

func buildUpdateRequest(ev event.Event, viewer string) api.UpdateRequest {
	access := "Public"
	if ev.Private {
		access = "Private"
	}

	priced := ev.Price > 0
	var cost *float64
	if priced {
		cost = &ev.Price
	}

	req := api.UpdateRequest{
		UpdaterID:    viewer,
		Title:        ev.Title,
		Description:  ev.Description,
		Location:     ev.Location,
		EventType:    ev.PrimaryCategory(),
		EventAccess:  access,
		RSVPRequired: &ev.RSVPRequired,
		IsPriced:     &priced,
		Cost:         cost,
	}
	if len(ev.Categories) > 1 {
		req.Categories = append([]string(nil), ev.Categories[1:]...)
	}
	if !ev.StartDate.IsZero() {
		req.StartDateTime = event.FormatWireTime(ev.StartDate)
	}
	if !ev.EndDate.IsZero() {
		req.EndDateTime = event.FormatWireTime(ev.EndDate)
	}
	return req
}
