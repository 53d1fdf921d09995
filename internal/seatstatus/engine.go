// Package seatstatus tracks per-seat occupancy with a per-seat in-flight
// guard: at most one logical transition may be pending for a seat at a time,
// and a second toggle arriving inside that window is dropped, not queued.
package seatstatus

import (
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	// ErrSeatLocked rejects a toggle on a seat in the Locked state.
	ErrSeatLocked = errors.New("seat is locked")
	// ErrTransitionInFlight rejects a toggle while an earlier transition on
	// the same seat has not completed.
	ErrTransitionInFlight = errors.New("seat transition already in flight")
)

// Engine owns the status map and the in-flight guard for one open document.
// Hosts create one Engine per document; there is no ambient global state.
type Engine struct {
	mu       sync.Mutex
	statuses map[string]Status
	inflight map[string]time.Time
}

// NewEngine returns an empty engine. Seats not present in the map read as
// Available.
func NewEngine() *Engine {
	return &Engine{
		statuses: make(map[string]Status),
		inflight: make(map[string]time.Time),
	}
}

// PendingTransition is an in-flight toggle. The seat stays guarded until
// Complete is called; abandoning a pending transition leaves the guard set
// permanently, which InFlightOlderThan exposes for the host to clean up.
type PendingTransition struct {
	engine     *Engine
	seatID     string
	next       Status
	done       bool
	onComplete func(Status)
}

// SeatID returns the guarded seat.
func (p *PendingTransition) SeatID() string { return p.seatID }

// Next returns the status the transition will apply.
func (p *PendingTransition) Next() Status { return p.next }

// OnComplete registers fn to run when the transition applies. It fires at
// most once, after the status map has been updated, and never on a repeated
// Complete. Hosts use it to invalidate state derived from the status map.
func (p *PendingTransition) OnComplete(fn func(Status)) {
	p.engine.mu.Lock()
	defer p.engine.mu.Unlock()
	p.onComplete = fn
}

// Complete applies the transition, clears the guard and returns the new
// status. Completing twice is a no-op returning the already-applied status.
func (p *PendingTransition) Complete() Status {
	p.engine.mu.Lock()

	if p.done {
		p.engine.mu.Unlock()
		return p.next
	}
	p.done = true
	p.engine.statuses[p.seatID] = p.next
	delete(p.engine.inflight, p.seatID)
	hook := p.onComplete
	p.engine.mu.Unlock()

	// Run outside the lock so the hook may call back into the engine.
	if hook != nil {
		hook(p.next)
	}
	return p.next
}

// BeginToggle starts an Available <-> Occupied flip for the seat. It fails
// with ErrSeatLocked for locked seats and ErrTransitionInFlight while an
// earlier toggle on the same seat is still pending. Toggles on distinct
// seats are independent.
func (e *Engine) BeginToggle(seatID string) (*PendingTransition, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.statuses[seatID]
	if current == Locked {
		return nil, ErrSeatLocked
	}
	if _, pending := e.inflight[seatID]; pending {
		return nil, ErrTransitionInFlight
	}

	next := Occupied
	if current == Occupied {
		next = Available
	}

	e.inflight[seatID] = time.Now()
	return &PendingTransition{engine: e, seatID: seatID, next: next}, nil
}

// Toggle is the single-call form of BeginToggle + Complete. The completion
// callback, if non-nil, observes the new status exactly once per accepted
// toggle, before the guard clears.
func (e *Engine) Toggle(seatID string, completed func(Status)) error {
	pending, err := e.BeginToggle(seatID)
	if err != nil {
		return err
	}
	if completed != nil {
		completed(pending.Next())
	}
	pending.Complete()
	return nil
}

// Status returns the seat's current status. Untracked seats are Available.
func (e *Engine) Status(seatID string) Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	if s, ok := e.statuses[seatID]; ok {
		return s
	}
	return Available
}

// SetStatus sets a seat's status directly, bypassing the in-flight guard.
// Used for lock/unlock and bulk loads. Invalid statuses are ignored.
func (e *Engine) SetStatus(seatID string, status Status) {
	if !status.Valid() {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.statuses[seatID] = status
}

// Clear resets all tracked statuses and guards, including stale ones. Called
// when switching documents.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.statuses = make(map[string]Status)
	e.inflight = make(map[string]time.Time)
}

// Forget drops a single seat's tracked state, used when the seat ID no
// longer exists in any section.
func (e *Engine) Forget(seatID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.statuses, seatID)
	delete(e.inflight, seatID)
}

// InFlightOlderThan returns seats whose guard has been set for longer than
// maxAge, sorted by seat ID. A non-empty result means a caller began a
// toggle and never completed it; the engine does not time these out itself.
func (e *Engine) InFlightOlderThan(maxAge time.Duration) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	var stale []string
	for seatID, started := range e.inflight {
		if started.Before(cutoff) {
			stale = append(stale, seatID)
		}
	}
	sort.Strings(stale)
	return stale
}

// Snapshot returns all non-default statuses sorted by seat ID, for the
// persisted document's status list.
func (e *Engine) Snapshot() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries := make([]Entry, 0, len(e.statuses))
	for seatID, status := range e.statuses {
		if status == Available {
			continue
		}
		entries = append(entries, Entry{SeatID: seatID, Status: status})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].SeatID < entries[j].SeatID })
	return entries
}

// Load replaces tracked statuses with the given entries. Guards are reset.
func (e *Engine) Load(entries []Entry) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.statuses = make(map[string]Status, len(entries))
	e.inflight = make(map[string]time.Time)
	for _, entry := range entries {
		if entry.Status.Valid() {
			e.statuses[entry.SeatID] = entry.Status
		}
	}
}

// Lookup returns a status lookup function bound to this engine, for seat
// grid generation and price aggregation.
func (e *Engine) Lookup() func(string) Status {
	return e.Status
}
