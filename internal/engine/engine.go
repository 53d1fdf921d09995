// Package engine ties the layout document and the seat status engine
// together behind one editing facade. Every mutation of an open seat map
// goes through here, so derived state (the cached occupied total) and the
// unknown-seat rules are enforced in a single place.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/seatforge/seatforge/internal/geo"
	"github.com/seatforge/seatforge/internal/layout"
	"github.com/seatforge/seatforge/internal/seatstatus"
)

// ErrUnknownSeat reports a two-phase toggle on a seat ID no section
// contains. Single-call writes on unknown seats are silent no-ops instead.
var ErrUnknownSeat = errors.New("seat not present in document")

// Engine owns one in-memory seat map and its status engine. It is logically
// single-threaded: callers that share an Engine across goroutines serialize
// access themselves (the session layer wraps it in a mutex).
type Engine struct {
	doc    *layout.Document
	status *seatstatus.Engine

	// Cached occupied total, rebuilt when dirty.
	dirty      bool
	totalPrice float64
}

// New creates an engine with an empty document.
func New() *Engine {
	return &Engine{
		doc:    layout.NewEmptyDocument(),
		status: seatstatus.NewEngine(),
		dirty:  true,
	}
}

// LoadDocument replaces the open document with a persisted one and reloads
// the status engine from its status list.
func (e *Engine) LoadDocument(data []byte) error {
	var persisted layout.PersistedDocument
	if err := json.Unmarshal(data, &persisted); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}

	e.doc = &layout.Document{
		Sections: persisted.Sections,
		Stage:    persisted.Stage,
		Aisles:   persisted.Aisles,
	}
	e.status.Clear()
	e.status.Load(persisted.SeatStatuses)
	e.dirty = true
	return nil
}

// LoadSampleDocument loads the built-in demo venue.
func (e *Engine) LoadSampleDocument() {
	e.doc = layout.NewSampleDocument()
	e.status.Clear()
	e.dirty = true
}

// ExportDocument serializes the document plus the current status snapshot.
// Importing the result reproduces an equivalent document.
func (e *Engine) ExportDocument() ([]byte, error) {
	persisted := layout.PersistedDocument{
		Sections:     e.doc.Sections,
		Stage:        e.doc.Stage,
		Aisles:       e.doc.Aisles,
		SeatStatuses: e.status.Snapshot(),
	}
	data, err := json.Marshal(persisted)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

// Document exposes the open document for read-only snapshots. Callers must
// not mutate it directly.
func (e *Engine) Document() *layout.Document {
	return e.doc
}

func (e *Engine) lookup() layout.StatusLookup {
	return e.status.Status
}

// --- Document mutations ---

func (e *Engine) MoveSection(id string, dx, dy float64) error {
	if err := e.doc.MoveSection(id, dx, dy); err != nil {
		return err
	}
	e.dirty = true
	return nil
}

func (e *Engine) SplitSection(id string, a, b geo.Point) (string, string, error) {
	idA, idB, err := e.doc.SplitSection(id, a, b, e.lookup())
	if err != nil {
		return "", "", err
	}
	e.dirty = true
	return idA, idB, nil
}

func (e *Engine) RegenerateSeats(id string) error {
	if err := e.doc.RegenerateSeats(id, e.lookup()); err != nil {
		return err
	}
	e.dirty = true
	return nil
}

func (e *Engine) RemoveSection(id string) error {
	if err := e.doc.RemoveSection(id); err != nil {
		return err
	}
	e.dirty = true
	return nil
}

// ReplaceSectionPoints commits a finished vertex edit from a client: the
// section boundary becomes the given polygon and derived fields regenerate.
func (e *Engine) ReplaceSectionPoints(id string, points []geo.Point) error {
	session, err := e.doc.BeginEdit(id)
	if err != nil {
		return err
	}
	session.SetPoints(points)
	if err := session.Commit(e.lookup()); err != nil {
		return err
	}
	e.dirty = true
	return nil
}

// BeginEdit starts an interactive vertex edit session on the document.
// CommitEdit applies it with status-preserving regeneration.
func (e *Engine) BeginEdit(id string) (*layout.EditSession, error) {
	return e.doc.BeginEdit(id)
}

func (e *Engine) CommitEdit(session *layout.EditSession) error {
	if err := session.Commit(e.lookup()); err != nil {
		return err
	}
	e.dirty = true
	return nil
}

func (e *Engine) ImportPolygons(polygons [][]geo.Point, labels []string) []string {
	ids := e.doc.ImportPolygons(polygons, labels, e.lookup())
	if len(ids) > 0 {
		e.dirty = true
	}
	return ids
}

func (e *Engine) SetStage(stage geo.Rect) {
	e.doc.Stage = stage
}

// --- Seat status ---

// ToggleSeat flips a seat between available and occupied under the in-flight
// guard. Unknown seat IDs are ignored; guard rejections surface as the
// seatstatus sentinel errors.
func (e *Engine) ToggleSeat(seatID string, completed func(seatstatus.Status)) error {
	if !e.doc.HasSeat(seatID) {
		return nil
	}
	if err := e.status.Toggle(seatID, completed); err != nil {
		return err
	}
	e.dirty = true
	return nil
}

// BeginToggle is the two-phase form for callers that complete the transition
// themselves. The cached total invalidates when Complete applies the new
// status; reads while the transition is in flight see the old total.
func (e *Engine) BeginToggle(seatID string) (*seatstatus.PendingTransition, error) {
	if !e.doc.HasSeat(seatID) {
		return nil, ErrUnknownSeat
	}
	pending, err := e.status.BeginToggle(seatID)
	if err != nil {
		return nil, err
	}
	pending.OnComplete(func(seatstatus.Status) { e.dirty = true })
	return pending, nil
}

// SetSeatStatus sets a status directly, bypassing the guard. Writes for seat
// IDs not present in the document are idempotent no-ops.
func (e *Engine) SetSeatStatus(seatID string, status seatstatus.Status) {
	if !e.doc.HasSeat(seatID) {
		return
	}
	e.status.SetStatus(seatID, status)
	e.dirty = true
}

// SeatStatus reads a seat's status; unknown seats read as Available.
func (e *Engine) SeatStatus(seatID string) seatstatus.Status {
	return e.status.Status(seatID)
}

// StaleTransitions reports seats whose in-flight guard has been held longer
// than maxAge; the host decides whether to force-clear them.
func (e *Engine) StaleTransitions(maxAge time.Duration) []string {
	return e.status.InFlightOlderThan(maxAge)
}

// ClearStatuses wipes all tracked seat state, including stuck guards.
func (e *Engine) ClearStatuses() {
	e.status.Clear()
	e.dirty = true
}

// --- Queries ---

// TotalPrice returns the sum of occupied seat prices, recomputing only after
// a mutation marked the cache dirty.
func (e *Engine) TotalPrice() float64 {
	if e.dirty {
		e.totalPrice = e.doc.TotalPrice(e.lookup())
		e.dirty = false
	}
	return e.totalPrice
}
