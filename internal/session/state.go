package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/seatforge/seatforge/internal/engine"
	"github.com/seatforge/seatforge/internal/seatstatus"
)

// DocumentState holds the authoritative seat map for one room. All client
// operations funnel through Apply under one mutex; the engine itself is
// single-threaded.
type DocumentState struct {
	mu        sync.Mutex
	engine    *engine.Engine
	serverSeq int64
	opLog     []Operation
	dirty     bool
}

// NewDocumentState wraps a loaded engine.
func NewDocumentState(eng *engine.Engine) *DocumentState {
	return &DocumentState{engine: eng}
}

// Apply validates and applies one operation, returning the server sequence
// and the new occupied total. Rejected operations leave the document
// unchanged.
func (ds *DocumentState) Apply(op Operation) (int64, float64, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if err := ds.applyLocked(op); err != nil {
		return 0, 0, err
	}

	ds.serverSeq++
	ds.opLog = append(ds.opLog, op)
	ds.dirty = true
	return ds.serverSeq, ds.engine.TotalPrice(), nil
}

func (ds *DocumentState) applyLocked(op Operation) error {
	switch op.Type {
	case OpSectionMove:
		return ds.engine.MoveSection(op.SectionID, op.Dx, op.Dy)

	case OpSectionSplit:
		if op.CutA == nil || op.CutB == nil {
			return fmt.Errorf("split requires both cut endpoints")
		}
		_, _, err := ds.engine.SplitSection(op.SectionID, *op.CutA, *op.CutB)
		return err

	case OpSectionPoints:
		return ds.engine.ReplaceSectionPoints(op.SectionID, op.Points)

	case OpSectionRegenerate:
		return ds.engine.RegenerateSeats(op.SectionID)

	case OpSectionRemove:
		return ds.engine.RemoveSection(op.SectionID)

	case OpSectionImport:
		ds.engine.ImportPolygons(op.Polygons, op.Labels)
		return nil

	case OpSeatToggle:
		return ds.engine.ToggleSeat(op.SeatID, nil)

	case OpSeatStatus:
		status := seatstatus.Status(op.Status)
		if !status.Valid() {
			return fmt.Errorf("unknown seat status %q", op.Status)
		}
		ds.engine.SetSeatStatus(op.SeatID, status)
		return nil

	case OpStageUpdate:
		if op.Stage == nil {
			return fmt.Errorf("stage update requires a rect")
		}
		ds.engine.SetStage(*op.Stage)
		return nil

	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}
}

// Export serializes the current document for doc.sync and persistence.
func (ds *DocumentState) Export() ([]byte, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.engine.ExportDocument()
}

// Dirty reports whether the document changed since the last MarkSaved.
func (ds *DocumentState) Dirty() bool {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.dirty
}

// MarkSaved clears the dirty flag after a successful save.
func (ds *DocumentState) MarkSaved() {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.dirty = false
}

// TotalPrice returns the engine's occupied total.
func (ds *DocumentState) TotalPrice() float64 {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.engine.TotalPrice()
}

// GetServerTimestamp returns the current server timestamp in milliseconds.
func GetServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
