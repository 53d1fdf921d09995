package engine

import (
	"errors"
	"testing"

	"github.com/seatforge/seatforge/internal/geo"
	"github.com/seatforge/seatforge/internal/layout"
	"github.com/seatforge/seatforge/internal/seatstatus"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := New()
	doc := e.Document()
	doc.AddSection(layout.NewSection("sect_t", "Test", layout.PolygonBoundary([]geo.Point{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100},
	}), 2, 3, 15, nil))
	return e
}

func TestToggleAndTotalPrice(t *testing.T) {
	e := newTestEngine(t)
	seatID := e.Document().Sections[0].Seats[0].ID

	if got := e.TotalPrice(); got != 0 {
		t.Fatalf("initial total %v, want 0", got)
	}

	if err := e.ToggleSeat(seatID, nil); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := e.SeatStatus(seatID); got != seatstatus.Occupied {
		t.Fatalf("status %q, want occupied", got)
	}
	if got := e.TotalPrice(); got != 15 {
		t.Fatalf("total %v, want 15", got)
	}

	if err := e.ToggleSeat(seatID, nil); err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if got := e.TotalPrice(); got != 0 {
		t.Fatalf("total %v, want 0 after untoggle", got)
	}
}

func TestTwoPhaseToggleInvalidatesCache(t *testing.T) {
	e := newTestEngine(t)
	seatID := e.Document().Sections[0].Seats[0].ID

	pending, err := e.BeginToggle(seatID)
	if err != nil {
		t.Fatalf("begin toggle: %v", err)
	}

	// A read while the transition is in flight sees the old total.
	if got := e.TotalPrice(); got != 0 {
		t.Fatalf("mid-flight total %v, want 0", got)
	}

	pending.Complete()
	if got := e.TotalPrice(); got != 15 {
		t.Fatalf("total after complete %v, want 15", got)
	}

	// Repeating Complete changes nothing.
	pending.Complete()
	if got := e.TotalPrice(); got != 15 {
		t.Fatalf("total after repeated complete %v, want 15", got)
	}
}

func TestUnknownSeatSemantics(t *testing.T) {
	e := newTestEngine(t)

	// Read: available. Write: no-op. Toggle: no-op, no error.
	if got := e.SeatStatus("sect_t-99-99"); got != seatstatus.Available {
		t.Fatalf("unknown seat reads %q, want available", got)
	}
	e.SetSeatStatus("sect_t-99-99", seatstatus.Occupied)
	if got := e.TotalPrice(); got != 0 {
		t.Fatalf("write to unknown seat changed total to %v", got)
	}
	if err := e.ToggleSeat("sect_t-99-99", nil); err != nil {
		t.Fatalf("unknown toggle should be a no-op, got %v", err)
	}
	if _, err := e.BeginToggle("sect_t-99-99"); !errors.Is(err, ErrUnknownSeat) {
		t.Fatalf("two-phase toggle err = %v, want ErrUnknownSeat", err)
	}
}

func TestRegenerateKeepsStatus(t *testing.T) {
	e := newTestEngine(t)
	seatID := e.Document().Sections[0].Seats[0].ID

	e.SetSeatStatus(seatID, seatstatus.Locked)
	if err := e.RegenerateSeats("sect_t"); err != nil {
		t.Fatalf("regenerate: %v", err)
	}

	for _, seat := range e.Document().Sections[0].Seats {
		if seat.ID == seatID && seat.Status != seatstatus.Locked {
			t.Fatalf("regeneration reset status to %q", seat.Status)
		}
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	seatID := e.Document().Sections[0].Seats[0].ID
	e.SetSeatStatus(seatID, seatstatus.Occupied)

	data, err := e.ExportDocument()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	fresh := New()
	if err := fresh.LoadDocument(data); err != nil {
		t.Fatalf("import: %v", err)
	}

	if len(fresh.Document().Sections) != 1 || fresh.Document().Sections[0].ID != "sect_t" {
		t.Fatal("sections not restored")
	}
	if got := fresh.SeatStatus(seatID); got != seatstatus.Occupied {
		t.Fatalf("status %q after round trip, want occupied", got)
	}
	if got := fresh.TotalPrice(); got != e.TotalPrice() {
		t.Fatalf("total %v after round trip, want %v", got, e.TotalPrice())
	}
}

func TestSplitThroughEngine(t *testing.T) {
	e := newTestEngine(t)

	idA, idB, err := e.SplitSection("sect_t", geo.Point{X: 50, Y: -10}, geo.Point{X: 50, Y: 110})
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	doc := e.Document()
	if doc.Section(idA) == nil || doc.Section(idB) == nil || doc.Section("sect_t") != nil {
		t.Fatal("split did not replace the section")
	}

	// Rejected split surfaces the typed error and leaves the document alone.
	var splitErr *layout.SplitError
	_, _, err = e.SplitSection(idA, geo.Point{X: -500, Y: -500}, geo.Point{X: -400, Y: -500})
	if !errors.As(err, &splitErr) {
		t.Fatalf("err = %v, want *layout.SplitError", err)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("document has %d sections after rejected split, want 2", len(doc.Sections))
	}
}

func TestReplaceSectionPoints(t *testing.T) {
	e := newTestEngine(t)

	newPoly := []geo.Point{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 200, Y: 50}, {X: 0, Y: 50}}
	if err := e.ReplaceSectionPoints("sect_t", newPoly); err != nil {
		t.Fatalf("replace points: %v", err)
	}

	s := e.Document().Section("sect_t")
	if s.Bounds != (geo.Bounds{MinX: 0, MinY: 0, MaxX: 200, MaxY: 50}) {
		t.Fatalf("bounds %+v not recomputed", s.Bounds)
	}
	if len(s.Seats) == 0 {
		t.Fatal("seats not regenerated")
	}
}

func TestImportPolygonsThroughEngine(t *testing.T) {
	e := New()
	ids := e.ImportPolygons([][]geo.Point{
		{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 30}, {X: 0, Y: 30}},
	}, []string{"Detected"})

	if len(ids) != 1 {
		t.Fatalf("imported %d sections, want 1", len(ids))
	}
	if e.Document().Section(ids[0]).Name != "Detected" {
		t.Fatal("detector label not applied")
	}
}
