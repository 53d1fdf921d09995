package session

import (
	"testing"

	"github.com/seatforge/seatforge/internal/engine"
	"github.com/seatforge/seatforge/internal/geo"
	"github.com/seatforge/seatforge/internal/layout"
)

func newTestState(t *testing.T) *DocumentState {
	t.Helper()
	eng := engine.New()
	eng.Document().AddSection(layout.NewSection("sect_a", "A", layout.PolygonBoundary([]geo.Point{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100},
	}), 2, 2, 10, nil))
	return NewDocumentState(eng)
}

func TestApplySequencesOperations(t *testing.T) {
	ds := newTestState(t)

	seq, _, err := ds.Apply(Operation{ID: "op1", Type: OpSectionMove, SectionID: "sect_a", Dx: 10, Dy: 5})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if seq != 1 {
		t.Fatalf("first serverSeq = %d, want 1", seq)
	}

	seatID := "sect_a-1-1"
	seq, total, err := ds.Apply(Operation{ID: "op2", Type: OpSeatToggle, SeatID: seatID})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if seq != 2 {
		t.Fatalf("second serverSeq = %d, want 2", seq)
	}
	if total != 10 {
		t.Fatalf("total after toggle = %v, want 10", total)
	}

	if !ds.Dirty() {
		t.Fatal("state not dirty after applied operations")
	}
	ds.MarkSaved()
	if ds.Dirty() {
		t.Fatal("state dirty after MarkSaved")
	}
}

func TestApplyRejectsInvalidOperations(t *testing.T) {
	ds := newTestState(t)

	cases := []Operation{
		{ID: "bad1", Type: "section.rotate"},
		{ID: "bad2", Type: OpSectionSplit, SectionID: "sect_a"}, // missing endpoints
		{ID: "bad3", Type: OpSectionMove, SectionID: "sect_missing", Dx: 1},
		{ID: "bad4", Type: OpSeatStatus, SeatID: "sect_a-1-1", Status: "reserved"},
		{ID: "bad5", Type: OpStageUpdate},
	}
	for _, op := range cases {
		if _, _, err := ds.Apply(op); err == nil {
			t.Fatalf("operation %s accepted, want error", op.ID)
		}
	}

	// Rejections must not advance the sequence or dirty the document.
	if ds.Dirty() {
		t.Fatal("rejected operations dirtied the state")
	}
	seq, _, err := ds.Apply(Operation{ID: "ok", Type: OpSectionMove, SectionID: "sect_a", Dx: 1})
	if err != nil {
		t.Fatalf("move after rejections: %v", err)
	}
	if seq != 1 {
		t.Fatalf("serverSeq = %d after rejections, want 1", seq)
	}
}

func TestApplySplitAndImport(t *testing.T) {
	ds := newTestState(t)

	cutA := geo.Point{X: 50, Y: -10}
	cutB := geo.Point{X: 50, Y: 110}
	if _, _, err := ds.Apply(Operation{
		ID: "split", Type: OpSectionSplit, SectionID: "sect_a", CutA: &cutA, CutB: &cutB,
	}); err != nil {
		t.Fatalf("split: %v", err)
	}

	if _, _, err := ds.Apply(Operation{
		ID:   "import",
		Type: OpSectionImport,
		Polygons: [][]geo.Point{
			{{X: 200, Y: 0}, {X: 260, Y: 0}, {X: 260, Y: 40}, {X: 200, Y: 40}},
		},
		Labels: []string{"Pit"},
	}); err != nil {
		t.Fatalf("import: %v", err)
	}

	doc, err := ds.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(doc) == 0 {
		t.Fatal("exported document is empty")
	}
}
