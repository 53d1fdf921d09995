package layout

import (
	"testing"

	"github.com/seatforge/seatforge/internal/geo"
	"github.com/seatforge/seatforge/internal/seatstatus"
)

func squareSection(id string, rows, cols int) Section {
	return Section{
		ID:   id,
		Name: "Test",
		Boundary: PolygonBoundary([]geo.Point{
			{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100},
		}),
		Rows:        rows,
		SeatsPerRow: cols,
		Price:       20,
		HasSeats:    true,
	}
}

func TestGenerateSeatsSquareContainment(t *testing.T) {
	s := squareSection("sect_a", 10, 10)
	seats := GenerateSeats(&s, nil)

	if len(seats) != 100 {
		t.Fatalf("got %d seats, want 100", len(seats))
	}
	for _, seat := range seats {
		if !geo.PointInPolygon(geo.Point{X: seat.X, Y: seat.Y}, s.Boundary.Points) {
			t.Fatalf("seat %s at (%v,%v) outside the square", seat.ID, seat.X, seat.Y)
		}
		if seat.Status != seatstatus.Available {
			t.Fatalf("seat %s status %q, want available with nil lookup", seat.ID, seat.Status)
		}
		if seat.Price != 20 {
			t.Fatalf("seat %s price %v, want section price 20", seat.ID, seat.Price)
		}
	}
}

func TestGenerateSeatsConcaveNotchExcluded(t *testing.T) {
	// Square with a notch cut from the top middle down to y=50.
	s := Section{
		ID: "sect_notch",
		Boundary: PolygonBoundary([]geo.Point{
			{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 60, Y: 100},
			{X: 60, Y: 50}, {X: 40, Y: 50}, {X: 40, Y: 100}, {X: 0, Y: 100},
		}),
		Rows:        10,
		SeatsPerRow: 10,
		HasSeats:    true,
	}
	seats := GenerateSeats(&s, nil)

	if len(seats) == 0 || len(seats) >= 100 {
		t.Fatalf("got %d seats, expected a partial grid", len(seats))
	}
	for _, seat := range seats {
		if seat.X > 40 && seat.X < 60 && seat.Y > 50 {
			t.Fatalf("seat %s at (%v,%v) lies in the notch", seat.ID, seat.X, seat.Y)
		}
	}
}

func TestGenerateSeatsDeterministic(t *testing.T) {
	s := squareSection("sect_det", 4, 6)

	first := GenerateSeats(&s, nil)
	second := GenerateSeats(&s, nil)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("seat %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
	// Row-major order: row changes slower than number.
	for i := 1; i < len(first); i++ {
		prev, cur := first[i-1], first[i]
		if cur.Row < prev.Row || (cur.Row == prev.Row && cur.Number <= prev.Number) {
			t.Fatalf("seats out of row-major order at %d: %+v then %+v", i, prev, cur)
		}
	}
}

func TestGenerateSeatsPathBoundaryAdmitsAllCells(t *testing.T) {
	s := Section{
		ID: "sect_path",
		Boundary: PathBoundary(PathSpec{
			Frame: geo.Rect{X: 0, Y: 0, Width: 80, Height: 40},
		}),
		Rows:        4,
		SeatsPerRow: 8,
		HasSeats:    true,
	}
	seats := GenerateSeats(&s, nil)
	if len(seats) != 32 {
		t.Fatalf("got %d seats, want full 4×8 grid", len(seats))
	}
}

func TestGenerateSeatsDegenerateGeometry(t *testing.T) {
	// Zero-height bounds: spacing would be undefined. Expect an empty list,
	// not a fault.
	flat := Section{
		ID:          "sect_flat",
		Boundary:    PolygonBoundary([]geo.Point{{X: 0, Y: 5}, {X: 50, Y: 5}, {X: 100, Y: 5}}),
		Rows:        4,
		SeatsPerRow: 4,
		HasSeats:    true,
	}
	if seats := GenerateSeats(&flat, nil); len(seats) != 0 {
		t.Fatalf("zero-area boundary produced %d seats", len(seats))
	}

	empty := Section{ID: "sect_empty", Boundary: PolygonBoundary(nil), Rows: 4, SeatsPerRow: 4, HasSeats: true}
	if seats := GenerateSeats(&empty, nil); len(seats) != 0 {
		t.Fatalf("empty boundary produced %d seats", len(seats))
	}

	zeroGrid := squareSection("sect_zero", 0, 10)
	if seats := GenerateSeats(&zeroGrid, nil); len(seats) != 0 {
		t.Fatalf("zero rows produced %d seats", len(seats))
	}
}

func TestGenerateSeatsStatusLookup(t *testing.T) {
	s := squareSection("sect_lookup", 2, 2)
	taken := SeatID("sect_lookup", 1, 2)

	seats := GenerateSeats(&s, func(id string) seatstatus.Status {
		if id == taken {
			return seatstatus.Occupied
		}
		return seatstatus.Available
	})

	found := false
	for _, seat := range seats {
		if seat.ID == taken {
			found = true
			if seat.Status != seatstatus.Occupied {
				t.Fatalf("looked-up seat status %q, want occupied", seat.Status)
			}
		} else if seat.Status != seatstatus.Available {
			t.Fatalf("seat %s status %q, want available", seat.ID, seat.Status)
		}
	}
	if !found {
		t.Fatalf("seat %s missing from grid", taken)
	}
}
