package layout

import (
	"fmt"

	"github.com/seatforge/seatforge/internal/geo"
	"github.com/seatforge/seatforge/internal/seatstatus"
)

// StatusLookup resolves a seat ID to its authoritative status. A nil lookup
// means every seat is Available.
type StatusLookup func(seatID string) seatstatus.Status

// DefaultCategory is assigned to seats of sections without a ticket type.
const DefaultCategory = "standard"

// SeatID derives the deterministic seat identity from its grid position.
// Row and number are 1-based.
func SeatID(sectionID string, row, number int) string {
	return fmt.Sprintf("%s-%d-%d", sectionID, row, number)
}

// GenerateSeats lays out the section's rows × seatsPerRow grid inside its
// boundary bounds, seat centers offset by half a cell. Polygon sections keep
// only cells whose center passes the containment test; path sections admit
// every cell. Degenerate bounds or a zero grid produce an empty list rather
// than a numeric fault.
//
// Output is deterministic: row-major order, identical input gives identical
// output.
func GenerateSeats(s *Section, lookup StatusLookup) []Seat {
	b := s.Boundary.Bounds()
	if s.Rows <= 0 || s.SeatsPerRow <= 0 || b.IsEmpty() {
		return nil
	}

	spacingX := b.Width() / float64(s.SeatsPerRow)
	spacingY := b.Height() / float64(s.Rows)

	category := s.TicketType
	if category == "" {
		category = DefaultCategory
	}

	seats := make([]Seat, 0, s.Rows*s.SeatsPerRow)
	for row := 0; row < s.Rows; row++ {
		for col := 0; col < s.SeatsPerRow; col++ {
			center := geo.Point{
				X: b.MinX + spacingX*(float64(col)+0.5),
				Y: b.MinY + spacingY*(float64(row)+0.5),
			}
			if !s.Boundary.Contains(center) {
				continue
			}

			id := SeatID(s.ID, row+1, col+1)
			status := seatstatus.Available
			if lookup != nil {
				status = lookup(id)
			}
			seats = append(seats, Seat{
				ID:        id,
				X:         center.X,
				Y:         center.Y,
				Row:       row + 1,
				Number:    col + 1,
				SectionID: s.ID,
				Status:    status,
				Price:     s.Price,
				Category:  category,
			})
		}
	}
	return seats
}
