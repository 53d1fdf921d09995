package layout

import "github.com/seatforge/seatforge/internal/seatstatus"

// TotalPrice sums the price of every occupied seat. The lookup overrides the
// seat's embedded status snapshot; a seat with no price of its own falls
// back to its section's price. This is a pure projection over the document,
// recomputed on demand.
func (d *Document) TotalPrice(lookup StatusLookup) float64 {
	total := 0.0
	for i := range d.Sections {
		section := &d.Sections[i]
		for j := range section.Seats {
			seat := &section.Seats[j]

			status := seat.Status
			if lookup != nil {
				status = lookup(seat.ID)
			}
			if status != seatstatus.Occupied {
				continue
			}

			price := seat.Price
			if price == 0 {
				price = section.Price
			}
			total += price
		}
	}
	return total
}
