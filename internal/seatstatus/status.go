package seatstatus

import (
	"encoding/json"
	"fmt"
)

// Status is the lifecycle state of a single seat. It is owned centrally by
// the Engine rather than by the seat record, so regenerating a section's
// seats never resets occupancy.
type Status string

const (
	Available Status = "available"
	Occupied  Status = "occupied"
	Locked    Status = "locked"
)

// Valid reports whether s is one of the three known states.
func (s Status) Valid() bool {
	switch s {
	case Available, Occupied, Locked:
		return true
	}
	return false
}

// Entry is one seat's persisted status. It serializes as a two-element
// [seatId, status] tuple to match the exported layout document.
type Entry struct {
	SeatID string
	Status Status
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{e.SeatID, string(e.Status)})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("status entry: %w", err)
	}
	e.SeatID = pair[0]
	e.Status = Status(pair[1])
	if !e.Status.Valid() {
		return fmt.Errorf("status entry: unknown status %q", pair[1])
	}
	return nil
}
