package session

import (
	"encoding/json"

	"github.com/seatforge/seatforge/internal/geo"
)

type Message struct {
	Type     string          `json:"type"`
	VenueID  string          `json:"venueId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Selection   []string   `json:"selection,omitempty"` // selected section IDs
	DisplayName string     `json:"displayName,omitempty"`
	// UpdatedAt is stamped server-side (milliseconds); clients use it to
	// fade cursors that stopped moving.
	UpdatedAt int64 `json:"updatedAt,omitempty"`
}

// ErrorPayload is the payload of error messages sent back to one client.
type ErrorPayload struct {
	Error string `json:"error"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Document sync
	TypeDocSync = "doc.sync"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

// Operation kinds accepted by DocumentState.Apply.
const (
	OpSectionMove       = "section.move"
	OpSectionSplit      = "section.split"
	OpSectionPoints     = "section.points"
	OpSectionRegenerate = "section.regenerate"
	OpSectionRemove     = "section.remove"
	OpSectionImport     = "section.import"
	OpSeatToggle        = "seat.toggle"
	OpSeatStatus        = "seat.status"
	OpStageUpdate       = "stage.update"
)

// Operation is one document mutation submitted by a client. Only the fields
// relevant to its Type are set.
type Operation struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`

	SectionID string `json:"sectionId,omitempty"`
	SeatID    string `json:"seatId,omitempty"`

	// section.move
	Dx float64 `json:"dx,omitempty"`
	Dy float64 `json:"dy,omitempty"`

	// section.split
	CutA *geo.Point `json:"cutA,omitempty"`
	CutB *geo.Point `json:"cutB,omitempty"`

	// section.points
	Points []geo.Point `json:"points,omitempty"`

	// seat.status
	Status string `json:"status,omitempty"`

	// stage.update
	Stage *geo.Rect `json:"stage,omitempty"`

	// section.import (detector output)
	Polygons [][]geo.Point `json:"polygons,omitempty"`
	Labels   []string      `json:"labels,omitempty"`
}

// OperationSubmitPayload is the payload for op.submit messages.
type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages.
type OperationAckPayload struct {
	OperationID     string  `json:"operationId"`
	ServerSeq       int64   `json:"serverSeq"`
	ServerTimestamp int64   `json:"serverTimestamp"`
	TotalPrice      float64 `json:"totalPrice"`
}

// OperationNackPayload is the payload for op.nack messages.
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages.
type OperationBroadcastPayload struct {
	Operation  Operation `json:"operation"`
	UserID     string    `json:"userId"`
	ServerSeq  int64     `json:"serverSeq"`
	TotalPrice float64   `json:"totalPrice"`
}
