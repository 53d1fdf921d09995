package session

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/seatforge/seatforge/internal/engine"
)

// DocumentLoader fetches the latest persisted layout for a venue.
// DocumentSaver writes a new snapshot.
type (
	DocumentLoader func(venueID string) ([]byte, error)
	DocumentSaver  func(venueID string, doc []byte) error
)

// Room is one venue's live editing session: its clients, their presence and
// the authoritative document state.
type Room struct {
	venueID  string
	clients  map[string]*Client // clientID -> client
	presence *PresenceManager
	state    *DocumentState
}

func newRoom(venueID string, state *DocumentState) *Room {
	return &Room{
		venueID:  venueID,
		clients:  make(map[string]*Client),
		presence: NewPresenceManager(),
		state:    state,
	}
}

// Hub routes clients into per-venue rooms and periodically persists dirty
// documents through the saver.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // venueID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	loader       DocumentLoader
	saver        DocumentSaver
	saveInterval time.Duration
}

func NewHub(loader DocumentLoader, saver DocumentSaver, saveInterval time.Duration) *Hub {
	if saveInterval <= 0 {
		saveInterval = 30 * time.Second
	}
	return &Hub{
		rooms:        make(map[string]*Room),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		done:         make(chan struct{}),
		loader:       loader,
		saver:        saver,
		saveInterval: saveInterval,
	}
}

func (h *Hub) Run() {
	ticker := time.NewTicker(h.saveInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ticker.C:
			h.saveDirtyRooms()
			h.logIdleDesigners()
		case <-h.done:
			return
		}
	}
}

// Stop ends the run loop and saves every dirty room.
func (h *Hub) Stop() {
	close(h.done)
	h.saveDirtyRooms()
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.VenueID]
	if !ok {
		room = newRoom(client.VenueID, h.loadState(client.VenueID))
		h.rooms[client.VenueID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	// Sync the full document to the new client first, then presence.
	if doc, err := room.state.Export(); err == nil {
		client.Send(&Message{Type: TypeDocSync, VenueID: client.VenueID, Payload: doc})
	} else {
		slog.Error("export document for sync", "error", err, "venue", client.VenueID)
	}

	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	h.broadcastToRoom(client.VenueID, &Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "venue", client.VenueID)
}

// loadState builds the room's document state from the persisted snapshot,
// falling back to an empty document when the load fails.
func (h *Hub) loadState(venueID string) *DocumentState {
	eng := engine.New()
	if h.loader != nil {
		if data, err := h.loader(venueID); err != nil {
			slog.Warn("load document, starting empty", "error", err, "venue", venueID)
		} else if err := eng.LoadDocument(data); err != nil {
			slog.Warn("parse document, starting empty", "error", err, "venue", venueID)
		}
	}
	return NewDocumentState(eng)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.VenueID]
	if !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.outbox)
	room.presence.Remove(client.UserID)

	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.VenueID)
	}
	h.mu.Unlock()

	if empty {
		h.saveRoom(room)
	}

	leavePayload, _ := json.Marshal(PresenceLeavePayload{UserID: client.UserID})
	h.broadcastToRoom(client.VenueID, &Message{
		Type:    TypePresenceLeave,
		UserID:  client.UserID,
		Payload: leavePayload,
	}, "")

	slog.Info("client left", "user", client.UserID, "venue", client.VenueID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeOpSubmit:
		h.handleOpSubmit(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		sender.SendError("invalid presence payload")
		return
	}

	presence.DisplayName = sender.DisplayName

	h.mu.RLock()
	room, ok := h.rooms[sender.VenueID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	stamped := room.presence.Update(sender.UserID, &presence)

	outPayload, _ := json.Marshal(stamped)
	h.broadcastToRoom(sender.VenueID, &Message{
		Type:    TypePresenceUpdate,
		UserID:  sender.UserID,
		Payload: outPayload,
	}, sender.ClientID)
}

func (h *Hub) handleOpSubmit(sender *Client, msg *Message) {
	var submit OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		sender.SendError("invalid operation payload")
		return
	}
	op := submit.Operation

	h.mu.RLock()
	room, ok := h.rooms[sender.VenueID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	serverSeq, total, err := room.state.Apply(op)
	if err != nil {
		nackPayload, _ := json.Marshal(OperationNackPayload{
			OperationID: op.ID,
			Reason:      err.Error(),
		})
		sender.Send(&Message{Type: TypeOpNack, Payload: nackPayload})
		return
	}

	ackPayload, _ := json.Marshal(OperationAckPayload{
		OperationID:     op.ID,
		ServerSeq:       serverSeq,
		ServerTimestamp: GetServerTimestamp(),
		TotalPrice:      total,
	})
	sender.Send(&Message{Type: TypeOpAck, Payload: ackPayload})

	broadcastPayload, _ := json.Marshal(OperationBroadcastPayload{
		Operation:  op,
		UserID:     sender.UserID,
		ServerSeq:  serverSeq,
		TotalPrice: total,
	})
	h.broadcastToRoom(sender.VenueID, &Message{
		Type:    TypeOpBroadcast,
		UserID:  sender.UserID,
		Payload: broadcastPayload,
	}, sender.ClientID)
}

func (h *Hub) broadcastToRoom(venueID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[venueID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

// Cursors quiet for this long are reported on the save tick.
const idlePresenceAge = 2 * time.Minute

func (h *Hub) logIdleDesigners() {
	cutoff := time.Now().Add(-idlePresenceAge)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for venueID, room := range h.rooms {
		if idle := room.presence.IdleSince(cutoff); len(idle) > 0 {
			slog.Debug("idle designers", "venue", venueID, "users", idle)
		}
	}
}

func (h *Hub) saveDirtyRooms() {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.mu.RUnlock()

	for _, room := range rooms {
		h.saveRoom(room)
	}
}

func (h *Hub) saveRoom(room *Room) {
	if h.saver == nil || !room.state.Dirty() {
		return
	}

	doc, err := room.state.Export()
	if err != nil {
		slog.Error("export document for save", "error", err, "venue", room.venueID)
		return
	}
	if err := h.saver(room.venueID, doc); err != nil {
		slog.Error("save document", "error", err, "venue", room.venueID)
		return
	}
	room.state.MarkSaved()
	slog.Info("document saved", "venue", room.venueID)
}
