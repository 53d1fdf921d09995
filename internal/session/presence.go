package session

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// PresenceManager tracks which designers are in a room, where their cursor
// is and which sections they have selected. Every update is stamped with a
// server timestamp so clients can fade idle cursors.
type PresenceManager struct {
	mu      sync.RWMutex
	entries map[string]*PresencePayload // userID -> stamped presence
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		entries: make(map[string]*PresencePayload),
	}
}

// Update stores the user's presence, stamps it and returns the stamped
// value for broadcasting.
func (pm *PresenceManager) Update(userID string, p *PresencePayload) *PresencePayload {
	p.UpdatedAt = time.Now().UnixMilli()

	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.entries[userID] = p
	return p
}

func (pm *PresenceManager) Remove(userID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.entries, userID)
}

// Snapshot copies the current presence map.
func (pm *PresenceManager) Snapshot() map[string]*PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	result := make(map[string]*PresencePayload, len(pm.entries))
	for userID, p := range pm.entries {
		result[userID] = p
	}
	return result
}

// IdleSince returns users whose last presence update is older than the
// cutoff. Users who joined but never moved their cursor have no entry and
// do not appear.
func (pm *PresenceManager) IdleSince(cutoff time.Time) []string {
	threshold := cutoff.UnixMilli()

	pm.mu.RLock()
	defer pm.mu.RUnlock()

	var idle []string
	for userID, p := range pm.entries {
		if p.UpdatedAt < threshold {
			idle = append(idle, userID)
		}
	}
	return idle
}

// StateMessage builds the full-room presence message sent to a joining
// client.
func (pm *PresenceManager) StateMessage() *Message {
	payload, err := json.Marshal(PresenceStatePayload{Presences: pm.Snapshot()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:    TypePresenceState,
		Payload: payload,
	}
}
