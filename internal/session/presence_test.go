package session

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPresenceUpdateStampsAndSnapshots(t *testing.T) {
	pm := NewPresenceManager()

	before := time.Now().UnixMilli()
	stamped := pm.Update("user_a", &PresencePayload{
		Cursor:      &CursorPos{X: 10, Y: 20},
		Selection:   []string{"sect_1"},
		DisplayName: "Ada",
	})
	if stamped.UpdatedAt < before {
		t.Fatalf("update not stamped: %d < %d", stamped.UpdatedAt, before)
	}

	snap := pm.Snapshot()
	if len(snap) != 1 || snap["user_a"].Cursor.X != 10 {
		t.Fatalf("snapshot %+v", snap)
	}

	pm.Remove("user_a")
	if len(pm.Snapshot()) != 0 {
		t.Fatal("presence survived removal")
	}
}

func TestPresenceIdleSince(t *testing.T) {
	pm := NewPresenceManager()
	pm.Update("user_a", &PresencePayload{DisplayName: "Ada"})

	if idle := pm.IdleSince(time.Now().Add(-time.Minute)); len(idle) != 0 {
		t.Fatalf("fresh presence reported idle: %v", idle)
	}
	idle := pm.IdleSince(time.Now().Add(time.Minute))
	if len(idle) != 1 || idle[0] != "user_a" {
		t.Fatalf("idle = %v, want [user_a]", idle)
	}
}

func TestPresenceStateMessage(t *testing.T) {
	pm := NewPresenceManager()
	pm.Update("user_a", &PresencePayload{DisplayName: "Ada"})

	msg := pm.StateMessage()
	if msg == nil || msg.Type != TypePresenceState {
		t.Fatalf("state message %+v", msg)
	}

	var state PresenceStatePayload
	if err := json.Unmarshal(msg.Payload, &state); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	p, ok := state.Presences["user_a"]
	if !ok || p.DisplayName != "Ada" || p.UpdatedAt == 0 {
		t.Fatalf("presence in state %+v", p)
	}
}
