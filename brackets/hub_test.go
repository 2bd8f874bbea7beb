package brackets

import (
	"encoding/json"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubPublishesToTournamentRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	inRoom := NewClient(hub, nil, TournamentRoom(7))
	elsewhere := NewClient(hub, nil, TournamentRoom(8))
	hub.Register <- inRoom
	hub.Register <- elsewhere
	waitFor(t, func() bool { return hub.RoomSize(TournamentRoom(7)) == 1 && hub.RoomSize(TournamentRoom(8)) == 1 })

	hub.Publish(7, MessageMatchUpdated, map[string]int{"match_id": 3})

	select {
	case raw := <-inRoom.Send:
		var msg struct {
			Type    string         `json:"type"`
			Payload map[string]int `json:"payload"`
			RoomID  string         `json:"room_id"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if msg.Type != MessageMatchUpdated || msg.Payload["match_id"] != 3 || msg.RoomID != "tournament_7" {
			t.Fatalf("unexpected message %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}

	select {
	case raw := <-elsewhere.Send:
		t.Fatalf("message leaked to another room: %s", raw)
	default:
	}

	hub.Unregister <- inRoom
	waitFor(t, func() bool { return hub.RoomSize(TournamentRoom(7)) == 0 })
	if _, ok := <-inRoom.Send; ok {
		t.Fatal("send channel should be closed after unregister")
	}
}
