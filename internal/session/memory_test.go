package session

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryHubFanOut(t *testing.T) {
	hub := NewMemoryHub()
	got := map[string][]string{}
	deliverTo := func(peer string) DeliverFunc {
		return func(data []byte, sender string) {
			got[peer] = append(got[peer], sender+":"+string(data))
		}
	}

	a, err := hub.Dial(context.Background(), DialRequest{Room: "r1", PeerID: "a", Host: true}, deliverTo("a"))
	if err != nil {
		t.Fatalf("host dial: %v", err)
	}
	if _, err := hub.Dial(context.Background(), DialRequest{Room: "r1", PeerID: "b"}, deliverTo("b")); err != nil {
		t.Fatalf("join dial: %v", err)
	}
	if _, err := hub.Dial(context.Background(), DialRequest{Room: "r1", PeerID: "c"}, deliverTo("c")); err != nil {
		t.Fatalf("join dial: %v", err)
	}

	if err := a.Send([]byte("hi")); err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if len(got["a"]) != 0 {
		t.Errorf("sender received its own frame: %v", got["a"])
	}
	for _, peer := range []string{"b", "c"} {
		if len(got[peer]) != 1 || got[peer][0] != "a:hi" {
			t.Errorf("%s received %v, expected [a:hi]", peer, got[peer])
		}
	}
	if hub.Members("r1") != 3 {
		t.Errorf("Members() = %d, expected 3", hub.Members("r1"))
	}
}

func TestMemoryHubRooms(t *testing.T) {
	hub := NewMemoryHub()
	noop := func([]byte, string) {}

	if _, err := hub.Dial(context.Background(), DialRequest{Room: "x", PeerID: "b"}, noop); !errors.Is(err, ErrInvalidRoom) {
		t.Errorf("join missing room = %v, expected ErrInvalidRoom", err)
	}

	ch, err := hub.Dial(context.Background(), DialRequest{Room: "x", PeerID: "a", Host: true}, noop)
	if err != nil {
		t.Fatalf("host dial: %v", err)
	}
	if _, err := hub.Dial(context.Background(), DialRequest{Room: "x", PeerID: "z", Host: true}, noop); err == nil {
		t.Error("hosting an existing room should fail")
	}

	ch.Close()
	ch.Close()
	if hub.Rooms() != 0 {
		t.Errorf("empty room should be removed, %d left", hub.Rooms())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := hub.Dial(ctx, DialRequest{Room: "y", PeerID: "a", Host: true}, noop); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled dial = %v", err)
	}
}
