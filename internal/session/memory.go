package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// MemoryHub is an in-process Connector. Each room fans frames out to
// every other member, tagged with the sender's peer id.
type MemoryHub struct {
	mu    sync.Mutex
	rooms map[string]map[string]DeliverFunc // room -> peer -> deliver
}

// NewMemoryHub creates an empty hub.
func NewMemoryHub() *MemoryHub {
	return &MemoryHub{
		rooms: make(map[string]map[string]DeliverFunc),
	}
}

// Dial creates the room when req.Host is set, otherwise joins an existing
// room.
func (h *MemoryHub) Dial(ctx context.Context, req DialRequest, deliver DeliverFunc) (Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if deliver == nil {
		return nil, errors.New("memory hub: nil deliver func")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	peers, ok := h.rooms[req.Room]
	switch {
	case req.Host && ok:
		return nil, fmt.Errorf("memory hub: room %s already exists", req.Room)
	case req.Host:
		peers = make(map[string]DeliverFunc)
		h.rooms[req.Room] = peers
	case !ok:
		return nil, fmt.Errorf("memory hub: room %s: %w", req.Room, ErrInvalidRoom)
	}

	peers[req.PeerID] = deliver
	return &memoryChannel{hub: h, room: req.Room, peer: req.PeerID}, nil
}

// Rooms returns the number of open rooms.
func (h *MemoryHub) Rooms() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}

// Members returns the number of peers in room.
func (h *MemoryHub) Members(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}

func (h *MemoryHub) fanOut(room, sender string, data []byte) error {
	h.mu.Lock()
	peers, ok := h.rooms[room]
	if !ok {
		h.mu.Unlock()
		return fmt.Errorf("memory hub: room %s closed", room)
	}
	targets := make([]DeliverFunc, 0, len(peers))
	for id, deliver := range peers {
		if id != sender {
			targets = append(targets, deliver)
		}
	}
	h.mu.Unlock()

	for _, deliver := range targets {
		// Receivers must not share the sender's buffer.
		frame := make([]byte, len(data))
		copy(frame, data)
		deliver(frame, sender)
	}
	return nil
}

func (h *MemoryHub) leave(room, peer string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	peers, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(peers, peer)
	if len(peers) == 0 {
		delete(h.rooms, room)
	}
}

type memoryChannel struct {
	hub    *MemoryHub
	room   string
	peer   string
	closed sync.Once
}

func (c *memoryChannel) ID() string {
	return "memory:" + c.room
}

func (c *memoryChannel) Send(data []byte) error {
	return c.hub.fanOut(c.room, c.peer, data)
}

func (c *memoryChannel) Close() error {
	c.closed.Do(func() {
		c.hub.leave(c.room, c.peer)
	})
	return nil
}
