package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tui-soccer/internal/entity"
	"github.com/vovakirdan/tui-soccer/internal/protocol"
)

type fakeChannel struct {
	id string

	mu     sync.Mutex
	sent   [][]byte
	fail   bool
	closed bool
}

func (c *fakeChannel) ID() string { return c.id }

func (c *fakeChannel) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.sent = append(c.sent, data)
	return nil
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeChannel) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

// stallConnector never completes a dial and ignores the context.
type stallConnector struct {
	release chan struct{}
}

func (c stallConnector) Dial(ctx context.Context, req DialRequest, deliver DeliverFunc) (Channel, error) {
	<-c.release
	return &fakeChannel{id: "late"}, nil
}

// recordConnector hands out fake channels and keeps each dial request.
type recordConnector struct {
	mu       sync.Mutex
	requests []DialRequest
	channels []*fakeChannel
	onDial   func()
}

func (c *recordConnector) Dial(ctx context.Context, req DialRequest, deliver DeliverFunc) (Channel, error) {
	if c.onDial != nil {
		c.onDial()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := &fakeChannel{id: "fake:" + req.Room}
	c.requests = append(c.requests, req)
	c.channels = append(c.channels, ch)
	return ch, nil
}

func (c *recordConnector) last() (DialRequest, *fakeChannel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests[len(c.requests)-1], c.channels[len(c.channels)-1]
}

func encode(t *testing.T, msg protocol.Message) []byte {
	t.Helper()
	data, err := protocol.JSONCodec{}.Encode(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return data
}

func TestHostWithoutConnector(t *testing.T) {
	s := New(WithName("Ann"))

	room, err := s.Host(context.Background())
	if err != nil {
		t.Fatalf("Host() error: %v", err)
	}
	if len(room) != RoomIDLength {
		t.Errorf("room id %q should have %d characters", room, RoomIDLength)
	}
	if !s.IsAuthority() || s.RoomID() != room || !s.Active() {
		t.Error("host should be the active authority of its room")
	}

	players := s.ConnectedPlayers()
	if len(players) != 1 {
		t.Fatalf("expected roster with self, got %+v", players)
	}
	self := players[0]
	if self.ID != s.LocalID() || self.Name != "Ann" || self.Team != entity.Team1 || self.Number != 1 {
		t.Errorf("unexpected self entry %+v", self)
	}

	if s.PeerCount() != 0 {
		t.Errorf("PeerCount() = %d, expected 0", s.PeerCount())
	}
	if err := s.Broadcast(protocol.NewGoal(s.LocalID(), entity.Team1)); err != nil {
		t.Errorf("Broadcast with no channels should succeed, got %v", err)
	}

	if _, err := s.Host(context.Background()); !errors.Is(err, ErrAlreadyConnected) {
		t.Errorf("second Host() = %v, expected ErrAlreadyConnected", err)
	}
}

func TestJoinErrors(t *testing.T) {
	s := New()
	if err := s.Join(context.Background(), "  "); !errors.Is(err, ErrInvalidRoom) {
		t.Errorf("Join(blank) = %v, expected ErrInvalidRoom", err)
	}
	if err := s.Join(context.Background(), "abcd1234"); !errors.Is(err, ErrNoConnector) {
		t.Errorf("Join without connector = %v, expected ErrNoConnector", err)
	}

	hub := NewMemoryHub()
	j := New(WithConnector(hub))
	if err := j.Join(context.Background(), "missing"); !errors.Is(err, ErrInvalidRoom) {
		t.Errorf("Join(missing) = %v, expected ErrInvalidRoom", err)
	}
	if j.Active() || j.PeerCount() != 0 {
		t.Error("failed join should leave the session idle")
	}
}

func TestJoinTimeout(t *testing.T) {
	conn := stallConnector{release: make(chan struct{})}
	defer close(conn.release)

	s := New(WithConnector(conn), WithJoinTimeout(20*time.Millisecond))

	start := time.Now()
	err := s.Join(context.Background(), "room1234")
	if !errors.Is(err, ErrJoinTimeout) {
		t.Fatalf("Join() = %v, expected ErrJoinTimeout", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("Join() did not honor its timeout")
	}
	if s.Active() {
		t.Error("timed out session should stay idle")
	}
}

func TestJoinCancelledDuringDial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	conn := &recordConnector{onDial: cancel}

	s := New(WithConnector(conn))
	err := s.Join(ctx, "room1234")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Join() = %v, expected context.Canceled", err)
	}
	if s.Active() || s.ChannelCount() != 0 || s.RoomID() != "" {
		t.Error("cancelled join should leave the session idle")
	}

	_, ch := conn.last()
	deadline := time.Now().Add(time.Second)
	for !ch.isClosed() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !ch.isClosed() {
		t.Error("channel opened for a cancelled join should be closed")
	}
	if err := s.Broadcast(protocol.NewGoal(s.LocalID(), entity.Team1)); !errors.Is(err, ErrClosed) {
		t.Errorf("Broadcast after cancelled join = %v, expected ErrClosed", err)
	}
}

func TestChannelLost(t *testing.T) {
	tests := []struct {
		name string
		open func(s *Session) error
	}{
		{
			name: "host",
			open: func(s *Session) error {
				_, err := s.Host(context.Background())
				return err
			},
		},
		{
			name: "guest",
			open: func(s *Session) error {
				return s.Join(context.Background(), "room1234")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &recordConnector{}
			s := New(WithConnector(conn))
			if err := tt.open(s); err != nil {
				t.Fatalf("open: %v", err)
			}
			s.Roster().Add(entity.Descriptor{ID: "p2", Team: entity.Team2, Number: 1})
			if s.PeerCount() != 1 || s.ChannelCount() != 1 {
				t.Fatalf("PeerCount() = %d ChannelCount() = %d, expected 1 and 1", s.PeerCount(), s.ChannelCount())
			}

			req, ch := conn.last()
			if req.OnLost == nil {
				t.Fatal("dial request carries no loss callback")
			}

			// A channel the session never owned is ignored.
			req.OnLost(&fakeChannel{id: ch.id})
			if !s.Active() || s.ChannelCount() != 1 {
				t.Fatal("unknown channel loss should not affect the session")
			}

			req.OnLost(ch)
			if s.Active() || s.IsAuthority() || s.RoomID() != "" {
				t.Error("session should go idle once its only channel is lost")
			}
			if s.PeerCount() != 0 || s.ChannelCount() != 0 || len(s.ConnectedPlayers()) != 0 {
				t.Errorf("PeerCount() = %d ChannelCount() = %d roster = %v, expected all empty",
					s.PeerCount(), s.ChannelCount(), s.ConnectedPlayers())
			}
			if err := s.Broadcast(protocol.NewGoal(s.LocalID(), entity.Team1)); !errors.Is(err, ErrClosed) {
				t.Errorf("Broadcast after loss = %v, expected ErrClosed", err)
			}
			s.Deliver(encode(t, protocol.NewGoal("p2", entity.Team2)), "p2")
			if n := s.Drain(nil); n != 0 {
				t.Errorf("lost session drained %d messages", n)
			}

			// The session can open a room again.
			if err := tt.open(s); err != nil {
				t.Errorf("reopen after loss: %v", err)
			}
		})
	}
}

func TestLeaveOfAuthority(t *testing.T) {
	tests := []struct {
		name       string
		introduce  protocol.Message // tells the guest who the authority is
		leaver     string
		wantActive bool
	}{
		{"authority after snapshot", protocol.Snapshot{Header: protocol.NewHeader("h"), Players: []entity.Descriptor{}}, "h", false},
		{"authority after goal", protocol.NewGoal("h", entity.Team1), "h", false},
		{"other guest", protocol.NewGoal("h", entity.Team1), "p3", true},
		{"authority not yet known", nil, "h", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(WithConnector(&recordConnector{}), WithID("g"))
			if err := s.Join(context.Background(), "room1234"); err != nil {
				t.Fatalf("Join() error: %v", err)
			}
			if tt.introduce != nil {
				s.Deliver(encode(t, tt.introduce), "h")
				s.Drain(nil)
				if s.AuthorityID() != "h" {
					t.Fatalf("AuthorityID() = %q, expected h", s.AuthorityID())
				}
			}

			var left []string
			s.OnLeave(func(id string) { left = append(left, id) })
			s.Deliver(encode(t, protocol.NewLeave(tt.leaver, tt.leaver)), tt.leaver)
			s.Deliver(encode(t, protocol.NewGoal("h", entity.Team2)), "h")

			n := 0
			s.Drain(func(protocol.Message) { n++ })
			if len(left) != 1 || left[0] != tt.leaver {
				t.Errorf("leave notifications = %v", left)
			}
			if s.Active() != tt.wantActive {
				t.Errorf("Active() = %v, expected %v", s.Active(), tt.wantActive)
			}
			if !tt.wantActive && (n != 1 || s.AuthorityID() != "" || s.RoomID() != "") {
				t.Errorf("applied %d messages, authority %q, room %q after the authority left",
					n, s.AuthorityID(), s.RoomID())
			}
		})
	}
}

func TestHostIsOwnAuthority(t *testing.T) {
	s := New(WithID("h"))
	if _, err := s.Host(context.Background()); err != nil {
		t.Fatalf("Host() error: %v", err)
	}
	if s.AuthorityID() != "h" {
		t.Errorf("AuthorityID() = %q, expected h", s.AuthorityID())
	}

	// A stray leave naming the host's id never closes the host's room.
	s.Deliver(encode(t, protocol.NewLeave("x", "h")), "x")
	s.Drain(nil)
	if !s.Active() {
		t.Error("host should stay active")
	}
}

func TestJoinAsync(t *testing.T) {
	hub := NewMemoryHub()
	host := New(WithConnector(hub))
	room, err := host.Host(context.Background())
	if err != nil {
		t.Fatalf("Host() error: %v", err)
	}

	joiner := New(WithConnector(hub))
	select {
	case err := <-joiner.JoinAsync(context.Background(), room):
		if err != nil {
			t.Fatalf("JoinAsync() error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("JoinAsync() never completed")
	}
	if !joiner.Active() || joiner.IsAuthority() {
		t.Error("joiner should be active and not the authority")
	}
}

func TestHostJoinRoster(t *testing.T) {
	hub := NewMemoryHub()
	host := New(WithConnector(hub), WithName("Host"))
	joiner := New(WithConnector(hub), WithName("Guest"))

	room, err := host.Host(context.Background())
	if err != nil {
		t.Fatalf("Host() error: %v", err)
	}
	if err := joiner.Join(context.Background(), room); err != nil {
		t.Fatalf("Join() error: %v", err)
	}

	var joined []entity.Descriptor
	unsub := host.OnJoin(func(d entity.Descriptor) { joined = append(joined, d) })
	defer unsub()

	if n := host.Drain(nil); n != 1 {
		t.Errorf("host drained %d messages, expected 1", n)
	}
	if len(joined) != 1 || joined[0].ID != joiner.LocalID() || joined[0].Name != "Guest" {
		t.Errorf("unexpected join notifications %+v", joined)
	}
	if got := host.ConnectedPlayers(); len(got) != 2 {
		t.Errorf("host roster = %+v, expected 2 entries", got)
	}

	// The authority introduces itself back to the newcomer.
	joiner.Drain(nil)
	players := joiner.ConnectedPlayers()
	if len(players) != 2 || players[1].ID != host.LocalID() || players[1].Name != "Host" {
		t.Errorf("joiner roster = %+v", players)
	}
}

func TestJoinIdempotent(t *testing.T) {
	s := New()
	if _, err := s.Host(context.Background()); err != nil {
		t.Fatalf("Host() error: %v", err)
	}

	frame := encode(t, protocol.NewJoin("p2", entity.Descriptor{ID: "p2", Team: entity.Team2, Number: 1}))
	s.Deliver(frame, "p2")
	s.Deliver(frame, "p2")
	s.Drain(nil)

	count := 0
	for _, p := range s.ConnectedPlayers() {
		if p.ID == "p2" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("p2 appears %d times, expected 1", count)
	}

	s.Deliver(encode(t, protocol.NewLeave("p2", "p2")), "p2")
	s.Drain(nil)
	if _, ok := s.Roster().Get("p2"); ok {
		t.Error("leave should remove p2 from the roster")
	}
}

func TestDrainSkipsMalformed(t *testing.T) {
	s := New()
	if _, err := s.Host(context.Background()); err != nil {
		t.Fatalf("Host() error: %v", err)
	}

	s.Deliver([]byte("{garbage"), "p9")
	s.Deliver([]byte(`{"type":"chat","data":{},"senderId":"p9","timestamp":1}`), "p9")
	s.Deliver(encode(t, protocol.NewKick("p9", entity.Ball{})), "p9")

	var got []protocol.Message
	n := s.Drain(func(m protocol.Message) { got = append(got, m) })

	if n != 1 || len(got) != 1 || got[0].Kind() != protocol.KindKick {
		t.Errorf("Drain applied %d messages %+v, expected one kick", n, got)
	}
}

func TestDrainIgnoresOwnEcho(t *testing.T) {
	s := New(WithID("me"))
	if _, err := s.Host(context.Background()); err != nil {
		t.Fatalf("Host() error: %v", err)
	}

	s.Deliver(encode(t, protocol.NewGoal("me", entity.Team1)), "me")
	if n := s.Drain(func(protocol.Message) { t.Error("own message applied") }); n != 0 {
		t.Errorf("Drain() = %d, expected 0", n)
	}
}

func TestDeliverDropsOldest(t *testing.T) {
	s := New(WithInboxSize(2))
	if _, err := s.Host(context.Background()); err != nil {
		t.Fatalf("Host() error: %v", err)
	}

	for _, id := range []string{"a", "b", "c"} {
		s.Deliver(encode(t, protocol.NewLeave(id, id)), id)
	}

	var senders []string
	s.Drain(func(m protocol.Message) { senders = append(senders, m.Meta().SenderID) })
	if len(senders) != 2 || senders[0] != "b" || senders[1] != "c" {
		t.Errorf("drained senders %v, expected [b c]", senders)
	}
}

func TestDeliverWhileIdle(t *testing.T) {
	s := New()
	s.Deliver(encode(t, protocol.NewLeave("a", "a")), "a")
	if n := s.Drain(nil); n != 0 {
		t.Errorf("idle session drained %d messages", n)
	}
}

func TestBroadcastSkipsFailingChannel(t *testing.T) {
	s := New()
	if _, err := s.Host(context.Background()); err != nil {
		t.Fatalf("Host() error: %v", err)
	}

	bad := &fakeChannel{id: "bad", fail: true}
	good1 := &fakeChannel{id: "good1"}
	good2 := &fakeChannel{id: "good2"}
	s.AddChannel(good1)
	s.AddChannel(bad)
	s.AddChannel(good2)

	if err := s.Broadcast(protocol.NewGoal(s.LocalID(), entity.Team2)); err != nil {
		t.Fatalf("Broadcast() error: %v", err)
	}
	if good1.count() != 1 || good2.count() != 1 {
		t.Errorf("healthy channels got %d and %d frames, expected 1 each", good1.count(), good2.count())
	}
	if s.ChannelCount() != 3 {
		t.Errorf("ChannelCount() = %d, expected 3", s.ChannelCount())
	}
	if s.PeerCount() != 0 {
		t.Errorf("PeerCount() = %d, expected 0 with nobody in the roster", s.PeerCount())
	}
}

func TestDisconnect(t *testing.T) {
	s := New()

	// Idle disconnect is a no-op.
	s.Disconnect()

	if _, err := s.Host(context.Background()); err != nil {
		t.Fatalf("Host() error: %v", err)
	}
	ch := &fakeChannel{id: "peer"}
	s.AddChannel(ch)

	s.Disconnect()
	s.Disconnect()

	if ch.count() != 1 {
		t.Errorf("expected a leave frame before closing, got %d frames", ch.count())
	}
	msg, err := protocol.JSONCodec{}.Decode(ch.sent[0])
	if err != nil || msg.Kind() != protocol.KindLeave {
		t.Errorf("first frame = %v (%v), expected leave", msg, err)
	}
	if !ch.closed {
		t.Error("channel should be closed")
	}
	if s.IsAuthority() || s.RoomID() != "" || s.PeerCount() != 0 || len(s.ConnectedPlayers()) != 0 {
		t.Error("session state should be reset")
	}
	if err := s.Broadcast(protocol.NewGoal(s.LocalID(), entity.Team1)); !errors.Is(err, ErrClosed) {
		t.Errorf("Broadcast after Disconnect = %v, expected ErrClosed", err)
	}

	// The session can host again.
	if _, err := s.Host(context.Background()); err != nil {
		t.Errorf("Host after Disconnect: %v", err)
	}
}

func TestRemoveChannelDropsPeer(t *testing.T) {
	s := New()
	if _, err := s.Host(context.Background()); err != nil {
		t.Fatalf("Host() error: %v", err)
	}
	s.Roster().Add(entity.Descriptor{ID: "p2"})
	s.AddChannel(&fakeChannel{id: "p2"})

	var left []string
	s.OnLeave(func(id string) { left = append(left, id) })

	s.RemoveChannel("p2")
	if s.PeerCount() != 0 {
		t.Errorf("PeerCount() = %d, expected 0", s.PeerCount())
	}
	if len(left) != 1 || left[0] != "p2" {
		t.Errorf("leave notifications = %v", left)
	}
}

func TestSubscriptions(t *testing.T) {
	s := New()
	if _, err := s.Host(context.Background()); err != nil {
		t.Fatalf("Host() error: %v", err)
	}

	var goals []entity.Team
	var kicks []protocol.BallState
	var snaps int
	unGoal := s.OnGoal(func(team entity.Team) { goals = append(goals, team) })
	s.OnKick(func(b protocol.BallState) { kicks = append(kicks, b) })
	s.OnSnapshot(func(protocol.Snapshot) { snaps++ })

	s.Deliver(encode(t, protocol.NewGoal("h", entity.Team2)), "h")
	s.Deliver(encode(t, protocol.Kick{Header: protocol.NewHeader("h"), Ball: protocol.BallState{VX: 7, VY: -3}}), "h")
	s.Deliver(encode(t, protocol.Snapshot{Header: protocol.NewHeader("h"), Players: []entity.Descriptor{{ID: "h"}}}), "h")
	s.Drain(nil)

	if len(goals) != 1 || goals[0] != entity.Team2 {
		t.Errorf("goals = %v", goals)
	}
	if len(kicks) != 1 || kicks[0].VX != 7 || kicks[0].VY != -3 {
		t.Errorf("kicks = %v", kicks)
	}
	if snaps != 1 {
		t.Errorf("snapshots = %d, expected 1", snaps)
	}

	unGoal()
	unGoal()
	s.Deliver(encode(t, protocol.NewGoal("h", entity.Team1)), "h")
	s.Drain(nil)
	if len(goals) != 1 {
		t.Errorf("unsubscribed listener still called: %v", goals)
	}
	if s.onGoal.Len() != 0 {
		t.Errorf("listener count = %d, expected 0", s.onGoal.Len())
	}
}

func TestSetName(t *testing.T) {
	s := New(WithName("  Zed "))
	if s.Name() != "Zed" {
		t.Errorf("Name() = %q, expected Zed", s.Name())
	}
	s.SetName("")
	if s.Name() != DefaultName {
		t.Errorf("Name() = %q, expected %q", s.Name(), DefaultName)
	}
}
