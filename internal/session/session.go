// Package session manages a participant's membership in a match room:
// its identity, the authority flag, the roster of known peers and the
// channels used to fan messages out. Inbound frames are queued and only
// applied when the tick loop drains them.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-soccer/internal/core"
	"github.com/vovakirdan/tui-soccer/internal/entity"
	"github.com/vovakirdan/tui-soccer/internal/protocol"
)

// Unsubscribe removes a listener registered with one of the On methods.
type Unsubscribe = core.Unsubscribe

// Defaults for a new session.
const (
	DefaultName        = "You"
	DefaultJoinTimeout = 10 * time.Second
	DefaultInboxSize   = 256
	RoomIDLength       = 8
)

// Option configures a Session.
type Option func(*Session)

// WithName sets the initial display name.
func WithName(name string) Option {
	return func(s *Session) { s.SetName(name) }
}

// WithID overrides the generated participant id.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithCodec selects the wire codec.
func WithCodec(c protocol.Codec) Option {
	return func(s *Session) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithConnector sets the transport used by Host and Join.
func WithConnector(c Connector) Option {
	return func(s *Session) { s.connector = c }
}

// WithLogger sets the logger. Sessions are silent by default.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithJoinTimeout bounds how long Join waits for the transport.
func WithJoinTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.joinTimeout = d
		}
	}
}

// WithInboxSize sets how many inbound frames are buffered between drains.
func WithInboxSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.inboxSize = n
		}
	}
}

type inbound struct {
	data   []byte
	sender string
}

// Session is one participant's view of a room.
// Reads are safe from any goroutine; Drain must be called from the tick loop.
type Session struct {
	id          string
	codec       protocol.Codec
	connector   Connector
	logger      *log.Logger
	joinTimeout time.Duration
	inboxSize   int

	mu        sync.RWMutex
	name      string
	authority bool
	hostID    string // authority's id once known
	room      string
	active    bool
	channels  []Channel

	roster    *Roster
	inbox     chan inbound
	accepting atomic.Bool // inbound frames are queued only while set

	onJoin     core.Listeners[entity.Descriptor]
	onLeave    core.Listeners[string]
	onGoal     core.Listeners[entity.Team]
	onKick     core.Listeners[protocol.BallState]
	onSnapshot core.Listeners[protocol.Snapshot]
}

// New creates a session with a fresh participant id.
func New(opts ...Option) *Session {
	s := &Session{
		id:          uuid.NewString(),
		name:        DefaultName,
		codec:       protocol.JSONCodec{},
		logger:      log.New(io.Discard),
		joinTimeout: DefaultJoinTimeout,
		inboxSize:   DefaultInboxSize,
		roster:      NewRoster(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.inbox = make(chan inbound, s.inboxSize)
	return s
}

// NewRoomID returns a short random room identifier.
func NewRoomID() string {
	return uuid.NewString()[:RoomIDLength]
}

// Host creates a new room with this session as the authority and
// returns its id. The id must be shared with joiners out of band.
func (s *Session) Host(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return "", ErrAlreadyConnected
	}
	s.mu.Unlock()

	room := NewRoomID()

	if s.connector != nil {
		ch, err := s.connector.Dial(ctx, DialRequest{Room: room, PeerID: s.id, Host: true, OnLost: s.channelLost}, s.Deliver)
		if err != nil {
			return "", fmt.Errorf("session: host room %s: %w", room, err)
		}
		s.AddChannel(ch)
	}

	s.mu.Lock()
	s.room = room
	s.authority = true
	s.hostID = s.id
	s.active = true
	name := s.name
	s.mu.Unlock()
	s.accepting.Store(true)

	s.roster.Add(s.self(name))
	s.logger.Info("hosting room", "room", room, "peer", s.id)
	return room, nil
}

// Join connects to an existing room. It blocks for at most the join
// timeout and reports every failure as an error.
func (s *Session) Join(ctx context.Context, roomID string) error {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return ErrInvalidRoom
	}

	s.mu.RLock()
	active := s.active
	s.mu.RUnlock()
	if active {
		return ErrAlreadyConnected
	}
	if s.connector == nil {
		return ErrNoConnector
	}

	ch, err := s.dial(ctx, DialRequest{Room: roomID, PeerID: s.id, OnLost: s.channelLost})
	if err != nil {
		s.logger.Warn("join failed", "room", roomID, "err", err)
		return err
	}

	// The caller may have given up while the dial was finishing.
	s.mu.Lock()
	if err := ctx.Err(); err != nil || s.active {
		s.mu.Unlock()
		_ = ch.Close()
		if err == nil {
			err = ErrAlreadyConnected
		}
		s.logger.Warn("join abandoned", "room", roomID, "err", err)
		return err
	}
	s.channels = append(s.channels, ch)
	s.room = roomID
	s.authority = false
	s.active = true
	name := s.name
	s.mu.Unlock()
	s.accepting.Store(true)

	self := s.self(name)
	s.roster.Add(self)
	s.logger.Info("joined room", "room", roomID, "peer", s.id)

	if err := s.Broadcast(protocol.NewJoin(s.id, self)); err != nil {
		s.logger.Warn("announce failed", "err", err)
	}
	return nil
}

// dial runs the connector under the join timeout. A transport that
// ignores its context is abandoned once the deadline passes.
func (s *Session) dial(ctx context.Context, req DialRequest) (Channel, error) {
	ctx, cancel := context.WithTimeout(ctx, s.joinTimeout)
	defer cancel()

	type result struct {
		ch  Channel
		err error
	}
	done := make(chan result, 1)
	go func() {
		ch, err := s.connector.Dial(ctx, req, s.Deliver)
		done <- result{ch, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if errors.Is(r.err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %v", ErrJoinTimeout, r.err)
			}
			return nil, fmt.Errorf("session: join room %s: %w", req.Room, r.err)
		}
		return r.ch, nil
	case <-ctx.Done():
		go func() {
			// Close a channel that connects after we gave up.
			if r := <-done; r.ch != nil {
				_ = r.ch.Close()
			}
		}()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrJoinTimeout
		}
		return nil, ctx.Err()
	}
}

// JoinAsync runs Join in the background so the tick loop never blocks.
// The returned channel yields exactly one result.
func (s *Session) JoinAsync(ctx context.Context, roomID string) <-chan error {
	out := make(chan error, 1)
	go func() {
		out <- s.Join(ctx, roomID)
	}()
	return out
}

// Disconnect announces departure, closes every channel and resets the
// session. No broadcast starts after it returns. Safe to call on an idle
// session and safe to call twice.
func (s *Session) Disconnect() {
	s.accepting.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active && len(s.channels) > 0 {
		s.sendLocked(protocol.NewLeave(s.id, s.id))
	}
	for _, ch := range s.channels {
		if err := ch.Close(); err != nil {
			s.logger.Debug("close channel", "channel", ch.ID(), "err", err)
		}
	}
	if s.active {
		s.logger.Info("left room", "room", s.room)
	}

	s.channels = nil
	s.active = false
	s.authority = false
	s.hostID = ""
	s.room = ""
	s.roster.Clear()

	// Frames queued before the disconnect belong to the old room.
	s.flushInbox()
}

func (s *Session) flushInbox() {
	for {
		select {
		case <-s.inbox:
		default:
			return
		}
	}
}

// Broadcast encodes msg once and sends it on every channel. A failing
// channel is logged and skipped.
func (s *Session) Broadcast(msg protocol.Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.active {
		return ErrClosed
	}
	return s.sendLocked(msg)
}

func (s *Session) sendLocked(msg protocol.Message) error {
	if len(s.channels) == 0 {
		return nil
	}
	data, err := s.codec.Encode(msg)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", msg.Kind(), err)
	}
	for _, ch := range s.channels {
		if err := ch.Send(data); err != nil {
			s.logger.Warn("send failed", "channel", ch.ID(), "kind", msg.Kind(), "err", err)
		}
	}
	return nil
}

// Deliver queues an inbound frame. It never blocks and never takes the
// session lock: when the inbox is full the oldest frame is dropped.
// Frames arriving while the session is idle are ignored.
// Safe to call from any goroutine.
func (s *Session) Deliver(data []byte, senderID string) {
	if !s.accepting.Load() {
		return
	}
	item := inbound{data: data, sender: senderID}

	select {
	case s.inbox <- item:
		return
	default:
	}

	// Buffer full, drop oldest and retry
	select {
	case <-s.inbox:
		s.logger.Warn("inbox full, dropping oldest frame")
	default:
	}
	select {
	case s.inbox <- item:
	default:
	}
}

// Drain decodes every frame queued so far, updates the roster, notifies
// subscribers and hands each message to apply. Malformed frames are
// logged and discarded. Call it from the tick loop only.
func (s *Session) Drain(apply func(protocol.Message)) int {
	n := len(s.inbox)
	handled := 0

	for i := 0; i < n; i++ {
		var item inbound
		select {
		case item = <-s.inbox:
		default:
			return handled
		}

		msg, err := s.codec.Decode(item.data)
		if err != nil {
			s.logger.Warn("discarding malformed message", "sender", item.sender, "err", err)
			continue
		}
		if msg.Meta().SenderID == s.id {
			continue
		}

		hostLeft := s.handle(msg)
		if apply != nil {
			apply(msg)
		}
		handled++

		if hostLeft {
			s.logger.Warn("authority left the room", "room", s.RoomID())
			s.Disconnect()
			return handled
		}
	}
	return handled
}

// handle updates the roster and notifies subscribers. It reports whether
// msg was the authority leaving a room this session only joined.
func (s *Session) handle(msg protocol.Message) bool {
	switch m := msg.(type) {
	case protocol.Join:
		added := s.roster.Add(m.Player)
		s.logger.Debug("player joined", "id", m.Player.ID, "name", m.Player.Name, "new", added)
		s.onJoin.Emit(m.Player)
		if added && s.IsAuthority() {
			// Introduce the authority to the newcomer.
			if self, ok := s.roster.Get(s.id); ok {
				_ = s.Broadcast(protocol.NewJoin(s.id, self))
			}
		}
	case protocol.Leave:
		if s.roster.Remove(m.PlayerID) {
			s.logger.Debug("player left", "id", m.PlayerID)
		}
		s.onLeave.Emit(m.PlayerID)
		return !s.IsAuthority() && m.PlayerID == s.AuthorityID()
	case protocol.Goal:
		s.noteAuthority(m.SenderID)
		s.onGoal.Emit(m.Team)
	case protocol.Kick:
		s.onKick.Emit(m.Ball)
	case protocol.Snapshot:
		s.noteAuthority(m.SenderID)
		s.onSnapshot.Emit(m)
	}
	return false
}

// noteAuthority records the sender of goals and snapshots, which only
// the authority sends.
func (s *Session) noteAuthority(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active && !s.authority && s.hostID == "" && id != "" {
		s.hostID = id
	}
}

// AddChannel registers ch for broadcasts, replacing a channel with the
// same id.
func (s *Session) AddChannel(ch Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.channels {
		if c.ID() == ch.ID() {
			s.channels[i] = ch
			return
		}
	}
	s.channels = append(s.channels, ch)
}

// RemoveChannel forgets the channel with id. When the channel was a
// direct link to a peer, that peer leaves the roster too.
func (s *Session) RemoveChannel(id string) {
	s.mu.Lock()
	removed := false
	for i, c := range s.channels {
		if c.ID() == id {
			s.channels = append(s.channels[:i], s.channels[i+1:]...)
			removed = true
			break
		}
	}
	s.mu.Unlock()

	if removed && id != s.id && s.roster.Remove(id) {
		s.onLeave.Emit(id)
	}
}

// channelLost drops a channel the transport reported as gone. A session
// left without any link to its room goes idle and reports no peers.
func (s *Session) channelLost(ch Channel) {
	s.mu.Lock()
	found := false
	for i, c := range s.channels {
		if c == ch {
			s.channels = append(s.channels[:i], s.channels[i+1:]...)
			found = true
			break
		}
	}
	if !found || !s.active || len(s.channels) > 0 {
		s.mu.Unlock()
		return
	}
	s.accepting.Store(false)
	room := s.room
	s.active = false
	s.authority = false
	s.hostID = ""
	s.room = ""
	s.roster.Clear()
	s.flushInbox()
	s.mu.Unlock()

	// Listeners run on the tick loop, so none are notified from here.
	s.logger.Warn("lost connection to room", "room", room, "channel", ch.ID())
}

func (s *Session) self(name string) entity.Descriptor {
	return entity.Descriptor{ID: s.id, Team: entity.Team1, Number: 1, Name: name}
}

// PeerCount returns the number of remote participants in the room.
func (s *Session) PeerCount() int {
	s.mu.RLock()
	active := s.active
	s.mu.RUnlock()
	if !active {
		return 0
	}
	n := s.roster.Len()
	for _, d := range s.roster.List() {
		if d.ID == s.id {
			n--
			break
		}
	}
	return n
}

// ChannelCount returns the number of open transport channels.
func (s *Session) ChannelCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.channels)
}

// ConnectedPlayers returns the roster in arrival order.
func (s *Session) ConnectedPlayers() []entity.Descriptor {
	return s.roster.List()
}

// Roster exposes the live roster.
func (s *Session) Roster() *Roster {
	return s.roster
}

// LocalID returns this participant's id.
func (s *Session) LocalID() string {
	return s.id
}

// Name returns the display name.
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// SetName changes the display name used by later host and join calls.
// A blank name restores the default.
func (s *Session) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

// IsAuthority reports whether this session hosts the room.
func (s *Session) IsAuthority() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authority
}

// AuthorityID returns the authority's participant id. A guest learns it
// from the first goal or snapshot it receives; until then it is "".
func (s *Session) AuthorityID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hostID
}

// RoomID returns the current room, or "" when idle.
func (s *Session) RoomID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room
}

// Active reports whether the session is hosting or joined.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Codec returns the wire codec.
func (s *Session) Codec() protocol.Codec {
	return s.codec
}

// OnJoin subscribes to join messages.
func (s *Session) OnJoin(fn func(entity.Descriptor)) Unsubscribe { return s.onJoin.Add(fn) }

// OnLeave subscribes to departures.
func (s *Session) OnLeave(fn func(string)) Unsubscribe { return s.onLeave.Add(fn) }

// OnGoal subscribes to remote goals.
func (s *Session) OnGoal(fn func(entity.Team)) Unsubscribe { return s.onGoal.Add(fn) }

// OnKick subscribes to remote kicks.
func (s *Session) OnKick(fn func(protocol.BallState)) Unsubscribe { return s.onKick.Add(fn) }

// OnSnapshot subscribes to authority snapshots.
func (s *Session) OnSnapshot(fn func(protocol.Snapshot)) Unsubscribe { return s.onSnapshot.Add(fn) }
