package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Relay is an http.Handler serving /rooms/{room}. A peer connects with
// ?peer=<id>&host=1 to open a room or ?peer=<id> to join one.
type Relay struct {
	cfg      RelayConfig
	logger   *log.Logger
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	mu    sync.Mutex
	rooms map[string]*room

	done      chan struct{}
	closeOnce sync.Once
}

type room struct {
	id         string
	peers      map[string]*peer
	emptySince time.Time
}

type peer struct {
	id   string
	room string
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func (p *peer) close() {
	p.closeOnce.Do(func() { close(p.done) })
}

// NewRelay creates a relay and starts its room expiry loop. Call Close to
// stop it.
func NewRelay(cfg RelayConfig) *Relay {
	cfg = cfg.withDefaults()
	r := &Relay{
		cfg:    cfg,
		logger: cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Terminal and browser peers connect from anywhere.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		mux:   http.NewServeMux(),
		rooms: make(map[string]*room),
		done:  make(chan struct{}),
	}
	r.mux.HandleFunc("GET /rooms/{room}", r.handleRoom)

	go r.expireLoop()
	return r
}

// ServeHTTP implements http.Handler.
func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Relay) handleRoom(w http.ResponseWriter, req *http.Request) {
	roomID := req.PathValue("room")
	peerID := req.URL.Query().Get("peer")
	host := req.URL.Query().Get("host") == "1"

	if roomID == "" {
		http.Error(w, "missing room", http.StatusBadRequest)
		return
	}
	if peerID == "" || len(peerID) > MaxPeerIDLength {
		http.Error(w, "invalid peer id", http.StatusBadRequest)
		return
	}

	// Register before upgrading so joiners get a plain HTTP status and a
	// host's room exists as soon as its handshake completes.
	p := &peer{
		id:   peerID,
		room: roomID,
		send: make(chan []byte, r.cfg.SendBuffer),
		done: make(chan struct{}),
	}
	if status, msg := r.register(p, host); status != 0 {
		http.Error(w, msg, status)
		return
	}

	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Warn("upgrade failed", "room", roomID, "peer", peerID, "err", err)
		r.unregister(p)
		p.close()
		return
	}
	p.conn = conn
	r.logger.Info("peer connected", "room", roomID, "peer", peerID, "host", host)

	go r.writePump(p)
	r.readPump(p)
}

// register adds p to its room, creating the room for hosts. It returns
// a non-zero HTTP status when p cannot enter.
func (r *Relay) register(p *peer, host bool) (int, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[p.room]
	switch {
	case host && ok:
		return http.StatusConflict, "room already exists"
	case !host && !ok:
		return http.StatusNotFound, "room not found"
	case host:
		rm = &room{id: p.room, peers: make(map[string]*peer)}
		r.rooms[p.room] = rm
	}
	if rm.peers[p.id] != nil {
		return http.StatusConflict, "peer already in room"
	}
	rm.peers[p.id] = p
	rm.emptySince = time.Time{}
	return 0, ""
}

func (r *Relay) unregister(p *peer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[p.room]
	if !ok || rm.peers[p.id] != p {
		return
	}
	delete(rm.peers, p.id)
	if len(rm.peers) == 0 {
		rm.emptySince = time.Now()
	}
}

func (r *Relay) readPump(p *peer) {
	defer func() {
		r.unregister(p)
		p.close()
		p.conn.Close()
		r.logger.Info("peer disconnected", "room", p.room, "peer", p.id)
	}()

	p.conn.SetReadLimit(r.cfg.MaxFrameSize)
	_ = p.conn.SetReadDeadline(time.Now().Add(r.cfg.ReadTimeout))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(r.cfg.ReadTimeout))
	})

	for {
		_, payload, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				r.logger.Warn("read failed", "room", p.room, "peer", p.id, "err", err)
			}
			return
		}
		_ = p.conn.SetReadDeadline(time.Now().Add(r.cfg.ReadTimeout))

		frame, err := EncodeFrame(p.id, payload)
		if err != nil {
			r.logger.Warn("cannot frame message", "peer", p.id, "err", err)
			continue
		}
		r.fanOut(p, frame)
	}
}

// fanOut queues frame for every other peer in the sender's room. A peer
// whose queue is full misses the frame.
func (r *Relay) fanOut(from *peer, frame []byte) {
	r.mu.Lock()
	rm, ok := r.rooms[from.room]
	var targets []*peer
	if ok {
		targets = make([]*peer, 0, len(rm.peers))
		for id, p := range rm.peers {
			if id != from.id {
				targets = append(targets, p)
			}
		}
	}
	r.mu.Unlock()

	for _, p := range targets {
		select {
		case p.send <- frame:
		case <-p.done:
		default:
			r.logger.Warn("peer queue full, dropping frame", "room", p.room, "peer", p.id)
		}
	}
}

func (r *Relay) writePump(p *peer) {
	ticker := time.NewTicker(r.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case frame := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(r.cfg.WriteTimeout))
			if err := p.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(r.cfg.WriteTimeout))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-p.done:
			_ = p.conn.SetWriteDeadline(time.Now().Add(r.cfg.WriteTimeout))
			_ = p.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (r *Relay) expireLoop() {
	interval := max(r.cfg.RoomTTL/2, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			if n := r.expire(now); n > 0 {
				r.logger.Debug("expired rooms", "count", n)
			}
		case <-r.done:
			return
		}
	}
}

// expire removes rooms that have been empty for longer than the TTL and
// returns how many were removed.
func (r *Relay) expire(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, rm := range r.rooms {
		if len(rm.peers) > 0 || rm.emptySince.IsZero() {
			continue
		}
		if now.Sub(rm.emptySince) >= r.cfg.RoomTTL {
			delete(r.rooms, id)
			n++
		}
	}
	return n
}

// Rooms returns the number of open rooms.
func (r *Relay) Rooms() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// Members returns the number of peers connected to room.
func (r *Relay) Members(roomID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rm, ok := r.rooms[roomID]; ok {
		return len(rm.peers)
	}
	return 0
}

// Close stops room expiry and disconnects every peer.
func (r *Relay) Close() error {
	r.closeOnce.Do(func() {
		close(r.done)

		r.mu.Lock()
		defer r.mu.Unlock()
		for _, rm := range r.rooms {
			for _, p := range rm.peers {
				p.close()
			}
		}
	})
	return nil
}
