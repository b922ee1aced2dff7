package ws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-soccer/internal/session"
)

// Connector dials a Relay and implements session.Connector.
type Connector struct {
	base   *url.URL
	dialer *websocket.Dialer
	logger *log.Logger

	readTimeout  time.Duration
	writeTimeout time.Duration
}

var _ session.Connector = (*Connector)(nil)

// NewConnector creates a connector for the relay at baseURL. Both http(s)
// and ws(s) schemes are accepted.
func NewConnector(baseURL string, logger *log.Logger) (*Connector, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("ws: parse relay url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("ws: unsupported relay scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("ws: relay url %q has no host", baseURL)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Connector{
		base: u,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
		logger:       logger,
		readTimeout:  DefaultReadTimeout,
		writeTimeout: DefaultWriteTimeout,
	}, nil
}

// RoomURL returns the WebSocket URL for req.
func (c *Connector) RoomURL(req session.DialRequest) string {
	u := *c.base
	u.Path = u.Path + "/rooms/" + url.PathEscape(req.Room)
	q := url.Values{}
	q.Set("peer", req.PeerID)
	if req.Host {
		q.Set("host", "1")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Dial connects to the room and starts the read loop. An unknown room
// reports session.ErrInvalidRoom.
func (c *Connector) Dial(ctx context.Context, req session.DialRequest, deliver session.DeliverFunc) (session.Channel, error) {
	if deliver == nil {
		return nil, errors.New("ws: nil deliver func")
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.RoomURL(req), nil)
	if err != nil {
		if resp != nil {
			switch resp.StatusCode {
			case http.StatusNotFound:
				return nil, fmt.Errorf("ws: room %s: %w", req.Room, session.ErrInvalidRoom)
			case http.StatusConflict:
				return nil, fmt.Errorf("ws: room %s: conflict: %w", req.Room, err)
			}
		}
		return nil, fmt.Errorf("ws: dial room %s: %w", req.Room, err)
	}

	ch := &channel{
		id:           "ws:" + req.Room,
		conn:         conn,
		logger:       c.logger.With("room", req.Room),
		writeTimeout: c.writeTimeout,
		done:         make(chan struct{}),
	}

	conn.SetReadLimit(DefaultMaxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	conn.SetPingHandler(func(data string) error {
		_ = conn.SetReadDeadline(time.Now().Add(c.readTimeout))
		err := conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(c.writeTimeout))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	go ch.readLoop(deliver, req.OnLost)
	return ch, nil
}

// channel is one peer's connection to a relay room.
type channel struct {
	id           string
	conn         *websocket.Conn
	logger       *log.Logger
	writeTimeout time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

func (ch *channel) ID() string { return ch.id }

// Send writes one frame. gorilla connections allow a single writer.
func (ch *channel) Send(data []byte) error {
	select {
	case <-ch.done:
		return net.ErrClosed
	default:
	}

	ch.writeMu.Lock()
	defer ch.writeMu.Unlock()
	_ = ch.conn.SetWriteDeadline(time.Now().Add(ch.writeTimeout))
	return ch.conn.WriteMessage(websocket.BinaryMessage, data)
}

// Close sends a close frame and drops the connection. It does not wait
// for the read loop.
func (ch *channel) Close() error {
	var err error
	ch.closeOnce.Do(func() {
		close(ch.done)
		_ = ch.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(ch.writeTimeout))
		err = ch.conn.Close()
	})
	return err
}

func (ch *channel) readLoop(deliver session.DeliverFunc, onLost func(session.Channel)) {
	for {
		_, data, err := ch.conn.ReadMessage()
		if err != nil {
			select {
			case <-ch.done:
				return
			default:
			}
			ch.logger.Warn("relay connection lost", "err", err)
			_ = ch.Close()
			if onLost != nil {
				onLost(ch)
			}
			return
		}

		sender, payload, err := DecodeFrame(data)
		if err != nil {
			ch.logger.Warn("discarding bad relay frame", "err", err)
			continue
		}
		deliver(payload, sender)
	}
}
