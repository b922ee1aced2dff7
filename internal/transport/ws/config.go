package ws

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Relay defaults.
const (
	DefaultRoomTTL      = 5 * time.Minute
	DefaultPingInterval = 20 * time.Second
	DefaultReadTimeout  = 45 * time.Second // must exceed the ping interval
	DefaultWriteTimeout = 10 * time.Second
	DefaultMaxFrameSize = 64 << 10
	DefaultSendBuffer   = 256
)

// RelayConfig tunes the relay.
type RelayConfig struct {
	RoomTTL      time.Duration // how long an empty room survives
	PingInterval time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxFrameSize int64
	SendBuffer   int // per-peer outbound queue
	Logger       *log.Logger
}

// DefaultRelayConfig returns the defaults above with a discarding logger.
func DefaultRelayConfig() RelayConfig {
	return RelayConfig{
		RoomTTL:      DefaultRoomTTL,
		PingInterval: DefaultPingInterval,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		MaxFrameSize: DefaultMaxFrameSize,
		SendBuffer:   DefaultSendBuffer,
	}
}

func (c RelayConfig) withDefaults() RelayConfig {
	d := DefaultRelayConfig()
	if c.RoomTTL <= 0 {
		c.RoomTTL = d.RoomTTL
	}
	if c.PingInterval <= 0 {
		c.PingInterval = d.PingInterval
	}
	if c.ReadTimeout <= c.PingInterval {
		c.ReadTimeout = c.PingInterval * 9 / 4
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.MaxFrameSize <= 0 {
		c.MaxFrameSize = d.MaxFrameSize
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = d.SendBuffer
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	return c
}
