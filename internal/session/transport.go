package session

import "context"

// Channel is a live link from the session to one or more remote peers.
// Send must not block for long; transports queue internally.
type Channel interface {
	// ID identifies the channel. For direct peer links it is the peer id.
	ID() string

	// Send delivers one encoded frame to the remote side.
	Send(data []byte) error

	// Close tears the link down. Safe to call multiple times.
	Close() error
}

// DeliverFunc receives an inbound frame together with its sender id.
type DeliverFunc func(data []byte, senderID string)

// DialRequest describes the room a session wants to reach.
type DialRequest struct {
	Room   string
	PeerID string
	Host   bool // create the room instead of joining an existing one

	// OnLost is called once when the remote side drops the channel.
	// It is not called after a local Close.
	OnLost func(Channel)
}

// Connector opens channels for a session. Implementations call deliver
// from their own goroutines for every inbound frame.
type Connector interface {
	Dial(ctx context.Context, req DialRequest, deliver DeliverFunc) (Channel, error)
}
