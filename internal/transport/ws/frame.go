// Package ws relays session frames between peers over WebSocket. The
// relay is a dumb fan-out: it never decodes messages, it only tags every
// frame with the id of the peer that sent it.
package ws

import (
	"errors"
	"fmt"
)

// MaxPeerIDLength is the longest peer id the frame header can carry.
const MaxPeerIDLength = 255

var (
	// ErrShortFrame is returned for frames too small to hold their header.
	ErrShortFrame = errors.New("ws: short frame")

	// ErrPeerID is returned for empty or oversized peer ids.
	ErrPeerID = errors.New("ws: invalid peer id")
)

// EncodeFrame prefixes payload with the sender header:
// one length byte followed by the sender id.
func EncodeFrame(sender string, payload []byte) ([]byte, error) {
	if sender == "" || len(sender) > MaxPeerIDLength {
		return nil, fmt.Errorf("%w: %q", ErrPeerID, sender)
	}
	buf := make([]byte, 0, 1+len(sender)+len(payload))
	buf = append(buf, byte(len(sender)))
	buf = append(buf, sender...)
	buf = append(buf, payload...)
	return buf, nil
}

// DecodeFrame splits a relayed frame into sender and payload. The payload
// aliases data.
func DecodeFrame(data []byte) (string, []byte, error) {
	if len(data) < 1 {
		return "", nil, ErrShortFrame
	}
	n := int(data[0])
	if n == 0 {
		return "", nil, fmt.Errorf("%w: empty sender", ErrPeerID)
	}
	if len(data) < 1+n {
		return "", nil, fmt.Errorf("%w: header wants %d bytes, have %d", ErrShortFrame, n, len(data)-1)
	}
	return string(data[1 : 1+n]), data[1+n:], nil
}
