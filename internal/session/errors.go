package session

import "errors"

var (
	// ErrInvalidRoom is returned when a room id is empty or unknown.
	ErrInvalidRoom = errors.New("session: invalid room")

	// ErrAlreadyConnected is returned by Host and Join on a live session.
	ErrAlreadyConnected = errors.New("session: already connected")

	// ErrJoinTimeout is returned when a join does not complete in time.
	ErrJoinTimeout = errors.New("session: join timed out")

	// ErrNoConnector is returned by Join when no transport is configured.
	ErrNoConnector = errors.New("session: no connector configured")

	// ErrClosed is returned by Broadcast on a session that is not hosting
	// or joined.
	ErrClosed = errors.New("session: closed")
)
