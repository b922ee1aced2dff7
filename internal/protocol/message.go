// Package protocol defines the peer-sync messages and their wire codecs.
//
// Every message is one of five closed variants. Decoding is exhaustive:
// an unrecognized kind is an explicit error, never a silent default.
package protocol

import (
	"time"

	"github.com/vovakirdan/tui-soccer/internal/core"
	"github.com/vovakirdan/tui-soccer/internal/entity"
)

// Kind is the wire tag of a message.
type Kind string

const (
	KindSnapshot Kind = "game-state"
	KindKick     Kind = "kick-ball"
	KindGoal     Kind = "goal-scored"
	KindJoin     Kind = "player-join"
	KindLeave    Kind = "player-leave"
)

// Kinds lists every known message kind.
var Kinds = []Kind{KindSnapshot, KindKick, KindGoal, KindJoin, KindLeave}

// Known reports whether k is one of Kinds.
func (k Kind) Known() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Header carries the fields common to every message.
type Header struct {
	SenderID  string
	Timestamp int64 // unix milliseconds
}

// NewHeader stamps a header for sender with the current time.
func NewHeader(sender string) Header {
	return Header{SenderID: sender, Timestamp: time.Now().UnixMilli()}
}

// Message is a decoded peer-sync message. The set of implementations is
// closed: Snapshot, Kick, Goal, Join and Leave.
type Message interface {
	Kind() Kind
	Meta() Header
	message()
}

// BallState is the ball's position and velocity as carried on the wire.
type BallState struct {
	X, Y   float64
	VX, VY float64
}

// BallStateOf captures b.
func BallStateOf(b entity.Ball) BallState {
	return BallState{X: b.Pos.X, Y: b.Pos.Y, VX: b.Vel.X, VY: b.Vel.Y}
}

// Pos returns the position as a vector.
func (s BallState) Pos() core.Vec2 { return core.V(s.X, s.Y) }

// Vel returns the velocity as a vector.
func (s BallState) Vel() core.Vec2 { return core.V(s.VX, s.VY) }

// Ball converts the state back into an entity.
func (s BallState) Ball() entity.Ball {
	return entity.Ball{Pos: s.Pos(), Vel: s.Vel(), Radius: entity.BallRadius}
}

// Snapshot is the authority's periodic full state.
type Snapshot struct {
	Header
	Players []entity.Descriptor
	Ball    BallState
	Score   entity.Score
	Time    int64 // unix milliseconds when the state was captured
}

func (Snapshot) Kind() Kind     { return KindSnapshot }
func (m Snapshot) Meta() Header { return m.Header }
func (Snapshot) message()       {}

// Kick reports the ball right after the sender's controlled agent hit it.
type Kick struct {
	Header
	Ball BallState
}

func (Kick) Kind() Kind     { return KindKick }
func (m Kick) Meta() Header { return m.Header }
func (Kick) message()       {}

// Goal announces a goal. Only the authority sends it.
type Goal struct {
	Header
	Team entity.Team
}

func (Goal) Kind() Kind     { return KindGoal }
func (m Goal) Meta() Header { return m.Header }
func (Goal) message()       {}

// Join announces a participant.
type Join struct {
	Header
	Player entity.Descriptor
}

func (Join) Kind() Kind     { return KindJoin }
func (m Join) Meta() Header { return m.Header }
func (Join) message()       {}

// Leave announces that a participant left.
type Leave struct {
	Header
	PlayerID string
}

func (Leave) Kind() Kind     { return KindLeave }
func (m Leave) Meta() Header { return m.Header }
func (Leave) message()       {}
