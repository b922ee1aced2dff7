// Package entity defines the records shared by the simulation and the
// sync protocol: the ball, the agents, teams and the scoreboard.
package entity

import (
	"github.com/vovakirdan/tui-soccer/internal/core"
)

// BallID is the constant tag of the single ball.
const BallID = "ball"

// Default sizes and speeds in field units.
const (
	BallRadius  = 5.0
	AgentRadius = 15.0
	AgentSpeed  = 5.0
)

// Team identifies one side of the match.
type Team string

const (
	Team1 Team = "team1"
	Team2 Team = "team2"
)

// Valid reports whether t is one of the two known teams.
func (t Team) Valid() bool {
	return t == Team1 || t == Team2
}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == Team1 {
		return Team2
	}
	return Team1
}

// Mode selects the physics constant set.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeFast   Mode = "fast"
)

// ModeFor maps the fast flag onto a Mode.
func ModeFor(fast bool) Mode {
	if fast {
		return ModeFast
	}
	return ModeNormal
}

// Ball is the single physics-driven ball.
type Ball struct {
	Pos    core.Vec2
	Vel    core.Vec2
	Radius float64
}

// Speed returns the magnitude of the ball's velocity.
func (b Ball) Speed() float64 {
	return b.Vel.Len()
}

// Agent is a player on the field, either driven by local input or by AI.
// Vel is cosmetic; motion is applied as position deltas.
type Agent struct {
	ID         string
	Pos        core.Vec2
	Vel        core.Vec2
	Radius     float64
	Speed      float64
	Team       Team
	Number     int
	Controlled bool
	AI         bool
}

// Descriptor returns the roster view of the agent.
func (a Agent) Descriptor(name string) Descriptor {
	return Descriptor{
		ID:     a.ID,
		Team:   a.Team,
		Number: a.Number,
		Name:   name,
		X:      a.Pos.X,
		Y:      a.Pos.Y,
	}
}

// Descriptor is the display record of a participant, as carried on the wire.
type Descriptor struct {
	ID     string
	Team   Team
	Number int
	Name   string
	X, Y   float64
}

// Score is the per-team goal count.
type Score struct {
	Team1 int
	Team2 int
}

// Add credits one goal to team. Unknown teams are ignored.
func (s *Score) Add(team Team) {
	switch team {
	case Team1:
		s.Team1++
	case Team2:
		s.Team2++
	}
}

// For returns the goals of team.
func (s Score) For(team Team) int {
	switch team {
	case Team1:
		return s.Team1
	case Team2:
		return s.Team2
	}
	return 0
}
