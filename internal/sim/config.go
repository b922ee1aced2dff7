package sim

import (
	"github.com/vovakirdan/tui-soccer/internal/entity"
)

// Field geometry in field units.
const (
	DefaultWidth  = 800
	DefaultHeight = 500

	GoalLine       = 25.0  // distance of the goal line from each side edge
	GoalMouthHalf  = 60.0  // half the height of a goal mouth
	ChaseRadius    = 150.0 // AI chases the ball inside this distance
	ForwardReach   = 50.0  // how far past midfield a team may push
	HomeTolerance  = 5.0   // AI stops returning home inside this distance
	AISpeedFactor  = 0.6   // AI moves slower than human input
	HomeSpeedScale = 0.5   // returning home is half the chase speed
)

// Defaults for the match clock.
const (
	DefaultTickRate       = 60
	DefaultPlayersPerTeam = 1
	MaxPlayersPerTeam     = 3
	DefaultLocalID        = "local-player"
)

// Physics is the constant set selected by the match mode.
type Physics struct {
	MoveMul     float64 // multiplier on agent speed
	Friction    float64 // per-tick ball velocity factor
	BallStep    float64 // ball position advance per unit of velocity
	Restitution float64 // wall bounce factor (negative)
	KickBoost   float64 // speed added by every kick
	KickoffSpd  float64 // ball speed after a reset or opening kickoff
}

var (
	normalPhysics = Physics{
		MoveMul:     1.0,
		Friction:    0.98,
		BallStep:    1.0,
		Restitution: -0.8,
		KickBoost:   5,
		KickoffSpd:  3,
	}
	fastPhysics = Physics{
		MoveMul:     1.2,
		Friction:    0.99,
		BallStep:    1.5,
		Restitution: -0.9,
		KickBoost:   8,
		KickoffSpd:  4,
	}
)

// PhysicsFor returns the constant set for mode. Unknown modes play normal.
func PhysicsFor(mode entity.Mode) Physics {
	if mode == entity.ModeFast {
		return fastPhysics
	}
	return normalPhysics
}

// Field describes the playfield dimensions.
type Field struct {
	Width  float64
	Height float64
}

// Center returns the kickoff spot.
func (f Field) Center() (float64, float64) {
	return f.Width / 2, f.Height / 2
}

// InGoalMouth reports whether y lies within the goal mouth (inclusive).
func (f Field) InGoalMouth(y float64) bool {
	return y >= f.Height/2-GoalMouthHalf && y <= f.Height/2+GoalMouthHalf
}

// Config holds match-setup parameters for an Engine.
type Config struct {
	Width          float64
	Height         float64
	PlayersPerTeam int
	Mode           entity.Mode
	LocalID        string // id of the locally controlled agent
	TickRate       int    // ticks per simulated second
	KickoffDelay   int    // ticks before a stationary ball is launched; 0 disables
}

// DefaultConfig returns an 800x500 one-a-side normal match.
func DefaultConfig() Config {
	return Config{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		PlayersPerTeam: DefaultPlayersPerTeam,
		Mode:           entity.ModeNormal,
		LocalID:        DefaultLocalID,
		TickRate:       DefaultTickRate,
		KickoffDelay:   DefaultTickRate,
	}
}

// normalize fills zero values and clamps out-of-range ones.
func (c Config) normalize() Config {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.PlayersPerTeam < 1 {
		c.PlayersPerTeam = 1
	}
	if c.PlayersPerTeam > MaxPlayersPerTeam {
		c.PlayersPerTeam = MaxPlayersPerTeam
	}
	if c.Mode != entity.ModeFast {
		c.Mode = entity.ModeNormal
	}
	if c.LocalID == "" {
		c.LocalID = DefaultLocalID
	}
	if c.TickRate <= 0 {
		c.TickRate = DefaultTickRate
	}
	if c.KickoffDelay < 0 {
		c.KickoffDelay = 0
	}
	return c
}
