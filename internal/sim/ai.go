package sim

import (
	"github.com/vovakirdan/tui-soccer/internal/core"
	"github.com/vovakirdan/tui-soccer/internal/entity"
)

// ownHalf reports whether the ball is in the half team defends.
// Team1 defends the left goal, team2 the right.
func ownHalf(team entity.Team, ball core.Vec2, f Field) bool {
	if team == entity.Team1 {
		return ball.X < f.Width/2
	}
	return ball.X > f.Width/2
}

// shouldChase decides between chasing the ball and returning home.
// The decision is recomputed every tick and never stored.
func shouldChase(a entity.Agent, ball core.Vec2, f Field) bool {
	if core.Dist(a.Pos, ball) < ChaseRadius {
		return true
	}
	return a.Number == 1 && ownHalf(a.Team, ball, f)
}

// steer moves one AI agent for a tick.
func steer(a entity.Agent, ball core.Vec2, f Field, p Physics, perTeam int) entity.Agent {
	speed := a.Speed * p.MoveMul * AISpeedFactor
	start := a.Pos

	if shouldChase(a, ball, f) {
		a.Pos = a.Pos.Add(core.Polar(core.Bearing(a.Pos, ball), speed))
	} else {
		home := f.Home(a.Team, a.Number, perTeam)
		if core.Dist(a.Pos, home) > HomeTolerance {
			a.Pos = a.Pos.Add(core.Polar(core.Bearing(a.Pos, home), speed*HomeSpeedScale))
		}
	}

	a.Pos.X = core.ClampF(a.Pos.X, a.Radius, f.Width-a.Radius)
	a.Pos.Y = core.ClampF(a.Pos.Y, a.Radius, f.Height-a.Radius)

	// Teams may contest the middle band but not the far side.
	if a.Team == entity.Team1 {
		a.Pos.X = min(a.Pos.X, f.Width/2+ForwardReach)
	} else {
		a.Pos.X = max(a.Pos.X, f.Width/2-ForwardReach)
	}

	a.Vel = a.Pos.Sub(start)
	return a
}

// move applies the active directions to the controlled agent.
// Each axis moves independently at full speed; diagonals are not normalized.
func move(a entity.Agent, dirs core.DirectionSet, f Field, p Physics) entity.Agent {
	speed := a.Speed * p.MoveMul
	start := a.Pos

	maxX := f.Width - a.Radius
	if a.Team == entity.Team1 {
		maxX = f.Width/2 + ForwardReach
	}

	if dirs.Has(core.DirUp) {
		a.Pos.Y = max(a.Radius, a.Pos.Y-speed)
	}
	if dirs.Has(core.DirDown) {
		a.Pos.Y = min(f.Height-a.Radius, a.Pos.Y+speed)
	}
	if dirs.Has(core.DirLeft) {
		a.Pos.X = max(a.Radius, a.Pos.X-speed)
	}
	if dirs.Has(core.DirRight) {
		a.Pos.X = min(maxX, a.Pos.X+speed)
	}

	a.Vel = a.Pos.Sub(start)
	return a
}
