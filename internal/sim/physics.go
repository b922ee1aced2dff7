package sim

import (
	"math"

	"github.com/vovakirdan/tui-soccer/internal/core"
	"github.com/vovakirdan/tui-soccer/internal/entity"
)

// integrate applies friction, advances the ball and bounces it off the
// top and bottom walls. Velocity is only reflected while it points out
// of the field.
func integrate(b entity.Ball, f Field, p Physics) entity.Ball {
	b.Vel = b.Vel.Scale(p.Friction)
	b.Pos = b.Pos.Add(b.Vel.Scale(p.BallStep))

	switch {
	case b.Pos.Y <= b.Radius:
		if b.Vel.Y < 0 {
			b.Vel.Y *= p.Restitution
		}
		b.Pos.Y = b.Radius
	case b.Pos.Y >= f.Height-b.Radius:
		if b.Vel.Y > 0 {
			b.Vel.Y *= p.Restitution
		}
		b.Pos.Y = f.Height - b.Radius
	}
	return b
}

// overlaps reports whether the agent touches the ball.
func overlaps(b entity.Ball, a entity.Agent) bool {
	return core.Dist(a.Pos, b.Pos) < a.Radius+b.Radius
}

// kick resolves a ball-agent overlap. The ball leaves along the
// agent-to-ball bearing at its current speed plus the kick boost, and is
// pushed out by the penetration depth.
func kick(b entity.Ball, a entity.Agent, p Physics) entity.Ball {
	dist := core.Dist(a.Pos, b.Pos)
	angle := core.Bearing(a.Pos, b.Pos)
	speed := b.Vel.Len()

	b.Vel = core.Polar(angle, speed+p.KickBoost)

	overlap := a.Radius + b.Radius - dist
	b.Pos = b.Pos.Add(core.Polar(angle, overlap))
	return b
}

// sideBounce keeps the ball between the goal lines outside the goal mouth.
func sideBounce(b entity.Ball, f Field, p Physics) entity.Ball {
	if f.InGoalMouth(b.Pos.Y) {
		return b
	}
	switch {
	case b.Pos.X <= GoalLine:
		if b.Vel.X < 0 {
			b.Vel.X *= p.Restitution
		}
		b.Pos.X = GoalLine
	case b.Pos.X >= f.Width-GoalLine:
		if b.Vel.X > 0 {
			b.Vel.X *= p.Restitution
		}
		b.Pos.X = f.Width - GoalLine
	}
	return b
}

// goalFor returns the team credited when the ball crosses a goal line
// inside the mouth, or "" when no goal was scored.
func goalFor(b entity.Ball, f Field) entity.Team {
	if !f.InGoalMouth(b.Pos.Y) {
		return ""
	}
	switch {
	case b.Pos.X <= GoalLine:
		return entity.Team2
	case b.Pos.X >= f.Width-GoalLine:
		return entity.Team1
	}
	return ""
}

// launch sends the ball from pos in a uniformly random direction in
// [0, 2π) at speed.
func launch(b entity.Ball, pos core.Vec2, speed float64, rnd func() float64) entity.Ball {
	b.Pos = pos
	b.Vel = core.Polar(rnd()*2*math.Pi, speed)
	return b
}
