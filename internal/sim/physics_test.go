package sim

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-soccer/internal/core"
	"github.com/vovakirdan/tui-soccer/internal/entity"
)

var testField = Field{Width: 800, Height: 500}

func TestFrictionNeverAddsSpeed(t *testing.T) {
	starts := []core.Vec2{
		core.V(3, 0),
		core.V(-12, 7),
		core.V(0, -20),
		core.V(25, 25),
	}

	for _, mode := range []entity.Mode{entity.ModeNormal, entity.ModeFast} {
		p := PhysicsFor(mode)
		for _, v := range starts {
			b := entity.Ball{Pos: core.V(400, 250), Vel: v, Radius: entity.BallRadius}
			prev := b.Speed()
			for i := 0; i < 500; i++ {
				b = integrate(b, testField, p)
				b = sideBounce(b, testField, p)
				if b.Speed() > prev {
					t.Fatalf("%s start %v tick %d: speed rose from %f to %f", mode, v, i, prev, b.Speed())
				}
				prev = b.Speed()
			}
		}
	}
}

func TestKickAddsBoost(t *testing.T) {
	tests := []struct {
		name  string
		mode  entity.Mode
		vel   core.Vec2
		boost float64
	}{
		{"normal from rest", entity.ModeNormal, core.V(0, 0), 5},
		{"normal moving", entity.ModeNormal, core.V(-6, 8), 5},
		{"fast from rest", entity.ModeFast, core.V(0, 0), 8},
		{"fast moving", entity.ModeFast, core.V(30, -1), 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := entity.Agent{Pos: core.V(100, 100), Radius: entity.AgentRadius}
			b := entity.Ball{Pos: core.V(110, 104), Vel: tc.vel, Radius: entity.BallRadius}

			before := b.Speed()
			after := kick(b, a, PhysicsFor(tc.mode))

			if got := after.Speed() - before; math.Abs(got-tc.boost) > eps {
				t.Errorf("speed gain = %f, expected %f", got, tc.boost)
			}
			if d := core.Dist(a.Pos, after.Pos); math.Abs(d-20) > 1e-9 {
				t.Errorf("ball pushed to distance %f, expected 20", d)
			}
		})
	}
}

func TestKickDirection(t *testing.T) {
	a := entity.Agent{Pos: core.V(100, 100), Radius: entity.AgentRadius}
	b := entity.Ball{Pos: core.V(100, 90), Vel: core.V(10, 0), Radius: entity.BallRadius}

	after := kick(b, a, normalPhysics)

	// Ball above the agent leaves straight up.
	if math.Abs(after.Vel.X) > eps || math.Abs(after.Vel.Y+15) > eps {
		t.Errorf("velocity = %v, expected (0, -15)", after.Vel)
	}
}

func TestTopBottomBounce(t *testing.T) {
	tests := []struct {
		name  string
		ball  entity.Ball
		wantY float64
		wantV float64
	}{
		{
			name:  "top",
			ball:  entity.Ball{Pos: core.V(400, 6), Vel: core.V(0, -3), Radius: 5},
			wantY: 5,
			wantV: 3 * 0.98 * 0.8,
		},
		{
			name:  "bottom",
			ball:  entity.Ball{Pos: core.V(400, 494), Vel: core.V(0, 3), Radius: 5},
			wantY: 495,
			wantV: -3 * 0.98 * 0.8,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := integrate(tc.ball, testField, normalPhysics)
			if b.Pos.Y != tc.wantY {
				t.Errorf("y = %f, expected %f", b.Pos.Y, tc.wantY)
			}
			if math.Abs(b.Vel.Y-tc.wantV) > eps {
				t.Errorf("vy = %f, expected %f", b.Vel.Y, tc.wantV)
			}
		})
	}
}

func TestSideBounce(t *testing.T) {
	tests := []struct {
		name  string
		ball  entity.Ball
		wantX float64
		wantV float64
	}{
		{"left outside mouth", entity.Ball{Pos: core.V(10, 50), Vel: core.V(-5, 0)}, 25, 4},
		{"right outside mouth", entity.Ball{Pos: core.V(790, 450), Vel: core.V(5, 0)}, 775, -4},
		{"inside mouth untouched", entity.Ball{Pos: core.V(10, 250), Vel: core.V(-5, 0)}, 10, -5},
		{"in play untouched", entity.Ball{Pos: core.V(400, 50), Vel: core.V(-5, 0)}, 400, -5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := sideBounce(tc.ball, testField, normalPhysics)
			if b.Pos.X != tc.wantX {
				t.Errorf("x = %f, expected %f", b.Pos.X, tc.wantX)
			}
			if math.Abs(b.Vel.X-tc.wantV) > eps {
				t.Errorf("vx = %f, expected %f", b.Vel.X, tc.wantV)
			}
		})
	}
}

func TestGoalFor(t *testing.T) {
	tests := []struct {
		pos  core.Vec2
		want entity.Team
	}{
		{core.V(25, 250), entity.Team2},
		{core.V(20, 190), entity.Team2},
		{core.V(20, 310), entity.Team2},
		{core.V(20, 311), ""},
		{core.V(775, 250), entity.Team1},
		{core.V(774, 250), ""},
		{core.V(400, 250), ""},
	}

	for _, tc := range tests {
		got := goalFor(entity.Ball{Pos: tc.pos}, testField)
		if got != tc.want {
			t.Errorf("goalFor(%v) = %q, expected %q", tc.pos, got, tc.want)
		}
	}
}
