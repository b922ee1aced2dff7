package sim

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-soccer/internal/core"
	"github.com/vovakirdan/tui-soccer/internal/entity"
)

func aiAgent(team entity.Team, number int, pos core.Vec2) entity.Agent {
	return entity.Agent{
		Pos:    pos,
		Radius: entity.AgentRadius,
		Speed:  entity.AgentSpeed,
		Team:   team,
		Number: number,
		AI:     true,
	}
}

func TestShouldChase(t *testing.T) {
	tests := []struct {
		name  string
		agent entity.Agent
		ball  core.Vec2
		want  bool
	}{
		{"close ball", aiAgent(entity.Team2, 2, core.V(600, 250)), core.V(500, 250), true},
		{"far ball midfielder", aiAgent(entity.Team2, 2, core.V(670, 330)), core.V(200, 250), false},
		{"team1 forward own half", aiAgent(entity.Team1, 1, core.V(380, 250)), core.V(100, 50), true},
		{"team1 forward far half", aiAgent(entity.Team1, 1, core.V(100, 250)), core.V(600, 250), false},
		{"team1 forward ball on center line", aiAgent(entity.Team1, 1, core.V(100, 250)), core.V(400, 250), false},
		{"team2 forward own half", aiAgent(entity.Team2, 1, core.V(420, 250)), core.V(700, 50), true},
		{"team2 forward far half", aiAgent(entity.Team2, 1, core.V(700, 250)), core.V(300, 250), false},
		{"team2 defender own half", aiAgent(entity.Team2, 3, core.V(420, 250)), core.V(700, 50), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := shouldChase(tc.agent, tc.ball, testField); got != tc.want {
				t.Errorf("shouldChase() = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestSteerChaseSpeed(t *testing.T) {
	a := aiAgent(entity.Team2, 2, core.V(600, 250))
	got := steer(a, core.V(500, 250), testField, normalPhysics, 3)

	if math.Abs(got.Pos.X-597) > eps || got.Pos.Y != 250 {
		t.Errorf("chasing agent at %v, expected (597, 250)", got.Pos)
	}

	fast := steer(a, core.V(500, 250), testField, fastPhysics, 3)
	if math.Abs(fast.Pos.X-(600-5*1.2*0.6)) > eps {
		t.Errorf("fast chasing agent at %v", fast.Pos)
	}
}

func TestSteerReturnsHome(t *testing.T) {
	home := testField.Home(entity.Team2, 2, 3)
	a := aiAgent(entity.Team2, 2, home.Add(core.V(0, -100)))

	got := steer(a, core.V(100, 50), testField, normalPhysics, 3)
	if d := core.Dist(a.Pos, got.Pos); math.Abs(d-1.5) > eps {
		t.Errorf("return step = %f, expected 1.5", d)
	}
	if core.Dist(got.Pos, home) >= core.Dist(a.Pos, home) {
		t.Error("agent did not move towards home")
	}

	near := aiAgent(entity.Team2, 2, home.Add(core.V(3, 4)))
	if got := steer(near, core.V(100, 50), testField, normalPhysics, 3); got.Pos != near.Pos {
		t.Errorf("agent within tolerance moved from %v to %v", near.Pos, got.Pos)
	}
}

func TestSteerTeamSideCap(t *testing.T) {
	t1 := aiAgent(entity.Team1, 1, core.V(449, 250))
	got := steer(t1, core.V(550, 250), testField, normalPhysics, 3)
	if got.Pos.X > 450 {
		t.Errorf("team1 agent crossed cap: x=%f", got.Pos.X)
	}

	t2 := aiAgent(entity.Team2, 1, core.V(351, 250))
	got = steer(t2, core.V(250, 250), testField, normalPhysics, 3)
	if got.Pos.X < 350 {
		t.Errorf("team2 agent crossed cap: x=%f", got.Pos.X)
	}
}

func TestForwardHoldsHomeWhenBallIsFar(t *testing.T) {
	tests := []struct {
		name string
		team entity.Team
		ball core.Vec2
	}{
		{"team1 ball deep right", entity.Team1, core.V(760, 250)},
		{"team2 ball deep left", entity.Team2, core.V(40, 250)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			home := testField.Home(tc.team, 1, 3)
			a := aiAgent(tc.team, 1, home)
			for i := 0; i < 200; i++ {
				a = steer(a, tc.ball, testField, normalPhysics, 3)
			}
			if d := core.Dist(a.Pos, home); d > HomeTolerance {
				t.Errorf("forward drifted %f from home to %v", d, a.Pos)
			}
		})
	}
}

func TestMove(t *testing.T) {
	a := entity.Agent{Pos: core.V(200, 200), Radius: 15, Speed: 5, Team: entity.Team1, Controlled: true}

	got := move(a, core.Directions(core.DirUp, core.DirRight), testField, normalPhysics)
	if got.Pos != core.V(205, 195) {
		t.Errorf("diagonal move = %v, expected (205, 195)", got.Pos)
	}

	fast := move(a, core.Directions(core.DirDown), testField, fastPhysics)
	if math.Abs(fast.Pos.Y-206) > eps {
		t.Errorf("fast move y = %f, expected 206", fast.Pos.Y)
	}

	a.Pos = core.V(448, 16)
	got = move(a, core.Directions(core.DirUp, core.DirRight), testField, normalPhysics)
	if got.Pos != core.V(450, 15) {
		t.Errorf("team1 clamped move = %v, expected (450, 15)", got.Pos)
	}

	a.Team = entity.Team2
	a.Pos = core.V(782, 484)
	got = move(a, core.Directions(core.DirDown, core.DirRight), testField, normalPhysics)
	if got.Pos != core.V(785, 485) {
		t.Errorf("team2 clamped move = %v, expected (785, 485)", got.Pos)
	}

	a.Pos = core.V(17, 100)
	got = move(a, core.Directions(core.DirLeft), testField, normalPhysics)
	if got.Pos.X != 15 {
		t.Errorf("left clamp x = %f, expected 15", got.Pos.X)
	}
}
