package entity

import (
	"testing"

	"github.com/vovakirdan/tui-soccer/internal/core"
)

func TestTeam(t *testing.T) {
	tests := []struct {
		team     Team
		valid    bool
		opponent Team
	}{
		{Team1, true, Team2},
		{Team2, true, Team1},
		{Team("team3"), false, Team1},
	}

	for _, tc := range tests {
		if got := tc.team.Valid(); got != tc.valid {
			t.Errorf("%q.Valid() = %v, expected %v", tc.team, got, tc.valid)
		}
		if got := tc.team.Opponent(); got != tc.opponent {
			t.Errorf("%q.Opponent() = %q, expected %q", tc.team, got, tc.opponent)
		}
	}
}

func TestScoreAdd(t *testing.T) {
	var s Score
	s.Add(Team1)
	s.Add(Team2)
	s.Add(Team2)
	s.Add(Team("nobody"))

	if s.Team1 != 1 || s.Team2 != 2 {
		t.Errorf("score = %+v, expected 1-2", s)
	}
	if s.For(Team2) != 2 {
		t.Errorf("For(Team2) = %d, expected 2", s.For(Team2))
	}
}

func TestBallSpeed(t *testing.T) {
	b := Ball{Vel: core.V(3, -4), Radius: BallRadius}
	if b.Speed() != 5 {
		t.Errorf("Speed() = %f, expected 5", b.Speed())
	}
}

func TestAgentDescriptor(t *testing.T) {
	a := Agent{ID: "p1", Pos: core.V(10, 20), Team: Team2, Number: 3}
	d := a.Descriptor("Ann")

	want := Descriptor{ID: "p1", Team: Team2, Number: 3, Name: "Ann", X: 10, Y: 20}
	if d != want {
		t.Errorf("Descriptor() = %+v, expected %+v", d, want)
	}
}

func TestModeFor(t *testing.T) {
	if ModeFor(true) != ModeFast || ModeFor(false) != ModeNormal {
		t.Error("ModeFor mapping is wrong")
	}
}
