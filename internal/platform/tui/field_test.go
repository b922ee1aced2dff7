package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-soccer/internal/core"
	"github.com/vovakirdan/tui-soccer/internal/entity"
	"github.com/vovakirdan/tui-soccer/internal/match"
	"github.com/vovakirdan/tui-soccer/internal/sim"
)

// plain returns the runes of s, one line per row.
func plain(s *core.Screen) string {
	var sb strings.Builder
	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.Width(); x++ {
			sb.WriteRune(s.GetCell(x, y).Rune)
		}
	}
	return sb.String()
}

func TestDrawField(t *testing.T) {
	s := core.NewScreen(40, 12)
	DrawField(s, core.NewRect(0, 0, 40, 12), FieldFrame{
		Field: sim.Field{Width: 800, Height: 500},
		Ball:  entity.Ball{Pos: core.V(400, 250)},
		Agents: []entity.Agent{
			{Pos: core.V(100, 100), Team: entity.Team1, Number: 1, Controlled: true},
			{Pos: core.V(700, 400), Team: entity.Team2, Number: 2},
		},
	})

	tests := []struct {
		name string
		x, y int
		want rune
	}{
		{"top-left corner", 0, 0, '┌'},
		{"bottom-right corner", 39, 11, '┘'},
		{"left goal", 0, 6, '┃'},
		{"right goal", 39, 5, '┃'},
		{"ball over center spot", 20, 6, 'o'},
		{"controlled agent", 6, 3, '@'},
		{"numbered agent", 33, 8, '2'},
		{"halfway line", 20, 2, '│'},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.GetCell(tc.x, tc.y).Rune; got != tc.want {
				t.Errorf("cell (%d,%d) = %q, expected %q\n%s", tc.x, tc.y, got, tc.want, plain(s))
			}
		})
	}

	if c := s.GetCell(20, 6).Color; c != core.ColorBall {
		t.Errorf("ball color = %d, expected %d", c, core.ColorBall)
	}
	if c := s.GetCell(0, 6).Color; c != core.ColorGoal1 {
		t.Errorf("left goal color = %d, expected %d", c, core.ColorGoal1)
	}
}

func TestDrawFieldTooSmall(t *testing.T) {
	s := core.NewScreen(2, 2)
	DrawField(s, core.NewRect(0, 0, 2, 2), FieldFrame{Field: sim.Field{Width: 800, Height: 500}})
	if strings.TrimSpace(plain(s)) != "" {
		t.Errorf("tiny area should stay blank, got %q", plain(s))
	}
}

func TestDrawFieldBanner(t *testing.T) {
	tests := []struct {
		name   string
		banner string
	}{
		{"no banner", ""},
		{"goal", " GOAL! Team 1 "},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := core.NewScreen(40, 12)
			DrawField(s, core.NewRect(0, 0, 40, 12), FieldFrame{
				Field:  sim.Field{Width: 800, Height: 500},
				Ball:   entity.Ball{Pos: core.V(400, 250)},
				Agents: []entity.Agent{{Pos: core.V(100, 100), Team: entity.Team1, Number: 1, Controlled: true}},
				Banner: tc.banner,
			})

			lines := strings.Split(plain(s), "\n")
			hasGoal := strings.Contains(lines[3], "GOAL! Team 1")
			if hasGoal != (tc.banner != "") {
				t.Errorf("row 3 = %q, banner %q", lines[3], tc.banner)
			}
			if tc.banner == "" {
				return
			}
			x := (40 - len(tc.banner)) / 2
			if c := s.GetCell(x+1, 3); c.Rune != 'G' || c.Color != core.ColorText {
				t.Errorf("banner cell = %+v, expected G in text color", c)
			}
			if got := s.GetCell(6, 3).Rune; got != '@' {
				t.Errorf("agent beside the banner = %q, expected @", got)
			}
		})
	}
}

func TestGameViewShowsGoalBanner(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.KickoffDelay = 0
	m := match.New(sim.New(cfg, sim.WithSeed(7)), nil)
	game := NewGameModel(m, 80, 24, false)

	if strings.Contains(game.View(), "GOAL!") {
		t.Fatal("banner shown before any goal")
	}

	m.Engine().ApplyKick(core.V(24, 250), core.Vec2{})
	next, _ := game.Update(TickMsg(time.Now()))
	view := next.(GameModel).View()
	if !strings.Contains(view, "GOAL! Team 2") {
		t.Errorf("view after a goal lacks the banner:\n%s", view)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{61, "01:01"},
		{3600, "60:00"},
		{-5, "00:00"},
	}
	for _, tc := range tests {
		if got := FormatClock(tc.seconds); got != tc.want {
			t.Errorf("FormatClock(%d) = %q, expected %q", tc.seconds, got, tc.want)
		}
	}
}

func TestHUDTopLine(t *testing.T) {
	st := HUDStylesFor(false)

	offline := HUD{Score: entity.Score{Team1: 2, Team2: 1}, Elapsed: 75}.TopLine(st, 120)
	for _, want := range []string{"2 : 1", "01:15", "offline"} {
		if !strings.Contains(offline, want) {
			t.Errorf("offline line missing %q: %q", want, offline)
		}
	}

	online := HUD{Room: "ab12cd", Host: true, Peers: 1, Mode: entity.ModeFast, Banner: "GOAL! Team 1"}.TopLine(st, 160)
	for _, want := range []string{"ab12cd", "host", "peers", "FAST", "GOAL! Team 1"} {
		if !strings.Contains(online, want) {
			t.Errorf("online line missing %q: %q", want, online)
		}
	}
}
