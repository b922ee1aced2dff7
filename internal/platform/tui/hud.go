package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-soccer/internal/entity"
)

// HUDStyles holds the styles used around the field.
type HUDStyles struct {
	Team1  lipgloss.Style
	Team2  lipgloss.Style
	Score  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Banner lipgloss.Style
	Error  lipgloss.Style
}

// HUDStylesFor returns styles matching the day or night palette.
func HUDStylesFor(day bool) HUDStyles {
	text, muted := lipgloss.Color("255"), lipgloss.Color("245")
	if day {
		text, muted = lipgloss.Color("235"), lipgloss.Color("240")
	}
	return HUDStyles{
		Team1:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Team2:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		Score:  lipgloss.NewStyle().Foreground(text).Bold(true),
		Label:  lipgloss.NewStyle().Foreground(muted),
		Value:  lipgloss.NewStyle().Foreground(text),
		Banner: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true).Padding(0, 2),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// HUD is everything the status lines show.
type HUD struct {
	Score   entity.Score
	Elapsed int
	Mode    entity.Mode
	Room    string // empty offline
	Host    bool
	Peers   int
	Roster  []entity.Descriptor
	Banner  string
}

// FormatClock renders seconds as mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// TopLine renders the score bar.
func (h HUD) TopLine(st HUDStyles, width int) string {
	score := lipgloss.JoinHorizontal(lipgloss.Center,
		st.Team1.Render("TEAM 1"),
		st.Score.Render(fmt.Sprintf("  %d : %d  ", h.Score.Team1, h.Score.Team2)),
		st.Team2.Render("TEAM 2"),
	)

	parts := []string{score, st.Value.Render(FormatClock(h.Elapsed))}
	if h.Mode == entity.ModeFast {
		parts = append(parts, st.Banner.UnsetPadding().Render("FAST"))
	}
	if h.Room != "" {
		role := "guest"
		if h.Host {
			role = "host"
		}
		parts = append(parts,
			st.Label.Render("room ")+st.Value.Render(h.Room),
			st.Label.Render(role),
			st.Label.Render("peers ")+st.Value.Render(fmt.Sprint(h.Peers)),
		)
	} else {
		parts = append(parts, st.Label.Render("offline"))
	}

	line := strings.Join(parts, st.Label.Render("  │  "))
	if h.Banner != "" {
		line += "  " + st.Banner.Render(h.Banner)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, line)
}

// RosterLine lists connected players.
func (h HUD) RosterLine(st HUDStyles, width int) string {
	if len(h.Roster) == 0 {
		return ""
	}
	names := make([]string, 0, len(h.Roster))
	for _, p := range h.Roster {
		style := st.Team1
		if p.Team == entity.Team2 {
			style = st.Team2
		}
		name := p.Name
		if name == "" {
			name = p.ID
		}
		names = append(names, style.Render(name))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		st.Label.Render("players: ")+strings.Join(names, st.Label.Render(", ")))
}
