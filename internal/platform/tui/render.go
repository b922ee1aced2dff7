package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-soccer/internal/core"
)

// Palette maps core.Color to lipgloss styles.
type Palette map[core.Color]lipgloss.Style

// NightPalette is the default dark-terminal palette.
func NightPalette() Palette {
	pitch := lipgloss.Color("22")
	return Palette{
		core.ColorDefault:         lipgloss.NewStyle(),
		core.ColorPitch:           lipgloss.NewStyle().Foreground(lipgloss.Color("28")).Background(pitch),
		core.ColorLine:            lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(pitch),
		core.ColorBall:            lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(pitch).Bold(true),
		core.ColorTeam1:           lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Background(pitch).Bold(true),
		core.ColorTeam1Controlled: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Background(pitch).Bold(true),
		core.ColorTeam2:           lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Background(pitch).Bold(true),
		core.ColorGoal1:           lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Background(pitch),
		core.ColorGoal2:           lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Background(pitch),
		core.ColorText:            lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		core.ColorMuted:           lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// DayPalette is a brighter palette for day mode.
func DayPalette() Palette {
	pitch := lipgloss.Color("70")
	return Palette{
		core.ColorDefault:         lipgloss.NewStyle(),
		core.ColorPitch:           lipgloss.NewStyle().Foreground(lipgloss.Color("76")).Background(pitch),
		core.ColorLine:            lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(pitch),
		core.ColorBall:            lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(pitch).Bold(true),
		core.ColorTeam1:           lipgloss.NewStyle().Foreground(lipgloss.Color("21")).Background(pitch).Bold(true),
		core.ColorTeam1Controlled: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Background(pitch).Bold(true),
		core.ColorTeam2:           lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Background(pitch).Bold(true),
		core.ColorGoal1:           lipgloss.NewStyle().Foreground(lipgloss.Color("21")).Background(pitch),
		core.ColorGoal2:           lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Background(pitch),
		core.ColorText:            lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
		core.ColorMuted:           lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// PaletteFor picks the palette for the display mode.
func PaletteFor(day bool) Palette {
	if day {
		return DayPalette()
	}
	return NightPalette()
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen, p Palette) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := p[startColor]
			if !ok {
				style = p[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
