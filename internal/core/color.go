package core

// Color represents a foreground color for a screen cell.
// The platform layer maps each value onto a terminal palette.
type Color uint8

// Predefined colors for field elements.
const (
	ColorDefault Color = iota
	ColorPitch         // grass and markings
	ColorLine          // boundary, halfway line, circle
	ColorBall
	ColorTeam1
	ColorTeam1Controlled
	ColorTeam2
	ColorGoal1
	ColorGoal2
	ColorText
	ColorMuted
)
