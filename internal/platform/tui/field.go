package tui

import (
	"math"
	"strconv"

	"github.com/vovakirdan/tui-soccer/internal/core"
	"github.com/vovakirdan/tui-soccer/internal/entity"
	"github.com/vovakirdan/tui-soccer/internal/sim"
)

// centerCircleRadius is the radius of the center circle in field units.
const centerCircleRadius = 50.0

// projection maps field units onto the cells inside a bordered area.
type projection struct {
	area   core.Rect
	sx, sy float64
}

func newProjection(area core.Rect, f sim.Field) projection {
	p := projection{area: area}
	if f.Width > 0 && area.W > 2 {
		p.sx = float64(area.W-3) / f.Width
	}
	if f.Height > 0 && area.H > 2 {
		p.sy = float64(area.H-3) / f.Height
	}
	return p
}

// cell returns the screen cell for a field position.
func (p projection) cell(v core.Vec2) (int, int) {
	x := p.area.X + 1 + int(math.Round(v.X*p.sx))
	y := p.area.Y + 1 + int(math.Round(v.Y*p.sy))
	return x, y
}

// FieldFrame is the read-only state needed to draw one frame.
type FieldFrame struct {
	Field  sim.Field
	Ball   entity.Ball
	Agents []entity.Agent
	Banner string // drawn across the upper half when set
}

// DrawField draws the pitch, both goals, every agent and the ball into
// area. The ball is drawn last so it stays visible on top of agents.
func DrawField(s *core.Screen, area core.Rect, fr FieldFrame) {
	if area.W < 3 || area.H < 3 {
		return
	}
	p := newProjection(area, fr.Field)

	s.FillRect(area, ' ', core.ColorPitch)
	s.DrawBox(area, core.ColorLine)

	cx, cy := fr.Field.Center()
	midX, _ := p.cell(core.V(cx, 0))
	s.DrawVLine(midX, area.Y+1, area.H-2, '│', core.ColorLine)

	for i := 0; i < 48; i++ {
		pt := core.V(cx, cy).Add(core.Polar(2*math.Pi*float64(i)/48, centerCircleRadius))
		x, y := p.cell(pt)
		s.SetColored(x, y, '·', core.ColorLine)
	}
	x, y := p.cell(core.V(cx, cy))
	s.SetColored(x, y, '+', core.ColorLine)

	drawGoal(s, p, fr.Field, area.X, core.ColorGoal1)
	drawGoal(s, p, fr.Field, area.Right()-1, core.ColorGoal2)

	for _, a := range fr.Agents {
		x, y := p.cell(a.Pos)
		s.SetColored(x, y, agentRune(a), agentColor(a))
	}

	x, y = p.cell(fr.Ball.Pos)
	s.SetColored(x, y, 'o', core.ColorBall)

	if fr.Banner != "" {
		s.DrawTextCentered(area.Y+area.H/4, fr.Banner, core.ColorText)
	}
}

// drawGoal marks the goal mouth on the border column x.
func drawGoal(s *core.Screen, p projection, f sim.Field, x int, c core.Color) {
	_, top := p.cell(core.V(0, f.Height/2-sim.GoalMouthHalf))
	_, bottom := p.cell(core.V(0, f.Height/2+sim.GoalMouthHalf))
	for y := top; y <= bottom; y++ {
		s.SetColored(x, y, '┃', c)
	}
}

func agentRune(a entity.Agent) rune {
	if a.Controlled {
		return '@'
	}
	if a.Number >= 1 && a.Number <= 9 {
		return rune(strconv.Itoa(a.Number)[0])
	}
	return '*'
}

func agentColor(a entity.Agent) core.Color {
	switch {
	case a.Controlled:
		return core.ColorTeam1Controlled
	case a.Team == entity.Team2:
		return core.ColorTeam2
	default:
		return core.ColorTeam1
	}
}
