package sim

import (
	"fmt"

	"github.com/vovakirdan/tui-soccer/internal/core"
	"github.com/vovakirdan/tui-soccer/internal/entity"
)

// Home returns the formation slot of squad number n (1-based) for team.
// With one player per team the single slot sits 100 units off the goal.
// Otherwise slots are forward, midfielder and defender, mirrored for team2.
func (f Field) Home(team entity.Team, number, perTeam int) core.Vec2 {
	midY := f.Height / 2

	if perTeam <= 1 {
		if team == entity.Team2 {
			return core.V(f.Width-100, midY)
		}
		return core.V(100, midY)
	}

	var x, dy float64
	switch number {
	case 2: // Midfielder
		x, dy = 130, -80
	case 3: // Defender
		x, dy = 60, 80
	default: // Forward
		x, dy = 220, 0
	}

	if team == entity.Team2 {
		return core.V(f.Width-x, midY-dy)
	}
	return core.V(x, midY+dy)
}

// agentID returns the stable id for slot i of team.
func agentID(team entity.Team, i int, localID string) string {
	if team == entity.Team1 && i == 0 {
		return localID
	}
	return fmt.Sprintf("%s-ai-%d", team, i)
}

// buildRoster creates every agent once, at its home slot.
func buildRoster(f Field, perTeam int, localID string) []entity.Agent {
	agents := make([]entity.Agent, 0, perTeam*2)
	for _, team := range []entity.Team{entity.Team1, entity.Team2} {
		for i := 0; i < perTeam; i++ {
			controlled := team == entity.Team1 && i == 0
			agents = append(agents, entity.Agent{
				ID:         agentID(team, i, localID),
				Pos:        f.Home(team, i+1, perTeam),
				Radius:     entity.AgentRadius,
				Speed:      entity.AgentSpeed,
				Team:       team,
				Number:     i + 1,
				Controlled: controlled,
				AI:         !controlled,
			})
		}
	}
	return agents
}
