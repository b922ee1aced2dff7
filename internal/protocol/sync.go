package protocol

import (
	"time"

	"github.com/vovakirdan/tui-soccer/internal/entity"
)

// SnapshotInterval is the number of simulated seconds between snapshots.
const SnapshotInterval = 2

// SnapshotDue reports whether this tick should carry a snapshot.
// Only the authority sends them, once on each tick that completes an
// even simulated second.
func SnapshotDue(isAuthority, secondElapsed bool, elapsed int) bool {
	return isAuthority && secondElapsed && elapsed%SnapshotInterval == 0
}

// NewSnapshot captures the full match state as seen by sender.
// names maps agent ids to display names and may be nil.
func NewSnapshot(sender string, agents []entity.Agent, ball entity.Ball, score entity.Score, names map[string]string) Snapshot {
	players := make([]entity.Descriptor, len(agents))
	for i, a := range agents {
		players[i] = a.Descriptor(names[a.ID])
	}
	h := NewHeader(sender)
	return Snapshot{
		Header:  h,
		Players: players,
		Ball:    BallStateOf(ball),
		Score:   score,
		Time:    h.Timestamp,
	}
}

// NewKick reports ball as left by sender's controlled agent.
func NewKick(sender string, ball entity.Ball) Kick {
	return Kick{Header: NewHeader(sender), Ball: BallStateOf(ball)}
}

// NewGoal announces a goal for team.
func NewGoal(sender string, team entity.Team) Goal {
	return Goal{Header: NewHeader(sender), Team: team}
}

// NewJoin announces player.
func NewJoin(sender string, player entity.Descriptor) Join {
	return Join{Header: NewHeader(sender), Player: player}
}

// NewLeave announces that id left.
func NewLeave(sender, id string) Leave {
	return Leave{Header: NewHeader(sender), PlayerID: id}
}

// Age returns how long ago the message was stamped, relative to now.
func Age(msg Message, now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(msg.Meta().Timestamp))
}
