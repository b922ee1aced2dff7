// Package match ties one simulation engine to one session. It owns the
// scoreboard and the clock notifications, and decides which events leave
// the node.
package match

import (
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-soccer/internal/core"
	"github.com/vovakirdan/tui-soccer/internal/entity"
	"github.com/vovakirdan/tui-soccer/internal/protocol"
	"github.com/vovakirdan/tui-soccer/internal/session"
	"github.com/vovakirdan/tui-soccer/internal/sim"
)

// ScoreEvent is passed to score listeners after a goal is counted.
type ScoreEvent struct {
	Team  entity.Team
	Score entity.Score
}

// TickResult reports one call to Tick.
type TickResult struct {
	sim.StepResult

	// Applied is the number of remote messages handled before the step.
	Applied int

	// Counted is set when the tick's local goal changed the scoreboard.
	Counted bool

	// Sent lists the kinds broadcast after the step, in order.
	Sent []protocol.Kind
}

// Option configures a Match.
type Option func(*Match)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(m *Match) {
		if l != nil {
			m.logger = l
		}
	}
}

// Match runs ticks for one node. A nil session plays offline: every
// local goal counts and nothing is broadcast.
//
// Tick is not safe for concurrent use. Score and Elapsed may be read from
// any goroutine.
type Match struct {
	engine *sim.Engine
	sess   *session.Session
	logger *log.Logger

	mu      sync.RWMutex
	score   entity.Score
	elapsed int

	onScore core.Listeners[ScoreEvent]
	onTime  core.Listeners[int]
}

// New creates a match. The engine's controlled agent should carry the
// session's local id so remote snapshots never overwrite it.
func New(engine *sim.Engine, sess *session.Session, opts ...Option) *Match {
	m := &Match{
		engine: engine,
		sess:   sess,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}

	if sess != nil {
		if local := engine.Config().LocalID; local != sess.LocalID() {
			m.logger.Warn("controlled agent id differs from session id",
				"agent", local, "session", sess.LocalID())
		}
	}
	return m
}

// Tick drains remote messages, steps the engine once and publishes what
// the step caused.
func (m *Match) Tick(dirs core.DirectionSet) TickResult {
	var res TickResult

	if m.sess != nil {
		res.Applied = m.sess.Drain(m.apply)
	}

	res.StepResult = m.engine.Step(dirs)

	if res.Kicked {
		m.send(&res, protocol.NewKick(m.localID(), res.Kick))
	}

	if res.Goal != "" {
		if m.countsLocalGoals() {
			m.addGoal(res.Goal)
			res.Counted = true
			if m.sess != nil {
				m.send(&res, protocol.NewGoal(m.localID(), res.Goal))
			}
		} else {
			m.logger.Debug("local goal left to the authority", "team", res.Goal)
		}
	}

	if res.SecondElapsed {
		m.mu.Lock()
		m.elapsed = res.Elapsed
		m.mu.Unlock()
		m.onTime.Emit(res.Elapsed)
	}

	if m.sess != nil && protocol.SnapshotDue(m.sess.IsAuthority(), res.SecondElapsed, res.Elapsed) {
		snap := protocol.NewSnapshot(m.localID(), m.engine.Agents(), m.engine.Ball(), m.Score(), m.sess.Roster().Names())
		m.send(&res, snap)
	}
	return res
}

func (m *Match) apply(msg protocol.Message) {
	switch v := msg.(type) {
	case protocol.Kick:
		m.engine.ApplyKick(v.Ball.Pos(), v.Ball.Vel())
	case protocol.Goal:
		if m.countsLocalGoals() {
			m.logger.Warn("ignoring goal from non-authority peer", "sender", v.SenderID, "team", v.Team)
			return
		}
		m.addGoal(v.Team)
		m.engine.ApplyGoal()
	case protocol.Snapshot:
		m.engine.ApplySnapshot(v.Ball.Ball(), v.Players)
		if !m.sess.IsAuthority() {
			m.mu.Lock()
			m.score = v.Score
			m.mu.Unlock()
		}
	}
}

// countsLocalGoals reports whether goals detected by this engine change
// the scoreboard. In a room only the authority's goals count.
func (m *Match) countsLocalGoals() bool {
	return m.sess == nil || !m.sess.Active() || m.sess.IsAuthority()
}

func (m *Match) addGoal(team entity.Team) {
	m.mu.Lock()
	m.score.Add(team)
	score := m.score
	m.mu.Unlock()

	m.onScore.Emit(ScoreEvent{Team: team, Score: score})
}

func (m *Match) send(res *TickResult, msg protocol.Message) {
	err := m.sess.Broadcast(msg)
	switch {
	case err == nil:
		res.Sent = append(res.Sent, msg.Kind())
	case errors.Is(err, session.ErrClosed):
		m.logger.Debug("not in a room, dropping", "kind", msg.Kind())
	default:
		m.logger.Warn("broadcast failed", "kind", msg.Kind(), "err", err)
	}
}

func (m *Match) localID() string {
	if m.sess != nil {
		return m.sess.LocalID()
	}
	return m.engine.Config().LocalID
}

// Score returns the scoreboard.
func (m *Match) Score() entity.Score {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.score
}

// Elapsed returns the last whole second reported by the engine.
func (m *Match) Elapsed() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.elapsed
}

// Engine returns the simulation for rendering.
func (m *Match) Engine() *sim.Engine {
	return m.engine
}

// Session returns the session, or nil offline.
func (m *Match) Session() *session.Session {
	return m.sess
}

// OnScore registers fn for every counted goal.
func (m *Match) OnScore(fn func(ScoreEvent)) core.Unsubscribe {
	return m.onScore.Add(fn)
}

// OnTimeAdvance registers fn for every elapsed simulated second.
func (m *Match) OnTimeAdvance(fn func(seconds int)) core.Unsubscribe {
	return m.onTime.Add(fn)
}
