// Package sim implements the match simulation: one fixed time step per
// Step call, covering local input, AI steering, ball physics, collisions
// and goal detection. The engine owns entity state but not the scoreboard.
package sim

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-soccer/internal/core"
	"github.com/vovakirdan/tui-soccer/internal/entity"
)

// StepResult reports what happened during one tick.
type StepResult struct {
	Tick uint64

	// Kicked is set when the locally controlled agent touched the ball.
	// Kick holds the ball right after that touch.
	Kicked bool
	Kick   entity.Ball

	// Goal is the scoring team, or "" when no goal was scored.
	Goal entity.Team

	// SecondElapsed is set on the tick a simulated second completes.
	SecondElapsed bool
	Elapsed       int
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed makes kickoff directions deterministic.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand supplies the random source used for kickoff directions.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// Engine holds the ball and the fixed roster of one match.
// It is not safe for concurrent use; callers serialize access per tick.
type Engine struct {
	cfg     Config
	field   Field
	physics Physics
	ball    entity.Ball
	agents  []entity.Agent
	rng     *rand.Rand

	tick    uint64
	elapsed int
}

// New creates an engine with every agent at its home slot and the ball
// resting on the center spot.
func New(cfg Config, opts ...Option) *Engine {
	cfg = cfg.normalize()
	field := Field{Width: cfg.Width, Height: cfg.Height}

	e := &Engine{
		cfg:     cfg,
		field:   field,
		physics: PhysicsFor(cfg.Mode),
		agents:  buildRoster(field, cfg.PlayersPerTeam, cfg.LocalID),
	}
	cx, cy := field.Center()
	e.ball = entity.Ball{Pos: core.V(cx, cy), Radius: entity.BallRadius}

	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e
}

// Step advances the match by exactly one tick using dirs for the
// controlled agent. The sub-steps always run in the same order.
func (e *Engine) Step(dirs core.DirectionSet) StepResult {
	e.tick++
	res := StepResult{Tick: e.tick}

	e.openingKickoff()

	// A missing controlled agent only skips local input.
	if i := e.controlledIndex(); i >= 0 {
		e.agents[i] = move(e.agents[i], dirs, e.field, e.physics)
	}

	for i := range e.agents {
		if e.agents[i].AI {
			e.agents[i] = steer(e.agents[i], e.ball.Pos, e.field, e.physics, e.cfg.PlayersPerTeam)
		}
	}

	e.ball = integrate(e.ball, e.field, e.physics)

	// Later agents override earlier corrections within the same tick.
	for _, a := range e.agents {
		if !overlaps(e.ball, a) {
			continue
		}
		e.ball = kick(e.ball, a, e.physics)
		if a.Controlled {
			res.Kicked = true
			res.Kick = e.ball
		}
	}

	if team := goalFor(e.ball, e.field); team != "" {
		res.Goal = team
		e.resetBall()
	}

	e.ball = sideBounce(e.ball, e.field, e.physics)

	if e.tick%uint64(e.cfg.TickRate) == 0 {
		e.elapsed++
		res.SecondElapsed = true
	}
	res.Elapsed = e.elapsed
	return res
}

// openingKickoff launches a still-stationary ball once the kickoff delay
// has passed.
func (e *Engine) openingKickoff() {
	if e.cfg.KickoffDelay == 0 || e.tick != uint64(e.cfg.KickoffDelay) {
		return
	}
	if !e.ball.Vel.IsZero() {
		return
	}
	e.ball = launch(e.ball, e.ball.Pos, e.physics.KickoffSpd, e.rng.Float64)
}

// resetBall places the ball on the center spot with a random direction.
func (e *Engine) resetBall() {
	cx, cy := e.field.Center()
	e.ball = launch(e.ball, core.V(cx, cy), e.physics.KickoffSpd, e.rng.Float64)
}

func (e *Engine) controlledIndex() int {
	for i := range e.agents {
		if e.agents[i].Controlled {
			return i
		}
	}
	return -1
}

// ApplyKick overwrites the ball's position and velocity with a remote
// kick. The last kick applied wins.
func (e *Engine) ApplyKick(pos, vel core.Vec2) {
	e.ball.Pos = pos
	e.ball.Vel = vel
}

// ApplyGoal resets the ball after a remote goal. The score is kept by
// the caller.
func (e *Engine) ApplyGoal() {
	e.resetBall()
}

// ApplySnapshot overwrites the ball and the position of every known agent
// listed in players. The locally controlled agent and unknown ids are left
// untouched.
func (e *Engine) ApplySnapshot(ball entity.Ball, players []entity.Descriptor) {
	e.ball.Pos = ball.Pos
	e.ball.Vel = ball.Vel

	for _, p := range players {
		for i := range e.agents {
			a := &e.agents[i]
			if a.ID != p.ID || a.Controlled {
				continue
			}
			a.Pos = core.V(p.X, p.Y)
		}
	}
}

// Ball returns a copy of the ball.
func (e *Engine) Ball() entity.Ball {
	return e.ball
}

// Agents returns a copy of the roster in iteration order.
func (e *Engine) Agents() []entity.Agent {
	out := make([]entity.Agent, len(e.agents))
	copy(out, e.agents)
	return out
}

// Controlled returns the locally controlled agent, if any.
func (e *Engine) Controlled() (entity.Agent, bool) {
	if i := e.controlledIndex(); i >= 0 {
		return e.agents[i], true
	}
	return entity.Agent{}, false
}

// Field returns the playfield dimensions.
func (e *Engine) Field() Field {
	return e.field
}

// Mode returns the physics mode.
func (e *Engine) Mode() entity.Mode {
	return e.cfg.Mode
}

// Physics returns the active constant set.
func (e *Engine) Physics() Physics {
	return e.physics
}

// Config returns the normalized setup the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Elapsed returns the number of whole simulated seconds.
func (e *Engine) Elapsed() int {
	return e.elapsed
}

// Tick returns the number of steps taken.
func (e *Engine) Tick() uint64 {
	return e.tick
}
