package match

import (
	"context"
	"time"

	"github.com/vovakirdan/tui-soccer/internal/core"
	"github.com/vovakirdan/tui-soccer/internal/sim"
)

// Runner drives a Match on its own goroutine at a fixed tick rate.
// Front-ends that own their event loop call Match.Tick directly instead.
type Runner struct {
	match    *Match
	tickRate int
	onTick   func(TickResult)
}

// NewRunner creates a runner. A non-positive rate uses the default.
func NewRunner(m *Match, tickRate int) *Runner {
	if tickRate <= 0 {
		tickRate = sim.DefaultTickRate
	}
	return &Runner{match: m, tickRate: tickRate}
}

// OnTick sets a hook called after every tick on the runner goroutine.
func (r *Runner) OnTick(fn func(TickResult)) {
	r.onTick = fn
}

// Run ticks until ctx is cancelled and returns ctx.Err(). input is polled
// once per tick; a nil input plays with no local movement.
func (r *Runner) Run(ctx context.Context, input func() core.DirectionSet) error {
	ticker := time.NewTicker(time.Second / time.Duration(r.tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			var dirs core.DirectionSet
			if input != nil {
				dirs = input()
			}
			res := r.match.Tick(dirs)
			if r.onTick != nil {
				r.onTick(res)
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
