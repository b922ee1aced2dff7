package match

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-soccer/internal/config"
	"github.com/vovakirdan/tui-soccer/internal/protocol"
	"github.com/vovakirdan/tui-soccer/internal/session"
	"github.com/vovakirdan/tui-soccer/internal/sim"
)

// Launcher builds ready-to-tick matches from the runtime configuration.
type Launcher struct {
	Config    config.Config
	Connector session.Connector // nil allows offline play only
	Logger    *log.Logger
	Seed      int64 // zero seeds from the clock
}

// Offline creates a match with no session. The local agent keeps the
// engine's default id.
func (l Launcher) Offline() *Match {
	return New(l.engine(""), nil, WithLogger(l.logger()))
}

// Host opens a new room and returns a match with this node as the
// authority. Without a connector the room exists only locally.
func (l Launcher) Host(ctx context.Context, name string) (*Match, error) {
	sess, err := l.session(name)
	if err != nil {
		return nil, err
	}
	if _, err := sess.Host(ctx); err != nil {
		return nil, err
	}
	return New(l.engine(sess.LocalID()), sess, WithLogger(l.logger())), nil
}

// Join enters an existing room. It fails after the configured join
// timeout when the room cannot be reached.
func (l Launcher) Join(ctx context.Context, name, room string) (*Match, error) {
	sess, err := l.session(name)
	if err != nil {
		return nil, err
	}
	select {
	case err := <-sess.JoinAsync(ctx, room):
		if err != nil {
			return nil, err
		}
	case <-ctx.Done():
		sess.Disconnect()
		return nil, ctx.Err()
	}
	return New(l.engine(sess.LocalID()), sess, WithLogger(l.logger())), nil
}

func (l Launcher) session(name string) (*session.Session, error) {
	codec, err := protocol.CodecByName(l.Config.Network.Codec)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}
	return session.New(
		session.WithName(name),
		session.WithCodec(codec),
		session.WithConnector(l.Connector),
		session.WithLogger(l.logger().WithPrefix("session")),
		session.WithJoinTimeout(l.Config.Network.JoinTimeout),
		session.WithInboxSize(l.Config.Network.InboxSize),
	), nil
}

func (l Launcher) engine(localID string) *sim.Engine {
	seed := l.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return sim.New(l.Config.SimConfig(localID), sim.WithSeed(seed))
}

func (l Launcher) logger() *log.Logger {
	if l.Logger == nil {
		return log.New(io.Discard)
	}
	return l.Logger
}
