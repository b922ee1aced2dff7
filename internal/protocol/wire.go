package protocol

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-soccer/internal/entity"
)

// Payload shapes as they appear on the wire. Field names match the
// browser peers so either side can decode the other's frames.

type wireSnapshotPlayer struct {
	ID     string  `json:"id" msgpack:"id"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Team   string  `json:"team" msgpack:"team"`
	Number int     `json:"number" msgpack:"number"`
	Name   string  `json:"name,omitempty" msgpack:"name,omitempty"`
}

type wirePlayer struct {
	ID     string  `json:"id" msgpack:"id"`
	Team   string  `json:"team" msgpack:"team"`
	Number int     `json:"number" msgpack:"number"`
	Name   string  `json:"name,omitempty" msgpack:"name,omitempty"`
	X      float64 `json:"x,omitempty" msgpack:"x,omitempty"`
	Y      float64 `json:"y,omitempty" msgpack:"y,omitempty"`
}

type wireBall struct {
	X         float64 `json:"x" msgpack:"x"`
	Y         float64 `json:"y" msgpack:"y"`
	VelocityX float64 `json:"velocityX" msgpack:"velocityX"`
	VelocityY float64 `json:"velocityY" msgpack:"velocityY"`
}

type wireScore struct {
	Team1 int `json:"team1" msgpack:"team1"`
	Team2 int `json:"team2" msgpack:"team2"`
}

type snapshotPayload struct {
	Players   []wireSnapshotPlayer `json:"players" msgpack:"players"`
	Ball      wireBall             `json:"ball" msgpack:"ball"`
	Score     wireScore            `json:"score" msgpack:"score"`
	Timestamp int64                `json:"timestamp" msgpack:"timestamp"`
}

type goalPayload struct {
	Team string `json:"team" msgpack:"team"`
}

type joinPayload struct {
	Player wirePlayer `json:"player" msgpack:"player"`
}

type leavePayload struct {
	PlayerID string `json:"playerId" msgpack:"playerId"`
}

// Decode shapes use pointers so a missing field is told apart from a zero.

type ballIn struct {
	X         *float64 `json:"x" msgpack:"x"`
	Y         *float64 `json:"y" msgpack:"y"`
	VelocityX *float64 `json:"velocityX" msgpack:"velocityX"`
	VelocityY *float64 `json:"velocityY" msgpack:"velocityY"`
}

type scoreIn struct {
	Team1 *int `json:"team1" msgpack:"team1"`
	Team2 *int `json:"team2" msgpack:"team2"`
}

type snapshotPlayerIn struct {
	ID     string   `json:"id" msgpack:"id"`
	X      *float64 `json:"x" msgpack:"x"`
	Y      *float64 `json:"y" msgpack:"y"`
	Team   string   `json:"team" msgpack:"team"`
	Number int      `json:"number" msgpack:"number"`
	Name   string   `json:"name" msgpack:"name"`
}

type snapshotIn struct {
	Players   *[]snapshotPlayerIn `json:"players" msgpack:"players"`
	Ball      *ballIn             `json:"ball" msgpack:"ball"`
	Score     *scoreIn            `json:"score" msgpack:"score"`
	Timestamp int64               `json:"timestamp" msgpack:"timestamp"`
}

func (b *ballIn) state() (BallState, error) {
	switch {
	case b == nil:
		return BallState{}, errors.New("missing ball")
	case b.X == nil, b.Y == nil:
		return BallState{}, errors.New("ball has no position")
	case b.VelocityX == nil, b.VelocityY == nil:
		return BallState{}, errors.New("ball has no velocity")
	}
	return BallState{X: *b.X, Y: *b.Y, VX: *b.VelocityX, VY: *b.VelocityY}, nil
}

func (s *scoreIn) score() (entity.Score, error) {
	if s == nil || s.Team1 == nil || s.Team2 == nil {
		return entity.Score{}, errors.New("missing score")
	}
	if *s.Team1 < 0 || *s.Team2 < 0 {
		return entity.Score{}, fmt.Errorf("negative score %d:%d", *s.Team1, *s.Team2)
	}
	return entity.Score{Team1: *s.Team1, Team2: *s.Team2}, nil
}

func toWireBall(b BallState) wireBall {
	return wireBall{X: b.X, Y: b.Y, VelocityX: b.VX, VelocityY: b.VY}
}

// payloadOf returns the wire payload for msg.
func payloadOf(msg Message) (any, error) {
	switch m := msg.(type) {
	case Snapshot:
		players := make([]wireSnapshotPlayer, len(m.Players))
		for i, p := range m.Players {
			players[i] = wireSnapshotPlayer{
				ID:     p.ID,
				X:      p.X,
				Y:      p.Y,
				Team:   string(p.Team),
				Number: p.Number,
				Name:   p.Name,
			}
		}
		return snapshotPayload{
			Players:   players,
			Ball:      toWireBall(m.Ball),
			Score:     wireScore{Team1: m.Score.Team1, Team2: m.Score.Team2},
			Timestamp: m.Time,
		}, nil
	case Kick:
		return toWireBall(m.Ball), nil
	case Goal:
		return goalPayload{Team: string(m.Team)}, nil
	case Join:
		p := m.Player
		return joinPayload{Player: wirePlayer{
			ID:     p.ID,
			Team:   string(p.Team),
			Number: p.Number,
			Name:   p.Name,
			X:      p.X,
			Y:      p.Y,
		}}, nil
	case Leave:
		return leavePayload{PlayerID: m.PlayerID}, nil
	case nil:
		return nil, errors.New("protocol: nil message")
	}
	return nil, fmt.Errorf("protocol: cannot encode %T", msg)
}

// messageOf decodes the payload of kind with unmarshal and validates it.
func messageOf(kind Kind, h Header, unmarshal func(v any) error) (Message, error) {
	switch kind {
	case KindSnapshot:
		var p snapshotIn
		if err := unmarshal(&p); err != nil {
			return nil, malformed(kind, err)
		}
		if p.Players == nil {
			return nil, malformed(kind, errors.New("missing players"))
		}
		ball, err := p.Ball.state()
		if err != nil {
			return nil, malformed(kind, err)
		}
		score, err := p.Score.score()
		if err != nil {
			return nil, malformed(kind, err)
		}
		players := make([]entity.Descriptor, len(*p.Players))
		for i, wp := range *p.Players {
			if wp.ID == "" {
				return nil, malformed(kind, fmt.Errorf("player %d has no id", i))
			}
			if wp.X == nil || wp.Y == nil {
				return nil, malformed(kind, fmt.Errorf("player %s has no position", wp.ID))
			}
			players[i] = entity.Descriptor{
				ID:     wp.ID,
				Team:   entity.Team(wp.Team),
				Number: wp.Number,
				Name:   wp.Name,
				X:      *wp.X,
				Y:      *wp.Y,
			}
		}
		return Snapshot{
			Header:  h,
			Players: players,
			Ball:    ball,
			Score:   score,
			Time:    p.Timestamp,
		}, nil

	case KindKick:
		var p ballIn
		if err := unmarshal(&p); err != nil {
			return nil, malformed(kind, err)
		}
		ball, err := p.state()
		if err != nil {
			return nil, malformed(kind, err)
		}
		return Kick{Header: h, Ball: ball}, nil

	case KindGoal:
		var p goalPayload
		if err := unmarshal(&p); err != nil {
			return nil, malformed(kind, err)
		}
		team := entity.Team(p.Team)
		if !team.Valid() {
			return nil, malformed(kind, fmt.Errorf("invalid team %q", p.Team))
		}
		return Goal{Header: h, Team: team}, nil

	case KindJoin:
		var p joinPayload
		if err := unmarshal(&p); err != nil {
			return nil, malformed(kind, err)
		}
		if p.Player.ID == "" {
			return nil, malformed(kind, errors.New("player has no id"))
		}
		return Join{Header: h, Player: entity.Descriptor{
			ID:     p.Player.ID,
			Team:   entity.Team(p.Player.Team),
			Number: p.Player.Number,
			Name:   p.Player.Name,
			X:      p.Player.X,
			Y:      p.Player.Y,
		}}, nil

	case KindLeave:
		var p leavePayload
		if err := unmarshal(&p); err != nil {
			return nil, malformed(kind, err)
		}
		if p.PlayerID == "" {
			return nil, malformed(kind, errors.New("missing playerId"))
		}
		return Leave{Header: h, PlayerID: p.PlayerID}, nil
	}
	return nil, &DecodeError{Kind: kind, Reason: ErrUnknownKind}
}
