package protocol

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

type envelopeDoc struct {
	Type      Kind   `json:"type" jsonschema:"enum=game-state,enum=kick-ball,enum=goal-scored,enum=player-join,enum=player-leave"`
	Data      any    `json:"data"`
	SenderID  string `json:"senderId"`
	Timestamp int64  `json:"timestamp"`
}

// wireDocument groups the envelope and every payload shape, keyed by kind.
type wireDocument struct {
	Envelope envelopeDoc     `json:"envelope"`
	Snapshot snapshotPayload `json:"game-state"`
	Kick     wireBall        `json:"kick-ball"`
	Goal     goalPayload     `json:"goal-scored"`
	Join     joinPayload     `json:"player-join"`
	Leave    leavePayload    `json:"player-leave"`
}

// Schema returns a JSON Schema describing the JSON wire format.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	return reflector.Reflect(new(wireDocument))
}

// SchemaJSON returns Schema rendered as indented JSON.
func SchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
