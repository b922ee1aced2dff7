package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec converts messages to and from bytes.
type Codec interface {
	Name() string
	Encode(msg Message) ([]byte, error)
	Decode(data []byte) (Message, error)
}

// Codec names accepted by CodecByName.
const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

// CodecByName returns the codec registered under name.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", CodecJSON:
		return JSONCodec{}, nil
	case CodecMsgpack:
		return MsgpackCodec{}, nil
	}
	return nil, fmt.Errorf("unknown codec %q", name)
}

var errEmpty = errors.New("empty frame")

// JSONCodec is the default text wire format:
// {"type": kind, "data": payload, "senderId": id, "timestamp": ms}.
type JSONCodec struct{}

type jsonEnvelope struct {
	Type      Kind            `json:"type"`
	Data      json.RawMessage `json:"data"`
	SenderID  string          `json:"senderId"`
	Timestamp int64           `json:"timestamp"`
}

func (JSONCodec) Name() string { return CodecJSON }

func (JSONCodec) Encode(msg Message) ([]byte, error) {
	payload, err := payloadOf(msg)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s payload: %w", msg.Kind(), err)
	}
	h := msg.Meta()
	return json.Marshal(jsonEnvelope{
		Type:      msg.Kind(),
		Data:      data,
		SenderID:  h.SenderID,
		Timestamp: h.Timestamp,
	})
}

func (JSONCodec) Decode(data []byte) (Message, error) {
	if len(data) == 0 {
		return nil, malformed("", errEmpty)
	}
	var env jsonEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, malformed("", err)
	}
	if !env.Type.Known() {
		return nil, &DecodeError{Kind: env.Type, Reason: ErrUnknownKind}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, malformed(env.Type, fmt.Errorf("empty payload"))
	}
	h := Header{SenderID: env.SenderID, Timestamp: env.Timestamp}
	return messageOf(env.Type, h, func(v any) error {
		return json.Unmarshal(env.Data, v)
	})
}

// MsgpackCodec carries the same envelope as JSONCodec in MessagePack.
type MsgpackCodec struct{}

type msgpackEnvelope struct {
	Type      Kind               `msgpack:"type"`
	Data      msgpack.RawMessage `msgpack:"data"`
	SenderID  string             `msgpack:"senderId"`
	Timestamp int64              `msgpack:"timestamp"`
}

func (MsgpackCodec) Name() string { return CodecMsgpack }

func (MsgpackCodec) Encode(msg Message) ([]byte, error) {
	payload, err := payloadOf(msg)
	if err != nil {
		return nil, err
	}
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s payload: %w", msg.Kind(), err)
	}
	h := msg.Meta()
	return msgpack.Marshal(&msgpackEnvelope{
		Type:      msg.Kind(),
		Data:      data,
		SenderID:  h.SenderID,
		Timestamp: h.Timestamp,
	})
}

func (MsgpackCodec) Decode(data []byte) (Message, error) {
	if len(data) == 0 {
		return nil, malformed("", errEmpty)
	}
	var env msgpackEnvelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, malformed("", err)
	}
	if !env.Type.Known() {
		return nil, &DecodeError{Kind: env.Type, Reason: ErrUnknownKind}
	}
	if len(env.Data) == 0 {
		return nil, malformed(env.Type, fmt.Errorf("empty payload"))
	}
	h := Header{SenderID: env.SenderID, Timestamp: env.Timestamp}
	return messageOf(env.Type, h, func(v any) error {
		return msgpack.Unmarshal(env.Data, v)
	})
}
