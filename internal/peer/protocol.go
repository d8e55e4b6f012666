package peer

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/emberhost/skirmish/internal/domain"
)

// Frame types exchanged with peers. Every websocket message is a msgpack
// Envelope; the damage batch payload inside a FrameDamage envelope stays
// in its own fixed binary format and is carried opaque.
const (
	FrameHello    = "hello"
	FramePosition = "pos"
	FrameDamage   = "dmg"
)

// Envelope wraps all peer messages with a type tag
type Envelope struct {
	T string             `msgpack:"t"`
	D msgpack.RawMessage `msgpack:"d,omitempty"`
}

// HelloMsg is the first frame a peer sends after connecting
type HelloMsg struct {
	CombatantID domain.CombatantID `msgpack:"cid"`
	Name        string             `msgpack:"n"`
}

// PositionMsg updates a peer's last-known world position
type PositionMsg struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
	Z float64 `msgpack:"z"`
}

// EncodeFrame packs a payload into a typed envelope.
func EncodeFrame(frameType string, payload interface{}) ([]byte, error) {
	raw, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", frameType, err)
	}
	data, err := msgpack.Marshal(Envelope{T: frameType, D: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s envelope: %w", frameType, err)
	}
	return data, nil
}

// EncodeDamageFrame wraps an already-serialized damage batch. The batch
// bytes are copied into the frame, so the caller's buffer can be pooled
// immediately after this returns.
func EncodeDamageFrame(batch []byte) ([]byte, error) {
	raw, err := msgpack.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode damage payload: %w", err)
	}
	data, err := msgpack.Marshal(Envelope{T: FrameDamage, D: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to encode damage envelope: %w", err)
	}
	return data, nil
}

// DecodeFrame unpacks the envelope only; the payload is decoded by the
// handler for the frame type.
func DecodeFrame(data []byte) (*Envelope, error) {
	var env Envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode frame envelope: %w", err)
	}
	return &env, nil
}

// DecodePayload decodes an envelope payload into out.
func DecodePayload(env *Envelope, out interface{}) error {
	if err := msgpack.Unmarshal(env.D, out); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", env.T, err)
	}
	return nil
}
