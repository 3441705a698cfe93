// Package netsync carries the player's throttled position snapshot off the
// tick: a compact msgpack encoding and a websocket fan-out to spectators.
package netsync

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/sim/component"
	"github.com/vmihailenco/msgpack/v5"
)

var ErrShortSnapshot = errors.New("snapshot too short")

// Snapshot is one position update. It is encoded as a positional msgpack
// array so field names never go on the wire.
type Snapshot struct {
	_msgpack struct{} `msgpack:",as_array"`

	Tick     uint64
	Position [3]float64
	Velocity [3]float64
	Yaw      float64
	Pitch    float64
}

func NewSnapshot(tick uint64, pose component.Pose, velocity mgl64.Vec3) Snapshot {
	return Snapshot{
		Tick:     tick,
		Position: pose.Position,
		Velocity: velocity,
		Yaw:      pose.Yaw,
		Pitch:    pose.Pitch,
	}
}

func (s Snapshot) Pose() component.Pose {
	return component.Pose{Position: s.Position, Yaw: s.Yaw, Pitch: s.Pitch}
}

// Codec encodes snapshots into a reused buffer. It is not safe for
// concurrent use.
type Codec struct {
	buf bytes.Buffer
	enc *msgpack.Encoder
}

func NewCodec() *Codec {
	c := &Codec{}
	c.enc = msgpack.NewEncoder(&c.buf)
	return c
}

// Encode returns the encoded snapshot. The slice is only valid until the
// next call.
func (c *Codec) Encode(s Snapshot) ([]byte, error) {
	c.buf.Reset()
	if err := c.enc.Encode(&s); err != nil {
		return nil, fmt.Errorf("netsync: encode snapshot %d: %w", s.Tick, err)
	}
	return c.buf.Bytes(), nil
}

func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if len(data) == 0 {
		return s, ErrShortSnapshot
	}
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("netsync: decode snapshot: %w", err)
	}
	return s, nil
}

// EncodeString is the base64 form used when the snapshot is pasted as text.
func EncodeString(s Snapshot) (string, error) {
	data, err := msgpack.Marshal(&s)
	if err != nil {
		return "", fmt.Errorf("netsync: encode snapshot %d: %w", s.Tick, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func DecodeString(text string) (Snapshot, error) {
	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return Snapshot{}, fmt.Errorf("netsync: decode snapshot text: %w", err)
	}
	return Decode(data)
}
