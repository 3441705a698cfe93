// Package replay records a run's pose once per tick and stores it as a
// msgpack file.
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/common"
	"github.com/milk9111/strafe/sim/component"
	"github.com/vmihailenco/msgpack/v5"
)

var ErrEmpty = errors.New("replay has no frames")

// Frame is one tick's pose.
type Frame struct {
	_msgpack struct{} `msgpack:",as_array"`

	Tick     uint64
	Position [3]float64
	Yaw      float64
	Pitch    float64
}

func (f Frame) Pose() component.Pose {
	return component.Pose{Position: f.Position, Yaw: f.Yaw, Pitch: f.Pitch}
}

// Recording is a run on one level. It satisfies engine.FrameRecorder.
// Ticks are expected to arrive in increasing order.
type Recording struct {
	Level    string  `msgpack:"level"`
	Seed     uint64  `msgpack:"seed"`
	TickRate int     `msgpack:"tick_rate"`
	Frames   []Frame `msgpack:"frames"`
}

func New(level string, seed uint64) *Recording {
	return &Recording{
		Level:    level,
		Seed:     seed,
		TickRate: component.TickRate,
		Frames:   make([]Frame, 0, component.TickRate*60),
	}
}

func (r *Recording) RecordFrame(tick uint64, pose component.Pose) {
	r.Frames = append(r.Frames, Frame{Tick: tick, Position: pose.Position, Yaw: pose.Yaw, Pitch: pose.Pitch})
}

func (r *Recording) Reset() {
	r.Frames = r.Frames[:0]
}

func (r *Recording) Len() int {
	return len(r.Frames)
}

// Duration is the span between the first and last frame.
func (r *Recording) Duration() time.Duration {
	if len(r.Frames) < 2 || r.TickRate <= 0 {
		return 0
	}
	ticks := r.Frames[len(r.Frames)-1].Tick - r.Frames[0].Tick
	return time.Duration(ticks) * time.Second / time.Duration(r.TickRate)
}

// PoseAt returns the frame recorded on tick.
func (r *Recording) PoseAt(tick uint64) (component.Pose, bool) {
	i := sort.Search(len(r.Frames), func(i int) bool { return r.Frames[i].Tick >= tick })
	if i == len(r.Frames) || r.Frames[i].Tick != tick {
		return component.Pose{}, false
	}
	return r.Frames[i].Pose(), true
}

// Sample interpolates the pose elapsed after the first frame, clamping to
// the ends.
func (r *Recording) Sample(elapsed time.Duration) (component.Pose, bool) {
	if len(r.Frames) == 0 {
		return component.Pose{}, false
	}
	rate := r.TickRate
	if rate <= 0 {
		rate = component.TickRate
	}
	pos := float64(r.Frames[0].Tick) + elapsed.Seconds()*float64(rate)
	i := sort.Search(len(r.Frames), func(i int) bool { return float64(r.Frames[i].Tick) > pos })
	switch {
	case i == 0:
		return r.Frames[0].Pose(), true
	case i == len(r.Frames):
		return r.Frames[i-1].Pose(), true
	}
	a, b := r.Frames[i-1], r.Frames[i]
	t := (pos - float64(a.Tick)) / float64(b.Tick-a.Tick)
	pa, pb := mgl64.Vec3(a.Position), mgl64.Vec3(b.Position)
	return component.Pose{
		Position: pa.Add(pb.Sub(pa).Mul(t)),
		Yaw:      a.Yaw + common.WrapAngle(b.Yaw-a.Yaw)*t,
		Pitch:    common.Lerp(a.Pitch, b.Pitch, t),
	}, true
}

func (r *Recording) Save(w io.Writer) error {
	if len(r.Frames) == 0 {
		return ErrEmpty
	}
	bw := bufio.NewWriter(w)
	if err := msgpack.NewEncoder(bw).Encode(r); err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	return bw.Flush()
}

func Load(rd io.Reader) (*Recording, error) {
	var r Recording
	if err := msgpack.NewDecoder(bufio.NewReader(rd)).Decode(&r); err != nil {
		return nil, fmt.Errorf("replay: decode: %w", err)
	}
	if len(r.Frames) == 0 {
		return nil, ErrEmpty
	}
	return &r, nil
}

func (r *Recording) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("replay: save %s: %w", path, err)
	}
	if err := r.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func LoadFile(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: load %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}
