package replay

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/sim/component"
	"github.com/vmihailenco/msgpack/v5"
)

func recorded() *Recording {
	r := New("arena", 7)
	for tick := uint64(10); tick < 15; tick++ {
		r.RecordFrame(tick, component.Pose{Position: mgl64.Vec3{float64(tick), 1, 0}, Pitch: 0.1})
	}
	return r
}

func TestSaveLoad(t *testing.T) {
	r := recorded()
	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(&buf)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Level != "arena" || got.Seed != 7 || got.TickRate != component.TickRate {
		t.Fatalf("unexpected header %+v", got)
	}
	if got.Len() != 5 {
		t.Fatalf("expected 5 frames, got %d", got.Len())
	}
	for i := range r.Frames {
		if got.Frames[i].Pose() != r.Frames[i].Pose() || got.Frames[i].Tick != r.Frames[i].Tick {
			t.Fatalf("frame %d: expected %+v, got %+v", i, r.Frames[i], got.Frames[i])
		}
	}
}

func TestEmpty(t *testing.T) {
	r := New("arena", 1)
	if err := r.Save(&bytes.Buffer{}); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty on save, got %v", err)
	}

	data, err := msgpack.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := Load(bytes.NewReader(data)); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty on load, got %v", err)
	}
	if _, err := Load(bytes.NewReader([]byte{0xc1})); err == nil || errors.Is(err, ErrEmpty) {
		t.Fatalf("expected a decode error, got %v", err)
	}
}

func TestLookup(t *testing.T) {
	r := recorded()

	if d := r.Duration(); d != 4*time.Second/component.TickRate {
		t.Fatalf("unexpected duration %v", d)
	}
	if p, ok := r.PoseAt(12); !ok || p.Position.X() != 12 {
		t.Fatalf("expected tick 12, got %+v %v", p, ok)
	}
	if _, ok := r.PoseAt(20); ok {
		t.Fatalf("expected no frame at tick 20")
	}

	tests := []struct {
		name    string
		elapsed time.Duration
		x       float64
	}{
		{name: "start", elapsed: 0, x: 10},
		{name: "between ticks", elapsed: 3 * time.Second / (2 * component.TickRate), x: 11.5},
		{name: "before start", elapsed: -time.Second, x: 10},
		{name: "past end", elapsed: time.Second, x: 14},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, ok := r.Sample(tc.elapsed)
			if !ok {
				t.Fatalf("expected a sample")
			}
			if p.Position.X() != tc.x || p.Position.Y() != 1 {
				t.Fatalf("expected x=%f, got %+v", tc.x, p.Position)
			}
		})
	}

	r.Reset()
	if _, ok := r.Sample(0); ok {
		t.Fatalf("expected nothing after reset")
	}
}

func TestFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.replay")
	if err := recorded().SaveFile(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Len() != 5 {
		t.Fatalf("expected 5 frames, got %d", got.Len())
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected a missing file to fail")
	}
}
