package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

type hitCounter struct {
	flushes int
	hits    int
}

func (h *hitCounter) FlushEvents(tick uint64, events *sim.EventBuffer) {
	h.flushes++
	h.hits += len(events.Hits)
}

func newTestSession(t *testing.T, sinks Sinks) *Session {
	t.Helper()
	s, err := NewSession(SessionConfig{Seed: 3, Sinks: sinks})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func TestSessionWiresLevel(t *testing.T) {
	s := newTestSession(t, Sinks{})
	if !s.Controller.Ready() {
		t.Fatalf("expected a ready controller")
	}
	if n := s.Controller.ctx.Anchors.Len(); n != len(s.Level.Anchors) {
		t.Fatalf("expected %d anchors, got %d", len(s.Level.Anchors), n)
	}
	if got := s.Controller.Constants().VoidY; got != *s.Level.VoidY {
		t.Fatalf("expected the level void height %f, got %f", *s.Level.VoidY, got)
	}
	if s.Controller.Pose().Position != s.Level.Spawn.Position {
		t.Fatalf("expected to start at the spawn")
	}
}

func TestSessionAppliesHits(t *testing.T) {
	down := &hitCounter{}
	s := newTestSession(t, Sinks{Events: down})

	buf := sim.NewEventBuffer()
	buf.Hit(component.HitEvent{Target: 0, Damage: 60})
	buf.Hit(component.HitEvent{Target: 0, Damage: 60})
	s.FlushEvents(1, buf)

	if s.Kills() != 1 {
		t.Fatalf("expected one kill, got %d", s.Kills())
	}
	if down.flushes != 1 || down.hits != 2 {
		t.Fatalf("expected the events forwarded, got %+v", down)
	}

	other := &hitCounter{}
	s.SetSinks(Sinks{Events: other})
	s.FlushEvents(2, buf)
	if other.flushes != 1 || down.flushes != 1 || s.Kills() != 1 {
		t.Fatalf("expected the new sink to take over, got %+v %+v kills=%d", other, down, s.Kills())
	}
}

func TestSessionTriggersFeedController(t *testing.T) {
	s := newTestSession(t, Sinks{})
	// Centre of the arena's launch pad.
	s.Controller.SetSpawn(component.Spawn{Position: mgl64.Vec3{21.5, 0, 21.5}})
	s.Controller.RequestRespawn()

	in := &component.InputSnapshot{}
	for i := 0; i < 24; i++ {
		s.Tick(in, 0)
	}
	if y := s.Controller.Pose().Position.Y(); y < 1 {
		t.Fatalf("expected the launch pad to throw the player up, y=%f", y)
	}
}

func TestSessionReload(t *testing.T) {
	s := newTestSession(t, Sinks{})

	changed, err := s.Reload("prefabs/unrelated.yaml")
	if err != nil || changed {
		t.Fatalf("expected unrelated files to be ignored, got %v %v", changed, err)
	}
	changed, err = s.Reload("prefabs/tuning.yaml")
	if err != nil || !changed {
		t.Fatalf("expected tuning to reload, got %v %v", changed, err)
	}
	if got := s.Controller.Constants().VoidY; got != *s.Level.VoidY {
		t.Fatalf("expected the level void height to survive a reload, got %f", got)
	}

	old := s.World
	changed, err = s.Reload("prefabs/scripts/lava.tengo")
	if err != nil || !changed {
		t.Fatalf("expected a script change to rebuild, got %v %v", changed, err)
	}
	if s.World == old || s.Controller.ctx.World != s.World {
		t.Fatalf("expected the controller to use the rebuilt world")
	}
	if n := s.Controller.ctx.Anchors.Len(); n != len(s.Level.Anchors) {
		t.Fatalf("expected anchors re-registered once, got %d", n)
	}
}
