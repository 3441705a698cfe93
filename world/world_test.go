package world

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/levels"
	"github.com/milk9111/strafe/prefabs"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

type zoneRecorder struct {
	events []component.ZoneEvent
}

func (z *zoneRecorder) PushZone(evt component.ZoneEvent) bool {
	z.events = append(z.events, evt)
	return true
}

type anchorRecorder struct {
	points []mgl64.Vec3
}

func (a *anchorRecorder) AddAnchor(p mgl64.Vec3) bool {
	a.points = append(a.points, p)
	return true
}

func box(min, max mgl64.Vec3) levels.Box {
	return levels.Box{Min: min, Max: max}
}

func testLevel() *levels.Level {
	void := -20.0
	return &levels.Level{
		Name:  "test",
		Spawn: &levels.Spawn{Position: mgl64.Vec3{0, 0, 0}},
		Solids: []levels.Box{
			box(mgl64.Vec3{-50, -1, -50}, mgl64.Vec3{50, 0, 50}),
			box(mgl64.Vec3{-5, 0, -11}, mgl64.Vec3{5, 4, -10}),
		},
		Targets: []levels.Target{
			{Name: "dummy", Feet: mgl64.Vec3{20, 0, 0}, Height: 2, Width: 1},
		},
		Triggers: []levels.Trigger{
			{Name: "pad", Kind: "boost_pad", Min: mgl64.Vec3{-1, 0, 4}, Max: mgl64.Vec3{1, 0.5, 6}, Dir: mgl64.Vec3{0, 0, -1}},
		},
		Anchors: []mgl64.Vec3{{0, 20, 0}, {5, 15, -5}},
		VoidY:   &void,
	}
}

func newTestWorld(t *testing.T, lvl *levels.Level, logger *log.Logger) *World {
	t.Helper()
	w, err := New(lvl, WithLogger(logger))
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return w
}

func TestCastRay(t *testing.T) {
	w := newTestWorld(t, testLevel(), nil)
	tests := []struct {
		name   string
		origin mgl64.Vec3
		dir    mgl64.Vec3
		max    float64
		hit    bool
		dist   float64
		normal mgl64.Vec3
		zone   component.HitZone
		target bool
	}{
		{name: "wall", origin: mgl64.Vec3{0, 1, 0}, dir: mgl64.Vec3{0, 0, -1}, max: 50, hit: true, dist: 10, normal: mgl64.Vec3{0, 0, 1}},
		{name: "floor", origin: mgl64.Vec3{3, 2, 3}, dir: mgl64.Vec3{0, -1, 0}, max: 50, hit: true, dist: 2, normal: mgl64.Vec3{0, 1, 0}},
		{name: "out of range", origin: mgl64.Vec3{0, 1, 0}, dir: mgl64.Vec3{0, 0, -1}, max: 5},
		{name: "head", origin: mgl64.Vec3{0, 1.9, 0}, dir: mgl64.Vec3{1, 0, 0}, max: 50, hit: true, dist: 19.7, normal: mgl64.Vec3{-1, 0, 0}, zone: component.ZoneHead, target: true},
		{name: "torso", origin: mgl64.Vec3{0, 1.2, 0}, dir: mgl64.Vec3{1, 0, 0}, max: 50, hit: true, dist: 19.5, normal: mgl64.Vec3{-1, 0, 0}, zone: component.ZoneTorso, target: true},
		{name: "legs", origin: mgl64.Vec3{0, 0.5, 0}, dir: mgl64.Vec3{1, 0, 0}, max: 50, hit: true, dist: 19.5, normal: mgl64.Vec3{-1, 0, 0}, zone: component.ZoneLimb, target: true},
		{name: "trigger ignored", origin: mgl64.Vec3{0, 0.25, 8}, dir: mgl64.Vec3{0, 0, -1}, max: 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hit, ok := w.CastRay(tc.origin, tc.dir, tc.max)
			if ok != tc.hit {
				t.Fatalf("expected hit=%v, got %v (%+v)", tc.hit, ok, hit)
			}
			if !ok {
				return
			}
			if diff := hit.Distance - tc.dist; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("expected distance %f, got %f", tc.dist, hit.Distance)
			}
			if hit.Normal != tc.normal {
				t.Fatalf("expected normal %v, got %v", tc.normal, hit.Normal)
			}
			hb, isTarget := w.Lookup(hit.Collider)
			if isTarget != tc.target {
				t.Fatalf("expected target=%v for collider %d", tc.target, hit.Collider)
			}
			if isTarget && (hb.Zone != tc.zone || hb.Target != 0) {
				t.Fatalf("expected zone %v of target 0, got %+v", tc.zone, hb)
			}
		})
	}
}

func TestMoveCharacter(t *testing.T) {
	w := newTestWorld(t, testLevel(), nil)

	w.SetCharacterPosition(mgl64.Vec3{0, 1, 0})
	res := w.MoveCharacter(mgl64.Vec3{0, -3, 0})
	if !res.Grounded || res.Movement.Y() != -1 {
		t.Fatalf("expected to land on the floor, got %+v", res)
	}

	w.SetCharacterPosition(mgl64.Vec3{0, 0, -9})
	res = w.MoveCharacter(mgl64.Vec3{0.2, 0, -1})
	if z := res.Movement.Z() + 0.6; z > 1e-9 || z < -1e-9 {
		t.Fatalf("expected the wall to clip the move near z=-9.6, got %+v", res.Movement)
	}
	if res.Movement.X() != 0.2 {
		t.Fatalf("expected to keep sliding along x, got %+v", res.Movement)
	}
	found := false
	for i := 0; i < res.NumNormals; i++ {
		if res.Normals[i] == (mgl64.Vec3{0, 0, 1}) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a wall normal, got %v", res.Normals[:res.NumNormals])
	}

	w.SetCharacterHeight(0.6)
	if h := w.Character().Max.Y() - w.Character().Min.Y(); h != 0.6 {
		t.Fatalf("expected the collider height to follow, got %f", h)
	}
}

func TestSplashTargets(t *testing.T) {
	w := newTestWorld(t, testLevel(), nil)
	var out []sim.SplashTarget

	out = w.TargetsInRadius(mgl64.Vec3{18, 1, 0}, 3, out)
	if len(out) != 1 || out[0].Target != 0 || out[0].Center != (mgl64.Vec3{20, 1, 0}) {
		t.Fatalf("expected one target centred at (20,1,0), got %+v", out)
	}
	out = w.TargetsInRadius(mgl64.Vec3{10, 1, 0}, 3, out[:0])
	if len(out) != 0 {
		t.Fatalf("expected nothing in range, got %+v", out)
	}
}

func TestApplyHit(t *testing.T) {
	w := newTestWorld(t, testLevel(), nil)
	if w.ApplyHit(component.HitEvent{Target: 0, Damage: 60}) {
		t.Fatalf("expected the first hit to leave the target standing")
	}
	if !w.ApplyHit(component.HitEvent{Target: 0, Damage: 60}) {
		t.Fatalf("expected the second hit to kill")
	}
	info := w.Targets()[0]
	if info.Kills != 1 || info.Health != targetHealth {
		t.Fatalf("expected one kill and a fresh target, got %+v", info)
	}
	if w.ApplyHit(component.HitEvent{Target: 5, Damage: 10}) {
		t.Fatalf("expected unknown targets to be ignored")
	}
}

func TestPlainTriggerFiresOnEntry(t *testing.T) {
	w := newTestWorld(t, testLevel(), nil)
	sink := &zoneRecorder{}

	w.SetCharacterPosition(mgl64.Vec3{0, 0, 0})
	w.UpdateTriggers(0, mgl64.Vec3{}, sink)
	w.SetCharacterPosition(mgl64.Vec3{0, 0, 5})
	for i := 0; i < 3; i++ {
		w.UpdateTriggers(0, mgl64.Vec3{}, sink)
	}
	w.SetCharacterPosition(mgl64.Vec3{0, 0, 10})
	w.UpdateTriggers(0, mgl64.Vec3{}, sink)
	w.SetCharacterPosition(mgl64.Vec3{0, 0, 5})
	w.UpdateTriggers(0, mgl64.Vec3{}, sink)

	if len(sink.events) != 2 {
		t.Fatalf("expected one event per entry, got %d", len(sink.events))
	}
	if sink.events[0] != component.BoostPad(mgl64.Vec3{0, 0, -1}) {
		t.Fatalf("unexpected event %+v", sink.events[0])
	}
}

func scriptLevel(script string) *levels.Level {
	lvl := testLevel()
	lvl.Triggers = []levels.Trigger{
		{Name: "scripted", Kind: levels.TriggerScript, Min: mgl64.Vec3{-1, 0, 4}, Max: mgl64.Vec3{1, 0.5, 6}, Script: script},
	}
	return lvl
}

func TestLavaScript(t *testing.T) {
	w := newTestWorld(t, scriptLevel("lava"), nil)
	sink := &zoneRecorder{}
	w.SetCharacterPosition(mgl64.Vec3{0, 0, 5})

	for _, now := range []float64{0, 0.01, 0.02, 0.6} {
		w.UpdateTriggers(now, mgl64.Vec3{}, sink)
	}
	if len(sink.events) != 2 {
		t.Fatalf("expected two burns, got %+v", sink.events)
	}
	for _, evt := range sink.events {
		if evt != component.Hazard(15) {
			t.Fatalf("expected 15 damage while standing still, got %+v", evt)
		}
	}
}

func TestLaunchLadderScript(t *testing.T) {
	var logs bytes.Buffer
	w := newTestWorld(t, scriptLevel("launch_ladder"), log.New(&logs, "", 0))
	sink := &zoneRecorder{}

	w.SetCharacterPosition(mgl64.Vec3{0, 0, 5})
	w.UpdateTriggers(0, mgl64.Vec3{}, sink)
	w.SetCharacterPosition(mgl64.Vec3{0, 0, 0})
	w.UpdateTriggers(1, mgl64.Vec3{}, sink)
	w.SetCharacterPosition(mgl64.Vec3{0, 0, 5})
	w.UpdateTriggers(2, mgl64.Vec3{}, sink)

	if len(sink.events) != 2 {
		t.Fatalf("expected two launches, got %+v", sink.events)
	}
	if sink.events[0].Velocity != (mgl64.Vec3{0, 11, 0}) || sink.events[1].Velocity != (mgl64.Vec3{0, 14, 0}) {
		t.Fatalf("expected the second rung to launch higher, got %+v", sink.events)
	}
	if !strings.Contains(logs.String(), "rung 2") {
		t.Fatalf("expected the script to log its rung, got %q", logs.String())
	}
}

func TestBrokenScriptIsDisabled(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "scripts"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	src := "on_enter := func(engine, state) { engine.hazard(\"lots\") }\non_stay := func(engine, state) {}\non_exit := func(engine, state) {}\n"
	if err := os.WriteFile(filepath.Join(dir, "scripts", "broken.tengo"), []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	old := prefabs.Dir
	prefabs.Dir = dir
	t.Cleanup(func() { prefabs.Dir = old })

	var logs bytes.Buffer
	w := newTestWorld(t, scriptLevel("broken"), log.New(&logs, "", 0))
	sink := &zoneRecorder{}
	w.SetCharacterPosition(mgl64.Vec3{0, 0, 5})
	w.UpdateTriggers(0, mgl64.Vec3{}, sink)
	w.SetCharacterPosition(mgl64.Vec3{0, 0, 0})
	w.UpdateTriggers(1, mgl64.Vec3{}, sink)
	w.SetCharacterPosition(mgl64.Vec3{0, 0, 5})
	w.UpdateTriggers(2, mgl64.Vec3{}, sink)

	if len(sink.events) != 0 {
		t.Fatalf("expected no events from a failing script, got %+v", sink.events)
	}
	if n := strings.Count(logs.String(), "script error"); n != 1 {
		t.Fatalf("expected the error to be logged once, got %d in %q", n, logs.String())
	}
	if !w.Triggers()[0].Disabled {
		t.Fatalf("expected the trigger to be disabled")
	}
}

func TestMissingScriptFailsLevel(t *testing.T) {
	if _, err := New(scriptLevel("no_such_script")); err == nil {
		t.Fatalf("expected a missing script to fail the build")
	}
}

func TestAnchorsAndVoid(t *testing.T) {
	w := newTestWorld(t, testLevel(), nil)
	reg := &anchorRecorder{}
	if n := w.RegisterAnchors(reg); n != 2 || reg.points[1] != (mgl64.Vec3{5, 15, -5}) {
		t.Fatalf("expected both anchors registered, got %d %v", n, reg.points)
	}
	if y, ok := w.VoidY(); !ok || y != -20 {
		t.Fatalf("expected the level void height, got %f %v", y, ok)
	}
	if len(w.Solids()) != 2 {
		t.Fatalf("expected two solids, got %d", len(w.Solids()))
	}
}

func TestEmbeddedArenaBuilds(t *testing.T) {
	lvl, err := levels.LoadLevelFromFS(levels.DefaultLevel)
	if err != nil {
		t.Fatalf("load arena: %v", err)
	}
	var logs bytes.Buffer
	w := newTestWorld(t, lvl, log.New(&logs, "", 0))
	for _, tr := range w.Triggers() {
		if tr.Disabled {
			t.Fatalf("trigger %q failed to compile: %s", tr.Name, logs.String())
		}
	}
	w.SetCharacterPosition(lvl.Spawn.Position.Add(mgl64.Vec3{0, 0.5, 0}))
	if res := w.MoveCharacter(mgl64.Vec3{0, -1, 0}); !res.Grounded {
		t.Fatalf("expected the spawn to stand on the arena floor")
	}
}
