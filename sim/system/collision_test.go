package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
	"github.com/milk9111/strafe/sim/simtest"
)

func TestSubsteps(t *testing.T) {
	cases := []struct {
		name         string
		displacement float64
		maxStep      float64
		max          int
		want         int
	}{
		{"still", 0, 0.25, 8, 1},
		{"one_step", 0.25, 0.25, 8, 1},
		{"just_over", 0.26, 0.25, 8, 2},
		{"capped", 100, 0.25, 8, 8},
		{"non_finite", math.Inf(1), 0.25, 8, 8},
		{"nan", math.NaN(), 0.25, 8, 8},
		{"no_step_limit", 3, 0, 8, 1},
		{"bad_cap", 3, 0.25, 0, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Substeps(c.displacement, c.maxStep, c.max); got != c.want {
				t.Fatalf("expected %d substeps, got %d", c.want, got)
			}
		})
	}

	prev := 0
	for d := 0.0; d < 5; d += 0.01 {
		n := Substeps(d, 0.25, 8)
		if n < prev {
			t.Fatalf("substeps decreased at %v: %d < %d", d, n, prev)
		}
		prev = n
	}
}

// scriptedWorld lets each MoveCharacter call through by the next fraction.
type scriptedWorld struct {
	allow []float64
	calls int
}

func (w *scriptedWorld) CastRay(origin, dir mgl64.Vec3, maxDist float64) (sim.RayHit, bool) {
	return sim.RayHit{Collider: sim.NoHandle}, false
}

func (w *scriptedWorld) MoveCharacter(desired mgl64.Vec3) sim.MoveResult {
	f := w.allow[min(w.calls, len(w.allow)-1)]
	w.calls++
	res := sim.MoveResult{Movement: desired.Mul(f)}
	if f < 1 {
		res.AddNormal(mgl64.Vec3{-1, 0, 0})
	}
	return res
}

func (w *scriptedWorld) SetCharacterPosition(feet mgl64.Vec3) {}

func (w *scriptedWorld) SetCharacterHeight(height float64) {}

func TestWholeTickBlocking(t *testing.T) {
	cases := []struct {
		name  string
		allow []float64
		keeps bool
	}{
		{"one_substep_blocked", []float64{0, 1}, true},
		{"all_blocked", []float64{0, 0}, false},
		{"mostly_blocked", []float64{0.2, 0.2}, false},
		{"free", []float64{1, 1}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := simtest.NewContext(simtest.NewWorld())
			w := &scriptedWorld{allow: c.allow}
			ctx.World = w
			ctx.Body.Velocity = mgl64.Vec3{40, 0, 0}

			simtest.Advance(ctx, NewCollisionSystem())
			if w.calls != 2 {
				t.Fatalf("expected 2 substeps, got %d", w.calls)
			}
			if kept := ctx.Body.Velocity.X() != 0; kept != c.keeps {
				t.Fatalf("expected velocity kept=%v, got %v", c.keeps, ctx.Body.Velocity)
			}
			if !ctx.State.WallRun.HasContact && c.allow[0] < 1 {
				t.Fatalf("expected wall contact to be recorded")
			}
		})
	}
}

func TestLanding(t *testing.T) {
	w := simtest.NewWorld(simtest.Floor(0))
	w.Feet = mgl64.Vec3{0, 0.06, 0}
	ctx := simtest.NewContext(w)
	ctx.Body.Velocity = mgl64.Vec3{0, -10, 0}

	simtest.Advance(ctx, NewCollisionSystem())
	if !ctx.Body.Grounded {
		t.Fatalf("expected to land")
	}
	if ctx.Body.Velocity.Y() != 0 {
		t.Fatalf("expected vertical velocity cleared, got %v", ctx.Body.Velocity.Y())
	}
	if ctx.State.Bhop.LastLanding != 0 {
		t.Fatalf("expected landing stamped at tick 0, got %v", ctx.State.Bhop.LastLanding)
	}
	want := (10 - ctx.Const.LandingDipThreshold) * ctx.Const.LandingDipScale
	requireApprox(t, "landing dip", ctx.State.Camera.LandingDip, want, 1e-12)
	if ctx.Events.CountSound(component.SoundLand) != 1 {
		t.Fatalf("expected a land sound")
	}
	requireApprox(t, "feet", ctx.Body.Position.Y(), 0, 1e-12)

	simtest.Advance(ctx, NewCollisionSystem())
	if ctx.Events.CountSound(component.SoundLand) != 0 {
		t.Fatalf("landing fired twice")
	}
}

func TestLandingClearsPerfectBhop(t *testing.T) {
	w := simtest.NewWorld(simtest.Floor(0))
	w.Feet = mgl64.Vec3{0, 0.5, 0}
	ctx := simtest.NewContext(w)
	ctx.State.Bhop.Perfect = true
	ctx.Body.Velocity = mgl64.Vec3{0, -2, 0}

	for i := 0; i < 128 && !ctx.Body.Grounded; i++ {
		simtest.Advance(ctx, NewCollisionSystem())
		if !ctx.Body.Grounded && !ctx.State.Bhop.Perfect {
			t.Fatalf("perfect bhop cleared before landing at tick %d", i)
		}
	}
	if !ctx.Body.Grounded {
		t.Fatalf("expected to land")
	}
	if ctx.State.Bhop.Perfect {
		t.Fatalf("expected landing to clear the perfect bhop flag")
	}
}

func TestCeilingStopsAscent(t *testing.T) {
	ceiling := simtest.Floor(0)
	ceiling.Min[1], ceiling.Max[1] = 2, 3
	w := simtest.NewWorld(ceiling)
	w.Feet = mgl64.Vec3{0, 0.15, 0}
	ctx := simtest.NewContext(w)
	ctx.Body.Velocity = mgl64.Vec3{0, 8, 0}
	ctx.State.Jump.Ascending = true

	simtest.Advance(ctx, NewCollisionSystem())
	if ctx.Body.Velocity.Y() != 0 || ctx.State.Jump.Ascending {
		t.Fatalf("expected the ceiling to end the ascent, v=%v", ctx.Body.Velocity)
	}
}

func TestNonFiniteVelocityRecovers(t *testing.T) {
	ctx, w := onFloor()
	ctx.Body.Velocity = mgl64.Vec3{math.NaN(), 0, 0}

	simtest.Advance(ctx, NewCollisionSystem())
	if ctx.Body.Velocity != (mgl64.Vec3{}) {
		t.Fatalf("expected velocity zeroed, got %v", ctx.Body.Velocity)
	}
	if !ctx.State.RespawnRequested {
		t.Fatalf("expected a respawn request")
	}
	if w.Moves != 0 {
		t.Fatalf("expected no move with a non-finite velocity")
	}
}

func TestSpeedCap(t *testing.T) {
	ctx, _ := onFloor()
	ctx.Body.Velocity = mgl64.Vec3{100, 0, 100}
	simtest.Advance(ctx, NewCollisionSystem())
	requireApprox(t, "speed", ctx.Body.Velocity.Len(), ctx.Const.MaxSpeed, 1e-9)
}

func TestFootsteps(t *testing.T) {
	ctx, _ := onFloor()
	steps := 0
	for i := 0; i < 128; i++ {
		ctx.Body.Velocity = mgl64.Vec3{0, 0, -ctx.Const.WalkSpeed}
		simtest.Advance(ctx, NewCollisionSystem())
		steps += ctx.Events.CountSound(component.SoundFootstep)
	}
	if steps != 2 {
		t.Fatalf("expected a step every half second, got %d", steps)
	}
}
