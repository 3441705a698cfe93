package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/common"
	"github.com/milk9111/strafe/sim/component"
	"github.com/milk9111/strafe/sim/simtest"
)

func TestRespawnTriggers(t *testing.T) {
	cases := []struct {
		name  string
		setup func(b *component.Body, st *component.TickState)
	}{
		{"void", func(b *component.Body, st *component.TickState) { b.Position = mgl64.Vec3{0, -51, 0} }},
		{"nan_position", func(b *component.Body, st *component.TickState) { b.Position[0] = math.NaN() }},
		{"inf_velocity", func(b *component.Body, st *component.TickState) { b.Velocity[1] = math.Inf(-1) }},
		{"requested", func(b *component.Body, st *component.TickState) { st.RespawnRequested = true }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx, w := onFloor()
			ctx.Spawn = component.Spawn{Position: mgl64.Vec3{3, 1, 4}, Yaw: 0.5}
			ctx.Body.Velocity = mgl64.Vec3{1, 2, 3}
			ctx.Loadout.Ammo[component.WeaponRocket].Magazine = 0
			ctx.Pool.Spawn(component.Projectile{Kind: component.WeaponRocket})
			ctx.Zones.Push(component.Hazard(10))
			ctx.State.Stance.Current = component.StanceProne
			c.setup(ctx.Body, ctx.State)

			simtest.Advance(ctx, NewRespawnSystem())

			b := ctx.Body
			if b.Position != ctx.Spawn.Position || b.Velocity != (mgl64.Vec3{}) || b.Yaw != 0.5 {
				t.Fatalf("expected body at spawn, got pos=%v vel=%v yaw=%v", b.Position, b.Velocity, b.Yaw)
			}
			if w.Teleports != 1 || w.Feet != ctx.Spawn.Position || w.Height != component.StanceStanding.Height() {
				t.Fatalf("expected the collider teleported and stood up")
			}
			if ctx.State.Stance.Current != component.StanceStanding || ctx.State.GraceTicks != ctx.Const.RespawnGraceTicks {
				t.Fatalf("expected tick state reset with grace, got %+v", ctx.State.Stance)
			}
			if ctx.Loadout.Ammo[component.WeaponRocket].Magazine != 4 || ctx.Pool.ActiveCount() != 0 || ctx.Zones.Len() != 0 {
				t.Fatalf("expected loadout, pool and zones reset")
			}
			if ctx.Events.CountSound(component.SoundRespawn) != 1 {
				t.Fatalf("expected a respawn sound")
			}
		})
	}
}

func TestRespawnDroppedDuringGrace(t *testing.T) {
	ctx, w := onFloor()
	ctx.State.GraceTicks = 3
	ctx.State.RespawnRequested = true

	simtest.Advance(ctx, NewRespawnSystem())
	if w.Teleports != 0 {
		t.Fatalf("expected the request to be ignored during grace")
	}
	if ctx.State.RespawnRequested {
		t.Fatalf("expected the request to be consumed")
	}

	ctx.State.GraceTicks = 0
	simtest.Advance(ctx, NewRespawnSystem())
	if w.Teleports != 0 {
		t.Fatalf("a dropped request must not come back")
	}
}

func TestMouseLook(t *testing.T) {
	cases := []struct {
		name      string
		weapon    component.WeaponKind
		ads       float64
		dx, dy    float64
		wantYaw   float64
		wantPitch float64
	}{
		{"hip", component.WeaponRocket, 0, 100, 0, -0.25, 0},
		{"scoped", component.WeaponSniper, 1, 100, 0, -0.25 * 0.35, 0},
		{"pitch_clamped_up", component.WeaponRocket, 0, 0, -1e6, 0, 89 * math.Pi / 180},
		{"pitch_clamped_down", component.WeaponRocket, 0, 0, 1e6, 0, -89 * math.Pi / 180},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx, _ := onFloor()
			equip(ctx, c.weapon)
			ctx.State.ADS = c.ads
			ctx.Input.MouseDX = c.dx
			ctx.Input.MouseDY = c.dy

			simtest.Advance(ctx, NewRespawnSystem())
			requireApprox(t, "yaw", ctx.Body.Yaw, c.wantYaw, 1e-12)
			requireApprox(t, "pitch", ctx.Body.Pitch, c.wantPitch, 1e-12)
			if ctx.Input.MouseDX != 0 || ctx.Input.MouseDY != 0 {
				t.Fatalf("expected mouse deltas consumed")
			}
		})
	}
}

func TestWrapAngle(t *testing.T) {
	for _, a := range []float64{0, 1, -1, 3 * math.Pi, -3 * math.Pi, 100} {
		w := common.WrapAngle(a)
		if w < -math.Pi || w >= math.Pi {
			t.Fatalf("WrapAngle(%v) = %v out of range", a, w)
		}
		requireApprox(t, "sin", math.Sin(w), math.Sin(a), 1e-9)
	}
}
