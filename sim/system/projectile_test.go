package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
	"github.com/milk9111/strafe/sim/simtest"
)

func TestRocketExplodesOnWall(t *testing.T) {
	w := simtest.NewWorld(simtest.WallZ(-10, 50, 50))
	ctx := simtest.NewContext(w)
	ctx.Pool.Spawn(component.Projectile{
		Kind: component.WeaponRocket,
		Pos:  mgl64.Vec3{0, 2, 0},
		Vel:  mgl64.Vec3{0, 0, -ctx.Const.RocketSpeed},
	})

	limit := int(math.Ceil(10/ctx.Const.RocketSpeed/ctx.Dt)) + 1
	explosions := 0
	for i := 0; i < limit+20; i++ {
		simtest.Advance(ctx, NewProjectileSystem())
		if n := ctx.Events.CountVisual(component.VisualExplosion); n > 0 {
			if i > limit {
				t.Fatalf("explosion too late at tick %d", i)
			}
			explosions += n
			for _, v := range ctx.Events.Visuals {
				if v.Kind == component.VisualExplosion && v.Normal != (mgl64.Vec3{0, 0, 1}) {
					t.Fatalf("expected wall normal, got %v", v.Normal)
				}
			}
			if ctx.Events.CountVisual(component.VisualDecal) != 1 {
				t.Fatalf("expected a decal with the explosion")
			}
		}
	}
	if explosions != 1 {
		t.Fatalf("expected exactly one explosion, got %d", explosions)
	}
	if ctx.Pool.ActiveCount() != 0 {
		t.Fatalf("expected the rocket to be deactivated")
	}
}

func TestGrenadeBouncesOnceThenDetonates(t *testing.T) {
	w := simtest.NewWorld(simtest.Floor(0), simtest.WallZ(-3, 50, 50))
	w.Feet = mgl64.Vec3{0, 0, 40}
	ctx := simtest.NewContext(w)
	ctx.Pool.Spawn(component.Projectile{
		Kind: component.WeaponGrenade,
		Pos:  mgl64.Vec3{0, 1, 0},
		Vel:  mgl64.Vec3{0, 0, -10},
	})

	bounces, explosions := 0, 0
	for i := 0; i < 3*128 && ctx.Pool.ActiveCount() > 0; i++ {
		simtest.Advance(ctx, NewProjectileSystem())
		bounces += ctx.Events.CountSound(component.SoundBounce)
		explosions += ctx.Events.CountVisual(component.VisualExplosion)
	}
	if bounces != 1 || explosions != 1 {
		t.Fatalf("expected one bounce then one explosion, got %d bounces %d explosions", bounces, explosions)
	}
}

func TestGrenadeAfterFuseDetonatesOnFirstContact(t *testing.T) {
	w := simtest.NewWorld(simtest.Floor(0))
	w.Feet = mgl64.Vec3{0, 0, 40}
	ctx := simtest.NewContext(w)
	ctx.Tick = 3 * 128
	ctx.Pool.Spawn(component.Projectile{
		Kind: component.WeaponGrenade,
		Pos:  mgl64.Vec3{0, 0.1, 0},
		Vel:  mgl64.Vec3{0, -5, 0},
	})

	simtest.Advance(ctx, NewProjectileSystem())
	if ctx.Events.CountSound(component.SoundBounce) != 0 || ctx.Events.CountVisual(component.VisualExplosion) != 1 {
		t.Fatalf("expected immediate detonation past the fuse")
	}
}

func TestProjectileExpiryIsSilent(t *testing.T) {
	cases := []struct {
		name string
		p    component.Projectile
	}{
		{"lifetime", component.Projectile{Kind: component.WeaponRocket, Vel: mgl64.Vec3{0, 0, -1}, SpawnTime: -10}},
		{"void", component.Projectile{Kind: component.WeaponGrenade, Pos: mgl64.Vec3{0, -60, 0}}},
		{"non_finite", component.Projectile{Kind: component.WeaponRocket, Pos: mgl64.Vec3{math.NaN(), 0, 0}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := simtest.NewContext(simtest.NewWorld())
			ctx.Pool.Spawn(c.p)
			simtest.Advance(ctx, NewProjectileSystem())
			if ctx.Pool.ActiveCount() != 0 {
				t.Fatalf("expected deactivation")
			}
			if !ctx.Events.Empty() {
				t.Fatalf("expected no events, got %+v", *ctx.Events)
			}
		})
	}
}

func TestPoolIndicesStable(t *testing.T) {
	ctx := simtest.NewContext(simtest.NewWorld())
	ctx.Pool.Spawn(component.Projectile{Kind: component.WeaponRocket, SpawnTime: -10})
	second := ctx.Pool.Spawn(component.Projectile{Kind: component.WeaponRocket, Vel: mgl64.Vec3{0, 0, -1}})

	simtest.Advance(ctx, NewProjectileSystem())
	if ctx.Pool.Items[0].Active || !ctx.Pool.Items[second].Active {
		t.Fatalf("expected slot 0 freed in place and slot %d kept", second)
	}
	if idx := ctx.Pool.Spawn(component.Projectile{Kind: component.WeaponRocket}); idx != 0 {
		t.Fatalf("expected the freed slot to be reused, got %d", idx)
	}
}

func TestSplash(t *testing.T) {
	w := simtest.NewWorld(simtest.Floor(0))
	ctx := simtest.NewContext(w)
	simtest.Ground(ctx, w, mgl64.Vec3{})
	ctx.Splash = simtest.Targets{
		{Target: 1, Center: mgl64.Vec3{2, 1, 0}},
		{Target: 2, Center: mgl64.Vec3{30, 1, 0}},
	}
	ctx.Pool.Spawn(component.Projectile{
		Kind: component.WeaponRocket,
		Pos:  mgl64.Vec3{1, 0.1, 0},
		Vel:  mgl64.Vec3{0, -ctx.Const.RocketSpeed, 0},
	})

	simtest.Advance(ctx, NewProjectileSystem())
	if len(ctx.Events.Hits) != 1 || ctx.Events.Hits[0].Target != 1 || !ctx.Events.Hits[0].Splash {
		t.Fatalf("expected one splash hit on target 1, got %+v", ctx.Events.Hits)
	}
	if ctx.Body.Velocity.Len() == 0 || ctx.Body.Velocity.Len() > ctx.Const.SplashMaxDeltaV {
		t.Fatalf("unexpected self knockback %v", ctx.Body.Velocity)
	}
	if ctx.Body.Velocity.Y() <= 0 || ctx.Body.Velocity.X() >= 0 {
		t.Fatalf("expected knockback up and away from the blast, got %v", ctx.Body.Velocity)
	}
	if ctx.Body.Health >= component.MaxHealth {
		t.Fatalf("expected self damage, health %v", ctx.Body.Health)
	}
	if ctx.Events.CountSound(component.SoundHurt) != 1 {
		t.Fatalf("expected hurt sound")
	}
}

func TestFireThroughPipelineEmitsOneExplosion(t *testing.T) {
	ctx, _ := onFloor(simtest.WallZ(-10, 50, 50))
	ctx.Input.Fire = true
	systems := []sim.System{NewWeaponFireSystem(), NewProjectileSystem()}
	simtest.Advance(ctx, systems...)
	ctx.Input.Fire = false

	explosions := 0
	for i := 0; i < 128; i++ {
		simtest.Advance(ctx, systems...)
		explosions += ctx.Events.CountVisual(component.VisualExplosion)
	}
	if explosions != 1 {
		t.Fatalf("expected one explosion, got %d", explosions)
	}
}

func TestPointBlankRocketDetonatesOnWall(t *testing.T) {
	// The wall face sits at the collider edge, closer than the spawn offset.
	ctx, _ := onFloor(simtest.WallZ(-0.4, 50, 50))
	ctx.Input.Fire = true

	explosions := 0
	for i := 0; i < 3*128; i++ {
		simtest.Advance(ctx, NewWeaponFireSystem(), NewProjectileSystem())
		ctx.Input.Fire = false
		explosions += ctx.Events.CountVisual(component.VisualExplosion)
	}
	if explosions != 1 {
		t.Fatalf("expected one explosion against the wall, got %d", explosions)
	}
	if n := ctx.Pool.ActiveCount(); n != 0 {
		t.Fatalf("expected no rocket left in flight, %d active", n)
	}
	if ctx.Body.Health >= component.MaxHealth {
		t.Fatalf("expected self splash damage, health %v", ctx.Body.Health)
	}
	if ctx.Body.Velocity.Z() <= 0 {
		t.Fatalf("expected knockback away from the wall, velocity %v", ctx.Body.Velocity)
	}
}

func TestPointBlankGrenadeStartsOutsideWall(t *testing.T) {
	ctx, _ := onFloor(simtest.WallZ(-0.4, 50, 50))
	equip(ctx, component.WeaponGrenade)
	ctx.Input.Fire = true
	simtest.Advance(ctx, NewWeaponFireSystem())

	p := ctx.Pool.Items[0]
	if !p.Active {
		t.Fatalf("expected a grenade in slot 0")
	}
	if p.Pos.Z() < -0.4+ctx.Const.GrenadeRadius-1e-9 {
		t.Fatalf("expected the grenade to start in front of the wall, got %v", p.Pos)
	}
}
