package system

import (
	"testing"

	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
	"github.com/milk9111/strafe/sim/simtest"
)

func TestAmmoNeverNegative(t *testing.T) {
	ctx, _ := onFloor()
	equip(ctx, component.WeaponAssault)
	ctx.Input.Fire = true
	systems := []sim.System{NewCombatSystem(), NewWeaponFireSystem()}

	ammo := &ctx.Loadout.Ammo[component.WeaponAssault]
	prev := ammo.Magazine + ammo.Reserve
	dry := 0
	for i := 0; i < 30*128; i++ {
		simtest.Advance(ctx, systems...)
		if ammo.Magazine < 0 || ammo.Reserve < 0 {
			t.Fatalf("tick %d: negative ammo %d/%d", i, ammo.Magazine, ammo.Reserve)
		}
		total := ammo.Magazine + ammo.Reserve
		if total > prev {
			t.Fatalf("tick %d: ammo grew from %d to %d", i, prev, total)
		}
		prev = total
		dry += ctx.Events.CountSound(component.SoundDryFire)
	}
	if ammo.Magazine != 0 || ammo.Reserve != 0 {
		t.Fatalf("expected the weapon to be emptied, got %d/%d", ammo.Magazine, ammo.Reserve)
	}
	if dry == 0 {
		t.Fatalf("expected dry-fire once out of ammo")
	}
}

func TestFullPoolConsumesNothing(t *testing.T) {
	ctx, _ := onFloor()
	for i := range ctx.Pool.Items {
		ctx.Pool.Items[i] = component.Projectile{Active: true, Kind: component.WeaponRocket, SpawnTime: 0}
	}
	ctx.Input.Fire = true
	simtest.Advance(ctx, NewWeaponFireSystem())

	if got := ctx.Loadout.Ammo[component.WeaponRocket].Magazine; got != 4 {
		t.Fatalf("expected magazine untouched, got %d", got)
	}
	if ctx.Loadout.NextFire != component.Never {
		t.Fatalf("expected no cooldown to start")
	}
	if ctx.Events.CountSound(component.SoundFire) != 0 {
		t.Fatalf("expected no fire sound")
	}
}

func TestProjectileSpawn(t *testing.T) {
	cases := []struct {
		name   string
		weapon component.WeaponKind
		upward bool
	}{
		{"rocket_flies_straight", component.WeaponRocket, false},
		{"grenade_gets_lift", component.WeaponGrenade, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx, _ := onFloor()
			equip(ctx, c.weapon)
			ctx.Input.Fire = true
			simtest.Advance(ctx, NewWeaponFireSystem())

			p := ctx.Pool.Items[0]
			if !p.Active || p.Kind != c.weapon {
				t.Fatalf("expected a %s in slot 0, got %+v", c.weapon, p)
			}
			if p.Pos.Z() >= 0 {
				t.Fatalf("expected spawn ahead of the eye, got %v", p.Pos)
			}
			if (p.Vel.Y() > 0) != c.upward {
				t.Fatalf("unexpected vertical velocity %v", p.Vel.Y())
			}
			spec := ctx.Weapons[c.weapon]
			if got := ctx.Loadout.Ammo[c.weapon].Magazine; got != spec.Magazine-1 {
				t.Fatalf("expected one round used, magazine %d", got)
			}
			requireApprox(t, "next fire", ctx.Loadout.NextFire, spec.Cooldown, 1e-12)
		})
	}
}

func TestShotgunRandomStreamIgnoresRayCap(t *testing.T) {
	shoot := func(maxRays int) (float64, int, float64) {
		ctx, w := onFloor(simtest.WallZ(-5, 50, 50))
		equip(ctx, component.WeaponShotgun)
		ctx.Const.MaxRays = maxRays
		ctx.Hitboxes = simtest.Hitboxes{1: {Target: 7, Zone: component.ZoneTorso}}
		ctx.Input.Fire = true
		simtest.Advance(ctx, NewWeaponFireSystem())

		total := 0.0
		for _, h := range ctx.Events.Hits {
			total += h.Damage
		}
		return ctx.Rand.Float64(), w.Rays, total
	}

	nextA, raysA, dmgA := shoot(4)
	nextB, raysB, dmgB := shoot(10)
	if nextA != nextB {
		t.Fatalf("random stream diverged: %v vs %v", nextA, nextB)
	}
	if raysA != 4 || raysB != 10 {
		t.Fatalf("expected 4 and 10 rays, got %d and %d", raysA, raysB)
	}
	requireApprox(t, "capped damage", dmgA, 90, 1e-9)
	requireApprox(t, "full damage", dmgB, 90, 1e-9)
}

func TestHitscanZones(t *testing.T) {
	cases := []struct {
		name   string
		zone   component.HitZone
		hitbox bool
		damage float64
		sound  component.Sound
	}{
		{"head", component.ZoneHead, true, 180, component.SoundHeadshot},
		{"torso", component.ZoneTorso, true, 90, component.SoundHit},
		{"limb", component.ZoneLimb, true, 67.5, component.SoundHit},
		{"world", 0, false, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx, _ := onFloor(simtest.WallZ(-5, 50, 50))
			equip(ctx, component.WeaponSniper)
			if c.hitbox {
				ctx.Hitboxes = simtest.Hitboxes{1: {Target: 2, Zone: c.zone}}
			}
			ctx.Input.Fire = true
			simtest.Advance(ctx, NewWeaponFireSystem())

			if !c.hitbox {
				if len(ctx.Events.Hits) != 0 {
					t.Fatalf("expected no hit events, got %d", len(ctx.Events.Hits))
				}
				if ctx.Events.CountVisual(component.VisualDecal) != 1 || ctx.Events.CountVisual(component.VisualSpark) != 1 {
					t.Fatalf("expected a decal and a spark on world geometry")
				}
				return
			}
			if len(ctx.Events.Hits) != 1 {
				t.Fatalf("expected one hit, got %d", len(ctx.Events.Hits))
			}
			h := ctx.Events.Hits[0]
			if h.Target != 2 || h.Zone != c.zone {
				t.Fatalf("unexpected hit %+v", h)
			}
			requireApprox(t, "damage", h.Damage, c.damage, 1e-9)
			if ctx.Events.CountSound(c.sound) != 1 {
				t.Fatalf("expected %v sound", c.sound)
			}
		})
	}
}

func TestSpreadOrdering(t *testing.T) {
	spread := func(setup func(ctx *sim.Context)) float64 {
		ctx, _ := onFloor()
		equip(ctx, component.WeaponAssault)
		setup(ctx)
		return spreadMultiplier(ctx)
	}

	airborne := spread(func(ctx *sim.Context) { ctx.Body.Grounded = false })
	moving := spread(func(ctx *sim.Context) { ctx.Body.Velocity[0] = 5 })
	still := spread(func(ctx *sim.Context) {})
	crouched := spread(func(ctx *sim.Context) { ctx.State.Stance.Current = component.StanceCrouching })
	prone := spread(func(ctx *sim.Context) { ctx.State.Stance.Current = component.StanceProne })
	aimed := spread(func(ctx *sim.Context) { ctx.State.ADS = 1 })

	order := []float64{airborne, moving, still, crouched, prone}
	for i := 1; i < len(order); i++ {
		if order[i] >= order[i-1] {
			t.Fatalf("spread ordering broken at %d: %v", i, order)
		}
	}
	if aimed >= still {
		t.Fatalf("aiming should tighten spread: %v vs %v", aimed, still)
	}
}

func TestFireBlocked(t *testing.T) {
	cases := []struct {
		name  string
		setup func(ctx *sim.Context)
	}{
		{"weapon_wheel", func(ctx *sim.Context) { ctx.Input.WeaponWheel = true }},
		{"mantling", func(ctx *sim.Context) { ctx.State.Mantle.Active = true }},
		{"reloading", func(ctx *sim.Context) { ctx.Loadout.Reloading = true }},
		{"cooling_down", func(ctx *sim.Context) { ctx.Loadout.NextFire = 1 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx, _ := onFloor()
			ctx.Input.Fire = true
			c.setup(ctx)
			simtest.Advance(ctx, NewWeaponFireSystem())
			if ctx.Pool.ActiveCount() != 0 || ctx.Events.CountSound(component.SoundFire) != 0 {
				t.Fatalf("expected no shot")
			}
		})
	}
}

func TestKnifeLungesWithoutAmmo(t *testing.T) {
	ctx, _ := onFloor()
	equip(ctx, component.WeaponKnife)
	ctx.Input.Fire = true
	simtest.Advance(ctx, NewWeaponFireSystem(), NewCombatSystem())

	if ctx.State.Lunge.Timer <= 0 {
		t.Fatalf("expected a lunge")
	}
	requireApprox(t, "lunge speed", -ctx.Body.Velocity.Z(), ctx.Const.KnifeLungeSpeed, 1e-9)
	if ctx.State.Recoil != (component.RecoilState{LastShot: component.Never}) {
		t.Fatalf("knife should not kick, got %+v", ctx.State.Recoil)
	}
}
