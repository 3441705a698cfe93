package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/common"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

// WeaponFireSystem resolves one shot of the active weapon per tick when fire
// is held and the weapon is ready.
type WeaponFireSystem struct{}

func NewWeaponFireSystem() *WeaponFireSystem { return &WeaponFireSystem{} }

func (s *WeaponFireSystem) Update(ctx *sim.Context) {
	if ctx == nil || ctx.Loadout == nil || ctx.Weapons == nil || ctx.Body == nil {
		return
	}
	if !ctx.Held(component.ButtonFire) || ctx.Held(component.ButtonWeaponWheel) {
		return
	}
	l := ctx.Loadout
	if l.Busy() || ctx.Now < l.NextFire || ctx.State.Mantle.Active {
		return
	}

	spec := ctx.Weapon()
	kind := l.Active
	if kind.Class() == component.ClassBeam {
		return
	}

	ammo := ctx.Ammo()
	if ammo.Empty() {
		if !beginReload(ctx) {
			ctx.Sound(component.SoundDryFire, ctx.Body.Position, 0.4)
			l.NextFire = ctx.Now + spec.Cooldown
		}
		return
	}

	switch kind.Class() {
	case component.ClassProjectile:
		if !fireProjectile(ctx, kind) {
			return
		}
		ammo.Take(1)
	case component.ClassHitscan:
		ammo.Take(1)
		fireHitscan(ctx, spec)
	case component.ClassMelee:
		fireKnife(ctx, spec)
	}

	l.NextFire = ctx.Now + spec.Cooldown
	ctx.State.Inspect = 0
	ctx.Sound(component.SoundFire, ctx.Body.Position, 1)
	applyKick(ctx, spec)
}

// fireProjectile spawns a rocket or grenade. A full pool rejects the shot
// and the caller consumes nothing. When geometry is closer than the spawn
// offset the projectile starts just short of it, so it never begins inside
// a solid.
func fireProjectile(ctx *sim.Context, kind component.WeaponKind) bool {
	if ctx.Pool.Full() {
		return false
	}
	c := ctx.Const
	aim := ctx.Aim()
	eye := ctx.Eye()

	p := component.Projectile{
		Kind:      kind,
		SpawnTime: ctx.Now,
	}
	radius := c.RocketRadius
	switch kind {
	case component.WeaponGrenade:
		radius = c.GrenadeRadius
		p.Vel = aim.Mul(c.GrenadeSpeed).Add(mgl64.Vec3{0, c.GrenadeUpBoost, 0})
	default:
		p.Vel = aim.Mul(c.RocketSpeed)
	}

	ahead := c.ProjectileSpawnAhead
	if ctx.World != nil {
		if hit, ok := ctx.World.CastRay(eye, aim, ahead+radius); ok {
			ahead = max(hit.Distance-radius, 0)
		}
	}
	p.Pos = eye.Add(aim.Mul(ahead))
	if ctx.Pool.Spawn(p) < 0 {
		return false
	}
	ctx.Visual(component.VisualMuzzle, p.Pos, aim, 1)
	return true
}

// fireHitscan casts the weapon's pellets through the spread cone. Shotguns
// cast at most MaxRays representative rays but always draw the random
// numbers of every pellet so the stream does not depend on the cap.
func fireHitscan(ctx *sim.Context, spec *component.WeaponSpec) {
	c := ctx.Const
	eye := ctx.Eye()
	yaw, pitch := ctx.AimAngles()
	cone := spec.Spread * spreadMultiplier(ctx)

	pellets := max(spec.Pellets, 1)
	rays := pellets
	if spec.Kind == component.WeaponShotgun && c.MaxRays > 0 {
		rays = min(pellets, c.MaxRays)
	}
	damage := spec.Damage * float64(pellets) / float64(rays)

	for i := 0; i < pellets; i++ {
		u := ctx.Rand.Float64()
		v := ctx.Rand.Float64()
		if i >= rays {
			continue
		}
		r := cone * math.Sqrt(u)
		theta := 2 * math.Pi * v
		dir := common.Forward(yaw+r*math.Cos(theta), pitch+r*math.Sin(theta))
		resolveRay(ctx, eye, dir, spec, damage)
	}

	if spec.SelfKnockback != 0 {
		aim := common.Forward(yaw, pitch)
		ctx.Body.Velocity = ctx.Body.Velocity.Sub(aim.Mul(spec.SelfKnockback))
	}
	ctx.Visual(component.VisualMuzzle, eye, common.Forward(yaw, pitch), 1)
}

func resolveRay(ctx *sim.Context, origin, dir mgl64.Vec3, spec *component.WeaponSpec, damage float64) {
	if ctx.World == nil {
		return
	}
	hit, ok := ctx.World.CastRay(origin, dir, spec.Range)
	if !ok {
		return
	}
	if hb, found := lookupHitbox(ctx, hit.Collider); found {
		ctx.Events.Hit(component.HitEvent{
			Target: hb.Target,
			Zone:   hb.Zone,
			Damage: damage * ctx.Const.Multiplier(hb.Zone),
			Point:  hit.Point,
			Weapon: spec.Kind,
		})
		snd := component.SoundHit
		if hb.Zone == component.ZoneHead {
			snd = component.SoundHeadshot
		}
		ctx.Sound(snd, hit.Point, 1)
		return
	}
	ctx.Visual(component.VisualDecal, hit.Point, hit.Normal, 1)
	ctx.Visual(component.VisualSpark, hit.Point, hit.Normal, 0.5)
}

func fireKnife(ctx *sim.Context, spec *component.WeaponSpec) {
	lg := &ctx.State.Lunge
	lg.Timer = ctx.Const.KnifeLungeDuration
	lg.Dir = common.FlatForward(ctx.Body.Yaw)
	ctx.Sound(component.SoundKnife, ctx.Body.Position, 0.8)
	resolveRay(ctx, ctx.Eye(), ctx.Aim(), spec, spec.Damage)
}

// spreadMultiplier ranks movement states: airborne, moving, standing still,
// crouched, prone.
func spreadMultiplier(ctx *sim.Context) float64 {
	c := ctx.Const
	st := ctx.State

	m := 1.0
	switch {
	case !ctx.Body.Grounded:
		m = c.SpreadAirborne
	case st.Stance.Current == component.StanceProne:
		m = c.SpreadProne
	case st.Stance.Current == component.StanceCrouching:
		m = c.SpreadCrouch
	case st.Stance.Current == component.StanceSliding,
		common.HorizontalLen(ctx.Body.Velocity) > c.MovingSpreadSpeed:
		m = c.SpreadMoving
	}

	m *= common.Lerp(1, ctx.Weapon().AdsSpreadFactor, st.ADS)
	return m * (1 + st.Recoil.SpreadBonus)
}

// applyKick adds the weapon's recoil pattern plus random jitter.
func applyKick(ctx *sim.Context, spec *component.WeaponSpec) {
	if !spec.HasKick() {
		return
	}
	r := &ctx.State.Recoil
	jitter := (ctx.Rand.Float64()*2 - 1) * spec.RecoilJitter
	r.Pitch += spec.RecoilPitch + 0.5*math.Abs(jitter)
	r.Yaw += spec.RecoilYaw + jitter
	r.SpreadBonus += spec.RecoilSpread
	r.LastShot = ctx.Now
}
