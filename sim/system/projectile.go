package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/common"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

// ProjectileSystem advances every active pool entry in index order.
type ProjectileSystem struct{}

func NewProjectileSystem() *ProjectileSystem { return &ProjectileSystem{} }

type blast struct {
	radius float64
	force  float64
	damage float64
}

func (s *ProjectileSystem) Update(ctx *sim.Context) {
	if ctx == nil || ctx.Pool == nil {
		return
	}

	c := ctx.Const
	for i := range ctx.Pool.Items {
		p := &ctx.Pool.Items[i]
		if !p.Active {
			continue
		}
		age := ctx.Now - p.SpawnTime
		if age > c.ProjectileLifetime || p.Pos.Y() < c.VoidY || !common.FiniteVec(p.Pos) {
			p.Active = false
			continue
		}

		if p.Falls() {
			p.Vel[1] -= ctx.Gravity() * ctx.Dt
		}
		step := p.Vel.Mul(ctx.Dt)
		dist := step.Len()
		if dist < 1e-12 {
			continue
		}
		dir := step.Mul(1 / dist)

		switch p.Kind {
		case component.WeaponGrenade:
			advanceGrenade(ctx, p, step, dir, dist, age)
		default:
			advanceRocket(ctx, p, step, dir, dist)
		}
	}
}

func advanceRocket(ctx *sim.Context, p *component.Projectile, step, dir mgl64.Vec3, dist float64) {
	c := ctx.Const
	if ctx.World != nil {
		if hit, ok := ctx.World.CastRay(p.Pos, dir, dist+c.RocketRadius); ok {
			p.Active = false
			explode(ctx, hit.Point, hit.Normal, blast{c.RocketSplashRadius, c.RocketSplashForce, c.RocketSplashDamage}, p.Kind)
			return
		}
	}
	p.Pos = p.Pos.Add(step)
}

// advanceGrenade bounces once on the first contact before the fuse runs out.
// Any later contact detonates.
func advanceGrenade(ctx *sim.Context, p *component.Projectile, step, dir mgl64.Vec3, dist, age float64) {
	c := ctx.Const
	if ctx.World != nil {
		if hit, ok := ctx.World.CastRay(p.Pos, dir, dist+c.GrenadeRadius); ok {
			if p.Bounces == 0 && age < c.GrenadeFuse {
				p.Pos = hit.Point.Add(hit.Normal.Mul(c.GrenadeRadius))
				p.Vel = common.Reflect(p.Vel, hit.Normal).Mul(c.GrenadeDamping)
				p.Bounces++
				ctx.Sound(component.SoundBounce, hit.Point, 0.5)
				return
			}
			p.Active = false
			explode(ctx, hit.Point, hit.Normal, blast{c.GrenadeSplashRadius, c.GrenadeSplashForce, c.GrenadeSplashDamage}, p.Kind)
			return
		}
	}
	p.Pos = p.Pos.Add(step)
}

// explode applies knockback and falloff damage to the player and to every
// splash target in radius, and emits the explosion effects.
func explode(ctx *sim.Context, at, normal mgl64.Vec3, bl blast, kind component.WeaponKind) {
	c := ctx.Const
	ctx.Visual(component.VisualExplosion, at, normal, bl.force)
	ctx.Visual(component.VisualDecal, at, normal, 1)
	ctx.Sound(component.SoundExplosion, at, 1)

	if bl.radius <= 0 {
		return
	}

	if ctx.Body != nil {
		d := ctx.Center().Sub(at)
		dist := d.Len()
		if dist <= bl.radius {
			falloff := 1 - dist/bl.radius
			dir := common.NormalizeOr(d, common.Up)
			dv := common.ClampLen(dir.Mul(bl.force*falloff), c.SplashMaxDeltaV)
			ctx.Body.Velocity = ctx.Body.Velocity.Add(dv)
			ctx.Damage(bl.damage * falloff * c.SelfDamageMultiplier)
		}
	}

	if ctx.Splash == nil {
		return
	}
	ctx.Scratch.Splash = ctx.Splash.TargetsInRadius(at, bl.radius, ctx.Scratch.Splash[:0])
	for _, t := range ctx.Scratch.Splash {
		dist := t.Center.Sub(at).Len()
		falloff := math.Max(0, 1-dist/bl.radius)
		ctx.Events.Hit(component.HitEvent{
			Target: t.Target,
			Zone:   component.ZoneTorso,
			Damage: bl.damage * falloff,
			Point:  at,
			Weapon: kind,
			Splash: true,
		})
	}
}
