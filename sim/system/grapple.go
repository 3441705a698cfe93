package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

// GrappleSystem runs the attach / swing / release machine of the hook.
type GrappleSystem struct{}

func NewGrappleSystem() *GrappleSystem { return &GrappleSystem{} }

func (s *GrappleSystem) Update(ctx *sim.Context) {
	if ctx == nil || ctx.Body == nil || ctx.State == nil {
		return
	}

	g := &ctx.State.Grapple
	if ctx.Pressed(component.ButtonGrapple) {
		if g.Attached {
			releaseGrapple(ctx)
			return
		}
		if anchor, dist, ok := findAnchor(ctx); ok {
			attachGrapple(ctx, anchor, dist)
		}
		return
	}

	if !g.Attached {
		return
	}
	if ctx.Body.Grounded && ctx.Pressed(component.ButtonJump) {
		releaseGrapple(ctx)
		return
	}
	swing(ctx)
}

// findAnchor prefers the closest registered anchor inside the aim cone and
// falls back to the first surface along the aim ray.
func findAnchor(ctx *sim.Context) (mgl64.Vec3, float64, bool) {
	c := ctx.Const
	eye := ctx.Eye()
	aim := ctx.Aim()

	best := math.Inf(1)
	var anchor mgl64.Vec3
	for i := 0; i < ctx.Anchors.Len(); i++ {
		p := ctx.Anchors.At(i)
		d := p.Sub(eye)
		dist := d.Len()
		if dist < 1e-6 || dist > c.GrappleMaxRange {
			continue
		}
		if aim.Dot(d.Mul(1/dist)) < c.GrappleMinDot {
			continue
		}
		if dist < best {
			best = dist
			anchor = p
		}
	}
	if !math.IsInf(best, 1) {
		return anchor, best, true
	}

	if ctx.World == nil {
		return mgl64.Vec3{}, 0, false
	}
	hit, ok := ctx.World.CastRay(eye, aim, c.GrappleMaxRange)
	if !ok {
		return mgl64.Vec3{}, 0, false
	}
	return hit.Point, hit.Distance, true
}

func attachGrapple(ctx *sim.Context, anchor mgl64.Vec3, dist float64) {
	g := &ctx.State.Grapple
	g.Attached = true
	g.Anchor = anchor
	g.Length = math.Min(dist, ctx.Const.GrappleSwingLength)
	g.PreSwingSpeed = ctx.Body.Velocity.Len()
	endWallRun(ctx)
	ctx.Sound(component.SoundGrappleAttach, anchor, 1)
}

// swing keeps the body on or inside the rope sphere and pulls it back when
// it has drifted past the rope length.
func swing(ctx *sim.Context) {
	g := &ctx.State.Grapple
	b := ctx.Body

	d := ctx.Center().Sub(g.Anchor)
	dist := d.Len()
	if dist <= g.Length || dist < 1e-9 {
		return
	}
	out := d.Mul(1 / dist)
	if radial := b.Velocity.Dot(out); radial > 0 {
		b.Velocity = b.Velocity.Sub(out.Mul(radial))
	}
	b.Velocity = b.Velocity.Sub(out.Mul(ctx.Const.GrapplePull * (dist - g.Length) * ctx.Dt))
}

// releaseGrapple boosts the current speed, capped so the gain over the
// pre-swing speed never exceeds GrappleReleaseMaxGain.
func releaseGrapple(ctx *sim.Context) {
	g := &ctx.State.Grapple
	b := ctx.Body
	c := ctx.Const

	speed := b.Velocity.Len()
	if speed > 1e-9 {
		boosted := math.Min(speed*c.GrappleReleaseBoost, math.Max(speed, g.PreSwingSpeed)+c.GrappleReleaseMaxGain)
		b.Velocity = b.Velocity.Mul(boosted / speed)
	}
	*g = component.GrappleState{}
	ctx.Sound(component.SoundGrappleRelease, b.Position, 1)
}
