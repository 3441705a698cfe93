package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/common"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

// MantleSystem detects climbable ledges with a forward and a downward probe
// and plays the eased climb.
type MantleSystem struct{}

func NewMantleSystem() *MantleSystem { return &MantleSystem{} }

// ledgeInset is how far past the wall face the downward probe starts.
const ledgeInset = 0.3

func (s *MantleSystem) Update(ctx *sim.Context) {
	if ctx == nil || ctx.World == nil || ctx.Body == nil || ctx.State == nil {
		return
	}
	if ctx.State.Mantle.Active {
		advanceMantle(ctx)
		return
	}
	if !canMantle(ctx) {
		return
	}
	if top, advance, ok := findLedge(ctx); ok {
		beginMantle(ctx, top, advance)
	}
}

func canMantle(ctx *sim.Context) bool {
	st := ctx.State
	c := ctx.Const
	b := ctx.Body
	if b.Grounded || st.WallRun.Active || st.Grapple.Attached || ctx.Now < st.Mantle.CooldownUntil {
		return false
	}
	if b.Velocity.Y() > c.MantleApexSpeed {
		return false
	}
	return b.Velocity.Dot(common.FlatForward(b.Yaw)) >= c.MantleMinApproach
}

// findLedge returns the ledge height and the forward distance onto it when a
// wall is ahead at eye level and its top lies inside the mantle band above
// the feet.
func findLedge(ctx *sim.Context) (float64, float64, bool) {
	c := ctx.Const
	b := ctx.Body
	fwd := common.FlatForward(b.Yaw)

	wall, ok := ctx.World.CastRay(ctx.Eye(), fwd, c.MantleReach)
	if !ok || wall.Normal.Y() > c.WallNormalMaxY {
		return 0, 0, false
	}

	probeTop := b.Position.Y() + c.MantleMaxHeight + 0.05
	origin := wall.Point.Add(fwd.Mul(ledgeInset))
	origin[1] = probeTop
	ledge, ok := ctx.World.CastRay(origin, mgl64.Vec3{0, -1, 0}, c.MantleMaxHeight+0.05)
	if !ok || ledge.Normal.Y() < c.MaxWalkableNormalY {
		return 0, 0, false
	}

	height := ledge.Point.Y() - b.Position.Y()
	if height < c.MantleMinHeight || height > c.MantleMaxHeight {
		return 0, 0, false
	}
	return ledge.Point.Y(), wall.Distance + ledgeInset, true
}

func beginMantle(ctx *sim.Context, top, advance float64) {
	m := &ctx.State.Mantle
	m.Active = true
	m.Timer = 0
	m.Start = ctx.Body.Position
	m.StartY = m.Start.Y()
	m.TargetY = top
	m.Forward = common.FlatForward(ctx.Body.Yaw)
	m.Advance = advance
	ctx.Body.Velocity = mgl64.Vec3{}
	ctx.State.Jump.Ascending = false
	ctx.Sound(component.SoundMantle, ctx.Body.Position, 0.8)
}

// advanceMantle lifts the feet along a smoothstep curve and carries them
// over the ledge with velocity held at zero, then hands off with a small
// forward boost.
func advanceMantle(ctx *sim.Context) {
	m := &ctx.State.Mantle
	c := ctx.Const
	b := ctx.Body

	m.Timer += ctx.Dt
	t := 1.0
	if c.MantleDuration > 0 {
		t = min(m.Timer/c.MantleDuration, 1)
	}
	e := common.Smoothstep(t)
	b.Position = m.Start.Add(m.Forward.Mul(m.Advance * e))
	b.Position[1] = common.Lerp(m.StartY, m.TargetY, e)
	b.Velocity = mgl64.Vec3{}
	ctx.World.SetCharacterPosition(b.Position)

	if t < 1 {
		return
	}
	b.Velocity = common.ClampLen(m.Forward.Mul(ctx.Scaled(c.MantleBoost)), c.MaxSpeed)
	m.Active = false
	m.Timer = 0
	m.CooldownUntil = ctx.Now + c.MantleCooldown
}
