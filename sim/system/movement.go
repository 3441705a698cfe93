package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/common"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

// MovementSystem runs the stance machine, jumping, dashing, wall-running,
// ground/air acceleration and gravity. It only writes velocity; the
// collision pass integrates it.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem { return &MovementSystem{} }

func (s *MovementSystem) Update(ctx *sim.Context) {
	if ctx == nil || ctx.Body == nil || ctx.State == nil {
		return
	}
	st := ctx.State
	if st.Mantle.Active {
		return
	}

	if wr := &st.WallRun; wr.ChainCount > 0 && ctx.Now-wr.LastJump >= ctx.Const.WallJumpChainReset {
		wr.ChainCount = 0
	}

	stanceFor(st.Stance.Current).HandleInput(ctx)
	stanceFor(st.Stance.Current).Update(ctx)

	updateJump(ctx)
	updateDash(ctx)
	updateWallRun(ctx)
	accelerate(ctx)
	applyGravity(ctx)
}

// leavingGround reports upward velocity pointing away from the ground
// plane, which happens on jumps, launches and knockback. Walking downhill
// points away from the plane too but is not upward.
func leavingGround(v, groundNormal mgl64.Vec3) bool {
	if groundNormal == (mgl64.Vec3{}) {
		groundNormal = common.Up
	}
	return v.Y() > 1e-6 && v.Dot(groundNormal) > 1e-6
}

func wishDir(ctx *sim.Context) mgl64.Vec3 {
	x, z := ctx.Input.MoveAxes()
	if x == 0 && z == 0 {
		return mgl64.Vec3{}
	}
	yaw := ctx.Body.Yaw
	wish := common.FlatForward(yaw).Mul(z).Add(common.Right(yaw).Mul(x))
	return common.NormalizeOr(wish, mgl64.Vec3{})
}

func updateJump(ctx *sim.Context) {
	st := ctx.State
	c := ctx.Const
	b := ctx.Body
	j := &st.Jump

	if st.WallRun.Active && ctx.Pressed(component.ButtonJump) {
		wallJump(ctx)
		return
	}

	if ctx.Pressed(component.ButtonJump) {
		j.BufferedAt = ctx.Now
	}

	if j.Ascending {
		switch {
		case b.Velocity.Y() <= 0:
			j.Ascending = false
		case ctx.Released(component.ButtonJump):
			if vy := b.Velocity.Y(); vy > c.JumpCutFloor {
				b.Velocity[1] = max(vy*c.JumpCutMultiplier, c.JumpCutFloor)
			}
			j.Ascending = false
		}
	}

	if ctx.Since(j.BufferedAt) > c.JumpBufferMs {
		return
	}
	onGround := b.Grounded || ctx.Since(j.LastGrounded) <= c.CoyoteMs
	if !onGround || st.Stance.Current == component.StanceProne || st.Grapple.Attached {
		return
	}

	b.Velocity[1] = c.JumpVelocity
	b.Grounded = false
	j.Ascending = true
	j.BufferedAt = component.Never
	j.LastGrounded = component.Never

	if st.Stance.Current == component.StanceSliding {
		if headroom(ctx, component.StanceStanding.Height()) {
			changeStance(ctx, stanceStand)
		} else {
			changeStance(ctx, stanceCrouch)
		}
	}

	if ctx.Since(st.Bhop.LastLanding) <= c.BhopWindowMs {
		speed := common.HorizontalLen(b.Velocity) + ctx.Scaled(c.BhopBoost)
		b.Velocity = common.SetHorizontalSpeed(b.Velocity, speed, common.FlatForward(b.Yaw))
		st.Bhop.Perfect = true
		ctx.Sound(component.SoundBhop, b.Position, 1)
		return
	}
	st.Bhop.Perfect = false
	ctx.Sound(component.SoundJump, b.Position, 0.8)
}

// wallJump pushes off the wall. Each chained wall-jump before the chain
// resets is stronger by WallJumpChainBonus, up to WallJumpChainMax chains.
func wallJump(ctx *sim.Context) {
	st := ctx.State
	c := ctx.Const
	b := ctx.Body
	wr := &st.WallRun

	chain := min(wr.ChainCount, c.WallJumpChainMax)
	bonus := 1 + float64(chain)*c.WallJumpChainBonus
	b.Velocity = b.Velocity.Add(wr.Normal.Mul(c.WallJumpPush * bonus))
	b.Velocity[1] = c.WallJumpUp * bonus

	wr.ChainCount++
	wr.LastJump = ctx.Now
	endWallRun(ctx)

	st.Jump.Ascending = true
	st.Jump.BufferedAt = component.Never
	ctx.Sound(component.SoundWallJump, b.Position, 1)
}

func endWallRun(ctx *sim.Context) {
	wr := &ctx.State.WallRun
	if !wr.Active {
		return
	}
	wr.Active = false
	wr.Timer = 0
	wr.RearmUntil = ctx.Now + ctx.Const.WallRunRearm
}

// updateDash starts a lateral burst from a double-tapped strafe key or the
// dash key.
func updateDash(ctx *sim.Context) {
	st := ctx.State
	d := &st.Dash
	c := ctx.Const

	side := 0.0
	if ctx.Pressed(component.ButtonLeft) {
		if ctx.Since(d.LastLeftTap) <= c.DashDoubleTapMs {
			side = -1
			d.LastLeftTap = component.Never
		} else {
			d.LastLeftTap = ctx.Now
		}
	}
	if ctx.Pressed(component.ButtonRight) {
		if ctx.Since(d.LastRightTap) <= c.DashDoubleTapMs {
			side = 1
			d.LastRightTap = component.Never
		} else {
			d.LastRightTap = ctx.Now
		}
	}
	explicit := ctx.Pressed(component.ButtonDash)
	if side == 0 && !explicit {
		return
	}
	if ctx.Now < d.CooldownUntil || st.Stance.Current == component.StanceProne {
		return
	}

	dir := common.Right(ctx.Body.Yaw).Mul(side)
	if side == 0 {
		x, _ := ctx.Input.MoveAxes()
		dir = common.Right(ctx.Body.Yaw).Mul(x)
		if x == 0 {
			dir = common.FlatForward(ctx.Body.Yaw)
		}
	}
	d.Dir = dir
	d.BurstTimer = c.DashDuration
	d.CooldownUntil = ctx.Now + c.DashCooldown
	ctx.Sound(component.SoundDash, ctx.Body.Position, 0.8)
}

func canWallRun(ctx *sim.Context) bool {
	st := ctx.State
	c := ctx.Const
	wr := &st.WallRun
	b := ctx.Body

	if b.Grounded || st.Grapple.Attached || st.Mantle.Active || st.Stance.Current == component.StanceProne {
		return false
	}
	if !wr.HasContact || ctx.Now < wr.RearmUntil || !ctx.Held(component.ButtonForward) {
		return false
	}
	if common.HorizontalLen(b.Velocity) < ctx.Scaled(c.WallRunMinSpeed) {
		return false
	}
	x, _ := ctx.Input.MoveAxes()
	return x == 0 || x*wr.ContactSide > 0
}

func updateWallRun(ctx *sim.Context) {
	st := ctx.State
	c := ctx.Const
	wr := &st.WallRun
	b := ctx.Body

	if !wr.Active {
		if !canWallRun(ctx) {
			return
		}
		wr.Active = true
		wr.Timer = 0
		wr.Normal = wr.LastNormal
		wr.Side = wr.ContactSide
		if b.Velocity.Y() < 0 {
			b.Velocity[1] = 0
		}
	}

	wr.Timer += ctx.Dt
	if wr.Timer >= c.WallRunMaxTime || !wr.HasContact || b.Grounded || !ctx.Held(component.ButtonForward) || st.Grapple.Attached {
		endWallRun(ctx)
		return
	}
	wr.Normal = wr.LastNormal

	h := common.ProjectOnPlane(common.Horizontal(b.Velocity), wr.Normal)
	h = h.Sub(wr.Normal.Mul(c.WallRunStick))
	b.Velocity = common.WithHorizontal(b.Velocity, h)
}

func accelerate(ctx *sim.Context) {
	st := ctx.State
	c := ctx.Const
	b := ctx.Body

	if st.Lunge.Timer > 0 || st.WallRun.Active {
		return
	}
	if d := &st.Dash; d.BurstTimer > 0 {
		b.Velocity = common.WithHorizontal(b.Velocity, d.Dir.Mul(ctx.Scaled(c.DashSpeed)))
		d.BurstTimer -= ctx.Dt
		if d.BurstTimer < 0 {
			d.BurstTimer = 0
		}
		return
	}

	grounded := b.Grounded && !leavingGround(b.Velocity, b.GroundNormal)
	if grounded && st.Stance.Current == component.StanceSliding {
		return
	}

	wish := wishDir(ctx)
	if grounded {
		applyFriction(ctx)
		accelerateToward(b, wish, ctx.Scaled(stanceSpeed(ctx)), c.GroundAccel, ctx.Dt)
		return
	}
	airAccelerate(b, wish, ctx.Scaled(c.WalkSpeed), c.AirWishSpeed, c.AirAccel, ctx.Dt)
}

func stanceSpeed(ctx *sim.Context) float64 {
	c := ctx.Const
	switch ctx.State.Stance.Current {
	case component.StanceCrouching:
		return c.CrouchSpeed
	case component.StanceProne:
		return c.ProneSpeed
	default:
		return c.WalkSpeed
	}
}

func applyFriction(ctx *sim.Context) {
	c := ctx.Const
	b := ctx.Body
	speed := common.HorizontalLen(b.Velocity)
	if speed < 1e-9 {
		b.Velocity = common.WithHorizontal(b.Velocity, mgl64.Vec3{})
		return
	}
	control := max(speed, c.StopSpeed)
	next := max(speed-control*c.GroundFriction*ctx.Dt, 0)
	b.Velocity = common.WithHorizontal(b.Velocity, common.Horizontal(b.Velocity).Mul(next/speed))
}

func accelerateToward(b *component.Body, wish mgl64.Vec3, wishSpeed, accel, dt float64) {
	if wish == (mgl64.Vec3{}) {
		return
	}
	add := wishSpeed - common.Horizontal(b.Velocity).Dot(wish)
	if add <= 0 {
		return
	}
	step := min(accel*wishSpeed*dt, add)
	b.Velocity = b.Velocity.Add(wish.Mul(step))
}

// airAccelerate caps only the projected speed gain, which is what lets
// strafing build speed in the air.
func airAccelerate(b *component.Body, wish mgl64.Vec3, wishSpeed, capSpeed, accel, dt float64) {
	if wish == (mgl64.Vec3{}) {
		return
	}
	add := min(wishSpeed, capSpeed) - common.Horizontal(b.Velocity).Dot(wish)
	if add <= 0 {
		return
	}
	step := min(accel*wishSpeed*dt, add)
	b.Velocity = b.Velocity.Add(wish.Mul(step))
}

// applyGravity integrates gravity. On walkable ground the velocity is laid
// onto the ground plane with its horizontal speed kept, so inclines neither
// pull nor stall the player. Steep ground and slides get the tangential part
// of gravity.
func applyGravity(ctx *sim.Context) {
	st := ctx.State
	c := ctx.Const
	b := ctx.Body
	g := ctx.Gravity()

	if st.WallRun.Active {
		b.Velocity[1] -= g * c.WallRunGravityScale * ctx.Dt
		return
	}
	if !b.Grounded || leavingGround(b.Velocity, b.GroundNormal) {
		b.Velocity[1] -= g * ctx.Dt
		return
	}

	n := b.GroundNormal
	if n == (mgl64.Vec3{}) {
		n = common.Up
	}
	if n.Y() >= c.MaxWalkableNormalY && st.Stance.Current != component.StanceSliding {
		h := common.Horizontal(b.Velocity)
		speed := h.Len()
		if speed < 1e-9 || n == common.Up {
			b.Velocity[1] = 0
			return
		}
		along := common.ProjectOnPlane(h, n)
		b.Velocity = along.Mul(speed / common.HorizontalLen(along))
		return
	}

	tangent := common.ProjectOnPlane(mgl64.Vec3{0, -g, 0}, n)
	b.Velocity = common.ProjectOnPlane(b.Velocity, n).Add(tangent.Mul(ctx.Dt))
}
