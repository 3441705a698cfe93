package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/common"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

// CollisionSystem integrates velocity through the collision world in
// adaptive substeps and re-derives the grounded and wall contact state.
type CollisionSystem struct{}

func NewCollisionSystem() *CollisionSystem { return &CollisionSystem{} }

// Substeps returns ceil(displacement/maxStep) clamped to [1, maxSubsteps].
func Substeps(displacement, maxStep float64, maxSubsteps int) int {
	if maxSubsteps < 1 {
		maxSubsteps = 1
	}
	if !common.IsFinite(displacement) {
		return maxSubsteps
	}
	if maxStep <= 0 || displacement <= 0 {
		return 1
	}
	n := int(math.Ceil(displacement / maxStep))
	return max(1, min(n, maxSubsteps))
}

func (s *CollisionSystem) Update(ctx *sim.Context) {
	if ctx == nil || ctx.World == nil || ctx.Body == nil || ctx.State == nil {
		return
	}
	st := ctx.State
	c := ctx.Const
	b := ctx.Body
	if !common.FiniteVec(b.Velocity) {
		clampSpeed(ctx)
		return
	}

	desired := b.Velocity.Mul(ctx.Dt)
	n := Substeps(desired.Len(), c.MaxStepDisplacement, c.MaxSubsteps)
	st.LastSubsteps = n
	step := desired.Mul(1 / float64(n))

	var wanted, moved mgl64.Vec3
	var res sim.MoveResult
	wall := false
	ceiling := false
	var wallNormal mgl64.Vec3
	for i := 0; i < n; i++ {
		res = ctx.World.MoveCharacter(step)
		wanted = wanted.Add(step)
		moved = moved.Add(res.Movement)
		for k := 0; k < res.NumNormals; k++ {
			nrm := res.Normals[k]
			switch {
			case math.Abs(nrm.Y()) <= c.WallNormalMaxY:
				wall = true
				wallNormal = common.NormalizeOr(common.Horizontal(nrm), wallNormal)
			case nrm.Y() < -c.MaxWalkableNormalY:
				ceiling = true
			}
		}
	}
	b.Position = b.Position.Add(moved)

	// Velocity is only killed on an axis the whole tick failed to make
	// progress on, not when a single substep was blocked.
	for _, axis := range [2]int{0, 2} {
		if math.Abs(wanted[axis]) < 1e-12 {
			continue
		}
		if moved[axis]/wanted[axis] < c.BlockingRatio {
			b.Velocity[axis] = 0
		}
	}
	if ceiling && b.Velocity.Y() > 0 {
		b.Velocity[1] = 0
		st.Jump.Ascending = false
	}

	fallSpeed := -b.Velocity.Y()
	grounded := res.Grounded && !leavingGround(b.Velocity, res.GroundNormal)
	b.Grounded = grounded
	if grounded {
		b.GroundNormal = res.GroundNormal
		st.GroundNormal = res.GroundNormal
		if b.Velocity.Y() < 0 && res.GroundNormal.Y() >= c.MaxWalkableNormalY {
			b.Velocity[1] = 0
		}
		st.Jump.LastGrounded = ctx.Now
	}

	st.WallRun.HasContact = wall
	if wall {
		st.WallRun.LastNormal = wallNormal
		// Wall on the right has a normal pointing left.
		if wallNormal.Dot(common.Right(b.Yaw)) < 0 {
			st.WallRun.ContactSide = 1
		} else {
			st.WallRun.ContactSide = -1
		}
	}

	if grounded && !st.WasGrounded {
		land(ctx, fallSpeed)
	}
	st.WasGrounded = grounded

	footsteps(ctx)
	clampSpeed(ctx)
}

// land stamps the landing time for the bunny-hop window, dips the camera
// in proportion to the fall speed above the threshold and ends airborne
// sub-states.
func land(ctx *sim.Context, fallSpeed float64) {
	st := ctx.State
	c := ctx.Const

	st.Bhop.LastLanding = ctx.Now
	st.Bhop.Perfect = false
	st.Jump.Ascending = false
	st.WallRun.ChainCount = 0
	endWallRun(ctx)

	if over := fallSpeed - c.LandingDipThreshold; over > 0 {
		st.Camera.LandingDip = max(st.Camera.LandingDip, min(over*c.LandingDipScale, c.LandingDipMax))
	}
	volume := common.Clamp01(fallSpeed / (2 * c.JumpVelocity))
	ctx.Sound(component.SoundLand, ctx.Body.Position, volume)
}

// footsteps schedules step sounds at an interval that shortens with speed.
func footsteps(ctx *sim.Context) {
	st := ctx.State
	c := ctx.Const
	b := ctx.Body

	speed := common.HorizontalLen(b.Velocity)
	if !b.Grounded || speed < c.FootstepSpeedFloor || st.Stance.Current == component.StanceSliding {
		st.FootstepTimer = 0
		return
	}
	st.FootstepTimer -= ctx.Dt
	if st.FootstepTimer > 0 {
		return
	}
	interval := c.FootstepInterval
	if speed > c.WalkSpeed {
		interval *= c.WalkSpeed / speed
	}
	st.FootstepTimer = max(interval, c.FootstepMinInterval)
	ctx.Sound(component.SoundFootstep, b.Position, common.Clamp01(speed/c.WalkSpeed))
}

// clampSpeed enforces the hard speed cap and recovers from non-finite
// velocity.
func clampSpeed(ctx *sim.Context) {
	b := ctx.Body
	if !common.FiniteVec(b.Velocity) {
		b.Velocity = mgl64.Vec3{}
		ctx.State.RespawnRequested = true
		return
	}
	b.Velocity = common.ClampLen(b.Velocity, ctx.Const.MaxSpeed)
}
