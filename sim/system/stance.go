package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/common"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

// stanceState is one node of the stance machine. Each state owns its
// enter/exit, input handling and per-tick update.
type stanceState interface {
	Stance() component.Stance
	Enter(ctx *sim.Context)
	Exit(ctx *sim.Context)
	HandleInput(ctx *sim.Context)
	Update(ctx *sim.Context)
}

// Stance singletons (avoid allocations on transitions).
var (
	stanceStand  stanceState = &standState{}
	stanceCrouch stanceState = &crouchState{}
	stanceSlide  stanceState = &slideState{}
	stanceProne  stanceState = &proneState{}
)

type standState struct{}

type crouchState struct{}

type slideState struct{}

type proneState struct{}

func stanceFor(s component.Stance) stanceState {
	switch s {
	case component.StanceCrouching:
		return stanceCrouch
	case component.StanceSliding:
		return stanceSlide
	case component.StanceProne:
		return stanceProne
	default:
		return stanceStand
	}
}

func changeStance(ctx *sim.Context, next stanceState) {
	st := &ctx.State.Stance
	cur := stanceFor(st.Current)
	if cur == next {
		return
	}
	cur.Exit(ctx)
	st.Current = next.Stance()
	applyHeight(ctx, next.Stance().Height())
	next.Enter(ctx)
}

func applyHeight(ctx *sim.Context, h float64) {
	st := &ctx.State.Stance
	if st.AppliedHeight == h {
		return
	}
	st.AppliedHeight = h
	if ctx.World != nil {
		ctx.World.SetCharacterHeight(h)
	}
}

// headroom reports whether the collider can grow to height without hitting
// a ceiling.
func headroom(ctx *sim.Context, height float64) bool {
	cur := ctx.State.Stance.AppliedHeight
	if height <= cur || ctx.World == nil {
		return true
	}
	top := ctx.Body.Position.Add(mgl64.Vec3{0, cur - 0.01, 0})
	_, hit := ctx.World.CastRay(top, common.Up, height-cur+0.01)
	return !hit
}

// proneRequested handles the dedicated key and the double-tap crouch
// gesture. It stamps the crouch tap time as a side effect.
func proneRequested(ctx *sim.Context) bool {
	st := &ctx.State.Stance
	if ctx.Pressed(component.ButtonProne) {
		return true
	}
	if !ctx.Pressed(component.ButtonCrouch) {
		return false
	}
	if ctx.Since(st.LastCrouchTap) <= ctx.Const.ProneDoubleTapMs {
		st.LastCrouchTap = component.Never
		return true
	}
	st.LastCrouchTap = ctx.Now
	return false
}

func (standState) Stance() component.Stance { return component.StanceStanding }
func (standState) Enter(ctx *sim.Context)   {}
func (standState) Exit(ctx *sim.Context)    {}
func (standState) HandleInput(ctx *sim.Context) {
	if proneRequested(ctx) && ctx.Body.Grounded {
		changeStance(ctx, stanceProne)
		return
	}
	if !ctx.Held(component.ButtonCrouch) {
		return
	}
	if ctx.Body.Grounded && common.HorizontalLen(ctx.Body.Velocity) >= ctx.Scaled(ctx.Const.CrouchSlideMinSpeed) {
		changeStance(ctx, stanceSlide)
		return
	}
	changeStance(ctx, stanceCrouch)
}
func (standState) Update(ctx *sim.Context) {}

func (crouchState) Stance() component.Stance { return component.StanceCrouching }
func (crouchState) Enter(ctx *sim.Context)   {}
func (crouchState) Exit(ctx *sim.Context)    {}
func (crouchState) HandleInput(ctx *sim.Context) {
	if proneRequested(ctx) && ctx.Body.Grounded {
		changeStance(ctx, stanceProne)
		return
	}
	if !ctx.Held(component.ButtonCrouch) && headroom(ctx, component.StanceStanding.Height()) {
		changeStance(ctx, stanceStand)
	}
}
func (crouchState) Update(ctx *sim.Context) {}

func (slideState) Stance() component.Stance { return component.StanceSliding }
func (slideState) Enter(ctx *sim.Context) {
	st := &ctx.State.Stance
	st.SlideTimer = 0
	st.SlideEnteredAt = ctx.Tick
	b := ctx.Body
	speed := common.HorizontalLen(b.Velocity) + ctx.Scaled(ctx.Const.SlideBoost)
	b.Velocity = common.SetHorizontalSpeed(b.Velocity, speed, common.FlatForward(b.Yaw))
	ctx.Sound(component.SoundSlide, b.Position, 0.7)
}
func (slideState) Exit(ctx *sim.Context) {
	ctx.State.Stance.SlideTimer = 0
}
func (slideState) HandleInput(ctx *sim.Context) {
	if !ctx.Held(component.ButtonCrouch) {
		leaveSlide(ctx)
	}
}

// Update applies slide friction, which ramps up once the slide has lasted
// SlideRampAfter seconds.
func (slideState) Update(ctx *sim.Context) {
	st := &ctx.State.Stance
	c := ctx.Const
	b := ctx.Body
	if st.SlideEnteredAt == ctx.Tick {
		return
	}
	if !b.Grounded {
		changeStance(ctx, stanceCrouch)
		return
	}

	st.SlideTimer += ctx.Dt
	friction := c.SlideFriction
	if over := st.SlideTimer - c.SlideRampAfter; over > 0 {
		friction += over * c.SlideRampRate
	}
	speed := common.HorizontalLen(b.Velocity)
	speed = max(0, speed-friction*ctx.Dt)
	b.Velocity = common.SetHorizontalSpeed(b.Velocity, speed, common.FlatForward(b.Yaw))

	if speed < ctx.Scaled(c.SlideMinSpeed) {
		leaveSlide(ctx)
	}
}

func leaveSlide(ctx *sim.Context) {
	if !ctx.Held(component.ButtonCrouch) && headroom(ctx, component.StanceStanding.Height()) {
		changeStance(ctx, stanceStand)
		return
	}
	changeStance(ctx, stanceCrouch)
}

func (proneState) Stance() component.Stance { return component.StanceProne }

// Enter drops straight to the prone collider and starts the timed
// transition. No stance change is accepted until it completes.
func (proneState) Enter(ctx *sim.Context) {
	st := &ctx.State.Stance
	st.Transitioning = true
	st.ProneTarget = true
	st.ProneProgress = 0
}
func (proneState) Exit(ctx *sim.Context) {
	st := &ctx.State.Stance
	st.Transitioning = false
	st.ProneTarget = false
	st.ProneProgress = 0
}
func (proneState) HandleInput(ctx *sim.Context) {
	st := &ctx.State.Stance
	if st.Transitioning {
		return
	}
	if !ctx.Body.Grounded {
		changeStance(ctx, stanceCrouch)
		return
	}
	if ctx.Pressed(component.ButtonProne) || ctx.Pressed(component.ButtonCrouch) || ctx.Pressed(component.ButtonJump) {
		if !headroom(ctx, component.StanceCrouching.Height()) {
			return
		}
		st.Transitioning = true
		st.ProneTarget = false
		st.ProneProgress = 0
	}
}

// Update advances the transition. Leaving prone always lands in crouch.
func (proneState) Update(ctx *sim.Context) {
	st := &ctx.State.Stance
	if !st.Transitioning {
		return
	}
	t := ctx.Const.ProneTransitionTime
	if t <= 0 {
		st.ProneProgress = 1
	} else {
		st.ProneProgress += ctx.Dt / t
	}
	if st.ProneProgress < 1 {
		return
	}
	st.ProneProgress = 1
	st.Transitioning = false
	if !st.ProneTarget {
		changeStance(ctx, stanceCrouch)
	}
}
