package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/common"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

// CameraSystem derives the eye pose from the body and tick state. Its only
// state is the decaying tilt, landing dip and slide pitch scalars.
type CameraSystem struct{}

func NewCameraSystem() *CameraSystem { return &CameraSystem{} }

func (s *CameraSystem) Update(ctx *sim.Context) {
	if ctx == nil || ctx.Body == nil || ctx.State == nil || ctx.Camera == nil {
		return
	}
	st := ctx.State
	cam := &st.Camera
	c := ctx.Const
	dt := ctx.Dt

	tilt := 0.0
	if st.WallRun.Active {
		// Lean away from the wall.
		tilt = -st.WallRun.Side * c.WallRunTilt
	}
	cam.Tilt = common.ExpApproach(cam.Tilt, tilt, c.TiltRate, dt)
	cam.LandingDip = common.ExpApproach(cam.LandingDip, 0, c.LandingDipDecay, dt)

	slide := 0.0
	if st.Stance.Current == component.StanceSliding {
		slide = c.SlidePitch
	}
	cam.SlidePitch = common.ExpApproach(cam.SlidePitch, slide, c.SlidePitchRate, dt)

	yaw, pitch := ctx.AimAngles()
	*ctx.Camera = component.CameraPose{
		Eye:   ctx.Body.Position.Add(mgl64.Vec3{0, eyeHeight(&st.Stance) - cam.LandingDip, 0}),
		Yaw:   yaw,
		Pitch: common.Clamp(pitch+cam.SlidePitch, -c.PitchLimit, c.PitchLimit),
		Roll:  cam.Tilt,
	}
}

// eyeHeight blends between crouch and prone eye heights while a prone
// transition is in flight.
func eyeHeight(s *component.StanceState) float64 {
	if s.Current != component.StanceProne || !s.Transitioning {
		return s.Current.EyeHeight()
	}
	crouch := component.StanceCrouching.EyeHeight()
	prone := component.StanceProne.EyeHeight()
	t := common.Smoothstep(s.ProneProgress)
	if s.ProneTarget {
		return common.Lerp(crouch, prone, t)
	}
	return common.Lerp(prone, crouch, t)
}
