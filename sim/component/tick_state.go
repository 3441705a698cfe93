package component

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Never is the timestamp of an event that has not happened. Any window
// measured from it is already over.
var Never = math.Inf(-1)

type WallRunState struct {
	Active bool
	Timer  float64
	Normal mgl64.Vec3
	// Side is +1 when the wall is on the player's right, -1 on the left.
	Side        float64
	ChainCount  int
	LastJump    float64
	RearmUntil  float64
	LastNormal  mgl64.Vec3
	HasContact  bool
	ContactSide float64
}

type StanceState struct {
	Current    Stance
	SlideTimer float64
	// ProneProgress runs 0..1 while a prone transition is in flight.
	ProneProgress  float64
	ProneTarget    bool
	Transitioning  bool
	LastCrouchTap  float64
	AppliedHeight  float64
	SlideEnteredAt uint64
}

type MantleState struct {
	Active  bool
	Timer   float64
	StartY  float64
	TargetY float64
	Forward mgl64.Vec3
	// Start is the feet position when the climb began; Advance is how far
	// along Forward the climb carries the body onto the ledge.
	Start         mgl64.Vec3
	Advance       float64
	CooldownUntil float64
}

type DashState struct {
	CooldownUntil float64
	BurstTimer    float64
	Dir           mgl64.Vec3
	LastLeftTap   float64
	LastRightTap  float64
}

type BhopState struct {
	LastLanding float64
	Perfect     bool
}

type JumpState struct {
	BufferedAt   float64
	LastGrounded float64
	// Ascending is set by a jump and cleared at the apex or on landing; only
	// an ascending jump can be cut short.
	Ascending bool
}

type RecoilState struct {
	Pitch       float64
	Yaw         float64
	SpreadBonus float64
	LastShot    float64
}

type ScopeSwayState struct {
	Phase       float64
	Energy      float64
	ScopedFor   float64
	BreathUsed  float64
	Holding     bool
	ForcedOut   bool
	OffsetYaw   float64
	OffsetPitch float64
}

type GrappleState struct {
	Attached      bool
	Anchor        mgl64.Vec3
	Length        float64
	PreSwingSpeed float64
}

type LungeState struct {
	Timer float64
	Dir   mgl64.Vec3
}

type BeamState struct {
	Active    bool
	AmmoTimer float64
}

type CameraState struct {
	Tilt       float64
	LandingDip float64
	SlidePitch float64
}

type ThrottleState struct {
	LastHUD time.Duration
	LastNet time.Duration
	HUDSent bool
	NetSent bool
}

// TickState holds everything that survives between ticks for one player.
type TickState struct {
	WallRun  WallRunState
	Stance   StanceState
	Mantle   MantleState
	Dash     DashState
	Bhop     BhopState
	Jump     JumpState
	Recoil   RecoilState
	Sway     ScopeSwayState
	Grapple  GrappleState
	Lunge    LungeState
	Beam     BeamState
	Camera   CameraState
	Throttle ThrottleState

	ADS     float64
	Inspect float64

	GroundNormal  mgl64.Vec3
	WasGrounded   bool
	FootstepTimer float64

	GraceTicks       int
	RespawnRequested bool
	// LastSubsteps is the substep count of the most recent collision pass.
	LastSubsteps int

	PrevButtons Buttons
}

func NewTickState() TickState {
	var s TickState
	s.Reset()
	return s
}

// Reset restores every field to its initial value in place.
func (s *TickState) Reset() {
	if s == nil {
		return
	}
	*s = TickState{}
	s.GroundNormal = mgl64.Vec3{0, 1, 0}
	s.Stance.LastCrouchTap = Never
	s.Stance.AppliedHeight = StanceStanding.Height()
	s.Dash.CooldownUntil = Never
	s.Dash.LastLeftTap = Never
	s.Dash.LastRightTap = Never
	s.Bhop.LastLanding = Never
	s.Jump.BufferedAt = Never
	s.Jump.LastGrounded = Never
	s.Recoil.LastShot = Never
	s.WallRun.LastJump = Never
	s.WallRun.RearmUntil = Never
	s.Mantle.CooldownUntil = Never
}
