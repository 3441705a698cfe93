package component

// Buttons is a bitmask of held actions used for edge detection between ticks.
type Buttons uint32

const (
	ButtonForward Buttons = 1 << iota
	ButtonBack
	ButtonLeft
	ButtonRight
	ButtonJump
	ButtonCrouch
	ButtonProne
	ButtonFire
	ButtonAltFire
	ButtonGrapple
	ButtonInspect
	ButtonWeaponWheel
	ButtonReload
	ButtonHoldBreath
	ButtonDash
)

// InputSnapshot is the decoded input for one tick. The core zeroes the
// mouse and scroll deltas and the slot selection once it has consumed them.
type InputSnapshot struct {
	Forward     bool
	Back        bool
	Left        bool
	Right       bool
	Jump        bool
	Crouch      bool
	Prone       bool
	Fire        bool
	AltFire     bool
	Grapple     bool
	Inspect     bool
	WeaponWheel bool
	Reload      bool
	HoldBreath  bool
	Dash        bool

	MouseDX float64
	MouseDY float64
	Scroll  float64

	// SelectSlot is a one-shot 1-based weapon slot; 0 means no selection.
	SelectSlot int
}

func (in *InputSnapshot) Buttons() Buttons {
	if in == nil {
		return 0
	}
	var b Buttons
	set := func(on bool, bit Buttons) {
		if on {
			b |= bit
		}
	}
	set(in.Forward, ButtonForward)
	set(in.Back, ButtonBack)
	set(in.Left, ButtonLeft)
	set(in.Right, ButtonRight)
	set(in.Jump, ButtonJump)
	set(in.Crouch, ButtonCrouch)
	set(in.Prone, ButtonProne)
	set(in.Fire, ButtonFire)
	set(in.AltFire, ButtonAltFire)
	set(in.Grapple, ButtonGrapple)
	set(in.Inspect, ButtonInspect)
	set(in.WeaponWheel, ButtonWeaponWheel)
	set(in.Reload, ButtonReload)
	set(in.HoldBreath, ButtonHoldBreath)
	set(in.Dash, ButtonDash)
	return b
}

// MoveAxes returns the strafe (x, +right) and forward (z, +forward) wish axes.
func (in *InputSnapshot) MoveAxes() (x, z float64) {
	if in == nil {
		return 0, 0
	}
	if in.Right {
		x++
	}
	if in.Left {
		x--
	}
	if in.Forward {
		z++
	}
	if in.Back {
		z--
	}
	return x, z
}

// ConsumeDeltas zeroes the accumulated one-shot fields.
func (in *InputSnapshot) ConsumeDeltas() {
	if in == nil {
		return
	}
	in.MouseDX = 0
	in.MouseDY = 0
	in.Scroll = 0
	in.SelectSlot = 0
}
