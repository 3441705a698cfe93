package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/strafe/sim/component"
)

const stickDeadzone = 0.2

// stickLookRate is radians-equivalent mouse counts per tick at full
// right-stick deflection.
const stickLookRate = 6.0

var slotKeys = [...]ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6}

// Input turns keyboard, mouse and the first gamepad into one tick's
// InputSnapshot. Mouse deltas only accumulate while the cursor is captured.
type Input struct {
	snap     component.InputSnapshot
	captured bool
	lastX    int
	lastY    int
	seeded   bool
}

func NewInput() *Input {
	return &Input{}
}

func (i *Input) SetCaptured(captured bool) {
	i.captured = captured
	i.seeded = false
	if captured {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
}

// Update samples the devices. The returned snapshot is owned by Input and
// handed straight to the controller, which zeroes its one-shot fields.
func (i *Input) Update() *component.InputSnapshot {
	s := &i.snap
	key := ebiten.IsKeyPressed
	mouse := ebiten.IsMouseButtonPressed

	s.Forward = key(ebiten.KeyW)
	s.Back = key(ebiten.KeyS)
	s.Left = key(ebiten.KeyA)
	s.Right = key(ebiten.KeyD)
	s.Jump = key(ebiten.KeySpace)
	s.Crouch = key(ebiten.KeyControlLeft)
	s.Prone = key(ebiten.KeyZ)
	s.Fire = mouse(ebiten.MouseButtonLeft)
	s.AltFire = mouse(ebiten.MouseButtonRight)
	s.Grapple = key(ebiten.KeyE)
	s.Inspect = key(ebiten.KeyF)
	s.WeaponWheel = key(ebiten.KeyTab)
	s.Reload = key(ebiten.KeyR)
	s.HoldBreath = key(ebiten.KeyShiftLeft)
	s.Dash = key(ebiten.KeyQ)

	for n, k := range slotKeys {
		if inpututil.IsKeyJustPressed(k) {
			s.SelectSlot = n + 1
		}
	}
	_, wy := ebiten.Wheel()
	s.Scroll += wy

	x, y := ebiten.CursorPosition()
	if i.captured {
		if i.seeded {
			s.MouseDX += float64(x - i.lastX)
			s.MouseDY += float64(y - i.lastY)
		}
		i.seeded = true
	}
	i.lastX, i.lastY = x, y

	i.gamepad(s)
	return s
}

func (i *Input) gamepad(s *component.InputSnapshot) {
	ids := ebiten.AppendGamepadIDs(nil)
	if len(ids) == 0 {
		return
	}
	id := ids[0]
	if !ebiten.IsStandardGamepadLayoutAvailable(id) {
		return
	}
	axis := func(a ebiten.StandardGamepadAxis) float64 {
		v := ebiten.StandardGamepadAxisValue(id, a)
		if math.Abs(v) < stickDeadzone {
			return 0
		}
		return v
	}
	button := func(b ebiten.StandardGamepadButton) bool {
		return ebiten.IsStandardGamepadButtonPressed(id, b)
	}

	lx, ly := axis(ebiten.StandardGamepadAxisLeftStickHorizontal), axis(ebiten.StandardGamepadAxisLeftStickVertical)
	s.Left = s.Left || lx < 0
	s.Right = s.Right || lx > 0
	s.Forward = s.Forward || ly < 0
	s.Back = s.Back || ly > 0

	s.MouseDX += axis(ebiten.StandardGamepadAxisRightStickHorizontal) * stickLookRate
	s.MouseDY += axis(ebiten.StandardGamepadAxisRightStickVertical) * stickLookRate

	s.Jump = s.Jump || button(ebiten.StandardGamepadButtonRightBottom)
	s.Crouch = s.Crouch || button(ebiten.StandardGamepadButtonRightRight)
	s.Reload = s.Reload || button(ebiten.StandardGamepadButtonRightLeft)
	s.Grapple = s.Grapple || button(ebiten.StandardGamepadButtonRightTop)
	s.Fire = s.Fire || button(ebiten.StandardGamepadButtonFrontBottomRight)
	s.AltFire = s.AltFire || button(ebiten.StandardGamepadButtonFrontBottomLeft)
	s.Dash = s.Dash || button(ebiten.StandardGamepadButtonFrontTopLeft)
	if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontTopRight) {
		s.Scroll--
	}
}
