package sim

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/common"
	"github.com/milk9111/strafe/sim/component"
)

// Context is everything one player's tick reads and writes. The controller
// owns it and hands it to each system in order.
type Context struct {
	Const   *component.Constants
	Dev     component.DevMultipliers
	Weapons *component.WeaponTable

	State   *component.TickState
	Body    *component.Body
	Input   *component.InputSnapshot
	Loadout *component.Loadout
	Pool    *component.ProjectilePool
	Spawn   component.Spawn
	Camera  *component.CameraPose

	World    CollisionWorld
	Hitboxes HitboxRegistry
	Splash   SplashQuery

	Zones   *Queue[component.ZoneEvent]
	Anchors *AnchorSet
	Events  *EventBuffer
	Scratch *Scratch
	Rand    *rand.Rand

	Tick uint64
	Now  float64
	Dt   float64

	// Buttons is the held mask for this tick.
	Buttons component.Buttons
}

func (c *Context) Held(b component.Buttons) bool {
	return c.Buttons&b != 0
}

// Pressed reports a rising edge against the previous tick.
func (c *Context) Pressed(b component.Buttons) bool {
	return c.Buttons&b != 0 && c.State.PrevButtons&b == 0
}

func (c *Context) Released(b component.Buttons) bool {
	return c.Buttons&b == 0 && c.State.PrevButtons&b != 0
}

// Gravity is the configured gravity scaled by the developer multiplier.
func (c *Context) Gravity() float64 {
	return c.Const.Gravity * c.Dev.Gravity
}

// Scaled applies the developer speed multiplier to a speed tunable.
func (c *Context) Scaled(speed float64) float64 {
	return speed * c.Dev.Speed
}

func (c *Context) Weapon() *component.WeaponSpec {
	return &c.Weapons[c.Loadout.Active]
}

func (c *Context) Ammo() *component.Ammo {
	return &c.Loadout.Ammo[c.Loadout.Active]
}

// Eye returns the current eye position for the active stance.
func (c *Context) Eye() mgl64.Vec3 {
	return c.Body.Position.Add(mgl64.Vec3{0, c.State.Stance.Current.EyeHeight(), 0})
}

// Center returns the middle of the character collider.
func (c *Context) Center() mgl64.Vec3 {
	return c.Body.Position.Add(mgl64.Vec3{0, c.State.Stance.AppliedHeight / 2, 0})
}

func (c *Context) Sound(s component.Sound, pos mgl64.Vec3, volume float64) {
	c.Events.Sound(component.SoundEvent{Sound: s, Pos: pos, Volume: volume, Weapon: c.Loadout.Active})
}

func (c *Context) Visual(k component.VisualKind, pos, normal mgl64.Vec3, intensity float64) {
	c.Events.Visual(component.VisualEvent{Kind: k, Pos: pos, Normal: normal, Intensity: intensity})
}

// Since returns milliseconds elapsed from stamp to now.
func (c *Context) Since(stamp float64) float64 {
	return common.MsSince(c.Now, stamp)
}

// AimAngles is the view direction including recoil and scope sway.
func (c *Context) AimAngles() (yaw, pitch float64) {
	yaw = c.Body.Yaw + c.State.Recoil.Yaw + c.State.Sway.OffsetYaw
	pitch = c.Body.Pitch + c.State.Recoil.Pitch + c.State.Sway.OffsetPitch
	return yaw, common.Clamp(pitch, -c.Const.PitchLimit, c.Const.PitchLimit)
}

func (c *Context) Aim() mgl64.Vec3 {
	return common.Forward(c.AimAngles())
}

// Damage lowers health and requests a respawn when it reaches zero.
func (c *Context) Damage(amount float64) {
	if amount <= 0 {
		return
	}
	c.Body.Health -= amount
	c.Sound(component.SoundHurt, c.Body.Position, 1)
	if c.Body.Health <= 0 {
		c.Body.Health = 0
		c.State.RespawnRequested = true
	}
}
