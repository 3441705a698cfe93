package simtest

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

// NewContext builds a context with default tuning, a full loadout and the
// body standing at the world's character position.
func NewContext(w *World) *sim.Context {
	consts := component.DefaultConstants()
	weapons := component.DefaultWeaponTable()
	state := component.NewTickState()
	body := &component.Body{}
	body.Place(component.Spawn{Position: w.Feet})
	loadout := &component.Loadout{}
	loadout.Reset(&weapons)

	return &sim.Context{
		Const:    &consts,
		Dev:      component.DefaultDevMultipliers(),
		Weapons:  &weapons,
		State:    &state,
		Body:     body,
		Input:    &component.InputSnapshot{},
		Loadout:  loadout,
		Pool:     &component.ProjectilePool{},
		Spawn:    component.Spawn{Position: w.Feet},
		Camera:   &component.CameraPose{},
		World:    w,
		Hitboxes: Hitboxes{},
		Splash:   Targets{},
		Zones:    sim.NewQueue[component.ZoneEvent](32),
		Anchors:  &sim.AnchorSet{},
		Events:   sim.NewEventBuffer(),
		Scratch:  sim.NewScratch(),
		Rand:     rand.New(rand.NewPCG(1, 2)),
		Dt:       component.Dt,
	}
}

// Ground places the body on a floor at feet and marks it grounded.
func Ground(ctx *sim.Context, w *World, feet mgl64.Vec3) {
	w.Feet = feet
	ctx.Body.Position = feet
	ctx.Body.Grounded = true
	ctx.Body.GroundNormal = mgl64.Vec3{0, 1, 0}
	ctx.State.WasGrounded = true
	ctx.State.Jump.LastGrounded = ctx.Now
}

// Advance runs one tick of the given systems the way the controller does:
// edges against the previous tick, events cleared first, deltas consumed
// after.
func Advance(ctx *sim.Context, systems ...sim.System) {
	ctx.Now = float64(ctx.Tick) * ctx.Dt
	ctx.Buttons = ctx.Input.Buttons()
	ctx.Events.Clear()
	for _, s := range systems {
		s.Update(ctx)
	}
	ctx.State.PrevButtons = ctx.Buttons
	ctx.Input.ConsumeDeltas()
	ctx.Tick++
}
