package engine

import (
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/common"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
	"github.com/milk9111/strafe/sim/system"
)

const zoneQueueCapacity = 32

// EventSink receives one tick's sound, visual and hit events after the tick
// has completed. The buffer is reused; sinks must copy what they keep.
type EventSink interface {
	FlushEvents(tick uint64, events *sim.EventBuffer)
}

type HUDSink interface {
	PublishHUD(hud component.HUDState)
}

// PositionSender ships a throttled position snapshot to the network layer.
type PositionSender interface {
	SendPosition(tick uint64, pose component.Pose, velocity mgl64.Vec3)
}

// FrameRecorder stores one replay frame per tick while a run is active.
type FrameRecorder interface {
	RecordFrame(tick uint64, pose component.Pose)
}

type Sinks struct {
	Events   EventSink
	HUD      HUDSink
	Network  PositionSender
	Recorder FrameRecorder
}

type Config struct {
	Constants component.Constants
	Weapons   component.WeaponTable
	Dev       component.DevMultipliers
	Spawn     component.Spawn
	Seed      uint64

	World    sim.CollisionWorld
	Hitboxes sim.HitboxRegistry
	Splash   sim.SplashQuery

	Sinks Sinks
}

// DefaultConfig returns default tuning with no world attached.
func DefaultConfig() Config {
	return Config{
		Constants: component.DefaultConstants(),
		Weapons:   component.DefaultWeaponTable(),
		Dev:       component.DefaultDevMultipliers(),
	}
}

// Controller owns one player's tick state and runs the systems in their
// fixed order once per tick.
type Controller struct {
	consts  component.Constants
	weapons component.WeaponTable
	state   component.TickState
	body    component.Body
	loadout component.Loadout
	pool    component.ProjectilePool
	camera  component.CameraPose

	ctx       sim.Context
	respawn   *system.RespawnSystem
	scheduler *sim.Scheduler
	cameraSys *system.CameraSystem

	sinks     Sinks
	recording bool
	hud       component.HUDState
}

func NewController(cfg Config) *Controller {
	c := &Controller{
		consts:    cfg.Constants,
		weapons:   cfg.Weapons,
		state:     component.NewTickState(),
		respawn:   system.NewRespawnSystem(),
		cameraSys: system.NewCameraSystem(),
		sinks:     cfg.Sinks,
	}
	for i := range c.weapons {
		c.weapons[i].Kind = component.WeaponKind(i)
	}

	c.scheduler = sim.NewScheduler(
		system.NewZoneSystem(),
		system.NewGrappleSystem(),
		system.NewCombatSystem(),
		system.NewWeaponFireSystem(),
		system.NewProjectileSystem(),
		system.NewMovementSystem(),
		system.NewCollisionSystem(),
		system.NewMantleSystem(),
	)

	c.ctx = sim.Context{
		Const:    &c.consts,
		Dev:      cfg.Dev.Sanitized(),
		Weapons:  &c.weapons,
		State:    &c.state,
		Body:     &c.body,
		Loadout:  &c.loadout,
		Pool:     &c.pool,
		Spawn:    cfg.Spawn,
		Camera:   &c.camera,
		World:    cfg.World,
		Hitboxes: cfg.Hitboxes,
		Splash:   cfg.Splash,
		Zones:    sim.NewQueue[component.ZoneEvent](zoneQueueCapacity),
		Anchors:  &sim.AnchorSet{},
		Events:   sim.NewEventBuffer(),
		Scratch:  sim.NewScratch(),
		Rand:     rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		Dt:       component.Dt,
	}

	c.place()
	return c
}

func (c *Controller) place() {
	c.body.Place(c.ctx.Spawn)
	c.loadout.Reset(&c.weapons)
	if c.ctx.World != nil {
		c.ctx.World.SetCharacterPosition(c.ctx.Spawn.Position)
		c.ctx.World.SetCharacterHeight(component.StanceStanding.Height())
	}
	c.cameraSys.Update(&c.ctx)
}

// Ready reports whether the controller has the collaborators a tick needs.
// Ticks on a controller that is not ready are skipped.
func (c *Controller) Ready() bool {
	return c != nil && c.ctx.World != nil
}

// Tick advances the simulation by one fixed step. The one-shot fields of in
// (mouse, scroll, slot selection) are zeroed once consumed. now is the host
// wall clock and only drives the output throttles.
func (c *Controller) Tick(in *component.InputSnapshot, now time.Duration) {
	if !c.Ready() || in == nil {
		return
	}

	ctx := &c.ctx
	ctx.Input = in
	ctx.Now = float64(ctx.Tick) * ctx.Dt
	ctx.Buttons = in.Buttons()
	ctx.Events.Clear()

	c.respawn.Update(ctx)
	if c.state.GraceTicks > 0 {
		c.state.GraceTicks--
	} else {
		c.scheduler.Update(ctx)
	}
	c.cameraSys.Update(ctx)

	c.state.PrevButtons = ctx.Buttons
	in.ConsumeDeltas()
	ctx.Input = nil
	tick := ctx.Tick
	ctx.Tick++

	c.publish(tick, now)
}

func (c *Controller) publish(tick uint64, now time.Duration) {
	if c.sinks.Events != nil && !c.ctx.Events.Empty() {
		c.sinks.Events.FlushEvents(tick, c.ctx.Events)
	}

	pose := c.Pose()
	if c.recording && c.sinks.Recorder != nil {
		c.sinks.Recorder.RecordFrame(tick, pose)
	}

	c.hud = c.buildHUD(tick)
	th := &c.state.Throttle
	if c.sinks.HUD != nil && due(th.HUDSent, th.LastHUD, now, c.consts.HUDInterval) {
		th.HUDSent = true
		th.LastHUD = now
		c.sinks.HUD.PublishHUD(c.hud)
	}
	if c.sinks.Network != nil && due(th.NetSent, th.LastNet, now, c.consts.NetInterval) {
		th.NetSent = true
		th.LastNet = now
		c.sinks.Network.SendPosition(tick, pose, c.body.Velocity)
	}
}

func due(sent bool, last, now, interval time.Duration) bool {
	return !sent || now-last >= interval
}

func (c *Controller) buildHUD(tick uint64) component.HUDState {
	weapon := c.weapons[c.loadout.Active]
	scope := 0.0
	if weapon.Scope {
		scope = c.state.ADS
	}
	return component.HUDState{
		Tick:     tick,
		Speed:    c.body.Velocity.Len(),
		Position: c.body.Position,
		Grounded: c.body.Grounded,
		Stance:   c.state.Stance.Current,
		Weapon:   c.loadout.Active,
		Ammo:     c.loadout.Ammo[c.loadout.Active],
		Health:   c.body.Health,
		ADS:      c.state.ADS,
		Scope:    scope,
		Inspect:  c.state.Inspect,
		WallRun:  c.state.WallRun.Active,
		Grapple:  c.state.Grapple.Attached,
		Bhop:     c.state.Bhop.Perfect,
	}
}

func (c *Controller) Pose() component.Pose {
	return component.Pose{Position: c.body.Position, Yaw: c.body.Yaw, Pitch: c.body.Pitch}
}

func (c *Controller) Camera() component.CameraPose {
	return c.camera
}

// HUD returns the state built after the last tick, regardless of throttling.
func (c *Controller) HUD() component.HUDState {
	return c.hud
}

func (c *Controller) Body() component.Body {
	return c.body
}

func (c *Controller) State() *component.TickState {
	return &c.state
}

func (c *Controller) Projectiles() *component.ProjectilePool {
	return &c.pool
}

func (c *Controller) TickCount() uint64 {
	return c.ctx.Tick
}

func (c *Controller) Constants() component.Constants {
	return c.consts
}

// SetConstants swaps the tuning table. Call it between ticks.
func (c *Controller) SetConstants(consts component.Constants) {
	c.consts = consts
}

func (c *Controller) SetWeapons(t component.WeaponTable) {
	for i := range t {
		t[i].Kind = component.WeaponKind(i)
	}
	c.weapons = t
}

func (c *Controller) Dev() component.DevMultipliers {
	return c.ctx.Dev
}

func (c *Controller) SetDevMultipliers(m component.DevMultipliers) {
	c.ctx.Dev = m.Sanitized()
}

// SetCollaborators swaps the collision world and its registries, e.g. after
// a level is rebuilt. The new world is moved to the current pose.
func (c *Controller) SetCollaborators(w sim.CollisionWorld, h sim.HitboxRegistry, s sim.SplashQuery) {
	c.ctx.World = w
	c.ctx.Hitboxes = h
	c.ctx.Splash = s
	if w != nil {
		w.SetCharacterPosition(c.body.Position)
		w.SetCharacterHeight(c.state.Stance.Current.Height())
	}
}

func (c *Controller) SetSpawn(s component.Spawn) {
	c.ctx.Spawn = s
}

// RequestRespawn queues a respawn for the next tick.
func (c *Controller) RequestRespawn() {
	c.state.RespawnRequested = true
}

// PushZone queues a zone event for the next tick and reports false when the
// queue is full.
func (c *Controller) PushZone(evt component.ZoneEvent) bool {
	return c.ctx.Zones.Push(evt)
}

// PendingZones reports how many zone events wait for the next tick and the
// queue's capacity.
func (c *Controller) PendingZones() (n, capacity int) {
	return c.ctx.Zones.Len(), c.ctx.Zones.Cap()
}

func (c *Controller) AddAnchor(p mgl64.Vec3) bool {
	return c.ctx.Anchors.Add(p)
}

func (c *Controller) ClearAnchors() {
	c.ctx.Anchors.Clear()
}

// StartRun begins recording replay frames from the next tick.
func (c *Controller) StartRun() {
	c.recording = true
}

func (c *Controller) StopRun() {
	c.recording = false
}

func (c *Controller) Recording() bool {
	return c.recording
}

func (c *Controller) SetSinks(s Sinks) {
	c.sinks = s
}

// Speed is the current speed magnitude, mostly for hosts and tools.
func (c *Controller) Speed() float64 {
	return c.body.Velocity.Len()
}

// HorizontalSpeed ignores the vertical component.
func (c *Controller) HorizontalSpeed() float64 {
	return common.HorizontalLen(c.body.Velocity)
}
