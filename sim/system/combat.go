package system

import (
	"math"

	"github.com/milk9111/strafe/common"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

// CombatSystem advances the weapon state machine: swap, reload, aim blend,
// scope sway, inspect, recoil recovery, knife lunge and beam.
type CombatSystem struct{}

func NewCombatSystem() *CombatSystem { return &CombatSystem{} }

func (s *CombatSystem) Update(ctx *sim.Context) {
	if ctx == nil || ctx.Loadout == nil || ctx.Weapons == nil || ctx.State == nil {
		return
	}

	updateSwap(ctx)
	updateReload(ctx)
	updateADS(ctx)
	updateScopeSway(ctx)
	updateInspect(ctx)
	updateRecoil(ctx)
	updateLunge(ctx)
	updateBeam(ctx)
}

func updateSwap(ctx *sim.Context) {
	l := ctx.Loadout
	if kind, ok := requestedWeapon(ctx); ok && kind != l.Pending {
		beginSwap(ctx, kind)
	}
	if !l.Swapping {
		return
	}
	l.SwapTimer -= ctx.Dt
	if l.SwapTimer <= 0 {
		l.SwapTimer = 0
		l.Swapping = false
		l.Active = l.Pending
	}
}

func requestedWeapon(ctx *sim.Context) (component.WeaponKind, bool) {
	in := ctx.Input
	if in == nil {
		return 0, false
	}
	if in.SelectSlot > 0 {
		return ctx.Weapons.BySlot(in.SelectSlot)
	}
	switch {
	case in.Scroll > 0:
		return cycleWeapon(ctx.Weapons, ctx.Loadout.Pending, 1)
	case in.Scroll < 0:
		return cycleWeapon(ctx.Weapons, ctx.Loadout.Pending, -1)
	}
	return 0, false
}

// cycleWeapon walks slot numbers from the current weapon's slot in dir,
// wrapping, and returns the first bound weapon.
func cycleWeapon(t *component.WeaponTable, current component.WeaponKind, dir int) (component.WeaponKind, bool) {
	maxSlot := 0
	for i := range t {
		if t[i].Slot > maxSlot {
			maxSlot = t[i].Slot
		}
	}
	if maxSlot == 0 {
		return 0, false
	}
	slot := t[current].Slot
	for range maxSlot {
		slot += dir
		if slot < 1 {
			slot = maxSlot
		} else if slot > maxSlot {
			slot = 1
		}
		if k, ok := t.BySlot(slot); ok {
			return k, true
		}
	}
	return 0, false
}

func beginSwap(ctx *sim.Context, kind component.WeaponKind) {
	l := ctx.Loadout
	st := ctx.State
	l.Pending = kind
	l.Swapping = true
	l.SwapTimer = ctx.Weapons[kind].SwapTime
	l.Reloading = false
	l.ReloadTimer = 0
	st.ADS = 0
	st.Inspect = 0
	st.Recoil = component.RecoilState{LastShot: component.Never}
	breath := st.Sway.BreathUsed
	st.Sway = component.ScopeSwayState{BreathUsed: breath}
	st.Beam = component.BeamState{}
	ctx.Sound(component.SoundSwap, ctx.Body.Position, 0.6)
}

func updateReload(ctx *sim.Context) {
	l := ctx.Loadout
	if l.Swapping {
		return
	}
	if !l.Reloading {
		if ctx.Pressed(component.ButtonReload) {
			beginReload(ctx)
		}
		return
	}
	l.ReloadTimer -= ctx.Dt
	if l.ReloadTimer <= 0 {
		l.ReloadTimer = 0
		l.Reloading = false
		ctx.Ammo().Refill(ctx.Weapon().Magazine)
	}
}

// beginReload starts a reload when the magazine is not full and there is
// reserve to draw from.
func beginReload(ctx *sim.Context) bool {
	l := ctx.Loadout
	spec := ctx.Weapon()
	ammo := ctx.Ammo()
	if l.Reloading || l.Swapping || ammo.Unlimited || ammo.Reserve <= 0 || ammo.Magazine >= spec.Magazine {
		return false
	}
	l.Reloading = true
	l.ReloadTimer = spec.ReloadTime
	ctx.State.ADS = 0
	ctx.State.Beam = component.BeamState{}
	ctx.Sound(component.SoundReload, ctx.Body.Position, 0.7)
	return true
}

func updateADS(ctx *sim.Context) {
	st := ctx.State
	c := ctx.Const
	spec := ctx.Weapon()

	if st.Sway.ForcedOut && !ctx.Held(component.ButtonAltFire) {
		st.Sway.ForcedOut = false
	}

	target := 0.0
	if ctx.Held(component.ButtonAltFire) && spec.CanAim && !ctx.Loadout.Busy() && !st.Sway.ForcedOut && !ctx.Held(component.ButtonWeaponWheel) {
		target = 1
	}
	st.ADS = common.ExpApproach(st.ADS, target, c.AdsRate, ctx.Dt)
	if math.Abs(st.ADS-target) < c.AdsEpsilon {
		st.ADS = target
	}
}

func updateScopeSway(ctx *sim.Context) {
	st := ctx.State
	sw := &st.Sway
	c := ctx.Const
	dt := ctx.Dt

	held := ctx.Held(component.ButtonHoldBreath)
	if !ctx.Weapon().Scope || st.ADS < c.AdsNearFull {
		breath := math.Max(0, sw.BreathUsed-c.BreathRecoverRate*dt)
		*sw = component.ScopeSwayState{BreathUsed: breath, ForcedOut: sw.ForcedOut}
		return
	}

	sw.ScopedFor += dt
	sw.Phase += dt

	mouse := 0.0
	if ctx.Input != nil {
		mouse = math.Hypot(ctx.Input.MouseDX, ctx.Input.MouseDY)
	}
	sw.Energy = sw.Energy*math.Exp(-c.SwayEnergyDecay*dt) + mouse*c.SwayMouseGain

	stability := common.Lerp(1, c.SwayStableFactor, common.Smoothstep(sw.ScopedFor/c.SwayStabilizeTime))

	breath := 1.0
	sw.Holding = held && sw.BreathUsed < c.BreathHoldMax
	if sw.Holding {
		sw.BreathUsed += dt
		breath = c.BreathHoldFactor
	} else if !held {
		sw.BreathUsed = math.Max(0, sw.BreathUsed-c.BreathRecoverRate*dt)
	}

	amp := c.SwayAmplitude * (1 + sw.Energy) * stability * breath
	w := 2 * math.Pi * c.SwayFrequency
	sw.OffsetYaw = amp * math.Sin(w*sw.Phase)
	sw.OffsetPitch = 0.5 * amp * math.Sin(2*w*sw.Phase)

	if sw.ScopedFor >= c.ScopeDriftDuration {
		breathUsed := sw.BreathUsed
		*sw = component.ScopeSwayState{BreathUsed: breathUsed, ForcedOut: true}
		ctx.Sound(component.SoundScopeOut, ctx.Body.Position, 0.5)
	}
}

func updateInspect(ctx *sim.Context) {
	st := ctx.State
	c := ctx.Const

	moving := ctx.Held(component.ButtonForward | component.ButtonBack | component.ButtonLeft |
		component.ButtonRight | component.ButtonJump | component.ButtonCrouch)
	if ctx.Held(component.ButtonFire) || ctx.Loadout.Busy() || moving || st.ADS > c.AdsEpsilon {
		st.Inspect = 0
		return
	}

	target := 0.0
	if ctx.Held(component.ButtonInspect) {
		target = 1
	}
	st.Inspect = common.ExpApproach(st.Inspect, target, c.InspectRate, ctx.Dt)
	if math.Abs(st.Inspect-target) < c.AdsEpsilon {
		st.Inspect = target
	}
}

func updateRecoil(ctx *sim.Context) {
	r := &ctx.State.Recoil
	c := ctx.Const
	if ctx.Now-r.LastShot < c.RecoilRecoverDelay {
		return
	}
	step := c.RecoilRecoverRate * ctx.Dt
	r.Pitch = common.MoveToward(r.Pitch, 0, step)
	r.Yaw = common.MoveToward(r.Yaw, 0, step)
	r.SpreadBonus *= math.Exp(-c.RecoilSpreadDecay * ctx.Dt)
	if r.SpreadBonus < 1e-6 {
		r.SpreadBonus = 0
	}
}

// updateLunge overrides horizontal velocity while a knife lunge runs.
func updateLunge(ctx *sim.Context) {
	lg := &ctx.State.Lunge
	if lg.Timer <= 0 {
		return
	}
	speed := ctx.Scaled(ctx.Const.KnifeLungeSpeed)
	ctx.Body.Velocity = common.WithHorizontal(ctx.Body.Velocity, lg.Dir.Mul(speed))
	lg.Timer -= ctx.Dt
	if lg.Timer < 0 {
		lg.Timer = 0
	}
}

func updateBeam(ctx *sim.Context) {
	st := ctx.State
	c := ctx.Const
	b := ctx.Body
	ammo := ctx.Ammo()

	firing := ctx.Loadout.Active == component.WeaponBeam &&
		ctx.Held(component.ButtonFire) &&
		!ctx.Loadout.Busy() &&
		!ctx.Held(component.ButtonWeaponWheel)
	if firing && ammo.Empty() {
		beginReload(ctx)
		firing = false
	}
	if !firing {
		st.Beam = component.BeamState{}
		return
	}
	if !st.Beam.Active {
		ctx.Sound(component.SoundBeam, b.Position, 0.8)
	}
	st.Beam.Active = true

	aim := ctx.Aim()
	b.Velocity = b.Velocity.Sub(aim.Mul(c.BeamPushback * ctx.Dt))
	if b.Grounded && aim.Y() < -c.BeamSteepSin && b.Velocity.Y() < c.BeamMinUpVelocity {
		b.Velocity[1] = c.BeamMinUpVelocity
	}

	st.Beam.AmmoTimer += ctx.Dt
	for st.Beam.AmmoTimer >= c.BeamAmmoInterval {
		st.Beam.AmmoTimer -= c.BeamAmmoInterval
		if !ammo.Take(1) {
			break
		}
	}

	if ctx.World == nil {
		return
	}
	eye := ctx.Eye()
	hit, ok := ctx.World.CastRay(eye, aim, ctx.Weapon().Range)
	if !ok {
		return
	}
	if hb, found := lookupHitbox(ctx, hit.Collider); found {
		ctx.Events.Hit(component.HitEvent{
			Target: hb.Target,
			Zone:   hb.Zone,
			Damage: c.BeamDPS * ctx.Dt * c.Multiplier(hb.Zone),
			Point:  hit.Point,
			Weapon: component.WeaponBeam,
		})
		return
	}
	ctx.Visual(component.VisualBeam, hit.Point, hit.Normal, 1)
}

func lookupHitbox(ctx *sim.Context, h sim.Handle) (sim.Hitbox, bool) {
	if ctx.Hitboxes == nil || h == sim.NoHandle {
		return sim.Hitbox{}, false
	}
	return ctx.Hitboxes.Lookup(h)
}
