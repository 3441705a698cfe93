package system

import (
	"github.com/milk9111/strafe/common"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

// ZoneSystem drains the trigger-volume queue once per tick in FIFO order.
type ZoneSystem struct{}

func NewZoneSystem() *ZoneSystem { return &ZoneSystem{} }

func (s *ZoneSystem) Update(ctx *sim.Context) {
	if ctx == nil || ctx.Zones == nil || ctx.Body == nil {
		return
	}

	ctx.Zones.Drain(func(evt component.ZoneEvent) { applyZone(ctx, evt) })
}

func applyZone(ctx *sim.Context, evt component.ZoneEvent) {
	b := ctx.Body
	c := ctx.Const
	switch evt.Kind {
	case component.ZoneBoostPad:
		dir := common.NormalizeOr(common.Horizontal(evt.Dir), common.FlatForward(b.Yaw))
		speed := common.HorizontalLen(b.Velocity)
		if floor := ctx.Scaled(c.BoostPadSpeed); speed < floor {
			speed = floor
		}
		b.Velocity = common.WithHorizontal(b.Velocity, dir.Mul(speed))
		ctx.Sound(component.SoundBoostPad, b.Position, 1)
	case component.ZoneLaunchPad:
		b.Velocity = evt.Velocity
		b.Grounded = false
		ctx.State.Jump.Ascending = false
		endWallRun(ctx)
		ctx.Sound(component.SoundLaunchPad, b.Position, 1)
	case component.ZoneSpeedGate:
		speed := common.HorizontalLen(b.Velocity) * c.SpeedGateMultiplier
		if floor := ctx.Scaled(c.SpeedGateMinSpeed); speed < floor {
			speed = floor
		}
		b.Velocity = common.SetHorizontalSpeed(b.Velocity, speed, common.FlatForward(b.Yaw))
		ctx.Sound(component.SoundSpeedGate, b.Position, 1)
	case component.ZoneAmmoPickup:
		amount := int(evt.Amount)
		if amount <= 0 || ctx.Loadout == nil {
			return
		}
		for i := range ctx.Loadout.Ammo {
			if !evt.AllWeapons && component.WeaponKind(i) != evt.Weapon {
				continue
			}
			ammo := &ctx.Loadout.Ammo[i]
			if ammo.Unlimited {
				continue
			}
			ammo.Reserve += amount
		}
		ctx.Sound(component.SoundAmmoPickup, b.Position, 1)
	case component.ZoneHazard:
		ctx.Damage(evt.Amount)
	}
}

