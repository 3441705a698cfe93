package system

import (
	"github.com/milk9111/strafe/common"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

// RespawnSystem resolves void and non-finite positions, consumes a pending
// respawn request and applies mouse look. It runs before everything else.
type RespawnSystem struct{}

func NewRespawnSystem() *RespawnSystem { return &RespawnSystem{} }

func (s *RespawnSystem) Update(ctx *sim.Context) {
	if ctx == nil || ctx.Body == nil || ctx.State == nil {
		return
	}

	st := ctx.State
	b := ctx.Body
	if !common.FiniteVec(b.Position) || !common.FiniteVec(b.Velocity) || b.Position.Y() < ctx.Const.VoidY {
		st.RespawnRequested = true
	}

	if st.RespawnRequested {
		st.RespawnRequested = false
		// A request that arrives while the previous respawn is still settling
		// is dropped.
		if st.GraceTicks == 0 {
			respawn(ctx)
		}
	}

	look(ctx)
}

func respawn(ctx *sim.Context) {
	ctx.State.Reset()
	ctx.Body.Place(ctx.Spawn)
	ctx.Loadout.Reset(ctx.Weapons)
	ctx.Pool.Reset()
	ctx.Zones.Clear()
	if ctx.World != nil {
		ctx.World.SetCharacterPosition(ctx.Spawn.Position)
		ctx.World.SetCharacterHeight(component.StanceStanding.Height())
	}
	ctx.State.GraceTicks = ctx.Const.RespawnGraceTicks
	ctx.Sound(component.SoundRespawn, ctx.Spawn.Position, 1)
}

func look(ctx *sim.Context) {
	in := ctx.Input
	if in == nil || (in.MouseDX == 0 && in.MouseDY == 0) {
		return
	}

	sens := ctx.Const.MouseSensitivity
	if ctx.Weapons != nil && ctx.Loadout != nil {
		sens *= common.Lerp(1, ctx.Weapon().AdsSensitivity, ctx.State.ADS)
	}

	b := ctx.Body
	b.Yaw = common.WrapAngle(b.Yaw - in.MouseDX*sens)
	b.Pitch = common.Clamp(b.Pitch-in.MouseDY*sens, -ctx.Const.PitchLimit, ctx.Const.PitchLimit)
}
