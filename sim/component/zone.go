package component

import "github.com/go-gl/mathgl/mgl64"

type ZoneKind uint8

const (
	ZoneBoostPad ZoneKind = iota + 1
	ZoneLaunchPad
	ZoneSpeedGate
	ZoneAmmoPickup
	ZoneHazard
)

func (k ZoneKind) String() string {
	switch k {
	case ZoneBoostPad:
		return "boost_pad"
	case ZoneLaunchPad:
		return "launch_pad"
	case ZoneSpeedGate:
		return "speed_gate"
	case ZoneAmmoPickup:
		return "ammo_pickup"
	case ZoneHazard:
		return "hazard"
	default:
		return "none"
	}
}

func ParseZoneKind(name string) (ZoneKind, bool) {
	for k := ZoneBoostPad; k <= ZoneHazard; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

// ZoneEvent is a trigger-volume event. Kind selects which payload fields are
// meaningful:
//
//	ZoneBoostPad   Dir (horizontal direction of the boost)
//	ZoneLaunchPad  Velocity (replaces the player's velocity)
//	ZoneSpeedGate  no payload
//	ZoneAmmoPickup Weapon and Amount, or AllWeapons and Amount
//	ZoneHazard     Amount (damage)
type ZoneEvent struct {
	Kind       ZoneKind
	Dir        mgl64.Vec3
	Velocity   mgl64.Vec3
	Weapon     WeaponKind
	AllWeapons bool
	Amount     float64
}

func BoostPad(dir mgl64.Vec3) ZoneEvent {
	return ZoneEvent{Kind: ZoneBoostPad, Dir: dir}
}

func LaunchPad(velocity mgl64.Vec3) ZoneEvent {
	return ZoneEvent{Kind: ZoneLaunchPad, Velocity: velocity}
}

func SpeedGate() ZoneEvent {
	return ZoneEvent{Kind: ZoneSpeedGate}
}

func AmmoPickup(weapon WeaponKind, amount int) ZoneEvent {
	return ZoneEvent{Kind: ZoneAmmoPickup, Weapon: weapon, Amount: float64(amount)}
}

func AmmoPickupAll(amount int) ZoneEvent {
	return ZoneEvent{Kind: ZoneAmmoPickup, AllWeapons: true, Amount: float64(amount)}
}

func Hazard(damage float64) ZoneEvent {
	return ZoneEvent{Kind: ZoneHazard, Amount: damage}
}
