package component

import "github.com/go-gl/mathgl/mgl64"

type Sound uint8

const (
	SoundFire Sound = iota + 1
	SoundDryFire
	SoundReload
	SoundSwap
	SoundExplosion
	SoundBounce
	SoundFootstep
	SoundLand
	SoundJump
	SoundBhop
	SoundWallJump
	SoundDash
	SoundSlide
	SoundMantle
	SoundGrappleAttach
	SoundGrappleRelease
	SoundBoostPad
	SoundLaunchPad
	SoundSpeedGate
	SoundAmmoPickup
	SoundHurt
	SoundHit
	SoundHeadshot
	SoundKnife
	SoundBeam
	SoundScopeOut
	SoundRespawn
)

var soundNames = map[Sound]string{
	SoundFire:           "fire",
	SoundDryFire:        "dry_fire",
	SoundReload:         "reload",
	SoundSwap:           "swap",
	SoundExplosion:      "explosion",
	SoundBounce:         "bounce",
	SoundFootstep:       "footstep",
	SoundLand:           "land",
	SoundJump:           "jump",
	SoundBhop:           "bhop",
	SoundWallJump:       "wall_jump",
	SoundDash:           "dash",
	SoundSlide:          "slide",
	SoundMantle:         "mantle",
	SoundGrappleAttach:  "grapple_attach",
	SoundGrappleRelease: "grapple_release",
	SoundBoostPad:       "boost_pad",
	SoundLaunchPad:      "launch_pad",
	SoundSpeedGate:      "speed_gate",
	SoundAmmoPickup:     "ammo_pickup",
	SoundHurt:           "hurt",
	SoundHit:            "hit",
	SoundHeadshot:       "headshot",
	SoundKnife:          "knife",
	SoundBeam:           "beam",
	SoundScopeOut:       "scope_out",
	SoundRespawn:        "respawn",
}

func (s Sound) String() string {
	if n, ok := soundNames[s]; ok {
		return n
	}
	return "none"
}

type SoundEvent struct {
	Sound  Sound
	Pos    mgl64.Vec3
	Volume float64
	Weapon WeaponKind
}

type VisualKind uint8

const (
	VisualExplosion VisualKind = iota + 1
	VisualDecal
	VisualSpark
	VisualMuzzle
	VisualBeam
)

func (k VisualKind) String() string {
	switch k {
	case VisualExplosion:
		return "explosion"
	case VisualDecal:
		return "decal"
	case VisualSpark:
		return "spark"
	case VisualMuzzle:
		return "muzzle"
	case VisualBeam:
		return "beam"
	default:
		return "none"
	}
}

type VisualEvent struct {
	Kind      VisualKind
	Pos       mgl64.Vec3
	Normal    mgl64.Vec3
	Intensity float64
}

type HitZone uint8

const (
	ZoneLimb HitZone = iota
	ZoneTorso
	ZoneHead
)

func (z HitZone) String() string {
	switch z {
	case ZoneHead:
		return "head"
	case ZoneTorso:
		return "torso"
	default:
		return "limb"
	}
}

func ParseHitZone(name string) (HitZone, bool) {
	switch name {
	case "head":
		return ZoneHead, true
	case "torso":
		return ZoneTorso, true
	case "limb":
		return ZoneLimb, true
	}
	return 0, false
}

// Multiplier returns the damage multiplier for the zone.
func (c *Constants) Multiplier(z HitZone) float64 {
	switch z {
	case ZoneHead:
		return c.HeadMultiplier
	case ZoneTorso:
		return c.TorsoMultiplier
	default:
		return c.LimbMultiplier
	}
}

// HitEvent reports damage dealt to a registered target.
type HitEvent struct {
	Target int
	Zone   HitZone
	Damage float64
	Point  mgl64.Vec3
	Weapon WeaponKind
	Splash bool
}
