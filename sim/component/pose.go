package component

import "github.com/go-gl/mathgl/mgl64"

// Pose is the kinematic pose published after each tick.
type Pose struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
}

type CameraPose struct {
	Eye   mgl64.Vec3
	Yaw   float64
	Pitch float64
	Roll  float64
}

// HUDState is the bounded set of fields published to the HUD.
type HUDState struct {
	Tick     uint64
	Speed    float64
	Position mgl64.Vec3
	Grounded bool
	Stance   Stance
	Weapon   WeaponKind
	Ammo     Ammo
	Health   float64
	ADS      float64
	Scope    float64
	Inspect  float64
	WallRun  bool
	Grapple  bool
	Bhop     bool
}
