package component

import "github.com/go-gl/mathgl/mgl64"

// Body is the player's kinematic state. Position is the feet point.
type Body struct {
	Position     mgl64.Vec3
	Velocity     mgl64.Vec3
	Yaw          float64
	Pitch        float64
	Grounded     bool
	GroundNormal mgl64.Vec3
	Health       float64
}

// Spawn describes where a body is placed on respawn.
type Spawn struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
}

func (b *Body) Place(s Spawn) {
	if b == nil {
		return
	}
	b.Position = s.Position
	b.Velocity = mgl64.Vec3{}
	b.Yaw = s.Yaw
	b.Pitch = s.Pitch
	b.Grounded = false
	b.GroundNormal = mgl64.Vec3{0, 1, 0}
	b.Health = MaxHealth
}
