package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/sim/component"
)

// Handle identifies a collider in the collision world.
type Handle int

const NoHandle Handle = -1

// MaxContacts bounds the contact normals reported by one character move.
const MaxContacts = 8

type RayHit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
	Collider Handle
}

// MoveResult is the collision world's answer to a character move. Movement
// is the corrected displacement that was applied.
type MoveResult struct {
	Movement     mgl64.Vec3
	Grounded     bool
	GroundNormal mgl64.Vec3
	Normals      [MaxContacts]mgl64.Vec3
	NumNormals   int
}

// AddNormal records a contact normal if there is room.
func (r *MoveResult) AddNormal(n mgl64.Vec3) {
	if r == nil || r.NumNormals >= MaxContacts {
		return
	}
	for i := 0; i < r.NumNormals; i++ {
		if r.Normals[i].ApproxEqual(n) {
			return
		}
	}
	r.Normals[r.NumNormals] = n
	r.NumNormals++
}

// CollisionWorld is the synchronous geometry query surface the tick runs
// against. Rays and character moves ignore sensor volumes and the
// character's own collider.
type CollisionWorld interface {
	CastRay(origin, dir mgl64.Vec3, maxDist float64) (RayHit, bool)
	MoveCharacter(desired mgl64.Vec3) MoveResult
	SetCharacterPosition(feet mgl64.Vec3)
	SetCharacterHeight(height float64)
}

type Hitbox struct {
	Target int
	Zone   component.HitZone
}

// HitboxRegistry maps collider handles to damageable target zones.
type HitboxRegistry interface {
	Lookup(h Handle) (Hitbox, bool)
}

type SplashTarget struct {
	Target int
	Center mgl64.Vec3
}

// SplashQuery appends every damageable target whose center lies within
// radius of center to out and returns the extended slice.
type SplashQuery interface {
	TargetsInRadius(center mgl64.Vec3, radius float64, out []SplashTarget) []SplashTarget
}
