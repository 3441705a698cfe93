// Package simtest provides analytic collaborators for system tests.
package simtest

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/geom"
	"github.com/milk9111/strafe/sim"
)

const (
	HalfWidth = 0.4
	skin      = 0.05
)

// World is a brute-force box world. Solid i has handle i.
type World struct {
	Solids []geom.AABB
	Feet   mgl64.Vec3
	Height float64
	// Slope overrides the reported ground normal when non-zero.
	Slope mgl64.Vec3

	Rays      int
	Moves     int
	Teleports int
}

func NewWorld(solids ...geom.AABB) *World {
	return &World{Solids: solids, Height: 1.8}
}

// Floor is a large slab whose top face is at y.
func Floor(y float64) geom.AABB {
	return geom.Box(mgl64.Vec3{-500, y - 1, -500}, mgl64.Vec3{500, y, 500})
}

// WallZ is a slab facing +Z whose front face is at z, spanning x in [-w, w].
func WallZ(z, w, h float64) geom.AABB {
	return geom.Box(mgl64.Vec3{-w, 0, z - 1}, mgl64.Vec3{w, h, z})
}

// WallX is a slab whose -X face is at x.
func WallX(x, w, h float64) geom.AABB {
	return geom.Box(mgl64.Vec3{x, 0, -w}, mgl64.Vec3{x + 1, h, w})
}

func (w *World) CastRay(origin, dir mgl64.Vec3, maxDist float64) (sim.RayHit, bool) {
	w.Rays++
	best := sim.RayHit{Distance: math.Inf(1), Collider: sim.NoHandle}
	for i, s := range w.Solids {
		t, n, ok := geom.Ray(origin, dir, maxDist, s)
		if !ok || t >= best.Distance {
			continue
		}
		best = sim.RayHit{Point: origin.Add(dir.Mul(t)), Normal: n, Distance: t, Collider: sim.Handle(i)}
	}
	return best, best.Collider != sim.NoHandle
}

func (w *World) MoveCharacter(desired mgl64.Vec3) sim.MoveResult {
	w.Moves++
	box := geom.CharacterBox(w.Feet, HalfWidth, w.Height)
	sw := geom.Sweep(box, desired, w.Solids)
	w.Feet = w.Feet.Add(sw.Movement)
	box = geom.CharacterBox(w.Feet, HalfWidth, w.Height)
	geom.Touching(box, skin, w.Solids, &sw)

	res := sim.MoveResult{Movement: sw.Movement}
	for i := 0; i < sw.N; i++ {
		res.AddNormal(sw.Contacts[i].Normal)
	}
	if _, ok := geom.Ground(box, skin, w.Solids); ok || sw.Floor {
		res.Grounded = true
		res.GroundNormal = mgl64.Vec3{0, 1, 0}
		if w.Slope != (mgl64.Vec3{}) {
			res.GroundNormal = w.Slope
		}
	}
	return res
}

func (w *World) SetCharacterPosition(feet mgl64.Vec3) {
	w.Teleports++
	w.Feet = feet
}

func (w *World) SetCharacterHeight(height float64) {
	w.Height = height
}

// Hitboxes is a map-backed hitbox registry.
type Hitboxes map[sim.Handle]sim.Hitbox

func (h Hitboxes) Lookup(handle sim.Handle) (sim.Hitbox, bool) {
	hb, ok := h[handle]
	return hb, ok
}

// Targets is a list-backed splash query.
type Targets []sim.SplashTarget

func (t Targets) TargetsInRadius(center mgl64.Vec3, radius float64, out []sim.SplashTarget) []sim.SplashTarget {
	for _, target := range t {
		if target.Center.Sub(center).Len() <= radius {
			out = append(out, target)
		}
	}
	return out
}
