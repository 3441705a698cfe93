package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Contact is a face the character touched during a sweep.
type Contact struct {
	Normal mgl64.Vec3
}

// SweepResult is the outcome of moving a box through static solids.
type SweepResult struct {
	Movement mgl64.Vec3
	Contacts [6]Contact
	N        int
	Floor    bool
}

func (r *SweepResult) add(n mgl64.Vec3) {
	for i := 0; i < r.N; i++ {
		if r.Contacts[i].Normal == n {
			return
		}
	}
	if r.N < len(r.Contacts) {
		r.Contacts[r.N] = Contact{Normal: n}
		r.N++
	}
}

// sweepOrder resolves vertical motion first so a character on the floor
// slides horizontally without catching on the floor's edges.
var sweepOrder = [3]int{1, 0, 2}

// Sweep moves box by desired one axis at a time, clipping each axis against
// the solids that overlap the box on the other two axes.
func Sweep(box AABB, desired mgl64.Vec3, solids []AABB) SweepResult {
	var res SweepResult
	for _, axis := range sweepOrder {
		d := desired[axis]
		if d == 0 {
			continue
		}
		allowed := d
		for _, s := range solids {
			if !overlapsExcept(box, s, axis) {
				continue
			}
			if d > 0 && s.Min[axis] >= box.Max[axis]-1e-4 {
				allowed = math.Min(allowed, s.Min[axis]-box.Max[axis])
			} else if d < 0 && s.Max[axis] <= box.Min[axis]+1e-4 {
				allowed = math.Max(allowed, s.Max[axis]-box.Min[axis])
			}
		}
		if allowed != d {
			var n mgl64.Vec3
			if d > 0 {
				n[axis] = -1
			} else {
				n[axis] = 1
			}
			res.add(n)
			if axis == 1 && d < 0 {
				res.Floor = true
			}
		}
		res.Movement[axis] = allowed
		var step mgl64.Vec3
		step[axis] = allowed
		box = box.Translate(step)
	}
	return res
}

// Touching appends normals of solids within skin of the box's side faces.
func Touching(box AABB, skin float64, solids []AABB, res *SweepResult) {
	for _, axis := range [2]int{0, 2} {
		for _, s := range solids {
			if !overlapsExcept(box, s, axis) {
				continue
			}
			var n mgl64.Vec3
			if gap := s.Min[axis] - box.Max[axis]; gap >= -1e-4 && gap <= skin {
				n[axis] = -1
				res.add(n)
			} else if gap := box.Min[axis] - s.Max[axis]; gap >= -1e-4 && gap <= skin {
				n[axis] = 1
				res.add(n)
			}
		}
	}
}

// Ground looks for a solid top face within probe below the box. It returns
// the floor height when found.
func Ground(box AABB, probe float64, solids []AABB) (float64, bool) {
	best := math.Inf(-1)
	found := false
	for _, s := range solids {
		if !overlapsExcept(box, s, 1) {
			continue
		}
		gap := box.Min[1] - s.Max[1]
		if gap < -1e-4 || gap > probe {
			continue
		}
		if s.Max[1] > best {
			best = s.Max[1]
			found = true
		}
	}
	return best, found
}

func overlapsExcept(a, b AABB, axis int) bool {
	for i := 0; i < 3; i++ {
		if i == axis {
			continue
		}
		if a.Min[i] >= b.Max[i]-eps || a.Max[i] <= b.Min[i]+eps {
			return false
		}
	}
	return true
}
