package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-7

type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

func Box(min, max mgl64.Vec3) AABB {
	for i := 0; i < 3; i++ {
		if min[i] > max[i] {
			min[i], max[i] = max[i], min[i]
		}
	}
	return AABB{Min: min, Max: max}
}

// CharacterBox returns the box of a character standing at feet.
func CharacterBox(feet mgl64.Vec3, halfWidth, height float64) AABB {
	return AABB{
		Min: mgl64.Vec3{feet[0] - halfWidth, feet[1], feet[2] - halfWidth},
		Max: mgl64.Vec3{feet[0] + halfWidth, feet[1] + height, feet[2] + halfWidth},
	}
}

func (b AABB) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) Contains(p mgl64.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Overlaps reports a strictly positive overlap on every axis.
func (b AABB) Overlaps(o AABB) bool {
	for i := 0; i < 3; i++ {
		if b.Min[i] >= o.Max[i]-eps || b.Max[i] <= o.Min[i]+eps {
			return false
		}
	}
	return true
}

func (b AABB) Translate(d mgl64.Vec3) AABB {
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Expand grows the box by r on every side.
func (b AABB) Expand(r float64) AABB {
	v := mgl64.Vec3{r, r, r}
	return AABB{Min: b.Min.Sub(v), Max: b.Max.Add(v)}
}

// ClosestPoint clamps p into the box.
func (b AABB) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Max(b.Min[0], math.Min(p[0], b.Max[0])),
		math.Max(b.Min[1], math.Min(p[1], b.Max[1])),
		math.Max(b.Min[2], math.Min(p[2], b.Max[2])),
	}
}

// Ray intersects the ray origin+t*dir, t in [0,maxDist], with the box using
// the slab method. dir must be unit length. A ray starting inside the box
// does not hit it.
func Ray(origin, dir mgl64.Vec3, maxDist float64, b AABB) (float64, mgl64.Vec3, bool) {
	tmin := 0.0
	tmax := maxDist
	axis := -1
	sign := 0.0

	for i := 0; i < 3; i++ {
		if dir[i] != 0 {
			invD := 1.0 / dir[i]
			t1 := (b.Min[i] - origin[i]) * invD
			t2 := (b.Max[i] - origin[i]) * invD
			s := -1.0
			if t1 > t2 {
				t1, t2 = t2, t1
				s = 1
			}
			if t1 > tmin || (axis < 0 && t1 == tmin) {
				tmin = t1
				axis = i
				sign = s
			}
			tmax = math.Min(tmax, t2)
		} else if origin[i] < b.Min[i] || origin[i] > b.Max[i] {
			return 0, mgl64.Vec3{}, false
		}
	}

	if axis < 0 || tmax < tmin {
		return 0, mgl64.Vec3{}, false
	}
	var n mgl64.Vec3
	n[axis] = sign
	return tmin, n, true
}
