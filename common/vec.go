package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	Up   = mgl64.Vec3{0, 1, 0}
	Zero = mgl64.Vec3{}
)

// Forward returns the unit look direction for yaw/pitch in radians. Yaw 0 faces -Z.
func Forward(yaw, pitch float64) mgl64.Vec3 {
	cp := math.Cos(pitch)
	return mgl64.Vec3{-math.Sin(yaw) * cp, math.Sin(pitch), -math.Cos(yaw) * cp}
}

// FlatForward is Forward with pitch ignored.
func FlatForward(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{-math.Sin(yaw), 0, -math.Cos(yaw)}
}

func Right(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(yaw), 0, -math.Sin(yaw)}
}

func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], 0, v[2]}
}

func HorizontalLen(v mgl64.Vec3) float64 {
	return math.Hypot(v[0], v[2])
}

// WithHorizontal replaces the X/Z components of v and keeps Y.
func WithHorizontal(v, h mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{h[0], v[1], h[2]}
}

// SetHorizontalSpeed rescales the horizontal part of v to speed. A zero
// horizontal part falls back to dir.
func SetHorizontalSpeed(v mgl64.Vec3, speed float64, dir mgl64.Vec3) mgl64.Vec3 {
	h := Horizontal(v)
	l := h.Len()
	if l < 1e-9 {
		h = Horizontal(dir)
		l = h.Len()
		if l < 1e-9 {
			return v
		}
	}
	h = h.Mul(speed / l)
	return WithHorizontal(v, h)
}

// NormalizeOr returns v normalized, or fallback when v is (near) zero.
func NormalizeOr(v, fallback mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < 1e-9 {
		return fallback
	}
	return v.Mul(1 / l)
}

// Reflect mirrors v about the plane with unit normal n.
func Reflect(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// ProjectOnPlane removes the component of v along unit normal n.
func ProjectOnPlane(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(n.Mul(v.Dot(n)))
}

func ClampLen(v mgl64.Vec3, max float64) mgl64.Vec3 {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Mul(max / l)
}

func FiniteVec(v mgl64.Vec3) bool {
	return IsFinite(v[0]) && IsFinite(v[1]) && IsFinite(v[2])
}
