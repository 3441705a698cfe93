package sim

import "github.com/go-gl/mathgl/mgl64"

const MaxAnchors = 64

// AnchorSet holds the registered grapple anchor points.
type AnchorSet struct {
	points [MaxAnchors]mgl64.Vec3
	n      int
}

// Add registers p and reports false once the set is full.
func (a *AnchorSet) Add(p mgl64.Vec3) bool {
	if a == nil || a.n == MaxAnchors {
		return false
	}
	a.points[a.n] = p
	a.n++
	return true
}

func (a *AnchorSet) Len() int {
	if a == nil {
		return 0
	}
	return a.n
}

func (a *AnchorSet) At(i int) mgl64.Vec3 {
	return a.points[i]
}

func (a *AnchorSet) Clear() {
	if a == nil {
		return
	}
	a.n = 0
}
