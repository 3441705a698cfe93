package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/geom"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/simtest"
)

// tickSystems is the controller's fixed order, minus the grace gate.
func tickSystems() []sim.System {
	return []sim.System{
		NewRespawnSystem(),
		NewZoneSystem(),
		NewGrappleSystem(),
		NewCombatSystem(),
		NewWeaponFireSystem(),
		NewProjectileSystem(),
		NewMovementSystem(),
		NewCollisionSystem(),
		NewMantleSystem(),
		NewCameraSystem(),
	}
}

// onFloor returns a context standing on a floor at y=0 plus any extra solids.
func onFloor(extra ...geom.AABB) (*sim.Context, *simtest.World) {
	w := simtest.NewWorld(simtest.Floor(0))
	w.Solids = append(w.Solids, extra...)
	ctx := simtest.NewContext(w)
	simtest.Ground(ctx, w, mgl64.Vec3{})
	return ctx, w
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func requireApprox(t *testing.T, what string, got, want, tol float64) {
	t.Helper()
	if !approx(got, want, tol) {
		t.Fatalf("%s: expected %.9f, got %.9f", what, want, got)
	}
}
