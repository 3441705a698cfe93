package world

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/strafe/geom"
	"github.com/milk9111/strafe/levels"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

// Zone bands as fractions of a target's height, from the feet up.
const (
	torsoFrom = 0.45
	headFrom  = 0.8
	headWidth = 0.6
)

const targetHealth = 100

type target struct {
	name   string
	center mgl64.Vec3
	box    geom.AABB
	health float64
	kills  int
}

// addTarget registers a dummy as three stacked hitboxes.
func (w *World) addTarget(id int, t levels.Target) {
	half := t.Width / 2
	lo := func(frac float64) float64 { return t.Feet.Y() + t.Height*frac }
	band := func(y0, y1, hw float64) geom.AABB {
		return geom.Box(
			mgl64.Vec3{t.Feet.X() - hw, y0, t.Feet.Z() - hw},
			mgl64.Vec3{t.Feet.X() + hw, y1, t.Feet.Z() + hw},
		)
	}

	w.add(collider{kind: kindHitbox, box: band(lo(0), lo(torsoFrom), half), hitbox: sim.Hitbox{Target: id, Zone: component.ZoneLimb}}, false)
	w.add(collider{kind: kindHitbox, box: band(lo(torsoFrom), lo(headFrom), half), hitbox: sim.Hitbox{Target: id, Zone: component.ZoneTorso}}, false)
	w.add(collider{kind: kindHitbox, box: band(lo(headFrom), lo(1), half*headWidth), hitbox: sim.Hitbox{Target: id, Zone: component.ZoneHead}}, false)

	box := band(lo(0), lo(1), half)
	w.targets = append(w.targets, target{
		name:   t.Name,
		center: box.Center(),
		box:    box,
		health: targetHealth,
	})
}

func (w *World) TargetsInRadius(center mgl64.Vec3, radius float64, out []sim.SplashTarget) []sim.SplashTarget {
	if radius <= 0 {
		return out
	}
	bb := cp.BB{L: center.X() - radius, B: center.Z() - radius, R: center.X() + radius, T: center.Z() + radius}
	for _, h := range w.query(bb, kindHitbox) {
		id := w.colliders[h].hitbox.Target
		if seen(out, id) {
			continue
		}
		t := w.targets[id]
		if t.center.Sub(center).Len() <= radius {
			out = append(out, sim.SplashTarget{Target: id, Center: t.center})
		}
	}
	return out
}

func seen(out []sim.SplashTarget, id int) bool {
	for _, s := range out {
		if s.Target == id {
			return true
		}
	}
	return false
}

// ApplyHit lowers a target's health. A target that drops to zero counts a
// kill and stands back up at full health. It reports whether the hit killed.
func (w *World) ApplyHit(evt component.HitEvent) bool {
	if evt.Target < 0 || evt.Target >= len(w.targets) || evt.Damage <= 0 {
		return false
	}
	t := &w.targets[evt.Target]
	t.health -= evt.Damage
	if t.health > 0 {
		return false
	}
	t.kills++
	t.health = targetHealth
	return true
}

type TargetInfo struct {
	Name   string
	Box    geom.AABB
	Health float64
	Kills  int
}

func (w *World) Targets() []TargetInfo {
	out := make([]TargetInfo, len(w.targets))
	for i, t := range w.targets {
		out[i] = TargetInfo{Name: t.name, Box: t.box, Health: t.health, Kills: t.kills}
	}
	return out
}
