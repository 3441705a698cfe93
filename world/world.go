// Package world is the reference collision world for a level: static boxes
// indexed on the floor plan by a cp.Space, with an AABB narrowphase in 3D.
package world

import (
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/strafe/geom"
	"github.com/milk9111/strafe/levels"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

const (
	HalfWidth = 0.4
	skin      = 0.05
)

type colliderKind uint8

const (
	kindSolid colliderKind = iota
	kindHitbox
	kindTrigger
)

type collider struct {
	kind    colliderKind
	box     geom.AABB
	hitbox  sim.Hitbox
	trigger int
}

// World implements sim.CollisionWorld, sim.HitboxRegistry and
// sim.SplashQuery for one level. It is not safe for concurrent use; the
// host calls it from the tick goroutine only.
type World struct {
	space     *cp.Space
	colliders []collider
	triggers  []*trigger
	targets   []target
	anchors   []mgl64.Vec3
	voidY     float64
	hasVoid   bool

	feet   mgl64.Vec3
	height float64

	logger *log.Logger

	// Reused query buffers.
	found   []sim.Handle
	boxes   []geom.AABB
	collect func(shape *cp.Shape, data interface{})
	want    [3]bool
}

type Option func(*World)

func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

func New(lvl *levels.Level, opts ...Option) (*World, error) {
	if lvl == nil {
		return nil, fmt.Errorf("world: nil level")
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}

	w := &World{
		space:  cp.NewSpace(),
		height: component.StanceStanding.Height(),
		logger: log.Default(),
		found:  make([]sim.Handle, 0, 64),
		boxes:  make([]geom.AABB, 0, 64),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.collect = func(shape *cp.Shape, _ interface{}) {
		h, ok := shape.UserData.(sim.Handle)
		if !ok || !w.want[w.colliders[h].kind] {
			return
		}
		w.found = append(w.found, h)
	}

	for _, b := range lvl.Solids {
		w.add(collider{kind: kindSolid, box: geom.Box(b.Min, b.Max)}, false)
	}
	for i, t := range lvl.Targets {
		w.addTarget(i, t)
	}
	for _, t := range lvl.Triggers {
		tr, err := newTrigger(t, len(w.triggers), w.logger)
		if err != nil {
			return nil, fmt.Errorf("world: trigger %q: %w", t.Name, err)
		}
		w.triggers = append(w.triggers, tr)
		w.add(collider{kind: kindTrigger, box: tr.box, trigger: tr.index}, true)
	}
	w.anchors = append(w.anchors, lvl.Anchors...)
	if lvl.VoidY != nil {
		w.voidY, w.hasVoid = *lvl.VoidY, true
	}
	w.feet = lvl.Spawn.Position
	return w, nil
}

// add registers c as a static shape covering its floor-plan footprint.
func (w *World) add(c collider, sensor bool) sim.Handle {
	h := sim.Handle(len(w.colliders))
	w.colliders = append(w.colliders, c)
	shape := cp.NewBox2(w.space.StaticBody, footprint(c.box), 0)
	shape.SetSensor(sensor)
	shape.UserData = h
	w.space.AddShape(shape)
	return h
}

// footprint maps a 3D box onto the cp plane: X stays X, Z becomes Y.
func footprint(b geom.AABB) cp.BB {
	return cp.BB{L: b.Min.X(), B: b.Min.Z(), R: b.Max.X(), T: b.Max.Z()}
}

// query fills w.found with the handles of the wanted kinds whose footprint
// overlaps bb.
func (w *World) query(bb cp.BB, kinds ...colliderKind) []sim.Handle {
	w.want = [3]bool{}
	for _, k := range kinds {
		w.want[k] = true
	}
	w.found = w.found[:0]
	w.space.BBQuery(bb, cp.SHAPE_FILTER_ALL, w.collect, nil)
	return w.found
}

func (w *World) CastRay(origin, dir mgl64.Vec3, maxDist float64) (sim.RayHit, bool) {
	if maxDist <= 0 || dir.Len() == 0 {
		return sim.RayHit{}, false
	}
	end := origin.Add(dir.Mul(maxDist))
	bb := cp.BB{
		L: math.Min(origin.X(), end.X()), R: math.Max(origin.X(), end.X()),
		B: math.Min(origin.Z(), end.Z()), T: math.Max(origin.Z(), end.Z()),
	}

	best := sim.RayHit{Distance: math.Inf(1), Collider: sim.NoHandle}
	for _, h := range w.query(bb, kindSolid, kindHitbox) {
		t, n, ok := geom.Ray(origin, dir, maxDist, w.colliders[h].box)
		if !ok || t >= best.Distance || (t == best.Distance && h > best.Collider) {
			continue
		}
		best = sim.RayHit{Point: origin.Add(dir.Mul(t)), Normal: n, Distance: t, Collider: h}
	}
	return best, best.Collider != sim.NoHandle
}

func (w *World) MoveCharacter(desired mgl64.Vec3) sim.MoveResult {
	box := geom.CharacterBox(w.feet, HalfWidth, w.height)
	reach := box.Translate(desired)
	bb := footprint(geom.AABB{
		Min: mgl64.Vec3{math.Min(box.Min.X(), reach.Min.X()), 0, math.Min(box.Min.Z(), reach.Min.Z())},
		Max: mgl64.Vec3{math.Max(box.Max.X(), reach.Max.X()), 0, math.Max(box.Max.Z(), reach.Max.Z())},
	}.Expand(skin))

	w.boxes = w.boxes[:0]
	for _, h := range w.query(bb, kindSolid, kindHitbox) {
		w.boxes = append(w.boxes, w.colliders[h].box)
	}

	sw := geom.Sweep(box, desired, w.boxes)
	w.feet = w.feet.Add(sw.Movement)
	box = geom.CharacterBox(w.feet, HalfWidth, w.height)
	geom.Touching(box, skin, w.boxes, &sw)

	res := sim.MoveResult{Movement: sw.Movement}
	for i := 0; i < sw.N; i++ {
		res.AddNormal(sw.Contacts[i].Normal)
	}
	if _, ok := geom.Ground(box, skin, w.boxes); ok || sw.Floor {
		res.Grounded = true
		res.GroundNormal = mgl64.Vec3{0, 1, 0}
	}
	return res
}

func (w *World) SetCharacterPosition(feet mgl64.Vec3) {
	w.feet = feet
}

func (w *World) SetCharacterHeight(height float64) {
	if height > 0 {
		w.height = height
	}
}

// Character returns the collider box the world is moving.
func (w *World) Character() geom.AABB {
	return geom.CharacterBox(w.feet, HalfWidth, w.height)
}

func (w *World) Lookup(h sim.Handle) (sim.Hitbox, bool) {
	if h < 0 || int(h) >= len(w.colliders) || w.colliders[h].kind != kindHitbox {
		return sim.Hitbox{}, false
	}
	return w.colliders[h].hitbox, true
}

// Anchors returns the level's grapple anchor points.
func (w *World) Anchors() []mgl64.Vec3 {
	return w.anchors
}

// AnchorRegistry takes grapple anchor registrations.
type AnchorRegistry interface {
	AddAnchor(p mgl64.Vec3) bool
}

// RegisterAnchors hands every anchor to r and returns how many it took.
func (w *World) RegisterAnchors(r AnchorRegistry) int {
	n := 0
	for _, p := range w.anchors {
		if r.AddAnchor(p) {
			n++
		}
	}
	return n
}

// VoidY is the level's override of the fall-out height, if any.
func (w *World) VoidY() (float64, bool) {
	return w.voidY, w.hasVoid
}

// Solids returns the static boxes, for debug drawing.
func (w *World) Solids() []geom.AABB {
	out := make([]geom.AABB, 0, len(w.colliders))
	for _, c := range w.colliders {
		if c.kind == kindSolid {
			out = append(out, c.box)
		}
	}
	return out
}
