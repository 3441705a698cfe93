package world

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/geom"
	"github.com/milk9111/strafe/levels"
	"github.com/milk9111/strafe/sim/component"
)

// ZoneSink takes zone events produced by trigger volumes. The controller's
// PushZone satisfies it.
type ZoneSink interface {
	PushZone(evt component.ZoneEvent) bool
}

type trigger struct {
	index  int
	name   string
	box    geom.AABB
	event  component.ZoneEvent
	plain  bool
	script *scriptRuntime
	inside bool
}

func newTrigger(t levels.Trigger, index int, logger *log.Logger) (*trigger, error) {
	tr := &trigger{
		index: index,
		name:  t.Name,
		box:   geom.Box(t.Min, t.Max),
	}
	if t.Kind == levels.TriggerScript {
		rt, err := newScriptRuntime(t, logger)
		if err != nil {
			return nil, err
		}
		tr.script = rt
		return tr, nil
	}
	tr.event, tr.plain = t.ZoneEvent()
	return tr, nil
}

// Probe is what a trigger script can see of the player.
type Probe struct {
	Now      float64
	Feet     mgl64.Vec3
	Velocity mgl64.Vec3
}

// UpdateTriggers tests the character box against every trigger volume.
// Plain triggers emit their event on entry; scripted ones run their enter,
// stay and exit handlers. Call it between ticks. It returns the number of
// events the sink accepted.
func (w *World) UpdateTriggers(now float64, velocity mgl64.Vec3, sink ZoneSink) int {
	box := w.Character()
	probe := Probe{Now: now, Feet: w.feet, Velocity: velocity}

	hit := w.query(footprint(box), kindTrigger)
	pushed := 0
	for _, tr := range w.triggers {
		in := false
		for _, h := range hit {
			if w.colliders[h].trigger == tr.index {
				in = tr.box.Overlaps(box)
				break
			}
		}

		switch {
		case in && !tr.inside:
			if tr.plain && sink != nil && sink.PushZone(tr.event) {
				pushed++
			}
			if tr.script != nil {
				pushed += tr.script.run(phaseEnter, probe, sink)
			}
		case in && tr.inside:
			if tr.script != nil {
				pushed += tr.script.run(phaseStay, probe, sink)
			}
		case !in && tr.inside:
			if tr.script != nil {
				pushed += tr.script.run(phaseExit, probe, sink)
			}
		}
		tr.inside = in
	}
	return pushed
}

// ResetTriggers forgets which volumes the character was inside, e.g. after
// a respawn teleport.
func (w *World) ResetTriggers() {
	for _, tr := range w.triggers {
		tr.inside = false
	}
}

type TriggerInfo struct {
	Name     string
	Box      geom.AABB
	Kind     component.ZoneKind
	Scripted bool
	Disabled bool
	Inside   bool
}

func (w *World) Triggers() []TriggerInfo {
	out := make([]TriggerInfo, len(w.triggers))
	for i, tr := range w.triggers {
		out[i] = TriggerInfo{
			Name:     tr.name,
			Box:      tr.box,
			Kind:     tr.event.Kind,
			Scripted: tr.script != nil,
			Disabled: tr.script != nil && tr.script.disabled,
			Inside:   tr.inside,
		}
	}
	return out
}
