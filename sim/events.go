package sim

import "github.com/milk9111/strafe/sim/component"

const (
	maxSoundEvents  = 64
	maxVisualEvents = 64
	maxHitEvents    = 64
)

// EventBuffer collects one tick's side-effect events in preallocated
// storage. Events past capacity are dropped.
type EventBuffer struct {
	Sounds  []component.SoundEvent
	Visuals []component.VisualEvent
	Hits    []component.HitEvent
	Dropped int
}

func NewEventBuffer() *EventBuffer {
	return &EventBuffer{
		Sounds:  make([]component.SoundEvent, 0, maxSoundEvents),
		Visuals: make([]component.VisualEvent, 0, maxVisualEvents),
		Hits:    make([]component.HitEvent, 0, maxHitEvents),
	}
}

func (b *EventBuffer) Sound(evt component.SoundEvent) {
	if b == nil {
		return
	}
	if len(b.Sounds) == cap(b.Sounds) {
		b.Dropped++
		return
	}
	b.Sounds = append(b.Sounds, evt)
}

func (b *EventBuffer) Visual(evt component.VisualEvent) {
	if b == nil {
		return
	}
	if len(b.Visuals) == cap(b.Visuals) {
		b.Dropped++
		return
	}
	b.Visuals = append(b.Visuals, evt)
}

func (b *EventBuffer) Hit(evt component.HitEvent) {
	if b == nil {
		return
	}
	if len(b.Hits) == cap(b.Hits) {
		b.Dropped++
		return
	}
	b.Hits = append(b.Hits, evt)
}

func (b *EventBuffer) Empty() bool {
	return b == nil || (len(b.Sounds) == 0 && len(b.Visuals) == 0 && len(b.Hits) == 0)
}

// Clear truncates every slice, keeping the backing arrays.
func (b *EventBuffer) Clear() {
	if b == nil {
		return
	}
	b.Sounds = b.Sounds[:0]
	b.Visuals = b.Visuals[:0]
	b.Hits = b.Hits[:0]
	b.Dropped = 0
}

// CountSound returns how many events of kind s are buffered.
func (b *EventBuffer) CountSound(s component.Sound) int {
	if b == nil {
		return 0
	}
	n := 0
	for _, evt := range b.Sounds {
		if evt.Sound == s {
			n++
		}
	}
	return n
}

func (b *EventBuffer) CountVisual(k component.VisualKind) int {
	if b == nil {
		return 0
	}
	n := 0
	for _, evt := range b.Visuals {
		if evt.Kind == k {
			n++
		}
	}
	return n
}
