package sim

import "slices"

type System interface {
	Update(ctx *Context)
}

// Scheduler runs its systems once per tick in the order given.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	return &Scheduler{systems: slices.DeleteFunc(slices.Clone(systems), func(s System) bool { return s == nil })}
}

func (s *Scheduler) Update(ctx *Context) {
	for _, system := range s.systems {
		system.Update(ctx)
	}
}
