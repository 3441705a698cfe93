package engine

import (
	"time"

	"github.com/milk9111/strafe/sim/component"
)

// MaxCatchUp bounds how many ticks one Advance may return after a stall.
const MaxCatchUp = 8

// Step is the wall-clock length of one tick.
const Step = time.Second / component.TickRate

// Stepper turns variable frame times into a whole number of fixed ticks for
// hosts whose own loop is not locked to the tick rate.
type Stepper struct {
	acc     time.Duration
	dropped uint64
}

// Advance adds elapsed to the accumulator and returns how many ticks to run.
// Time beyond MaxCatchUp ticks is discarded.
func (s *Stepper) Advance(elapsed time.Duration) int {
	if elapsed > 0 {
		s.acc += elapsed
	}
	n := int(s.acc / Step)
	if n > MaxCatchUp {
		s.dropped += uint64(n - MaxCatchUp)
		n = MaxCatchUp
		s.acc = 0
		return n
	}
	s.acc -= time.Duration(n) * Step
	return n
}

// Alpha is the fraction of a tick left in the accumulator, for render
// interpolation.
func (s *Stepper) Alpha() float64 {
	return float64(s.acc) / float64(Step)
}

// Dropped counts ticks discarded by the catch-up cap.
func (s *Stepper) Dropped() uint64 {
	return s.dropped
}

func (s *Stepper) Reset() {
	s.acc = 0
	s.dropped = 0
}
