package engine

import (
	"testing"
	"time"
)

func TestStepperAdvance(t *testing.T) {
	tests := []struct {
		name    string
		frames  []time.Duration
		want    []int
		dropped uint64
	}{
		{name: "whole ticks", frames: []time.Duration{3 * Step}, want: []int{3}},
		{name: "accumulates remainders", frames: []time.Duration{Step / 2, Step / 2, Step / 2}, want: []int{0, 1, 0}},
		{name: "ignores negative time", frames: []time.Duration{-Step, Step}, want: []int{0, 1}},
		{name: "caps catch-up", frames: []time.Duration{time.Second, Step}, want: []int{MaxCatchUp, 1}, dropped: 128 - MaxCatchUp},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var s Stepper
			for i, frame := range tc.frames {
				if got := s.Advance(frame); got != tc.want[i] {
					t.Fatalf("frame %d: expected %d ticks, got %d", i, tc.want[i], got)
				}
			}
			if s.Dropped() != tc.dropped {
				t.Fatalf("expected %d dropped ticks, got %d", tc.dropped, s.Dropped())
			}
		})
	}
}

func TestStepperAlpha(t *testing.T) {
	var s Stepper
	s.Advance(Step + Step/4)
	if got := s.Alpha(); got != 0.25 {
		t.Fatalf("expected alpha 0.25, got %f", got)
	}
	s.Reset()
	if s.Alpha() != 0 {
		t.Fatalf("expected reset to clear the accumulator")
	}
}
