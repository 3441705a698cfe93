// Package audio plays the tick's sound events as short synthesized cues.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

const (
	sampleRate = beep.SampleRate(44100)
	maxVoices  = 24
)

// Synth is an engine.EventSink. It works without a speaker: cues are mixed
// but never pulled, and the voice cap bounds what piles up.
type Synth struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
	played      uint64
	dropped     uint64
	seed        uint64
	seen        map[component.Sound]bool
}

func NewSynth() *Synth {
	return &Synth{
		mixer: &beep.Mixer{},
		seen:  make(map[component.Sound]bool),
	}
}

// Initialize opens the speaker. Calling it again is a no-op.
func (s *Synth) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

func (s *Synth) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		s.mixer.Clear()
		return
	}
	speaker.Clear()
	s.initialized = false
}

func (s *Synth) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()
}

// FlushEvents starts one cue per distinct sound in the tick.
func (s *Synth) FlushEvents(tick uint64, events *sim.EventBuffer) {
	if events == nil || len(events.Sounds) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.muted {
		return
	}
	clear(s.seen)

	if s.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	for _, evt := range events.Sounds {
		if s.seen[evt.Sound] {
			continue
		}
		s.seen[evt.Sound] = true
		v, ok := voices[evt.Sound]
		if !ok {
			continue
		}
		if s.mixer.Len() >= maxVoices {
			s.dropped++
			continue
		}
		volume := evt.Volume
		if volume <= 0 {
			volume = 1
		}
		s.seed++
		s.mixer.Add(newTone(v, sampleRate, volume, tick^s.seed))
		s.played++
	}
}

// Active returns how many cues are still sounding.
func (s *Synth) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return s.mixer.Len()
}

func (s *Synth) Stats() (played, dropped uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.played, s.dropped
}
