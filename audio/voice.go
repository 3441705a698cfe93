package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/milk9111/strafe/sim/component"
)

type Wave uint8

const (
	WaveSine Wave = iota
	WaveSquare
	WaveNoise
)

// Voice describes one synthesized cue: a pitch sweep with a linear decay.
type Voice struct {
	Wave     Wave
	From     float64
	To       float64
	Duration time.Duration
	Gain     float64
}

var voices = map[component.Sound]Voice{
	component.SoundFire:           {Wave: WaveSquare, From: 220, To: 110, Duration: 60 * time.Millisecond, Gain: 0.25},
	component.SoundDryFire:        {Wave: WaveSquare, From: 900, To: 900, Duration: 15 * time.Millisecond, Gain: 0.15},
	component.SoundReload:         {Wave: WaveSquare, From: 300, To: 500, Duration: 120 * time.Millisecond, Gain: 0.12},
	component.SoundSwap:           {Wave: WaveSine, From: 600, To: 800, Duration: 50 * time.Millisecond, Gain: 0.12},
	component.SoundExplosion:      {Wave: WaveNoise, Duration: 400 * time.Millisecond, Gain: 0.4},
	component.SoundBounce:         {Wave: WaveSine, From: 500, To: 350, Duration: 40 * time.Millisecond, Gain: 0.15},
	component.SoundFootstep:       {Wave: WaveNoise, Duration: 25 * time.Millisecond, Gain: 0.08},
	component.SoundLand:           {Wave: WaveSine, From: 120, To: 60, Duration: 80 * time.Millisecond, Gain: 0.25},
	component.SoundJump:           {Wave: WaveSine, From: 300, To: 450, Duration: 70 * time.Millisecond, Gain: 0.15},
	component.SoundBhop:           {Wave: WaveSine, From: 600, To: 1200, Duration: 90 * time.Millisecond, Gain: 0.18},
	component.SoundWallJump:       {Wave: WaveSine, From: 400, To: 700, Duration: 80 * time.Millisecond, Gain: 0.18},
	component.SoundDash:           {Wave: WaveNoise, Duration: 120 * time.Millisecond, Gain: 0.18},
	component.SoundSlide:          {Wave: WaveNoise, Duration: 200 * time.Millisecond, Gain: 0.1},
	component.SoundMantle:         {Wave: WaveSine, From: 200, To: 300, Duration: 100 * time.Millisecond, Gain: 0.15},
	component.SoundGrappleAttach:  {Wave: WaveSquare, From: 800, To: 1000, Duration: 50 * time.Millisecond, Gain: 0.15},
	component.SoundGrappleRelease: {Wave: WaveSquare, From: 1000, To: 700, Duration: 50 * time.Millisecond, Gain: 0.15},
	component.SoundBoostPad:       {Wave: WaveSine, From: 300, To: 900, Duration: 150 * time.Millisecond, Gain: 0.2},
	component.SoundLaunchPad:      {Wave: WaveSine, From: 150, To: 900, Duration: 250 * time.Millisecond, Gain: 0.22},
	component.SoundSpeedGate:      {Wave: WaveSine, From: 900, To: 1500, Duration: 120 * time.Millisecond, Gain: 0.18},
	component.SoundAmmoPickup:     {Wave: WaveSine, From: 700, To: 1050, Duration: 90 * time.Millisecond, Gain: 0.15},
	component.SoundHurt:           {Wave: WaveSquare, From: 160, To: 90, Duration: 150 * time.Millisecond, Gain: 0.2},
	component.SoundHit:            {Wave: WaveSine, From: 1200, To: 1200, Duration: 30 * time.Millisecond, Gain: 0.15},
	component.SoundHeadshot:       {Wave: WaveSine, From: 1600, To: 2000, Duration: 60 * time.Millisecond, Gain: 0.2},
	component.SoundKnife:          {Wave: WaveNoise, Duration: 50 * time.Millisecond, Gain: 0.15},
	component.SoundBeam:           {Wave: WaveSquare, From: 90, To: 95, Duration: 30 * time.Millisecond, Gain: 0.08},
	component.SoundScopeOut:       {Wave: WaveSine, From: 500, To: 250, Duration: 80 * time.Millisecond, Gain: 0.12},
	component.SoundRespawn:        {Wave: WaveSine, From: 200, To: 800, Duration: 300 * time.Millisecond, Gain: 0.2},
}

// VoiceFor returns the cue for a sound, if it has one.
func VoiceFor(s component.Sound) (Voice, bool) {
	v, ok := voices[s]
	return v, ok
}

// tone streams one voice and then reports it is drained.
type tone struct {
	v     Voice
	sr    beep.SampleRate
	total int
	pos   int
	phase float64
	gain  float64
	rng   *rand.Rand
}

func newTone(v Voice, sr beep.SampleRate, volume float64, seed uint64) *tone {
	return &tone{
		v:     v,
		sr:    sr,
		total: sr.N(v.Duration),
		gain:  v.Gain * volume,
		rng:   rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.pos >= t.total {
		return 0, false
	}
	for i := range samples {
		if t.pos >= t.total {
			return i, true
		}
		progress := float64(t.pos) / float64(t.total)
		freq := t.v.From + (t.v.To-t.v.From)*progress
		t.phase += freq / float64(t.sr)
		t.phase -= math.Floor(t.phase)

		var s float64
		switch t.v.Wave {
		case WaveSine:
			s = math.Sin(2 * math.Pi * t.phase)
		case WaveSquare:
			s = 1
			if t.phase >= 0.5 {
				s = -1
			}
		case WaveNoise:
			s = t.rng.Float64()*2 - 1
		}
		s *= t.gain * (1 - progress)
		samples[i] = [2]float64{s, s}
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error {
	return nil
}
