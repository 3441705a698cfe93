package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"slices"
	"time"

	"github.com/milk9111/strafe/common"
	"github.com/milk9111/strafe/engine"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

// bot holds buttons for a random number of ticks, then picks new ones.
type bot struct {
	rng  *rand.Rand
	in   component.InputSnapshot
	hold int
	turn float64
}

func newBot(seed uint64) *bot {
	return &bot{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (b *bot) next() *component.InputSnapshot {
	if b.hold <= 0 {
		b.hold = 16 + b.rng.IntN(240)
		b.turn = (b.rng.Float64()*2 - 1) * 12
		chance := func(p float64) bool { return b.rng.Float64() < p }
		b.in = component.InputSnapshot{
			Forward:    chance(0.8),
			Left:       chance(0.25),
			Right:      chance(0.25),
			Crouch:     chance(0.15),
			Prone:      chance(0.03),
			Fire:       chance(0.3),
			AltFire:    chance(0.1),
			Grapple:    chance(0.1),
			Reload:     chance(0.05),
			Dash:       chance(0.05),
			HoldBreath: chance(0.05),
		}
		if chance(0.2) {
			b.in.SelectSlot = 1 + b.rng.IntN(6)
		}
	}
	b.hold--
	b.in.Jump = b.rng.IntN(20) == 0
	b.in.MouseDX = b.turn
	b.in.MouseDY = (b.rng.Float64()*2 - 1) * 2
	return &b.in
}

// counter tallies what the run emitted.
type counter struct {
	sounds  map[component.Sound]int
	visuals int
	hits    int
	dropped int
}

func (c *counter) FlushEvents(tick uint64, events *sim.EventBuffer) {
	for _, e := range events.Sounds {
		c.sounds[e.Sound]++
	}
	c.visuals += len(events.Visuals)
	c.hits += len(events.Hits)
	c.dropped += events.Dropped
}

type report struct {
	ticks     int
	respawns  int
	kills     int
	final     component.Pose
	times     []time.Duration
	events    *counter
	maxSpeed  float64
	violation error
}

func run(level string, seed uint64, ticks int) (report, error) {
	cnt := &counter{sounds: make(map[component.Sound]int)}
	s, err := engine.NewSession(engine.SessionConfig{Level: level, Seed: seed})
	if err != nil {
		return report{}, err
	}
	s.SetSinks(engine.Sinks{Events: cnt})

	c := s.Controller
	limit := c.Constants().MaxSpeed * (1 + 1e-9)
	r := report{times: make([]time.Duration, 0, ticks)}
	b := newBot(seed)
	for i := 0; i < ticks; i++ {
		now := time.Duration(i) * engine.Step
		start := time.Now()
		s.Tick(b.next(), now)
		r.times = append(r.times, time.Since(start))
		r.ticks++

		pose := c.Pose()
		body := c.Body()
		if !common.FiniteVec(pose.Position) || !common.FiniteVec(body.Velocity) || !common.IsFinite(pose.Yaw) || !common.IsFinite(pose.Pitch) {
			r.violation = fmt.Errorf("tick %d: non-finite state pos=%v vel=%v", c.TickCount(), pose.Position, body.Velocity)
			break
		}
		if v := body.Velocity.Len(); v > limit {
			r.violation = fmt.Errorf("tick %d: speed %.4f above cap %.4f", c.TickCount(), v, limit)
			break
		} else if v > r.maxSpeed {
			r.maxSpeed = v
		}
		if i%2048 == 2047 {
			c.RequestRespawn()
			r.respawns++
		}
	}
	r.kills = s.Kills()
	r.final = c.Pose()
	r.events = cnt
	return r, nil
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	i := int(math.Ceil(p*float64(len(sorted)))) - 1
	return sorted[min(max(i, 0), len(sorted)-1)]
}

func main() {
	levelName := flag.String("level", "", "level name in levels/ or a path to a level file")
	seed := flag.Uint64("seed", 1, "seed for the bot and the weapon jitter")
	seconds := flag.Float64("seconds", 120, "simulated seconds to run")
	flag.Parse()

	ticks := int(*seconds * component.TickRate)
	if ticks <= 0 {
		log.Fatalf("-seconds must be positive, got %v", *seconds)
	}
	first, err := run(*levelName, *seed, ticks)
	if err != nil {
		log.Fatal(err)
	}
	if first.violation != nil {
		log.Printf("FAIL: %v", first.violation)
		os.Exit(1)
	}

	second, err := run(*levelName, *seed, ticks)
	if err != nil {
		log.Fatal(err)
	}
	if second.final != first.final {
		log.Printf("FAIL: replay diverged: %+v vs %+v", first.final, second.final)
		os.Exit(1)
	}

	times := slices.Clone(first.times)
	slices.Sort(times)
	var total time.Duration
	for _, d := range times {
		total += d
	}

	ev := first.events
	log.Printf("ticks %d (%.0fs simulated), respawns %d, kills %d, hits %d, visuals %d, dropped events %d",
		first.ticks, *seconds, first.respawns, first.kills, ev.hits, ev.visuals, ev.dropped)
	log.Printf("peak speed %.2f of %.2f", first.maxSpeed, component.DefaultConstants().MaxSpeed)
	log.Printf("tick time mean %v p50 %v p99 %v max %v (budget %v)",
		total/time.Duration(len(times)), percentile(times, 0.5), percentile(times, 0.99), times[len(times)-1], engine.Step)
	sounds := make([]component.Sound, 0, len(ev.sounds))
	for k := range ev.sounds {
		sounds = append(sounds, k)
	}
	slices.Sort(sounds)
	for _, k := range sounds {
		log.Printf("  %-16v %d", k, ev.sounds[k])
	}
	log.Printf("deterministic: final pose %.3f", first.final.Position)
}
