package engine

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/milk9111/strafe/levels"
	"github.com/milk9111/strafe/prefabs"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
	"github.com/milk9111/strafe/world"
)

type SessionConfig struct {
	// Level is an embedded level name or a path; empty loads the default.
	Level  string
	Seed   uint64
	Sinks  Sinks
	Logger *log.Logger
	// Dev overrides the multipliers from the tuning file when set.
	Dev *component.DevMultipliers
}

// Session is a controller playing one level against the reference world.
// It feeds trigger volumes back into the controller after every tick and
// applies hit events to the level's targets.
type Session struct {
	Level      *levels.Level
	World      *world.World
	Controller *Controller

	bundle     prefabs.Bundle
	downstream EventSink
	logger     *log.Logger
	kills      int
}

func NewSession(cfg SessionConfig) (*Session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	lvl, err := levels.Load(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("engine: session: %w", err)
	}
	bundle, err := prefabs.LoadBundle()
	if err != nil {
		return nil, fmt.Errorf("engine: session: %w", err)
	}
	w, err := world.New(lvl, world.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("engine: session: %w", err)
	}

	s := &Session{
		Level:      lvl,
		World:      w,
		bundle:     bundle,
		downstream: cfg.Sinks.Events,
		logger:     logger,
	}

	dev := bundle.Tuning.Dev
	if cfg.Dev != nil {
		dev = *cfg.Dev
	}
	sinks := cfg.Sinks
	sinks.Events = s
	s.Controller = NewController(Config{
		Constants: s.constants(),
		Weapons:   bundle.Weapons,
		Dev:       dev,
		Spawn:     lvl.Spawn.Component(),
		Seed:      cfg.Seed,
		World:     w,
		Hitboxes:  w,
		Splash:    w,
		Sinks:     sinks,
	})
	w.RegisterAnchors(s.Controller)
	return s, nil
}

// constants applies the level's void height over the tuning file.
func (s *Session) constants() component.Constants {
	c := s.bundle.Tuning.Constants
	if y, ok := s.World.VoidY(); ok {
		c.VoidY = y
	}
	return c
}

// Tick runs one controller tick and then probes the trigger volumes, whose
// events apply on the next tick.
func (s *Session) Tick(in *component.InputSnapshot, now time.Duration) {
	s.Controller.Tick(in, now)
	t := float64(s.Controller.TickCount()) * component.Dt
	s.World.UpdateTriggers(t, s.Controller.Body().Velocity, s.Controller)
}

func (s *Session) FlushEvents(tick uint64, events *sim.EventBuffer) {
	for _, h := range events.Hits {
		if s.World.ApplyHit(h) {
			s.kills++
		}
	}
	if s.downstream != nil {
		s.downstream.FlushEvents(tick, events)
	}
}

// SetSinks replaces the output sinks; hit handling stays in front of the
// event sink.
func (s *Session) SetSinks(sinks Sinks) {
	s.downstream = sinks.Events
	sinks.Events = s
	s.Controller.SetSinks(sinks)
}

func (s *Session) Kills() int {
	return s.kills
}

func (s *Session) Bundle() prefabs.Bundle {
	return s.bundle
}

// Reload reacts to a changed tuning or script file. Tuning files swap the
// controller's tables; scripts rebuild the world so triggers recompile. It
// reports whether anything changed.
func (s *Session) Reload(path string) (bool, error) {
	if filepath.Ext(path) == ".tengo" {
		return true, s.Rebuild()
	}
	changed, err := s.bundle.Reload(path)
	if err != nil || !changed {
		return false, err
	}
	s.Controller.SetConstants(s.constants())
	s.Controller.SetWeapons(s.bundle.Weapons)
	return true, nil
}

// Rebuild recreates the world from the level and hands it to the
// controller at the current pose. Target health and kills start over.
func (s *Session) Rebuild() error {
	w, err := world.New(s.Level, world.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("engine: rebuild: %w", err)
	}
	s.World = w
	s.Controller.SetCollaborators(w, w, w)
	s.Controller.ClearAnchors()
	w.RegisterAnchors(s.Controller)
	s.Controller.SetConstants(s.constants())
	return nil
}
