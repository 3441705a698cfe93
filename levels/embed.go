package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/sim"
	"github.com/milk9111/strafe/sim/component"
)

//go:embed *.json
var LevelsFS embed.FS

const DefaultLevel = "arena"

var (
	ErrNoSpawn    = errors.New("level has no spawn")
	ErrBadBox     = errors.New("box min exceeds max")
	ErrBadTrigger = errors.New("bad trigger")
	ErrNoSolids   = errors.New("level has no solids")
	ErrBadTarget  = errors.New("bad target")
	ErrTooMany    = errors.New("too many anchors")
)

// Level is an arena: static boxes, trigger volumes, damage targets and
// grapple anchors. Positions are metres with Y up.
type Level struct {
	Name     string       `json:"name"`
	Spawn    *Spawn       `json:"spawn"`
	Solids   []Box        `json:"solids"`
	Triggers []Trigger    `json:"triggers,omitempty"`
	Targets  []Target     `json:"targets,omitempty"`
	Anchors  []mgl64.Vec3 `json:"anchors,omitempty"`
	VoidY    *float64     `json:"void_y,omitempty"`
}

type Spawn struct {
	Position mgl64.Vec3 `json:"position"`
	// Yaw is in degrees, 0 facing -Z.
	Yaw float64 `json:"yaw"`
}

type Box struct {
	Min mgl64.Vec3 `json:"min"`
	Max mgl64.Vec3 `json:"max"`
}

// Trigger is a volume that produces zone events. Kind is a zone kind name
// or "script", in which case Script names a file under prefabs/scripts.
type Trigger struct {
	Name     string         `json:"name"`
	Kind     string         `json:"kind"`
	Min      mgl64.Vec3     `json:"min"`
	Max      mgl64.Vec3     `json:"max"`
	Dir      mgl64.Vec3     `json:"dir,omitempty"`
	Velocity mgl64.Vec3     `json:"velocity,omitempty"`
	Weapon   string         `json:"weapon,omitempty"`
	Amount   float64        `json:"amount,omitempty"`
	Script   string         `json:"script,omitempty"`
	Props    map[string]any `json:"props,omitempty"`
}

const TriggerScript = "script"

// Target is a standing dummy. Its hitbox is split into head, torso and
// limb zones by height.
type Target struct {
	Name   string     `json:"name"`
	Feet   mgl64.Vec3 `json:"feet"`
	Height float64    `json:"height"`
	Width  float64    `json:"width"`
}

func (b Box) Valid() bool {
	return b.Min.X() <= b.Max.X() && b.Min.Y() <= b.Max.Y() && b.Min.Z() <= b.Max.Z()
}

func (s *Spawn) Component() component.Spawn {
	if s == nil {
		return component.Spawn{}
	}
	return component.Spawn{Position: s.Position, Yaw: mgl64.DegToRad(s.Yaw)}
}

// Validate checks what the world builder relies on.
func (l *Level) Validate() error {
	if l.Spawn == nil {
		return ErrNoSpawn
	}
	if len(l.Solids) == 0 {
		return ErrNoSolids
	}
	for i, b := range l.Solids {
		if !b.Valid() {
			return fmt.Errorf("solid %d: %w", i, ErrBadBox)
		}
	}
	for i, t := range l.Triggers {
		if !(Box{Min: t.Min, Max: t.Max}).Valid() {
			return fmt.Errorf("trigger %d %q: %w", i, t.Name, ErrBadBox)
		}
		if err := t.validate(); err != nil {
			return fmt.Errorf("trigger %d %q: %w", i, t.Name, err)
		}
	}
	for i, t := range l.Targets {
		if t.Height <= 0 || t.Width <= 0 {
			return fmt.Errorf("target %d %q: %w", i, t.Name, ErrBadTarget)
		}
	}
	if len(l.Anchors) > sim.MaxAnchors {
		return fmt.Errorf("%w: %d", ErrTooMany, len(l.Anchors))
	}
	return nil
}

func (t Trigger) validate() error {
	if t.Kind == TriggerScript {
		if strings.TrimSpace(t.Script) == "" {
			return fmt.Errorf("%w: script trigger without a script", ErrBadTrigger)
		}
		return nil
	}
	kind, ok := component.ParseZoneKind(t.Kind)
	if !ok {
		return fmt.Errorf("%w: unknown kind %q", ErrBadTrigger, t.Kind)
	}
	if kind == component.ZoneAmmoPickup && t.Weapon != "" && t.Weapon != "all" {
		if _, ok := component.ParseWeaponKind(t.Weapon); !ok {
			return fmt.Errorf("%w: unknown weapon %q", ErrBadTrigger, t.Weapon)
		}
	}
	return nil
}

// ZoneEvent is the event a plain trigger emits on entry.
func (t Trigger) ZoneEvent() (component.ZoneEvent, bool) {
	kind, ok := component.ParseZoneKind(t.Kind)
	if !ok {
		return component.ZoneEvent{}, false
	}
	switch kind {
	case component.ZoneBoostPad:
		return component.BoostPad(t.Dir), true
	case component.ZoneLaunchPad:
		return component.LaunchPad(t.Velocity), true
	case component.ZoneSpeedGate:
		return component.SpeedGate(), true
	case component.ZoneAmmoPickup:
		if w, ok := component.ParseWeaponKind(t.Weapon); ok {
			return component.AmmoPickup(w, int(t.Amount)), true
		}
		return component.AmmoPickupAll(int(t.Amount)), true
	case component.ZoneHazard:
		return component.Hazard(t.Amount), true
	}
	return component.ZoneEvent{}, false
}

func Decode(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// LoadLevelFromFS reads a level from the embedded set; ".json" is optional.
func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, fileName(name))
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	lvl, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", name, err)
	}
	return lvl, nil
}

// Load reads a level from disk when name is a path to an existing file and
// from the embedded set otherwise.
func Load(name string) (*Level, error) {
	if name == "" {
		name = DefaultLevel
	}
	if data, err := os.ReadFile(name); err == nil {
		lvl, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("level %s: %w", name, err)
		}
		return lvl, nil
	}
	return LoadLevelFromFS(name)
}

func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}

func fileName(name string) string {
	name = path.Base(name)
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return name
}
