package prefabs

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/milk9111/strafe/sim/component"
	"gopkg.in/yaml.v3"
)

const (
	TuningFile  = "tuning.yaml"
	WeaponsFile = "weapons.yaml"
)

var ErrInvalidTuning = errors.New("invalid tuning")

func LoadSpec[T any](filename string) (T, error) {
	var spec T
	if err := LoadInto(filename, &spec); err != nil {
		var zero T
		return zero, err
	}
	return spec, nil
}

// LoadInto decodes the named prefab over dst, so fields the file leaves out
// keep whatever dst already holds.
func LoadInto(filename string, dst any) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

type TuningSpec struct {
	Constants component.Constants      `yaml:",inline"`
	Dev       component.DevMultipliers `yaml:"dev"`
}

func DefaultTuning() TuningSpec {
	return TuningSpec{
		Constants: component.DefaultConstants(),
		Dev:       component.DefaultDevMultipliers(),
	}
}

func LoadTuning() (TuningSpec, error) {
	spec := DefaultTuning()
	if err := LoadInto(TuningFile, &spec); err != nil {
		return TuningSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return TuningSpec{}, fmt.Errorf("prefabs: %s: %w", TuningFile, err)
	}
	return spec, nil
}

// DecodeTuning reads a tuning document over the defaults.
func DecodeTuning(data []byte) (TuningSpec, error) {
	spec := DefaultTuning()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return TuningSpec{}, fmt.Errorf("prefabs: unmarshal tuning: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return TuningSpec{}, err
	}
	return spec, nil
}

// Validate rejects tables the tick cannot run with. Everything else is
// clamped inside the tick.
func (s TuningSpec) Validate() error {
	c := s.Constants
	switch {
	case c.MaxSpeed <= 0:
		return fmt.Errorf("%w: max_speed must be positive", ErrInvalidTuning)
	case c.MaxSubsteps < 1:
		return fmt.Errorf("%w: max_substeps must be at least 1", ErrInvalidTuning)
	case c.MaxStepDisplacement <= 0:
		return fmt.Errorf("%w: max_step_displacement must be positive", ErrInvalidTuning)
	case c.MantleMinHeight > c.MantleMaxHeight:
		return fmt.Errorf("%w: mantle_min_height above mantle_max_height", ErrInvalidTuning)
	case c.MaxRays < 1:
		return fmt.Errorf("%w: max_rays must be at least 1", ErrInvalidTuning)
	case c.RespawnGraceTicks < 0:
		return fmt.Errorf("%w: respawn_grace_ticks is negative", ErrInvalidTuning)
	}
	return nil
}

// Bundle is everything the controller takes from prefabs.
type Bundle struct {
	Tuning  TuningSpec
	Weapons component.WeaponTable
}

func LoadBundle() (Bundle, error) {
	tuning, err := LoadTuning()
	if err != nil {
		return Bundle{}, err
	}
	weapons, err := LoadWeapons()
	if err != nil {
		return Bundle{}, err
	}
	return Bundle{Tuning: tuning, Weapons: weapons}, nil
}

// Reload refreshes the part of b that path belongs to and reports whether
// anything was reloaded. Paths the bundle does not use are ignored.
func (b *Bundle) Reload(path string) (bool, error) {
	switch filepath.Base(path) {
	case TuningFile:
		t, err := LoadTuning()
		if err != nil {
			return false, err
		}
		b.Tuning = t
		return true, nil
	case WeaponsFile:
		w, err := LoadWeapons()
		if err != nil {
			return false, err
		}
		b.Weapons = w
		return true, nil
	}
	return false, nil
}
