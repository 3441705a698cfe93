package prefabs

import (
	"errors"
	"fmt"
	"sort"

	"github.com/milk9111/strafe/sim/component"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownWeapon = errors.New("unknown weapon")
	ErrDuplicateSlot = errors.New("duplicate weapon slot")
)

func LoadWeapons() (component.WeaponTable, error) {
	data, err := Load(WeaponsFile)
	if err != nil {
		return component.WeaponTable{}, fmt.Errorf("prefabs: load %s: %w", WeaponsFile, err)
	}
	t, err := DecodeWeapons(data)
	if err != nil {
		return component.WeaponTable{}, fmt.Errorf("prefabs: %s: %w", WeaponsFile, err)
	}
	return t, nil
}

// DecodeWeapons reads a weapon table keyed by weapon name over the built-in
// table. Each entry only overrides the fields it names.
func DecodeWeapons(data []byte) (component.WeaponTable, error) {
	t := component.DefaultWeaponTable()

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return t, err
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		kind, ok := component.ParseWeaponKind(name)
		if !ok {
			return t, fmt.Errorf("%w: %q", ErrUnknownWeapon, name)
		}
		node := raw[name]
		if err := node.Decode(&t[kind]); err != nil {
			return t, fmt.Errorf("decode %s: %w", name, err)
		}
		t[kind].Kind = kind
	}

	seen := map[int]component.WeaponKind{}
	for i := range t {
		slot := t[i].Slot
		if slot <= 0 {
			continue
		}
		if prev, ok := seen[slot]; ok {
			return t, fmt.Errorf("%w: %d used by %s and %s", ErrDuplicateSlot, slot, prev, component.WeaponKind(i))
		}
		seen[slot] = component.WeaponKind(i)
	}
	return t, nil
}
