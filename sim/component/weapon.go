package component

import (
	"fmt"
	"strings"
)

type WeaponKind uint8

const (
	WeaponRocket WeaponKind = iota
	WeaponGrenade
	WeaponSniper
	WeaponAssault
	WeaponShotgun
	WeaponKnife
	WeaponBeam

	WeaponCount
)

var weaponNames = [WeaponCount]string{
	WeaponRocket:  "rocket",
	WeaponGrenade: "grenade",
	WeaponSniper:  "sniper",
	WeaponAssault: "assault",
	WeaponShotgun: "shotgun",
	WeaponKnife:   "knife",
	WeaponBeam:    "beam",
}

func (k WeaponKind) String() string {
	if k >= WeaponCount {
		return fmt.Sprintf("weapon(%d)", uint8(k))
	}
	return weaponNames[k]
}

func ParseWeaponKind(name string) (WeaponKind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range weaponNames {
		if n == name {
			return WeaponKind(i), true
		}
	}
	return 0, false
}

// WeaponClass groups kinds by how a shot is resolved.
type WeaponClass uint8

const (
	ClassProjectile WeaponClass = iota
	ClassHitscan
	ClassMelee
	ClassBeam
)

func (k WeaponKind) Class() WeaponClass {
	switch k {
	case WeaponRocket, WeaponGrenade:
		return ClassProjectile
	case WeaponSniper, WeaponAssault, WeaponShotgun:
		return ClassHitscan
	case WeaponKnife:
		return ClassMelee
	default:
		return ClassBeam
	}
}

// WeaponSpec is the static description of a weapon, loaded from weapons.yaml.
type WeaponSpec struct {
	Kind            WeaponKind `yaml:"-"`
	Slot            int        `yaml:"slot"`
	Cooldown        float64    `yaml:"cooldown"`
	Damage          float64    `yaml:"damage"`
	Range           float64    `yaml:"range"`
	Magazine        int        `yaml:"magazine"`
	Reserve         int        `yaml:"reserve"`
	Unlimited       bool       `yaml:"unlimited"`
	ReloadTime      float64    `yaml:"reload_time"`
	SwapTime        float64    `yaml:"swap_time"`
	Spread          float64    `yaml:"spread"`
	Pellets         int        `yaml:"pellets"`
	RecoilPitch     float64    `yaml:"recoil_pitch"`
	RecoilYaw       float64    `yaml:"recoil_yaw"`
	RecoilJitter    float64    `yaml:"recoil_jitter"`
	RecoilSpread    float64    `yaml:"recoil_spread"`
	SelfKnockback   float64    `yaml:"self_knockback"`
	CanAim          bool       `yaml:"can_aim"`
	Scope           bool       `yaml:"scope"`
	AdsSensitivity  float64    `yaml:"ads_sensitivity"`
	AdsSpreadFactor float64    `yaml:"ads_spread_factor"`
}

// HasKick reports whether firing applies any recoil impulse.
func (w WeaponSpec) HasKick() bool {
	return w.RecoilPitch != 0 || w.RecoilYaw != 0 || w.RecoilJitter != 0 || w.RecoilSpread != 0
}

type WeaponTable [WeaponCount]WeaponSpec

// BySlot returns the weapon bound to a 1-based slot.
func (t *WeaponTable) BySlot(slot int) (WeaponKind, bool) {
	if t == nil || slot <= 0 {
		return 0, false
	}
	for i := range t {
		if t[i].Slot == slot {
			return WeaponKind(i), true
		}
	}
	return 0, false
}

func DefaultWeaponTable() WeaponTable {
	var t WeaponTable
	t[WeaponRocket] = WeaponSpec{Slot: 1, Cooldown: 0.8, Magazine: 4, Reserve: 20, ReloadTime: 1.6, SwapTime: 0.35, RecoilPitch: 0.02, RecoilSpread: 0.1, AdsSensitivity: 1, AdsSpreadFactor: 1}
	t[WeaponGrenade] = WeaponSpec{Slot: 2, Cooldown: 0.6, Magazine: 6, Reserve: 18, ReloadTime: 1.8, SwapTime: 0.35, RecoilPitch: 0.015, RecoilSpread: 0.1, AdsSensitivity: 1, AdsSpreadFactor: 1}
	t[WeaponSniper] = WeaponSpec{Slot: 3, Cooldown: 1.2, Damage: 90, Range: 300, Magazine: 5, Reserve: 20, ReloadTime: 2.2, SwapTime: 0.5, Spread: 0.04, Pellets: 1, RecoilPitch: 0.06, RecoilYaw: 0.01, RecoilJitter: 0.01, RecoilSpread: 0.6, SelfKnockback: 3, CanAim: true, Scope: true, AdsSensitivity: 0.35, AdsSpreadFactor: 0.02}
	t[WeaponAssault] = WeaponSpec{Slot: 4, Cooldown: 0.09, Damage: 18, Range: 120, Magazine: 30, Reserve: 120, ReloadTime: 1.5, SwapTime: 0.3, Spread: 0.012, Pellets: 1, RecoilPitch: 0.012, RecoilYaw: 0.004, RecoilJitter: 0.006, RecoilSpread: 0.15, SelfKnockback: 0.2, CanAim: true, AdsSensitivity: 0.7, AdsSpreadFactor: 0.4}
	t[WeaponShotgun] = WeaponSpec{Slot: 5, Cooldown: 0.8, Damage: 9, Range: 40, Magazine: 6, Reserve: 30, ReloadTime: 2.0, SwapTime: 0.35, Spread: 0.09, Pellets: 10, RecoilPitch: 0.05, RecoilYaw: 0.01, RecoilJitter: 0.02, RecoilSpread: 0.3, SelfKnockback: 6, CanAim: true, AdsSensitivity: 0.8, AdsSpreadFactor: 0.7}
	t[WeaponKnife] = WeaponSpec{Slot: 6, Cooldown: 0.5, Damage: 55, Range: 2, Unlimited: true, SwapTime: 0.2, AdsSensitivity: 1, AdsSpreadFactor: 1}
	t[WeaponBeam] = WeaponSpec{Slot: 7, Range: 40, Magazine: 100, Reserve: 200, ReloadTime: 2.0, SwapTime: 0.4, AdsSensitivity: 1, AdsSpreadFactor: 1}
	for i := range t {
		t[i].Kind = WeaponKind(i)
	}
	return t
}

// Ammo is the canonical magazine + reserve model. Weapons without counters
// set Unlimited and never read the numbers.
type Ammo struct {
	Magazine  int
	Reserve   int
	Unlimited bool
}

func (a Ammo) Empty() bool {
	return !a.Unlimited && a.Magazine <= 0
}

// Take removes n rounds from the magazine, never going below zero.
func (a *Ammo) Take(n int) bool {
	if a == nil {
		return false
	}
	if a.Unlimited {
		return true
	}
	if n <= 0 || a.Magazine < n {
		return false
	}
	a.Magazine -= n
	return true
}

// Refill moves rounds from reserve into the magazine up to size.
func (a *Ammo) Refill(size int) {
	if a == nil || a.Unlimited {
		return
	}
	need := size - a.Magazine
	if need <= 0 {
		return
	}
	if need > a.Reserve {
		need = a.Reserve
	}
	a.Magazine += need
	a.Reserve -= need
}

// Loadout is the player's weapon inventory and in-flight weapon timers.
type Loadout struct {
	Active      WeaponKind
	Pending     WeaponKind
	Swapping    bool
	SwapTimer   float64
	Reloading   bool
	ReloadTimer float64
	NextFire    float64
	Ammo        [WeaponCount]Ammo
}

// Reset refills every weapon from the table and selects the slot-1 weapon.
func (l *Loadout) Reset(t *WeaponTable) {
	if l == nil {
		return
	}
	*l = Loadout{NextFire: Never}
	if t == nil {
		return
	}
	for i := range t {
		spec := t[i]
		l.Ammo[i] = Ammo{Magazine: spec.Magazine, Reserve: spec.Reserve, Unlimited: spec.Unlimited}
	}
	if k, ok := t.BySlot(1); ok {
		l.Active = k
		l.Pending = k
	}
}

// Busy reports whether a swap or reload blocks firing.
func (l *Loadout) Busy() bool {
	return l != nil && (l.Swapping || l.Reloading)
}
