package component

import "github.com/go-gl/mathgl/mgl64"

const ProjectilePoolSize = 16

type Projectile struct {
	Active    bool
	Kind      WeaponKind
	Pos       mgl64.Vec3
	Vel       mgl64.Vec3
	SpawnTime float64
	Bounces   int
}

// Falls reports whether gravity acts on the projectile.
func (p *Projectile) Falls() bool {
	return p != nil && p.Kind == WeaponGrenade
}

// ProjectilePool is a fixed array of projectiles. Entries are deactivated in
// place so indices stay stable while a tick iterates them.
type ProjectilePool struct {
	Items [ProjectilePoolSize]Projectile
}

// Spawn stores p in the first free slot and returns its index, or -1 when
// the pool is full.
func (pool *ProjectilePool) Spawn(p Projectile) int {
	if pool == nil {
		return -1
	}
	for i := range pool.Items {
		if pool.Items[i].Active {
			continue
		}
		p.Active = true
		pool.Items[i] = p
		return i
	}
	return -1
}

func (pool *ProjectilePool) ActiveCount() int {
	if pool == nil {
		return 0
	}
	n := 0
	for i := range pool.Items {
		if pool.Items[i].Active {
			n++
		}
	}
	return n
}

func (pool *ProjectilePool) Full() bool {
	return pool.ActiveCount() == ProjectilePoolSize
}

func (pool *ProjectilePool) Reset() {
	if pool == nil {
		return
	}
	pool.Items = [ProjectilePoolSize]Projectile{}
}
