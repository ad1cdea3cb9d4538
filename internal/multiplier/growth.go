package multiplier

import "math"

// Growth approximates branching growth with at most one spawn per tick.
type Growth struct {
	cfg Config
	rng Rand
}

func NewGrowth(cfg Config, rng Rand) *Growth {
	return &Growth{cfg: cfg, rng: rng}
}

// Step runs the spawn rule once and reports whether a particle was added.
// Below the bootstrap threshold it always spawns at center without drawing
// a parent or a chance.
func (g *Growth) Step(store *Store, center Vec2) bool {
	if store.Len() >= g.cfg.Cap {
		return false
	}

	if store.Len() < g.cfg.BootstrapBelow {
		store.Append(g.spawn(center))
		return true
	}

	active := store.Active()
	if active == 0 {
		return false
	}
	parent := g.nthActive(store, g.rng.Intn(active))

	if g.rng.Float64() < g.cfg.SpawnChance {
		store.Append(g.spawn(parent.Pos))
		return true
	}
	return false
}

func (g *Growth) nthActive(store *Store, n int) *Particle {
	all := store.All()
	for i := range all {
		if !all[i].Active {
			continue
		}
		if n == 0 {
			return &all[i]
		}
		n--
	}
	return &all[len(all)-1]
}

func (g *Growth) spawn(at Vec2) Particle {
	angle := g.rng.Float64() * 2 * math.Pi
	speed := g.cfg.SpeedMin + g.rng.Float64()*(g.cfg.SpeedMax-g.cfg.SpeedMin)
	radius := g.cfg.RadiusMin + g.rng.Float64()*(g.cfg.RadiusMax-g.cfg.RadiusMin)
	c := g.cfg.Palette[g.rng.Intn(len(g.cfg.Palette))]

	return Particle{
		Pos:     at,
		Vel:     Vec2{math.Cos(angle) * speed, math.Sin(angle) * speed},
		Radius:  radius,
		Color:   c,
		Active:  true,
		Opacity: 1,
	}
}
