package multiplier

// Store keeps particles in creation order. Particles are never removed
// individually; Reset drops everything and reseeds.
type Store struct {
	particles []Particle
}

func NewStore(capacity int) *Store {
	return &Store{particles: make([]Particle, 0, capacity)}
}

func (s *Store) Len() int { return len(s.particles) }

func (s *Store) Append(p Particle) { s.particles = append(s.particles, p) }

func (s *Store) At(i int) *Particle { return &s.particles[i] }

// All returns the backing slice. Callers may mutate elements in place but
// must not retain the slice across Append or Reset.
func (s *Store) All() []Particle { return s.particles }

func (s *Store) Reset(seed Particle) {
	s.particles = s.particles[:0]
	s.particles = append(s.particles, seed)
}

// Active counts particles with Active set.
func (s *Store) Active() int {
	n := 0
	for i := range s.particles {
		if s.particles[i].Active {
			n++
		}
	}
	return n
}

// Snapshot copies the current particles.
func (s *Store) Snapshot() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}
