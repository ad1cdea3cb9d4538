package multiplier

import "image/color"

// Integrate advances p by one Euler step and flips the velocity component of
// every axis that left [0, w] x [0, h]. Position is never clamped.
func Integrate(p *Particle, w, h float64) {
	p.Pos = p.Pos.Add(p.Vel)
	if p.Pos.X < 0 || p.Pos.X > w {
		p.Vel.X = -p.Vel.X
	}
	if p.Pos.Y < 0 || p.Pos.Y > h {
		p.Vel.Y = -p.Vel.Y
	}
}

// Connectors collects center-to-particle segments for every even store index
// within radius of center.
func Connectors(dst []Segment, particles []Particle, center Vec2, radius float64) []Segment {
	r2 := radius * radius
	for i := 0; i < len(particles); i += 2 {
		if particles[i].Pos.Sub(center).LenSq() < r2 {
			dst = append(dst, Segment{From: center, To: particles[i].Pos})
		}
	}
	return dst
}

func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity >= 1 {
		return c
	}
	if opacity <= 0 {
		c.A = 0
		return c
	}
	c.A = uint8(float64(c.A)*opacity + 0.5)
	return c
}
