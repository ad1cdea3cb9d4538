package multiplier

import (
	"image/color"
	"time"
)

type scriptRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *scriptRand) Float64() float64 {
	if r.fi >= len(r.floats) {
		return 0.5
	}
	v := r.floats[r.fi]
	r.fi++
	return v
}

func (r *scriptRand) Intn(n int) int {
	if r.ii >= len(r.ints) {
		return 0
	}
	v := r.ints[r.ii] % n
	r.ii++
	return v
}

type circleCall struct {
	center Vec2
	radius float64
	color  color.NRGBA
}

type recordSurface struct {
	w, h    int
	ops     []string
	fills   int
	circles []circleCall
	strokes [][]Segment
}

func (s *recordSurface) Size() (int, int) { return s.w, s.h }

func (s *recordSurface) SetSize(w, h int) {
	s.w, s.h = w, h
	s.ops = append(s.ops, "size")
}

func (s *recordSurface) FillRect(x, y, w, h float64, c color.NRGBA) {
	s.fills++
	s.ops = append(s.ops, "rect")
}

func (s *recordSurface) FillCircle(center Vec2, radius float64, c color.NRGBA) {
	s.circles = append(s.circles, circleCall{center, radius, c})
	s.ops = append(s.ops, "circle")
}

func (s *recordSurface) StrokeSegments(segs []Segment, c color.NRGBA) {
	cp := make([]Segment, len(segs))
	copy(cp, segs)
	s.strokes = append(s.strokes, cp)
	s.ops = append(s.ops, "stroke")
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) fireAll() {
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			t.f()
		}
	}
}

type nopSurface struct{ w, h int }

func (s *nopSurface) Size() (int, int)                           { return s.w, s.h }
func (s *nopSurface) SetSize(w, h int)                           { s.w, s.h = w, h }
func (s *nopSurface) FillRect(x, y, w, h float64, c color.NRGBA) {}
func (s *nopSurface) FillCircle(Vec2, float64, color.NRGBA)      {}
func (s *nopSurface) StrokeSegments([]Segment, color.NRGBA)      {}
