package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/san-kum/pulse/internal/multiplier"
)

// Background matches the dark slate container the effect is drawn on.
var Background = color.NRGBA{15, 23, 42, 255}

const (
	minCircleSegments = 8
	maxCircleSegments = 32
	strokeWidth       = 1.0
)

// Surface is an in-memory multiplier.Surface backed by an RGBA image.
type Surface struct {
	img *image.RGBA
	bg  color.NRGBA
	z   vector.Rasterizer
}

var _ multiplier.Surface = (*Surface)(nil)

func New(w, h int) *Surface {
	s := &Surface{bg: Background}
	s.SetSize(w, h)
	return s
}

func NewWithBackground(w, h int, bg color.NRGBA) *Surface {
	s := &Surface{bg: bg}
	s.SetSize(w, h)
	return s
}

func (s *Surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// SetSize reallocates the image and paints it with the background, the way a
// canvas loses its contents when its dimensions change.
func (s *Surface) SetSize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.bg), image.Point{}, draw.Src)
}

func (s *Surface) Image() *image.RGBA { return s.img }

func (s *Surface) FillRect(x, y, w, h float64, c color.NRGBA) {
	r := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	).Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func (s *Surface) FillCircle(center multiplier.Vec2, radius float64, c color.NRGBA) {
	if radius <= 0 || c.A == 0 {
		return
	}
	r := image.Rect(
		int(math.Floor(center.X-radius)), int(math.Floor(center.Y-radius)),
		int(math.Ceil(center.X+radius)), int(math.Ceil(center.Y+radius)),
	).Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}

	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	s.z.Reset(r.Dx(), r.Dy())
	n := circleSegments(radius)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		px := float32(center.X + radius*math.Cos(a) - ox)
		py := float32(center.Y + radius*math.Sin(a) - oy)
		if i == 0 {
			s.z.MoveTo(px, py)
		} else {
			s.z.LineTo(px, py)
		}
	}
	s.z.ClosePath()
	s.z.DrawOp = draw.Over
	s.z.Draw(s.img, r, image.NewUniform(c), image.Point{})
}

// StrokeSegments rasterizes every segment as a thin quad into one path and
// composites it in a single pass.
func (s *Surface) StrokeSegments(segs []multiplier.Segment, c color.NRGBA) {
	if len(segs) == 0 || c.A == 0 {
		return
	}
	b := s.img.Bounds()
	if b.Empty() {
		return
	}

	s.z.Reset(b.Dx(), b.Dy())
	half := strokeWidth / 2
	for _, seg := range segs {
		d := seg.To.Sub(seg.From)
		l := math.Sqrt(d.LenSq())
		if l == 0 {
			continue
		}
		nx, ny := -d.Y/l*half, d.X/l*half
		s.z.MoveTo(float32(seg.From.X+nx), float32(seg.From.Y+ny))
		s.z.LineTo(float32(seg.To.X+nx), float32(seg.To.Y+ny))
		s.z.LineTo(float32(seg.To.X-nx), float32(seg.To.Y-ny))
		s.z.LineTo(float32(seg.From.X-nx), float32(seg.From.Y-ny))
		s.z.ClosePath()
	}
	s.z.DrawOp = draw.Over
	s.z.Draw(s.img, b, image.NewUniform(c), image.Point{})
}

func circleSegments(radius float64) int {
	n := int(radius * 4)
	if n < minCircleSegments {
		return minCircleSegments
	}
	if n > maxCircleSegments {
		return maxCircleSegments
	}
	return n
}
