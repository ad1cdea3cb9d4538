package raster

import (
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

func (s *Surface) WritePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}

// Recorder keeps every stride-th frame of a surface as a paletted image.
type Recorder struct {
	stride int
	delay  int
	seen   int
	frames []*image.Paletted
}

// NewRecorder keeps one frame out of every stride; delay is the per-frame GIF
// delay in hundredths of a second.
func NewRecorder(stride, delay int) *Recorder {
	if stride < 1 {
		stride = 1
	}
	if delay < 1 {
		delay = 2
	}
	return &Recorder{stride: stride, delay: delay}
}

func (r *Recorder) Capture(s *Surface) {
	r.seen++
	if (r.seen-1)%r.stride != 0 {
		return
	}
	src := s.Image()
	frame := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.Draw(frame, frame.Bounds(), src, src.Bounds().Min, draw.Src)
	r.frames = append(r.frames, frame)
}

func (r *Recorder) Frames() int { return len(r.frames) }

func (r *Recorder) WriteGIF(w io.Writer) error {
	anim := gif.GIF{LoopCount: 0}
	for _, f := range r.frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, r.delay)
	}
	return gif.EncodeAll(w, &anim)
}
