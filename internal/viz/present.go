package viz

import (
	"image"
	"image/color"
)

// DefaultThreshold is the summed RGB distance from the background above which
// a pixel counts as lit.
const DefaultThreshold = 60

// Presenter downsamples a raster frame onto a Braille canvas. Each sub-pixel
// covers a block of source pixels and lights up when any of them stands out
// from the background.
type Presenter struct {
	canvas    *Canvas
	bg        color.NRGBA
	threshold int
}

func NewPresenter(cols, rows int, bg color.NRGBA) *Presenter {
	return &Presenter{
		canvas:    NewCanvas(cols, rows),
		bg:        bg,
		threshold: DefaultThreshold,
	}
}

func (p *Presenter) SetThreshold(t int) {
	if t > 0 {
		p.threshold = t
	}
}

func (p *Presenter) Resize(cols, rows int) {
	if cols == p.canvas.Width && rows == p.canvas.Height {
		return
	}
	p.canvas.Resize(cols, rows)
}

func (p *Presenter) Canvas() *Canvas { return p.canvas }

// SubPixels is the canvas resolution in Braille dots.
func (p *Presenter) SubPixels() (w, h int) {
	return p.canvas.Width * 2, p.canvas.Height * 4
}

func (p *Presenter) Draw(img *image.RGBA) *Canvas {
	c := p.canvas
	c.Clear()

	b := img.Bounds()
	iw, ih := b.Dx(), b.Dy()
	sw, sh := p.SubPixels()
	if iw == 0 || ih == 0 {
		return c
	}

	for sy := 0; sy < sh; sy++ {
		y0 := sy * ih / sh
		y1 := (sy + 1) * ih / sh
		if y1 <= y0 {
			y1 = y0 + 1
		}
		for sx := 0; sx < sw; sx++ {
			x0 := sx * iw / sw
			x1 := (sx + 1) * iw / sw
			if x1 <= x0 {
				x1 = x0 + 1
			}
			if col, ok := p.standout(img, b.Min.X+x0, b.Min.Y+y0, b.Min.X+x1, b.Min.Y+y1); ok {
				c.Set(sx, sy, col)
			}
		}
	}
	return c
}

func (p *Presenter) standout(img *image.RGBA, x0, y0, x1, y1 int) (color.NRGBA, bool) {
	var best color.NRGBA
	bestDist := p.threshold
	found := false
	for y := y0; y < y1; y++ {
		off := img.PixOffset(x0, y)
		for x := x0; x < x1; x++ {
			px := img.Pix[off : off+4 : off+4]
			off += 4
			d := absInt(int(px[0])-int(p.bg.R)) + absInt(int(px[1])-int(p.bg.G)) + absInt(int(px[2])-int(p.bg.B))
			if d > bestDist {
				bestDist = d
				best = color.NRGBA{R: px[0], G: px[1], B: px[2], A: 0xff}
				found = true
			}
		}
	}
	return best, found
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
