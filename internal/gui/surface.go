package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/pulse/internal/multiplier"
)

// textureSurface draws into a render texture that survives between frames,
// so the translucent fill leaves trails. Draw calls must happen between
// BeginTextureMode(target) and EndTextureMode.
//
// Connectors are drawn opaque into a separate mask and composited once, so
// overlapping segments cover a pixel once like a single stroked path.
type textureSurface struct {
	target rl.RenderTexture2D
	mask   rl.RenderTexture2D
	width  int
	height int
	bg     rl.Color
}

var _ multiplier.Surface = (*textureSurface)(nil)

func newTextureSurface(w, h int, bg color.NRGBA) *textureSurface {
	s := &textureSurface{bg: toColor(bg)}
	s.SetSize(w, h)
	return s
}

func (s *textureSurface) Valid() bool { return s.target.ID != 0 }

func (s *textureSurface) Size() (int, int) { return s.width, s.height }

func (s *textureSurface) SetSize(w, h int) {
	if w == s.width && h == s.height && s.Valid() {
		s.clear()
		return
	}
	s.Unload()
	s.width, s.height = w, h
	s.target = rl.LoadRenderTexture(int32(w), int32(h))
	s.mask = rl.LoadRenderTexture(int32(w), int32(h))
	s.clear()
}

func (s *textureSurface) clear() {
	rl.BeginTextureMode(s.target)
	rl.ClearBackground(s.bg)
	rl.EndTextureMode()
}

func (s *textureSurface) FillRect(x, y, w, h float64, c color.NRGBA) {
	rl.DrawRectangleRec(rl.NewRectangle(float32(x), float32(y), float32(w), float32(h)), toColor(c))
}

func (s *textureSurface) FillCircle(center multiplier.Vec2, radius float64, c color.NRGBA) {
	rl.DrawCircleV(vec(center), float32(radius), toColor(c))
}

func (s *textureSurface) StrokeSegments(segs []multiplier.Segment, c color.NRGBA) {
	if len(segs) == 0 || s.mask.ID == 0 {
		return
	}
	stroke, tint := maskColors(c)

	rl.EndTextureMode()
	rl.BeginTextureMode(s.mask)
	rl.ClearBackground(rl.Blank)
	for _, seg := range segs {
		rl.DrawLineV(vec(seg.From), vec(seg.To), stroke)
	}
	rl.EndTextureMode()

	rl.BeginTextureMode(s.target)
	rl.DrawTextureRec(s.mask.Texture, s.flipped(), rl.NewVector2(0, 0), tint)
}

// maskColors splits a translucent stroke color into the opaque color drawn
// into the mask and the tint that applies its alpha on composite.
func maskColors(c color.NRGBA) (stroke, tint rl.Color) {
	return rl.NewColor(c.R, c.G, c.B, 0xff), rl.NewColor(0xff, 0xff, 0xff, c.A)
}

// flipped is the source rectangle for drawing a render texture upright;
// render textures are stored bottom-up.
func (s *textureSurface) flipped() rl.Rectangle {
	return rl.NewRectangle(0, 0, float32(s.width), -float32(s.height))
}

// Present blits the texture to the screen.
func (s *textureSurface) Present() {
	rl.DrawTextureRec(s.target.Texture, s.flipped(), rl.NewVector2(0, 0), rl.White)
}

func (s *textureSurface) Unload() {
	if s.Valid() {
		rl.UnloadRenderTexture(s.target)
		s.target = rl.RenderTexture2D{}
	}
	if s.mask.ID != 0 {
		rl.UnloadRenderTexture(s.mask)
		s.mask = rl.RenderTexture2D{}
	}
}

func toColor(c color.NRGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

func vec(v multiplier.Vec2) rl.Vector2 {
	return rl.NewVector2(float32(v.X), float32(v.Y))
}
