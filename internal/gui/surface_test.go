package gui

import (
	"image/color"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/pulse/internal/multiplier"
)

func TestMaskColorsCarryAlphaOnComposite(t *testing.T) {
	stroke, tint := maskColors(multiplier.DefaultConnectorColor)

	if stroke != rl.NewColor(255, 255, 255, 255) {
		t.Errorf("expected an opaque stroke, got %+v", stroke)
	}
	if tint.A != multiplier.DefaultConnectorColor.A || tint.R != 255 || tint.G != 255 || tint.B != 255 {
		t.Errorf("expected a white tint with alpha %d, got %+v", multiplier.DefaultConnectorColor.A, tint)
	}

	stroke, _ = maskColors(color.NRGBA{0x22, 0xd3, 0xee, 0x40})
	if stroke.R != 0x22 || stroke.G != 0xd3 || stroke.B != 0xee || stroke.A != 0xff {
		t.Errorf("expected the rgb kept at full alpha, got %+v", stroke)
	}
}
