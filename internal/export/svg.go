package export

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/san-kum/pulse/internal/config"
	"github.com/san-kum/pulse/internal/multiplier"
)

// Scene is the static picture of one frame.
type Scene struct {
	Width      int
	Height     int
	Background color.NRGBA
	Particles  []multiplier.Particle
	Connectors []multiplier.Segment
	Connector  color.NRGBA
}

// SceneToSVG draws the particles as filled circles over the background, with
// the connector segments stroked beneath them.
func SceneToSVG(sc Scene) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, sc.Width, sc.Height, sc.Width, sc.Height, config.RGBHex(sc.Background)))

	if len(sc.Connectors) > 0 {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-opacity="%.3f" stroke-width="1" d="`,
			config.RGBHex(sc.Connector), alpha(sc.Connector)))
		for i, s := range sc.Connectors {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(fmt.Sprintf("M%.1f,%.1f L%.1f,%.1f", s.From.X, s.From.Y, s.To.X, s.To.Y))
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("<g>\n")
	for _, p := range sc.Particles {
		c := p.Color
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"`, p.Pos.X, p.Pos.Y, p.Radius, config.RGBHex(c)))
		if a := alpha(c) * p.Opacity; a < 1 {
			sb.WriteString(fmt.Sprintf(` fill-opacity="%.3f"`, a))
		}
		sb.WriteString("/>\n")
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots a series as a polyline, scaled to fill the view with
// 10% padding.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeX := float64(len(values) - 1)
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0f172a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func alpha(c color.NRGBA) float64 {
	return float64(c.A) / 255
}
