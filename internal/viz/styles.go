package viz

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pulse/internal/config"
	"github.com/san-kum/pulse/internal/multiplier"
)

// CaptionView renders the phase caption centered in width columns: headline,
// then attribution and hint when the phase has them.
func CaptionView(c multiplier.Caption, t Theme, width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	lines := []string{
		center.Render(GradientText(c.Headline, t.Primary, t.Accent)),
	}
	if c.Attribution != "" {
		attr := lipgloss.NewStyle().Foreground(t.Secondary).Italic(true)
		lines = append(lines, center.Render(attr.Render(c.Attribution)))
	}
	if c.Hint != "" {
		hint := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
		lines = append(lines, center.Render(hint.Render(strings.ToUpper(c.Hint))))
	}
	return strings.Join(lines, "\n")
}

// StatusLine shows phase and population on the left and key hints on the right.
func StatusLine(phase multiplier.Phase, population, capacity int, t Theme, width int) string {
	label := lipgloss.NewStyle().Foreground(t.Muted)
	value := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	left := label.Render("phase ") + value.Render(phase.String()) +
		label.Render("  particles ") + value.Render(fmt.Sprintf("%d/%d", population, capacity))
	right := lipgloss.NewStyle().Foreground(t.Muted).Italic(true).Render("space act  t theme  q quit")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// ProgressBar fills width cells in proportion to percent, clamped to [0,1].
func ProgressBar(percent float64, width int, t Theme) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	done := lipgloss.NewStyle().Foreground(t.Accent).Render(strings.Repeat("━", filled))
	rest := lipgloss.NewStyle().Foreground(t.Muted).Render(strings.Repeat("─", width-filled))
	return done + rest
}

// PopulationGraph plots the recent population history. It returns an empty
// string until there are two samples.
func PopulationGraph(history []float64, width, height int) string {
	if len(history) < 2 || width < 1 || height < 1 {
		return ""
	}
	return asciigraph.Plot(history,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.Precision(0),
	)
}

// Placeholder is shown in place of the animation when no surface could be
// created.
func Placeholder(width, height int, t Theme) string {
	msg := lipgloss.NewStyle().Foreground(t.Muted).Render("rendering unavailable")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}

// GradientText colors each rune along a linear blend from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	s := parseHex(string(start))
	e := parseHex(string(end))

	var result strings.Builder
	n := len(runes)
	for i, r := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		c := color.NRGBA{
			R: lerp(s.R, e.R, t),
			G: lerp(s.G, e.G, t),
			B: lerp(s.B, e.B, t),
			A: 0xff,
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(config.RGBHex(c)))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + t*(float64(b)-float64(a)) + 0.5)
}

// parseHex falls back to white on malformed input.
func parseHex(hex string) color.NRGBA {
	c, err := config.ParseHex(hex)
	if err != nil {
		return color.NRGBA{0xff, 0xff, 0xff, 0xff}
	}
	return c
}
