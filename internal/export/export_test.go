package export

import (
	"bytes"
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/pulse/internal/multiplier"
	"github.com/san-kum/pulse/internal/session"
)

func testParticles() []multiplier.Particle {
	return []multiplier.Particle{
		{Pos: multiplier.Vec2{X: 10, Y: 20}, Radius: 6, Color: color.NRGBA{255, 255, 255, 255}, Opacity: 1},
		{Pos: multiplier.Vec2{X: 30, Y: 40}, Vel: multiplier.Vec2{X: 1, Y: -1}, Radius: 2, Color: color.NRGBA{0x22, 0xd3, 0xee, 0xff}, Opacity: 1},
	}
}

func TestSceneToSVG(t *testing.T) {
	svg := SceneToSVG(Scene{
		Width:      600,
		Height:     300,
		Background: color.NRGBA{15, 23, 42, 255},
		Particles:  testParticles(),
		Connectors: []multiplier.Segment{{From: multiplier.Vec2{X: 300, Y: 150}, To: multiplier.Vec2{X: 10, Y: 20}}},
		Connector:  multiplier.DefaultConnectorColor,
	})

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document: %q", svg)
	}
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 circles, got %d", got)
	}
	for _, want := range []string{`fill="#0f172a"`, `fill="#22d3ee"`, "M300.0,150.0 L10.0,20.0", `stroke-opacity="0.051"`} {
		if !strings.Contains(svg, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Contains(svg, "fill-opacity") {
		t.Error("opaque particles should not carry fill-opacity")
	}
}

func TestSceneToSVGNoConnectors(t *testing.T) {
	svg := SceneToSVG(Scene{Width: 10, Height: 10, Particles: testParticles()[:1]})
	if strings.Contains(svg, "<path") {
		t.Error("expected no connector path")
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{1}, 100, 50, "#fff") != "" {
		t.Error("expected empty output for a single value")
	}

	svg := SeriesToSVG([]float64{1, 1, 5, 9}, 100, 50, "#22d3ee")
	if !strings.Contains(svg, `stroke="#22d3ee"`) {
		t.Error("missing stroke color")
	}
	if got := strings.Count(svg, " L"); got != 3 {
		t.Errorf("expected 3 line segments, got %d", got)
	}
	if !strings.Contains(svg, "d=\"M0.0,") {
		t.Error("path should start at x=0")
	}
}

func TestExportJSON(t *testing.T) {
	samples := []session.Sample{
		{Frame: 0, TimeMs: 16, Phase: multiplier.PhaseExpanding, Population: 2},
		{Frame: 1, TimeMs: 33, Phase: multiplier.PhaseBillions, Population: 3},
	}
	data := NewExportData(samples, testParticles())
	data.Preset = "default"

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, data); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var back ExportData
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if back.Steps != 2 || back.FinalPhase != "billions" || back.Preset != "default" {
		t.Errorf("unexpected header: %+v", back)
	}
	if len(back.Particles) != 2 || back.Particles[1].Color != "#22d3ee" || back.Particles[1].VY != -1 {
		t.Errorf("unexpected particles: %+v", back.Particles)
	}
	if back.Samples[0].Phase != "expanding" {
		t.Errorf("expected phase name, got %q", back.Samples[0].Phase)
	}
}

func TestWriteJSONIndented(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewExportData(nil, nil)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"steps\": 0") {
		t.Errorf("expected indented output, got %s", buf.String())
	}
}
