package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/pulse/internal/config"
	"github.com/san-kum/pulse/internal/multiplier"
	"github.com/san-kum/pulse/internal/session"
)

type ExportData struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset"`
	Seed       int64              `json:"seed"`
	FPS        int                `json:"fps"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	FinalPhase string             `json:"final_phase"`
	Steps      int                `json:"steps"`
	Samples    []SampleData       `json:"samples"`
	Particles  []ParticleData     `json:"particles"`
	Metrics    map[string]float64 `json:"metrics"`
}

type SampleData struct {
	Frame      int    `json:"frame"`
	TimeMs     int64  `json:"time_ms"`
	Phase      string `json:"phase"`
	Population int    `json:"population"`
}

type ParticleData struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
}

func NewExportData(samples []session.Sample, particles []multiplier.Particle) *ExportData {
	data := &ExportData{
		Steps:     len(samples),
		Samples:   make([]SampleData, len(samples)),
		Particles: make([]ParticleData, len(particles)),
		Metrics:   map[string]float64{},
	}
	for i, s := range samples {
		data.Samples[i] = SampleData{
			Frame:      s.Frame,
			TimeMs:     s.TimeMs,
			Phase:      s.Phase.String(),
			Population: s.Population,
		}
	}
	for i, p := range particles {
		data.Particles[i] = ParticleData{
			X:      p.Pos.X,
			Y:      p.Pos.Y,
			VX:     p.Vel.X,
			VY:     p.Vel.Y,
			Radius: p.Radius,
			Color:  config.HexString(p.Color),
		}
	}
	if len(samples) > 0 {
		data.FinalPhase = samples[len(samples)-1].Phase.String()
	}
	return data
}

func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSON writes to path, or to stdout when path is "-".
func ExportJSON(path string, data *ExportData) error {
	if path == "-" {
		return WriteJSON(os.Stdout, data)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, data)
}
