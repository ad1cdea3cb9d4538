package session

import "github.com/san-kum/pulse/internal/multiplier"

// Metric names written to Result.Metrics.
const (
	MetricPeakPopulation  = "peak_population"
	MetricFinalPopulation = "final_population"
	MetricInteractions    = "interactions"
	MetricBillionsAtMs    = "billions_at_ms"
	MetricExpandingFrames = "expanding_frames"
	MetricConnectors      = "connectors"
)

type stats struct {
	peak         int
	interactions int
	expanding    int
	billionsAt   int64
}

func newStats() *stats {
	return &stats{billionsAt: -1}
}

func (s *stats) observe(sm Sample) {
	if sm.Population > s.peak {
		s.peak = sm.Population
	}
	switch sm.Phase {
	case multiplier.PhaseExpanding:
		s.expanding++
	case multiplier.PhaseBillions:
		if s.billionsAt < 0 {
			s.billionsAt = sm.TimeMs
		}
	}
}

func (s *stats) fill(m map[string]float64, res *Result) {
	m[MetricPeakPopulation] = float64(s.peak)
	m[MetricFinalPopulation] = float64(len(res.Particles))
	m[MetricInteractions] = float64(s.interactions)
	m[MetricExpandingFrames] = float64(s.expanding)
	m[MetricConnectors] = float64(len(res.Connectors))
	m[MetricBillionsAtMs] = float64(s.billionsAt)
}

// Populations extracts the population series for plotting.
func Populations(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s.Population)
	}
	return out
}
