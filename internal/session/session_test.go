package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/san-kum/pulse/internal/multiplier"
	"github.com/san-kum/pulse/internal/raster"
)

func baseOptions() Options {
	return Options{
		Effect:   multiplier.DefaultConfig(),
		Width:    320,
		Height:   200,
		FPS:      60,
		Duration: time.Second,
		Seed:     7,
	}
}

func TestRunWithoutInteraction(t *testing.T) {
	res, err := Run(context.Background(), baseOptions())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if res.Frames != 60 || len(res.Samples) != 60 {
		t.Fatalf("expected 60 frames, got %d (%d samples)", res.Frames, len(res.Samples))
	}
	for _, s := range res.Samples {
		if s.Phase != multiplier.PhaseOne || s.Population != 1 {
			t.Fatalf("frame %d: expected a lone seed in one, got %v/%d", s.Frame, s.Phase, s.Population)
		}
	}
	if res.Metrics[MetricBillionsAtMs] != -1 {
		t.Errorf("expected no billions time, got %f", res.Metrics[MetricBillionsAtMs])
	}
	if len(res.Connectors) != 0 {
		t.Errorf("expected no connectors in one, got %d", len(res.Connectors))
	}
	if res.Width != 320 || res.Height != 200 {
		t.Errorf("expected 320x200, got %dx%d", res.Width, res.Height)
	}
}

func TestRunReachesBillions(t *testing.T) {
	opts := baseOptions()
	opts.Duration = 4 * time.Second
	opts.Interactions = []time.Duration{0}

	res, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if res.Phase != multiplier.PhaseBillions {
		t.Fatalf("expected billions, got %v", res.Phase)
	}
	at := res.Metrics[MetricBillionsAtMs]
	if at < 3000 || at > 3000+17 {
		t.Errorf("expected billions about 3000ms in, got %f", at)
	}

	prev := 0
	for _, s := range res.Samples {
		if s.Population < prev {
			t.Fatalf("frame %d: population dropped from %d to %d", s.Frame, prev, s.Population)
		}
		if s.Population > opts.Effect.Cap {
			t.Fatalf("frame %d: population %d over cap", s.Frame, s.Population)
		}
		prev = s.Population
	}
	if got := res.Metrics[MetricPeakPopulation]; int(got) != prev {
		t.Errorf("expected peak %d, got %f", prev, got)
	}
	if res.Metrics[MetricInteractions] != 1 {
		t.Errorf("expected one interaction, got %f", res.Metrics[MetricInteractions])
	}
	if len(res.Particles) != prev {
		t.Errorf("expected %d particles in snapshot, got %d", prev, len(res.Particles))
	}
}

func TestRunResetsFromBillions(t *testing.T) {
	opts := baseOptions()
	opts.Duration = 6 * time.Second
	opts.Interactions = []time.Duration{5500 * time.Millisecond, 0, 5 * time.Second}

	res, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var seen []multiplier.Phase
	for _, s := range res.Samples {
		if len(seen) == 0 || seen[len(seen)-1] != s.Phase {
			seen = append(seen, s.Phase)
		}
	}
	want := []multiplier.Phase{
		multiplier.PhaseExpanding,
		multiplier.PhaseBillions,
		multiplier.PhaseOne,
		multiplier.PhaseExpanding,
	}
	if len(seen) != len(want) {
		t.Fatalf("expected phases %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected phases %v, got %v", want, seen)
		}
	}
	if res.Metrics[MetricInteractions] != 3 {
		t.Errorf("expected three interactions, got %f", res.Metrics[MetricInteractions])
	}
}

func TestRunDeterministic(t *testing.T) {
	opts := baseOptions()
	opts.Duration = 2 * time.Second
	opts.Interactions = []time.Duration{0}

	a, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	if len(a.Particles) != len(b.Particles) {
		t.Fatalf("populations differ: %d vs %d", len(a.Particles), len(b.Particles))
	}
	for i := range a.Particles {
		if a.Particles[i] != b.Particles[i] {
			t.Fatalf("particle %d differs: %+v vs %+v", i, a.Particles[i], b.Particles[i])
		}
	}
}

func TestRunFallbackSize(t *testing.T) {
	opts := baseOptions()
	opts.Width, opts.Height = 0, 0
	opts.Duration = 100 * time.Millisecond

	res, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Width != 600 || res.Height != 300 {
		t.Errorf("expected fallback 600x300, got %dx%d", res.Width, res.Height)
	}
	w, h := res.Surface.Size()
	if w != 600 || h != 300 {
		t.Errorf("surface not resized: %dx%d", w, h)
	}
}

func TestRunKeepsNonZeroDimension(t *testing.T) {
	opts := baseOptions()
	opts.Width, opts.Height = 800, 0
	opts.Duration = 100 * time.Millisecond

	res, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Width != 800 || res.Height != 300 {
		t.Errorf("expected 800x300, got %dx%d", res.Width, res.Height)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, baseOptions())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res == nil || res.Frames != 0 {
		t.Errorf("expected an empty partial result, got %+v", res)
	}
}

func TestRunRecordsFrames(t *testing.T) {
	opts := baseOptions()
	opts.Recorder = raster.NewRecorder(10, 2)

	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if got := opts.Recorder.Frames(); got != 6 {
		t.Errorf("expected 6 captured frames, got %d", got)
	}
}

func TestRunInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"zero fps", func(o *Options) { o.FPS = 0 }},
		{"zero duration", func(o *Options) { o.Duration = 0 }},
		{"negative interaction", func(o *Options) { o.Interactions = []time.Duration{-time.Second} }},
		{"bad effect config", func(o *Options) { o.Effect.Cap = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := baseOptions()
			tt.modify(&opts)
			if _, err := Run(context.Background(), opts); !errors.Is(err, multiplier.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestPopulations(t *testing.T) {
	got := Populations([]Sample{{Population: 1}, {Population: 3}})
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("unexpected series %v", got)
	}
}
