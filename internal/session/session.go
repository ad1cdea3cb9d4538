package session

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/pulse/internal/clock"
	"github.com/san-kum/pulse/internal/multiplier"
	"github.com/san-kum/pulse/internal/raster"
)

// Epoch is where every recording's virtual clock starts.
var Epoch = time.Unix(0, 0)

type Sample struct {
	Frame      int
	TimeMs     int64
	Phase      multiplier.Phase
	Population int
}

type Options struct {
	Effect   multiplier.Config
	Width    int
	Height   int
	FPS      int
	Duration time.Duration
	Seed     int64

	// Interactions are offsets from the start at which the recording taps
	// the effect. Each is applied before the first frame at or after it.
	Interactions []time.Duration

	Recorder *raster.Recorder
	Logger   *zap.Logger
}

type Result struct {
	Samples    []Sample
	Particles  []multiplier.Particle
	Connectors []multiplier.Segment
	Phase      multiplier.Phase
	Frames     int
	Width      int
	Height     int
	Surface    *raster.Surface
	Metrics    map[string]float64
}

func (o Options) validate() error {
	if o.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", multiplier.ErrInvalidConfig, o.FPS)
	}
	if o.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %v", multiplier.ErrInvalidConfig, o.Duration)
	}
	for _, d := range o.Interactions {
		if d < 0 {
			return fmt.Errorf("%w: interaction at negative offset %v", multiplier.ErrInvalidConfig, d)
		}
	}
	return nil
}

// Run drives an effect frame by frame on a virtual clock. On cancellation it
// returns what was recorded so far along with the context error.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	clk := clock.NewManual(Epoch)
	timers := clock.NewTimers(clk)
	surface := raster.New(1, 1)

	effect, err := multiplier.New(surface, timers, opts.Effect,
		multiplier.WithRand(rand.New(rand.NewSource(opts.Seed))),
		multiplier.WithLogger(log.Named("effect")),
	)
	if err != nil {
		return nil, err
	}
	if err := effect.Mount(opts.Width, opts.Height); err != nil {
		return nil, err
	}
	defer effect.Close()

	script := make([]time.Duration, len(opts.Interactions))
	copy(script, opts.Interactions)
	sort.Slice(script, func(i, j int) bool { return script[i] < script[j] })

	frame := time.Second / time.Duration(opts.FPS)
	frames := int(opts.Duration / frame)
	w, h := effect.Size()

	res := &Result{
		Samples: make([]Sample, 0, frames),
		Width:   w,
		Height:  h,
		Surface: surface,
		Metrics: make(map[string]float64),
	}
	stats := newStats()

	log.Info("recording",
		zap.Int("frames", frames),
		zap.Int("fps", opts.FPS),
		zap.Int("interactions", len(script)),
		zap.Int64("seed", opts.Seed),
	)

	next := 0
	var runErr error
	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		elapsed := clk.Now().Sub(Epoch)
		for next < len(script) && script[next] <= elapsed {
			effect.Interact()
			stats.interactions++
			next++
		}

		now := clk.Advance(frame)
		timers.Fire(now)
		if !effect.Tick() {
			break
		}
		if opts.Recorder != nil {
			opts.Recorder.Capture(surface)
		}

		s := Sample{
			Frame:      i,
			TimeMs:     now.Sub(Epoch).Milliseconds(),
			Phase:      effect.Phase(),
			Population: effect.Population(),
		}
		stats.observe(s)
		res.Samples = append(res.Samples, s)
		res.Frames++
	}

	res.Phase = effect.Phase()
	res.Particles = effect.Particles()
	if res.Phase != multiplier.PhaseOne {
		res.Connectors = multiplier.Connectors(nil, res.Particles, effect.Center(), opts.Effect.ConnectorRadius)
	}
	stats.fill(res.Metrics, res)

	if runErr != nil {
		log.Warn("recording cancelled", zap.Int("frames", res.Frames), zap.Error(runErr))
		return res, runErr
	}
	log.Info("recorded",
		zap.Int("frames", res.Frames),
		zap.Stringer("phase", res.Phase),
		zap.Int("population", len(res.Particles)),
	)
	return res, nil
}
