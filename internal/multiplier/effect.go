package multiplier

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Effect is one mounted instance of the multiplier animation. It is not safe
// for concurrent use: the host calls every method, and polls its Scheduler,
// from a single goroutine.
type Effect struct {
	cfg     Config
	surface Surface
	sched   Scheduler
	rng     Rand
	log     *zap.Logger

	store  *Store
	growth *Growth
	segs   []Segment

	phase   Phase
	timer   Timer
	width   int
	height  int
	mounted bool
	closed  bool
	ticks   uint64
}

type Option func(*Effect)

func WithLogger(l *zap.Logger) Option {
	return func(e *Effect) {
		if l != nil {
			e.log = l
		}
	}
}

func WithRand(r Rand) Option {
	return func(e *Effect) {
		if r != nil {
			e.rng = r
		}
	}
}

func New(surface Surface, sched Scheduler, cfg Config, opts ...Option) (*Effect, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sched == nil {
		return nil, fmt.Errorf("%w: scheduler is required", ErrInvalidConfig)
	}

	e := &Effect{
		cfg:     cfg,
		surface: surface,
		sched:   sched,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		log:     zap.NewNop(),
		store:   NewStore(cfg.Cap),
		segs:    make([]Segment, 0, cfg.Cap/2+1),
		phase:   PhaseOne,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.growth = NewGrowth(cfg, e.rng)
	return e, nil
}

// Mount sizes the surface to the container and plants the seed particle.
// Without a surface the effect stays unmounted and Tick draws nothing.
func (e *Effect) Mount(w, h int) error {
	if e.closed {
		return ErrClosed
	}
	if e.surface == nil {
		e.log.Warn("mount without surface, rendering disabled")
		return ErrNoSurface
	}
	e.reset(w, h)
	e.mounted = true
	e.log.Debug("mounted", zap.Int("width", e.width), zap.Int("height", e.height))
	return nil
}

// Resize restarts the geometry at the new size. Phase and any pending phase
// timer are left alone.
func (e *Effect) Resize(w, h int) {
	if e.closed || !e.mounted {
		return
	}
	e.reset(w, h)
	e.log.Debug("resized",
		zap.Int("width", e.width),
		zap.Int("height", e.height),
		zap.Stringer("phase", e.phase),
	)
}

func (e *Effect) Interact() {
	if e.closed {
		return
	}
	switch e.phase {
	case PhaseOne:
		e.setPhase(PhaseExpanding)
		e.timer = e.sched.AfterFunc(e.cfg.ExpandDelay, e.expandElapsed)
	case PhaseBillions:
		e.stopTimer()
		e.setPhase(PhaseOne)
		if e.mounted {
			e.store.Reset(e.seed())
		}
	}
}

func (e *Effect) expandElapsed() {
	e.timer = nil
	if e.closed || e.phase != PhaseExpanding {
		return
	}
	e.setPhase(PhaseBillions)
}

// Tick runs one update and draw pass. It returns false once the effect is
// closed or was never mounted; hosts stop rescheduling when it does.
func (e *Effect) Tick() bool {
	if e.closed || !e.mounted {
		return false
	}

	w, h := float64(e.width), float64(e.height)
	center := e.Center()

	e.surface.FillRect(0, 0, w, h, e.cfg.TrailColor)

	if e.phase == PhaseExpanding {
		e.growth.Step(e.store, center)
	}

	particles := e.store.All()
	for i := range particles {
		p := &particles[i]
		Integrate(p, w, h)
		e.surface.FillCircle(p.Pos, p.Radius, withOpacity(p.Color, p.Opacity))
	}

	if e.phase != PhaseOne {
		e.segs = Connectors(e.segs[:0], particles, center, e.cfg.ConnectorRadius)
		if len(e.segs) > 0 {
			e.surface.StrokeSegments(e.segs, e.cfg.ConnectorColor)
		}
	}

	e.ticks++
	return true
}

// Close cancels the pending phase timer and stops the tick loop. It is
// idempotent.
func (e *Effect) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.stopTimer()
	e.log.Debug("closed", zap.Uint64("ticks", e.ticks), zap.Int("population", e.store.Len()))
}

func (e *Effect) Phase() Phase          { return e.phase }
func (e *Effect) Population() int       { return e.store.Len() }
func (e *Effect) Ticks() uint64         { return e.ticks }
func (e *Effect) Closed() bool          { return e.closed }
func (e *Effect) Mounted() bool         { return e.mounted }
func (e *Effect) Size() (int, int)      { return e.width, e.height }
func (e *Effect) Config() Config        { return e.cfg }
func (e *Effect) Pending() bool         { return e.timer != nil }
func (e *Effect) Caption() Caption      { return CaptionFor(e.phase) }
func (e *Effect) Particles() []Particle { return e.store.Snapshot() }

func (e *Effect) Center() Vec2 {
	return Vec2{float64(e.width) / 2, float64(e.height) / 2}
}

func (e *Effect) reset(w, h int) {
	if w <= 0 {
		w = e.cfg.FallbackWidth
	}
	if h <= 0 {
		h = e.cfg.FallbackHeight
	}
	e.width, e.height = w, h
	e.surface.SetSize(w, h)
	e.store.Reset(e.seed())
}

func (e *Effect) seed() Particle {
	return Particle{
		Pos:     e.Center(),
		Radius:  e.cfg.SeedRadius,
		Color:   e.cfg.SeedColor,
		Active:  true,
		Opacity: 1,
	}
}

func (e *Effect) setPhase(p Phase) {
	e.log.Debug("phase",
		zap.Stringer("from", e.phase),
		zap.Stringer("to", p),
		zap.Int("population", e.store.Len()),
	)
	e.phase = p
}

func (e *Effect) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
