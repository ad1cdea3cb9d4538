package multiplier

import (
	"image/color"
	"time"
)

type Phase int

const (
	PhaseOne Phase = iota
	PhaseExpanding
	PhaseBillions
)

func (p Phase) String() string {
	switch p {
	case PhaseOne:
		return "one"
	case PhaseExpanding:
		return "expanding"
	case PhaseBillions:
		return "billions"
	}
	return "unknown"
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, bool) {
	switch s {
	case "one":
		return PhaseOne, true
	case "expanding":
		return PhaseExpanding, true
	case "billions":
		return PhaseBillions, true
	}
	return PhaseOne, false
}

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

type Particle struct {
	Pos    Vec2
	Vel    Vec2
	Radius float64
	Color  color.NRGBA
	// Active and Opacity are carried for a fade/despawn lifecycle that does not exist yet.
	Active  bool
	Opacity float64
}

type Segment struct {
	From, To Vec2
}

// Surface is the 2D drawing target. Fill and stroke operations composite over
// the existing pixels.
type Surface interface {
	Size() (w, h int)
	SetSize(w, h int)
	FillRect(x, y, w, h float64, c color.NRGBA)
	FillCircle(center Vec2, radius float64, c color.NRGBA)
	StrokeSegments(segs []Segment, c color.NRGBA)
}

// Rand is satisfied by *math/rand.Rand.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d on the caller's logical thread.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

const (
	DefaultWidth           = 600
	DefaultHeight          = 300
	DefaultCap             = 400
	DefaultBootstrapBelow  = 10
	DefaultSpawnChance     = 0.10
	DefaultExpandDelay     = 3000 * time.Millisecond
	DefaultSpeedMin        = 1.0
	DefaultSpeedMax        = 4.0
	DefaultRadiusMin       = 1.0
	DefaultRadiusMax       = 3.0
	DefaultConnectorRadius = 150.0
	DefaultSeedRadius      = 6.0
)

var (
	DefaultPalette = []color.NRGBA{
		{0x22, 0xd3, 0xee, 0xff}, // cyan
		{0x34, 0xd3, 0x99, 0xff}, // emerald
		{0xa7, 0x8b, 0xfa, 0xff}, // purple
		{0xfb, 0xbf, 0x24, 0xff}, // amber
	}
	DefaultSeedColor      = color.NRGBA{0xff, 0xff, 0xff, 0xff}
	DefaultTrailColor     = color.NRGBA{15, 23, 42, 51}
	DefaultConnectorColor = color.NRGBA{255, 255, 255, 13}
)

type Config struct {
	Cap             int
	BootstrapBelow  int
	SpawnChance     float64
	ExpandDelay     time.Duration
	SpeedMin        float64
	SpeedMax        float64
	RadiusMin       float64
	RadiusMax       float64
	ConnectorRadius float64
	SeedRadius      float64
	SeedColor       color.NRGBA
	TrailColor      color.NRGBA
	ConnectorColor  color.NRGBA
	Palette         []color.NRGBA
	FallbackWidth   int
	FallbackHeight  int
}

func DefaultConfig() Config {
	palette := make([]color.NRGBA, len(DefaultPalette))
	copy(palette, DefaultPalette)
	return Config{
		Cap:             DefaultCap,
		BootstrapBelow:  DefaultBootstrapBelow,
		SpawnChance:     DefaultSpawnChance,
		ExpandDelay:     DefaultExpandDelay,
		SpeedMin:        DefaultSpeedMin,
		SpeedMax:        DefaultSpeedMax,
		RadiusMin:       DefaultRadiusMin,
		RadiusMax:       DefaultRadiusMax,
		ConnectorRadius: DefaultConnectorRadius,
		SeedRadius:      DefaultSeedRadius,
		SeedColor:       DefaultSeedColor,
		TrailColor:      DefaultTrailColor,
		ConnectorColor:  DefaultConnectorColor,
		Palette:         palette,
		FallbackWidth:   DefaultWidth,
		FallbackHeight:  DefaultHeight,
	}
}
