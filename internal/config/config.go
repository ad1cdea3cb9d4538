package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/crazy3lf/colorconv"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pulse/internal/multiplier"
)

const (
	DefaultWidth           = multiplier.DefaultWidth
	DefaultHeight          = multiplier.DefaultHeight
	DefaultFPS             = 60
	DefaultCap             = multiplier.DefaultCap
	DefaultBootstrapBelow  = multiplier.DefaultBootstrapBelow
	DefaultSpawnChance     = multiplier.DefaultSpawnChance
	DefaultExpandDelayMs   = 3000
	DefaultSpeedMin        = multiplier.DefaultSpeedMin
	DefaultSpeedMax        = multiplier.DefaultSpeedMax
	DefaultRadiusMin       = multiplier.DefaultRadiusMin
	DefaultRadiusMax       = multiplier.DefaultRadiusMax
	DefaultConnectorRadius = multiplier.DefaultConnectorRadius
	DefaultSeedRadius      = multiplier.DefaultSeedRadius
	DefaultTheme           = "slate"
)

var DefaultPalette = []string{"#22d3ee", "#34d399", "#a78bfa", "#fbbf24"}

type Config struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Seed   int64  `yaml:"seed"`
	Theme  string `yaml:"theme"`

	Growth    GrowthConfig   `yaml:"growth"`
	Particles ParticleConfig `yaml:"particles"`
	Render    RenderConfig   `yaml:"render"`
}

type GrowthConfig struct {
	Cap            int     `yaml:"cap"`
	BootstrapBelow int     `yaml:"bootstrap_below"`
	SpawnChance    float64 `yaml:"spawn_chance"`
	ExpandDelayMs  int     `yaml:"expand_delay_ms"`
}

type ParticleConfig struct {
	SpeedMin    float64  `yaml:"speed_min"`
	SpeedMax    float64  `yaml:"speed_max"`
	RadiusMin   float64  `yaml:"radius_min"`
	RadiusMax   float64  `yaml:"radius_max"`
	SeedRadius  float64  `yaml:"seed_radius"`
	SeedColor   string   `yaml:"seed_color"`
	Palette     []string `yaml:"palette"`
	PaletteHues int      `yaml:"palette_hues"`
}

type RenderConfig struct {
	ConnectorRadius float64 `yaml:"connector_radius"`
	TrailColor      string  `yaml:"trail_color"`
	ConnectorColor  string  `yaml:"connector_color"`
}

func DefaultConfig() *Config {
	palette := make([]string, len(DefaultPalette))
	copy(palette, DefaultPalette)
	return &Config{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		FPS:    DefaultFPS,
		Theme:  DefaultTheme,
		Growth: GrowthConfig{
			Cap:            DefaultCap,
			BootstrapBelow: DefaultBootstrapBelow,
			SpawnChance:    DefaultSpawnChance,
			ExpandDelayMs:  DefaultExpandDelayMs,
		},
		Particles: ParticleConfig{
			SpeedMin:   DefaultSpeedMin,
			SpeedMax:   DefaultSpeedMax,
			RadiusMin:  DefaultRadiusMin,
			RadiusMax:  DefaultRadiusMax,
			SeedRadius: DefaultSeedRadius,
			SeedColor:  "#ffffff",
			Palette:    palette,
		},
		Render: RenderConfig{
			ConnectorRadius: DefaultConnectorRadius,
			TrailColor:      "#0f172a33",
			ConnectorColor:  "#ffffff0d",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays the fields present in the file onto cfg, so a file can
// refine a preset.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", multiplier.ErrInvalidConfig, c.FPS)
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("%w: size must not be negative, got %dx%d", multiplier.ErrInvalidConfig, c.Width, c.Height)
	}
	ec, err := c.Effect()
	if err != nil {
		return err
	}
	return ec.Validate()
}

// Effect converts the file representation into the simulation config.
func (c *Config) Effect() (multiplier.Config, error) {
	ec := multiplier.DefaultConfig()
	ec.Cap = c.Growth.Cap
	ec.BootstrapBelow = c.Growth.BootstrapBelow
	ec.SpawnChance = c.Growth.SpawnChance
	ec.ExpandDelay = time.Duration(c.Growth.ExpandDelayMs) * time.Millisecond
	ec.SpeedMin = c.Particles.SpeedMin
	ec.SpeedMax = c.Particles.SpeedMax
	ec.RadiusMin = c.Particles.RadiusMin
	ec.RadiusMax = c.Particles.RadiusMax
	ec.SeedRadius = c.Particles.SeedRadius
	ec.ConnectorRadius = c.Render.ConnectorRadius
	if c.Width > 0 && c.Height > 0 {
		ec.FallbackWidth, ec.FallbackHeight = c.Width, c.Height
	}

	var err error
	if c.Particles.SeedColor != "" {
		if ec.SeedColor, err = ParseHex(c.Particles.SeedColor); err != nil {
			return ec, err
		}
	}
	if c.Render.TrailColor != "" {
		if ec.TrailColor, err = ParseHex(c.Render.TrailColor); err != nil {
			return ec, err
		}
	}
	if c.Render.ConnectorColor != "" {
		if ec.ConnectorColor, err = ParseHex(c.Render.ConnectorColor); err != nil {
			return ec, err
		}
	}

	switch {
	case c.Particles.PaletteHues > 0:
		if ec.Palette, err = HuePalette(c.Particles.PaletteHues); err != nil {
			return ec, err
		}
	case len(c.Particles.Palette) > 0:
		ec.Palette = make([]color.NRGBA, 0, len(c.Particles.Palette))
		for _, h := range c.Particles.Palette {
			col, err := ParseHex(h)
			if err != nil {
				return ec, err
			}
			ec.Palette = append(ec.Palette, col)
		}
	}
	return ec, nil
}

func (c *Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / DefaultFPS
	}
	return time.Second / time.Duration(c.FPS)
}

// ParseHex accepts #rgb, #rrggbb and #rrggbbaa.
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: bad color %q", multiplier.ErrInvalidConfig, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: bad color %q", multiplier.ErrInvalidConfig, s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// HexString is the inverse of ParseHex; alpha is written only when not opaque.
func HexString(c color.NRGBA) string {
	if c.A == 0xff {
		return RGBHex(c)
	}
	return fmt.Sprintf("%s%02x", RGBHex(c), c.A)
}

// RGBHex formats the color as #rrggbb, dropping alpha.
func RGBHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HuePalette spreads n fully saturated colors evenly around the hue wheel.
func HuePalette(n int) ([]color.NRGBA, error) {
	out := make([]color.NRGBA, 0, n)
	for i := 0; i < n; i++ {
		hue := float64(i) * 360 / float64(n)
		r, g, b, err := colorconv.HSVToRGB(hue, 0.75, 1)
		if err != nil {
			return nil, fmt.Errorf("%w: hue %f: %v", multiplier.ErrInvalidConfig, hue, err)
		}
		out = append(out, color.NRGBA{R: r, G: g, B: b, A: 0xff})
	}
	return out, nil
}
