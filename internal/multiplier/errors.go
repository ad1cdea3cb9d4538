package multiplier

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSurface indicates the effect was mounted without a drawing surface.
	ErrNoSurface = errors.New("multiplier: drawing surface unavailable")

	// ErrInvalidConfig indicates a tuning value outside its valid range.
	ErrInvalidConfig = errors.New("multiplier: invalid config")

	// ErrClosed indicates an operation on an effect that was already torn down.
	ErrClosed = errors.New("multiplier: effect closed")
)

func (c Config) Validate() error {
	switch {
	case c.Cap < 1:
		return fmt.Errorf("%w: cap must be at least 1, got %d", ErrInvalidConfig, c.Cap)
	case c.BootstrapBelow < 0:
		return fmt.Errorf("%w: bootstrap threshold must not be negative, got %d", ErrInvalidConfig, c.BootstrapBelow)
	case c.SpawnChance < 0 || c.SpawnChance > 1:
		return fmt.Errorf("%w: spawn chance must be in [0,1], got %f", ErrInvalidConfig, c.SpawnChance)
	case c.ExpandDelay <= 0:
		return fmt.Errorf("%w: expand delay must be positive, got %v", ErrInvalidConfig, c.ExpandDelay)
	case c.SpeedMin < 0 || c.SpeedMax < c.SpeedMin:
		return fmt.Errorf("%w: speed range [%f,%f) is empty or negative", ErrInvalidConfig, c.SpeedMin, c.SpeedMax)
	case c.RadiusMin <= 0 || c.RadiusMax < c.RadiusMin:
		return fmt.Errorf("%w: radius range [%f,%f) is empty or not positive", ErrInvalidConfig, c.RadiusMin, c.RadiusMax)
	case c.ConnectorRadius < 0:
		return fmt.Errorf("%w: connector radius must not be negative, got %f", ErrInvalidConfig, c.ConnectorRadius)
	case len(c.Palette) == 0:
		return fmt.Errorf("%w: palette is empty", ErrInvalidConfig)
	case c.FallbackWidth < 1 || c.FallbackHeight < 1:
		return fmt.Errorf("%w: fallback size %dx%d", ErrInvalidConfig, c.FallbackWidth, c.FallbackHeight)
	}
	return nil
}
