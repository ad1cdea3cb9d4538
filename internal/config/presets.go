package config

import "sort"

var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"dense": func(c *Config) {
		c.Growth.Cap = 1200
		c.Growth.SpawnChance = 0.35
		c.Render.ConnectorRadius = 220
	},
	"calm": func(c *Config) {
		c.Particles.SpeedMin = 0.3
		c.Particles.SpeedMax = 1.2
		c.Growth.ExpandDelayMs = 5000
		c.Render.TrailColor = "#0f172a14"
	},
	"burst": func(c *Config) {
		c.Growth.SpawnChance = 0.6
		c.Growth.BootstrapBelow = 40
		c.Particles.SpeedMin = 2
		c.Particles.SpeedMax = 6
	},
	"spectrum": func(c *Config) {
		c.Particles.PaletteHues = 12
		c.Particles.RadiusMax = 4
	},
}

// GetPreset returns a fresh default config with the named preset applied.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
