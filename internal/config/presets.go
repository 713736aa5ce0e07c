package config

import "sort"

func preset(mutate func(c *Config)) *Config {
	c := DefaultConfig()
	mutate(c)
	return c
}

var Presets = map[string]*Config{
	"cannonball": DefaultConfig(),
	"drop": preset(func(c *Config) {
		c.Physics.InitPosition = Vec{X: 5, Y: 5}
		c.Physics.InitVelocity = Vec{}
	}),
	"lob": preset(func(c *Config) {
		c.Physics.InitVelocity = Vec{X: 4, Y: 18}
		c.Frames = 900
	}),
	"skid": preset(func(c *Config) {
		c.Physics.InitPosition = Vec{X: 0.2, Y: DefaultMinY}
		c.Physics.InitVelocity = Vec{X: 25, Y: 0}
	}),
	"moon": preset(func(c *Config) {
		c.Physics.Gravity = 1.62
		c.Frames = 1800
	}),
	"superball": preset(func(c *Config) {
		c.Physics.Dampening = 0.98
		c.Frames = 1800
	}),
	"coarse": preset(func(c *Config) {
		c.Physics.Substeps = 1
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
