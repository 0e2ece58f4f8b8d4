package config

import "sort"

// Presets are named starting points for common teaching scenarios.
var Presets = map[string]Config{
	"classic": DefaultConfig(),
	"short": func() Config {
		c := DefaultConfig()
		c.NumPoints = 200
		c.Tau, c.Tp = 5, 5
		return c
	}(),
	"rk4": func() Config {
		c := DefaultConfig()
		c.Integrator = "rk4"
		return c
	}(),
	"nearest": func() Config {
		c := DefaultConfig()
		c.NumPoints = 3000
		c.NNNum = 1
		return c
	}(),
	"flat": func() Config {
		c := DefaultConfig()
		c.NumPoints = 3000
		c.Tau = 0
		return c
	}(),
}

func GetPreset(name string) (Config, bool) {
	cfg, ok := Presets[name]
	return cfg, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
