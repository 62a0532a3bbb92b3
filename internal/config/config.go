// YAML scenario loader with CUE validation integration
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Arena defines the bounded rectangle the scenario plays out in.
type Arena struct {
	WidthM  float64 `yaml:"width_m"`
	HeightM float64 `yaml:"height_m"`
}

// Technology defines one radio layer: how many cells it deploys and their
// capacity. Priority follows list order: earlier technologies win distance
// ties.
type Technology struct {
	Name     string  `yaml:"name"`
	Cells    int     `yaml:"cells"`
	Capacity float64 `yaml:"capacity"`
}

// TerminalGroup defines a set of terminals sharing movement and workload
// ranges.
type TerminalGroup struct {
	Name          string  `yaml:"name"`
	Count         int     `yaml:"count"`
	SpeedMinMps   float64 `yaml:"speed_min_mps"`
	SpeedMaxMps   float64 `yaml:"speed_max_mps"`
	DemandMin     float64 `yaml:"demand_min"`
	DemandMax     float64 `yaml:"demand_max"`
	DataVolumeMin float64 `yaml:"data_volume_min"`
	DataVolumeMax float64 `yaml:"data_volume_max"`
}

// Energy holds the energy-model coefficients.
type Energy struct {
	StaticPower  float64 `yaml:"static_power"`
	DynamicPower float64 `yaml:"dynamic_power"`
	Alpha        float64 `yaml:"alpha"`
	Beta         float64 `yaml:"beta"`
	TickSeconds  float64 `yaml:"tick_seconds"`
}

// SimulationConfig is the root configuration for the scenario.
type SimulationConfig struct {
	Arena        Arena           `yaml:"arena"`
	Technologies []Technology    `yaml:"technologies"`
	Terminals    []TerminalGroup `yaml:"terminals"`
	Energy       Energy          `yaml:"energy"`
	Ticks        int             `yaml:"ticks"`
	EpsilonM     float64         `yaml:"epsilon_m"`
	SurgeFactor  float64         `yaml:"surge_factor"`
	Seed         int64           `yaml:"seed"`
}

// TechPriority returns technology names in priority order.
func (c *SimulationConfig) TechPriority() []string {
	out := make([]string, 0, len(c.Technologies))
	for _, t := range c.Technologies {
		out = append(out, t.Name)
	}
	return out
}

// Load loads YAML config, validates it against a CUE schema, then applies
// semantic checks. Malformed parameters are fatal at setup time.
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *SimulationConfig) applyDefaults() {
	if c.EpsilonM == 0 {
		c.EpsilonM = 0.001
	}
	if c.SurgeFactor == 0 {
		c.SurgeFactor = 2
	}
	if c.Energy.TickSeconds == 0 {
		c.Energy.TickSeconds = 1
	}
}

// Validate enforces the semantic constraints the CUE schema cannot express
// and the ones that must hold even when no schema file is used.
func (c *SimulationConfig) Validate() error {
	if c.Arena.WidthM <= 0 || c.Arena.HeightM <= 0 {
		return fmt.Errorf("config: arena must have positive dimensions, got %vx%v", c.Arena.WidthM, c.Arena.HeightM)
	}
	if len(c.Technologies) == 0 {
		return fmt.Errorf("config: at least one technology required")
	}
	seen := make(map[string]bool)
	for _, t := range c.Technologies {
		if t.Name == "" {
			return fmt.Errorf("config: technology with empty name")
		}
		if seen[t.Name] {
			return fmt.Errorf("config: duplicate technology %q", t.Name)
		}
		seen[t.Name] = true
		if t.Cells <= 0 {
			return fmt.Errorf("config: technology %q needs at least one cell", t.Name)
		}
		if t.Capacity <= 0 {
			return fmt.Errorf("config: technology %q: capacity must be positive, got %v", t.Name, t.Capacity)
		}
	}
	if len(c.Terminals) == 0 {
		return fmt.Errorf("config: at least one terminal group required")
	}
	for _, g := range c.Terminals {
		if g.Count <= 0 {
			return fmt.Errorf("config: terminal group %q needs a positive count", g.Name)
		}
		if g.SpeedMinMps < 0 || g.SpeedMaxMps < g.SpeedMinMps {
			return fmt.Errorf("config: terminal group %q: bad speed range [%v, %v]", g.Name, g.SpeedMinMps, g.SpeedMaxMps)
		}
		if g.DemandMin < 0 || g.DemandMax < g.DemandMin {
			return fmt.Errorf("config: terminal group %q: bad demand range [%v, %v]", g.Name, g.DemandMin, g.DemandMax)
		}
		if g.DataVolumeMin < 0 || g.DataVolumeMax < g.DataVolumeMin {
			return fmt.Errorf("config: terminal group %q: bad data volume range [%v, %v]", g.Name, g.DataVolumeMin, g.DataVolumeMax)
		}
	}
	if c.Energy.StaticPower < 0 || c.Energy.DynamicPower < 0 || c.Energy.Alpha < 0 || c.Energy.Beta < 0 {
		return fmt.Errorf("config: energy coefficients must be non-negative: %+v", c.Energy)
	}
	if c.Energy.TickSeconds <= 0 {
		return fmt.Errorf("config: tick_seconds must be positive, got %v", c.Energy.TickSeconds)
	}
	if c.Ticks < 0 {
		return fmt.Errorf("config: ticks must not be negative, got %d", c.Ticks)
	}
	if c.EpsilonM < 0 {
		return fmt.Errorf("config: epsilon_m must not be negative, got %v", c.EpsilonM)
	}
	if c.SurgeFactor < 1 {
		return fmt.Errorf("config: surge_factor must be at least 1, got %v", c.SurgeFactor)
	}
	return nil
}
