package pool

import (
	"fmt"

	"gopkg.in/yaml.v3"

	lerrors "github.com/vango-dev/lumen/internal/errors"
)

var (
	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = lerrors.New("L001")

	// ErrConfigLocked is returned when a pool is reconfigured after its
	// first Acquire.
	ErrConfigLocked = lerrors.New("L002")
)

// Config holds the grow/shrink policy of a pool.
type Config struct {
	Initial         int     `yaml:"initial" json:"initial"`
	Max             int     `yaml:"max" json:"max"`
	GrowthFactor    float64 `yaml:"growthFactor" json:"growthFactor"`
	ShrinkThreshold float64 `yaml:"shrinkThreshold" json:"shrinkThreshold"`
	MinSize         int     `yaml:"minSize" json:"minSize"`
}

// DefaultConfig returns the policy used by pools that were never configured.
func DefaultConfig() Config {
	return Config{
		Initial:         32,
		Max:             1024,
		GrowthFactor:    2,
		ShrinkThreshold: 0.25,
		MinSize:         8,
	}
}

// Validate checks the policy for internal consistency.
func (c Config) Validate() error {
	switch {
	case c.Initial < 0:
		return invalid("initial must be >= 0, got %d", c.Initial)
	case c.Max <= 0:
		return invalid("max must be > 0, got %d", c.Max)
	case c.Initial > c.Max:
		return invalid("initial (%d) exceeds max (%d)", c.Initial, c.Max)
	case c.GrowthFactor <= 1:
		return invalid("growthFactor must be > 1, got %g", c.GrowthFactor)
	case c.ShrinkThreshold <= 0 || c.ShrinkThreshold >= 1:
		return invalid("shrinkThreshold must be in (0, 1), got %g", c.ShrinkThreshold)
	case c.MinSize < 0 || c.MinSize > c.Max:
		return invalid("minSize must be in [0, max], got %d", c.MinSize)
	}
	return nil
}

// Merge fills the zero fields of c that have no valid zero value (Max,
// GrowthFactor, ShrinkThreshold) from def. A zero Initial or MinSize is kept.
func (c Config) Merge(def Config) Config {
	if c.Max == 0 {
		c.Max = def.Max
	}
	if c.GrowthFactor == 0 {
		c.GrowthFactor = def.GrowthFactor
	}
	if c.ShrinkThreshold == 0 {
		c.ShrinkThreshold = def.ShrinkThreshold
	}
	return c
}

// UnmarshalYAML decodes a policy on top of DefaultConfig. Fields left out
// keep their default, except that a defaulted Initial or MinSize is clamped
// to the decoded Max.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			switch key := node.Content[i]; key.Value {
			case "initial", "max", "growthFactor", "shrinkThreshold", "minSize":
			default:
				return fmt.Errorf("line %d: field %s not found in pool config", key.Line, key.Value)
			}
		}
	}

	var raw struct {
		Initial         *int     `yaml:"initial"`
		Max             *int     `yaml:"max"`
		GrowthFactor    *float64 `yaml:"growthFactor"`
		ShrinkThreshold *float64 `yaml:"shrinkThreshold"`
		MinSize         *int     `yaml:"minSize"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	cfg := DefaultConfig()
	if raw.Max != nil {
		cfg.Max = *raw.Max
	}
	if raw.GrowthFactor != nil {
		cfg.GrowthFactor = *raw.GrowthFactor
	}
	if raw.ShrinkThreshold != nil {
		cfg.ShrinkThreshold = *raw.ShrinkThreshold
	}
	if raw.Initial != nil {
		cfg.Initial = *raw.Initial
	} else {
		cfg.Initial = min(cfg.Initial, max(cfg.Max, 0))
	}
	if raw.MinSize != nil {
		cfg.MinSize = *raw.MinSize
	} else {
		cfg.MinSize = min(cfg.MinSize, max(cfg.Max, 0))
	}
	*c = cfg
	return nil
}

func invalid(format string, args ...any) error {
	return lerrors.New("L001").WithDetail(fmt.Sprintf(format, args...))
}
