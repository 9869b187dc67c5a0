package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. FBM_MIN_MINUTES.
// A double underscore descends into a section: FBM_GRID__COLS.
const EnvPrefix = "FBM_"

// EnvConfigPath names the variable holding a YAML config path.
const EnvConfigPath = EnvPrefix + "CONFIG"

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New)
//  2. the YAML file at path, or at $FBM_CONFIG when path is empty
//  3. FBM_ environment variables
func Load(path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	if c.Pitch.Length <= 0 || c.Pitch.Width <= 0 {
		return fmt.Errorf("pitch must have positive dimensions, got %gx%g", c.Pitch.Length, c.Pitch.Width)
	}
	if c.FinalThirdX <= 0 || c.FinalThirdX >= c.Pitch.Length {
		return fmt.Errorf("final_third_x %g outside pitch length %g", c.FinalThirdX, c.Pitch.Length)
	}
	if c.Grid.Cols <= 0 || c.Grid.Rows <= 0 {
		return fmt.Errorf("grid must have positive resolution, got %dx%d", c.Grid.Cols, c.Grid.Rows)
	}
	if len(c.Progressive.Zones) == 0 {
		return errors.New("progressive.zones must list at least one zone")
	}
	prev := 0.0
	for i, z := range c.Progressive.Zones {
		if z.UpToX <= prev {
			return fmt.Errorf("progressive.zones[%d]: up_to_x must increase, got %g after %g", i, z.UpToX, prev)
		}
		if z.MinAdvance < 0 {
			return fmt.Errorf("progressive.zones[%d]: min_advance must not be negative", i)
		}
		prev = z.UpToX
	}
	if c.MinMinutes < 0 {
		return errors.New("min_minutes must not be negative")
	}
	if c.FetchConcurrency <= 0 {
		c.FetchConcurrency = defaultFetchConcurrency
	}
	return nil
}
