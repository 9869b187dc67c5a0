// Package config defines fbmetrics configuration and its defaults.
//
// Values are layered: defaults from New, then an optional YAML file, then
// FBM_-prefixed environment variables (see Load).
package config

import (
	"os"
	"path/filepath"

	"github.com/pable/go-football-metrics/internal/model"
)

// Default configuration constants. Distances are in StatsBomb pitch units
// (yards on a 120x80 pitch).
const (
	defaultCompetitionID    = 55  // UEFA Euro
	defaultSeasonID         = 282 // 2024
	defaultSource           = "https://raw.githubusercontent.com/statsbomb/open-data/master/data"
	defaultFetchConcurrency = 4
	defaultMinMinutes       = 90
	defaultPitchLength      = 120
	defaultPitchWidth       = 80
	defaultFinalThirdX      = 80
	defaultGridCols         = 12
	defaultGridRows         = 8
	defaultAnalyzeModel     = "claude-haiku-4-5-20251001"
)

// Config contains process configuration.
type Config struct {
	// DBPath is the SQLite file holding the input tables.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// CompetitionID and SeasonID select the tournament analysed.
	CompetitionID int64 `koanf:"competition_id"`
	SeasonID      int64 `koanf:"season_id"`

	// Source is an open-data base URL or a local data directory.
	Source string `koanf:"source"`

	// FetchConcurrency bounds parallel event-file downloads.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// MinMinutes is the minimum tournament minutes for a player to enter a
	// reference population. The ranked player is always included.
	MinMinutes float64 `koanf:"min_minutes"`

	Pitch       PitchConfig       `koanf:"pitch"`
	FinalThirdX float64           `koanf:"final_third_x"`
	Progressive ProgressiveConfig `koanf:"progressive"`
	Grid        GridConfig        `koanf:"grid"`
	Analyze     AnalyzeConfig     `koanf:"analyze"`
}

// PitchConfig is the coordinate frame of the event data.
type PitchConfig struct {
	Length float64 `koanf:"length"`
	Width  float64 `koanf:"width"`
}

// ProgressiveZone requires MinAdvance towards goal for actions starting at
// x < UpToX. Zones are evaluated in order; the last one catches the rest.
type ProgressiveZone struct {
	UpToX      float64 `koanf:"up_to_x"`
	MinAdvance float64 `koanf:"min_advance"`
}

type ProgressiveConfig struct {
	Zones []ProgressiveZone `koanf:"zones"`
}

// GridConfig is the heat-zone resolution. It must be the same for every
// player being compared.
type GridConfig struct {
	Cols int `koanf:"cols"`
	Rows int `koanf:"rows"`
}

type AnalyzeConfig struct {
	Model string `koanf:"model"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		DBPath:           filepath.Join(userHome(), ".fbmetrics", "events.db"),
		LogLevel:         "info",
		CompetitionID:    defaultCompetitionID,
		SeasonID:         defaultSeasonID,
		Source:           defaultSource,
		FetchConcurrency: defaultFetchConcurrency,
		MinMinutes:       defaultMinMinutes,
		Pitch:            PitchConfig{Length: defaultPitchLength, Width: defaultPitchWidth},
		FinalThirdX:      defaultFinalThirdX,
		Progressive: ProgressiveConfig{Zones: []ProgressiveZone{
			{UpToX: 40, MinAdvance: 30},
			{UpToX: 80, MinAdvance: 15},
			{UpToX: 120, MinAdvance: 10},
		}},
		Grid:    GridConfig{Cols: defaultGridCols, Rows: defaultGridRows},
		Analyze: AnalyzeConfig{Model: defaultAnalyzeModel},
	}
}

// GridSpec returns the heat-zone partition for the configured pitch.
func (c *Config) GridSpec() model.GridSpec {
	return model.GridSpec{
		Cols:        c.Grid.Cols,
		Rows:        c.Grid.Rows,
		PitchLength: c.Pitch.Length,
		PitchWidth:  c.Pitch.Width,
	}
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
