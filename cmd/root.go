package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/config"
	"github.com/pable/go-football-metrics/internal/logger"
	"github.com/pable/go-football-metrics/internal/report"
)

var (
	configPath    string
	dbPath        string
	logLevel      string
	outputFormat  string
	competitionID int64
	seasonID      int64

	// cfg and log are set by the root PersistentPreRunE before any command runs.
	cfg    *config.Config
	log    zerolog.Logger
	format report.Format
)

var rootCmd = &cobra.Command{
	Use:   "fbmetrics",
	Short: "Football event metrics tool",
	Long: `Load StatsBomb open-data event files for a tournament and compute player
and team metrics: progressive actions, heat zones, passing networks and
role-based percentile report cards.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to YAML config (falls back to $FBM_CONFIG)")
	pf.StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.fbmetrics/events.db)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVarP(&outputFormat, "format", "o", "table", "output format: table, json or yaml")
	pf.Int64Var(&competitionID, "competition", 0, "competition id (default from config)")
	pf.Int64Var(&seasonID, "season", 0, "season id (default from config)")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(cardCmd)
	rootCmd.AddCommand(progressionsCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(touchesCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// setup loads .env, the config file and the environment, then applies flag
// overrides on top.
func setup(cmd *cobra.Command, args []string) error {
	// A missing .env is normal.
	_ = godotenv.Load()

	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if competitionID != 0 {
		c.CompetitionID = competitionID
	}
	if seasonID != 0 {
		c.SeasonID = seasonID
	}

	format, err = report.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	cfg = c
	log = logger.New(c.LogLevel)
	log.Debug().
		Str("db", cfg.DBPath).
		Int64("competition_id", cfg.CompetitionID).
		Int64("season_id", cfg.SeasonID).
		Msg("configuration loaded")
	return nil
}
