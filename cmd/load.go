package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/opendata"
)

var (
	loadSource    string
	loadForce     bool
	loadListComps bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Download a tournament's open-data files into the database",
	Long: `Fetch the competition, match and event files of one competition season
and store them. The source is the open-data base URL or a local checkout of
the data directory.

Matches already stored are skipped unless --force is given.

Examples:
  # UEFA Euro 2024 (the default)
  fbmetrics load

  # FIFA World Cup 2022 from a local checkout
  fbmetrics load --competition 43 --season 106 --source ~/open-data/data

  # See what is available
  fbmetrics load --list`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadSource, "source", "", "open-data base URL or local data directory (default from config)")
	loadCmd.Flags().BoolVarP(&loadForce, "force", "f", false, "re-store matches that are already loaded")
	loadCmd.Flags().BoolVar(&loadListComps, "list", false, "list available competitions and exit")
}

func runLoad(cmd *cobra.Command, args []string) error {
	source := cfg.Source
	if loadSource != "" {
		source = loadSource
	}
	client := opendata.NewClient(source,
		opendata.WithConcurrency(cfg.FetchConcurrency),
		opendata.WithLogger(log),
	)

	if loadListComps {
		return listCompetitions(cmd, client)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	start := time.Now()
	log.Info().
		Str("source", source).
		Int64("competition_id", cfg.CompetitionID).
		Int64("season_id", cfg.SeasonID).
		Msg("fetching season")

	season, err := client.FetchSeason(cmd.Context(), cfg.CompetitionID, cfg.SeasonID)
	if err != nil {
		return err
	}

	if err := db.InsertCompetition(season.Competition); err != nil {
		return fmt.Errorf("store competition: %w", err)
	}
	if err := db.InsertMatches(season.Matches); err != nil {
		return fmt.Errorf("store matches: %w", err)
	}

	stored, kept, events := 0, 0, 0
	for _, m := range season.Matches {
		if !loadForce {
			loaded, err := db.MatchLoaded(m.ID)
			if err != nil {
				return fmt.Errorf("check match %d: %w", m.ID, err)
			}
			if loaded {
				kept++
				continue
			}
		}
		evs := season.Events[m.ID]
		if err := db.ReplaceEvents(m.ID, evs); err != nil {
			return fmt.Errorf("store events of match %d: %w", m.ID, err)
		}
		stored++
		events += len(evs)
	}

	log.Info().
		Int("matches", len(season.Matches)).
		Int("stored", stored).
		Int("already_loaded", kept).
		Int("events", events).
		Int("skipped_rows", season.Skipped).
		Dur("took", time.Since(start)).
		Msg("season loaded")

	fmt.Fprintf(os.Stdout, "%s %s: %d matches (%d stored, %d already loaded), %d events, %d malformed rows skipped\n",
		season.Competition.Name, season.Competition.SeasonName,
		len(season.Matches), stored, kept, events, season.Skipped)
	return nil
}

func listCompetitions(cmd *cobra.Command, client *opendata.Client) error {
	comps, err := client.Competitions(cmd.Context())
	if err != nil {
		return err
	}
	sort.Slice(comps, func(i, j int) bool {
		if comps[i].ID != comps[j].ID {
			return comps[i].ID < comps[j].ID
		}
		return comps[i].SeasonID < comps[j].SeasonID
	})

	return emit(comps, func() {
		table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
		}))
		table.Header("COMPETITION", "SEASON", "NAME", "SEASON NAME", "COUNTRY")
		for _, c := range comps {
			table.Append(
				strconv.FormatInt(c.ID, 10),
				strconv.FormatInt(c.SeasonID, 10),
				c.Name,
				c.SeasonName,
				c.Country,
			)
		}
		table.Render()
	})
}
