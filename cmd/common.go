package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pable/go-football-metrics/internal/extract"
	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/report"
	"github.com/pable/go-football-metrics/internal/reportcard"
	"github.com/pable/go-football-metrics/internal/storage"
)

func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func newExtractor() *extract.Extractor {
	rule := extract.ProgressiveRule{
		PitchLength: cfg.Pitch.Length,
		PitchWidth:  cfg.Pitch.Width,
	}
	for _, z := range cfg.Progressive.Zones {
		rule.Zones = append(rule.Zones, extract.ProgressiveZone{UpToX: z.UpToX, MinAdvance: z.MinAdvance})
	}
	return extract.New(
		extract.WithProgressiveRule(rule),
		extract.WithFinalThirdX(cfg.FinalThirdX),
		extract.WithLogger(log),
	)
}

func newAssembler() *reportcard.Assembler {
	return reportcard.New(
		reportcard.WithExtractor(newExtractor()),
		reportcard.WithMinMinutes(cfg.MinMinutes),
		reportcard.WithLogger(log),
	)
}

// loadDataset reads the configured season and narrows Events to matchIDs.
// An empty matchIDs keeps the whole season.
func loadDataset(db *storage.DB, matchIDs []int64) (*model.Dataset, error) {
	ds, err := db.LoadDataset(cfg.CompetitionID, cfg.SeasonID)
	if err != nil {
		if errors.Is(err, model.ErrUnknownEntity) {
			return nil, fmt.Errorf("%w (run 'fbmetrics load' first)", err)
		}
		return nil, err
	}
	if len(matchIDs) == 0 {
		return ds, nil
	}

	index := ds.MatchIndex()
	keep := make(map[int64]bool, len(matchIDs))
	for _, id := range matchIDs {
		if _, ok := index[id]; !ok {
			return nil, fmt.Errorf("match %d: %w", id, model.ErrUnknownEntity)
		}
		keep[id] = true
	}
	ds.Events = nil
	for _, e := range ds.TournamentEvents {
		if keep[e.MatchID] {
			ds.Events = append(ds.Events, e)
		}
	}
	log.Debug().Int("matches", len(keep)).Int("events", len(ds.Events)).Msg("narrowed selection")
	return ds, nil
}

// selectedMatches returns the matches named by matchIDs, or every match of
// the season when matchIDs is empty.
func selectedMatches(ds *model.Dataset, matchIDs []int64) map[int64]model.Match {
	all := ds.MatchIndex()
	if len(matchIDs) == 0 {
		return all
	}
	out := make(map[int64]model.Match, len(matchIDs))
	for _, id := range matchIDs {
		if m, ok := all[id]; ok {
			out[id] = m
		}
	}
	return out
}

// checkTeamMatches rejects match ids the team did not play in.
func checkTeamMatches(ds *model.Dataset, teamID int64, matchIDs []int64) error {
	index := ds.MatchIndex()
	for _, id := range matchIDs {
		m := index[id]
		if !m.Involves(teamID) {
			return fmt.Errorf("team %d did not play match %d: %w", teamID, id, model.ErrUnknownEntity)
		}
	}
	return nil
}

// playerNames maps player id to name over events and lineups.
func playerNames(events []model.Event) map[int64]string {
	out := make(map[int64]string)
	for i := range events {
		e := &events[i]
		if e.PlayerID != 0 && e.Player != "" {
			out[e.PlayerID] = e.Player
		}
		for _, s := range e.Lineup {
			out[s.PlayerID] = s.Player
		}
		if e.ReplacementID != 0 && e.Replacement != "" {
			out[e.ReplacementID] = e.Replacement
		}
	}
	return out
}

// resolvePlayer finds a player by id or by a case-insensitive name fragment.
// A fragment matching several players is an error listing them.
func resolvePlayer(events []model.Event, query string) (int64, string, error) {
	names := playerNames(events)
	if id, err := strconv.ParseInt(query, 10, 64); err == nil {
		if name, ok := names[id]; ok {
			return id, name, nil
		}
		return 0, "", fmt.Errorf("player %d: %w", id, model.ErrUnknownEntity)
	}

	q := strings.ToLower(query)
	var hits []int64
	for id, name := range names {
		n := strings.ToLower(name)
		if n == q {
			return id, name, nil
		}
		if strings.Contains(n, q) {
			hits = append(hits, id)
		}
	}
	switch len(hits) {
	case 0:
		return 0, "", fmt.Errorf("player %q: %w", query, model.ErrUnknownEntity)
	case 1:
		return hits[0], names[hits[0]], nil
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i] < hits[j] })
	opts := make([]string, 0, len(hits))
	for _, id := range hits {
		opts = append(opts, fmt.Sprintf("%s (%d)", names[id], id))
	}
	return 0, "", fmt.Errorf("player %q is ambiguous: %s", query, strings.Join(opts, ", "))
}

// emit writes v in the selected data format, or calls table for the default
// table output.
func emit(v any, table func()) error {
	if format == report.FormatTable {
		table()
		return nil
	}
	return report.Write(os.Stdout, format, v)
}
