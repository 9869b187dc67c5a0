// Package opendata reads the StatsBomb open-data tree from an HTTP mirror or
// a local checkout and decodes it into model types.
package opendata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/statsbomb"
)

// DefaultBaseURL is the raw GitHub root of the open-data repository.
const DefaultBaseURL = "https://raw.githubusercontent.com/statsbomb/open-data/master/data"

const defaultConcurrency = 4

// Client fetches open-data files. Source is either an http(s) base URL or a
// directory laid out like the repository's data/ folder.
type Client struct {
	source      string
	http        *http.Client
	concurrency int
	log         zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithConcurrency bounds parallel event-file fetches.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.log = l } }

// NewClient returns a client reading from source.
func NewClient(source string, opts ...Option) *Client {
	if source == "" {
		source = DefaultBaseURL
	}
	c := &Client{
		source:      strings.TrimRight(source, "/"),
		http:        &http.Client{Timeout: 60 * time.Second},
		concurrency: defaultConcurrency,
		log:         zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) remote() bool {
	return strings.HasPrefix(c.source, "http://") || strings.HasPrefix(c.source, "https://")
}

// get reads one file relative to the source root.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if !c.remote() {
		data, err := os.ReadFile(filepath.Join(c.source, filepath.FromSlash(path)))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.source+"/"+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Competitions returns every competition season in the tree.
func (c *Client) Competitions(ctx context.Context) ([]model.Competition, error) {
	data, err := c.get(ctx, "competitions.json")
	if err != nil {
		return nil, err
	}
	res, err := statsbomb.ParseCompetitions(data)
	if err != nil {
		return nil, err
	}
	if res.Skipped > 0 {
		c.log.Warn().Int("skipped", res.Skipped).Msg("skipped malformed competition rows")
	}
	return res.Rows, nil
}

// Matches returns the matches of one competition season.
func (c *Client) Matches(ctx context.Context, competitionID, seasonID int64) ([]model.Match, error) {
	data, err := c.get(ctx, fmt.Sprintf("matches/%d/%d.json", competitionID, seasonID))
	if err != nil {
		return nil, err
	}
	res, err := statsbomb.ParseMatches(data)
	if err != nil {
		return nil, err
	}
	if res.Skipped > 0 {
		c.log.Warn().Int("skipped", res.Skipped).Msg("skipped malformed match rows")
	}
	return res.Rows, nil
}

// Events returns the events of one match and the count of skipped rows.
func (c *Client) Events(ctx context.Context, matchID int64) ([]model.Event, int, error) {
	data, err := c.get(ctx, fmt.Sprintf("events/%d.json", matchID))
	if err != nil {
		return nil, 0, err
	}
	res, err := statsbomb.ParseEvents(matchID, data)
	if err != nil {
		return nil, 0, err
	}
	return res.Rows, res.Skipped, nil
}

// Season is everything loaded for one competition season. Match durations
// are filled in from their events.
type Season struct {
	Competition model.Competition
	Matches     []model.Match
	Events      map[int64][]model.Event
	Skipped     int
}

// FetchSeason loads a competition season: its competition row, its matches
// and every match's events. Event files are fetched in parallel, bounded by
// the client's concurrency. The first failure cancels the rest.
func (c *Client) FetchSeason(ctx context.Context, competitionID, seasonID int64) (*Season, error) {
	comps, err := c.Competitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch competitions: %w", err)
	}
	s := &Season{Events: make(map[int64][]model.Event)}
	found := false
	for _, comp := range comps {
		if comp.ID == competitionID && comp.SeasonID == seasonID {
			s.Competition, found = comp, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("competition %d season %d: %w", competitionID, seasonID, model.ErrUnknownEntity)
	}

	s.Matches, err = c.Matches(ctx, competitionID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("fetch matches: %w", err)
	}

	type slot struct {
		events  []model.Event
		skipped int
	}
	slots := make([]slot, len(s.Matches))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i := range s.Matches {
		id := s.Matches[i].ID
		g.Go(func() error {
			evs, skipped, err := c.Events(gCtx, id)
			if err != nil {
				return fmt.Errorf("fetch events of match %d: %w", id, err)
			}
			slots[i] = slot{events: evs, skipped: skipped}
			c.log.Debug().Int64("match_id", id).Int("events", len(evs)).Msg("fetched events")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range s.Matches {
		m := &s.Matches[i]
		m.Duration = statsbomb.Duration(slots[i].events)
		s.Events[m.ID] = slots[i].events
		s.Skipped += slots[i].skipped
	}
	return s, nil
}
