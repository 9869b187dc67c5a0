// Package reportcard fills a role's metric template for one player and ranks
// each value against the tournament population of that role.
package reportcard

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pable/go-football-metrics/internal/aggregator"
	"github.com/pable/go-football-metrics/internal/extract"
	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/percentile"
)

// DefaultMinMinutes keeps cameo appearances out of reference populations.
const DefaultMinMinutes = 90

type Assembler struct {
	catalog    Catalog
	templates  Templates
	minMinutes float64
	extractor  *extract.Extractor
	log        zerolog.Logger
}

type Option func(*Assembler)

func WithCatalog(c Catalog) Option {
	return func(a *Assembler) { a.catalog = c }
}

func WithTemplates(t Templates) Option {
	return func(a *Assembler) { a.templates = t }
}

// WithMinMinutes sets the tournament minutes a player needs to enter a
// reference population.
func WithMinMinutes(m float64) Option {
	return func(a *Assembler) { a.minMinutes = m }
}

func WithExtractor(x *extract.Extractor) Option {
	return func(a *Assembler) { a.extractor = x }
}

func WithLogger(l zerolog.Logger) Option {
	return func(a *Assembler) { a.log = l }
}

func New(opts ...Option) *Assembler {
	a := &Assembler{
		catalog:    DefaultCatalog(),
		templates:  DefaultTemplates(),
		minMinutes: DefaultMinMinutes,
		extractor:  extract.New(),
		log:        zerolog.Nop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *Assembler) Catalog() Catalog { return a.catalog }

// Profiles extracts and aggregates events into per-player profiles. The
// returned count is the number of malformed rows skipped.
func (a *Assembler) Profiles(events []model.Event, matches map[int64]model.Match) (map[int64]*model.PlayerProfile, int, error) {
	res := a.extractor.Extract(events, extract.Scope{})
	apps, err := aggregator.Appearances(events, matches)
	if err != nil {
		return nil, res.Skipped, fmt.Errorf("derive appearances: %w", err)
	}
	return aggregator.Profiles(res.Facts, apps, matches), res.Skipped, nil
}

// Assemble builds the card of role for playerID. Raw values come from
// ds.Events; reference populations come from ds.TournamentEvents, limited to
// players of role with at least the minimum minutes. The subject's own value
// always takes part in the ranking, so the role's only qualifying player
// ranks at 100 against itself.
//
// role may be model.RoleUnknown to use the player's tournament role. Lines
// that cannot be produced carry their error in CardEntry.Err and the returned
// error joins them all; a nil error means every line was ranked.
func (a *Assembler) Assemble(ds *model.Dataset, playerID int64, role model.Role) (model.ReportCard, error) {
	matches := ds.MatchIndex()

	tournament, skipped, err := a.Profiles(ds.TournamentEvents, matches)
	if err != nil {
		return model.ReportCard{}, fmt.Errorf("tournament profiles: %w", err)
	}
	selection, _, err := a.Profiles(ds.Events, matches)
	if err != nil {
		return model.ReportCard{}, fmt.Errorf("selection profiles: %w", err)
	}

	subject, ok := selection[playerID]
	if !ok {
		return model.ReportCard{}, fmt.Errorf("player %d: %w", playerID, model.ErrUnknownEntity)
	}
	// Role is fixed for the tournament, whatever the selected matches say.
	if tp, ok := tournament[playerID]; ok && tp.Role != model.RoleUnknown {
		subject.Role = tp.Role
	}
	if role == model.RoleUnknown {
		role = subject.Role
	}
	template, ok := a.templates[role]
	if !ok {
		return model.ReportCard{}, fmt.Errorf("player %d has no rankable role (%s): %w", playerID, role, model.ErrRoleMetricMismatch)
	}

	a.log.Debug().
		Int64("player_id", playerID).
		Str("role", role.String()).
		Int("tournament_players", len(tournament)).
		Int("skipped_rows", skipped).
		Msg("assembling report card")

	card := model.ReportCard{
		PlayerID: playerID,
		Player:   subject.Name,
		Team:     subject.Team,
		Role:     role,
		Minutes:  subject.Minutes,
		Entries:  make([]model.CardEntry, 0, len(template)),
	}

	var errs []error
	for _, name := range template {
		entry := a.entry(name, subject, role, tournament)
		if entry.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, entry.Err))
		}
		card.Entries = append(card.Entries, entry)
	}
	return card, errors.Join(errs...)
}

func (a *Assembler) entry(name string, subject *model.PlayerProfile, role model.Role, tournament map[int64]*model.PlayerProfile) model.CardEntry {
	m, ok := a.catalog[name]
	if !ok {
		return model.CardEntry{Metric: name, Label: name, Err: fmt.Errorf("metric not defined: %w", model.ErrRoleMetricMismatch)}
	}
	e := model.CardEntry{Metric: m.Name, Label: m.Label, HigherIsBetter: m.HigherIsBetter}

	if !m.AppliesTo(subject.Role) {
		e.Err = fmt.Errorf("not defined for a %s: %w", subject.Role, model.ErrRoleMetricMismatch)
		return e
	}
	raw, ok := m.Value(&subject.Totals)
	if !ok {
		e.Err = fmt.Errorf("not computable for %s: %w", subject.Name, model.ErrRoleMetricMismatch)
		return e
	}
	e.Raw = raw

	pop := a.population(m, subject.PlayerID, role, tournament)
	if len(pop) == 0 {
		if !a.qualifies(subject.PlayerID, role, tournament) {
			e.Err = fmt.Errorf("no %s with %.0f+ minutes: %w", role, a.minMinutes, model.ErrReferenceDataMissing)
			return e
		}
		a.log.Warn().
			Int64("player_id", subject.PlayerID).
			Str("metric", m.Name).
			Str("role", role.String()).
			Msg("only qualifying player of the role, ranked alone")
	}
	pop = append(pop, raw)

	pct, err := percentile.Rank(raw, pop, percentile.DirectionOf(m.HigherIsBetter))
	if err != nil {
		e.Err = err
		return e
	}
	e.Percentile = pct
	e.PopulationSize = len(pop)
	return e
}

// qualifies reports whether the player is itself part of the role's
// tournament population. A lone qualifier is ranked against itself.
func (a *Assembler) qualifies(playerID int64, role model.Role, tournament map[int64]*model.PlayerProfile) bool {
	p, ok := tournament[playerID]
	return ok && p.Role == role && p.Minutes >= a.minMinutes
}

// population collects m for every other tournament player of role who meets
// the minutes floor.
func (a *Assembler) population(m Metric, subjectID int64, role model.Role, tournament map[int64]*model.PlayerProfile) []float64 {
	var out []float64
	for id, p := range tournament {
		if id == subjectID || p.Role != role || p.Minutes < a.minMinutes {
			continue
		}
		if v, ok := m.Value(&p.Totals); ok {
			out = append(out, v)
		}
	}
	return out
}
