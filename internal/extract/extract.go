// Package extract turns raw events into per-action facts: progressive and
// final-third flags, touches, key passes, shot outcomes and xG.
package extract

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pable/go-football-metrics/internal/model"
)

// Penalty box of a 120x80 pitch, measured from the attacking goal line.
const (
	boxDepth = 18
	boxWidth = 44

	shootoutPeriod = 5
)

// Scope filters the events an extraction considers. Zero values do not filter.
type Scope struct {
	PlayerID int64
	TeamID   int64
	MatchIDs []int64
}

// Result is the output of one extraction. Skipped counts malformed rows that
// were dropped.
type Result struct {
	Facts   []model.Fact
	Skipped int
}

// Extractor classifies events. The zero value is not usable; call New.
type Extractor struct {
	rule        ProgressiveRule
	finalThirdX float64
	log         zerolog.Logger
}

type Option func(*Extractor)

func WithProgressiveRule(r ProgressiveRule) Option {
	return func(x *Extractor) { x.rule = r }
}

// WithFinalThirdX sets the x coordinate where the attacking third begins.
func WithFinalThirdX(v float64) Option {
	return func(x *Extractor) { x.finalThirdX = v }
}

func WithLogger(l zerolog.Logger) Option {
	return func(x *Extractor) { x.log = l }
}

// New returns an Extractor with the thirds-based progressive rule and the
// attacking third starting at x=80.
func New(opts ...Option) *Extractor {
	x := &Extractor{
		rule:        DefaultProgressiveRule(),
		finalThirdX: DefaultPitchLength * 2 / 3,
		log:         zerolog.Nop(),
	}
	for _, o := range opts {
		o(x)
	}
	return x
}

// Rule returns the progressive rule in use.
func (x *Extractor) Rule() ProgressiveRule { return x.rule }

// FinalThirdX returns the attacking-third boundary in use.
func (x *Extractor) FinalThirdX() float64 { return x.finalThirdX }

// Extract produces one fact per qualifying event in scope. Lineup,
// substitution and other non-ball events yield no fact. A malformed row is
// skipped and counted; it never aborts the extraction.
func (x *Extractor) Extract(events []model.Event, scope Scope) Result {
	var matches map[int64]bool
	if len(scope.MatchIDs) > 0 {
		matches = make(map[int64]bool, len(scope.MatchIDs))
		for _, id := range scope.MatchIDs {
			matches[id] = true
		}
	}

	var res Result
	for i := range events {
		e := &events[i]
		if e.Period == shootoutPeriod {
			continue
		}
		if matches != nil && !matches[e.MatchID] {
			continue
		}
		if scope.TeamID != 0 && e.TeamID != scope.TeamID {
			continue
		}
		if scope.PlayerID != 0 && e.PlayerID != scope.PlayerID {
			continue
		}

		f, ok, err := x.fact(e)
		if err != nil {
			res.Skipped++
			x.log.Debug().Err(err).
				Int64("match_id", e.MatchID).
				Str("event_id", e.ID.String()).
				Msg("skipping event")
			continue
		}
		if ok {
			res.Facts = append(res.Facts, f)
		}
	}
	return res
}

// fact classifies a single event. ok is false for events that are well formed
// but carry nothing the aggregator counts.
func (x *Extractor) fact(e *model.Event) (model.Fact, bool, error) {
	switch e.Type {
	case model.ActionLineup, model.ActionSubstitution, model.ActionOther:
		return model.Fact{}, false, nil
	case model.ActionUnknown:
		return model.Fact{}, false, fmt.Errorf("event type %q: %w", e.TypeName, model.ErrMalformedRow)
	}
	if e.PlayerID == 0 {
		return model.Fact{}, false, fmt.Errorf("%s without player: %w", e.Type, model.ErrMalformedRow)
	}

	f := model.Fact{
		EventID:     e.ID,
		MatchID:     e.MatchID,
		TeamID:      e.TeamID,
		PlayerID:    e.PlayerID,
		Player:      e.Player,
		Action:      e.Type,
		Start:       e.Location,
		End:         e.End,
		RecipientID: e.RecipientID,
		Defensive:   e.Defensive,
		Keeper:      e.Keeper,
	}

	switch e.Type {
	case model.ActionPass:
		f.Complete = e.Outcome == model.OutcomeComplete
		f.KeyPass = e.KeyPass
		f.Touch = true
		if f.Complete {
			x.classifyMovement(&f)
		}

	case model.ActionCarry:
		// Carries are always completed ball movements but are not touches.
		f.Complete = true
		x.classifyMovement(&f)

	case model.ActionShot:
		if !e.HasXG || e.XG < 0 || e.XG > 1 {
			return model.Fact{}, false, fmt.Errorf("shot xg %v: %w", e.XG, model.ErrMalformedRow)
		}
		f.XG = e.XG
		f.Goal = e.Outcome == model.OutcomeGoal
		f.OnTarget = f.Goal || e.Outcome == model.OutcomeSaved
		f.Touch = true

	case model.ActionDribble:
		f.Complete = e.Outcome == model.OutcomeComplete || e.Outcome == model.OutcomeSuccess
		f.Touch = true

	case model.ActionReceipt:
		f.Complete = e.Outcome != model.OutcomeIncomplete
		f.Touch = f.Complete

	case model.ActionDefensive:
		if e.Defensive == model.DefensiveNone {
			return model.Fact{}, false, fmt.Errorf("defensive action without kind: %w", model.ErrMalformedRow)
		}
		f.Complete = e.Outcome != model.OutcomeFailure && e.Outcome != model.OutcomeIncomplete
		f.Touch = e.Defensive != model.DefensivePressure

	case model.ActionGoalkeeper:
		f.Touch = handlesBall(e.Keeper)

	case model.ActionTouch:
		f.Touch = true
	}

	if f.Touch && f.Start != nil {
		f.InBox = x.inBox(*f.Start)
	}
	return f, true, nil
}

// classifyMovement sets the spatial flags of a completed pass or carry. Both
// ends must be located.
func (x *Extractor) classifyMovement(f *model.Fact) {
	if f.Start == nil || f.End == nil {
		return
	}
	s, e := *f.Start, *f.End
	f.Progressive = x.rule.IsProgressive(s.X, s.Y, e.X, e.Y)
	f.FinalThirdEntry = s.X < x.finalThirdX && e.X > x.finalThirdX
}

func (x *Extractor) inBox(p model.Point) bool {
	mid := x.rule.PitchWidth / 2
	return p.X >= x.rule.PitchLength-boxDepth &&
		p.Y >= mid-boxWidth/2 && p.Y <= mid+boxWidth/2
}

func handlesBall(k model.KeeperKind) bool {
	switch k {
	case model.KeeperShotSaved, model.KeeperPenaltySaved, model.KeeperCollected,
		model.KeeperPunch, model.KeeperSmother, model.KeeperSweeper:
		return true
	default:
		return false
	}
}
