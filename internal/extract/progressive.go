package extract

import "math"

// ProgressiveZone requires MinAdvance yards towards goal for actions starting
// at x < UpToX.
type ProgressiveZone struct {
	UpToX      float64
	MinAdvance float64
}

// ProgressiveRule decides whether a ball movement is progressive. Advance is
// measured as the reduction in distance to the centre of the opponent's goal.
// Zones are checked in order by start x; starts beyond the last zone use the
// last zone's threshold.
type ProgressiveRule struct {
	PitchLength float64
	PitchWidth  float64
	Zones       []ProgressiveZone
}

// Default pitch frame and zone thresholds (StatsBomb yards). The defensive
// third demands the longest advance, the attacking third the shortest.
const (
	DefaultPitchLength = 120
	DefaultPitchWidth  = 80

	defensiveThirdAdvance = 30
	middleThirdAdvance    = 15
	attackingThirdAdvance = 10
)

// DefaultProgressiveRule returns the thirds-based rule used when no
// configuration overrides it.
func DefaultProgressiveRule() ProgressiveRule {
	return ProgressiveRule{
		PitchLength: DefaultPitchLength,
		PitchWidth:  DefaultPitchWidth,
		Zones: []ProgressiveZone{
			{UpToX: DefaultPitchLength / 3, MinAdvance: defensiveThirdAdvance},
			{UpToX: DefaultPitchLength * 2 / 3, MinAdvance: middleThirdAdvance},
			{UpToX: DefaultPitchLength, MinAdvance: attackingThirdAdvance},
		},
	}
}

// Advance returns how much closer to the goal centre the ball ends up.
// Negative values mean the ball moved away from goal.
func (r ProgressiveRule) Advance(sx, sy, ex, ey float64) float64 {
	gx, gy := r.PitchLength, r.PitchWidth/2
	return math.Hypot(gx-sx, gy-sy) - math.Hypot(gx-ex, gy-ey)
}

// Threshold returns the advance required for a movement starting at sx.
func (r ProgressiveRule) Threshold(sx float64) float64 {
	if len(r.Zones) == 0 {
		return math.Inf(1)
	}
	for _, z := range r.Zones {
		if sx < z.UpToX {
			return z.MinAdvance
		}
	}
	return r.Zones[len(r.Zones)-1].MinAdvance
}

// IsProgressive reports whether a movement from (sx, sy) to (ex, ey) advances
// at least the zone threshold. It depends only on its arguments.
func (r ProgressiveRule) IsProgressive(sx, sy, ex, ey float64) bool {
	adv := r.Advance(sx, sy, ex, ey)
	return adv > 0 && adv >= r.Threshold(sx)
}
