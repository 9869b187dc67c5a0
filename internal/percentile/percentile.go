// Package percentile ranks a value inside a reference population.
package percentile

import (
	"errors"
	"math"

	"github.com/pable/go-football-metrics/internal/model"
)

// Direction says which end of a metric is good.
type Direction int

const (
	HigherIsBetter Direction = iota
	LowerIsBetter
)

func (d Direction) String() string {
	if d == LowerIsBetter {
		return "lower-is-better"
	}
	return "higher-is-better"
}

// DirectionOf maps a metric's higher-is-better flag to a Direction.
func DirectionOf(higherIsBetter bool) Direction {
	if higherIsBetter {
		return HigherIsBetter
	}
	return LowerIsBetter
}

// Rank returns the inclusive percentile of v in population, in [0, 100]:
// the share of values <= v for HigherIsBetter, >= v for LowerIsBetter.
// Callers include the subject's own value in population, so the best value
// ranks 100 and the worst ranks 100/N, never 0.
//
// An empty population returns model.ErrReferenceDataMissing.
func Rank(v float64, population []float64, dir Direction) (float64, error) {
	if len(population) == 0 {
		return 0, model.ErrReferenceDataMissing
	}
	if math.IsNaN(v) {
		return 0, errors.New("rank NaN value")
	}

	n := 0
	for _, p := range population {
		if dir == LowerIsBetter {
			if p >= v {
				n++
			}
		} else if p <= v {
			n++
		}
	}
	return float64(n) / float64(len(population)) * 100, nil
}
