package aggregator

import (
	"fmt"
	"sort"

	"github.com/pable/go-football-metrics/internal/model"
)

// ValueFunc returns what a fact contributes to a grid cell. ok=false leaves
// the fact out.
type ValueFunc func(f *model.Fact) (v float64, ok bool)

// TouchValue counts each touch once.
func TouchValue(f *model.Fact) (float64, bool) {
	if !f.Touch {
		return 0, false
	}
	return 1, true
}

// XGValue sums shot xG.
func XGValue(f *model.Fact) (float64, bool) {
	if f.Action != model.ActionShot {
		return 0, false
	}
	return f.XG, true
}

// Heatmap partitions the pitch into spec.Cols x spec.Rows cells and sums
// value over the start location of each fact. Every cell is present in the
// result; cells nobody touched hold zero. Unlocated facts are ignored.
func Heatmap(facts []model.Fact, spec model.GridSpec, value ValueFunc) (model.Grid, error) {
	if spec.Cols <= 0 || spec.Rows <= 0 || spec.PitchLength <= 0 || spec.PitchWidth <= 0 {
		return model.Grid{}, fmt.Errorf("invalid grid %dx%d over %gx%g", spec.Cols, spec.Rows, spec.PitchLength, spec.PitchWidth)
	}

	g := model.Grid{GridSpec: spec, Values: make([]float64, spec.Cols*spec.Rows)}
	cellL := spec.PitchLength / float64(spec.Cols)
	cellW := spec.PitchWidth / float64(spec.Rows)

	for _, f := range canonical(facts) {
		if f.Start == nil {
			continue
		}
		v, ok := value(&f)
		if !ok {
			continue
		}
		c := clamp(int(f.Start.X/cellL), spec.Cols)
		r := clamp(int(f.Start.Y/cellW), spec.Rows)
		g.Values[r*spec.Cols+c] += v
	}
	return g, nil
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// EntityCount is a per-player tally.
type EntityCount struct {
	PlayerID int64
	Player   string
	Count    int
}

// CountBy tallies facts matching keep per player, ascending by count.
func CountBy(facts []model.Fact, keep func(f *model.Fact) bool) []EntityCount {
	byPlayer := make(map[int64]*EntityCount)
	for i := range facts {
		f := &facts[i]
		if !keep(f) {
			continue
		}
		c, ok := byPlayer[f.PlayerID]
		if !ok {
			c = &EntityCount{PlayerID: f.PlayerID, Player: f.Player}
			byPlayer[f.PlayerID] = c
		}
		c.Count++
	}

	out := make([]EntityCount, 0, len(byPlayer))
	for _, c := range byPlayer {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count < out[j].Count
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
