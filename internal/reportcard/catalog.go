package reportcard

import (
	"slices"

	"github.com/pable/go-football-metrics/internal/model"
)

// Metric describes one rankable value. Value returns ok=false when the value
// cannot be computed from t, e.g. a rate with no minutes or a percentage with
// no attempts.
type Metric struct {
	Name           string
	Label          string
	HigherIsBetter bool
	Roles          []model.Role // empty means every role
	Value          func(t *model.Totals) (float64, bool)
}

// AppliesTo reports whether the metric is defined for role.
func (m Metric) AppliesTo(role model.Role) bool {
	return len(m.Roles) == 0 || slices.Contains(m.Roles, role)
}

// Catalog maps metric names to descriptors.
type Catalog map[string]Metric

// Templates lists, per role, the ordered metric names of its card.
type Templates map[model.Role][]string

var (
	keeperOnly = []model.Role{model.RoleGoalkeeper}
	outfield   = []model.Role{model.RoleDefender, model.RoleMidfielder, model.RoleForward}
)

func per90(count func(t *model.Totals) float64) func(t *model.Totals) (float64, bool) {
	return func(t *model.Totals) (float64, bool) { return t.Per90(count(t)) }
}

func total(v func(t *model.Totals) float64) func(t *model.Totals) (float64, bool) {
	return func(t *model.Totals) (float64, bool) { return v(t), true }
}

// DefaultCatalog returns every metric the engine can rank.
func DefaultCatalog() Catalog {
	metrics := []Metric{
		// Goalkeeping
		{Name: "saves_p90", Label: "Saves /90", HigherIsBetter: true, Roles: keeperOnly,
			Value: per90(func(t *model.Totals) float64 { return float64(t.Saves) })},
		{Name: "goals_conceded_p90", Label: "Goals conceded /90", HigherIsBetter: false, Roles: keeperOnly,
			Value: per90(func(t *model.Totals) float64 { return float64(t.GoalsConceded) })},
		{Name: "save_pct", Label: "Save %", HigherIsBetter: true, Roles: keeperOnly,
			Value: func(t *model.Totals) (float64, bool) { return t.SavePct() }},

		// Passing & progression
		{Name: "passes_p90", Label: "Passes /90", HigherIsBetter: true,
			Value: per90(func(t *model.Totals) float64 { return float64(t.Passes) })},
		{Name: "pass_completion_pct", Label: "Pass completion %", HigherIsBetter: true,
			Value: func(t *model.Totals) (float64, bool) { return t.PassCompletionPct() }},
		{Name: "progressive_passes_p90", Label: "Progressive passes /90", HigherIsBetter: true,
			Value: per90(func(t *model.Totals) float64 { return float64(t.ProgressivePasses) })},
		{Name: "progressive_carries_p90", Label: "Progressive carries /90", HigherIsBetter: true,
			Value: per90(func(t *model.Totals) float64 { return float64(t.ProgressiveCarries) })},
		{Name: "final_third_entries_p90", Label: "Final third entries /90", HigherIsBetter: true,
			Value: per90(func(t *model.Totals) float64 { return float64(t.FinalThirdEntries) })},
		{Name: "final_third_passes_p90", Label: "Passes into final third /90", HigherIsBetter: true,
			Value: per90(func(t *model.Totals) float64 { return float64(t.FinalThirdPasses) })},
		{Name: "key_passes_p90", Label: "Key passes /90", HigherIsBetter: true,
			Value: per90(func(t *model.Totals) float64 { return float64(t.KeyPasses) })},
		{Name: "touches_p90", Label: "Touches /90", HigherIsBetter: true,
			Value: per90(func(t *model.Totals) float64 { return float64(t.Touches) })},

		// Shooting
		{Name: "shots_p90", Label: "Shots /90", HigherIsBetter: true, Roles: outfield,
			Value: per90(func(t *model.Totals) float64 { return float64(t.Shots) })},
		{Name: "goals_p90", Label: "Goals /90", HigherIsBetter: true, Roles: outfield,
			Value: per90(func(t *model.Totals) float64 { return float64(t.Goals) })},
		{Name: "xg_p90", Label: "xG /90", HigherIsBetter: true, Roles: outfield,
			Value: per90(func(t *model.Totals) float64 { return t.XG })},
		{Name: "xg_total", Label: "xG total", HigherIsBetter: true, Roles: outfield,
			Value: total(func(t *model.Totals) float64 { return t.XG })},
		{Name: "xg_per_shot", Label: "xG per shot", HigherIsBetter: true, Roles: outfield,
			Value: func(t *model.Totals) (float64, bool) { return t.XGPerShot() }},
		{Name: "shots_on_target_pct", Label: "Shots on target %", HigherIsBetter: true, Roles: outfield,
			Value: func(t *model.Totals) (float64, bool) { return t.ShotsOnTargetPct() }},
		{Name: "touches_in_box_p90", Label: "Touches in box /90", HigherIsBetter: true, Roles: outfield,
			Value: per90(func(t *model.Totals) float64 { return float64(t.TouchesInBox) })},
		{Name: "dribbles_completed_p90", Label: "Dribbles completed /90", HigherIsBetter: true, Roles: outfield,
			Value: per90(func(t *model.Totals) float64 { return float64(t.DribblesCompleted) })},

		// Defending
		{Name: "tackles_p90", Label: "Tackles /90", HigherIsBetter: true,
			Value: per90(func(t *model.Totals) float64 { return float64(t.Tackles) })},
		{Name: "interceptions_p90", Label: "Interceptions /90", HigherIsBetter: true,
			Value: per90(func(t *model.Totals) float64 { return float64(t.Interceptions) })},
		{Name: "clearances_p90", Label: "Clearances /90", HigherIsBetter: true,
			Value: per90(func(t *model.Totals) float64 { return float64(t.Clearances) })},
		{Name: "blocks_p90", Label: "Blocks /90", HigherIsBetter: true,
			Value: per90(func(t *model.Totals) float64 { return float64(t.Blocks) })},
		{Name: "recoveries_p90", Label: "Ball recoveries /90", HigherIsBetter: true,
			Value: per90(func(t *model.Totals) float64 { return float64(t.Recoveries) })},
		{Name: "pressures_p90", Label: "Pressures /90", HigherIsBetter: true,
			Value: per90(func(t *model.Totals) float64 { return float64(t.Pressures) })},
	}

	c := make(Catalog, len(metrics))
	for _, m := range metrics {
		c[m.Name] = m
	}
	return c
}

// DefaultTemplates returns the fixed per-role card layouts.
func DefaultTemplates() Templates {
	return Templates{
		model.RoleGoalkeeper: {
			"saves_p90", "goals_conceded_p90", "save_pct",
			"pass_completion_pct", "passes_p90", "touches_p90",
		},
		model.RoleDefender: {
			"tackles_p90", "interceptions_p90", "clearances_p90", "blocks_p90",
			"recoveries_p90", "progressive_passes_p90", "pass_completion_pct",
		},
		model.RoleMidfielder: {
			"progressive_passes_p90", "progressive_carries_p90", "final_third_entries_p90",
			"key_passes_p90", "pass_completion_pct", "tackles_p90", "interceptions_p90",
			"pressures_p90",
		},
		model.RoleForward: {
			"shots_p90", "goals_p90", "xg_p90", "xg_total", "key_passes_p90",
			"touches_in_box_p90", "dribbles_completed_p90", "shots_on_target_pct",
		},
	}
}

// Values computes every computable catalog metric for t, keyed by name.
func Values(c Catalog, t *model.Totals) map[string]float64 {
	out := make(map[string]float64, len(c))
	for name, m := range c {
		if v, ok := m.Value(t); ok {
			out[name] = v
		}
	}
	return out
}
