package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/aggregator"
	"github.com/pable/go-football-metrics/internal/extract"
	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/report"
)

const analyzeSystemPrompt = `You are a football performance analyst. You are given structured data
computed from event data of one tournament and a question from a coach or scout.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and concrete. Compare against the percentile when one is given.
- Avoid generic football advice unless it directly explains a pattern in the data.

Metrics glossary:
- p90: per 90 minutes played.
- Percentile: share of same-role tournament players (above the minutes floor)
  the player matches or beats. 100 is the best in the population.
- Progressive pass/carry: moves the ball towards the opponent's goal centre by
  at least 30 yards from the defensive third, 15 from the middle third or
  10 from the attacking third (StatsBomb 120x80 pitch).
- Final-third entry: completed pass or carry from before x=80 to beyond it.
- xG: expected goals of a shot. xG/shot measures chance quality.
- Key pass: a pass directly followed by a shot.
- Metrics marked lower_is_better rank higher when the value is smaller.
- A metric with an error could not be ranked; do not guess its value.`

var (
	analyzeModel   string
	analyzeAPIKey  string
	analyzeMatches []int64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
}

var analyzePlayerCmd = &cobra.Command{
	Use:   "player <player> <question>",
	Short: "Analyze a player's report card with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzePlayer,
}

var analyzeTeamCmd = &cobra.Command{
	Use:   "team <team> <question>",
	Short: "Analyze a team's totals and passing network with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzeTeam,
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeModel, "model", "", "Anthropic model to use (default from config)")
	analyzeCmd.PersistentFlags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeCmd.PersistentFlags().Int64SliceVar(&analyzeMatches, "match", nil, "restrict to these match ids (repeatable)")

	analyzeCmd.AddCommand(analyzePlayerCmd)
	analyzeCmd.AddCommand(analyzeTeamCmd)
}

func runAnalyzePlayer(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := loadDataset(db, analyzeMatches)
	if err != nil {
		return err
	}
	playerID, _, err := resolvePlayer(ds.TournamentEvents, args[0])
	if err != nil {
		return err
	}

	card, cardErr := newAssembler().Assemble(ds, playerID, model.RoleUnknown)
	if cardErr != nil && len(card.Entries) == 0 {
		return cardErr
	}

	doc := map[string]interface{}{
		"subject":     "player",
		"competition": competitionLabel(ds),
		"matches":     analyzeMatches,
		"min_minutes": cfg.MinMinutes,
		"card":        report.NewCardView(card),
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModelID(), string(b), args[1])
}

func runAnalyzeTeam(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := loadDataset(db, analyzeMatches)
	if err != nil {
		return err
	}
	teamID, teamName, err := db.FindTeam(cfg.CompetitionID, cfg.SeasonID, args[0])
	if err != nil {
		return err
	}

	res := newExtractor().Extract(ds.Events, extract.Scope{TeamID: teamID})
	totals := aggregator.TeamTotals(res.Facts, selectedMatches(ds, analyzeMatches))[teamID]
	if totals == nil {
		return fmt.Errorf("team %q: %w", args[0], model.ErrUnknownEntity)
	}
	net := report.NewNetworkView(aggregator.PassNetwork(res.Facts, teamID))
	names := playerNames(ds.TournamentEvents)
	for i := range net.Nodes {
		if net.Nodes[i].Player == "" {
			net.Nodes[i].Player = names[net.Nodes[i].PlayerID]
		}
		net.Nodes[i].AvgX = round2(net.Nodes[i].AvgX)
		net.Nodes[i].AvgY = round2(net.Nodes[i].AvgY)
	}

	doc := map[string]interface{}{
		"subject":     "team",
		"team":        teamName,
		"competition": competitionLabel(ds),
		"totals":      teamSummary(totals),
		"network":     net,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModelID(), string(b), args[1])
}

func analyzeModelID() string {
	if analyzeModel != "" {
		return analyzeModel
	}
	return cfg.Analyze.Model
}

func competitionLabel(ds *model.Dataset) string {
	if len(ds.Competitions) == 0 {
		return ""
	}
	c := ds.Competitions[0]
	return c.Name + " " + c.SeasonName
}

// teamSummary flattens team totals into rounded per-90 figures.
func teamSummary(t *model.Totals) map[string]interface{} {
	p90 := func(n int) interface{} {
		v, ok := t.Per90(float64(n))
		if !ok {
			return nil
		}
		return round2(v)
	}
	opt := func(v float64, ok bool) interface{} {
		if !ok {
			return nil
		}
		return round2(v)
	}
	return map[string]interface{}{
		"matches":                 t.Matches,
		"minutes":                 t.Minutes,
		"goals":                   t.Goals,
		"xg":                      round2(t.XG),
		"xg_per_shot":             opt(t.XGPerShot()),
		"shots_p90":               p90(t.Shots),
		"pass_completion_pct":     opt(t.PassCompletionPct()),
		"progressive_passes_p90":  p90(t.ProgressivePasses),
		"progressive_carries_p90": p90(t.ProgressiveCarries),
		"final_third_entries_p90": p90(t.FinalThirdEntries),
		"touches_in_box_p90":      p90(t.TouchesInBox),
		"pressures_p90":           p90(t.Pressures),
		"tackles_p90":             p90(t.Tackles),
		"interceptions_p90":       p90(t.Interceptions),
		"recoveries_p90":          p90(t.Recoveries),
	}
}

// round2 rounds a float64 to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)
	log.Debug().Str("model", modelID).Int("context_bytes", len(dataJSON)).Msg("calling anthropic")

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
