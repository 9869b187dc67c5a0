package statsbomb

import (
	"github.com/tidwall/gjson"

	"github.com/pable/go-football-metrics/internal/model"
)

// StatsBomb event type names.
const (
	typeStartingXI     = "Starting XI"
	typePass           = "Pass"
	typeShot           = "Shot"
	typeCarry          = "Carry"
	typeDribble        = "Dribble"
	typeBallReceipt    = "Ball Receipt*"
	typeDuel           = "Duel"
	typeInterception   = "Interception"
	typeClearance      = "Clearance"
	typeBlock          = "Block"
	typeBallRecovery   = "Ball Recovery"
	typePressure       = "Pressure"
	typeGoalKeeper     = "Goal Keeper"
	typeSubstitution   = "Substitution"
	typeFoulCommitted  = "Foul Committed"
	typeBadBehaviour   = "Bad Behaviour"
	typeMiscontrol     = "Miscontrol"
	typeDispossessed   = "Dispossessed"
	typeFiftyFifty     = "50/50"
	typeShield         = "Shield"
	typeDribbledPast   = "Dribbled Past"
	typeTacticalShift  = "Tactical Shift"
	typeHalfStart      = "Half Start"
	typeHalfEnd        = "Half End"
	typeInjuryStoppage = "Injury Stoppage"
	typeFoulWon        = "Foul Won"
	typeOffside        = "Offside"
	typeError          = "Error"
	typePlayerOn       = "Player On"
	typePlayerOff      = "Player Off"
	typeRefereeDrop    = "Referee Ball-Drop"
	typeOwnGoalFor     = "Own Goal For"
	typeOwnGoalAgainst = "Own Goal Against"
	typeCameraOn       = "Camera On"
	typeCameraOff      = "Camera off"
)

// decodeDetail fills the type-specific fields of e from its JSON row. Type
// names outside the StatsBomb vocabulary decode as model.ActionUnknown.
func decodeDetail(e *model.Event, r gjson.Result) {
	switch e.TypeName {
	case typeStartingXI:
		e.Type = model.ActionLineup
		for _, s := range r.Get("tactics.lineup").Array() {
			e.Lineup = append(e.Lineup, model.LineupSlot{
				PlayerID: s.Get("player.id").Int(),
				Player:   s.Get("player.name").String(),
				Position: s.Get("position.name").String(),
			})
		}

	case typePass:
		e.Type = model.ActionPass
		e.End = point(r.Get("pass.end_location"))
		e.RecipientID = r.Get("pass.recipient.id").Int()
		e.KeyPass = r.Get("pass.shot_assist").Bool() || r.Get("pass.goal_assist").Bool()
		// A pass without an outcome is a completed pass.
		if r.Get("pass.outcome.name").Exists() {
			e.Outcome = model.OutcomeIncomplete
		} else {
			e.Outcome = model.OutcomeComplete
		}

	case typeCarry:
		e.Type = model.ActionCarry
		e.End = point(r.Get("carry.end_location"))
		e.Outcome = model.OutcomeComplete

	case typeShot:
		e.Type = model.ActionShot
		e.End = point(r.Get("shot.end_location"))
		if xg := r.Get("shot.statsbomb_xg"); xg.Type == gjson.Number {
			e.XG, e.HasXG = xg.Float(), true
		}
		e.Outcome = shotOutcome(r.Get("shot.outcome.name").String())

	case typeDribble:
		e.Type = model.ActionDribble
		if r.Get("dribble.outcome.name").String() == "Complete" {
			e.Outcome = model.OutcomeComplete
		} else {
			e.Outcome = model.OutcomeIncomplete
		}

	case typeBallReceipt:
		e.Type = model.ActionReceipt
		if r.Get("ball_receipt.outcome.name").Exists() {
			e.Outcome = model.OutcomeIncomplete
		} else {
			e.Outcome = model.OutcomeComplete
		}

	case typeDuel:
		// Only tackles are counted; aerial and other duels are not ball actions
		// we rank.
		if r.Get("duel.type.name").String() != "Tackle" {
			e.Type = model.ActionOther
			return
		}
		e.Type = model.ActionDefensive
		e.Defensive = model.DefensiveTackle
		e.Outcome = wonOrLost(r.Get("duel.outcome.name").String())

	case typeInterception:
		e.Type = model.ActionDefensive
		e.Defensive = model.DefensiveInterception
		e.Outcome = wonOrLost(r.Get("interception.outcome.name").String())

	case typeClearance:
		e.Type = model.ActionDefensive
		e.Defensive = model.DefensiveClearance
		e.Outcome = model.OutcomeSuccess

	case typeBlock:
		e.Type = model.ActionDefensive
		e.Defensive = model.DefensiveBlock
		e.Outcome = model.OutcomeSuccess

	case typeBallRecovery:
		e.Type = model.ActionDefensive
		e.Defensive = model.DefensiveRecovery
		if r.Get("ball_recovery.recovery_failure").Bool() {
			e.Outcome = model.OutcomeFailure
		} else {
			e.Outcome = model.OutcomeSuccess
		}

	case typePressure:
		e.Type = model.ActionDefensive
		e.Defensive = model.DefensivePressure

	case typeGoalKeeper:
		e.Type = model.ActionGoalkeeper
		e.Keeper = keeperKind(r.Get("goalkeeper.type.name").String())
		e.End = point(r.Get("goalkeeper.end_location"))

	case typeSubstitution:
		e.Type = model.ActionSubstitution
		e.ReplacementID = r.Get("substitution.replacement.id").Int()
		e.Replacement = r.Get("substitution.replacement.name").String()

	case typeFoulCommitted:
		e.Type = model.ActionOther
		e.Card = card(r.Get("foul_committed.card.name").String())

	case typeBadBehaviour:
		e.Type = model.ActionOther
		e.Card = card(r.Get("bad_behaviour.card.name").String())

	case typeMiscontrol, typeDispossessed, typeFiftyFifty, typeShield:
		e.Type = model.ActionTouch

	case typeDribbledPast, typeTacticalShift, typeHalfStart, typeHalfEnd, typeInjuryStoppage,
		typeFoulWon, typeOffside, typeError, typePlayerOn, typePlayerOff, typeRefereeDrop,
		typeOwnGoalFor, typeOwnGoalAgainst, typeCameraOn, typeCameraOff:
		e.Type = model.ActionOther

	default:
		// Left unknown so extraction counts the row as malformed.
		e.Type = model.ActionUnknown
	}
}

func shotOutcome(name string) model.Outcome {
	switch name {
	case "Goal":
		return model.OutcomeGoal
	case "Saved", "Saved to Post":
		return model.OutcomeSaved
	case "Blocked":
		return model.OutcomeBlocked
	case "":
		return model.OutcomeNone
	default: // Off T, Post, Wayward, Saved Off T
		return model.OutcomeOffTarget
	}
}

func wonOrLost(name string) model.Outcome {
	switch name {
	case "Won", "Success", "Success In Play", "Success Out":
		return model.OutcomeSuccess
	case "":
		return model.OutcomeNone
	default:
		return model.OutcomeFailure
	}
}

func keeperKind(name string) model.KeeperKind {
	switch name {
	case "Shot Saved", "Save", "Shot Saved to Post", "Shot Saved Off Target":
		return model.KeeperShotSaved
	case "Goal Conceded":
		return model.KeeperGoalConceded
	case "Penalty Saved", "Penalty Saved to Post":
		return model.KeeperPenaltySaved
	case "Penalty Conceded":
		return model.KeeperPenaltyGoal
	case "Collected":
		return model.KeeperCollected
	case "Punch":
		return model.KeeperPunch
	case "Smother":
		return model.KeeperSmother
	case "Keeper Sweeper":
		return model.KeeperSweeper
	case "Shot Faced":
		return model.KeeperShotFaced
	default:
		return model.KeeperOther
	}
}

func card(name string) model.CardKind {
	switch name {
	case "Yellow Card":
		return model.CardYellow
	case "Second Yellow":
		return model.CardSecondYellow
	case "Red Card":
		return model.CardRed
	default:
		return model.CardNone
	}
}
