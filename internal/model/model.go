package model

import "github.com/google/uuid"

// ActionType classifies an on-pitch event.
type ActionType int

const (
	ActionUnknown      ActionType = 0
	ActionPass         ActionType = 1
	ActionShot         ActionType = 2
	ActionCarry        ActionType = 3
	ActionDribble      ActionType = 4
	ActionReceipt      ActionType = 5
	ActionDefensive    ActionType = 6
	ActionGoalkeeper   ActionType = 7
	ActionTouch        ActionType = 8 // miscontrol, dispossessed, 50/50, shield
	ActionLineup       ActionType = 9
	ActionSubstitution ActionType = 10
	ActionOther        ActionType = 11
)

func (a ActionType) String() string {
	switch a {
	case ActionPass:
		return "pass"
	case ActionShot:
		return "shot"
	case ActionCarry:
		return "carry"
	case ActionDribble:
		return "dribble"
	case ActionReceipt:
		return "receipt"
	case ActionDefensive:
		return "defensive"
	case ActionGoalkeeper:
		return "goalkeeper"
	case ActionTouch:
		return "touch"
	case ActionLineup:
		return "lineup"
	case ActionSubstitution:
		return "substitution"
	case ActionOther:
		return "other"
	default:
		return "?"
	}
}

// Outcome is the action-type-dependent result of an event.
type Outcome int

const (
	OutcomeNone       Outcome = 0
	OutcomeComplete   Outcome = 1
	OutcomeIncomplete Outcome = 2
	OutcomeGoal       Outcome = 3
	OutcomeSaved      Outcome = 4
	OutcomeBlocked    Outcome = 5
	OutcomeOffTarget  Outcome = 6
	OutcomeSuccess    Outcome = 7
	OutcomeFailure    Outcome = 8
)

func (o Outcome) String() string {
	switch o {
	case OutcomeComplete:
		return "complete"
	case OutcomeIncomplete:
		return "incomplete"
	case OutcomeGoal:
		return "goal"
	case OutcomeSaved:
		return "saved"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeOffTarget:
		return "off-target"
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return ""
	}
}

// DefensiveKind refines ActionDefensive.
type DefensiveKind int

const (
	DefensiveNone         DefensiveKind = 0
	DefensiveTackle       DefensiveKind = 1
	DefensiveInterception DefensiveKind = 2
	DefensiveClearance    DefensiveKind = 3
	DefensiveBlock        DefensiveKind = 4
	DefensiveRecovery     DefensiveKind = 5
	DefensivePressure     DefensiveKind = 6
)

// KeeperKind refines ActionGoalkeeper.
type KeeperKind int

const (
	KeeperNone         KeeperKind = 0
	KeeperShotSaved    KeeperKind = 1
	KeeperGoalConceded KeeperKind = 2
	KeeperPenaltySaved KeeperKind = 3
	KeeperPenaltyGoal  KeeperKind = 4
	KeeperCollected    KeeperKind = 5
	KeeperPunch        KeeperKind = 6
	KeeperSmother      KeeperKind = 7
	KeeperSweeper      KeeperKind = 8
	KeeperShotFaced    KeeperKind = 9
	KeeperOther        KeeperKind = 10
)

// IsSave reports whether the keeper action stopped a shot on target.
func (k KeeperKind) IsSave() bool {
	return k == KeeperShotSaved || k == KeeperPenaltySaved
}

// IsConceded reports whether the keeper action records a goal against.
func (k KeeperKind) IsConceded() bool {
	return k == KeeperGoalConceded || k == KeeperPenaltyGoal
}

// CardKind is a disciplinary card attached to a foul or bad-behaviour event.
type CardKind int

const (
	CardNone         CardKind = 0
	CardYellow       CardKind = 1
	CardSecondYellow CardKind = 2
	CardRed          CardKind = 3
)

// SendsOff reports whether the card ends the player's appearance.
func (c CardKind) SendsOff() bool {
	return c == CardSecondYellow || c == CardRed
}

// Point is a pitch location in the 120x80 StatsBomb frame.
type Point struct{ X, Y float64 }

// ---- Input relations ----

type Competition struct {
	ID         int64
	SeasonID   int64
	Name       string
	SeasonName string
	Country    string
}

type Match struct {
	ID            int64
	CompetitionID int64
	SeasonID      int64
	Date          string // "YYYY-MM-DD"
	HomeTeamID    int64
	HomeTeam      string
	AwayTeamID    int64
	AwayTeam      string
	HomeScore     int
	AwayScore     int
	Duration      float64 // minutes of play, stoppage included, shootout excluded
}

// Involves reports whether the team played in the match.
func (m *Match) Involves(teamID int64) bool {
	return m.HomeTeamID == teamID || m.AwayTeamID == teamID
}

// LineupSlot is one starter listed by a Starting XI event.
type LineupSlot struct {
	PlayerID int64
	Player   string
	Position string
}

// Event is one on-pitch action. Location and End are nil when the source row
// carried no coordinates.
type Event struct {
	ID       uuid.UUID
	Index    int
	MatchID  int64
	Period   int
	Minute   int
	Second   int
	TeamID   int64
	Team     string
	PlayerID int64
	Player   string
	Position string

	Type     ActionType
	TypeName string
	Outcome  Outcome

	Location *Point
	End      *Point

	XG          float64
	HasXG       bool
	RecipientID int64
	KeyPass     bool

	Defensive DefensiveKind
	Keeper    KeeperKind
	Card      CardKind

	ReplacementID int64
	Replacement   string

	Lineup []LineupSlot
}

// Clock returns the event time in match minutes.
func (e *Event) Clock() float64 {
	return float64(e.Minute) + float64(e.Second)/60
}

// Dataset bundles the four input relations. Events is the selection the caller
// asked about; TournamentEvents is every event of the competition season and is
// the source of reference populations.
type Dataset struct {
	Competitions     []Competition
	Matches          []Match
	Events           []Event
	TournamentEvents []Event
}

// MatchIndex returns matches keyed by id.
func (d *Dataset) MatchIndex() map[int64]Match {
	out := make(map[int64]Match, len(d.Matches))
	for _, m := range d.Matches {
		out[m.ID] = m
	}
	return out
}

// MatchSummary is a lightweight record for the list command.
type MatchSummary struct {
	Match
	Competition string
	Season      string
	EventCount  int
}
