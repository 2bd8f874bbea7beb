package scoring

type TiebreakMode string

const (
	TiebreakNone  TiebreakMode = ""
	TiebreakSet   TiebreakMode = "set"
	TiebreakMatch TiebreakMode = "match"
)

// Score is every mutable field of a tennis match. It doubles as the undo snapshot.
type Score struct {
	Sets               []Pair       `json:"sets"`
	CurrentSetGames    Pair         `json:"current_set_games"`
	CurrentGamePoints  Pair         `json:"current_game_points"`
	ServingParticipant Side         `json:"serving_participant"`
	FirstServerOfSet   Side         `json:"first_server_of_set"`
	IsTiebreak         bool         `json:"is_tiebreak"`
	TiebreakPoints     Pair         `json:"tiebreak_points"`
	TiebreakTarget     int          `json:"tiebreak_target"`
	TiebreakMode       TiebreakMode `json:"tiebreak_mode"`
	IsMatchComplete    bool         `json:"is_match_complete"`
	Winner             Side         `json:"winner,omitempty"`

	// Stat counters, not used for scoring decisions.
	Aces         Pair `json:"aces"`
	DoubleFaults Pair `json:"double_faults"`
	FaultPending bool `json:"fault_pending"`
}

func (s Score) clone() Score {
	s.Sets = cloneSets(s.Sets)
	return s
}

func (s Score) hasProgress() bool {
	return len(s.Sets) > 0 ||
		!s.CurrentSetGames.Zero() ||
		!s.CurrentGamePoints.Zero() ||
		!s.TiebreakPoints.Zero() ||
		s.IsMatchComplete
}

// MatchState is the persisted tennis state of one match.
type MatchState struct {
	Config
	Score
	History []Score `json:"history"`
}

func (s MatchState) clone() MatchState {
	s.Score = s.Score.clone()
	history := make([]Score, len(s.History))
	for i, h := range s.History {
		history[i] = h.clone()
	}
	s.History = history
	return s
}

func (s MatchState) Summary() Summary {
	return Summary{
		Sets:     cloneSets(s.Sets),
		SetsWon:  SetsWon(s.Sets),
		Complete: s.IsMatchComplete,
		Winner:   s.Winner,
	}
}

// isDecidingSet reports whether both sides are one set away from the match.
func (s *Score) isDecidingSet(setsToWin int) bool {
	won := SetsWon(s.Sets)
	return won[0] == setsToWin-1 && won[1] == setsToWin-1
}

func (s *Score) startTiebreak(mode TiebreakMode, target int) {
	s.IsTiebreak = true
	s.TiebreakMode = mode
	s.TiebreakTarget = target
	s.TiebreakPoints = Pair{}
	s.ServingParticipant = TiebreakServer(s.FirstServerOfSet, 0)
}

func (s *Score) clearTiebreak() {
	s.IsTiebreak = false
	s.TiebreakMode = TiebreakNone
	s.TiebreakTarget = 0
	s.TiebreakPoints = Pair{}
}
