package scoring

import "strconv"

var pointLabels = [...]string{"0", "15", "30", "40"}

// PointLabels renders regular game counters as scoreboard labels. At deuce both
// sides show 40; the side holding advantage shows AD.
func PointLabels(points Pair) [2]string {
	if points[0] >= 3 && points[1] >= 3 {
		switch points.Leader() {
		case Side1:
			return [2]string{"AD", "40"}
		case Side2:
			return [2]string{"40", "AD"}
		default:
			return [2]string{"40", "40"}
		}
	}
	return [2]string{pointLabel(points[0]), pointLabel(points[1])}
}

func pointLabel(p int) string {
	if p >= 0 && p < len(pointLabels) {
		return pointLabels[p]
	}
	return "AD"
}

type SetLine struct {
	Games     Pair `json:"games"`
	Completed bool `json:"completed"`
}

const (
	LiveStatusInProgress = "in_progress"
	LiveStatusCompleted  = "completed"
)

// LiveScore is the scoreboard view pushed to live clients.
type LiveScore struct {
	Sport              Sport     `json:"sport"`
	Sets               []SetLine `json:"sets"`
	SetsWon            Pair      `json:"sets_won"`
	Points             [2]string `json:"points"`
	ServingParticipant Side      `json:"serving_participant"`
	CurrentSet         int       `json:"current_set"`
	IsTiebreak         bool      `json:"is_tiebreak"`
	TiebreakScore      *Pair     `json:"tiebreak_score,omitempty"`
	Status             string    `json:"status"`
	Winner             Side      `json:"winner,omitempty"`
}

func setLines(sets []Pair, current Pair, complete bool) []SetLine {
	lines := make([]SetLine, 0, len(sets)+1)
	for _, s := range sets {
		lines = append(lines, SetLine{Games: s, Completed: true})
	}
	if !complete {
		lines = append(lines, SetLine{Games: current})
	}
	return lines
}

func liveStatus(complete bool) string {
	if complete {
		return LiveStatusCompleted
	}
	return LiveStatusInProgress
}

func (s MatchState) Live() LiveScore {
	live := LiveScore{
		Sport:              SportTennis,
		Sets:               setLines(s.Sets, s.CurrentSetGames, s.IsMatchComplete),
		SetsWon:            SetsWon(s.Sets),
		ServingParticipant: s.ServingParticipant,
		CurrentSet:         len(s.Sets) + 1,
		IsTiebreak:         s.IsTiebreak,
		Status:             liveStatus(s.IsMatchComplete),
		Winner:             s.Winner,
	}
	if s.IsMatchComplete {
		live.CurrentSet = len(s.Sets)
	}
	if s.IsTiebreak {
		tb := s.TiebreakPoints
		live.TiebreakScore = &tb
		live.Points = [2]string{strconv.Itoa(tb[0]), strconv.Itoa(tb[1])}
	} else {
		live.Points = PointLabels(s.CurrentGamePoints)
	}
	return live
}

func (s VolleyballState) Live() LiveScore {
	live := LiveScore{
		Sport:              SportVolleyball,
		Sets:               setLines(s.Sets, s.CurrentSetPoints, s.IsMatchComplete),
		SetsWon:            SetsWon(s.Sets),
		Points:             [2]string{strconv.Itoa(s.CurrentSetPoints[0]), strconv.Itoa(s.CurrentSetPoints[1])},
		ServingParticipant: s.ServingParticipant,
		CurrentSet:         len(s.Sets) + 1,
		Status:             liveStatus(s.IsMatchComplete),
		Winner:             s.Winner,
	}
	if s.IsMatchComplete {
		live.CurrentSet = len(s.Sets)
	}
	return live
}
