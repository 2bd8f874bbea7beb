package scoring

import "fmt"

// Side identifies one of the two participants of a match.
type Side int

const (
	SideNone Side = 0
	Side1    Side = 1
	Side2    Side = 2
)

func (s Side) Valid() bool {
	return s == Side1 || s == Side2
}

// Other returns the opposing side. SideNone maps to itself.
func (s Side) Other() Side {
	switch s {
	case Side1:
		return Side2
	case Side2:
		return Side1
	default:
		return SideNone
	}
}

func (s Side) idx() int {
	return int(s) - 1
}

func (s Side) String() string {
	switch s {
	case Side1:
		return "1"
	case Side2:
		return "2"
	default:
		return "none"
	}
}

func validateSide(s Side) error {
	if !s.Valid() {
		return fmt.Errorf("%w: participant must be 1 or 2, got %d", ErrInvalidInput, int(s))
	}
	return nil
}

// Pair holds a counter for each side, index 0 = side 1.
type Pair [2]int

func (p Pair) Of(s Side) int {
	return p[s.idx()]
}

// Inc returns a copy with the counter of s incremented.
func (p Pair) Inc(s Side) Pair {
	p[s.idx()]++
	return p
}

func (p Pair) Zero() bool {
	return p[0] == 0 && p[1] == 0
}

func (p Pair) Total() int {
	return p[0] + p[1]
}

// Leader returns the side with the higher counter, or SideNone on a tie.
func (p Pair) Leader() Side {
	switch {
	case p[0] > p[1]:
		return Side1
	case p[1] > p[0]:
		return Side2
	default:
		return SideNone
	}
}

// Outcome tags the result of one scoring stage.
type Outcome int

const (
	Continue Outcome = iota
	GameOver
	SetOver
	StartTiebreak
	MatchOver
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case GameOver:
		return "game_over"
	case SetOver:
		return "set_over"
	case StartTiebreak:
		return "start_tiebreak"
	case MatchOver:
		return "match_over"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Sport selects the state machine used for a match.
type Sport string

const (
	SportTennis     Sport = "tennis"
	SportVolleyball Sport = "volleyball"
)
