package scoring

import "fmt"

// VolleyballScore is every mutable field of a rally-scored volleyball match.
type VolleyballScore struct {
	Sets               []Pair `json:"sets"`
	CurrentSetPoints   Pair   `json:"current_set_points"`
	ServingParticipant Side   `json:"serving_participant"`
	IsMatchComplete    bool   `json:"is_match_complete"`
	Winner             Side   `json:"winner,omitempty"`

	Aces          Pair `json:"aces"`
	ServiceErrors Pair `json:"service_errors"`
}

func (s VolleyballScore) clone() VolleyballScore {
	s.Sets = cloneSets(s.Sets)
	return s
}

func (s VolleyballScore) hasProgress() bool {
	return len(s.Sets) > 0 || !s.CurrentSetPoints.Zero() || s.IsMatchComplete
}

type VolleyballState struct {
	Config
	VolleyballScore
	History []VolleyballScore `json:"history"`
}

func (s VolleyballState) clone() VolleyballState {
	s.VolleyballScore = s.VolleyballScore.clone()
	history := make([]VolleyballScore, len(s.History))
	for i, h := range s.History {
		history[i] = h.clone()
	}
	s.History = history
	return s
}

func (s VolleyballState) Summary() Summary {
	return Summary{
		Sets:     cloneSets(s.Sets),
		SetsWon:  SetsWon(s.Sets),
		Complete: s.IsMatchComplete,
		Winner:   s.Winner,
	}
}

// SetTarget is the point target of the set in progress.
func (s VolleyballState) SetTarget() int {
	won := SetsWon(s.Sets)
	if won[0] == s.SetsToWin-1 && won[1] == s.SetsToWin-1 {
		return s.DecidingSetPointTarget
	}
	return s.SetPointTarget
}

func InitVolleyball(cfg Config, firstServer Side) (VolleyballState, error) {
	if err := cfg.validateVolleyball(); err != nil {
		return VolleyballState{}, err
	}
	if err := validateSide(firstServer); err != nil {
		return VolleyballState{}, err
	}
	return VolleyballState{
		Config: cfg,
		VolleyballScore: VolleyballScore{
			Sets:               []Pair{},
			ServingParticipant: firstServer,
		},
		History: []VolleyballScore{},
	}, nil
}

// ApplyVolleyball scores one rally. The rally winner takes the point and the serve;
// a set goes to the first side reaching the set target with a two point lead.
func ApplyVolleyball(s VolleyballState, ev Event) (VolleyballState, Result, error) {
	if err := ev.Validate(); err != nil {
		return s, Result{}, err
	}
	if ev.Type == EventSetServer {
		next, err := SetVolleyballServer(s, ev.Participant)
		return next, Result{Outcome: Continue, SetsWon: SetsWon(next.Sets)}, err
	}
	if s.IsMatchComplete {
		return s, Result{}, fmt.Errorf("%w: match is already complete", ErrInvalidState)
	}

	server := s.ServingParticipant
	switch ev.Type {
	case EventPoint:
		return rally(s, ev.Winner, nil)
	case EventAce:
		if !server.Valid() {
			return s, Result{}, fmt.Errorf("%w: serving participant is not set", ErrInvalidState)
		}
		return rally(s, server, func(sc *VolleyballScore) { sc.Aces = sc.Aces.Inc(server) })
	case EventFault:
		if !server.Valid() {
			return s, Result{}, fmt.Errorf("%w: serving participant is not set", ErrInvalidState)
		}
		return rally(s, server.Other(), func(sc *VolleyballScore) { sc.ServiceErrors = sc.ServiceErrors.Inc(server) })
	default:
		return s, Result{}, fmt.Errorf("%w: %q is not a volleyball event", ErrInvalidInput, ev.Type)
	}
}

func rally(s VolleyballState, winner Side, stat func(*VolleyballScore)) (VolleyballState, Result, error) {
	next := s.clone()
	next.History = PushHistory(next.History, next.VolleyballScore.clone())
	if stat != nil {
		stat(&next.VolleyballScore)
	}
	next.ServingParticipant = winner

	res := Result{Outcome: Continue}
	set := ProcessTiebreakPoint(next.CurrentSetPoints, winner, next.SetTarget())
	if set.Outcome == Continue {
		next.CurrentSetPoints = set.Points
	} else {
		match := ProcessMatchSet(next.Sets, winner, set.Points, next.SetsToWin)
		next.Sets = match.Sets
		next.CurrentSetPoints = Pair{}
		res.Outcome = SetOver
		if match.Outcome == MatchOver {
			next.IsMatchComplete = true
			next.Winner = match.Winner
			res.Outcome = MatchOver
			res.Completed = true
			res.Winner = match.Winner
		}
	}
	res.SetsWon = SetsWon(next.Sets)
	return next, res, nil
}

func UndoVolleyball(s VolleyballState) (VolleyballState, Result, error) {
	if len(s.History) == 0 {
		if !s.hasProgress() {
			return s, Result{Outcome: Continue}, nil
		}
		return s, Result{}, fmt.Errorf("%w: match has progress but no undo history", ErrInvalidState)
	}
	next := s.clone()
	snap, rest, _ := popHistory(next.History)
	wasComplete := next.IsMatchComplete
	next.VolleyballScore = snap.clone()
	next.History = rest

	res := Result{Outcome: Continue, SetsWon: SetsWon(next.Sets)}
	if wasComplete && !next.IsMatchComplete {
		res.Reopened = true
		res.Winner = s.Winner
	}
	return next, res, nil
}

func SetVolleyballServer(s VolleyballState, participant Side) (VolleyballState, error) {
	if err := validateSide(participant); err != nil {
		return s, err
	}
	if s.IsMatchComplete {
		return s, fmt.Errorf("%w: match is already complete", ErrInvalidState)
	}
	next := s.clone()
	next.ServingParticipant = participant
	return next, nil
}
