package scoring

import "fmt"

// Init creates the state of a match that is about to start.
func Init(cfg Config, firstServer Side) (MatchState, error) {
	if err := cfg.Validate(); err != nil {
		return MatchState{}, err
	}
	if err := validateSide(firstServer); err != nil {
		return MatchState{}, err
	}
	return MatchState{
		Config: cfg,
		Score: Score{
			Sets:               []Pair{},
			ServingParticipant: firstServer,
			FirstServerOfSet:   firstServer,
		},
		History: []Score{},
	}, nil
}

// Apply runs one event through the state machine and returns the new state.
// The input state is never modified; a rejected event returns it unchanged.
func Apply(s MatchState, ev Event) (MatchState, Result, error) {
	if err := ev.Validate(); err != nil {
		return s, Result{}, err
	}
	if ev.Type == EventSetServer {
		next, err := SetServer(s, ev.Participant)
		return next, Result{Outcome: Continue, SetsWon: SetsWon(next.Sets)}, err
	}
	if s.IsMatchComplete {
		return s, Result{}, fmt.Errorf("%w: match is already complete", ErrInvalidState)
	}

	server := s.ServingParticipant
	switch ev.Type {
	case EventPoint:
		return scorePoint(s, ev.Winner, nil)
	case EventAce:
		if !server.Valid() {
			return s, Result{}, fmt.Errorf("%w: serving participant is not set", ErrInvalidState)
		}
		return scorePoint(s, server, func(sc *Score) { sc.Aces = sc.Aces.Inc(server) })
	case EventFault:
		if s.FaultPending {
			return doubleFault(s)
		}
		next := s.clone()
		next.FaultPending = true
		return next, Result{Outcome: Continue, SetsWon: SetsWon(next.Sets)}, nil
	case EventDoubleFault:
		return doubleFault(s)
	}
	return s, Result{}, fmt.Errorf("%w: unsupported event %q", ErrInvalidInput, ev.Type)
}

func doubleFault(s MatchState) (MatchState, Result, error) {
	server := s.ServingParticipant
	if !server.Valid() {
		return s, Result{}, fmt.Errorf("%w: serving participant is not set", ErrInvalidState)
	}
	return scorePoint(s, server.Other(), func(sc *Score) { sc.DoubleFaults = sc.DoubleFaults.Inc(server) })
}

// scorePoint is the single cascade every point-scoring event goes through.
func scorePoint(s MatchState, winner Side, stat func(*Score)) (MatchState, Result, error) {
	next := s.clone()
	next.History = PushHistory(next.History, next.Score.clone())
	next.FaultPending = false
	if stat != nil {
		stat(&next.Score)
	}

	var outcome Outcome
	if next.IsTiebreak {
		outcome = next.tiebreakPoint(winner)
	} else {
		outcome = next.gamePoint(winner)
	}

	res := Result{Outcome: outcome, SetsWon: SetsWon(next.Sets)}
	if next.IsMatchComplete {
		res.Completed = true
		res.Winner = next.Winner
	}
	return next, res, nil
}

func (s *MatchState) gamePoint(winner Side) Outcome {
	game := ProcessGamePoint(s.CurrentGamePoints, winner, s.IsAdScoring)
	s.CurrentGamePoints = game.Points
	if game.Outcome == Continue {
		return Continue
	}

	set := ProcessSetGame(s.CurrentSetGames, winner)
	switch set.Outcome {
	case StartTiebreak:
		s.CurrentSetGames = set.Games
		target := s.SetTiebreakTarget
		if s.isDecidingSet(s.SetsToWin) {
			target = s.FinalSetTiebreakTarget
		}
		s.startTiebreak(TiebreakSet, target)
		return StartTiebreak
	case SetOver:
		return s.finishSet(winner, set.Final, set.Final.Total())
	default:
		s.CurrentSetGames = set.Games
		s.ServingParticipant = NextGameServer(s.ServingParticipant)
		return GameOver
	}
}

func (s *MatchState) tiebreakPoint(winner Side) Outcome {
	tb := ProcessTiebreakPoint(s.TiebreakPoints, winner, s.TiebreakTarget)
	if tb.Outcome == Continue {
		s.TiebreakPoints = tb.Points
		s.ServingParticipant = TiebreakServer(s.FirstServerOfSet, tb.Points.Total())
		return Continue
	}

	// A match tiebreak is recorded with its own points; a set tiebreak as 7-6.
	finished := tb.Points
	if s.TiebreakMode != TiebreakMatch {
		finished = s.CurrentSetGames.Inc(winner)
	}
	gamesInSet := s.CurrentSetGames.Total() + 1
	s.clearTiebreak()
	return s.finishSet(winner, finished, gamesInSet)
}

func (s *MatchState) finishSet(winner Side, finished Pair, gamesInSet int) Outcome {
	match := ProcessMatchSet(s.Sets, winner, finished, s.SetsToWin)
	s.Sets = match.Sets
	s.CurrentSetGames = Pair{}
	s.CurrentGamePoints = Pair{}

	if match.Outcome == MatchOver {
		s.IsMatchComplete = true
		s.Winner = match.Winner
		return MatchOver
	}

	s.FirstServerOfSet = NextSetFirstServer(s.FirstServerOfSet, gamesInSet)
	s.ServingParticipant = s.FirstServerOfSet
	if s.UseMatchTiebreak && s.isDecidingSet(s.SetsToWin) {
		s.startTiebreak(TiebreakMatch, s.MatchTiebreakTarget)
	}
	return SetOver
}

// Undo restores the state captured before the last scoring event. On an
// untouched match it is a no-op.
func Undo(s MatchState) (MatchState, Result, error) {
	if len(s.History) == 0 {
		if !s.hasProgress() {
			return s, Result{Outcome: Continue}, nil
		}
		return s, Result{}, fmt.Errorf("%w: match has progress but no undo history", ErrInvalidState)
	}

	next := s.clone()
	snap, rest, _ := popHistory(next.History)
	wasComplete := next.IsMatchComplete
	next.Score = snap.clone()
	next.History = rest

	res := Result{Outcome: Continue, SetsWon: SetsWon(next.Sets)}
	if wasComplete && !next.IsMatchComplete {
		res.Reopened = true
		res.Winner = s.Winner
	}
	return next, res, nil
}

// SetServer overrides the serving participant to correct a scorer error. It is
// not recorded in the undo history. The set's first server is realigned so the
// rotation rules keep producing the corrected server.
func SetServer(s MatchState, participant Side) (MatchState, error) {
	if err := validateSide(participant); err != nil {
		return s, err
	}
	if s.IsMatchComplete {
		return s, fmt.Errorf("%w: match is already complete", ErrInvalidState)
	}
	next := s.clone()
	next.ServingParticipant = participant
	if next.IsTiebreak {
		if TiebreakServer(participant, next.TiebreakPoints.Total()) == participant {
			next.FirstServerOfSet = participant
		} else {
			next.FirstServerOfSet = participant.Other()
		}
	} else if next.CurrentSetGames.Total()%2 == 0 {
		next.FirstServerOfSet = participant
	} else {
		next.FirstServerOfSet = participant.Other()
	}
	return next, nil
}
