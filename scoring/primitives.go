package scoring

// GameResult is the outcome of one point in a regular game.
type GameResult struct {
	Outcome Outcome // Continue or GameOver
	Winner  Side
	Points  Pair
}

// ProcessGamePoint scores one point of a regular game. Points count 0..3 as
// love/15/30/40; at deuce the advantage is a transient one point lead (4-3),
// losing it returns the game to 3-3. Without ad scoring the first point after
// 3-3 decides the game. A won game resets the counters to 0-0.
func ProcessGamePoint(points Pair, winner Side, isAdScoring bool) GameResult {
	w, l := winner.idx(), winner.Other().idx()

	if points[0] < 3 || points[1] < 3 {
		next := points.Inc(winner)
		if next[w] >= 4 {
			return GameResult{Outcome: GameOver, Winner: winner}
		}
		return GameResult{Outcome: Continue, Points: next}
	}

	if !isAdScoring {
		return GameResult{Outcome: GameOver, Winner: winner}
	}

	switch {
	case points[w] > points[l]:
		return GameResult{Outcome: GameOver, Winner: winner}
	case points[l] > points[w]:
		return GameResult{Outcome: Continue, Points: Pair{3, 3}}
	default:
		return GameResult{Outcome: Continue, Points: Pair{3, 3}.Inc(winner)}
	}
}

// TiebreakResult is the outcome of one tiebreak point. Points always carries the
// counters after the point, including the final score of a finished tiebreak.
type TiebreakResult struct {
	Outcome Outcome // Continue or GameOver
	Winner  Side
	Points  Pair
}

// ProcessTiebreakPoint scores one tiebreak point: first to target with a lead of two.
func ProcessTiebreakPoint(points Pair, winner Side, target int) TiebreakResult {
	next := points.Inc(winner)
	w, l := winner.idx(), winner.Other().idx()
	if next[w] >= target && next[w]-next[l] >= 2 {
		return TiebreakResult{Outcome: GameOver, Winner: winner, Points: next}
	}
	return TiebreakResult{Outcome: Continue, Points: next}
}

// SetResult is the outcome of adding one game to the current set.
type SetResult struct {
	Outcome Outcome // Continue, SetOver or StartTiebreak
	Winner  Side
	Games   Pair // games after the game; reset to 0-0 on set win
	Final   Pair // set score when Outcome == SetOver
}

// ProcessSetGame credits a game to gameWinner. 6-6 starts a tiebreak; otherwise
// six or more games with a two game lead wins the set.
func ProcessSetGame(games Pair, gameWinner Side) SetResult {
	next := games.Inc(gameWinner)
	if next[0] == 6 && next[1] == 6 {
		return SetResult{Outcome: StartTiebreak, Games: next}
	}
	w, l := gameWinner.idx(), gameWinner.Other().idx()
	if next[w] >= 6 && next[w]-next[l] >= 2 {
		return SetResult{Outcome: SetOver, Winner: gameWinner, Final: next}
	}
	return SetResult{Outcome: Continue, Games: next}
}

// MatchResult is the outcome of recording a finished set.
type MatchResult struct {
	Outcome Outcome // Continue or MatchOver
	Winner  Side
	Sets    []Pair
	SetsWon Pair
}

// ProcessMatchSet appends the finished set and ends the match the moment one side
// reaches setsToWin. priorSets is not modified.
func ProcessMatchSet(priorSets []Pair, setWinner Side, finished Pair, setsToWin int) MatchResult {
	sets := make([]Pair, 0, len(priorSets)+1)
	sets = append(sets, priorSets...)
	sets = append(sets, finished)

	won := SetsWon(sets)
	res := MatchResult{Outcome: Continue, Sets: sets, SetsWon: won}
	if won.Of(setWinner) >= setsToWin {
		res.Outcome = MatchOver
		res.Winner = setWinner
	}
	return res
}

// SetsWon tallies completed sets per side.
func SetsWon(sets []Pair) Pair {
	var won Pair
	for _, s := range sets {
		if leader := s.Leader(); leader != SideNone {
			won = won.Inc(leader)
		}
	}
	return won
}
