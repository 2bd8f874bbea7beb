package scoring

// NextGameServer returns the server of the next regular game. Service strictly
// alternates every game.
func NextGameServer(current Side) Side {
	return current.Other()
}

// TiebreakServer returns who serves the next tiebreak point given the player who
// started the tiebreak and the number of tiebreak points already played. The
// starter serves one point, then service changes every two points. It is derived
// from the point count only, so it stays correct after undo.
func TiebreakServer(starter Side, pointsPlayed int) Side {
	if pointsPlayed == 0 {
		return starter
	}
	if ((pointsPlayed-1)/2)%2 == 0 {
		return starter.Other()
	}
	return starter
}

// NextSetFirstServer returns the first server of the following set. The player who
// received in the last game of the finished set serves first; a tiebreak counts as
// one game, so a 7-6 set flips the first server and a 6-4 set keeps it.
func NextSetFirstServer(prevFirst Side, gamesInSet int) Side {
	if gamesInSet%2 == 1 {
		return prevFirst.Other()
	}
	return prevFirst
}
