package scoring

import "testing"

func TestProcessGamePoint(t *testing.T) {
	cases := []struct {
		name    string
		points  Pair
		winner  Side
		ad      bool
		outcome Outcome
		want    Pair
	}{
		{"love to fifteen", Pair{0, 0}, Side2, true, Continue, Pair{0, 1}},
		{"forty thirty wins", Pair{3, 2}, Side1, true, GameOver, Pair{}},
		{"thirty forty to deuce", Pair{2, 3}, Side1, true, Continue, Pair{3, 3}},
		{"deuce to advantage", Pair{3, 3}, Side1, true, Continue, Pair{4, 3}},
		{"advantage converted", Pair{4, 3}, Side1, true, GameOver, Pair{}},
		{"advantage lost back to deuce", Pair{4, 3}, Side2, true, Continue, Pair{3, 3}},
		{"advantage receiver lost", Pair{3, 4}, Side1, true, Continue, Pair{3, 3}},
		{"no-ad deciding point", Pair{3, 3}, Side2, false, GameOver, Pair{}},
		{"no-ad below deuce", Pair{2, 3}, Side1, false, Continue, Pair{3, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ProcessGamePoint(tc.points, tc.winner, tc.ad)
			if got.Outcome != tc.outcome {
				t.Fatalf("outcome = %v, want %v", got.Outcome, tc.outcome)
			}
			if got.Points != tc.want {
				t.Fatalf("points = %v, want %v", got.Points, tc.want)
			}
			if tc.outcome == GameOver && got.Winner != tc.winner {
				t.Fatalf("winner = %v, want %v", got.Winner, tc.winner)
			}
		})
	}
}

func TestAdScoringNeverRunsAway(t *testing.T) {
	points := Pair{3, 3}
	for i := 0; i < 20; i++ {
		winner := Side1
		if i%2 == 1 {
			winner = Side2
		}
		res := ProcessGamePoint(points, winner, true)
		if res.Outcome != Continue {
			t.Fatalf("alternating points ended the game at step %d", i)
		}
		points = res.Points
		if points[0] > 4 || points[1] > 4 {
			t.Fatalf("counters ran away: %v", points)
		}
	}
}

func TestProcessTiebreakPoint(t *testing.T) {
	cases := []struct {
		name    string
		points  Pair
		winner  Side
		target  int
		outcome Outcome
		want    Pair
	}{
		{"six all to seven six continues", Pair{6, 6}, Side1, 7, Continue, Pair{7, 6}},
		{"eight six ends", Pair{7, 6}, Side1, 7, GameOver, Pair{8, 6}},
		{"seven five ends", Pair{6, 5}, Side1, 7, GameOver, Pair{7, 5}},
		{"below target", Pair{5, 5}, Side2, 7, Continue, Pair{5, 6}},
		{"match tiebreak ten eight", Pair{9, 8}, Side1, 10, GameOver, Pair{10, 8}},
		{"match tiebreak ten nine continues", Pair{9, 9}, Side2, 10, Continue, Pair{9, 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ProcessTiebreakPoint(tc.points, tc.winner, tc.target)
			if got.Outcome != tc.outcome || got.Points != tc.want {
				t.Fatalf("got %v %v, want %v %v", got.Outcome, got.Points, tc.outcome, tc.want)
			}
		})
	}
}

func TestProcessSetGame(t *testing.T) {
	cases := []struct {
		name    string
		games   Pair
		winner  Side
		outcome Outcome
		games2  Pair
		final   Pair
	}{
		{"five all to six five", Pair{5, 5}, Side1, Continue, Pair{6, 5}, Pair{}},
		{"seven five wins", Pair{6, 5}, Side1, SetOver, Pair{}, Pair{7, 5}},
		{"six four wins", Pair{5, 4}, Side1, SetOver, Pair{}, Pair{6, 4}},
		{"five six to tiebreak", Pair{5, 6}, Side1, StartTiebreak, Pair{6, 6}, Pair{}},
		{"six five to tiebreak", Pair{6, 5}, Side2, StartTiebreak, Pair{6, 6}, Pair{}},
		{"love six", Pair{0, 5}, Side2, SetOver, Pair{}, Pair{0, 6}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ProcessSetGame(tc.games, tc.winner)
			if got.Outcome != tc.outcome {
				t.Fatalf("outcome = %v, want %v", got.Outcome, tc.outcome)
			}
			if got.Games != tc.games2 || got.Final != tc.final {
				t.Fatalf("games=%v final=%v, want %v %v", got.Games, got.Final, tc.games2, tc.final)
			}
		})
	}
}

func TestProcessMatchSet(t *testing.T) {
	prior := []Pair{{6, 4}}
	res := ProcessMatchSet(prior, Side1, Pair{6, 2}, 2)
	if res.Outcome != MatchOver || res.Winner != Side1 {
		t.Fatalf("best of 3 at 2-0 should be over, got %v winner %v", res.Outcome, res.Winner)
	}
	if len(prior) != 1 {
		t.Fatalf("prior sets were modified: %v", prior)
	}

	res = ProcessMatchSet([]Pair{{4, 6}}, Side1, Pair{7, 6}, 2)
	if res.Outcome != Continue || res.SetsWon != (Pair{1, 1}) {
		t.Fatalf("one set all should continue, got %v %v", res.Outcome, res.SetsWon)
	}

	res = ProcessMatchSet([]Pair{{6, 3}, {6, 4}}, Side2, Pair{3, 6}, 3)
	if res.Outcome != Continue {
		t.Fatalf("best of 5 at 2-1 should continue")
	}
}

func TestPushHistoryCap(t *testing.T) {
	var h []int
	for i := 0; i < MaxHistory+10; i++ {
		h = PushHistory(h, i)
		if len(h) > MaxHistory {
			t.Fatalf("history grew to %d", len(h))
		}
	}
	if len(h) != MaxHistory {
		t.Fatalf("len = %d, want %d", len(h), MaxHistory)
	}
	if h[0] != 10 || h[len(h)-1] != MaxHistory+9 {
		t.Fatalf("oldest entries were not dropped: first=%d last=%d", h[0], h[len(h)-1])
	}
}
