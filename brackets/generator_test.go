package brackets

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/Dosada05/scoring-engine/models"
)

func seededIDs(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = 100 + i
	}
	return ids
}

func generate(t *testing.T, format models.TournamentFormat, n int) []*DraftMatch {
	t.Helper()
	drafts, err := Generate(context.Background(), format, seededIDs(n))
	if err != nil {
		t.Fatalf("Generate(%s, %d): %v", format, n, err)
	}
	return drafts
}

func countStatus(drafts []*DraftMatch, status models.MatchStatus) int {
	n := 0
	for _, d := range drafts {
		if d.Status == status {
			n++
		}
	}
	return n
}

// checkLinks verifies that every slot is fed by at most one source and that
// links only point forward.
func checkLinks(t *testing.T, drafts []*DraftMatch) {
	t.Helper()
	fed := make(map[Link]int)
	for i, d := range drafts {
		if d.Index != i {
			t.Fatalf("draft %d has index %d", i, d.Index)
		}
		for _, l := range []*Link{d.Next, d.LoserNext} {
			if l == nil {
				continue
			}
			if l.Index <= d.Index || l.Index >= len(drafts) {
				t.Fatalf("match %d links to %d", d.Index, l.Index)
			}
			if l.Slot != 1 && l.Slot != 2 {
				t.Fatalf("match %d links to slot %d", d.Index, l.Slot)
			}
			fed[*l]++
			if fed[*l] > 1 {
				t.Fatalf("slot %+v is fed twice", *l)
			}
			target := drafts[l.Index]
			if (l.Slot == 1 && target.Participant1ID != nil) || (l.Slot == 2 && target.Participant2ID != nil) {
				t.Fatalf("slot %+v is fed but already seeded", *l)
			}
		}
	}
}

// simulate plays the bracket in index order, passing entrants through byes.
// It returns the losses of every participant and the champion.
func simulate(t *testing.T, drafts []*DraftMatch, pick func(p1, p2 int) int) (map[int]int, int) {
	t.Helper()
	slots := make([][2]*int, len(drafts))
	for i, d := range drafts {
		slots[i] = [2]*int{d.Participant1ID, d.Participant2ID}
	}
	losses := make(map[int]int)
	champion := 0
	send := func(l *Link, id int) {
		if l == nil {
			return
		}
		if slots[l.Index][l.Slot-1] != nil {
			t.Fatalf("slot %+v already holds %d", *l, *slots[l.Index][l.Slot-1])
		}
		v := id
		slots[l.Index][l.Slot-1] = &v
	}

	for i, d := range drafts {
		p1, p2 := slots[i][0], slots[i][1]
		if d.Status == models.MatchStatusBye {
			if p1 != nil && p2 != nil {
				t.Fatalf("bye match %d received two entrants", i)
			}
			if p1 != nil {
				send(d.Next, *p1)
			} else if p2 != nil {
				send(d.Next, *p2)
			}
			continue
		}
		if p1 == nil || p2 == nil {
			if d.BracketType == models.BracketGrandFinalReset {
				continue // reset was not needed
			}
			t.Fatalf("pending match %d (%s R%d M%d) is missing an entrant", i, d.BracketType, d.Round, d.MatchNumber)
		}
		winner, loser := *p1, *p2
		if pick(*p1, *p2) == *p2 {
			winner, loser = *p2, *p1
		}
		losses[loser]++

		switch {
		case d.BracketType == models.BracketGrandFinal && winner == *p1:
			// the winners bracket champion took the grand final, no reset
			champion = winner
		case d.Next == nil:
			champion = winner
		default:
			send(d.Next, winner)
			send(d.LoserNext, loser)
		}
	}
	return losses, champion
}

func TestGenerateValidation(t *testing.T) {
	for _, format := range []models.TournamentFormat{models.FormatSingleElimination, models.FormatDoubleElimination, models.FormatRoundRobin} {
		t.Run(string(format), func(t *testing.T) {
			for _, n := range []int{0, 1} {
				if _, err := Generate(context.Background(), format, seededIDs(n)); !errors.Is(err, ErrNotEnoughParticipants) {
					t.Fatalf("n=%d: got %v", n, err)
				}
			}
			if _, err := Generate(context.Background(), format, []int{1, 2, 1}); !errors.Is(err, ErrDuplicateParticipant) {
				t.Fatalf("duplicates: got %v", err)
			}
		})
	}
	if _, err := Generate(context.Background(), "ladder", seededIDs(4)); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("unknown format: got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Generate(ctx, models.FormatSingleElimination, seededIDs(4)); !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled context: got %v", err)
	}
}

func TestSingleEliminationFivePlayers(t *testing.T) {
	drafts := generate(t, models.FormatSingleElimination, 5)
	if len(drafts) != 7 {
		t.Fatalf("bracket of 8 should have 7 matches, got %d", len(drafts))
	}
	if got := countStatus(drafts, models.MatchStatusBye); got != 3 {
		t.Fatalf("byes = %d, want 3", got)
	}
	// byes go to the top three seeds
	for _, d := range drafts[:4] {
		if d.Status != models.MatchStatusBye {
			continue
		}
		if d.Participant1ID == nil || *d.Participant1ID > 102 || d.Participant2ID != nil {
			t.Fatalf("unexpected bye %+v", d)
		}
	}
	final := drafts[len(drafts)-1]
	if final.Round != 3 || final.Next != nil {
		t.Fatalf("last draft should be the final: %+v", final)
	}
}

func TestSingleEliminationGraph(t *testing.T) {
	for n := 2; n <= 17; n++ {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			drafts := generate(t, models.FormatSingleElimination, n)
			checkLinks(t, drafts)
			if got := len(drafts) - countStatus(drafts, models.MatchStatusBye); got != n-1 {
				t.Fatalf("playable matches = %d, want %d", got, n-1)
			}
			losses, champion := simulate(t, drafts, func(p1, p2 int) int {
				if p1 < p2 {
					return p1
				}
				return p2
			})
			if champion != 100 {
				t.Fatalf("top seed should win without upsets, got %d", champion)
			}
			for id, l := range losses {
				if l != 1 {
					t.Fatalf("participant %d lost %d times", id, l)
				}
			}
			if len(losses) != n-1 {
				t.Fatalf("%d participants were eliminated, want %d", len(losses), n-1)
			}
		})
	}
}

func TestDoubleEliminationStructure(t *testing.T) {
	drafts := generate(t, models.FormatDoubleElimination, 8)
	if len(drafts) != 15 {
		t.Fatalf("8 players should give 15 matches, got %d", len(drafts))
	}
	byType := make(map[models.BracketType]int)
	rounds := make(map[models.BracketType]int)
	for _, d := range drafts {
		byType[d.BracketType]++
		if d.Round > rounds[d.BracketType] {
			rounds[d.BracketType] = d.Round
		}
	}
	if byType[models.BracketWinners] != 7 || byType[models.BracketLosers] != 6 ||
		byType[models.BracketGrandFinal] != 1 || byType[models.BracketGrandFinalReset] != 1 {
		t.Fatalf("unexpected split %v", byType)
	}
	total := rounds[models.BracketWinners] + rounds[models.BracketLosers] + 2
	if want, _ := RoundsForFormat(models.FormatDoubleElimination, 8); total != want {
		t.Fatalf("rounds = %d, RoundsForFormat = %d", total, want)
	}

	gf := drafts[len(drafts)-2]
	reset := drafts[len(drafts)-1]
	if gf.Next == nil || gf.Next.Index != reset.Index || gf.Next.Slot != 1 ||
		gf.LoserNext == nil || gf.LoserNext.Index != reset.Index || gf.LoserNext.Slot != 2 {
		t.Fatalf("grand final should feed both reset slots: %+v", gf)
	}
	if reset.Status != models.MatchStatusPending {
		t.Fatalf("reset should be pre-created as pending, got %s", reset.Status)
	}
}

func TestDoubleEliminationGraph(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 2; n <= 17; n++ {
		for trial := 0; trial < 5; trial++ {
			t.Run(fmt.Sprintf("%d/%d", n, trial), func(t *testing.T) {
				drafts := generate(t, models.FormatDoubleElimination, n)
				checkLinks(t, drafts)
				losses, champion := simulate(t, drafts, func(p1, p2 int) int {
					if rng.Intn(2) == 0 {
						return p1
					}
					return p2
				})
				if champion == 0 {
					t.Fatalf("no champion")
				}
				if losses[champion] > 1 {
					t.Fatalf("champion %d lost %d times", champion, losses[champion])
				}
				for _, id := range seededIDs(n) {
					if id == champion {
						continue
					}
					if losses[id] != 2 {
						t.Fatalf("participant %d lost %d times, want 2", id, losses[id])
					}
				}
			})
		}
	}
}

func TestRoundRobin(t *testing.T) {
	cases := []struct {
		n       int
		matches int
		rounds  int
	}{
		{2, 1, 1},
		{4, 6, 3},
		{5, 10, 5},
		{6, 15, 5},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.n), func(t *testing.T) {
			drafts := generate(t, models.FormatRoundRobin, tc.n)
			if len(drafts) != tc.matches {
				t.Fatalf("matches = %d, want %d", len(drafts), tc.matches)
			}
			pairs := make(map[[2]int]bool)
			perRound := make(map[int]map[int]bool)
			maxRound := 0
			for _, d := range drafts {
				if d.Participant1ID == nil || d.Participant2ID == nil {
					t.Fatalf("round robin must not emit byes: %+v", d)
				}
				if d.Status != models.MatchStatusPending || d.Next != nil || d.LoserNext != nil {
					t.Fatalf("unexpected draft %+v", d)
				}
				a, b := *d.Participant1ID, *d.Participant2ID
				if a > b {
					a, b = b, a
				}
				if pairs[[2]int{a, b}] {
					t.Fatalf("pairing %d-%d repeated", a, b)
				}
				pairs[[2]int{a, b}] = true

				if perRound[d.Round] == nil {
					perRound[d.Round] = make(map[int]bool)
				}
				for _, p := range []int{a, b} {
					if perRound[d.Round][p] {
						t.Fatalf("participant %d plays twice in round %d", p, d.Round)
					}
					perRound[d.Round][p] = true
				}
				if d.Round > maxRound {
					maxRound = d.Round
				}
			}
			if maxRound != tc.rounds {
				t.Fatalf("rounds = %d, want %d", maxRound, tc.rounds)
			}
			if want, _ := RoundsForFormat(models.FormatRoundRobin, tc.n); want != tc.rounds {
				t.Fatalf("RoundsForFormat disagrees: %d", want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	drafts := generate(t, models.FormatDoubleElimination, 4)
	ids := make([]int, len(drafts))
	for i := range ids {
		ids[i] = 1000 + i*3
	}
	matches, err := Resolve(drafts, ids)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i, m := range matches {
		d := drafts[i]
		if m.ID != ids[i] || m.Status != d.Status || m.BracketType != d.BracketType {
			t.Fatalf("match %d not copied: %+v", i, m)
		}
		if (d.Next == nil) != (m.NextMatchID == nil) {
			t.Fatalf("match %d next link lost", i)
		}
		if d.Next != nil && (*m.NextMatchID != ids[d.Next.Index] || *m.NextMatchSlot != d.Next.Slot) {
			t.Fatalf("match %d next link = %d/%d", i, *m.NextMatchID, *m.NextMatchSlot)
		}
		if d.LoserNext != nil && (*m.LoserNextMatchID != ids[d.LoserNext.Index] || *m.LoserNextMatchSlot != d.LoserNext.Slot) {
			t.Fatalf("match %d loser link = %d/%d", i, *m.LoserNextMatchID, *m.LoserNextMatchSlot)
		}
	}

	if _, err := Resolve(drafts, ids[1:]); err == nil {
		t.Fatalf("Resolve should reject mismatched ids")
	}
}
