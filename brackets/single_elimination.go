package brackets

import (
	"context"

	"github.com/Dosada05/scoring-engine/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*DraftMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateParticipants(params.ParticipantIDs); err != nil {
		return nil, err
	}

	var drafts []*DraftMatch
	buildWinnersBracket(&drafts, params.ParticipantIDs, models.BracketNone)
	markByes(drafts)
	return drafts, nil
}

// buildWinnersBracket appends a seeded knockout tree to drafts and returns the
// draft indices of each round. Round 1 is filled from the seed order; slots past
// the participant count stay empty.
func buildWinnersBracket(drafts *[]*DraftMatch, ids []int, bracket models.BracketType) [][]int {
	size := BracketSize(len(ids))
	order := GenerateSeedOrder(size)

	var rounds [][]int
	first := make([]int, 0, size/2)
	for m := 0; m < size/2; m++ {
		d := appendDraft(drafts, 1, m+1, bracket)
		d.Participant1ID = seedParticipant(ids, order[2*m])
		d.Participant2ID = seedParticipant(ids, order[2*m+1])
		first = append(first, d.Index)
	}
	rounds = append(rounds, first)

	for prev := first; len(prev) > 1; {
		round := len(rounds) + 1
		cur := make([]int, 0, len(prev)/2)
		for m := 0; m < len(prev)/2; m++ {
			d := appendDraft(drafts, round, m+1, bracket)
			cur = append(cur, d.Index)
		}
		for i, idx := range prev {
			(*drafts)[idx].Next = &Link{Index: cur[i/2], Slot: i%2 + 1}
		}
		rounds = append(rounds, cur)
		prev = cur
	}
	return rounds
}

func seedParticipant(ids []int, seed int) *int {
	if seed > len(ids) {
		return nil
	}
	id := ids[seed-1]
	return &id
}

func appendDraft(drafts *[]*DraftMatch, round, number int, bracket models.BracketType) *DraftMatch {
	d := &DraftMatch{
		Index:       len(*drafts),
		Round:       round,
		MatchNumber: number,
		BracketType: bracket,
		Status:      models.MatchStatusPending,
	}
	*drafts = append(*drafts, d)
	return d
}
