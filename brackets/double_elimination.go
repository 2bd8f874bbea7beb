package brackets

import (
	"context"

	"github.com/Dosada05/scoring-engine/models"
)

type DoubleEliminationGenerator struct{}

func NewDoubleEliminationGenerator() BracketGenerator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

// GenerateBracket builds the winners bracket like single elimination, then the
// losers bracket, the grand final and an always present grand final reset.
//
// Losers round 1 pairs the losers of winners round 1. After that the losers
// bracket alternates drop-down rounds, where losers of the next winners round
// meet the survivors, and normal rounds, where survivors play each other.
// Every other drop-down round is fed in reverse to postpone rematches.
func (g *DoubleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*DraftMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateParticipants(params.ParticipantIDs); err != nil {
		return nil, err
	}

	var drafts []*DraftMatch
	winners := buildWinnersBracket(&drafts, params.ParticipantIDs, models.BracketWinners)
	k := len(winners)

	// Источник финалиста нижней сетки: победитель последнего раунда или,
	// при двух участниках, проигравший единственного матча.
	lbChampion := func(gf *DraftMatch) {
		drafts[winners[0][0]].LoserNext = &Link{Index: gf.Index, Slot: 2}
	}

	if k > 1 {
		var prev []int
		for j := 1; j <= 2*k-2; j++ {
			var count int
			switch {
			case j == 1:
				count = len(winners[0]) / 2
			case j%2 == 0:
				count = len(prev)
			default:
				count = len(prev) / 2
			}
			cur := make([]int, 0, count)
			for m := 0; m < count; m++ {
				cur = append(cur, appendDraft(&drafts, j, m+1, models.BracketLosers).Index)
			}

			switch {
			case j == 1:
				for i, idx := range winners[0] {
					drafts[idx].LoserNext = &Link{Index: cur[i/2], Slot: i%2 + 1}
				}
			case j%2 == 0:
				drop := winners[j/2]
				reverse := (j/2)%2 == 1
				for i, idx := range prev {
					drafts[idx].Next = &Link{Index: cur[i], Slot: 1}
				}
				for i, idx := range drop {
					target := i
					if reverse {
						target = len(cur) - 1 - i
					}
					drafts[idx].LoserNext = &Link{Index: cur[target], Slot: 2}
				}
			default:
				for i, idx := range prev {
					drafts[idx].Next = &Link{Index: cur[i/2], Slot: i%2 + 1}
				}
			}
			prev = cur
		}
		final := prev[0]
		lbChampion = func(gf *DraftMatch) {
			drafts[final].Next = &Link{Index: gf.Index, Slot: 2}
		}
	}

	gf := appendDraft(&drafts, 1, 1, models.BracketGrandFinal)
	drafts[winners[k-1][0]].Next = &Link{Index: gf.Index, Slot: 1}
	lbChampion(gf)

	reset := appendDraft(&drafts, 1, 1, models.BracketGrandFinalReset)
	gf.Next = &Link{Index: reset.Index, Slot: 1}
	gf.LoserNext = &Link{Index: reset.Index, Slot: 2}

	markByes(drafts)
	return drafts, nil
}
