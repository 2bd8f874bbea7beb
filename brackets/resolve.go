package brackets

import (
	"fmt"

	"github.com/Dosada05/scoring-engine/models"
	"github.com/Dosada05/scoring-engine/scoring"
)

// PersistableMatch is a draft after persistence: links refer to real match IDs.
type PersistableMatch struct {
	ID          int
	Round       int
	MatchNumber int
	BracketType models.BracketType

	Participant1ID *int
	Participant2ID *int
	Status         models.MatchStatus

	NextMatchID        *int
	NextMatchSlot      *int
	LoserNextMatchID   *int
	LoserNextMatchSlot *int
}

// NewMatch returns the record to insert for d, without links.
func (d *DraftMatch) NewMatch(tournamentID int) *models.Match {
	return &models.Match{
		TournamentID:   tournamentID,
		Round:          d.Round,
		MatchNumber:    d.MatchNumber,
		BracketType:    d.BracketType,
		Participant1ID: d.Participant1ID,
		Participant2ID: d.Participant2ID,
		Status:         d.Status,
		ScoreSets:      []scoring.Pair{},
	}
}

// Resolve rewrites index links to ID links. ids[i] is the ID assigned to drafts[i].
func Resolve(drafts []*DraftMatch, ids []int) ([]PersistableMatch, error) {
	if len(drafts) != len(ids) {
		return nil, fmt.Errorf("resolve: %d drafts but %d ids", len(drafts), len(ids))
	}
	link := func(l *Link) (*int, *int, error) {
		if l == nil {
			return nil, nil, nil
		}
		if l.Index < 0 || l.Index >= len(ids) {
			return nil, nil, fmt.Errorf("resolve: link to unknown draft %d", l.Index)
		}
		id, slot := ids[l.Index], l.Slot
		return &id, &slot, nil
	}

	out := make([]PersistableMatch, len(drafts))
	for i, d := range drafts {
		if d.Index != i {
			return nil, fmt.Errorf("resolve: draft at position %d has index %d", i, d.Index)
		}
		pm := PersistableMatch{
			ID:             ids[i],
			Round:          d.Round,
			MatchNumber:    d.MatchNumber,
			BracketType:    d.BracketType,
			Participant1ID: d.Participant1ID,
			Participant2ID: d.Participant2ID,
			Status:         d.Status,
		}
		var err error
		if pm.NextMatchID, pm.NextMatchSlot, err = link(d.Next); err != nil {
			return nil, err
		}
		if pm.LoserNextMatchID, pm.LoserNextMatchSlot, err = link(d.LoserNext); err != nil {
			return nil, err
		}
		out[i] = pm
	}
	return out, nil
}
