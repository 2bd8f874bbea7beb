package brackets

import (
	"context"

	"github.com/Dosada05/scoring-engine/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateBracket schedules every pairing once using the circle method: the
// first participant stays fixed while the rest rotate. An odd field gets an
// empty seat, and pairings against it are left out instead of becoming byes.
func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*DraftMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateParticipants(params.ParticipantIDs); err != nil {
		return nil, err
	}

	circle := make([]*int, 0, len(params.ParticipantIDs)+1)
	for _, id := range params.ParticipantIDs {
		id := id
		circle = append(circle, &id)
	}
	if len(circle)%2 == 1 {
		circle = append(circle, nil)
	}
	n := len(circle)

	drafts := make([]*DraftMatch, 0, n*(n-1)/2)
	for round := 1; round < n; round++ {
		number := 0
		for i := 0; i < n/2; i++ {
			p1, p2 := circle[i], circle[n-1-i]
			if p1 == nil || p2 == nil {
				continue
			}
			// фиксированный участник чередует слоты
			if i == 0 && round%2 == 0 {
				p1, p2 = p2, p1
			}
			number++
			d := appendDraft(&drafts, round, number, models.BracketNone)
			d.Participant1ID = p1
			d.Participant2ID = p2
		}

		last := circle[n-1]
		copy(circle[2:], circle[1:n-1])
		circle[1] = last
	}
	return drafts, nil
}
