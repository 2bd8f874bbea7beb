package brackets

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/scoring-engine/models"
)

var (
	ErrNotEnoughParticipants = errors.New("not enough participants to generate a bracket (minimum 2)")
	ErrDuplicateParticipant  = errors.New("participant appears more than once in the seed list")
	ErrUnsupportedFormat     = errors.New("unsupported tournament format")
)

type GenerateBracketParams struct {
	// ParticipantIDs is already seeded: index 0 is seed 1. Round robin ignores the order.
	ParticipantIDs []int
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*DraftMatch, error)

	GetName() string
}

// Link points at a slot of another draft match by its index.
type Link struct {
	Index int
	Slot  int
}

// DraftMatch is a generated match before it has a database identity.
// Links refer to other drafts by Index.
type DraftMatch struct {
	Index       int
	Round       int
	MatchNumber int
	BracketType models.BracketType

	Participant1ID *int
	Participant2ID *int
	Status         models.MatchStatus

	Next      *Link
	LoserNext *Link
}

func NewGenerator(format models.TournamentFormat) (BracketGenerator, error) {
	switch format {
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.FormatDoubleElimination:
		return NewDoubleEliminationGenerator(), nil
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Generate builds the whole match graph for format in one call.
func Generate(ctx context.Context, format models.TournamentFormat, participantIDs []int) ([]*DraftMatch, error) {
	gen, err := NewGenerator(format)
	if err != nil {
		return nil, err
	}
	return gen.GenerateBracket(ctx, GenerateBracketParams{ParticipantIDs: participantIDs})
}

func validateParticipants(ids []int) error {
	if len(ids) < 2 {
		return fmt.Errorf("%w: got %d", ErrNotEnoughParticipants, len(ids))
	}
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateParticipant, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// markByes walks the graph in index order, which is always topological, and
// marks every match that can receive at most one entrant as a bye. A bye sends
// its single entrant on but produces no loser; an empty match produces nothing.
func markByes(drafts []*DraftMatch) {
	live := make([]int, len(drafts))
	for _, d := range drafts {
		if d.Participant1ID != nil {
			live[d.Index]++
		}
		if d.Participant2ID != nil {
			live[d.Index]++
		}
	}
	for _, d := range drafts {
		n := live[d.Index]
		if n < 2 {
			d.Status = models.MatchStatusBye
		} else {
			d.Status = models.MatchStatusPending
		}
		if n >= 1 && d.Next != nil {
			live[d.Next.Index]++
		}
		if n == 2 && d.LoserNext != nil {
			live[d.LoserNext.Index]++
		}
	}
}
