package brackets

import (
	"fmt"
	"math/bits"

	"github.com/Dosada05/scoring-engine/models"
)

// BracketSize returns the smallest power of two that fits n participants.
func BracketSize(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// GenerateSeedOrder returns the slot order of seeds for a bracket of size
// (rounded up to a power of two), so that seed 1 can meet seed 2 only in the final.
// For 8: [1 8 4 5 2 7 3 6].
func GenerateSeedOrder(size int) []int {
	size = BracketSize(size)
	if size == 1 {
		return []int{1}
	}
	half := GenerateSeedOrder(size / 2)
	order := make([]int, 0, size)
	for _, s := range half {
		order = append(order, s, size+1-s)
	}
	return order
}

func winnersRounds(n int) int {
	return bits.Len(uint(BracketSize(n))) - 1
}

// RoundsForFormat is the number of rounds a bracket of n participants takes.
func RoundsForFormat(format models.TournamentFormat, n int) (int, error) {
	if n < 2 {
		return 0, fmt.Errorf("%w: got %d", ErrNotEnoughParticipants, n)
	}
	switch format {
	case models.FormatSingleElimination:
		return winnersRounds(n), nil
	case models.FormatDoubleElimination:
		w := winnersRounds(n)
		return w + (w*2 - 2) + 2, nil
	case models.FormatRoundRobin:
		if n%2 == 0 {
			return n - 1, nil
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
