package services

import (
	"sort"

	"github.com/Dosada05/scoring-engine/models"
)

// rankStandings orders participants by wins, then draws, then set difference,
// then sets won. Remaining ties keep seed order and share a rank.
func rankStandings(participants []*models.Participant) []models.Standing {
	ordered := make([]*models.Participant, 0, len(participants))
	for _, p := range participants {
		if p != nil {
			ordered = append(ordered, p)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return compareRecords(ordered[i], ordered[j]) < 0
	})

	standings := make([]models.Standing, len(ordered))
	for i, p := range ordered {
		standings[i] = models.NewStanding(*p)
		if i > 0 && compareRecords(ordered[i-1], p) == 0 {
			standings[i].Rank = standings[i-1].Rank
		} else {
			standings[i].Rank = i + 1
		}
	}
	return standings
}

// compareRecords returns a negative number when a ranks above b.
func compareRecords(a, b *models.Participant) int {
	if a.Wins != b.Wins {
		return b.Wins - a.Wins
	}
	if a.Draws != b.Draws {
		return b.Draws - a.Draws
	}
	da, db := a.PointsFor-a.PointsAgainst, b.PointsFor-b.PointsAgainst
	if da != db {
		return db - da
	}
	return b.PointsFor - a.PointsFor
}
