package models

import "time"

// Participant is an entrant of one tournament with its aggregate record.
type Participant struct {
	ID           int    `json:"id" db:"id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	Name         string `json:"name" db:"name"`
	// Seed 1 is the top seed.
	Seed int `json:"seed" db:"seed"`

	Wins          int `json:"wins" db:"wins"`
	Losses        int `json:"losses" db:"losses"`
	Draws         int `json:"draws" db:"draws"`
	PointsFor     int `json:"points_for" db:"points_for"`
	PointsAgainst int `json:"points_against" db:"points_against"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// StatsDelta is a signed change to a participant's record.
type StatsDelta struct {
	Wins          int
	Losses        int
	Draws         int
	PointsFor     int
	PointsAgainst int
}

// Negate returns the delta that undoes d.
func (d StatsDelta) Negate() StatsDelta {
	return StatsDelta{
		Wins:          -d.Wins,
		Losses:        -d.Losses,
		Draws:         -d.Draws,
		PointsFor:     -d.PointsFor,
		PointsAgainst: -d.PointsAgainst,
	}
}
