package models

// Standing is one row of the tournament table, computed from participant records.
type Standing struct {
	Rank          int    `json:"rank"`
	ParticipantID int    `json:"participant_id"`
	Name          string `json:"name"`
	Played        int    `json:"played"`
	Wins          int    `json:"wins"`
	Draws         int    `json:"draws"`
	Losses        int    `json:"losses"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
	Difference    int    `json:"difference"`
}

func NewStanding(p Participant) Standing {
	return Standing{
		ParticipantID: p.ID,
		Name:          p.Name,
		Played:        p.Wins + p.Draws + p.Losses,
		Wins:          p.Wins,
		Draws:         p.Draws,
		Losses:        p.Losses,
		PointsFor:     p.PointsFor,
		PointsAgainst: p.PointsAgainst,
		Difference:    p.PointsFor - p.PointsAgainst,
	}
}
