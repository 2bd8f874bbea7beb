package models

import (
	"time"

	"github.com/Dosada05/scoring-engine/scoring"
)

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusRegistration, StatusActive, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatDoubleElimination TournamentFormat = "double_elimination"
	FormatRoundRobin        TournamentFormat = "round_robin"
)

func (f TournamentFormat) Valid() bool {
	switch f {
	case FormatSingleElimination, FormatDoubleElimination, FormatRoundRobin:
		return true
	}
	return false
}

// AllowsDraws reports whether a match may end without a winner.
func (f TournamentFormat) AllowsDraws() bool {
	return f == FormatRoundRobin
}

// Tournament представляет турнир.
type Tournament struct {
	ID          int              `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Sport       scoring.Sport    `json:"sport" db:"sport"`
	Format      TournamentFormat `json:"format" db:"format"`
	Status      TournamentStatus `json:"status" db:"status"`
	Settings    ScoringSettings  `json:"settings" db:"settings"`
	OrganizerID int              `json:"organizer_id" db:"organizer_id"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	StartedAt   *time.Time       `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty" db:"completed_at"`

	// Заполняется при завершении турнира.
	OverallWinnerParticipantID *int `json:"overall_winner_participant_id,omitempty" db:"overall_winner_participant_id"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Participants []Participant `json:"participants,omitempty" db:"-"`
	Matches      []Match       `json:"matches,omitempty" db:"-"`
}
