package models

import (
	"encoding/json"
	"time"

	"github.com/Dosada05/scoring-engine/scoring"
)

type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusBye       MatchStatus = "bye"
	MatchStatusCanceled  MatchStatus = "canceled"
)

// Open сообщает, что матч ещё должен быть сыгран.
func (s MatchStatus) Open() bool {
	return s == MatchStatusPending || s == MatchStatusScheduled || s == MatchStatusLive
}

// BracketType размечает части сетки double elimination. Для остальных форматов пусто.
type BracketType string

const (
	BracketNone            BracketType = ""
	BracketWinners         BracketType = "winners"
	BracketLosers          BracketType = "losers"
	BracketGrandFinal      BracketType = "grand_final"
	BracketGrandFinalReset BracketType = "grand_final_reset"
)

type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Round        int         `json:"round" db:"round"`
	MatchNumber  int         `json:"match_number" db:"match_number"`
	BracketType  BracketType `json:"bracket_type,omitempty" db:"bracket_type"`

	Participant1ID *int        `json:"participant1_id,omitempty" db:"participant1_id"`
	Participant2ID *int        `json:"participant2_id,omitempty" db:"participant2_id"`
	WinnerID       *int        `json:"winner_id,omitempty" db:"winner_id"`
	Status         MatchStatus `json:"status" db:"status"`
	Court          *string     `json:"court,omitempty" db:"court"`

	// Сводка счёта: сеты по порядку и число выигранных сетов.
	Participant1Score int            `json:"participant1_score" db:"participant1_score"`
	Participant2Score int            `json:"participant2_score" db:"participant2_score"`
	ScoreSets         []scoring.Pair `json:"score_sets" db:"score_sets"`

	NextMatchID        *int `json:"next_match_id,omitempty" db:"next_match_id"`
	NextMatchSlot      *int `json:"next_match_slot,omitempty" db:"next_match_slot"`
	LoserNextMatchID   *int `json:"loser_next_match_id,omitempty" db:"loser_next_match_id"`
	LoserNextMatchSlot *int `json:"loser_next_match_slot,omitempty" db:"loser_next_match_slot"`

	// Состояние движка подсчёта, хранится как есть.
	State   json.RawMessage `json:"-" db:"state"`
	Version int             `json:"version" db:"version"`

	StartedAt   *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Slot возвращает участника в слоте 1 или 2.
func (m *Match) Slot(slot int) *int {
	if slot == 1 {
		return m.Participant1ID
	}
	return m.Participant2ID
}

func (m *Match) SetSlot(slot int, participantID *int) {
	if slot == 1 {
		m.Participant1ID = participantID
		return
	}
	m.Participant2ID = participantID
}

// ParticipantFor maps an engine side onto the participant in that slot.
func (m *Match) ParticipantFor(side scoring.Side) *int {
	switch side {
	case scoring.Side1:
		return m.Participant1ID
	case scoring.Side2:
		return m.Participant2ID
	}
	return nil
}

// SideOf returns the engine side of participantID, or SideNone.
func (m *Match) SideOf(participantID int) scoring.Side {
	switch {
	case m.Participant1ID != nil && *m.Participant1ID == participantID:
		return scoring.Side1
	case m.Participant2ID != nil && *m.Participant2ID == participantID:
		return scoring.Side2
	}
	return scoring.SideNone
}

func (m *Match) HasBothParticipants() bool {
	return m.Participant1ID != nil && m.Participant2ID != nil
}

// ApplySummary copies the engine's score summary onto the record.
func (m *Match) ApplySummary(sum scoring.Summary) {
	m.ScoreSets = sum.Sets
	m.Participant1Score = sum.SetsWon[0]
	m.Participant2Score = sum.SetsWon[1]
}
