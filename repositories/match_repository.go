package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/scoring-engine/models"
	"github.com/Dosada05/scoring-engine/scoring"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchVersionConflict    = errors.New("match was modified concurrently")
	ErrMatchTournamentInvalid  = errors.New("match tournament conflict or invalid")
	ErrMatchParticipantInvalid = errors.New("match participant conflict or invalid")
	ErrMatchLinkInvalid        = errors.New("match bracket link conflict or invalid")
	ErrMatchCourtTaken         = errors.New("court already has a live match")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	// GetForUpdate блокирует строку матча до конца транзакции.
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error)
	// Update writes every mutable column if match.Version is still current and bumps it.
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateLinks(ctx context.Context, exec SQLExecutor, matchID int, nextID, nextSlot, loserNextID, loserNextSlot *int) error
	CountOpen(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	CourtBusy(ctx context.Context, exec SQLExecutor, court string, excludeMatchID int) (bool, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	id, tournament_id, round, match_number, bracket_type, participant1_id, participant2_id,
	winner_id, status, court, participant1_score, participant2_score, score_sets,
	next_match_id, next_match_slot, loser_next_match_id, loser_next_match_slot,
	state, version, started_at, completed_at, created_at, updated_at`

func scanMatch(row rowScanner) (*models.Match, error) {
	var (
		m         models.Match
		scoreSets []byte
		state     []byte
	)
	err := row.Scan(
		&m.ID,
		&m.TournamentID,
		&m.Round,
		&m.MatchNumber,
		&m.BracketType,
		&m.Participant1ID,
		&m.Participant2ID,
		&m.WinnerID,
		&m.Status,
		&m.Court,
		&m.Participant1Score,
		&m.Participant2Score,
		&scoreSets,
		&m.NextMatchID,
		&m.NextMatchSlot,
		&m.LoserNextMatchID,
		&m.LoserNextMatchSlot,
		&state,
		&m.Version,
		&m.StartedAt,
		&m.CompletedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.ScoreSets = []scoring.Pair{}
	if len(scoreSets) > 0 {
		if err := json.Unmarshal(scoreSets, &m.ScoreSets); err != nil {
			return nil, fmt.Errorf("failed to decode score_sets of match %d: %w", m.ID, err)
		}
	}
	if len(state) > 0 {
		m.State = json.RawMessage(state)
	}
	return &m, nil
}

func encodeScoreSets(sets []scoring.Pair) (string, error) {
	if sets == nil {
		sets = []scoring.Pair{}
	}
	raw, err := json.Marshal(sets)
	return string(raw), err
}

// nullableJSON keeps an empty state as SQL NULL.
func nullableJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, round, match_number, bracket_type, participant1_id, participant2_id,
			 winner_id, status, court, participant1_score, participant2_score, score_sets, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, version, created_at, updated_at`

	sets, err := encodeScoreSets(m.ScoreSets)
	if err != nil {
		return err
	}
	err = r.getExecutor(exec).QueryRowContext(ctx, query,
		m.TournamentID,
		m.Round,
		m.MatchNumber,
		m.BracketType,
		m.Participant1ID,
		m.Participant2ID,
		m.WinnerID,
		m.Status,
		m.Court,
		m.Participant1Score,
		m.Participant2Score,
		sets,
		nullableJSON(m.State),
	).Scan(&m.ID, &m.Version, &m.CreatedAt, &m.UpdatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.getOne(ctx, exec, query, id)
}

func (r *postgresMatchRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, exec, query, id)
}

func (r *postgresMatchRepository) getOne(ctx context.Context, exec SQLExecutor, query string, id int) (*models.Match, error) {
	m, err := scanMatch(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error) {
	// id отражает порядок генерации сетки
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 ORDER BY id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		UPDATE matches
		SET participant1_id = $1, participant2_id = $2, winner_id = $3, status = $4, court = $5,
		    participant1_score = $6, participant2_score = $7, score_sets = $8, state = $9,
		    started_at = $10, completed_at = $11, version = version + 1, updated_at = NOW()
		WHERE id = $12 AND version = $13
		RETURNING version, updated_at`

	sets, err := encodeScoreSets(m.ScoreSets)
	if err != nil {
		return err
	}
	err = r.getExecutor(exec).QueryRowContext(ctx, query,
		m.Participant1ID,
		m.Participant2ID,
		m.WinnerID,
		m.Status,
		m.Court,
		m.Participant1Score,
		m.Participant2Score,
		sets,
		nullableJSON(m.State),
		m.StartedAt,
		m.CompletedAt,
		m.ID,
		m.Version,
	).Scan(&m.Version, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// строка есть, но версия ушла вперёд, либо строки нет вовсе
		if _, getErr := r.GetByID(ctx, exec, m.ID); getErr != nil {
			return getErr
		}
		return fmt.Errorf("%w: match %d", ErrMatchVersionConflict, m.ID)
	}
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) UpdateLinks(ctx context.Context, exec SQLExecutor, matchID int, nextID, nextSlot, loserNextID, loserNextSlot *int) error {
	query := `
		UPDATE matches
		SET next_match_id = $1, next_match_slot = $2, loser_next_match_id = $3, loser_next_match_slot = $4
		WHERE id = $5`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, nextID, nextSlot, loserNextID, loserNextSlot, matchID)
	if err != nil {
		return fmt.Errorf("UpdateLinks: failed to execute query for match %d: %w", matchID, r.handleMatchError(err))
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) CountOpen(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	query := `SELECT COUNT(*) FROM matches WHERE tournament_id = $1 AND status IN ($2, $3, $4)`
	var n int
	err := r.getExecutor(exec).QueryRowContext(ctx, query, tournamentID,
		models.MatchStatusPending, models.MatchStatusScheduled, models.MatchStatusLive).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count open matches for tournament %d: %w", tournamentID, err)
	}
	return n, nil
}

func (r *postgresMatchRepository) CourtBusy(ctx context.Context, exec SQLExecutor, court string, excludeMatchID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM matches WHERE court = $1 AND status = $2 AND id <> $3)`
	var busy bool
	err := r.getExecutor(exec).QueryRowContext(ctx, query, court, models.MatchStatusLive, excludeMatchID).Scan(&busy)
	if err != nil {
		return false, fmt.Errorf("failed to check court %q: %w", court, err)
	}
	return busy, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_participant1_id_fkey", "matches_participant2_id_fkey", "matches_winner_id_fkey":
			return ErrMatchParticipantInvalid
		case "matches_next_match_id_fkey", "matches_loser_next_match_id_fkey",
			"matches_next_match_slot_check", "matches_loser_next_match_slot_check":
			return ErrMatchLinkInvalid
		case "matches_live_court_idx":
			return ErrMatchCourtTaken
		}
	}
	return err
}
