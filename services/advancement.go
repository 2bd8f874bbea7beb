package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/scoring-engine/models"
	"github.com/Dosada05/scoring-engine/repositories"
)

// AdvancementResult describes the effects a completion or its reversal had outside the match itself.
type AdvancementResult struct {
	// Touched holds every other match record written, in write order.
	Touched             []*models.Match `json:"touched,omitempty"`
	TournamentCompleted bool            `json:"tournament_completed"`
	TournamentReopened  bool            `json:"tournament_reopened"`
	ChampionID          *int            `json:"champion_id,omitempty"`
}

func (r *AdvancementResult) touch(m *models.Match) {
	for i, t := range r.Touched {
		if t.ID == m.ID {
			r.Touched[i] = m
			return
		}
	}
	r.Touched = append(r.Touched, m)
}

// AdvancementCoordinator applies and reverses everything a finished match causes:
// participant stats, winner/loser placement, grand final reset and tournament completion.
// All methods run on the caller's transaction.
type AdvancementCoordinator interface {
	// Complete expects match to be stored as completed, WinnerID nil meaning a draw.
	Complete(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament, match *models.Match) (*AdvancementResult, error)
	// Reverse expects match as it was while completed, before it is reopened.
	Reverse(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament, match *models.Match) (*AdvancementResult, error)
	// PropagateByes sends every entrant of a freshly generated bye match along its link.
	PropagateByes(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament) (*AdvancementResult, error)
}

type advancementCoordinator struct {
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	tournamentRepo  repositories.TournamentRepository
	logger          *slog.Logger
}

func NewAdvancementCoordinator(
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	tournamentRepo repositories.TournamentRepository,
	logger *slog.Logger,
) AdvancementCoordinator {
	return &advancementCoordinator{
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		tournamentRepo:  tournamentRepo,
		logger:          logger,
	}
}

// matchDeltas returns the stat changes of both slots. Sets won count as points.
func matchDeltas(m *models.Match) (models.StatsDelta, models.StatsDelta) {
	d1 := models.StatsDelta{PointsFor: m.Participant1Score, PointsAgainst: m.Participant2Score}
	d2 := models.StatsDelta{PointsFor: m.Participant2Score, PointsAgainst: m.Participant1Score}
	switch {
	case m.WinnerID == nil:
		d1.Draws, d2.Draws = 1, 1
	case m.Participant1ID != nil && *m.WinnerID == *m.Participant1ID:
		d1.Wins, d2.Losses = 1, 1
	default:
		d1.Losses, d2.Wins = 1, 1
	}
	return d1, d2
}

func loserOf(m *models.Match) *int {
	if m.WinnerID == nil {
		return nil
	}
	if m.Participant1ID != nil && *m.Participant1ID == *m.WinnerID {
		return m.Participant2ID
	}
	return m.Participant1ID
}

// wbChampionWonGrandFinal: чемпион верхней сетки (слот 1) выиграл финал, матч-реванш не нужен.
func wbChampionWonGrandFinal(m *models.Match) bool {
	return m.BracketType == models.BracketGrandFinal &&
		m.WinnerID != nil && m.Participant1ID != nil && *m.WinnerID == *m.Participant1ID
}

func (c *advancementCoordinator) Complete(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament, match *models.Match) (*AdvancementResult, error) {
	if match.Status != models.MatchStatusCompleted {
		return nil, fmt.Errorf("%w: match %d is %s", ErrInvalidState, match.ID, match.Status)
	}
	if !match.HasBothParticipants() {
		return nil, ErrMatchParticipantsMissing
	}
	if match.WinnerID == nil && !tournament.Format.AllowsDraws() {
		return nil, ErrTiedResult
	}

	res := &AdvancementResult{}
	if err := c.applyStats(ctx, exec, match, false); err != nil {
		return nil, err
	}

	if wbChampionWonGrandFinal(match) {
		if match.NextMatchID != nil {
			if err := c.setResetStatus(ctx, exec, *match.NextMatchID, models.MatchStatusCanceled, res); err != nil {
				return nil, err
			}
		}
	} else if match.WinnerID != nil {
		if match.NextMatchID != nil && match.NextMatchSlot != nil {
			if err := c.place(ctx, exec, *match.WinnerID, *match.NextMatchID, *match.NextMatchSlot, res); err != nil {
				return nil, err
			}
		}
		if loser := loserOf(match); loser != nil && match.LoserNextMatchID != nil && match.LoserNextMatchSlot != nil {
			if err := c.place(ctx, exec, *loser, *match.LoserNextMatchID, *match.LoserNextMatchSlot, res); err != nil {
				return nil, err
			}
		}
	}

	if err := c.checkCompletion(ctx, exec, tournament, match, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *advancementCoordinator) Reverse(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament, match *models.Match) (*AdvancementResult, error) {
	if match.Status != models.MatchStatusCompleted {
		return nil, fmt.Errorf("%w: match %d is %s", ErrInvalidState, match.ID, match.Status)
	}

	res := &AdvancementResult{}
	if wbChampionWonGrandFinal(match) {
		if match.NextMatchID != nil {
			if err := c.setResetStatus(ctx, exec, *match.NextMatchID, models.MatchStatusPending, res); err != nil {
				return nil, err
			}
		}
	} else if match.WinnerID != nil {
		if match.NextMatchID != nil && match.NextMatchSlot != nil {
			if err := c.unplace(ctx, exec, *match.WinnerID, *match.NextMatchID, *match.NextMatchSlot, res); err != nil {
				return nil, err
			}
		}
		if loser := loserOf(match); loser != nil && match.LoserNextMatchID != nil && match.LoserNextMatchSlot != nil {
			if err := c.unplace(ctx, exec, *loser, *match.LoserNextMatchID, *match.LoserNextMatchSlot, res); err != nil {
				return nil, err
			}
		}
	}

	if err := c.applyStats(ctx, exec, match, true); err != nil {
		return nil, err
	}

	if tournament.Status == models.StatusCompleted {
		if err := c.tournamentRepo.UpdateStatus(ctx, exec, tournament.ID, models.StatusActive); err != nil {
			return nil, handleRepositoryError(err)
		}
		if err := c.tournamentRepo.UpdateOverallWinner(ctx, exec, tournament.ID, nil); err != nil {
			return nil, handleRepositoryError(err)
		}
		tournament.Status = models.StatusActive
		tournament.CompletedAt = nil
		tournament.OverallWinnerParticipantID = nil
		res.TournamentReopened = true
		c.logger.InfoContext(ctx, "tournament reopened by undo",
			slog.Int("tournament_id", tournament.ID), slog.Int("match_id", match.ID))
	}
	return res, nil
}

func (c *advancementCoordinator) PropagateByes(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament) (*AdvancementResult, error) {
	matches, err := c.matchRepo.ListByTournament(ctx, exec, tournament.ID)
	if err != nil {
		return nil, err
	}
	res := &AdvancementResult{}
	for _, m := range matches {
		if m.Status != models.MatchStatusBye || m.WinnerID != nil {
			continue
		}
		// Только байи первого круга получают участника при генерации, остальные заполняет place.
		if m.Participant1ID == nil && m.Participant2ID == nil {
			continue
		}
		current, err := c.matchRepo.GetForUpdate(ctx, exec, m.ID)
		if err != nil {
			return nil, handleRepositoryError(err)
		}
		if current.WinnerID != nil {
			continue
		}
		if err := c.forwardBye(ctx, exec, current, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (c *advancementCoordinator) applyStats(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, reverse bool) error {
	d1, d2 := matchDeltas(match)
	if reverse {
		d1, d2 = d1.Negate(), d2.Negate()
	}
	if err := c.participantRepo.ApplyStats(ctx, exec, *match.Participant1ID, d1); err != nil {
		return handleRepositoryError(err)
	}
	if err := c.participantRepo.ApplyStats(ctx, exec, *match.Participant2ID, d2); err != nil {
		return handleRepositoryError(err)
	}
	return nil
}

// place writes participantID into slot of matchID. A bye target passes the entrant straight on.
func (c *advancementCoordinator) place(ctx context.Context, exec repositories.SQLExecutor, participantID, matchID, slot int, res *AdvancementResult) error {
	target, err := c.matchRepo.GetForUpdate(ctx, exec, matchID)
	if err != nil {
		return handleRepositoryError(err)
	}
	if current := target.Slot(slot); current != nil {
		if *current == participantID {
			return nil
		}
		return fmt.Errorf("%w: match %d slot %d", ErrSlotOccupied, matchID, slot)
	}
	if !target.Status.Open() && target.Status != models.MatchStatusBye {
		return fmt.Errorf("%w: match %d is %s", ErrDownstreamMatchStarted, matchID, target.Status)
	}

	id := participantID
	target.SetSlot(slot, &id)
	if target.Status == models.MatchStatusBye {
		return c.forwardBye(ctx, exec, target, res)
	}
	if err := c.matchRepo.Update(ctx, exec, target); err != nil {
		return handleRepositoryError(err)
	}
	res.touch(target)
	return nil
}

// forwardBye records the single entrant of bye as its winner and advances it.
func (c *advancementCoordinator) forwardBye(ctx context.Context, exec repositories.SQLExecutor, bye *models.Match, res *AdvancementResult) error {
	entrant := bye.Participant1ID
	if entrant == nil {
		entrant = bye.Participant2ID
	}
	if entrant == nil {
		return nil
	}
	winner := *entrant
	bye.WinnerID = &winner
	if err := c.matchRepo.Update(ctx, exec, bye); err != nil {
		return handleRepositoryError(err)
	}
	res.touch(bye)
	if bye.NextMatchID == nil || bye.NextMatchSlot == nil {
		return nil
	}
	return c.place(ctx, exec, winner, *bye.NextMatchID, *bye.NextMatchSlot, res)
}

// unplace clears slot of matchID if it still holds participantID.
func (c *advancementCoordinator) unplace(ctx context.Context, exec repositories.SQLExecutor, participantID, matchID, slot int, res *AdvancementResult) error {
	target, err := c.matchRepo.GetForUpdate(ctx, exec, matchID)
	if err != nil {
		return handleRepositoryError(err)
	}
	current := target.Slot(slot)
	if current == nil || *current != participantID {
		return nil
	}

	switch target.Status {
	case models.MatchStatusLive, models.MatchStatusCompleted:
		return fmt.Errorf("%w: match %d is %s", ErrDownstreamMatchStarted, matchID, target.Status)
	case models.MatchStatusBye:
		if target.WinnerID != nil && target.NextMatchID != nil && target.NextMatchSlot != nil {
			if err := c.unplace(ctx, exec, *target.WinnerID, *target.NextMatchID, *target.NextMatchSlot, res); err != nil {
				return err
			}
		}
		target.WinnerID = nil
	}

	target.SetSlot(slot, nil)
	if err := c.matchRepo.Update(ctx, exec, target); err != nil {
		return handleRepositoryError(err)
	}
	res.touch(target)
	return nil
}

func (c *advancementCoordinator) setResetStatus(ctx context.Context, exec repositories.SQLExecutor, resetID int, status models.MatchStatus, res *AdvancementResult) error {
	reset, err := c.matchRepo.GetForUpdate(ctx, exec, resetID)
	if err != nil {
		return handleRepositoryError(err)
	}
	if reset.Status == status {
		return nil
	}
	if reset.Status == models.MatchStatusLive || reset.Status == models.MatchStatusCompleted {
		return fmt.Errorf("%w: grand final reset %d is %s", ErrDownstreamMatchStarted, resetID, reset.Status)
	}
	reset.Status = status
	if err := c.matchRepo.Update(ctx, exec, reset); err != nil {
		return handleRepositoryError(err)
	}
	res.touch(reset)
	return nil
}

func (c *advancementCoordinator) checkCompletion(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament, match *models.Match, res *AdvancementResult) error {
	open, err := c.matchRepo.CountOpen(ctx, exec, tournament.ID)
	if err != nil {
		return err
	}
	if open > 0 {
		return nil
	}

	var champion *int
	if tournament.Format == models.FormatRoundRobin {
		participants, err := c.participantRepo.ListByTournament(ctx, exec, tournament.ID)
		if err != nil {
			return err
		}
		if standings := rankStandings(participants); len(standings) > 0 {
			id := standings[0].ParticipantID
			champion = &id
		}
	} else if match.WinnerID != nil {
		// последний матч сетки всегда финал
		id := *match.WinnerID
		champion = &id
	}

	if err := c.tournamentRepo.UpdateStatus(ctx, exec, tournament.ID, models.StatusCompleted); err != nil {
		return handleRepositoryError(err)
	}
	if err := c.tournamentRepo.UpdateOverallWinner(ctx, exec, tournament.ID, champion); err != nil {
		return handleRepositoryError(err)
	}

	now := time.Now()
	tournament.Status = models.StatusCompleted
	tournament.CompletedAt = &now
	tournament.OverallWinnerParticipantID = champion
	res.TournamentCompleted = true
	res.ChampionID = champion

	attrs := []any{slog.Int("tournament_id", tournament.ID), slog.Int("final_match_id", match.ID)}
	if champion != nil {
		attrs = append(attrs, slog.Int("champion_id", *champion))
	}
	c.logger.InfoContext(ctx, "tournament completed", attrs...)
	return nil
}
