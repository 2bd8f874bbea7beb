package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/scoring-engine/brackets"
	"github.com/Dosada05/scoring-engine/models"
	"github.com/Dosada05/scoring-engine/repositories"
	"golang.org/x/sync/errgroup"
)

type BracketService interface {
	// SaveBracket generates and stores the whole bracket on the caller's transaction.
	SaveBracket(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament) ([]*models.Match, error)
	GenerateAndSaveBracket(ctx context.Context, tournament *models.Tournament) ([]*models.Match, error)
	GetFullTournamentData(ctx context.Context, tournamentID int) (*models.Tournament, error)
}

type bracketService struct {
	tx              repositories.Transactor
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	advancement     AdvancementCoordinator
	broadcaster     Broadcaster
	logger          *slog.Logger
}

func NewBracketService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	advancement AdvancementCoordinator,
	broadcaster Broadcaster,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		tx:              tx,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		advancement:     advancement,
		broadcaster:     broadcaster,
		logger:          logger,
	}
}

func (s *bracketService) GenerateAndSaveBracket(ctx context.Context, tournament *models.Tournament) ([]*models.Match, error) {
	var matches []*models.Match
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		matches, err = s.SaveBracket(ctx, exec, tournament)
		return err
	})
	if err != nil {
		return nil, err
	}
	if s.broadcaster != nil {
		s.broadcaster.Publish(tournament.ID, brackets.MessageBracketGenerated, matches)
	}
	return matches, nil
}

func (s *bracketService) SaveBracket(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament) ([]*models.Match, error) {
	existing, err := s.matchRepo.ListByTournament(ctx, exec, tournament.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: tournament %d has %d matches", ErrBracketAlreadyGenerated, tournament.ID, len(existing))
	}

	participants, err := s.participantRepo.ListByTournament(ctx, exec, tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for tournament %d: %w", tournament.ID, err)
	}
	ids := make([]int, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}

	s.logger.InfoContext(ctx, "generating bracket",
		slog.Int("tournament_id", tournament.ID),
		slog.String("format", string(tournament.Format)),
		slog.Int("participants", len(ids)))

	drafts, err := brackets.Generate(ctx, tournament.Format, ids)
	if err != nil {
		return nil, mapBracketError(err)
	}

	// Первый проход: создаём матчи без связей
	matchIDs := make([]int, len(drafts))
	for i, d := range drafts {
		m := d.NewMatch(tournament.ID)
		if err := s.matchRepo.Create(ctx, exec, m); err != nil {
			return nil, fmt.Errorf("failed to create match for draft %d: %w", d.Index, err)
		}
		matchIDs[i] = m.ID
	}

	// Второй проход: индексы черновиков -> реальные ID
	resolved, err := brackets.Resolve(drafts, matchIDs)
	if err != nil {
		return nil, err
	}
	for _, pm := range resolved {
		if pm.NextMatchID == nil && pm.LoserNextMatchID == nil {
			continue
		}
		if err := s.matchRepo.UpdateLinks(ctx, exec, pm.ID, pm.NextMatchID, pm.NextMatchSlot, pm.LoserNextMatchID, pm.LoserNextMatchSlot); err != nil {
			return nil, err
		}
	}

	if _, err := s.advancement.PropagateByes(ctx, exec, tournament); err != nil {
		return nil, fmt.Errorf("failed to advance byes for tournament %d: %w", tournament.ID, err)
	}

	s.logger.InfoContext(ctx, "bracket saved",
		slog.Int("tournament_id", tournament.ID), slog.Int("matches", len(drafts)))
	return s.matchRepo.ListByTournament(ctx, exec, tournament.ID)
}

func mapBracketError(err error) error {
	switch {
	case errors.Is(err, brackets.ErrNotEnoughParticipants):
		return fmt.Errorf("%w: %v", ErrNotEnoughParticipants, err)
	case errors.Is(err, brackets.ErrDuplicateParticipant):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, brackets.ErrUnsupportedFormat):
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return err
}

// GetFullTournamentData loads the tournament with its participants and matches in parallel.
func (s *bracketService) GetFullTournamentData(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	var (
		tournament   *models.Tournament
		participants []*models.Participant
		matches      []*models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := s.tournamentRepo.GetByID(gCtx, nil, tournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}
		tournament = t
		return nil
	})

	g.Go(func() error {
		list, err := s.participantRepo.ListByTournament(gCtx, nil, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to fetch participants for tournament %d: %w", tournamentID, err)
		}
		participants = list
		return nil
	})

	g.Go(func() error {
		list, err := s.matchRepo.ListByTournament(gCtx, nil, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to fetch matches for tournament %d: %w", tournamentID, err)
		}
		matches = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	tournament.Participants = make([]models.Participant, 0, len(participants))
	for _, p := range participants {
		if p != nil {
			tournament.Participants = append(tournament.Participants, *p)
		}
	}
	tournament.Matches = make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if m != nil {
			tournament.Matches = append(tournament.Matches, *m)
		}
	}
	return tournament, nil
}
