package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/scoring-engine/brackets"
	"github.com/Dosada05/scoring-engine/models"
	"github.com/Dosada05/scoring-engine/repositories"
	"github.com/Dosada05/scoring-engine/scoring"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID int
	Role   models.UserRole
}

type CreateTournamentInput struct {
	Name     string                  `json:"name"`
	Sport    scoring.Sport           `json:"sport"`
	Format   models.TournamentFormat `json:"format"`
	Settings models.ScoringSettings  `json:"settings"`
}

type AddParticipantInput struct {
	Name string `json:"name"`
	// Seed по умолчанию: следующий свободный номер.
	Seed *int `json:"seed,omitempty"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, actor Actor, input CreateTournamentInput) (*models.Tournament, error)
	GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	AddParticipant(ctx context.Context, actor Actor, tournamentID int, input AddParticipantInput) (*models.Participant, error)
	ListParticipants(ctx context.Context, tournamentID int) ([]*models.Participant, error)
	// StartTournament closes registration and generates the bracket atomically.
	StartTournament(ctx context.Context, actor Actor, tournamentID int) (*models.Tournament, error)
	CancelTournament(ctx context.Context, actor Actor, tournamentID int) error
	GetStandings(ctx context.Context, tournamentID int) ([]models.Standing, error)
	GetRoundCount(ctx context.Context, tournamentID int) (int, error)
}

type tournamentService struct {
	tx              repositories.Transactor
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	bracketService  BracketService
	broadcaster     Broadcaster
	logger          *slog.Logger
}

func NewTournamentService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	bracketService BracketService,
	broadcaster Broadcaster,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tx:              tx,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		bracketService:  bracketService,
		broadcaster:     broadcaster,
		logger:          logger,
	}
}

func canManage(t *models.Tournament, actor Actor) bool {
	return actor.Role == models.RoleAdmin || t.OrganizerID == actor.UserID
}

func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowedTransitions := map[models.TournamentStatus][]models.TournamentStatus{
		models.StatusRegistration: {models.StatusActive, models.StatusCanceled},
		models.StatusActive:       {models.StatusCompleted, models.StatusCanceled},
		models.StatusCompleted:    {models.StatusActive},
		models.StatusCanceled:     {},
	}
	for _, allowedNextStatus := range allowedTransitions[current] {
		if next == allowedNextStatus {
			return true
		}
	}
	return false
}

func (s *tournamentService) CreateTournament(ctx context.Context, actor Actor, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if input.Sport != scoring.SportTennis && input.Sport != scoring.SportVolleyball {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSport, input.Sport)
	}
	if !input.Format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, input.Format)
	}
	if _, err := input.Settings.Resolve(input.Sport); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Name:        name,
		Sport:       input.Sport,
		Format:      input.Format,
		Status:      models.StatusRegistration,
		Settings:    input.Settings,
		OrganizerID: actor.UserID,
	}
	if err := s.tournamentRepo.Create(ctx, nil, tournament); err != nil {
		return nil, handleRepositoryError(err)
	}
	s.logger.InfoContext(ctx, "tournament created",
		slog.Int("tournament_id", tournament.ID), slog.Int("organizer_id", actor.UserID))
	return tournament, nil
}

func (s *tournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return t, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.tournamentRepo.List(ctx, filter)
}

func (s *tournamentService) AddParticipant(ctx context.Context, actor Actor, tournamentID int, input AddParticipantInput) (*models.Participant, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrParticipantNameRequired
	}
	if input.Seed != nil && *input.Seed < 1 {
		return nil, ErrInvalidSeed
	}

	participant := &models.Participant{TournamentID: tournamentID, Name: name}
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		t, err := s.tournamentRepo.GetForUpdate(ctx, exec, tournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if !canManage(t, actor) {
			return ErrForbiddenOperation
		}
		if t.Status != models.StatusRegistration {
			return ErrRegistrationNotOpen
		}
		if input.Seed != nil {
			participant.Seed = *input.Seed
		} else {
			existing, err := s.participantRepo.ListByTournament(ctx, exec, tournamentID)
			if err != nil {
				return err
			}
			participant.Seed = nextSeed(existing)
		}
		return handleRepositoryError(s.participantRepo.Create(ctx, exec, participant))
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}

func nextSeed(existing []*models.Participant) int {
	seed := 1
	for _, p := range existing {
		if p.Seed >= seed {
			seed = p.Seed + 1
		}
	}
	return seed
}

func (s *tournamentService) ListParticipants(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	return s.participantRepo.ListByTournament(ctx, nil, tournamentID)
}

func (s *tournamentService) StartTournament(ctx context.Context, actor Actor, tournamentID int) (*models.Tournament, error) {
	var (
		tournament *models.Tournament
		matches    []*models.Match
	)
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		t, err := s.tournamentRepo.GetForUpdate(ctx, exec, tournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if !canManage(t, actor) {
			return ErrForbiddenOperation
		}
		if t.Status != models.StatusRegistration || !isValidStatusTransition(t.Status, models.StatusActive) {
			return fmt.Errorf("%w: %s -> %s", ErrTournamentInvalidStatusTransition, t.Status, models.StatusActive)
		}
		if err := s.tournamentRepo.UpdateStatus(ctx, exec, t.ID, models.StatusActive); err != nil {
			return handleRepositoryError(err)
		}
		t.Status = models.StatusActive

		matches, err = s.bracketService.SaveBracket(ctx, exec, t)
		if err != nil {
			return err
		}
		tournament, err = s.tournamentRepo.GetByID(ctx, exec, t.ID)
		return handleRepositoryError(err)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tournament started",
		slog.Int("tournament_id", tournament.ID), slog.Int("matches", len(matches)))
	if s.broadcaster != nil {
		s.broadcaster.Publish(tournament.ID, brackets.MessageBracketGenerated, matches)
	}
	tournament.Matches = make([]models.Match, 0, len(matches))
	for _, m := range matches {
		tournament.Matches = append(tournament.Matches, *m)
	}
	return tournament, nil
}

func (s *tournamentService) CancelTournament(ctx context.Context, actor Actor, tournamentID int) error {
	return s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		t, err := s.tournamentRepo.GetForUpdate(ctx, exec, tournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if !canManage(t, actor) {
			return ErrForbiddenOperation
		}
		if t.Status == models.StatusCanceled || !isValidStatusTransition(t.Status, models.StatusCanceled) {
			return fmt.Errorf("%w: %s -> %s", ErrTournamentInvalidStatusTransition, t.Status, models.StatusCanceled)
		}
		return handleRepositoryError(s.tournamentRepo.UpdateStatus(ctx, exec, t.ID, models.StatusCanceled))
	})
}

func (s *tournamentService) GetStandings(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	participants, err := s.ListParticipants(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return rankStandings(participants), nil
}

func (s *tournamentService) GetRoundCount(ctx context.Context, tournamentID int) (int, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return 0, handleRepositoryError(err)
	}
	participants, err := s.participantRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return 0, err
	}
	rounds, err := brackets.RoundsForFormat(t.Format, len(participants))
	if err != nil {
		return 0, mapBracketError(err)
	}
	return rounds, nil
}
