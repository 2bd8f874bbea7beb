package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/scoring-engine/brackets"
	"github.com/Dosada05/scoring-engine/models"
	"github.com/Dosada05/scoring-engine/repositories"
	"github.com/Dosada05/scoring-engine/scoring"
)

// maxConflictRetries ограничивает повторы при конфликте версий матча.
const maxConflictRetries = 3

// Broadcaster pushes messages to the live clients of a tournament. brackets.Hub implements it.
type Broadcaster interface {
	Publish(tournamentID int, messageType string, payload interface{})
}

type StartMatchInput struct {
	FirstServer scoring.Side `json:"first_server"`
	Court       *string      `json:"court,omitempty"`
}

// RecordResultInput is a manually entered final score, one pair per set.
type RecordResultInput struct {
	Sets []scoring.Pair `json:"sets"`
}

// MatchUpdate is what every scoring mutation returns and broadcasts.
type MatchUpdate struct {
	Match       *models.Match      `json:"match"`
	Result      *scoring.Result    `json:"result,omitempty"`
	Live        *scoring.LiveScore `json:"live,omitempty"`
	Advancement *AdvancementResult `json:"advancement,omitempty"`
}

type LiveScoreView struct {
	MatchID        int                `json:"match_id"`
	TournamentID   int                `json:"tournament_id"`
	Status         models.MatchStatus `json:"status"`
	Court          *string            `json:"court,omitempty"`
	Participant1ID *int               `json:"participant1_id,omitempty"`
	Participant2ID *int               `json:"participant2_id,omitempty"`
	WinnerID       *int               `json:"winner_id,omitempty"`
	Score          scoring.LiveScore  `json:"score"`
}

type MatchService interface {
	StartMatch(ctx context.Context, matchID int, input StartMatchInput) (*MatchUpdate, error)
	ApplyEvent(ctx context.Context, matchID int, event scoring.Event) (*MatchUpdate, error)
	Undo(ctx context.Context, matchID int) (*MatchUpdate, error)
	SetServer(ctx context.Context, matchID int, participant scoring.Side) (*MatchUpdate, error)
	RecordResult(ctx context.Context, matchID int, input RecordResultInput) (*MatchUpdate, error)
	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
	GetLiveScore(ctx context.Context, matchID int) (*LiveScoreView, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
}

type matchService struct {
	tx              repositories.Transactor
	matchRepo       repositories.MatchRepository
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	advancement     AdvancementCoordinator
	broadcaster     Broadcaster
	archiver        ResultArchiver
	logger          *slog.Logger
	now             func() time.Time
}

func NewMatchService(
	tx repositories.Transactor,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	advancement AdvancementCoordinator,
	broadcaster Broadcaster,
	archiver ResultArchiver,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tx:              tx,
		matchRepo:       matchRepo,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		advancement:     advancement,
		broadcaster:     broadcaster,
		archiver:        archiver,
		logger:          logger,
		now:             time.Now,
	}
}

// mutation is one scoring step run inside a transaction on a locked match.
type mutation func(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, m *models.Match) (*MatchUpdate, error)

// mutate locks the match, runs fn and commits. Version conflicts are retried.
func (s *matchService) mutate(ctx context.Context, matchID int, fn mutation) (*MatchUpdate, error) {
	var (
		update     *MatchUpdate
		tournament *models.Tournament
		err        error
	)
	for attempt := 1; ; attempt++ {
		err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
			m, err := s.matchRepo.GetForUpdate(ctx, exec, matchID)
			if err != nil {
				return handleRepositoryError(err)
			}
			tournament, err = s.tournamentRepo.GetByID(ctx, exec, m.TournamentID)
			if err != nil {
				return handleRepositoryError(err)
			}
			update, err = fn(ctx, exec, tournament, m)
			return err
		})
		if !errors.Is(err, ErrConcurrentUpdate) || attempt >= maxConflictRetries {
			break
		}
		s.logger.WarnContext(ctx, "match version conflict, retrying",
			slog.Int("match_id", matchID), slog.Int("attempt", attempt))
	}
	if err != nil {
		return nil, err
	}
	s.publish(ctx, tournament, update)
	return update, nil
}

func (s *matchService) StartMatch(ctx context.Context, matchID int, input StartMatchInput) (*MatchUpdate, error) {
	if input.Court != nil {
		court := strings.TrimSpace(*input.Court)
		input.Court = &court
		if court == "" {
			input.Court = nil
		}
	}
	return s.mutate(ctx, matchID, func(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, m *models.Match) (*MatchUpdate, error) {
		if t.Status != models.StatusActive {
			return nil, ErrTournamentNotActive
		}
		if m.Status != models.MatchStatusPending && m.Status != models.MatchStatusScheduled {
			return nil, fmt.Errorf("%w: match %d is %s", ErrMatchNotStartable, m.ID, m.Status)
		}
		if !m.HasBothParticipants() {
			return nil, ErrMatchParticipantsMissing
		}
		if input.Court != nil {
			m.Court = input.Court
		}
		if err := s.ensureCourtFree(ctx, exec, m); err != nil {
			return nil, err
		}

		cfg, err := t.Settings.Resolve(t.Sport)
		if err != nil {
			return nil, err
		}
		scorer, err := scoring.StartScorer(t.Sport, cfg, input.FirstServer)
		if err != nil {
			return nil, err
		}

		now := s.now()
		m.Status = models.MatchStatusLive
		m.StartedAt = &now
		if err := s.saveScorer(ctx, exec, m, scorer); err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "match started", slog.Int("match_id", m.ID), slog.Int("tournament_id", t.ID))

		live := scorer.Live()
		return &MatchUpdate{Match: m, Live: &live}, nil
	})
}

func (s *matchService) ApplyEvent(ctx context.Context, matchID int, event scoring.Event) (*MatchUpdate, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, matchID, func(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, m *models.Match) (*MatchUpdate, error) {
		if err := requireLive(m); err != nil {
			return nil, err
		}
		scorer, err := scoring.LoadScorer(t.Sport, m.State)
		if err != nil {
			return nil, err
		}
		res, err := scorer.Apply(event)
		if err != nil {
			return nil, err
		}

		update := &MatchUpdate{Match: m, Result: &res}
		if res.Completed {
			now := s.now()
			m.Status = models.MatchStatusCompleted
			m.WinnerID = m.ParticipantFor(res.Winner)
			m.CompletedAt = &now
		}
		if err := s.saveScorer(ctx, exec, m, scorer); err != nil {
			return nil, err
		}
		if res.Completed {
			adv, err := s.advancement.Complete(ctx, exec, t, m)
			if err != nil {
				return nil, err
			}
			update.Advancement = adv
			s.logger.InfoContext(ctx, "match completed",
				slog.Int("match_id", m.ID), slog.Int("winner_id", *m.WinnerID))
		}
		live := scorer.Live()
		update.Live = &live
		return update, nil
	})
}

func (s *matchService) Undo(ctx context.Context, matchID int) (*MatchUpdate, error) {
	return s.mutate(ctx, matchID, func(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, m *models.Match) (*MatchUpdate, error) {
		if m.Status != models.MatchStatusLive && m.Status != models.MatchStatusCompleted {
			return nil, fmt.Errorf("%w: match %d is %s", ErrMatchNotLive, m.ID, m.Status)
		}
		if m.Status == models.MatchStatusCompleted && len(m.State) == 0 {
			return s.revertManualResult(ctx, exec, t, m)
		}

		scorer, err := scoring.LoadScorer(t.Sport, m.State)
		if err != nil {
			return nil, err
		}
		res, err := scorer.Undo()
		if err != nil {
			return nil, err
		}

		update := &MatchUpdate{Match: m, Result: &res}
		if res.Reopened {
			// снова live: корт должен быть свободен
			if err := s.ensureCourtFree(ctx, exec, m); err != nil {
				return nil, err
			}
			completed := *m
			adv, err := s.advancement.Reverse(ctx, exec, t, &completed)
			if err != nil {
				return nil, err
			}
			update.Advancement = adv
			m.Status = models.MatchStatusLive
			m.WinnerID = nil
			m.CompletedAt = nil
			s.logger.InfoContext(ctx, "match reopened by undo", slog.Int("match_id", m.ID))
		}
		if err := s.saveScorer(ctx, exec, m, scorer); err != nil {
			return nil, err
		}
		live := scorer.Live()
		update.Live = &live
		return update, nil
	})
}

// revertManualResult reopens a match completed through RecordResult.
func (s *matchService) revertManualResult(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, m *models.Match) (*MatchUpdate, error) {
	completed := *m
	adv, err := s.advancement.Reverse(ctx, exec, t, &completed)
	if err != nil {
		return nil, err
	}
	m.Status = models.MatchStatusPending
	m.WinnerID = nil
	m.CompletedAt = nil
	m.StartedAt = nil
	m.ApplySummary(scoring.Summary{Sets: []scoring.Pair{}})
	if err := s.matchRepo.Update(ctx, exec, m); err != nil {
		return nil, handleRepositoryError(err)
	}
	return &MatchUpdate{Match: m, Advancement: adv}, nil
}

func (s *matchService) SetServer(ctx context.Context, matchID int, participant scoring.Side) (*MatchUpdate, error) {
	return s.mutate(ctx, matchID, func(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, m *models.Match) (*MatchUpdate, error) {
		if err := requireLive(m); err != nil {
			return nil, err
		}
		scorer, err := scoring.LoadScorer(t.Sport, m.State)
		if err != nil {
			return nil, err
		}
		if err := scorer.SetServer(participant); err != nil {
			return nil, err
		}
		if err := s.saveScorer(ctx, exec, m, scorer); err != nil {
			return nil, err
		}
		live := scorer.Live()
		return &MatchUpdate{Match: m, Live: &live}, nil
	})
}

func (s *matchService) RecordResult(ctx context.Context, matchID int, input RecordResultInput) (*MatchUpdate, error) {
	setsWon, err := tallySets(input.Sets)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, matchID, func(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, m *models.Match) (*MatchUpdate, error) {
		if t.Status != models.StatusActive {
			return nil, ErrTournamentNotActive
		}
		if m.Status == models.MatchStatusCompleted {
			return nil, ErrMatchAlreadyCompleted
		}
		if !m.Status.Open() {
			return nil, fmt.Errorf("%w: match %d is %s", ErrMatchNotStartable, m.ID, m.Status)
		}
		if !m.HasBothParticipants() {
			return nil, ErrMatchParticipantsMissing
		}
		winner := setsWon.Leader()
		if winner == scoring.SideNone && !t.Format.AllowsDraws() {
			return nil, ErrTiedResult
		}

		now := s.now()
		if m.StartedAt == nil {
			m.StartedAt = &now
		}
		m.Status = models.MatchStatusCompleted
		m.CompletedAt = &now
		m.WinnerID = m.ParticipantFor(winner)
		// ручной результат заменяет состояние движка
		m.State = nil
		m.ApplySummary(scoring.Summary{Sets: input.Sets, SetsWon: setsWon})
		if err := s.matchRepo.Update(ctx, exec, m); err != nil {
			return nil, handleRepositoryError(err)
		}

		adv, err := s.advancement.Complete(ctx, exec, t, m)
		if err != nil {
			return nil, err
		}
		return &MatchUpdate{Match: m, Advancement: adv}, nil
	})
}

func (s *matchService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return m, nil
}

func (s *matchService) GetLiveScore(ctx context.Context, matchID int) (*LiveScoreView, error) {
	m, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	t, err := s.tournamentRepo.GetByID(ctx, nil, m.TournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	scorer, err := scoring.LoadScorer(t.Sport, m.State)
	if err != nil {
		return nil, err
	}
	return &LiveScoreView{
		MatchID:        m.ID,
		TournamentID:   m.TournamentID,
		Status:         m.Status,
		Court:          m.Court,
		Participant1ID: m.Participant1ID,
		Participant2ID: m.Participant2ID,
		WinnerID:       m.WinnerID,
		Score:          scorer.Live(),
	}, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

func requireLive(m *models.Match) error {
	switch m.Status {
	case models.MatchStatusLive:
		return nil
	case models.MatchStatusCompleted:
		return ErrMatchAlreadyCompleted
	}
	return fmt.Errorf("%w: match %d is %s", ErrMatchNotLive, m.ID, m.Status)
}

func (s *matchService) ensureCourtFree(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	if m.Court == nil {
		return nil
	}
	busy, err := s.matchRepo.CourtBusy(ctx, exec, *m.Court, m.ID)
	if err != nil {
		return err
	}
	if busy {
		return fmt.Errorf("%w: court %q", ErrCourtBusy, *m.Court)
	}
	return nil
}

// saveScorer copies the engine state and its summary onto m and writes the row.
func (s *matchService) saveScorer(ctx context.Context, exec repositories.SQLExecutor, m *models.Match, scorer scoring.Scorer) error {
	raw, err := json.Marshal(scorer)
	if err != nil {
		return fmt.Errorf("failed to encode scoring state of match %d: %w", m.ID, err)
	}
	m.State = raw
	m.ApplySummary(scorer.Summary())
	if err := s.matchRepo.Update(ctx, exec, m); err != nil {
		return handleRepositoryError(err)
	}
	return nil
}

func tallySets(sets []scoring.Pair) (scoring.Pair, error) {
	if len(sets) == 0 {
		return scoring.Pair{}, fmt.Errorf("%w: at least one set is required", ErrInvalidInput)
	}
	var won scoring.Pair
	for i, set := range sets {
		if set[0] < 0 || set[1] < 0 {
			return scoring.Pair{}, fmt.Errorf("%w: set %d has a negative score", ErrInvalidInput, i+1)
		}
		leader := set.Leader()
		if leader == scoring.SideNone {
			return scoring.Pair{}, fmt.Errorf("%w: set %d is tied", ErrInvalidSetScore, i+1)
		}
		won = won.Inc(leader)
	}
	return won, nil
}

// publish runs after commit. Failures here never undo the write.
func (s *matchService) publish(ctx context.Context, t *models.Tournament, update *MatchUpdate) {
	if update == nil || t == nil {
		return
	}
	if s.broadcaster != nil {
		s.broadcaster.Publish(t.ID, brackets.MessageMatchUpdated, update)
	}
	if update.Advancement == nil || !update.Advancement.TournamentCompleted {
		return
	}
	if s.broadcaster != nil {
		s.broadcaster.Publish(t.ID, brackets.MessageTournamentCompleted, map[string]interface{}{
			"tournament_id": t.ID,
			"champion_id":   update.Advancement.ChampionID,
		})
	}
	if s.archiver != nil {
		// после коммита турнир уже completed и с победителем
		if fresh, err := s.tournamentRepo.GetByID(ctx, nil, t.ID); err == nil {
			t = fresh
		}
		if _, err := archiveTournament(ctx, s.archiver, t, s.participantRepo, s.matchRepo); err != nil {
			s.logger.ErrorContext(ctx, "failed to archive tournament results",
				slog.Int("tournament_id", t.ID), slog.Any("error", err))
		}
	}
}
