package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/scoring-engine/repositories"
	"github.com/Dosada05/scoring-engine/scoring"
)

// Классы ошибок. Все ошибки сервисов оборачивают один из них, handlers маппят по классу.
var (
	ErrNotFound     = scoring.ErrNotFound
	ErrInvalidState = scoring.ErrInvalidState
	ErrInvalidInput = scoring.ErrInvalidInput
)

var (
	// Ресурс не найден
	ErrTournamentNotFound  = fmt.Errorf("%w: tournament", ErrNotFound)
	ErrMatchNotFound       = fmt.Errorf("%w: match", ErrNotFound)
	ErrParticipantNotFound = fmt.Errorf("%w: participant", ErrNotFound)

	// Ошибки валидации
	ErrTournamentNameRequired  = fmt.Errorf("%w: tournament name is required", ErrInvalidInput)
	ErrParticipantNameRequired = fmt.Errorf("%w: participant name is required", ErrInvalidInput)
	ErrInvalidSport            = fmt.Errorf("%w: unsupported sport", ErrInvalidInput)
	ErrInvalidFormat           = fmt.Errorf("%w: unsupported tournament format", ErrInvalidInput)
	ErrInvalidSeed             = fmt.Errorf("%w: seed must be positive", ErrInvalidInput)
	ErrInvalidSetScore         = fmt.Errorf("%w: every set needs a winner", ErrInvalidInput)

	// Ошибки состояния матча
	ErrMatchNotLive             = fmt.Errorf("%w: match is not live", ErrInvalidState)
	ErrMatchAlreadyCompleted    = fmt.Errorf("%w: match is already completed", ErrInvalidState)
	ErrMatchNotStartable        = fmt.Errorf("%w: match cannot be started from its current status", ErrInvalidState)
	ErrMatchParticipantsMissing = fmt.Errorf("%w: match needs both participants", ErrInvalidState)
	ErrCourtBusy                = fmt.Errorf("%w: another match is live on this court", ErrInvalidState)
	ErrTiedResult               = fmt.Errorf("%w: elimination matches cannot end in a tie", ErrInvalidState)
	ErrDownstreamMatchStarted   = fmt.Errorf("%w: a dependent match has already started", ErrInvalidState)
	ErrSlotOccupied             = fmt.Errorf("%w: bracket slot already holds another participant", ErrInvalidState)
	ErrConcurrentUpdate         = fmt.Errorf("%w: match was modified concurrently, retry", ErrInvalidState)

	// Ошибки турниров
	ErrTournamentNotActive               = fmt.Errorf("%w: tournament is not active", ErrInvalidState)
	ErrRegistrationNotOpen               = fmt.Errorf("%w: tournament registration is not open", ErrInvalidState)
	ErrTournamentInvalidStatusTransition = fmt.Errorf("%w: invalid tournament status transition", ErrInvalidState)
	ErrBracketAlreadyGenerated           = fmt.Errorf("%w: bracket already generated", ErrInvalidState)
	ErrNotEnoughParticipants             = fmt.Errorf("%w: at least 2 participants are required", ErrInvalidState)

	// Ошибки конфликтов
	ErrTournamentNameConflict = fmt.Errorf("%w: tournament name already exists", ErrInvalidState)
	ErrParticipantConflict    = fmt.Errorf("%w: participant name or seed already taken", ErrInvalidState)

	// Ошибки авторизации
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
)

// handleRepositoryError переводит ошибки репозиториев в ошибки сервисов.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrParticipantNotFound):
		return ErrParticipantNotFound
	case errors.Is(err, repositories.ErrMatchVersionConflict):
		return ErrConcurrentUpdate
	case errors.Is(err, repositories.ErrMatchCourtTaken):
		return ErrCourtBusy
	case errors.Is(err, repositories.ErrTournamentNameConflict):
		return ErrTournamentNameConflict
	case errors.Is(err, repositories.ErrParticipantConflict):
		return ErrParticipantConflict
	case errors.Is(err, repositories.ErrParticipantTournamentInvalid):
		return ErrTournamentNotFound
	}
	return err
}
