package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dosada05/scoring-engine/models"
	"github.com/Dosada05/scoring-engine/repositories"
	"github.com/Dosada05/scoring-engine/storage"
)

// ResultArchiver stores a snapshot of finished tournaments. storage.JSONArchiver implements it.
type ResultArchiver interface {
	Archive(ctx context.Context, name string, payload interface{}) (*storage.UploadResult, error)
}

// TournamentArchive is the document written when a tournament completes.
type TournamentArchive struct {
	Tournament *models.Tournament `json:"tournament"`
	Standings  []models.Standing  `json:"standings"`
	Matches    []*models.Match    `json:"matches"`
	ArchivedAt time.Time          `json:"archived_at"`
}

func archiveTournament(
	ctx context.Context,
	archiver ResultArchiver,
	tournament *models.Tournament,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
) (*storage.UploadResult, error) {
	participants, err := participantRepo.ListByTournament(ctx, nil, tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("archive: failed to load participants: %w", err)
	}
	matches, err := matchRepo.ListByTournament(ctx, nil, tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("archive: failed to load matches: %w", err)
	}
	doc := TournamentArchive{
		Tournament: tournament,
		Standings:  rankStandings(participants),
		Matches:    matches,
		ArchivedAt: time.Now().UTC(),
	}
	return archiver.Archive(ctx, fmt.Sprintf("tournament-%d", tournament.ID), doc)
}
