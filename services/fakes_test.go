package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/scoring-engine/models"
	"github.com/Dosada05/scoring-engine/repositories"
	"github.com/Dosada05/scoring-engine/scoring"
	"github.com/Dosada05/scoring-engine/storage"
)

// memStore is an in-memory stand-in for the postgres repositories.
// WithinTx snapshots the store and restores it when fn fails.
type memStore struct {
	mu           sync.Mutex
	nextID       int
	tournaments  map[int]models.Tournament
	participants map[int]models.Participant
	matches      map[int]models.Match

	// conflicts makes the next N match updates fail with a version conflict.
	conflicts int
}

func newMemStore() *memStore {
	return &memStore{
		tournaments:  map[int]models.Tournament{},
		participants: map[int]models.Participant{},
		matches:      map[int]models.Match{},
	}
}

func (s *memStore) id() int {
	s.nextID++
	return s.nextID
}

func copyMatch(m models.Match) models.Match {
	m.ScoreSets = append([]scoring.Pair{}, m.ScoreSets...)
	if m.State != nil {
		m.State = append([]byte(nil), m.State...)
	}
	return m
}

func (s *memStore) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	s.mu.Lock()
	tournaments := make(map[int]models.Tournament, len(s.tournaments))
	for k, v := range s.tournaments {
		tournaments[k] = v
	}
	participants := make(map[int]models.Participant, len(s.participants))
	for k, v := range s.participants {
		participants[k] = v
	}
	matches := make(map[int]models.Match, len(s.matches))
	for k, v := range s.matches {
		matches[k] = copyMatch(v)
	}
	nextID := s.nextID
	s.mu.Unlock()

	if err := fn(nil); err != nil {
		s.mu.Lock()
		s.tournaments, s.participants, s.matches, s.nextID = tournaments, participants, matches, nextID
		s.mu.Unlock()
		return err
	}
	return nil
}

type memTournamentRepo struct{ s *memStore }

func (r memTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.tournaments {
		if existing.OrganizerID == t.OrganizerID && existing.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	t.ID = r.s.id()
	t.CreatedAt = time.Now()
	r.s.tournaments[t.ID] = *t
	return nil
}

func (r memTournamentRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (r memTournamentRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	return r.GetByID(ctx, exec, id)
}

func (r memTournamentRepo) List(_ context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Tournament, 0)
	for _, t := range r.s.tournaments {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.OrganizerID != nil && t.OrganizerID != *filter.OrganizerID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if filter.Offset >= len(out) {
		return []models.Tournament{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r memTournamentRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	now := time.Now()
	t.Status = status
	if status == models.StatusActive && t.StartedAt == nil {
		t.StartedAt = &now
	}
	t.CompletedAt = nil
	if status == models.StatusCompleted {
		t.CompletedAt = &now
	}
	r.s.tournaments[id] = t
	return nil
}

func (r memTournamentRepo) UpdateOverallWinner(_ context.Context, _ repositories.SQLExecutor, id int, winner *int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.OverallWinnerParticipantID = winner
	r.s.tournaments[id] = t
	return nil
}

type memParticipantRepo struct{ s *memStore }

func (r memParticipantRepo) Create(_ context.Context, _ repositories.SQLExecutor, p *models.Participant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tournaments[p.TournamentID]; !ok {
		return repositories.ErrParticipantTournamentInvalid
	}
	for _, existing := range r.s.participants {
		if existing.TournamentID == p.TournamentID && (existing.Name == p.Name || existing.Seed == p.Seed) {
			return repositories.ErrParticipantConflict
		}
	}
	p.ID = r.s.id()
	p.CreatedAt = time.Now()
	r.s.participants[p.ID] = *p
	return nil
}

func (r memParticipantRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.participants[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	return &p, nil
}

func (r memParticipantRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]*models.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Participant, 0)
	for _, p := range r.s.participants {
		if p.TournamentID == tournamentID {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seed != out[j].Seed {
			return out[i].Seed < out[j].Seed
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r memParticipantRepo) ApplyStats(_ context.Context, _ repositories.SQLExecutor, id int, d models.StatsDelta) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.Wins += d.Wins
	p.Losses += d.Losses
	p.Draws += d.Draws
	p.PointsFor += d.PointsFor
	p.PointsAgainst += d.PointsAgainst
	r.s.participants[id] = p
	return nil
}

type memMatchRepo struct{ s *memStore }

func (r memMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tournaments[m.TournamentID]; !ok {
		return repositories.ErrMatchTournamentInvalid
	}
	m.ID = r.s.id()
	m.Version = 1
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	r.s.matches[m.ID] = copyMatch(*m)
	return nil
}

func (r memMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	m = copyMatch(m)
	return &m, nil
}

func (r memMatchRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	return r.GetByID(ctx, exec, id)
}

func (r memMatchRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]*models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, m := range r.s.matches {
		if m.TournamentID == tournamentID {
			m := copyMatch(m)
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memMatchRepo) Update(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.matches[m.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if r.s.conflicts > 0 {
		r.s.conflicts--
		return repositories.ErrMatchVersionConflict
	}
	if stored.Version != m.Version {
		return repositories.ErrMatchVersionConflict
	}
	m.Version++
	m.UpdatedAt = time.Now()
	r.s.matches[m.ID] = copyMatch(*m)
	return nil
}

func (r memMatchRepo) UpdateLinks(_ context.Context, _ repositories.SQLExecutor, matchID int, nextID, nextSlot, loserNextID, loserNextSlot *int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.NextMatchID, m.NextMatchSlot = nextID, nextSlot
	m.LoserNextMatchID, m.LoserNextMatchSlot = loserNextID, loserNextSlot
	r.s.matches[matchID] = m
	return nil
}

func (r memMatchRepo) CountOpen(_ context.Context, _ repositories.SQLExecutor, tournamentID int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, m := range r.s.matches {
		if m.TournamentID == tournamentID && m.Status.Open() {
			n++
		}
	}
	return n, nil
}

func (r memMatchRepo) CourtBusy(_ context.Context, _ repositories.SQLExecutor, court string, excludeMatchID int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.matches {
		if m.ID != excludeMatchID && m.Status == models.MatchStatusLive && m.Court != nil && *m.Court == court {
			return true, nil
		}
	}
	return false, nil
}

type publishedMessage struct {
	TournamentID int
	Type         string
	Payload      interface{}
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []publishedMessage
}

func (b *recordingBroadcaster) Publish(tournamentID int, messageType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, publishedMessage{tournamentID, messageType, payload})
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.messages))
	for i, m := range b.messages {
		out[i] = m.Type
	}
	return out
}

type recordingArchiver struct {
	names    []string
	payloads []interface{}
}

func (a *recordingArchiver) Archive(_ context.Context, name string, payload interface{}) (*storage.UploadResult, error) {
	a.names = append(a.names, name)
	a.payloads = append(a.payloads, payload)
	return &storage.UploadResult{Key: "archive/" + name}, nil
}

// testEnv wires every service over one memStore.
type testEnv struct {
	store        *memStore
	broadcaster  *recordingBroadcaster
	archiver     *recordingArchiver
	tournaments  TournamentService
	matches      MatchService
	bracket      BracketService
	advancement  AdvancementCoordinator
	organizer    Actor
	participants memParticipantRepo
	matchRepo    memMatchRepo
}

func newTestEnv() *testEnv {
	store := newMemStore()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	tRepo, pRepo, mRepo := memTournamentRepo{store}, memParticipantRepo{store}, memMatchRepo{store}
	b := &recordingBroadcaster{}
	a := &recordingArchiver{}

	adv := NewAdvancementCoordinator(mRepo, pRepo, tRepo, logger)
	bracket := NewBracketService(store, tRepo, pRepo, mRepo, adv, b, logger)
	return &testEnv{
		store:        store,
		broadcaster:  b,
		archiver:     a,
		tournaments:  NewTournamentService(store, tRepo, pRepo, bracket, b, logger),
		matches:      NewMatchService(store, mRepo, tRepo, pRepo, adv, b, a, logger),
		bracket:      bracket,
		advancement:  adv,
		organizer:    Actor{UserID: 1, Role: models.RoleOrganizer},
		participants: pRepo,
		matchRepo:    mRepo,
	}
}
