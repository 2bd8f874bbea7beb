package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/scoring-engine/middleware"
	"github.com/Dosada05/scoring-engine/models"
	"github.com/Dosada05/scoring-engine/repositories"
	"github.com/Dosada05/scoring-engine/scoring"
	"github.com/Dosada05/scoring-engine/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
)

var testSecret = []byte("test-secret")

type stubTournamentService struct {
	services.TournamentService
	created   services.CreateTournamentInput
	actor     services.Actor
	lastQuery repositories.ListTournamentsFilter
	err       error
}

func (s *stubTournamentService) CreateTournament(_ context.Context, actor services.Actor, input services.CreateTournamentInput) (*models.Tournament, error) {
	s.actor, s.created = actor, input
	if s.err != nil {
		return nil, s.err
	}
	return &models.Tournament{ID: 7, Name: input.Name, OrganizerID: actor.UserID}, nil
}

func (s *stubTournamentService) GetTournamentByID(_ context.Context, id int) (*models.Tournament, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Tournament{ID: id}, nil
}

func (s *stubTournamentService) ListTournaments(_ context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	s.lastQuery = filter
	return []models.Tournament{}, s.err
}

type stubMatchService struct {
	services.MatchService
	event scoring.Event
	err   error
}

func (s *stubMatchService) ApplyEvent(_ context.Context, matchID int, event scoring.Event) (*services.MatchUpdate, error) {
	s.event = event
	if s.err != nil {
		return nil, s.err
	}
	return &services.MatchUpdate{Match: &models.Match{ID: matchID, Status: models.MatchStatusLive}}, nil
}

func (s *stubMatchService) GetMatch(_ context.Context, matchID int) (*models.Match, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Match{ID: matchID}, nil
}

func newRouter(ts services.TournamentService, ms services.MatchService) http.Handler {
	th := NewTournamentHandler(ts, nil)
	mh := NewMatchHandler(ms)
	r := chi.NewRouter()
	r.Get("/tournaments", th.ListHandler)
	r.Get("/tournaments/{tournamentID}", th.GetByIDHandler)
	r.With(middleware.Authenticate(testSecret)).Post("/tournaments", th.CreateHandler)
	r.Get("/matches/{matchID}", mh.GetHandler)
	r.Post("/matches/{matchID}/events", mh.EventHandler)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateTournamentHandler(t *testing.T) {
	ts := &stubTournamentService{}
	h := newRouter(ts, &stubMatchService{})
	token, err := middleware.IssueToken(testSecret, 3, models.RoleOrganizer, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	rec := do(t, h, http.MethodPost, "/tournaments", `{"name":"Open","sport":"tennis","format":"round_robin"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if diff := cmp.Diff(services.Actor{UserID: 3, Role: models.RoleOrganizer}, ts.actor); diff != "" {
		t.Errorf("actor (-want +got):\n%s", diff)
	}
	if ts.created.Sport != scoring.SportTennis || ts.created.Format != models.FormatRoundRobin {
		t.Errorf("input = %+v", ts.created)
	}

	if rec := do(t, h, http.MethodPost, "/tournaments", `{"name":"Open"}`, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/tournaments", `{"name":"Open","unknown":1}`, token); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field: status = %d", rec.Code)
	}
}

func TestListHandlerParsesQuery(t *testing.T) {
	ts := &stubTournamentService{}
	h := newRouter(ts, &stubMatchService{})

	rec := do(t, h, http.MethodGet, "/tournaments?organizer_id=4&status=active&limit=5&offset=10", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if *ts.lastQuery.OrganizerID != 4 || *ts.lastQuery.Status != models.StatusActive ||
		ts.lastQuery.Limit != 5 || ts.lastQuery.Offset != 10 {
		t.Errorf("filter = %+v", ts.lastQuery)
	}

	for _, q := range []string{"organizer_id=x", "status=paused", "limit=0", "offset=-1"} {
		if rec := do(t, h, http.MethodGet, "/tournaments?"+q, "", ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", q, rec.Code)
		}
	}
}

func TestEventHandler(t *testing.T) {
	ms := &stubMatchService{}
	h := newRouter(&stubTournamentService{}, ms)

	rec := do(t, h, http.MethodPost, "/matches/12/events", `{"type":"point","winner":2}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if diff := cmp.Diff(scoring.PointTo(scoring.Side2), ms.event); diff != "" {
		t.Errorf("event (-want +got):\n%s", diff)
	}
	var body services.MatchUpdate
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Match.ID != 12 {
		t.Errorf("match id = %d", body.Match.ID)
	}

	if rec := do(t, h, http.MethodPost, "/matches/abc/events", `{}`, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d", rec.Code)
	}
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", services.ErrMatchNotFound, http.StatusNotFound},
		{"invalid input", fmt.Errorf("wrapped: %w", scoring.ErrInvalidInput), http.StatusBadRequest},
		{"match not live", services.ErrMatchNotLive, http.StatusConflict},
		{"court busy", services.ErrCourtBusy, http.StatusConflict},
		{"forbidden", services.ErrForbiddenOperation, http.StatusForbidden},
		{"unknown", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newRouter(&stubTournamentService{}, &stubMatchService{err: tt.err})
			rec := do(t, h, http.MethodGet, "/matches/1", "", "")
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if !strings.Contains(rec.Body.String(), `"error"`) {
				t.Errorf("body should carry an error envelope: %s", rec.Body)
			}
		})
	}
}
