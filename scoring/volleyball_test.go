package scoring

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newVolleyball(t *testing.T) VolleyballState {
	t.Helper()
	s, err := InitVolleyball(DefaultVolleyballConfig(), Side1)
	if err != nil {
		t.Fatalf("InitVolleyball: %v", err)
	}
	return s
}

func rallies(t *testing.T, s VolleyballState, w Side, n int) VolleyballState {
	t.Helper()
	for i := 0; i < n; i++ {
		var err error
		s, _, err = ApplyVolleyball(s, PointTo(w))
		if err != nil {
			t.Fatalf("rally %d: %v", i, err)
		}
	}
	return s
}

func TestVolleyballSetNeedsTwoPointLead(t *testing.T) {
	s := newVolleyball(t)
	for i := 0; i < 24; i++ {
		s = rallies(t, s, Side1, 1)
		s = rallies(t, s, Side2, 1)
	}
	if s.CurrentSetPoints != (Pair{24, 24}) {
		t.Fatalf("points = %v", s.CurrentSetPoints)
	}
	s, res, err := ApplyVolleyball(s, PointTo(Side2))
	if err != nil || res.Outcome != Continue {
		t.Fatalf("24-25 must continue: %v %v", res.Outcome, err)
	}
	s, res, err = ApplyVolleyball(s, PointTo(Side2))
	if err != nil || res.Outcome != SetOver {
		t.Fatalf("24-26 should end the set: %v %v", res.Outcome, err)
	}
	if diff := cmp.Diff([]Pair{{24, 26}}, s.Sets); diff != "" {
		t.Fatalf("sets (-want +got):\n%s", diff)
	}
}

func TestVolleyballServeFollowsRally(t *testing.T) {
	s := newVolleyball(t)
	s = rallies(t, s, Side2, 1)
	if s.ServingParticipant != Side2 {
		t.Fatalf("rally winner should serve next")
	}

	s, _, err := ApplyVolleyball(s, Ace())
	if err != nil {
		t.Fatalf("ace: %v", err)
	}
	if s.CurrentSetPoints != (Pair{0, 2}) || s.Aces != (Pair{0, 1}) {
		t.Fatalf("ace should credit the server: %+v", s.VolleyballScore)
	}

	s, _, err = ApplyVolleyball(s, Fault())
	if err != nil {
		t.Fatalf("fault: %v", err)
	}
	if s.CurrentSetPoints != (Pair{1, 2}) || s.ServiceErrors != (Pair{0, 1}) || s.ServingParticipant != Side1 {
		t.Fatalf("service error should hand point and serve to the receiver: %+v", s.VolleyballScore)
	}

	if _, _, err := ApplyVolleyball(s, DoubleFault()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("double fault is not a volleyball event, got %v", err)
	}
}

func TestVolleyballDecidingSet(t *testing.T) {
	s := newVolleyball(t)
	s = rallies(t, s, Side1, 25)
	s = rallies(t, s, Side2, 25)
	s = rallies(t, s, Side1, 25)
	s = rallies(t, s, Side2, 25)
	if got := s.SetTarget(); got != DefaultVolleyballDecidingTarget {
		t.Fatalf("deciding set target = %d", got)
	}
	s = rallies(t, s, Side1, 14)
	last, res, err := ApplyVolleyball(s, PointTo(Side1))
	if err != nil {
		t.Fatalf("ApplyVolleyball: %v", err)
	}
	if !res.Completed || res.Winner != Side1 || !last.IsMatchComplete {
		t.Fatalf("15-0 in the fifth should win the match: %+v", res)
	}
	if got := last.Summary().SetsWon; got != (Pair{3, 2}) {
		t.Fatalf("sets won = %v", got)
	}

	undone, res, err := UndoVolleyball(last)
	if err != nil {
		t.Fatalf("UndoVolleyball: %v", err)
	}
	if !res.Reopened || undone.IsMatchComplete || undone.CurrentSetPoints != (Pair{14, 0}) {
		t.Fatalf("undo should reopen the match at 14-0: %+v", undone.VolleyballScore)
	}
}

func TestVolleyballUndoFresh(t *testing.T) {
	s := newVolleyball(t)
	got, _, err := UndoVolleyball(s)
	if err != nil {
		t.Fatalf("UndoVolleyball: %v", err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Fatalf("fresh undo changed state (-want +got):\n%s", diff)
	}
}

func TestInitVolleyballValidatesTargets(t *testing.T) {
	cfg := DefaultVolleyballConfig()
	cfg.DecidingSetPointTarget = 0
	if _, err := InitVolleyball(cfg, Side1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
