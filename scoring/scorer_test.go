package scoring

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScorerPersistRoundTrip(t *testing.T) {
	for _, sport := range []Sport{SportTennis, SportVolleyball} {
		t.Run(string(sport), func(t *testing.T) {
			cfg := DefaultConfig()
			if sport == SportVolleyball {
				cfg = DefaultVolleyballConfig()
			}
			sc, err := StartScorer(sport, cfg, Side2)
			if err != nil {
				t.Fatalf("StartScorer: %v", err)
			}
			for _, w := range []Side{Side1, Side1, Side2, Side1} {
				if _, err := sc.Apply(PointTo(w)); err != nil {
					t.Fatalf("Apply: %v", err)
				}
			}

			raw, err := sc.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON: %v", err)
			}
			loaded, err := LoadScorer(sport, raw)
			if err != nil {
				t.Fatalf("LoadScorer: %v", err)
			}
			if diff := cmp.Diff(sc.Live(), loaded.Live()); diff != "" {
				t.Fatalf("live score differs after reload (-want +got):\n%s", diff)
			}

			// the undo history survives persistence
			if _, err := loaded.Undo(); err != nil {
				t.Fatalf("Undo after reload: %v", err)
			}
			if _, err := sc.Undo(); err != nil {
				t.Fatalf("Undo: %v", err)
			}
			if diff := cmp.Diff(sc.Live(), loaded.Live()); diff != "" {
				t.Fatalf("undo diverged after reload (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScorerErrors(t *testing.T) {
	if _, err := StartScorer("squash", DefaultConfig(), Side1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown sport: got %v", err)
	}
	if _, err := LoadScorer(SportTennis, nil); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("empty state: got %v", err)
	}

	sc, err := StartScorer(SportTennis, DefaultConfig(), Side1)
	if err != nil {
		t.Fatalf("StartScorer: %v", err)
	}
	before := sc.(*tennisScorer).State()
	if _, err := sc.Apply(PointTo(SideNone)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("invalid point: got %v", err)
	}
	if diff := cmp.Diff(before, sc.(*tennisScorer).State()); diff != "" {
		t.Fatalf("failed Apply mutated the scorer (-want +got):\n%s", diff)
	}
	if err := sc.SetServer(Side2); err != nil {
		t.Fatalf("SetServer: %v", err)
	}
	if got := sc.Live().ServingParticipant; got != Side2 {
		t.Fatalf("serving = %v", got)
	}
}
