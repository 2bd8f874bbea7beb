package scoring

import (
	"encoding/json"
	"fmt"
)

// Scorer is the sport-agnostic handle the host uses to drive one match.
// Implementations wrap the pure Apply/Undo/SetServer functions.
type Scorer interface {
	Apply(ev Event) (Result, error)
	Undo() (Result, error)
	SetServer(participant Side) error
	Summary() Summary
	Live() LiveScore
	Sport() Sport
	json.Marshaler
}

// StartScorer initialises a new match state for sport.
func StartScorer(sport Sport, cfg Config, firstServer Side) (Scorer, error) {
	switch sport {
	case SportTennis:
		st, err := Init(cfg, firstServer)
		if err != nil {
			return nil, err
		}
		return &tennisScorer{state: st}, nil
	case SportVolleyball:
		st, err := InitVolleyball(cfg, firstServer)
		if err != nil {
			return nil, err
		}
		return &volleyballScorer{state: st}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported sport %q", ErrInvalidInput, sport)
	}
}

// LoadScorer rebuilds a scorer from persisted JSON state.
func LoadScorer(sport Sport, raw []byte) (Scorer, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: match has no scoring state", ErrInvalidState)
	}
	switch sport {
	case SportTennis:
		var st MatchState
		if err := json.Unmarshal(raw, &st); err != nil {
			return nil, fmt.Errorf("decode tennis state: %w", err)
		}
		return &tennisScorer{state: st}, nil
	case SportVolleyball:
		var st VolleyballState
		if err := json.Unmarshal(raw, &st); err != nil {
			return nil, fmt.Errorf("decode volleyball state: %w", err)
		}
		return &volleyballScorer{state: st}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported sport %q", ErrInvalidInput, sport)
	}
}

type tennisScorer struct {
	state MatchState
}

func (t *tennisScorer) Apply(ev Event) (Result, error) {
	next, res, err := Apply(t.state, ev)
	if err != nil {
		return Result{}, err
	}
	t.state = next
	return res, nil
}

func (t *tennisScorer) Undo() (Result, error) {
	next, res, err := Undo(t.state)
	if err != nil {
		return Result{}, err
	}
	t.state = next
	return res, nil
}

func (t *tennisScorer) SetServer(participant Side) error {
	next, err := SetServer(t.state, participant)
	if err != nil {
		return err
	}
	t.state = next
	return nil
}

func (t *tennisScorer) Summary() Summary { return t.state.Summary() }
func (t *tennisScorer) Live() LiveScore { return t.state.Live() }
func (t *tennisScorer) Sport() Sport { return SportTennis }
func (t *tennisScorer) MarshalJSON() ([]byte, error) { return json.Marshal(t.state) }

// State exposes the underlying state, mostly for tests and debugging endpoints.
func (t *tennisScorer) State() MatchState { return t.state }

type volleyballScorer struct {
	state VolleyballState
}

func (v *volleyballScorer) Apply(ev Event) (Result, error) {
	next, res, err := ApplyVolleyball(v.state, ev)
	if err != nil {
		return Result{}, err
	}
	v.state = next
	return res, nil
}

func (v *volleyballScorer) Undo() (Result, error) {
	next, res, err := UndoVolleyball(v.state)
	if err != nil {
		return Result{}, err
	}
	v.state = next
	return res, nil
}

func (v *volleyballScorer) SetServer(participant Side) error {
	next, err := SetVolleyballServer(v.state, participant)
	if err != nil {
		return err
	}
	v.state = next
	return nil
}

func (v *volleyballScorer) Summary() Summary { return v.state.Summary() }
func (v *volleyballScorer) Live() LiveScore { return v.state.Live() }
func (v *volleyballScorer) Sport() Sport { return SportVolleyball }
func (v *volleyballScorer) MarshalJSON() ([]byte, error) { return json.Marshal(v.state) }
