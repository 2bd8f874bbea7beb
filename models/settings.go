package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/scoring-engine/scoring"
)

// ScoringSettings is the organizer-facing rule set stored with a tournament.
// Zero values fall back to the sport defaults.
type ScoringSettings struct {
	// BestOf is the maximum number of sets, 3 or 5 in practice.
	BestOf      int  `json:"best_of,omitempty"`
	NoAdScoring bool `json:"no_ad_scoring,omitempty"`

	SetTiebreakTarget      int  `json:"set_tiebreak_target,omitempty"`
	FinalSetTiebreakTarget int  `json:"final_set_tiebreak_target,omitempty"`
	MatchTiebreakTarget    int  `json:"match_tiebreak_target,omitempty"`
	UseMatchTiebreak       bool `json:"use_match_tiebreak,omitempty"`

	SetPointTarget         int `json:"set_point_target,omitempty"`
	DecidingSetPointTarget int `json:"deciding_set_point_target,omitempty"`
}

// Resolve computes the engine configuration for sport once, so the engine never
// has to look at tournament settings itself.
func (s ScoringSettings) Resolve(sport scoring.Sport) (scoring.Config, error) {
	var cfg scoring.Config
	switch sport {
	case scoring.SportTennis:
		cfg = scoring.DefaultConfig()
	case scoring.SportVolleyball:
		cfg = scoring.DefaultVolleyballConfig()
	default:
		return scoring.Config{}, fmt.Errorf("%w: unsupported sport %q", scoring.ErrInvalidInput, sport)
	}

	if s.BestOf != 0 {
		if s.BestOf < 1 || s.BestOf%2 == 0 {
			return scoring.Config{}, fmt.Errorf("%w: best_of must be a positive odd number, got %d", scoring.ErrInvalidInput, s.BestOf)
		}
		cfg.SetsToWin = (s.BestOf + 1) / 2
	}
	if s.NoAdScoring {
		cfg.IsAdScoring = false
	}
	cfg.UseMatchTiebreak = s.UseMatchTiebreak
	override(&cfg.SetTiebreakTarget, s.SetTiebreakTarget)
	override(&cfg.FinalSetTiebreakTarget, s.FinalSetTiebreakTarget)
	override(&cfg.MatchTiebreakTarget, s.MatchTiebreakTarget)
	override(&cfg.SetPointTarget, s.SetPointTarget)
	override(&cfg.DecidingSetPointTarget, s.DecidingSetPointTarget)

	if sport == scoring.SportTennis {
		return cfg, cfg.Validate()
	}
	return cfg, nil
}

func override(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// Value хранит настройки в колонке JSONB.
func (s ScoringSettings) Value() (driver.Value, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (s *ScoringSettings) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = ScoringSettings{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("scoring settings: unsupported column type")
	}
}
