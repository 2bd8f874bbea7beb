package scoring

import "fmt"

const (
	DefaultSetTiebreakTarget      = 7
	DefaultFinalSetTiebreakTarget = 7
	DefaultMatchTiebreakTarget    = 10

	DefaultVolleyballSetTarget      = 25
	DefaultVolleyballDecidingTarget = 15

	// MaxHistory bounds the undo stack of every state machine.
	MaxHistory = 50
)

// Config is the resolved scoring configuration of one match. The host computes it
// once from tournament settings; the engine never reads ambient state.
type Config struct {
	IsAdScoring            bool `json:"is_ad_scoring"`
	SetsToWin              int  `json:"sets_to_win"`
	SetTiebreakTarget      int  `json:"set_tiebreak_target"`
	FinalSetTiebreakTarget int  `json:"final_set_tiebreak_target"`
	MatchTiebreakTarget    int  `json:"match_tiebreak_target"`
	UseMatchTiebreak       bool `json:"use_match_tiebreak"`

	// Volleyball only.
	SetPointTarget         int `json:"set_point_target,omitempty"`
	DecidingSetPointTarget int `json:"deciding_set_point_target,omitempty"`
}

// DefaultConfig is best-of-3 ad scoring with 7/7/10 tiebreaks.
func DefaultConfig() Config {
	return Config{
		IsAdScoring:            true,
		SetsToWin:              2,
		SetTiebreakTarget:      DefaultSetTiebreakTarget,
		FinalSetTiebreakTarget: DefaultFinalSetTiebreakTarget,
		MatchTiebreakTarget:    DefaultMatchTiebreakTarget,
	}
}

// DefaultVolleyballConfig is best-of-5 rally scoring.
func DefaultVolleyballConfig() Config {
	return Config{
		SetsToWin:              3,
		SetPointTarget:         DefaultVolleyballSetTarget,
		DecidingSetPointTarget: DefaultVolleyballDecidingTarget,
	}
}

func (c Config) Validate() error {
	if c.SetsToWin < 1 {
		return fmt.Errorf("%w: sets_to_win must be positive, got %d", ErrInvalidInput, c.SetsToWin)
	}
	if c.SetTiebreakTarget < 1 || c.FinalSetTiebreakTarget < 1 || c.MatchTiebreakTarget < 1 {
		return fmt.Errorf("%w: tiebreak targets must be positive (%d/%d/%d)", ErrInvalidInput,
			c.SetTiebreakTarget, c.FinalSetTiebreakTarget, c.MatchTiebreakTarget)
	}
	return nil
}

func (c Config) validateVolleyball() error {
	if c.SetsToWin < 1 {
		return fmt.Errorf("%w: sets_to_win must be positive, got %d", ErrInvalidInput, c.SetsToWin)
	}
	if c.SetPointTarget < 1 || c.DecidingSetPointTarget < 1 {
		return fmt.Errorf("%w: set point targets must be positive (%d/%d)", ErrInvalidInput,
			c.SetPointTarget, c.DecidingSetPointTarget)
	}
	return nil
}
