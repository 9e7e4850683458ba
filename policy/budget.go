package policy

import "time"

// Engine-side safety knobs
const (
	budgetOverhead = 30 * time.Millisecond // reserve for IO jitter
	budgetMinimum  = 5 * time.Millisecond  // never less than this
)

// BudgetConfig bounds the time spent on one move decision.
type BudgetConfig struct {
	MoveBudget  time.Duration
	MaxFraction float64
}

// Budget returns how long the oracle may spend on this move. It aims for
// cfg.MoveBudget but never takes more than cfg.MaxFraction of the remaining clock, and
// always leaves the overhead in reserve. A non-positive remaining clock means it is
// unknown and only MoveBudget applies.
func Budget(remaining time.Duration, cfg BudgetConfig) time.Duration {
	t := cfg.MoveBudget
	if remaining > 0 {
		if frac := time.Duration(float64(remaining) * cfg.MaxFraction); cfg.MaxFraction > 0 && t > frac {
			t = frac
		}
		if t > remaining-budgetOverhead {
			t = remaining - budgetOverhead
		}
	}
	if t < budgetMinimum {
		t = budgetMinimum
	}
	return t
}
