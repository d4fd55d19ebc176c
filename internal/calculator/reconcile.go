package calculator

import "github.com/tabsplit/tabsplit/internal/money"

// Outcome classifies a reconciliation.
type Outcome string

const (
	// OutcomeMatched means the totals agree within tolerance.
	OutcomeMatched Outcome = "matched"

	// OutcomeMismatched means they disagree by more than the tolerance.
	// A mismatch is a first-class result for display, not an error.
	OutcomeMismatched Outcome = "mismatched"
)

// Verdict is the result of comparing a declared total to a computed one.
// Verdicts are derived values: recompute on every edit, never persist
// one as authoritative.
type Verdict struct {
	Outcome Outcome `json:"outcome"`

	// Difference is the absolute gap between the totals. Populated for
	// both outcomes; within tolerance it is rounding noise, beyond it it
	// is the disagreement to show the user.
	Difference money.Money `json:"difference"`
}

// Matched reports whether the totals agreed.
func (v Verdict) Matched() bool { return v.Outcome == OutcomeMatched }

// DefaultTolerance is 0.01 currency units: one cent for two-decimal
// currencies, zero for currencies without minor decimals. It exists to
// absorb rounding noise, not semantic disagreement.
func DefaultTolerance(currency string) money.Money {
	return money.FromMinorUnits(money.UnitScale(currency)/100, currency)
}

// Evaluate compares a declared total against a computed total. Matched
// iff |declared - computed| <= tolerance. Stateless and O(1); cheap
// enough to run synchronously on every input edit.
func Evaluate(declared, computed, tolerance money.Money) (Verdict, error) {
	diff, err := declared.Sub(computed)
	if err != nil {
		return Verdict{}, err
	}
	diff = diff.Abs()

	cmp, err := diff.Cmp(tolerance)
	if err != nil {
		return Verdict{}, err
	}
	if cmp <= 0 {
		return Verdict{Outcome: OutcomeMatched, Difference: diff}, nil
	}
	return Verdict{Outcome: OutcomeMismatched, Difference: diff}, nil
}
