package calculator

import (
	"fmt"

	"github.com/tabsplit/tabsplit/internal/models"
	"github.com/tabsplit/tabsplit/internal/money"
)

// Normalized is the output of the rounding pass: the adjusted shares and
// the signed difference the adjustment introduced. The difference is
// reported so callers can display it; it is never folded back into the
// shares.
type Normalized struct {
	// PerParticipant maps participant ID to the rounded share.
	PerParticipant map[string]money.Money

	// RoundingDifference is sum(rounded) - sum(original). Zero under the
	// "none" policy; can be negative under "down".
	RoundingDifference money.Money
}

// Normalize applies the rounding policy to already-computed shares. This
// is a second, orthogonal pass: it does not care which strategy produced
// the amounts. Shares are already exact minor-unit values, so the
// up/down/nearest policies round to the next whole currency unit (whole
// dollar, whole yen).
func Normalize(alloc *Allocation, policy models.RoundingPolicy) (*Normalized, error) {
	if !policy.Valid() {
		return nil, fmt.Errorf("%w: unknown rounding policy %q", ErrInvalidInput, policy)
	}

	currency := alloc.ComputedTotal.Currency()
	scale := money.UnitScale(currency)

	rounded := make(map[string]money.Money, len(alloc.PerParticipant))
	var before, after int64
	for id, share := range alloc.PerParticipant {
		units := share.Units()
		out := units
		if policy != models.RoundNone {
			out = roundUnits(units, scale, policy)
		}
		rounded[id] = money.FromMinorUnits(out, currency)
		before += units
		after += out
	}

	return &Normalized{
		PerParticipant:     rounded,
		RoundingDifference: money.FromMinorUnits(after-before, currency),
	}, nil
}

// roundUnits rounds a minor-unit count to a multiple of scale.
func roundUnits(units, scale int64, policy models.RoundingPolicy) int64 {
	if scale <= 1 {
		return units
	}
	q, r := units/scale, units%scale
	switch policy {
	case models.RoundUp:
		if r > 0 {
			q++
		}
	case models.RoundDown:
		if r < 0 {
			q--
		}
	case models.RoundNearest:
		if r*2 >= scale {
			q++
		} else if r*2 <= -scale {
			q--
		}
	}
	return q * scale
}
