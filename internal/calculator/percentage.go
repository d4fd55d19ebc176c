package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tabsplit/tabsplit/internal/models"
	"github.com/tabsplit/tabsplit/internal/money"
)

// percentageTolerance is how far the percentage sum may drift from 100
// before the request is rejected, in percentage points. It matches the
// reconciliation tolerance so "99.995" style float input survives but a
// genuinely wrong 99 does not.
const percentageTolerance = "0.01"

// percentageStrategy allocates the subtotal by caller-assigned
// percentages using largest-remainder apportionment: floor every share,
// then give the leftover minor units to the largest fractional
// remainders. Percentages that do not sum to 100 are an input error, not
// something to normalize away.
type percentageStrategy struct{}

func (percentageStrategy) Compute(req *models.SplitRequest) (*Allocation, error) {
	total := decimal.Zero
	for _, p := range req.Participants {
		if p.Percentage < 0 {
			return nil, fmt.Errorf("%w: participant %q has negative percentage", ErrInvalidInput, p.Name)
		}
		total = total.Add(decimal.NewFromFloat(p.Percentage))
	}

	tolerance, _ := decimal.NewFromString(percentageTolerance)
	if total.Sub(decimal.NewFromInt(100)).Abs().Cmp(tolerance) > 0 {
		return nil, fmt.Errorf("%w: percentages sum to %s, need 100", ErrInvalidInput, total)
	}

	subtotal, err := baseSubtotal(req)
	if err != nil {
		return nil, err
	}

	hundred := decimal.NewFromInt(100)
	subUnits := decimal.NewFromInt(subtotal.Units())
	exact := make([]decimal.Decimal, len(req.Participants))
	for i, p := range req.Participants {
		exact[i] = subUnits.Mul(decimal.NewFromFloat(p.Percentage)).Div(hundred)
	}

	units := largestRemainder(exact, subtotal.Units())
	shares := make(map[string]money.Money, len(req.Participants))
	for i, p := range req.Participants {
		shares[p.ID] = money.FromMinorUnits(units[i], req.Currency)
	}

	return &Allocation{
		PerParticipant: shares,
		ComputedTotal:  subtotal,
		Remainder:      money.Zero(req.Currency),
	}, nil
}
