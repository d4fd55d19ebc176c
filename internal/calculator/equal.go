package calculator

import (
	"github.com/tabsplit/tabsplit/internal/models"
	"github.com/tabsplit/tabsplit/internal/money"
)

// equalStrategy divides total + tax + tip evenly. The remainder from
// uneven division goes to participants in input order, one minor unit
// each, so the first N participants absorb the extra cents.
type equalStrategy struct{}

func (equalStrategy) Compute(req *models.SplitRequest) (*Allocation, error) {
	subtotal, err := baseSubtotal(req)
	if err != nil {
		return nil, err
	}

	n := len(req.Participants)
	perPerson, remainder, err := subtotal.DivideEvenly(n)
	if err != nil {
		return nil, err
	}

	shares := make(map[string]money.Money, n)
	extra := remainder.Units()
	for i, p := range req.Participants {
		share := perPerson
		if int64(i) < extra {
			share, err = share.Add(money.FromMinorUnits(1, req.Currency))
			if err != nil {
				return nil, err
			}
		}
		shares[p.ID] = share
	}

	return &Allocation{
		PerParticipant: shares,
		ComputedTotal:  subtotal,
		Remainder:      money.Zero(req.Currency),
	}, nil
}
