package calculator

import (
	"github.com/tabsplit/tabsplit/internal/models"
	"github.com/tabsplit/tabsplit/internal/money"
)

// customStrategy takes the caller-assigned amounts as-is. The only math
// is the sum, which becomes the computed total for reconciliation
// against whatever total was declared.
type customStrategy struct{}

func (customStrategy) Compute(req *models.SplitRequest) (*Allocation, error) {
	shares := make(map[string]money.Money, len(req.Participants))
	total := money.Zero(req.Currency)

	for _, p := range req.Participants {
		if err := sameAsRequest(req, p.Amount); err != nil {
			return nil, err
		}
		amount := p.Amount
		if amount.Currency() == "" {
			amount = money.Zero(req.Currency)
		}
		shares[p.ID] = amount

		var err error
		total, err = total.Add(amount)
		if err != nil {
			return nil, err
		}
	}

	return &Allocation{
		PerParticipant: shares,
		ComputedTotal:  total,
		Remainder:      money.Zero(req.Currency),
	}, nil
}
