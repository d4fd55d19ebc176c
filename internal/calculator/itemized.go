package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/tabsplit/tabsplit/internal/models"
	"github.com/tabsplit/tabsplit/internal/money"
)

// itemizedStrategy splits each item evenly among its assignees, then
// distributes tax and tip proportionally to each participant's item
// subtotal.
//
// Two deliberate gaps flow into the allocation's Remainder instead of
// being guessed at: items with no assignees count toward the computed
// total but toward nobody's share, and when no item value is assigned at
// all (itemsTotal == 0) tax and tip stay unallocated. Reconciliation
// surfaces both as a mismatch against the declared total.
type itemizedStrategy struct{}

func (itemizedStrategy) Compute(req *models.SplitRequest) (*Allocation, error) {
	cur := req.Currency

	shares := make(map[string]money.Money, len(req.Participants))
	for _, p := range req.Participants {
		shares[p.ID] = money.Zero(cur)
	}

	itemsTotal := money.Zero(cur)
	for _, item := range req.Items {
		var err error
		itemsTotal, err = itemsTotal.Add(item.Price)
		if err != nil {
			return nil, err
		}

		// Assignees outside the participant set are ignored; an item
		// with none left is everybody's problem via the remainder.
		assignees := item.AssignedTo[:0:0]
		for _, id := range item.AssignedTo {
			if _, ok := shares[id]; ok {
				assignees = append(assignees, id)
			}
		}
		if len(assignees) == 0 {
			continue
		}

		perShare, rem, err := item.Price.DivideEvenly(len(assignees))
		if err != nil {
			return nil, err
		}
		for j, id := range assignees {
			share := perShare
			if int64(j) < rem.Units() {
				share, err = share.Add(money.FromMinorUnits(1, cur))
				if err != nil {
					return nil, err
				}
			}
			shares[id], err = shares[id].Add(share)
			if err != nil {
				return nil, err
			}
		}
	}

	taxTip, err := req.TaxAmount.Add(req.TipAmount)
	if err != nil {
		return nil, err
	}
	computedTotal, err := itemsTotal.Add(taxTip)
	if err != nil {
		return nil, err
	}

	if itemsTotal.Units() > 0 && !taxTip.IsZero() {
		if err := distributeProportionally(req, shares, taxTip, itemsTotal); err != nil {
			return nil, err
		}
	}

	assigned := money.Zero(cur)
	for _, p := range req.Participants {
		assigned, err = assigned.Add(shares[p.ID])
		if err != nil {
			return nil, err
		}
	}
	remainder, err := computedTotal.Sub(assigned)
	if err != nil {
		return nil, err
	}

	return &Allocation{
		PerParticipant: shares,
		ComputedTotal:  computedTotal,
		Remainder:      remainder,
	}, nil
}

// distributeProportionally adds each participant's proportional piece of
// taxTip to shares, weighting by share/itemsTotal. The weights use the
// full items total as denominator, so value sitting in unassigned items
// leaves a matching slice of tax and tip undistributed.
func distributeProportionally(req *models.SplitRequest, shares map[string]money.Money, taxTip, itemsTotal money.Money) error {
	pool := decimal.NewFromInt(taxTip.Units())
	denom := decimal.NewFromInt(itemsTotal.Units())

	exact := make([]decimal.Decimal, len(req.Participants))
	sum := decimal.Zero
	for i, p := range req.Participants {
		exact[i] = pool.Mul(decimal.NewFromInt(shares[p.ID].Units())).Div(denom)
		sum = sum.Add(exact[i])
	}

	// Only the whole-unit part of the distributable pool is handed out;
	// sub-unit dust stays in the remainder.
	units := largestRemainder(exact, sum.Floor().IntPart())
	for i, p := range req.Participants {
		var err error
		shares[p.ID], err = shares[p.ID].Add(money.FromMinorUnits(units[i], req.Currency))
		if err != nil {
			return err
		}
	}
	return nil
}
