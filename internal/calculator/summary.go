package calculator

import (
	"github.com/tabsplit/tabsplit/internal/models"
	"github.com/tabsplit/tabsplit/internal/money"
)

// BuildSummary projects a finished allocation into the portable export
// record. Pure projection, no computation: amounts come from the
// normalized shares, everything else from the request.
func BuildSummary(req *models.SplitRequest, norm *Normalized, computedTotal money.Money) models.SplitSummary {
	participants := make([]models.SummaryParticipant, len(req.Participants))
	for i, p := range req.Participants {
		amount, ok := norm.PerParticipant[p.ID]
		if !ok {
			amount = money.Zero(req.Currency)
		}
		participants[i] = models.SummaryParticipant{
			ID:         p.ID,
			Name:       p.Name,
			Amount:     amount.String(),
			Percentage: p.Percentage,
			ItemIDs:    p.ItemIDs,
		}
	}

	items := make([]models.SummaryItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = models.SummaryItem{
			ID:         item.ID,
			Name:       item.Name,
			Price:      item.Price.String(),
			AssignedTo: item.AssignedTo,
		}
	}

	return models.SplitSummary{
		Type:         req.Mode,
		Participants: participants,
		Items:        items,
		Subtotal:     computedTotal.String(),
		Currency:     req.Currency,
		Rounding:     req.Rounding,
	}
}
