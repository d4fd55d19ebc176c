package calculator

import (
	"errors"
	"testing"

	"github.com/tabsplit/tabsplit/internal/models"
	"github.com/tabsplit/tabsplit/internal/money"
)

func TestCustomSplit(t *testing.T) {
	req := &models.SplitRequest{
		Mode: models.ModeCustom,
		Participants: []models.Participant{
			{ID: "p1", Name: "Ada", Amount: usd(t, "12.50")},
			{ID: "p2", Name: "Grace", Amount: usd(t, "7.25")},
			{ID: "p3", Name: "Edsger"}, // no amount assigned yet
		},
		DeclaredTotal: usd(t, "19.75"),
		Currency:      "USD",
	}

	alloc, err := Compute(req)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if got := alloc.ComputedTotal.String(); got != "19.75" {
		t.Errorf("computed total = %s, want 19.75", got)
	}
	if got := alloc.PerParticipant["p3"].String(); got != "0.00" {
		t.Errorf("unassigned participant share = %s, want 0.00", got)
	}
	checkConservation(t, alloc)

	verdict, err := Evaluate(req.DeclaredTotal, alloc.ComputedTotal, DefaultTolerance("USD"))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !verdict.Matched() {
		t.Errorf("declared total should match the custom sum, got %+v", verdict)
	}
}

func TestCustomSplitRejectsMixedCurrencies(t *testing.T) {
	req := &models.SplitRequest{
		Mode: models.ModeCustom,
		Participants: []models.Participant{
			{ID: "p1", Amount: money.FromMinorUnits(1000, "USD")},
			{ID: "p2", Amount: money.FromMinorUnits(1000, "EUR")},
		},
		Currency: "USD",
	}
	if _, err := Compute(req); !errors.Is(err, money.ErrCurrencyMismatch) {
		t.Fatalf("got %v, want ErrCurrencyMismatch", err)
	}
}
