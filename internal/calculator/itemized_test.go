package calculator

import (
	"testing"

	"github.com/tabsplit/tabsplit/internal/models"
	"github.com/tabsplit/tabsplit/internal/money"
)

func TestItemizedSplit(t *testing.T) {
	tests := []struct {
		name          string
		items         []models.SplitItem
		tax           string
		tip           string
		ids           []string
		wantShares    map[string]string
		wantRemainder string
		wantComputed  string
	}{
		{
			name: "items assigned to single people",
			items: []models.SplitItem{
				{ID: "i1", Name: "Steak", AssignedTo: []string{"p1"}},
				{ID: "i2", Name: "Salad", AssignedTo: []string{"p2"}},
			},
			ids:           []string{"p1", "p2"},
			wantShares:    map[string]string{"p1": "30.00", "p2": "20.00"},
			wantRemainder: "0.00",
			wantComputed:  "50.00",
		},
		{
			name: "shared item with uneven division",
			items: []models.SplitItem{
				{ID: "i1", Name: "Pitcher", AssignedTo: []string{"p1", "p2", "p3"}},
			},
			ids:           []string{"p1", "p2", "p3"},
			wantShares:    map[string]string{"p1": "10.00", "p2": "10.00", "p3": "10.00"},
			wantRemainder: "0.00",
			wantComputed:  "30.00",
		},
		{
			name: "per-item remainder goes to assignees in assignment order",
			items: []models.SplitItem{
				{ID: "i1", Name: "Appetizer", AssignedTo: []string{"p2", "p1", "p3"}},
			},
			ids:           []string{"p1", "p2", "p3"},
			wantShares:    map[string]string{"p2": "3.34", "p1": "3.33", "p3": "3.33"},
			wantRemainder: "0.00",
			wantComputed:  "10.00",
		},
		{
			name: "unassigned item counts toward total only",
			items: []models.SplitItem{
				{ID: "i1", Name: "Mystery", AssignedTo: nil},
			},
			ids:           []string{"p1", "p2"},
			wantShares:    map[string]string{"p1": "0.00", "p2": "0.00"},
			wantRemainder: "5.00",
			wantComputed:  "5.00",
		},
		{
			name: "tax and tip distributed proportionally",
			items: []models.SplitItem{
				{ID: "i1", Name: "Pizza", AssignedTo: []string{"p1", "p2"}},
				{ID: "i2", Name: "Wine", AssignedTo: []string{"p1"}},
			},
			tax: "3.00",
			ids: []string{"p1", "p2"},
			// Items: p1 = 10 + 10 = 20, p2 = 10. Tax 3.00 splits 2.00/1.00.
			wantShares:    map[string]string{"p1": "22.00", "p2": "11.00"},
			wantRemainder: "0.00",
			wantComputed:  "33.00",
		},
		{
			name:          "no items leaves tax and tip unallocated",
			items:         nil,
			tax:           "2.00",
			tip:           "3.00",
			ids:           []string{"p1", "p2"},
			wantShares:    map[string]string{"p1": "0.00", "p2": "0.00"},
			wantRemainder: "5.00",
			wantComputed:  "5.00",
		},
		{
			name: "unassigned value holds back its slice of tax",
			items: []models.SplitItem{
				{ID: "i1", Name: "Pasta", AssignedTo: []string{"p1"}},
				{ID: "i2", Name: "Orphan", AssignedTo: nil},
			},
			tax: "2.00",
			ids: []string{"p1", "p2"},
			// p1 holds 10 of the 20 item total, so only half the tax is
			// distributable; 10 + 1.00 for p1, the rest in the remainder.
			wantShares:    map[string]string{"p1": "11.00", "p2": "0.00"},
			wantRemainder: "11.00",
			wantComputed:  "22.00",
		},
	}

	// Fixed price book keyed by item name keeps the table compact.
	prices := map[string]string{
		"Steak": "30.00", "Salad": "20.00", "Pitcher": "30.00",
		"Appetizer": "10.00", "Mystery": "5.00", "Pizza": "20.00",
		"Wine": "10.00", "Pasta": "10.00", "Orphan": "10.00",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]models.SplitItem, len(tt.items))
			copy(items, tt.items)
			for i := range items {
				items[i].Price = usd(t, prices[items[i].Name])
			}

			req := &models.SplitRequest{
				Mode:         models.ModeItemized,
				Participants: participants(tt.ids...),
				Items:        items,
				Currency:     "USD",
				Rounding:     models.RoundNone,
			}
			if tt.tax != "" {
				req.TaxAmount = usd(t, tt.tax)
			}
			if tt.tip != "" {
				req.TipAmount = usd(t, tt.tip)
			}

			alloc, err := Compute(req)
			if err != nil {
				t.Fatalf("Compute failed: %v", err)
			}

			for id, want := range tt.wantShares {
				if got := alloc.PerParticipant[id].String(); got != want {
					t.Errorf("share[%s] = %s, want %s", id, got, want)
				}
			}
			if got := alloc.Remainder.String(); got != tt.wantRemainder {
				t.Errorf("remainder = %s, want %s", got, tt.wantRemainder)
			}
			if got := alloc.ComputedTotal.String(); got != tt.wantComputed {
				t.Errorf("computed total = %s, want %s", got, tt.wantComputed)
			}
			checkConservation(t, alloc)
		})
	}
}

// The unassigned-item divergence is exactly what reconciliation is meant
// to surface: the declared total covers the item, the participant sum
// does not.
func TestItemizedUnassignedItemSurfacesAsMismatch(t *testing.T) {
	req := &models.SplitRequest{
		Mode:         models.ModeItemized,
		Participants: participants("p1", "p2"),
		Items: []models.SplitItem{
			{ID: "i1", Name: "Mystery", Price: usd(t, "5.00")},
		},
		DeclaredTotal: usd(t, "5.00"),
		Currency:      "USD",
	}

	alloc, err := Compute(req)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	allocated, err := alloc.ComputedTotal.Sub(alloc.Remainder)
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	verdict, err := Evaluate(req.DeclaredTotal, allocated, DefaultTolerance("USD"))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if verdict.Matched() {
		t.Fatal("expected mismatch for unassigned item")
	}
	if got := verdict.Difference.String(); got != "5.00" {
		t.Errorf("difference = %s, want 5.00", got)
	}
}

func TestItemizedIgnoresUnknownAssignees(t *testing.T) {
	req := &models.SplitRequest{
		Mode:         models.ModeItemized,
		Participants: participants("p1", "p2"),
		Items: []models.SplitItem{
			{ID: "i1", Name: "Pizza", Price: usd(t, "20.00"), AssignedTo: []string{"p1", "ghost"}},
		},
		Currency: "USD",
	}

	alloc, err := Compute(req)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if got := alloc.PerParticipant["p1"].String(); got != "20.00" {
		t.Errorf("share[p1] = %s, want 20.00 (ghost assignee ignored)", got)
	}
	if _, ok := alloc.PerParticipant["ghost"]; ok {
		t.Error("unknown assignee must not appear in the allocation")
	}
	checkConservation(t, alloc)
}

func TestItemizedRejectsNegativePrice(t *testing.T) {
	req := &models.SplitRequest{
		Mode:         models.ModeItemized,
		Participants: participants("p1", "p2"),
		Items: []models.SplitItem{
			{ID: "i1", Name: "Refund", Price: money.FromMinorUnits(-100, "USD"), AssignedTo: []string{"p1"}},
		},
		Currency: "USD",
	}
	if _, err := Compute(req); err == nil {
		t.Fatal("expected error for negative item price")
	}
}
