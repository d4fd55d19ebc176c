package calculator

import (
	"errors"
	"testing"

	"github.com/tabsplit/tabsplit/internal/money"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		declared    string
		computed    string
		wantOutcome Outcome
		wantDiff    string
	}{
		{
			name:        "exact match",
			declared:    "100.00",
			computed:    "100.00",
			wantOutcome: OutcomeMatched,
			wantDiff:    "0.00",
		},
		{
			name: "sub-minor-unit noise quantizes inside tolerance",
			// 100.005 lands on 100.01 after quantization; one cent is
			// still within the default tolerance.
			declared:    "100.00",
			computed:    "100.005",
			wantOutcome: OutcomeMatched,
			wantDiff:    "0.01",
		},
		{
			name:        "two cents out is a mismatch",
			declared:    "100.00",
			computed:    "100.02",
			wantOutcome: OutcomeMismatched,
			wantDiff:    "0.02",
		},
		{
			name:        "direction does not matter",
			declared:    "99.98",
			computed:    "100.00",
			wantOutcome: OutcomeMismatched,
			wantDiff:    "0.02",
		},
		{
			name:        "large disagreement",
			declared:    "50.00",
			computed:    "45.00",
			wantOutcome: OutcomeMismatched,
			wantDiff:    "5.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := Evaluate(usd(t, tt.declared), usd(t, tt.computed), DefaultTolerance("USD"))
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if verdict.Outcome != tt.wantOutcome {
				t.Errorf("outcome = %s, want %s", verdict.Outcome, tt.wantOutcome)
			}
			if got := verdict.Difference.String(); got != tt.wantDiff {
				t.Errorf("difference = %s, want %s", got, tt.wantDiff)
			}
		})
	}
}

func TestEvaluateCustomTolerance(t *testing.T) {
	declared := usd(t, "100.00")
	computed := usd(t, "100.75")

	loose, err := Evaluate(declared, computed, usd(t, "1.00"))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !loose.Matched() {
		t.Errorf("75 cents should match inside a $1 tolerance, got %+v", loose)
	}

	strict, err := Evaluate(declared, computed, money.Zero("USD"))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if strict.Matched() {
		t.Errorf("75 cents should mismatch with zero tolerance")
	}
}

func TestEvaluateRejectsMixedCurrencies(t *testing.T) {
	_, err := Evaluate(money.FromMinorUnits(100, "USD"), money.FromMinorUnits(100, "EUR"), money.Zero("USD"))
	if !errors.Is(err, money.ErrCurrencyMismatch) {
		t.Fatalf("got %v, want ErrCurrencyMismatch", err)
	}
}
