package money

import (
	"errors"
	"testing"
)

func TestFromDecimal(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		currency  string
		wantUnits int64
		wantErr   bool
	}{
		{name: "plain dollars", value: "12.34", currency: "USD", wantUnits: 1234},
		{name: "whole amount", value: "10", currency: "USD", wantUnits: 1000},
		{name: "quantizes below minor unit", value: "100.005", currency: "USD", wantUnits: 10001},
		{name: "quantizes half away from zero", value: "-100.005", currency: "USD", wantUnits: -10001},
		{name: "yen has no minor decimals", value: "1500", currency: "JPY", wantUnits: 1500},
		{name: "yen fraction rounds", value: "10.4", currency: "JPY", wantUnits: 10},
		{name: "garbage", value: "12.3.4", currency: "USD", wantErr: true},
		{name: "empty", value: "", currency: "USD", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := FromDecimal(tt.value, tt.currency)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("FromDecimal(%q) expected error, got %v", tt.value, m)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromDecimal(%q) failed: %v", tt.value, err)
			}
			if m.Units() != tt.wantUnits {
				t.Errorf("FromDecimal(%q) = %d units, want %d", tt.value, m.Units(), tt.wantUnits)
			}
			if m.Currency() != tt.currency {
				t.Errorf("currency = %q, want %q", m.Currency(), tt.currency)
			}
		})
	}
}

func TestArithmeticRejectsMixedCurrencies(t *testing.T) {
	usd := FromMinorUnits(500, "USD")
	eur := FromMinorUnits(500, "EUR")

	if _, err := usd.Add(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Add: got %v, want ErrCurrencyMismatch", err)
	}
	if _, err := usd.Sub(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Sub: got %v, want ErrCurrencyMismatch", err)
	}
	if _, err := usd.Cmp(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Cmp: got %v, want ErrCurrencyMismatch", err)
	}
}

func TestZeroValueSeedsAccumulation(t *testing.T) {
	var sum Money
	for _, units := range []int64{100, 250, 7} {
		var err error
		sum, err = sum.Add(FromMinorUnits(units, "USD"))
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	if sum.Units() != 357 || sum.Currency() != "USD" {
		t.Errorf("sum = %d %s, want 357 USD", sum.Units(), sum.Currency())
	}
}

func TestDivideEvenly(t *testing.T) {
	tests := []struct {
		name    string
		units   int64
		n       int
		wantQ   int64
		wantR   int64
		wantErr error
	}{
		{name: "exact", units: 1000, n: 4, wantQ: 250, wantR: 0},
		{name: "ten dollars three ways", units: 1000, n: 3, wantQ: 333, wantR: 1},
		{name: "remainder below n", units: 1002, n: 4, wantQ: 250, wantR: 2},
		{name: "single share", units: 777, n: 1, wantQ: 777, wantR: 0},
		{name: "negative amount", units: -1000, n: 3, wantQ: -333, wantR: -1},
		{name: "zero shares", units: 1000, n: 0, wantErr: ErrDivisionByZero},
		{name: "negative shares", units: 1000, n: -2, wantErr: ErrDivisionByZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, r, err := FromMinorUnits(tt.units, "USD").DivideEvenly(tt.n)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got err %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DivideEvenly failed: %v", err)
			}
			if q.Units() != tt.wantQ || r.Units() != tt.wantR {
				t.Errorf("got q=%d r=%d, want q=%d r=%d", q.Units(), r.Units(), tt.wantQ, tt.wantR)
			}
			// Conservation: q*n + r must reproduce the input exactly.
			if got := q.Units()*int64(tt.n) + r.Units(); got != tt.units {
				t.Errorf("q*n+r = %d, want %d", got, tt.units)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		units    int64
		currency string
		want     string
	}{
		{1234, "USD", "12.34"},
		{5, "USD", "0.05"},
		{-1099, "EUR", "-10.99"},
		{1500, "JPY", "1500"},
		{0, "USD", "0.00"},
	}
	for _, tt := range tests {
		if got := FromMinorUnits(tt.units, tt.currency).String(); got != tt.want {
			t.Errorf("String(%d %s) = %q, want %q", tt.units, tt.currency, got, tt.want)
		}
	}
}

func TestUnitScale(t *testing.T) {
	if got := UnitScale("USD"); got != 100 {
		t.Errorf("UnitScale(USD) = %d, want 100", got)
	}
	if got := UnitScale("JPY"); got != 1 {
		t.Errorf("UnitScale(JPY) = %d, want 1", got)
	}
}
