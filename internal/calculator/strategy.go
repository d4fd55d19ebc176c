// Package calculator implements the allocation and reconciliation engine:
// the four split strategies, the rounding normalizer, and the tolerance
// check of a declared total against a computed one.
//
// Every entry point is a pure function of its input. Strategies never
// mutate the request, never read shared state, and return identical
// output for identical input, so callers can recompute on every edit.
package calculator

import (
	"errors"
	"fmt"

	"github.com/tabsplit/tabsplit/internal/models"
	"github.com/tabsplit/tabsplit/internal/money"
)

// ErrInvalidInput is returned when a request cannot be computed as given
// (unknown mode, too few participants, percentages off 100). The caller
// is expected to fix the input and retry; the engine never normalizes
// silently.
var ErrInvalidInput = errors.New("invalid allocation input")

// Allocation is the result of one strategy run.
//
// Invariant: sum(PerParticipant) + Remainder == ComputedTotal, exactly,
// in minor units. Remainder holds whatever the strategy could not assign
// to anyone (unassigned items, undistributable tax/tip); it is surfaced,
// never dropped.
type Allocation struct {
	// PerParticipant maps participant ID to the allocated share.
	PerParticipant map[string]money.Money

	// ComputedTotal is the full value of the request's inputs.
	ComputedTotal money.Money

	// Remainder is the unassigned portion of ComputedTotal.
	Remainder money.Money
}

// Strategy turns a split request into per-participant raw shares.
type Strategy interface {
	Compute(req *models.SplitRequest) (*Allocation, error)
}

// ForMode returns the strategy for the given mode.
func ForMode(mode models.Mode) (Strategy, error) {
	switch mode {
	case models.ModeEqual:
		return equalStrategy{}, nil
	case models.ModeItemized:
		return itemizedStrategy{}, nil
	case models.ModePercentage:
		return percentageStrategy{}, nil
	case models.ModeCustom:
		return customStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, mode)
	}
}

// Compute validates the request and dispatches to the strategy selected
// by its mode.
func Compute(req *models.SplitRequest) (*Allocation, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	strategy, err := ForMode(req.Mode)
	if err != nil {
		return nil, err
	}
	return strategy.Compute(req)
}

// validateRequest checks the mode-independent preconditions.
func validateRequest(req *models.SplitRequest) error {
	if req == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidInput)
	}
	if req.Currency == "" {
		return fmt.Errorf("%w: currency is required", ErrInvalidInput)
	}
	if len(req.Participants) < 2 {
		return fmt.Errorf("%w: a split needs at least two participants, got %d", ErrInvalidInput, len(req.Participants))
	}
	seen := make(map[string]bool, len(req.Participants))
	for _, p := range req.Participants {
		if p.ID == "" {
			return fmt.Errorf("%w: participant %q has no ID", ErrInvalidInput, p.Name)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate participant ID %q", ErrInvalidInput, p.ID)
		}
		seen[p.ID] = true
	}
	for _, item := range req.Items {
		if item.Price.Units() < 0 {
			return fmt.Errorf("%w: item %q has negative price", ErrInvalidInput, item.Name)
		}
		if err := sameAsRequest(req, item.Price); err != nil {
			return err
		}
	}
	for _, amt := range []money.Money{req.TotalAmount, req.TaxAmount, req.TipAmount} {
		if amt.Units() < 0 {
			return fmt.Errorf("%w: negative amount %s", ErrInvalidInput, amt)
		}
		if err := sameAsRequest(req, amt); err != nil {
			return err
		}
	}
	return sameAsRequest(req, req.DeclaredTotal)
}

// sameAsRequest rejects amounts whose currency disagrees with the
// request's. Zero-value amounts with an empty code pass.
func sameAsRequest(req *models.SplitRequest, m money.Money) error {
	if m.Currency() == "" || m.Currency() == req.Currency {
		return nil
	}
	return fmt.Errorf("%w: request is %s but amount is %s", money.ErrCurrencyMismatch, req.Currency, m.Currency())
}

// baseSubtotal is total + tax + tip, the amount the equal and percentage
// modes divide.
func baseSubtotal(req *models.SplitRequest) (money.Money, error) {
	subtotal := money.Zero(req.Currency)
	for _, m := range []money.Money{req.TotalAmount, req.TaxAmount, req.TipAmount} {
		var err error
		subtotal, err = subtotal.Add(m)
		if err != nil {
			return money.Money{}, err
		}
	}
	return subtotal, nil
}
