package models

import "github.com/tabsplit/tabsplit/internal/money"

// Mode selects which allocation strategy computes the split.
type Mode string

const (
	ModeEqual      Mode = "equal"
	ModeItemized   Mode = "itemized"
	ModePercentage Mode = "percentage"
	ModeCustom     Mode = "custom"
)

// Valid reports whether the mode names a known strategy.
func (m Mode) Valid() bool {
	switch m {
	case ModeEqual, ModeItemized, ModePercentage, ModeCustom:
		return true
	}
	return false
}

// RoundingPolicy is the post-allocation rounding pass applied to
// per-participant amounts, independent of the strategy that produced them.
type RoundingPolicy string

const (
	RoundNone    RoundingPolicy = "none"
	RoundUp      RoundingPolicy = "up"
	RoundDown    RoundingPolicy = "down"
	RoundNearest RoundingPolicy = "nearest"
)

// Valid reports whether the policy is one of the supported values.
func (r RoundingPolicy) Valid() bool {
	switch r {
	case RoundNone, RoundUp, RoundDown, RoundNearest:
		return true
	}
	return false
}

// Participant is one person in a split. Identity is the ID; Amount and
// Percentage are mode-dependent and unused outside their mode (Amount for
// custom, Percentage for percentage, ItemIDs for itemized).
type Participant struct {
	// ID is the unique identifier for the participant within the split.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Amount is the caller-assigned share, used by the custom mode.
	Amount money.Money `json:"amount,omitzero"`

	// Percentage is this participant's share of the subtotal in percent,
	// used by the percentage mode. Percentages across a request must sum
	// to 100.
	Percentage float64 `json:"percentage,omitempty"`

	// ItemIDs lists the items assigned to this participant, used by the
	// itemized mode. It mirrors SplitItem.AssignedTo.
	ItemIDs []string `json:"items,omitempty"`
}

// SplitItem is a single line on the bill. Items can be shared: the price
// is divided evenly among everyone in AssignedTo. An item with an empty
// assignment set contributes to the computed total but to nobody's share.
type SplitItem struct {
	// ID is the unique identifier for the item within the split.
	ID string `json:"id"`

	// Name is the item description (e.g. "Pizza").
	Name string `json:"name"`

	// Price is the item price; never negative.
	Price money.Money `json:"price"`

	// AssignedTo holds the participant IDs sharing this item.
	AssignedTo []string `json:"assigned_to,omitempty"`
}

// SplitRequest is the immutable input bundle for one allocation run.
// Callers own the mutable participant/item collections and pass a fresh
// snapshot on every edit; strategies never mutate a request.
type SplitRequest struct {
	// Mode selects the allocation strategy.
	Mode Mode `json:"mode"`

	// Participants are the people splitting the bill. A split always has
	// at least two.
	Participants []Participant `json:"participants"`

	// Items are the bill lines, used by the itemized mode.
	Items []SplitItem `json:"items,omitempty"`

	// TotalAmount is the user-entered base amount for the equal and
	// percentage modes. The itemized mode derives its base from Items.
	TotalAmount money.Money `json:"total_amount,omitzero"`

	// TaxAmount and TipAmount are added on top of the base amount.
	TaxAmount money.Money `json:"tax_amount,omitzero"`
	TipAmount money.Money `json:"tip_amount,omitzero"`

	// DeclaredTotal is the externally declared total (receipt or user)
	// that the computed total is reconciled against.
	DeclaredTotal money.Money `json:"declared_total,omitzero"`

	// Currency is the ISO code shared by every amount in the request.
	Currency string `json:"currency"`

	// Rounding is the post-allocation rounding policy.
	Rounding RoundingPolicy `json:"rounding,omitempty"`
}
