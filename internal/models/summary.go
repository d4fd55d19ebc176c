package models

// SplitSummary is the portable snapshot of a finished allocation. It is
// what export, share, and history persistence consume; the engine never
// reads one back. Field names are part of the export contract and must
// stay stable.
type SplitSummary struct {
	// Type is the mode the split was computed with.
	Type Mode `json:"type"`

	// Participants carry the final per-person amounts.
	Participants []SummaryParticipant `json:"participants"`

	// Items are the bill lines the split was computed from.
	Items []SummaryItem `json:"items"`

	// Subtotal is the computed total in major units, e.g. "42.50".
	Subtotal string `json:"subtotal"`

	// Currency is the ISO currency code.
	Currency string `json:"currency"`

	// Rounding is the policy the amounts were normalized with.
	Rounding RoundingPolicy `json:"rounding"`
}

// SummaryParticipant is one participant's final share in a summary.
type SummaryParticipant struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Amount     string   `json:"amount"`
	Percentage float64  `json:"percentage,omitempty"`
	ItemIDs    []string `json:"items,omitempty"`
}

// SummaryItem is one bill line in a summary.
type SummaryItem struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Price      string   `json:"price"`
	AssignedTo []string `json:"assignedTo,omitempty"`
}
