package models

// SplitRecord is a persisted split: the summary snapshot plus the
// reconciliation outcome at the time it was saved. Verdicts inside live
// splits are always recomputed; the persisted copy exists only for
// history display.
type SplitRecord struct {
	// ID is the unique identifier for the record (UUID format).
	ID string `json:"id"`

	// UserID is the account the record is filed under.
	UserID string `json:"user_id"`

	// Summary is the portable allocation snapshot.
	Summary SplitSummary `json:"summary"`

	// DeclaredTotal and ComputedTotal are stored in minor units.
	DeclaredTotal int64 `json:"declared_total_units"`
	ComputedTotal int64 `json:"computed_total_units"`

	// Matched records the reconciliation outcome; Difference is the
	// absolute gap in minor units.
	Matched    bool  `json:"matched"`
	Difference int64 `json:"difference_units"`

	// CreatedAt is the Unix timestamp when the record was saved.
	CreatedAt int64 `json:"created_at"`
}

// UserStats aggregates a user's saved splits for the history view.
type UserStats struct {
	// SplitCount is the number of saved records.
	SplitCount int `json:"split_count"`

	// TotalComputed is the sum of computed totals across records, in
	// major units per record currency. Mixed-currency histories report
	// per-currency sums.
	TotalComputed map[string]string `json:"total_computed"`

	// MismatchCount is how many saved records reconciled as mismatched.
	MismatchCount int `json:"mismatch_count"`
}
