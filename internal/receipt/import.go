package receipt

import (
	"time"

	"github.com/tabsplit/tabsplit/internal/money"
)

// ImportStatus is the lifecycle of a stored receipt import.
type ImportStatus string

const (
	// StatusPending means the import is still under review.
	StatusPending ImportStatus = "pending"

	// StatusAccepted means the items were accepted into a split.
	StatusAccepted ImportStatus = "accepted"

	// StatusRejected means the import was abandoned.
	StatusRejected ImportStatus = "rejected"
)

// Import is a stored extraction result: the parsed items plus the total
// printed on the receipt, waiting to be reviewed into a split. The
// review workflow runs over the Items of a pending import.
type Import struct {
	// ID is the unique identifier for the import (UUID format).
	ID string `json:"id"`

	// UserID is the account that uploaded the receipt.
	UserID string `json:"user_id"`

	// Currency is the ISO code of the receipt amounts.
	Currency string `json:"currency"`

	// DeclaredTotal is the total printed on the receipt.
	DeclaredTotal money.Money `json:"declared_total"`

	// Status tracks the review lifecycle.
	Status ImportStatus `json:"status"`

	// Items are the parsed lines, updated in place as review edits land.
	Items []ExtractedItem `json:"items"`

	// CreatedAt is the Unix timestamp when the receipt was imported.
	CreatedAt int64 `json:"created_at"`
}

// NewImport builds a pending import. The ID is filled in by the store.
func NewImport(userID, currency string, declaredTotal money.Money, items []ExtractedItem) *Import {
	return &Import{
		UserID:        userID,
		Currency:      currency,
		DeclaredTotal: declaredTotal,
		Status:        StatusPending,
		Items:         append([]ExtractedItem(nil), items...),
		CreatedAt:     time.Now().Unix(),
	}
}
