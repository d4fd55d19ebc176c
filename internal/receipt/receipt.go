// Package receipt holds the types produced by the external receipt
// extraction process and the review workflow that gates acceptance of
// low-confidence line items.
package receipt

import "github.com/tabsplit/tabsplit/internal/money"

// LowConfidenceThreshold is the confidence score below which an
// extracted item needs a human decision before it can be accepted.
const LowConfidenceThreshold = 50

// reviewBoost is added to a pending item's confidence when a human
// accepts it anyway, recording that it was looked at.
const reviewBoost = 20

// Region is the rectangle on the source image an item was read from.
// The extraction process owns its semantics; it is carried through
// untouched so viewers can highlight it.
type Region struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ExtractedItem is one parsed line from a scanned receipt.
type ExtractedItem struct {
	// ID is the unique identifier for the item.
	ID string `json:"id"`

	// Name is the parsed description.
	Name string `json:"name"`

	// Quantity is the parsed line quantity; at least 1.
	Quantity int64 `json:"quantity"`

	// Price is the per-unit price.
	Price money.Money `json:"price"`

	// Confidence is the extractor's 0-100 estimate that this line was
	// read correctly.
	Confidence int `json:"confidence"`

	// Region is the source rectangle, if the extractor reported one.
	Region *Region `json:"region,omitempty"`
}

// LowConfidence reports whether the item needs review.
func (it ExtractedItem) LowConfidence() bool {
	return it.Confidence < LowConfidenceThreshold
}

// ItemsTotal sums price x quantity across items. This is the "parsed
// total" that gets reconciled against the total printed on the receipt.
func ItemsTotal(items []ExtractedItem, currency string) (money.Money, error) {
	total := money.Zero(currency)
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		var err error
		total, err = total.Add(it.Price.MulScalar(qty))
		if err != nil {
			return money.Money{}, err
		}
	}
	return total, nil
}
