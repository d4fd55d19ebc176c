package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tabsplit/tabsplit/internal/calculator"
	"github.com/tabsplit/tabsplit/internal/metrics"
	"github.com/tabsplit/tabsplit/internal/money"
	"github.com/tabsplit/tabsplit/internal/receipt"
	"github.com/tabsplit/tabsplit/internal/storage"
)

// ErrImportClosed is returned when a review action targets an import
// that was already accepted or rejected.
var ErrImportClosed = fmt.Errorf("import already reviewed")

// ReviewState is the outcome of a review action: where the workflow
// stands, what still needs a decision, and how the parsed items compare
// to the total printed on the receipt.
type ReviewState struct {
	Phase        receipt.Phase           `json:"phase"`
	Status       receipt.ImportStatus    `json:"status"`
	PendingCount int                     `json:"pending_count"`
	Pending      []receipt.ExtractedItem `json:"pending,omitempty"`
	Items        []receipt.ExtractedItem `json:"items"`

	// ParsedVerdict compares the sum of the extracted items against the
	// receipt's declared total, recomputed on every action.
	ParsedVerdict calculator.Verdict `json:"parsed_verdict"`
}

// ReceiptService manages receipt imports and the confidence-gated
// review that turns them into split inputs.
type ReceiptService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewReceiptService creates a ReceiptService with the given storage
// backend.
func NewReceiptService(store storage.Store, m *metrics.Metrics) *ReceiptService {
	return &ReceiptService{store: store, metrics: m}
}

// Import stores an extraction result as a pending import.
func (s *ReceiptService) Import(ctx context.Context, userID, currency string, declaredTotal money.Money, items []receipt.ExtractedItem) (*receipt.Import, error) {
	imp := receipt.NewImport(userID, currency, declaredTotal, items)
	if err := s.store.CreateImport(ctx, imp); err != nil {
		return nil, fmt.Errorf("failed to store import: %w", err)
	}
	slog.Info("Receipt imported", "import_id", imp.ID, "user_id", userID, "items", len(items))
	return imp, nil
}

// Get returns a stored import with its current review state.
func (s *ReceiptService) Get(ctx context.Context, userID, id string) (*receipt.Import, *ReviewState, error) {
	imp, err := s.store.GetImport(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if imp.UserID != userID {
		return nil, nil, fmt.Errorf("import %s: %w", id, storage.ErrNotFound)
	}
	w := receipt.NewWorkflow(imp.Items, func([]receipt.ExtractedItem) {}, func() {})
	state, err := s.stateOf(imp, w)
	if err != nil {
		return nil, nil, err
	}
	return imp, state, nil
}

// Finalize attempts to accept a pending import. Items below the
// confidence threshold leave the import pending and report what needs a
// decision; otherwise the import is accepted.
func (s *ReceiptService) Finalize(ctx context.Context, userID, id string) (*ReviewState, error) {
	return s.review(ctx, userID, id, "finalize", func(w *receipt.Workflow) error {
		_, err := w.Finalize()
		return err
	})
}

// AcceptAnyway records a human override of the low-confidence gate and
// accepts the import.
func (s *ReceiptService) AcceptAnyway(ctx context.Context, userID, id string) (*ReviewState, error) {
	return s.review(ctx, userID, id, "accept_anyway", func(w *receipt.Workflow) error {
		if _, err := w.Finalize(); err != nil {
			return err
		}
		if w.Phase() == receipt.PhaseAwaitingDecision {
			return w.AcceptAnyway()
		}
		return nil
	})
}

// Correct narrows the import to its low-confidence items so the caller
// can edit them. The import stays pending; submit the edited set with
// UpdateItems and finalize again.
func (s *ReceiptService) Correct(ctx context.Context, userID, id string) (*ReviewState, error) {
	return s.review(ctx, userID, id, "correct", func(w *receipt.Workflow) error {
		if _, err := w.Finalize(); err != nil {
			return err
		}
		if w.Phase() != receipt.PhaseAwaitingDecision {
			return receipt.ErrNoDecisionPending
		}
		_, err := w.Correct()
		return err
	})
}

// UpdateItems replaces a pending import's item set with an edited one.
func (s *ReceiptService) UpdateItems(ctx context.Context, userID, id string, items []receipt.ExtractedItem) (*ReviewState, error) {
	return s.review(ctx, userID, id, "update_items", func(w *receipt.Workflow) error {
		w.ReplaceItems(items)
		return nil
	})
}

// Reject abandons a pending import.
func (s *ReceiptService) Reject(ctx context.Context, userID, id string) (*ReviewState, error) {
	return s.review(ctx, userID, id, "reject", func(w *receipt.Workflow) error {
		w.Reject()
		return nil
	})
}

// review runs one workflow action against a stored import and persists
// the resulting item set and status.
func (s *ReceiptService) review(ctx context.Context, userID, id, action string, run func(*receipt.Workflow) error) (*ReviewState, error) {
	imp, err := s.store.GetImport(ctx, id)
	if err != nil {
		return nil, err
	}
	if imp.UserID != userID {
		return nil, fmt.Errorf("import %s: %w", id, storage.ErrNotFound)
	}
	if imp.Status != receipt.StatusPending {
		return nil, fmt.Errorf("%w: import %s is %s", ErrImportClosed, id, imp.Status)
	}

	w := receipt.NewWorkflow(imp.Items,
		func(items []receipt.ExtractedItem) {
			imp.Status = receipt.StatusAccepted
			imp.Items = items
		},
		func() {
			imp.Status = receipt.StatusRejected
		},
	)
	if err := run(w); err != nil {
		return nil, err
	}
	if imp.Status == receipt.StatusPending {
		imp.Items = w.Items()
	}

	if err := s.store.UpdateImport(ctx, imp); err != nil {
		return nil, fmt.Errorf("failed to update import: %w", err)
	}
	s.metrics.IncrementReview(action)

	state, err := s.stateOf(imp, w)
	if err != nil {
		return nil, err
	}
	slog.Info("Receipt review action", "import_id", id, "action", action, "status", imp.Status, "pending", state.PendingCount)
	return state, nil
}

func (s *ReceiptService) stateOf(imp *receipt.Import, w *receipt.Workflow) (*ReviewState, error) {
	pending := w.Pending()
	parsed, err := receipt.ItemsTotal(imp.Items, imp.Currency)
	if err != nil {
		return nil, err
	}
	verdict, err := calculator.Evaluate(imp.DeclaredTotal, parsed, calculator.DefaultTolerance(imp.Currency))
	if err != nil {
		return nil, err
	}
	return &ReviewState{
		Phase:         w.Phase(),
		Status:        imp.Status,
		PendingCount:  len(pending),
		Pending:       pending,
		Items:         imp.Items,
		ParsedVerdict: verdict,
	}, nil
}
