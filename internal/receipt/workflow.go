package receipt

import "errors"

// Phase is the workflow's current state.
type Phase string

const (
	// PhaseReady means no pending decision: finalize either accepts
	// directly or raises a decision.
	PhaseReady Phase = "ready"

	// PhaseAwaitingDecision means finalize found low-confidence items
	// and is waiting for AcceptAnyway or Correct.
	PhaseAwaitingDecision Phase = "awaiting_decision"
)

// ErrNoDecisionPending is returned when AcceptAnyway or Correct is
// called outside the AwaitingDecision phase.
var ErrNoDecisionPending = errors.New("no review decision pending")

// ErrDecisionPending is returned when Finalize is called while an
// earlier finalize is already awaiting a decision.
var ErrDecisionPending = errors.New("a review decision is already pending")

// Workflow gates acceptance of extracted items on their confidence
// scores. It never blocks a human override and never silently trusts
// uncertain data: items below the threshold force an explicit decision
// before the accept callback can fire.
//
// The callbacks are fire-and-forget handoffs to the caller (persistence,
// UI); the workflow does not retry or await them. A Workflow is not safe
// for concurrent use.
type Workflow struct {
	phase    Phase
	items    []ExtractedItem
	onAccept func(items []ExtractedItem)
	onReject func()
}

// NewWorkflow starts a workflow in the Ready phase over the given items.
func NewWorkflow(items []ExtractedItem, onAccept func([]ExtractedItem), onReject func()) *Workflow {
	return &Workflow{
		phase:    PhaseReady,
		items:    append([]ExtractedItem(nil), items...),
		onAccept: onAccept,
		onReject: onReject,
	}
}

// Phase returns the current phase.
func (w *Workflow) Phase() Phase { return w.phase }

// Items returns the current item set.
func (w *Workflow) Items() []ExtractedItem {
	return append([]ExtractedItem(nil), w.items...)
}

// Pending returns the items currently below the confidence threshold.
func (w *Workflow) Pending() []ExtractedItem {
	var pending []ExtractedItem
	for _, it := range w.items {
		if it.LowConfidence() {
			pending = append(pending, it)
		}
	}
	return pending
}

// Finalize attempts to accept the current item set. With no
// low-confidence items the accept callback fires immediately and the
// workflow stays Ready; otherwise it moves to AwaitingDecision and
// reports how many items need a decision.
func (w *Workflow) Finalize() (pending int, err error) {
	if w.phase != PhaseReady {
		return len(w.Pending()), ErrDecisionPending
	}
	if n := len(w.Pending()); n > 0 {
		w.phase = PhaseAwaitingDecision
		return n, nil
	}
	w.onAccept(w.Items())
	return 0, nil
}

// AcceptAnyway records a human override: every pending item's confidence
// is boosted by +20 (capped at 100) to mark that it was reviewed, the
// workflow returns to Ready, and finalize runs again with the full set.
func (w *Workflow) AcceptAnyway() error {
	if w.phase != PhaseAwaitingDecision {
		return ErrNoDecisionPending
	}
	for i := range w.items {
		if !w.items[i].LowConfidence() {
			continue
		}
		w.items[i].Confidence += reviewBoost
		if w.items[i].Confidence > 100 {
			w.items[i].Confidence = 100
		}
	}
	w.phase = PhaseReady
	_, err := w.Finalize()
	return err
}

// Correct narrows the active item set to only the pending items and
// hands them back for manual editing. The workflow returns to Ready; the
// caller is expected to edit, ReplaceItems, and finalize again. Neither
// callback fires.
func (w *Workflow) Correct() ([]ExtractedItem, error) {
	if w.phase != PhaseAwaitingDecision {
		return nil, ErrNoDecisionPending
	}
	w.items = w.Pending()
	w.phase = PhaseReady
	return w.Items(), nil
}

// ReplaceItems swaps in an edited item set and returns to Ready.
func (w *Workflow) ReplaceItems(items []ExtractedItem) {
	w.items = append([]ExtractedItem(nil), items...)
	w.phase = PhaseReady
}

// Reject abandons the review from any phase and fires the reject
// callback unconditionally.
func (w *Workflow) Reject() {
	w.phase = PhaseReady
	w.onReject()
}
