package workflow

// Item status labels recorded by the review resolver. The "rejected" label
// is applied to partial approvals as well, matching the historical data.
const (
	ItemStatusRejected = "rejected"
)

// ReviewItem is the reviewer-facing view of a request line
type ReviewItem struct {
	ID       string
	Name     string
	Quantity int
}

// ReviewDecision is the reviewer's verdict for one item. Items without a
// decision are treated as fully approved.
type ReviewDecision struct {
	ApprovedQuantity int
	Reason           string
}

// ItemStatus is the recorded outcome for an item whose quantity was reduced
type ItemStatus struct {
	Status           string
	ApprovedQuantity int
	Reason           string
}

// ReviewOutcome is the resolved effect of a review submission
type ReviewOutcome struct {
	NextStatus   Status
	ItemStatuses map[string]ItemStatus
	AllRejected  bool
}

// ResolveReview validates and resolves a per-item review at the given stage.
//
// Full approvals record no item status. Reductions require a non-empty
// reason and record the "rejected" label with the approved quantity. When
// every item nets to zero the whole request is rejected; otherwise it
// advances one stage.
func ResolveReview(stage Status, items []ReviewItem, decisions map[string]ReviewDecision) (*ReviewOutcome, error) {
	if stage.IsTerminal() {
		return nil, ErrTerminalState
	}
	if _, ok := reviewerRoles[stage]; !ok {
		return nil, ErrInvalidTransition
	}
	if len(items) == 0 {
		return nil, NewValidationError("request has no items to review")
	}

	known := make(map[string]ReviewItem, len(items))
	for _, it := range items {
		known[it.ID] = it
	}
	for id := range decisions {
		if _, ok := known[id]; !ok {
			return nil, NewValidationError("decision references unknown item %q", id)
		}
	}

	statuses := make(map[string]ItemStatus)
	allRejected := true
	for _, it := range items {
		dec, reviewed := decisions[it.ID]
		if !reviewed {
			// Implicit full approval
			allRejected = false
			continue
		}
		if dec.ApprovedQuantity < 0 || dec.ApprovedQuantity > it.Quantity {
			return nil, NewValidationError("approved quantity for %q must be between 0 and %d", it.Name, it.Quantity)
		}
		if dec.ApprovedQuantity == it.Quantity {
			allRejected = false
			continue
		}
		if dec.Reason == "" {
			return nil, NewValidationError("a reason is required when reducing the quantity of %q", it.Name)
		}
		statuses[it.ID] = ItemStatus{
			Status:           ItemStatusRejected,
			ApprovedQuantity: dec.ApprovedQuantity,
			Reason:           dec.Reason,
		}
		if dec.ApprovedQuantity > 0 {
			allRejected = false
		}
	}

	if allRejected {
		return &ReviewOutcome{
			NextStatus:   StatusRejected,
			ItemStatuses: statuses,
			AllRejected:  true,
		}, nil
	}

	next, err := Next(stage, ActionReview)
	if err != nil {
		return nil, err
	}
	return &ReviewOutcome{
		NextStatus:   next,
		ItemStatuses: statuses,
	}, nil
}
