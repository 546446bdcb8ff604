package workflow

// RegistrationItem is the registration-facing view of a request line.
// ApprovedQuantity is nil when the item was never reduced at review.
type RegistrationItem struct {
	ID               string
	Name             string
	Quantity         int
	ApprovedQuantity *int
	Registered       int
}

// Target returns the quantity an item must reach to count as fully
// registered: the reviewer-approved quantity when one was recorded, the
// requested quantity otherwise.
func (i RegistrationItem) Target() int {
	if i.ApprovedQuantity != nil {
		return *i.ApprovedQuantity
	}
	return i.Quantity
}

// Remaining returns how many units are still unregistered
func (i RegistrationItem) Remaining() int {
	r := i.Target() - i.Registered
	if r < 0 {
		return 0
	}
	return r
}

// ApplyRegistration validates a batch of per-item counts against the current
// registration state and returns the new cumulative counts plus whether the
// request is now fully registered. Counts must be positive and may not push
// an item past its target; a violation leaves everything unchanged.
func ApplyRegistration(items []RegistrationItem, counts map[string]int) (map[string]int, bool, error) {
	if len(counts) == 0 {
		return nil, false, NewValidationError("no items to register")
	}

	known := make(map[string]RegistrationItem, len(items))
	for _, it := range items {
		known[it.ID] = it
	}

	updated := make(map[string]int, len(counts))
	for id, count := range counts {
		it, ok := known[id]
		if !ok {
			return nil, false, NewValidationError("registration references unknown item %q", id)
		}
		if count <= 0 {
			return nil, false, NewValidationError("registration count for %q must be positive", it.Name)
		}
		if count > it.Remaining() {
			return nil, false, NewValidationError(
				"cannot register %d unit(s) of %q: only %d remaining", count, it.Name, it.Remaining())
		}
		updated[id] = it.Registered + count
	}

	complete := true
	for _, it := range items {
		registered := it.Registered
		if v, ok := updated[it.ID]; ok {
			registered = v
		}
		if registered < it.Target() {
			complete = false
			break
		}
	}

	return updated, complete, nil
}
