package workflow

// Status represents a request's position in the approval lifecycle
type Status string

const (
	StatusPending             Status = "PENDING"
	StatusLogisticApproved    Status = "LOGISTIC_APPROVED"
	StatusAwaitingCEOApproval Status = "AWAITING_CEO_APPROVAL"
	StatusApproved            Status = "APPROVED"
	StatusPurchasing          Status = "PURCHASING"
	StatusInDelivery          Status = "IN_DELIVERY"
	StatusArrived             Status = "ARRIVED"
	StatusCompleted           Status = "COMPLETED"
	StatusRejected            Status = "REJECTED"
	StatusCancelled           Status = "CANCELLED"
)

var validStatuses = map[Status]bool{
	StatusPending:             true,
	StatusLogisticApproved:    true,
	StatusAwaitingCEOApproval: true,
	StatusApproved:            true,
	StatusPurchasing:          true,
	StatusInDelivery:          true,
	StatusArrived:             true,
	StatusCompleted:           true,
	StatusRejected:            true,
	StatusCancelled:           true,
}

var terminalStatuses = map[Status]bool{
	StatusCompleted: true,
	StatusRejected:  true,
	StatusCancelled: true,
}

// statusRank orders the forward path. Terminal off-ramps carry no rank.
var statusRank = map[Status]int{
	StatusPending:             0,
	StatusLogisticApproved:    1,
	StatusAwaitingCEOApproval: 2,
	StatusApproved:            3,
	StatusPurchasing:          4,
	StatusInDelivery:          5,
	StatusArrived:             6,
	StatusCompleted:           7,
}

// IsValid returns true if the status is a known lifecycle status
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// IsTerminal returns true if no further transition may be accepted
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// Rank returns the position of the status on the forward path and whether it
// is on that path at all (REJECTED and CANCELLED are not).
func (s Status) Rank() (int, bool) {
	r, ok := statusRank[s]
	return r, ok
}

// Advances reports whether moving from s to next is a forward step. Terminal
// off-ramps (REJECTED, CANCELLED) never count as regression.
func (s Status) Advances(next Status) bool {
	if next == StatusRejected || next == StatusCancelled {
		return true
	}
	from, okFrom := s.Rank()
	to, okTo := next.Rank()
	return okFrom && okTo && to > from
}

func (s Status) String() string {
	return string(s)
}
