package workflow

// transitions is the canonical table. Review appears once per reviewable
// stage; the review resolver may still divert the whole request to REJECTED
// when every item ends at quantity zero. There is no direct
// LOGISTIC_APPROVED -> APPROVED edge: every request passes the CEO stage.
var transitions = map[Status]map[Action]Status{
	StatusPending: {
		ActionReview: StatusLogisticApproved,
		ActionCancel: StatusCancelled,
	},
	StatusLogisticApproved: {
		ActionReview:       StatusAwaitingCEOApproval,
		ActionSubmitForCEO: StatusAwaitingCEOApproval,
		ActionCancel:       StatusCancelled,
	},
	StatusAwaitingCEOApproval: {
		ActionFinalApprove: StatusApproved,
		ActionCancel:       StatusCancelled,
	},
	StatusApproved: {
		ActionStartProcurement: StatusPurchasing,
		ActionCancel:           StatusCancelled,
	},
	StatusPurchasing: {
		ActionConfirmShipment: StatusInDelivery,
		ActionCancel:          StatusCancelled,
	},
	StatusInDelivery: {
		ActionConfirmArrival: StatusArrived,
		ActionCancel:         StatusCancelled,
	},
	StatusArrived: {
		// Partial registration keeps the request at ARRIVED; the service
		// promotes it to COMPLETED once every item is fully registered.
		ActionRegisterItems: StatusArrived,
	},
}

// Next computes the successor status for an action attempted at the current
// status. Policy (role) checks are separate; see Allowed.
func Next(current Status, action Action) (Status, error) {
	if current.IsTerminal() {
		return current, ErrTerminalState
	}
	row, ok := transitions[current]
	if !ok {
		return current, ErrInvalidTransition
	}
	next, ok := row[action]
	if !ok {
		return current, ErrInvalidTransition
	}
	return next, nil
}

// CanFire reports whether the action is defined for the current status
func CanFire(current Status, action Action) bool {
	_, err := Next(current, action)
	return err == nil
}

// PermittedActions lists the actions defined for the current status
func PermittedActions(current Status) []Action {
	if current.IsTerminal() {
		return nil
	}
	row := transitions[current]
	actions := make([]Action, 0, len(row))
	for a := range row {
		actions = append(actions, a)
	}
	return actions
}
