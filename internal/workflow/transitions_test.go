package workflow

import (
	"errors"
	"testing"
)

func TestHappyPath(t *testing.T) {
	steps := []struct {
		action Action
		want   Status
	}{
		{ActionReview, StatusLogisticApproved},
		{ActionSubmitForCEO, StatusAwaitingCEOApproval},
		{ActionFinalApprove, StatusApproved},
		{ActionStartProcurement, StatusPurchasing},
		{ActionConfirmShipment, StatusInDelivery},
		{ActionConfirmArrival, StatusArrived},
	}

	current := StatusPending
	for _, step := range steps {
		next, err := Next(current, step.action)
		if err != nil {
			t.Fatalf("Next(%s, %s): unexpected error %v", current, step.action, err)
		}
		if next != step.want {
			t.Fatalf("Next(%s, %s) = %s, want %s", current, step.action, next, step.want)
		}
		if !current.Advances(next) {
			t.Fatalf("%s -> %s is not a forward step", current, next)
		}
		current = next
	}
}

func TestTerminalStatesAcceptNothing(t *testing.T) {
	actions := []Action{
		ActionReview, ActionSubmitForCEO, ActionFinalApprove, ActionStartProcurement,
		ActionConfirmShipment, ActionConfirmArrival, ActionRegisterItems, ActionCancel,
	}
	for _, terminal := range []Status{StatusCompleted, StatusRejected, StatusCancelled} {
		for _, action := range actions {
			if _, err := Next(terminal, action); err == nil {
				t.Errorf("Next(%s, %s) should fail", terminal, action)
			}
		}
		if got := PermittedActions(terminal); len(got) != 0 {
			t.Errorf("PermittedActions(%s) = %v, want none", terminal, got)
		}
	}
}

func TestInvalidTransitions(t *testing.T) {
	cases := []struct {
		from   Status
		action Action
	}{
		{StatusPending, ActionFinalApprove},
		{StatusPending, ActionRegisterItems},
		{StatusLogisticApproved, ActionConfirmArrival},
		{StatusAwaitingCEOApproval, ActionReview},
		{StatusApproved, ActionConfirmShipment},
		{StatusPurchasing, ActionConfirmArrival},
		{StatusInDelivery, ActionRegisterItems},
		{StatusArrived, ActionCancel},
	}
	for _, tc := range cases {
		_, err := Next(tc.from, tc.action)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Next(%s, %s) = %v, want ErrInvalidTransition", tc.from, tc.action, err)
		}
	}
}

func TestCancelWindowClosesAtArrival(t *testing.T) {
	cancellable := []Status{
		StatusPending, StatusLogisticApproved, StatusAwaitingCEOApproval,
		StatusApproved, StatusPurchasing, StatusInDelivery,
	}
	for _, from := range cancellable {
		next, err := Next(from, ActionCancel)
		if err != nil {
			t.Errorf("Next(%s, cancel): unexpected error %v", from, err)
			continue
		}
		if next != StatusCancelled {
			t.Errorf("Next(%s, cancel) = %s, want CANCELLED", from, next)
		}
	}

	if _, err := Next(StatusArrived, ActionCancel); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancel after arrival should fail, got %v", err)
	}
}

func TestAdvancesRejectsRegression(t *testing.T) {
	if StatusPurchasing.Advances(StatusApproved) {
		t.Error("PURCHASING -> APPROVED should not be a forward step")
	}
	if StatusArrived.Advances(StatusPending) {
		t.Error("ARRIVED -> PENDING should not be a forward step")
	}
	if !StatusInDelivery.Advances(StatusCancelled) {
		t.Error("terminal off-ramp should always count as forward")
	}
}

func TestRolePolicy(t *testing.T) {
	cases := []struct {
		role   Role
		action Action
		want   bool
	}{
		{RoleStaff, ActionCreate, true},
		{RoleStaff, ActionFollowUp, true},
		{RoleStaff, ActionReview, false},
		{RoleStaff, ActionFinalApprove, false},
		{RoleAdminLogistik, ActionReview, true},
		{RoleAdminLogistik, ActionFinalApprove, false},
		{RoleAdminPurchase, ActionSubmitForCEO, true},
		{RoleSuperAdmin, ActionFinalApprove, true},
		{RoleSuperAdmin, ActionPrioritize, true},
		{RoleLeader, ActionCancel, true},
	}
	for _, tc := range cases {
		if got := Allowed(tc.role, tc.action); got != tc.want {
			t.Errorf("Allowed(%s, %s) = %v, want %v", tc.role, tc.action, got, tc.want)
		}
	}
}

func TestReviewerStages(t *testing.T) {
	if !CanReviewAt(RoleAdminLogistik, StatusPending) {
		t.Error("logistics should review PENDING")
	}
	if CanReviewAt(RoleAdminLogistik, StatusLogisticApproved) {
		t.Error("logistics should not review LOGISTIC_APPROVED")
	}
	if !CanReviewAt(RoleAdminPurchase, StatusLogisticApproved) {
		t.Error("purchase should review LOGISTIC_APPROVED")
	}
	if CanReviewAt(RoleStaff, StatusPending) {
		t.Error("staff should never review")
	}
}
