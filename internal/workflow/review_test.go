package workflow

import (
	"errors"
	"testing"
)

func reviewItems() []ReviewItem {
	return []ReviewItem{
		{ID: "item-1", Name: "Laptop", Quantity: 5},
		{ID: "item-2", Name: "Monitor", Quantity: 3},
	}
}

func TestResolveReviewFullApproval(t *testing.T) {
	out, err := ResolveReview(StatusPending, reviewItems(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.NextStatus != StatusLogisticApproved {
		t.Errorf("NextStatus = %s, want LOGISTIC_APPROVED", out.NextStatus)
	}
	if len(out.ItemStatuses) != 0 {
		t.Errorf("full approval should record no item statuses, got %v", out.ItemStatuses)
	}
	if out.AllRejected {
		t.Error("AllRejected should be false")
	}
}

func TestResolveReviewPartialApproval(t *testing.T) {
	decisions := map[string]ReviewDecision{
		"item-1": {ApprovedQuantity: 2, Reason: "budget limit"},
	}
	out, err := ResolveReview(StatusPending, reviewItems(), decisions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.NextStatus != StatusLogisticApproved {
		t.Errorf("NextStatus = %s, want LOGISTIC_APPROVED", out.NextStatus)
	}

	st, ok := out.ItemStatuses["item-1"]
	if !ok {
		t.Fatal("reduced item should be recorded")
	}
	if st.Status != ItemStatusRejected {
		t.Errorf("recorded status = %q, want %q", st.Status, ItemStatusRejected)
	}
	if st.ApprovedQuantity != 2 || st.Reason != "budget limit" {
		t.Errorf("recorded %+v, want quantity 2 with reason", st)
	}
	if _, ok := out.ItemStatuses["item-2"]; ok {
		t.Error("untouched item should record nothing")
	}
}

func TestResolveReviewExplicitFullQuantityRecordsNothing(t *testing.T) {
	decisions := map[string]ReviewDecision{
		"item-1": {ApprovedQuantity: 5},
	}
	out, err := ResolveReview(StatusPending, reviewItems(), decisions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.ItemStatuses) != 0 {
		t.Errorf("approving the full quantity should record nothing, got %v", out.ItemStatuses)
	}
}

func TestResolveReviewReasonRequired(t *testing.T) {
	decisions := map[string]ReviewDecision{
		"item-1": {ApprovedQuantity: 2},
	}
	_, err := ResolveReview(StatusPending, reviewItems(), decisions)
	if !IsValidation(err) {
		t.Fatalf("missing reason should be a validation error, got %v", err)
	}
}

func TestResolveReviewQuantityBounds(t *testing.T) {
	for _, qty := range []int{-1, 6} {
		decisions := map[string]ReviewDecision{
			"item-1": {ApprovedQuantity: qty, Reason: "x"},
		}
		if _, err := ResolveReview(StatusPending, reviewItems(), decisions); !IsValidation(err) {
			t.Errorf("quantity %d should be a validation error, got %v", qty, err)
		}
	}
}

func TestResolveReviewUnknownItem(t *testing.T) {
	decisions := map[string]ReviewDecision{
		"nope": {ApprovedQuantity: 1, Reason: "x"},
	}
	if _, err := ResolveReview(StatusPending, reviewItems(), decisions); !IsValidation(err) {
		t.Fatalf("unknown item should be a validation error, got %v", err)
	}
}

func TestResolveReviewAllZeroRejectsRequest(t *testing.T) {
	decisions := map[string]ReviewDecision{
		"item-1": {ApprovedQuantity: 0, Reason: "not needed"},
		"item-2": {ApprovedQuantity: 0, Reason: "not needed"},
	}
	out, err := ResolveReview(StatusPending, reviewItems(), decisions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.AllRejected {
		t.Error("AllRejected should be true")
	}
	if out.NextStatus != StatusRejected {
		t.Errorf("NextStatus = %s, want REJECTED", out.NextStatus)
	}
	if len(out.ItemStatuses) != 2 {
		t.Errorf("both items should be recorded, got %d", len(out.ItemStatuses))
	}
}

func TestResolveReviewOneSurvivorAdvances(t *testing.T) {
	decisions := map[string]ReviewDecision{
		"item-1": {ApprovedQuantity: 0, Reason: "not needed"},
		"item-2": {ApprovedQuantity: 1, Reason: "reduced"},
	}
	out, err := ResolveReview(StatusLogisticApproved, reviewItems(), decisions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.AllRejected {
		t.Error("one non-zero item should keep the request alive")
	}
	if out.NextStatus != StatusAwaitingCEOApproval {
		t.Errorf("NextStatus = %s, want AWAITING_CEO_APPROVAL", out.NextStatus)
	}
}

func TestResolveReviewStageGuards(t *testing.T) {
	if _, err := ResolveReview(StatusRejected, reviewItems(), nil); !errors.Is(err, ErrTerminalState) {
		t.Errorf("terminal stage: got %v, want ErrTerminalState", err)
	}
	if _, err := ResolveReview(StatusApproved, reviewItems(), nil); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("non-reviewable stage: got %v, want ErrInvalidTransition", err)
	}
	if _, err := ResolveReview(StatusPending, nil, nil); !IsValidation(err) {
		t.Errorf("empty item list: got %v, want validation error", err)
	}
}
