package domain

import (
	"testing"
	"time"
)

func TestPromotionTarget(t *testing.T) {
	target, ok := PromotionTarget(RoleUser)
	if !ok || target != RoleAdmin {
		t.Fatalf("expected user to promote to admin, got %q/%v", target, ok)
	}
	if _, ok := PromotionTarget(RoleAdmin); ok {
		t.Fatalf("admin must have no promotion target")
	}
	if _, ok := PromotionTarget("superuser"); ok {
		t.Fatalf("unknown role must have no promotion target")
	}
}

func TestDecisionStatus(t *testing.T) {
	if status, err := DecisionStatus("approved"); err != nil || status != RequestApproved {
		t.Fatalf("approved: got %q/%v", status, err)
	}
	if status, err := DecisionStatus("rejected"); err != nil || status != RequestRejected {
		t.Fatalf("rejected: got %q/%v", status, err)
	}
	if _, err := DecisionStatus("pending"); err != ErrInvalidDecision {
		t.Fatalf("pending is not a decision, got %v", err)
	}
	if _, err := DecisionStatus("maybe"); err != ErrInvalidDecision {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
}

func TestRequestStatusTerminal(t *testing.T) {
	if RequestPending.Terminal() {
		t.Fatalf("pending must not be terminal")
	}
	if !RequestApproved.Terminal() || !RequestRejected.Terminal() {
		t.Fatalf("approved and rejected must be terminal")
	}
}

func TestUserLocked(t *testing.T) {
	now := time.Now()

	u := &User{}
	if u.Locked(now) {
		t.Fatalf("user without lock_until must not be locked")
	}

	past := now.Add(-time.Minute)
	u.LockUntil = &past
	if u.Locked(now) {
		t.Fatalf("expired lock must not count as locked")
	}

	future := now.Add(2 * time.Hour)
	u.LockUntil = &future
	if !u.Locked(now) {
		t.Fatalf("future lock_until must count as locked")
	}
}
