package ports

import (
	"context"

	"github.com/vestuario/commerce-api/internal/core/domain"
)

// DecideInput carries an admin decision on a pending role request.
type DecideInput struct {
	RequestID string
	Decision  string // "approved" or "rejected"
	AdminID   string
	Notes     string
}

// RoleRequestService defines the role change workflow.
type RoleRequestService interface {
	// Submit creates a pending request for the given account. The requested
	// role is derived from the account's current role via the promotion map.
	Submit(ctx context.Context, userID, motivation string) (*domain.RoleRequest, error)
	ListPending(ctx context.Context) ([]*domain.RoleRequest, error)
	// Decide applies an admin decision exactly once. Approval updates the
	// requester's role and the request status together; a partial apply never
	// survives.
	Decide(ctx context.Context, in DecideInput) (*domain.RoleRequest, error)
}
