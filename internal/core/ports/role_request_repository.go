package ports

import (
	"context"
	"time"

	"github.com/vestuario/commerce-api/internal/core/domain"
)

// Decision carries the metadata recorded when an admin decides a request.
type Decision struct {
	Status  domain.RequestStatus
	AdminID string
	Notes   string
	At      time.Time
}

// RoleRequestRepository defines persistence operations for role requests.
type RoleRequestRepository interface {
	Create(ctx context.Context, req *domain.RoleRequest) (*domain.RoleRequest, error)
	FindByID(ctx context.Context, id string) (*domain.RoleRequest, error)

	// ListPending returns all pending requests, oldest first.
	ListPending(ctx context.Context) ([]*domain.RoleRequest, error)

	// MarkDecided flips the request from pending to the decision's status,
	// conditionally on it still being pending. Returns false (no error) when
	// the request was not pending, serializing concurrent decisions.
	MarkDecided(ctx context.Context, id string, d Decision) (bool, error)

	// Reopen reverts a decided request to pending, clearing the decision
	// metadata. Used only to compensate a failed role update.
	Reopen(ctx context.Context, id string) error
}
