package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vestuario/commerce-api/internal/core/domain"
	"github.com/vestuario/commerce-api/internal/core/ports"
)

type roleRequestService struct {
	requests ports.RoleRequestRepository
	users    ports.UserRepository
	log      zerolog.Logger
}

// NewRoleRequestService returns a RoleRequestService implementation.
func NewRoleRequestService(requests ports.RoleRequestRepository, users ports.UserRepository, log zerolog.Logger) ports.RoleRequestService {
	return &roleRequestService{requests: requests, users: users, log: log}
}

func (s *roleRequestService) Submit(ctx context.Context, userID, motivation string) (*domain.RoleRequest, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	target, ok := domain.PromotionTarget(user.Role)
	if !ok {
		// Admins (and any role without a promotion target) cannot request a change.
		return nil, domain.ErrForbidden
	}

	req := &domain.RoleRequest{
		UserID:        userID,
		RequestedRole: target,
		Motivation:    motivation,
		Status:        domain.RequestPending,
		CreatedAt:     time.Now().UTC(),
	}

	created, err := s.requests.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("request_id", created.ID).
		Str("user_id", userID).
		Str("requested_role", target).
		Msg("role request submitted")

	return created, nil
}

func (s *roleRequestService) ListPending(ctx context.Context) ([]*domain.RoleRequest, error) {
	return s.requests.ListPending(ctx)
}

// Decide applies an admin decision exactly once.
//
// The request is flipped out of pending with a conditional update before the
// account is touched: of two concurrent decisions only one matches the
// pending filter, the other observes ErrInvalidState. If the subsequent role
// update fails, the request is reopened so no half-applied decision survives.
func (s *roleRequestService) Decide(ctx context.Context, in ports.DecideInput) (*domain.RoleRequest, error) {
	status, err := domain.DecisionStatus(in.Decision)
	if err != nil {
		return nil, err
	}

	req, err := s.requests.FindByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if req.Status.Terminal() {
		return nil, domain.ErrInvalidState
	}

	decidedAt := time.Now().UTC()
	decision := ports.Decision{
		Status:  status,
		AdminID: in.AdminID,
		Notes:   in.Notes,
		At:      decidedAt,
	}

	applied, err := s.requests.MarkDecided(ctx, in.RequestID, decision)
	if err != nil {
		return nil, fmt.Errorf("decide request: %w", err)
	}
	if !applied {
		// Lost the race against another admin.
		return nil, domain.ErrInvalidState
	}

	if status == domain.RequestApproved {
		if err := s.users.SetRole(ctx, req.UserID, req.RequestedRole); err != nil {
			if reopenErr := s.requests.Reopen(ctx, in.RequestID); reopenErr != nil {
				s.log.Error().Err(reopenErr).
					Str("request_id", in.RequestID).
					Msg("failed to reopen request after role update failure")
			}
			return nil, fmt.Errorf("apply role change: %w", err)
		}

		s.log.Info().
			Str("request_id", in.RequestID).
			Str("user_id", req.UserID).
			Str("new_role", req.RequestedRole).
			Str("admin_id", in.AdminID).
			Msg("role request approved")
	} else {
		s.log.Info().
			Str("request_id", in.RequestID).
			Str("user_id", req.UserID).
			Str("admin_id", in.AdminID).
			Msg("role request rejected")
	}

	req.Status = status
	req.DecidedBy = in.AdminID
	req.DecisionNotes = in.Notes
	req.DecidedAt = &decidedAt
	return req, nil
}
