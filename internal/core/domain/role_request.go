package domain

import (
	"errors"
	"time"
)

// RequestStatus represents the lifecycle state of a role request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

var ErrRequestNotFound = errors.New("role request not found")
var ErrInvalidState = errors.New("role request already decided")
var ErrInvalidDecision = errors.New("invalid decision")

// Terminal reports whether the status admits no further transitions.
// Only pending requests can be decided; approved and rejected are final.
func (s RequestStatus) Terminal() bool {
	return s == RequestApproved || s == RequestRejected
}

// DecisionStatus validates an admin decision and returns the status it
// transitions the request to.
func DecisionStatus(decision string) (RequestStatus, error) {
	switch RequestStatus(decision) {
	case RequestApproved:
		return RequestApproved, nil
	case RequestRejected:
		return RequestRejected, nil
	default:
		return "", ErrInvalidDecision
	}
}

// RoleRequest records one account's petition to change role. A request is
// created pending and decided exactly once; it is never deleted.
type RoleRequest struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	RequestedRole string        `json:"requested_role"`
	Motivation    string        `json:"motivation"`
	Status        RequestStatus `json:"status"`
	DecidedBy     string        `json:"decided_by,omitempty"`
	DecisionNotes string        `json:"decision_notes,omitempty"`
	DecidedAt     *time.Time    `json:"decided_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}
