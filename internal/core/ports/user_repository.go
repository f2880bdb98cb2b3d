package ports

import (
	"context"
	"time"

	"github.com/vestuario/commerce-api/internal/core/domain"
)

// UpdateUserFields carries the partial update applied by the generic account
// update path. Role is deliberately absent: it only changes through the role
// request workflow or an explicit administrative call.
type UpdateUserFields struct {
	Username     *string
	Email        *string
	PasswordHash *string
}

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// Update applies a partial update, failing with ErrDuplicateIdentity when
	// the new username or email collides with a different account.
	Update(ctx context.Context, id string, fields UpdateUserFields) (*domain.User, error)

	// RegisterFailedLogin atomically increments the failed-attempt counter and
	// returns the post-increment count. When the count reaches threshold the
	// account is locked until now+lockFor.
	RegisterFailedLogin(ctx context.Context, id string, threshold int, lockFor time.Duration) (int, error)

	// ResetLoginAttempts clears the failed-attempt counter and lock, and
	// stamps the last successful login.
	ResetLoginAttempts(ctx context.Context, id string, at time.Time) error

	// SetRole overwrites the account's role. Only the role request workflow
	// calls this.
	SetRole(ctx context.Context, id string, role string) error

	// Deactivate soft-deletes the account (is_active=false).
	Deactivate(ctx context.Context, id string) error

	Stats(ctx context.Context) (*domain.UserStats, error)
}
