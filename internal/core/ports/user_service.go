package ports

import (
	"context"

	"github.com/vestuario/commerce-api/internal/core/domain"
)

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string // defaults to "user" when empty
}

// UpdateUserInput carries the generic profile update. Absent fields are left
// untouched. There is intentionally no role field here.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string
	User  *domain.User
}

// UserService defines account use cases.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Verify returns the public view of an authenticated account.
	Verify(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	Deactivate(ctx context.Context, id string) error
	Stats(ctx context.Context) (*domain.UserStats, error)
}
