package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/vestuario/commerce-api/internal/core/domain"
	"github.com/vestuario/commerce-api/internal/core/ports"
)

// TokenConfig carries the JWT signing parameters.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// LockoutConfig carries the account lockout policy.
type LockoutConfig struct {
	MaxAttempts  int
	LockDuration time.Duration
}

type userService struct {
	repo       ports.UserRepository
	token      TokenConfig
	lockout    LockoutConfig
	bcryptCost int
	log        zerolog.Logger
}

// NewUserService returns a UserService implementation.
func NewUserService(repo ports.UserRepository, token TokenConfig, lockout LockoutConfig, bcryptCost int, log zerolog.Logger) ports.UserService {
	if token.TTL <= 0 {
		token.TTL = 24 * time.Hour
	}
	if lockout.MaxAttempts <= 0 {
		lockout.MaxAttempts = 5
	}
	if lockout.LockDuration <= 0 {
		lockout.LockDuration = 2 * time.Hour
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		repo:       repo,
		token:      token,
		lockout:    lockout,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

func (s *userService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if in.Username == "" || in.Email == "" || in.Password == "" || !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", created.ID).
		Str("username", created.Username).
		Str("role", created.Role).
		Msg("user registered")

	return created, nil
}

// Login authenticates by email. An unknown email and a wrong password both
// surface ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *userService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now().UTC()
	if user.Locked(now) {
		s.log.Warn().Str("user_id", user.ID).Time("lock_until", *user.LockUntil).Msg("login rejected, account locked")
		return nil, domain.ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		attempts, incErr := s.repo.RegisterFailedLogin(ctx, user.ID, s.lockout.MaxAttempts, s.lockout.LockDuration)
		if incErr != nil {
			s.log.Error().Err(incErr).Str("user_id", user.ID).Msg("failed to record login attempt")
		} else if attempts >= s.lockout.MaxAttempts {
			s.log.Warn().Str("user_id", user.ID).Int("attempts", attempts).Msg("account locked after repeated failures")
		}
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.repo.ResetLoginAttempts(ctx, user.ID, now); err != nil {
		return nil, err
	}

	token, err := s.generateToken(user, now)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user authenticated")

	user.LoginAttempts = 0
	user.LockUntil = nil
	user.LastLogin = &now
	return &ports.LoginResult{Token: token, User: user}, nil
}

func (s *userService) Verify(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies a partial profile update. The allowed field set is
// username, email, and password; role never passes through this path.
func (s *userService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	fields := ports.UpdateUserFields{
		Username: in.Username,
		Email:    in.Email,
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.bcryptCost)
		if err != nil {
			return nil, err
		}
		hashed := string(hash)
		fields.PasswordHash = &hashed
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id).Msg("user updated")
	return updated, nil
}

func (s *userService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deactivated")
	return nil
}

func (s *userService) Stats(ctx context.Context) (*domain.UserStats, error) {
	return s.repo.Stats(ctx)
}

func (s *userService) generateToken(user *domain.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(s.token.TTL).Unix(),
	}
	if s.token.Issuer != "" {
		claims["iss"] = s.token.Issuer
	}
	if s.token.Audience != "" {
		claims["aud"] = s.token.Audience
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.token.Secret))
}
