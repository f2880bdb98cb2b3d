package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/vestuario/commerce-api/internal/core/domain"
	"github.com/vestuario/commerce-api/internal/core/ports"
)

// stubUserRepo is an in-memory ports.UserRepository mirroring the Mongo
// repository's semantics: unique identity, atomic counter increments, and
// threshold-triggered locks.
type stubUserRepo struct {
	users      map[string]*domain.User
	seq        int
	setRoleErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) collides(id, username, email string) bool {
	for _, u := range r.users {
		if u.ID == id {
			continue
		}
		if u.Username == username || u.Email == email {
			return true
		}
	}
	return false
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.collides("", user.Username, user.Email) {
		return nil, domain.ErrDuplicateIdentity
	}
	r.seq++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, fields ports.UpdateUserFields) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	username, email := u.Username, u.Email
	if fields.Username != nil {
		username = *fields.Username
	}
	if fields.Email != nil {
		email = *fields.Email
	}
	if r.collides(id, username, email) {
		return nil, domain.ErrDuplicateIdentity
	}
	u.Username = username
	u.Email = email
	if fields.PasswordHash != nil {
		u.PasswordHash = *fields.PasswordHash
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) RegisterFailedLogin(_ context.Context, id string, threshold int, lockFor time.Duration) (int, error) {
	u, ok := r.users[id]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	u.LoginAttempts++
	now := time.Now().UTC()
	if u.LoginAttempts >= threshold && (u.LockUntil == nil || u.LockUntil.Before(now)) {
		until := now.Add(lockFor)
		u.LockUntil = &until
	}
	return u.LoginAttempts, nil
}

func (r *stubUserRepo) ResetLoginAttempts(_ context.Context, id string, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LoginAttempts = 0
	u.LockUntil = nil
	u.LastLogin = &at
	return nil
}

func (r *stubUserRepo) SetRole(_ context.Context, id string, role string) error {
	if r.setRoleErr != nil {
		return r.setRoleErr
	}
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = false
	return nil
}

func (r *stubUserRepo) Stats(_ context.Context) (*domain.UserStats, error) {
	stats := &domain.UserStats{}
	byRole := map[string]int64{}
	for _, u := range r.users {
		stats.TotalUsers++
		if u.IsActive {
			stats.ActiveUsers++
		}
		byRole[u.Role]++
	}
	roles := make([]string, 0, len(byRole))
	for role := range byRole {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	for _, role := range roles {
		stats.ByRole = append(stats.ByRole, domain.RoleCount{Role: role, Count: byRole[role]})
	}
	return stats, nil
}

func newTestUserService(repo *stubUserRepo) ports.UserService {
	return NewUserService(
		repo,
		TokenConfig{Secret: "secret", Issuer: "commerce-api", Audience: "commerce-clients", TTL: time.Hour},
		LockoutConfig{MaxAttempts: 5, LockDuration: 2 * time.Hour},
		bcrypt.MinCost,
		zerolog.Nop(),
	)
}

func TestUserService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "pass12345",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %s", user.Role)
	}
	if !user.IsActive {
		t.Fatalf("expected new account to be active")
	}
	if user.PasswordHash == "pass12345" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass12345")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestUserService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "bob", Email: "bob@example.com", Password: "pass12345",
	}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	// Same email, different username.
	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "bobby", Email: "bob@example.com", Password: "pass12345",
	}); err != domain.ErrDuplicateIdentity {
		t.Fatalf("expected ErrDuplicateIdentity for email collision, got %v", err)
	}

	// Same username, different email.
	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "bob", Email: "bob2@example.com", Password: "pass12345",
	}); err != domain.ErrDuplicateIdentity {
		t.Fatalf("expected ErrDuplicateIdentity for username collision, got %v", err)
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "", Email: "x@example.com", Password: "pass12345",
	}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for empty username, got %v", err)
	}

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "carol", Email: "carol@example.com", Password: "pass12345", Role: "superuser",
	}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown role, got %v", err)
	}
}

func TestUserService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "carol", Email: "carol@example.com", Password: "s3cret123", Role: domain.RoleAdmin,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "carol@example.com", "s3cret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if result.User.LastLogin == nil {
		t.Fatalf("expected last login to be stamped")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(result.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != domain.RoleAdmin {
		t.Fatalf("expected role %s in claims, got %v", domain.RoleAdmin, claims["role"])
	}
	if claims["sub"] != result.User.ID {
		t.Fatalf("expected sub %s, got %v", result.User.ID, claims["sub"])
	}
	if claims["iss"] != "commerce-api" {
		t.Fatalf("expected issuer claim, got %v", claims["iss"])
	}
	if claims["aud"] != "commerce-clients" {
		t.Fatalf("expected audience claim, got %v", claims["aud"])
	}
}

func TestUserService_Login_UnknownEmailIndistinguishable(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{
		Username: "dave", Email: "dave@example.com", Password: "goodpass1",
	})

	_, wrongPassErr := svc.Login(context.Background(), "dave@example.com", "badpass12")
	_, unknownErr := svc.Login(context.Background(), "ghost@example.com", "whatever1")

	if wrongPassErr != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPassErr)
	}
	if unknownErr != wrongPassErr {
		t.Fatalf("unknown email must be indistinguishable from wrong password, got %v vs %v", unknownErr, wrongPassErr)
	}
}

func TestUserService_Login_LockoutAfterThreshold(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)

	created, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "erin", Email: "erin@example.com", Password: "goodpass1",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, err := svc.Login(context.Background(), "erin@example.com", "badpass12"); err != domain.ErrInvalidCredentials {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	// Correct password after the threshold still fails while locked.
	if _, err := svc.Login(context.Background(), "erin@example.com", "goodpass1"); err != domain.ErrAccountLocked {
		t.Fatalf("expected ErrAccountLocked with correct password, got %v", err)
	}

	stored := repo.users[created.ID]
	if stored.LoginAttempts != 5 {
		t.Fatalf("expected 5 recorded attempts, got %d", stored.LoginAttempts)
	}
	if stored.LockUntil == nil || !stored.LockUntil.After(time.Now()) {
		t.Fatalf("expected future lock_until, got %v", stored.LockUntil)
	}
}

func TestUserService_Login_SuccessResetsCounter(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "frank", Email: "frank@example.com", Password: "goodpass1",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	for i := 0; i < 4; i++ {
		_, _ = svc.Login(context.Background(), "frank@example.com", "badpass12")
	}
	if _, err := svc.Login(context.Background(), "frank@example.com", "goodpass1"); err != nil {
		t.Fatalf("expected successful login before threshold, got %v", err)
	}

	// Counter was reset: four more failures must not lock the account.
	for i := 0; i < 4; i++ {
		_, _ = svc.Login(context.Background(), "frank@example.com", "badpass12")
	}
	if _, err := svc.Login(context.Background(), "frank@example.com", "goodpass1"); err != nil {
		t.Fatalf("expected login to succeed after reset, got %v", err)
	}
}

func TestUserService_Update_Collision(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{
		Username: "gina", Email: "gina@example.com", Password: "pass12345",
	})
	hank, _ := svc.Register(context.Background(), ports.RegisterInput{
		Username: "hank", Email: "hank@example.com", Password: "pass12345",
	})

	taken := "gina@example.com"
	if _, err := svc.Update(context.Background(), hank.ID, ports.UpdateUserInput{Email: &taken}); err != domain.ErrDuplicateIdentity {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}

	// Updating to an unused email succeeds and re-hashes a new password.
	fresh := "hank2@example.com"
	newPass := "newpass123"
	updated, err := svc.Update(context.Background(), hank.ID, ports.UpdateUserInput{Email: &fresh, Password: &newPass})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Email != fresh {
		t.Fatalf("expected updated email, got %s", updated.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.users[hank.ID].PasswordHash), []byte(newPass)); err != nil {
		t.Fatalf("new password not stored: %v", err)
	}
}

func TestUserService_Update_CannotTouchRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)

	user, _ := svc.Register(context.Background(), ports.RegisterInput{
		Username: "iris", Email: "iris@example.com", Password: "pass12345",
	})

	name := "iris2"
	if _, err := svc.Update(context.Background(), user.ID, ports.UpdateUserInput{Username: &name}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if repo.users[user.ID].Role != domain.RoleUser {
		t.Fatalf("generic update must not change role, got %s", repo.users[user.ID].Role)
	}
}

func TestUserService_Deactivate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)

	user, _ := svc.Register(context.Background(), ports.RegisterInput{
		Username: "judy", Email: "judy@example.com", Password: "pass12345",
	})

	if err := svc.Deactivate(context.Background(), user.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	stored := repo.users[user.ID]
	if stored == nil {
		t.Fatalf("deactivation must not remove the document")
	}
	if stored.IsActive {
		t.Fatalf("expected is_active=false")
	}
}

func TestUserService_Stats(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{
		Username: "root", Email: "root@example.com", Password: "pass12345", Role: domain.RoleAdmin,
	})
	u1, _ := svc.Register(context.Background(), ports.RegisterInput{
		Username: "kate", Email: "kate@example.com", Password: "pass12345",
	})
	_, _ = svc.Register(context.Background(), ports.RegisterInput{
		Username: "liam", Email: "liam@example.com", Password: "pass12345",
	})
	_ = svc.Deactivate(context.Background(), u1.ID)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalUsers != 3 || stats.ActiveUsers != 2 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	want := map[string]int64{domain.RoleAdmin: 1, domain.RoleUser: 2}
	for _, rc := range stats.ByRole {
		if want[rc.Role] != rc.Count {
			t.Fatalf("unexpected count for role %s: %d", rc.Role, rc.Count)
		}
		delete(want, rc.Role)
	}
	if len(want) != 0 {
		t.Fatalf("missing roles in stats: %v", want)
	}
}
