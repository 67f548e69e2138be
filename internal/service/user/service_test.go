package user

import (
	internaljwt "chat-admin-backend/internal/jwt"
	"chat-admin-backend/internal/model"
	"context"
	"errors"
	"testing"
	"time"
)

type memoryRepository struct {
	users  map[int]model.UserItem
	nextID int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{users: map[int]model.UserItem{}}
}

func (r *memoryRepository) CreateUser(_ context.Context, user model.UserItem) error {
	r.users[user.UserID] = user
	return nil
}

func (r *memoryRepository) SaveUser(_ context.Context, user model.UserItem) error {
	r.users[user.UserID] = user
	return nil
}

func (r *memoryRepository) GetUser(_ context.Context, userID int) (model.UserItem, error) {
	user, ok := r.users[userID]
	if !ok {
		return model.UserItem{}, ErrNotFound
	}
	return user, nil
}

func (r *memoryRepository) FindUserByEmail(_ context.Context, email string) (model.UserItem, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return model.UserItem{}, ErrNotFound
}

func (r *memoryRepository) ListUsers(_ context.Context) ([]model.UserItem, error) {
	users := make([]model.UserItem, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}

func (r *memoryRepository) NextUserID(_ context.Context) (int, error) {
	r.nextID++
	return r.nextID, nil
}

func stubTokenIssuer(t *testing.T) {
	t.Helper()
	SetTokenIssuer(func(user internaljwt.User, role internaljwt.Role, _ int64) (internaljwt.TokenResponse, error) {
		return internaljwt.TokenResponse{
			AccessToken:  "token",
			RefreshToken: "refresh",
		}, nil
	})
	t.Cleanup(func() { SetTokenIssuer(nil) })
}

func errorCode(t *testing.T, err error) ErrorCode {
	t.Helper()
	var svcErr *Error
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *user.Error, got %v", err)
	}
	return svcErr.Code
}

func TestRegisterAndDuplicateEmail(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewWithRepository(repo, func() time.Time {
		return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	})

	created, err := svc.Register(context.Background(), RegisterParams{
		Email:     "Jane.Doe@Example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "secret123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if created.UserID != 1 {
		t.Fatalf("expected first user id 1, got %d", created.UserID)
	}
	if created.Email != "jane.doe@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if !created.IsActivated || created.IsAdmin {
		t.Fatalf("expected activated non-admin user, got %+v", created)
	}
	if created.PasswordHash == "secret123" || created.PasswordHash == "" {
		t.Fatal("expected password to be hashed")
	}

	_, err = svc.Register(context.Background(), RegisterParams{
		Email:     "jane.doe@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "another",
	})
	if errorCode(t, err) != ErrorCodeConflict {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	svc := NewWithRepository(newMemoryRepository(), nil)

	_, err := svc.Register(context.Background(), RegisterParams{
		Email:    "jane@example.com",
		Password: "secret123",
	})
	if errorCode(t, err) != ErrorCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginSuccessResetsAttempts(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewWithRepository(repo, nil)
	stubTokenIssuer(t)

	if _, err := svc.Register(context.Background(), RegisterParams{
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "secret123",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user := repo.users[1]
	user.LoginAttempts = 2
	repo.users[1] = user

	result, err := svc.Login(context.Background(), LoginParams{
		Email:    "jane@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Tokens.AccessToken != "token" || result.Tokens.RefreshToken != "refresh" {
		t.Fatalf("expected issued tokens, got %+v", result.Tokens)
	}
	if repo.users[1].LoginAttempts != 0 {
		t.Fatalf("expected attempts reset, got %d", repo.users[1].LoginAttempts)
	}
}

func TestLoginLockoutAfterThreeFailures(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewWithRepository(repo, nil)
	stubTokenIssuer(t)

	if _, err := svc.Register(context.Background(), RegisterParams{
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "secret123",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	for attempt := 1; attempt <= 3; attempt++ {
		_, err := svc.Login(context.Background(), LoginParams{
			Email:    "jane@example.com",
			Password: "wrong",
		})
		if errorCode(t, err) != ErrorCodeUnauthorized {
			t.Fatalf("attempt %d: expected unauthorized, got %v", attempt, err)
		}
	}

	if repo.users[1].IsActivated {
		t.Fatal("expected account deactivated after three failures")
	}

	// Even the right password no longer works once locked out.
	_, err := svc.Login(context.Background(), LoginParams{
		Email:    "jane@example.com",
		Password: "secret123",
	})
	if errorCode(t, err) != ErrorCodeUnauthorized {
		t.Fatalf("expected unauthorized for deactivated account, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewWithRepository(newMemoryRepository(), nil)

	_, err := svc.Login(context.Background(), LoginParams{
		Email:    "nobody@example.com",
		Password: "secret123",
	})
	if errorCode(t, err) != ErrorCodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestForgotPasswordReplacesHash(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewWithRepository(repo, nil)

	if _, err := svc.Register(context.Background(), RegisterParams{
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "secret123",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	before := repo.users[1].PasswordHash

	if err := svc.ForgotPassword(context.Background(), "jane@example.com"); err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}
	if repo.users[1].PasswordHash == before {
		t.Fatal("expected password hash to change")
	}

	if !internaljwt.ValidatePassword(before, "secret123") {
		t.Fatal("sanity: old hash should match old password")
	}
	if internaljwt.ValidatePassword(repo.users[1].PasswordHash, "secret123") {
		t.Fatal("expected old password to stop working")
	}

	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	if errorCode(t, err) != ErrorCodeNotFound {
		t.Fatalf("expected not found for unknown email, got %v", err)
	}
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewWithRepository(repo, nil)

	if _, err := svc.Register(context.Background(), RegisterParams{
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "secret123",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	updated, err := svc.Update(context.Background(), 1, UpdateParams{
		FirstName:   "Janet",
		IsAdmin:     true,
		IsActivated: true,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.FirstName != "Janet" || updated.LastName != "Doe" {
		t.Fatalf("expected partial name update, got %+v", updated)
	}
	if !updated.IsAdmin {
		t.Fatal("expected admin flag applied")
	}
	if updated.Email != "jane@example.com" {
		t.Fatalf("expected email untouched, got %q", updated.Email)
	}

	_, err = svc.Update(context.Background(), 99, UpdateParams{})
	if errorCode(t, err) != ErrorCodeNotFound {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}
}

func TestIdentityFromToken(t *testing.T) {
	prev := internaljwt.RoleSecrets[internaljwt.RoleUser]
	internaljwt.RoleSecrets[internaljwt.RoleUser] = "test-secret"
	t.Cleanup(func() { internaljwt.RoleSecrets[internaljwt.RoleUser] = prev })

	svc := NewWithRepository(newMemoryRepository(), nil)

	token, err := internaljwt.CreateToken(internaljwt.User{
		Id:      4,
		Email:   "jane@example.com",
		IsAdmin: false,
	}, internaljwt.RoleUser, 0)
	if err != nil {
		t.Fatalf("token creation failed: %v", err)
	}

	identity, err := svc.IdentityFromToken(token)
	if err != nil {
		t.Fatalf("identity resolution failed: %v", err)
	}
	if identity.UserID != 4 || identity.Email != "jane@example.com" || identity.IsAdmin {
		t.Fatalf("unexpected identity %+v", identity)
	}

	if _, err := svc.IdentityFromToken(""); errorCode(t, err) != ErrorCodeUnauthorized {
		t.Fatalf("expected unauthorized for empty token, got %v", err)
	}
	if _, err := svc.IdentityFromToken("not-a-token1"); errorCode(t, err) != ErrorCodeUnauthorized {
		t.Fatalf("expected unauthorized for garbage token, got %v", err)
	}
}
