package user

import (
	"chat-admin-backend/internal/database"
	internaljwt "chat-admin-backend/internal/jwt"
	"chat-admin-backend/internal/model"
	"chat-admin-backend/utils"
	"context"
	"errors"
	"log"
	"strings"
	"time"
)

// maxLoginAttempts deactivates the account on the third consecutive
// failure; an admin has to reactivate it through the update endpoint.
const maxLoginAttempts = 3

type Service struct {
	repo Repository
	now  func() time.Time
}

var createTokenWithRefresh = internaljwt.CreateTokenWithRefresh

func SetTokenIssuer(issuer func(internaljwt.User, internaljwt.Role, int64) (internaljwt.TokenResponse, error)) {
	if issuer == nil {
		createTokenWithRefresh = internaljwt.CreateTokenWithRefresh
		return
	}
	createTokenWithRefresh = issuer
}

func New(db *database.Database) *Service {
	return &Service{
		repo: NewDynamoRepository(db),
		now:  time.Now,
	}
}

func NewWithRepository(repo Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}

	return &Service{
		repo: repo,
		now:  now,
	}
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (model.UserItem, error) {
	email := normalizeEmail(params.Email)
	password := strings.TrimSpace(params.Password)
	firstName := strings.TrimSpace(params.FirstName)
	lastName := strings.TrimSpace(params.LastName)

	if email == "" || password == "" || firstName == "" || lastName == "" {
		return model.UserItem{}, newError(ErrorCodeValidation, "missing required fields", nil)
	}

	if _, err := s.repo.FindUserByEmail(ctx, email); err == nil {
		return model.UserItem{}, newError(ErrorCodeConflict, "user already exists", nil)
	} else if !errors.Is(err, ErrNotFound) {
		return model.UserItem{}, newError(ErrorCodeInternal, "failed to check existing user", err)
	}

	hash, err := internaljwt.HashPassword(password)
	if err != nil {
		return model.UserItem{}, newError(ErrorCodeInternal, "failed to prepare user", err)
	}

	userID, err := s.repo.NextUserID(ctx)
	if err != nil {
		return model.UserItem{}, newError(ErrorCodeInternal, "failed to allocate user id", err)
	}

	user := model.UserItem{
		UserID:        userID,
		Email:         email,
		FirstName:     firstName,
		LastName:      lastName,
		PasswordHash:  hash,
		IsAdmin:       false,
		IsActivated:   true,
		LoginAttempts: 0,
		CreatedAt:     s.now().UTC().Format(time.RFC3339),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return model.UserItem{}, newError(ErrorCodeInternal, "failed to save user", err)
	}

	return user, nil
}

func (s *Service) Login(ctx context.Context, params LoginParams) (LoginResult, error) {
	email := normalizeEmail(params.Email)
	password := strings.TrimSpace(params.Password)

	if email == "" || password == "" {
		return LoginResult{}, newError(ErrorCodeValidation, "email or password is missing", nil)
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return LoginResult{}, newError(ErrorCodeNotFound, "no user with this email", err)
		}
		return LoginResult{}, newError(ErrorCodeInternal, "failed to fetch user", err)
	}

	if !user.IsActivated {
		return LoginResult{}, newError(ErrorCodeUnauthorized, "account is deactivated", nil)
	}

	if !internaljwt.ValidatePassword(user.PasswordHash, password) {
		user.LoginAttempts++
		if user.LoginAttempts >= maxLoginAttempts {
			user.IsActivated = false
			if err := s.repo.SaveUser(ctx, user); err != nil {
				return LoginResult{}, newError(ErrorCodeInternal, "failed to save user", err)
			}
			return LoginResult{}, newError(ErrorCodeUnauthorized, "account is deactivated", nil)
		}
		if err := s.repo.SaveUser(ctx, user); err != nil {
			return LoginResult{}, newError(ErrorCodeInternal, "failed to save user", err)
		}
		return LoginResult{}, newError(ErrorCodeUnauthorized, "incorrect login or password", nil)
	}

	user.LoginAttempts = 0
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return LoginResult{}, newError(ErrorCodeInternal, "failed to save user", err)
	}

	jwtUser := internaljwt.User{
		Id:           user.UserID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		IsAdmin:      user.IsAdmin,
	}

	role := internaljwt.RoleUser
	if user.IsAdmin {
		role = internaljwt.RoleAdmin
	}

	tokens, err := createTokenWithRefresh(jwtUser, role, 0)
	if err != nil {
		return LoginResult{}, newError(ErrorCodeInternal, "failed to issue tokens", err)
	}

	return LoginResult{
		User:   user,
		Tokens: tokens,
	}, nil
}

// ForgotPassword regenerates the password for the account and stores its
// hash. Delivery of the new password is left to the mailing collaborator.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return newError(ErrorCodeValidation, "missing email", nil)
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return newError(ErrorCodeNotFound, "no user with this email", err)
		}
		return newError(ErrorCodeInternal, "failed to fetch user", err)
	}

	newPassword := utils.GenerateRandomPassword()
	hash, err := internaljwt.HashPassword(newPassword)
	if err != nil {
		return newError(ErrorCodeInternal, "failed to prepare password", err)
	}

	user.PasswordHash = hash
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return newError(ErrorCodeInternal, "failed to save user", err)
	}

	log.Printf("New password issued for %s", email)
	return nil
}

func (s *Service) Get(ctx context.Context, userID int) (model.UserItem, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.UserItem{}, newError(ErrorCodeNotFound, "no user with this id", err)
		}
		return model.UserItem{}, newError(ErrorCodeInternal, "failed to fetch user", err)
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]model.UserItem, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, newError(ErrorCodeInternal, "failed to list users", err)
	}
	return users, nil
}

func (s *Service) Update(ctx context.Context, userID int, params UpdateParams) (model.UserItem, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.UserItem{}, newError(ErrorCodeNotFound, "no user with this id", err)
		}
		return model.UserItem{}, newError(ErrorCodeInternal, "failed to fetch user", err)
	}

	if email := normalizeEmail(params.Email); email != "" {
		user.Email = email
	}
	if firstName := strings.TrimSpace(params.FirstName); firstName != "" {
		user.FirstName = firstName
	}
	if lastName := strings.TrimSpace(params.LastName); lastName != "" {
		user.LastName = lastName
	}
	if password := strings.TrimSpace(params.Password); password != "" {
		hash, err := internaljwt.HashPassword(password)
		if err != nil {
			return model.UserItem{}, newError(ErrorCodeInternal, "failed to prepare password", err)
		}
		user.PasswordHash = hash
	}
	user.IsAdmin = params.IsAdmin
	user.IsActivated = params.IsActivated
	user.LoginAttempts = params.LoginAttempts

	if err := s.repo.SaveUser(ctx, user); err != nil {
		return model.UserItem{}, newError(ErrorCodeInternal, "failed to save user", err)
	}

	return user, nil
}

// IdentityFromToken resolves the caller behind a bearer token. Header
// parsing is the transport layer's concern; this only sees the token.
func (s *Service) IdentityFromToken(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, newError(ErrorCodeUnauthorized, "missing bearer token", nil)
	}

	claims, err := internaljwt.ParseToken(token, internaljwt.RoleUser)
	if err != nil {
		claims, err = internaljwt.ParseToken(token, internaljwt.RoleAdmin)
	}
	if err != nil {
		return Identity{}, newError(ErrorCodeUnauthorized, "invalid token", err)
	}

	id, _ := claims["id"].(float64)
	email, _ := claims["email"].(string)
	isAdmin, _ := claims["isAdmin"].(bool)

	if id == 0 {
		return Identity{}, newError(ErrorCodeUnauthorized, "token missing identifiers", nil)
	}

	return Identity{
		UserID:  int(id),
		Email:   email,
		IsAdmin: isAdmin,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
