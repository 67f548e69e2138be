package endpoints

import (
	"chat-admin-backend/internal/database"
	"chat-admin-backend/internal/dto"
	internaljwt "chat-admin-backend/internal/jwt"
	usersvc "chat-admin-backend/internal/service/user"
	"encoding/json"
	"fmt"
	"net/http"
)

type AuthEndpoints interface {
	Register(http.ResponseWriter, *http.Request) error
	Login(http.ResponseWriter, *http.Request) error
	ForgotPassword(http.ResponseWriter, *http.Request) error
	Refresh(http.ResponseWriter, *http.Request) error
}

type authEndpoints struct {
	service *usersvc.Service
}

func NewAuthEndpoints(db *database.Database) AuthEndpoints {
	return &authEndpoints{
		service: usersvc.New(db),
	}
}

func NewAuthEndpointsWithService(service *usersvc.Service) AuthEndpoints {
	return &authEndpoints{service: service}
}

func (h *authEndpoints) Register(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleRegister,
	})
}

func (h *authEndpoints) Login(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleLogin,
	})
}

func (h *authEndpoints) ForgotPassword(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleForgotPassword,
	})
}

func (h *authEndpoints) Refresh(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleRefresh,
	})
}

func (h *authEndpoints) handleRegister(w http.ResponseWriter, r *http.Request) error {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode register request: %w", err),
		}
	}

	created, err := h.service.Register(r.Context(), usersvc.RegisterParams{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return serviceError(err)
	}

	return WriteJSON(w, http.StatusCreated, toUserResponse(created))
}

func (h *authEndpoints) handleLogin(w http.ResponseWriter, r *http.Request) error {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode login request: %w", err),
		}
	}

	result, err := h.service.Login(r.Context(), usersvc.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return serviceError(err)
	}

	return WriteJSON(w, http.StatusOK, dto.AuthResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		User:         toUserResponse(result.User),
	})
}

func (h *authEndpoints) handleForgotPassword(w http.ResponseWriter, r *http.Request) error {
	var req dto.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode forgot password request: %w", err),
		}
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		return serviceError(err)
	}

	return WriteJSON(w, http.StatusOK, ApiMessageResponse{Message: "New password has been sent"})
}

func (h *authEndpoints) handleRefresh(w http.ResponseWriter, r *http.Request) error {
	var req dto.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode refresh request: %w", err),
		}
	}

	accessToken, err := internaljwt.RefreshToken(req.RefreshToken, internaljwt.RoleUser)
	if err != nil {
		accessToken, err = internaljwt.RefreshToken(req.RefreshToken, internaljwt.RoleAdmin)
	}
	if err != nil {
		return &HTTPError{
			StatusCode: http.StatusUnauthorized,
			Message:    "Invalid refresh token",
			ErrorLog:   fmt.Errorf("refresh token: %w", err),
		}
	}

	return WriteJSON(w, http.StatusOK, dto.AuthResponse{AccessToken: accessToken})
}
