package endpoints

import (
	"chat-admin-backend/internal/database"
	"chat-admin-backend/internal/dto"
	"chat-admin-backend/internal/model"
	usersvc "chat-admin-backend/internal/service/user"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type UserEndpoints interface {
	Users(http.ResponseWriter, *http.Request) error
	User(http.ResponseWriter, *http.Request) error
}

type userEndpoints struct {
	service *usersvc.Service
	prefix  string
}

func NewUserEndpoints(db *database.Database, prefix string) UserEndpoints {
	return NewUserEndpointsWithService(usersvc.New(db), prefix)
}

func NewUserEndpointsWithService(service *usersvc.Service, prefix string) UserEndpoints {
	return &userEndpoints{
		service: service,
		prefix:  strings.TrimRight(prefix, "/") + "/users/",
	}
}

func (h *userEndpoints) Users(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleListUsers,
	})
}

func (h *userEndpoints) User(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleGetUser,
		http.MethodPut: h.handleUpdateUser,
	})
}

func (h *userEndpoints) handleListUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := h.service.List(r.Context())
	if err != nil {
		return serviceError(err)
	}

	resp := dto.ListUsersResponse{Users: make([]dto.UserResponse, 0, len(users))}
	for _, user := range users {
		resp.Users = append(resp.Users, toUserResponse(user))
	}

	return WriteJSON(w, http.StatusOK, resp)
}

func (h *userEndpoints) handleGetUser(w http.ResponseWriter, r *http.Request) error {
	userID, err := h.userIDFromPath(r.URL.Path)
	if err != nil {
		return err
	}

	user, err := h.service.Get(r.Context(), userID)
	if err != nil {
		return serviceError(err)
	}

	return WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *userEndpoints) handleUpdateUser(w http.ResponseWriter, r *http.Request) error {
	userID, err := h.userIDFromPath(r.URL.Path)
	if err != nil {
		return err
	}

	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode update user request: %w", err),
		}
	}

	user, err := h.service.Update(r.Context(), userID, usersvc.UpdateParams{
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Password:      req.Password,
		IsAdmin:       req.IsAdmin,
		IsActivated:   req.IsActivated,
		LoginAttempts: req.LoginAttempts,
	})
	if err != nil {
		return serviceError(err)
	}

	return WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *userEndpoints) userIDFromPath(path string) (int, error) {
	rest := strings.Trim(strings.TrimPrefix(path, h.prefix), "/")
	if rest == "" || strings.Contains(rest, "/") {
		return 0, &HTTPError{
			StatusCode: http.StatusNotFound,
			Message:    "User not found",
			ErrorLog:   fmt.Errorf("unexpected user path %q", path),
		}
	}
	return parseIntSegment(rest, "user id")
}

func toUserResponse(user model.UserItem) dto.UserResponse {
	return dto.UserResponse{
		UserID:        user.UserID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		IsAdmin:       user.IsAdmin,
		IsActivated:   user.IsActivated,
		LoginAttempts: user.LoginAttempts,
		CreatedAt:     user.CreatedAt,
	}
}

func serviceError(err error) error {
	if err == nil {
		return nil
	}

	svcErr, ok := err.(*usersvc.Error)
	if !ok {
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   fmt.Errorf("user service: %w", err),
		}
	}

	var errorLog error
	if svcErr.Err != nil {
		errorLog = fmt.Errorf("%s: %w", svcErr.Message, svcErr.Err)
	} else {
		errorLog = svcErr
	}

	switch svcErr.Code {
	case usersvc.ErrorCodeValidation:
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case usersvc.ErrorCodeUnauthorized:
		return &HTTPError{
			StatusCode: http.StatusUnauthorized,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case usersvc.ErrorCodeNotFound:
		return &HTTPError{
			StatusCode: http.StatusNotFound,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case usersvc.ErrorCodeConflict:
		return &HTTPError{
			StatusCode: http.StatusConflict,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	default:
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   errorLog,
		}
	}
}
