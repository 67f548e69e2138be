package user

import (
	internaljwt "chat-admin-backend/internal/jwt"
	"chat-admin-backend/internal/model"
)

type ErrorCode string

const (
	ErrorCodeValidation   ErrorCode = "validation_error"
	ErrorCodeUnauthorized ErrorCode = "unauthorized"
	ErrorCodeNotFound     ErrorCode = "not_found"
	ErrorCodeConflict     ErrorCode = "conflict"
	ErrorCodeInternal     ErrorCode = "internal_error"
)

type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

type RegisterParams struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

type LoginParams struct {
	Email    string
	Password string
}

type UpdateParams struct {
	Email         string
	FirstName     string
	LastName      string
	Password      string
	IsAdmin       bool
	IsActivated   bool
	LoginAttempts int
}

type LoginResult struct {
	User   model.UserItem
	Tokens internaljwt.TokenResponse
}

type Identity struct {
	UserID  int
	Email   string
	IsAdmin bool
}
