package endpoints

import (
	"chat-admin-backend/internal/api"
	"fmt"
	"net/http"
	"strconv"
)

type HTTPError = api.HTTPError

type ApiMessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) error {
	return api.WriteJSON(w, status, v)
}

func MethodHandler(
	w http.ResponseWriter,
	r *http.Request,
	allowed map[string]func(http.ResponseWriter, *http.Request) error,
) error {
	if handler, ok := allowed[r.Method]; ok {
		return handler(w, r)
	}
	return &HTTPError{
		StatusCode: http.StatusMethodNotAllowed,
		Message:    "Method not allowed.",
		ErrorLog:   fmt.Errorf("method not allowed"),
	}
}

func parseIntSegment(segment, name string) (int, error) {
	id, err := strconv.Atoi(segment)
	if err != nil {
		return 0, &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    fmt.Sprintf("Invalid %s", name),
			ErrorLog:   fmt.Errorf("parse %s %q: %w", name, segment, err),
		}
	}
	return id, nil
}
