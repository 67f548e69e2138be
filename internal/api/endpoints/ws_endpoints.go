package endpoints

import (
	"chat-admin-backend/internal/websocket"
	"fmt"
	"net/http"
	"strings"
)

type WebsocketEndpoints interface {
	JoinChat(http.ResponseWriter, *http.Request) error
}

type websocketEndpoints struct {
	handler *websocket.Handler
	prefix  string
}

func NewWebsocketEndpoints(handler *websocket.Handler, prefix string) WebsocketEndpoints {
	return &websocketEndpoints{
		handler: handler,
		prefix:  strings.TrimRight(prefix, "/") + "/chat/",
	}
}

// JoinChat parses /chat/{chatId}/{userId} and hands the request to the
// websocket handler. Both path segments must be integers; anything else
// is rejected before the connection is upgraded.
func (h *websocketEndpoints) JoinChat(w http.ResponseWriter, r *http.Request) error {
	if r.Method != http.MethodGet {
		return MethodHandler(w, r, nil)
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, h.prefix), "/")
	segments := strings.Split(rest, "/")
	if rest == "" || len(segments) != 2 {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Expected /chat/{chatId}/{userId}",
			ErrorLog:   fmt.Errorf("unexpected websocket path %q", r.URL.Path),
		}
	}

	chatID, err := parseIntSegment(segments[0], "chat id")
	if err != nil {
		return err
	}
	userID, err := parseIntSegment(segments[1], "user id")
	if err != nil {
		return err
	}

	h.handler.JoinRoom(w, r, chatID, userID)
	return nil
}
