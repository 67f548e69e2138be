package endpoints

import (
	"chat-admin-backend/internal/database"
	"chat-admin-backend/internal/dto"
	"chat-admin-backend/internal/model"
	chatsvc "chat-admin-backend/internal/service/chat"
	usersvc "chat-admin-backend/internal/service/user"
	"chat-admin-backend/internal/websocket"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

type ChatEndpoints interface {
	Chats(http.ResponseWriter, *http.Request) error
	Chat(http.ResponseWriter, *http.Request) error
}

type chatEndpoints struct {
	service *chatsvc.Service
	users   *usersvc.Service
	handler *websocket.Handler
	prefix  string
}

func NewChatEndpoints(db *database.Database, handler *websocket.Handler, prefix string) ChatEndpoints {
	return NewChatEndpointsWithServices(
		chatsvc.New(db, usersvc.NewDynamoRepository(db)),
		usersvc.New(db),
		handler,
		prefix,
	)
}

func NewChatEndpointsWithServices(service *chatsvc.Service, users *usersvc.Service, handler *websocket.Handler, prefix string) ChatEndpoints {
	return &chatEndpoints{
		service: service,
		users:   users,
		handler: handler,
		prefix:  strings.TrimRight(prefix, "/") + "/chats/",
	}
}

func (h *chatEndpoints) Chats(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet:  h.handleListChats,
		http.MethodPost: h.handleCreateChat,
	})
}

// Chat dispatches the /chats/... subtree:
//
//	/chats/{id}
//	/chats/{id}/users
//	/chats/{id}/users/{userId}
//	/chats/{id}/connected-users
//	/chats/user/{userId}
func (h *chatEndpoints) Chat(w http.ResponseWriter, r *http.Request) error {
	segments := h.pathSegments(r.URL.Path)

	if len(segments) == 2 && segments[0] == "user" {
		userID, err := parseIntSegment(segments[1], "user id")
		if err != nil {
			return err
		}
		if r.Method != http.MethodGet {
			return MethodHandler(w, r, nil)
		}
		return h.handleListChatsForUser(w, r, userID)
	}

	if len(segments) == 0 || len(segments) > 3 {
		return h.notFound(r.URL.Path)
	}

	chatID, err := parseIntSegment(segments[0], "chat id")
	if err != nil {
		return err
	}

	switch {
	case len(segments) == 1:
		return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
			http.MethodGet: func(w http.ResponseWriter, r *http.Request) error {
				return h.handleGetChat(w, r, chatID)
			},
			http.MethodPut: func(w http.ResponseWriter, r *http.Request) error {
				return h.handleUpdateChat(w, r, chatID)
			},
			http.MethodDelete: func(w http.ResponseWriter, r *http.Request) error {
				return h.handleDeleteChat(w, r, chatID)
			},
		})

	case len(segments) == 2 && segments[1] == "users":
		return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
			http.MethodGet: func(w http.ResponseWriter, r *http.Request) error {
				return h.handleParticipants(w, r, chatID)
			},
			http.MethodPost: func(w http.ResponseWriter, r *http.Request) error {
				return h.handleInvite(w, r, chatID)
			},
		})

	case len(segments) == 2 && segments[1] == "connected-users":
		if r.Method != http.MethodGet {
			return MethodHandler(w, r, nil)
		}
		return h.handleConnectedUsers(w, r, chatID)

	case len(segments) == 3 && segments[1] == "users":
		userID, err := parseIntSegment(segments[2], "user id")
		if err != nil {
			return err
		}
		if r.Method != http.MethodDelete {
			return MethodHandler(w, r, nil)
		}
		return h.handleRevoke(w, r, chatID, userID)
	}

	return h.notFound(r.URL.Path)
}

func (h *chatEndpoints) handleListChats(w http.ResponseWriter, r *http.Request) error {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	page, err := h.service.List(r.Context(), offset, size)
	if err != nil {
		return chatServiceError(err)
	}

	resp := dto.ListChatsResponse{
		Chats: make([]dto.ChatResponse, 0, len(page.Chats)),
		Total: page.Total,
	}
	for _, chat := range page.Chats {
		resp.Chats = append(resp.Chats, toChatResponse(chat))
	}

	return WriteJSON(w, http.StatusOK, resp)
}

func (h *chatEndpoints) handleCreateChat(w http.ResponseWriter, r *http.Request) error {
	var req dto.CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode create chat request: %w", err),
		}
	}

	ownerID := req.OwnerID
	if ownerID == 0 {
		identity, err := h.users.IdentityFromToken(ExtractTokenFromHeaders(r))
		if err != nil {
			return serviceError(err)
		}
		ownerID = identity.UserID
	}

	chat, err := h.service.Create(r.Context(), chatsvc.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     ownerID,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		return chatServiceError(err)
	}

	return WriteJSON(w, http.StatusCreated, toChatResponse(chat))
}

func (h *chatEndpoints) handleListChatsForUser(w http.ResponseWriter, r *http.Request, userID int) error {
	chats, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		return chatServiceError(err)
	}

	resp := dto.ListChatsResponse{
		Chats: make([]dto.ChatResponse, 0, len(chats)),
		Total: len(chats),
	}
	for _, chat := range chats {
		resp.Chats = append(resp.Chats, toChatResponse(chat))
	}

	return WriteJSON(w, http.StatusOK, resp)
}

func (h *chatEndpoints) handleGetChat(w http.ResponseWriter, r *http.Request, chatID int) error {
	chat, err := h.service.Get(r.Context(), chatID)
	if err != nil {
		return chatServiceError(err)
	}
	return WriteJSON(w, http.StatusOK, toChatResponse(chat))
}

func (h *chatEndpoints) handleUpdateChat(w http.ResponseWriter, r *http.Request, chatID int) error {
	var req dto.UpdateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode update chat request: %w", err),
		}
	}

	chat, err := h.service.Update(r.Context(), chatID, chatsvc.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		return chatServiceError(err)
	}

	return WriteJSON(w, http.StatusOK, toChatResponse(chat))
}

func (h *chatEndpoints) handleDeleteChat(w http.ResponseWriter, r *http.Request, chatID int) error {
	if err := h.service.Delete(r.Context(), chatID); err != nil {
		return chatServiceError(err)
	}
	return WriteJSON(w, http.StatusOK, ApiMessageResponse{Message: "Chat deleted"})
}

func (h *chatEndpoints) handleParticipants(w http.ResponseWriter, r *http.Request, chatID int) error {
	participants, err := h.service.Participants(r.Context(), chatID)
	if err != nil {
		return chatServiceError(err)
	}

	resp := dto.ListUsersResponse{Users: make([]dto.UserResponse, 0, len(participants))}
	for _, participant := range participants {
		resp.Users = append(resp.Users, toUserResponse(participant))
	}

	return WriteJSON(w, http.StatusOK, resp)
}

func (h *chatEndpoints) handleInvite(w http.ResponseWriter, r *http.Request, chatID int) error {
	var req dto.InviteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode invite request: %w", err),
		}
	}

	invitation, err := h.service.Invite(r.Context(), chatID, req.UserID)
	if err != nil {
		return chatServiceError(err)
	}

	return WriteJSON(w, http.StatusCreated, dto.InvitationResponse{
		ChatID:    invitation.ChatID,
		UserID:    invitation.UserID,
		InvitedAt: invitation.InvitedAt,
	})
}

func (h *chatEndpoints) handleRevoke(w http.ResponseWriter, r *http.Request, chatID, userID int) error {
	if err := h.service.Revoke(r.Context(), chatID, userID); err != nil {
		return chatServiceError(err)
	}
	return WriteJSON(w, http.StatusOK, ApiMessageResponse{Message: "Invitation revoked"})
}

func (h *chatEndpoints) handleConnectedUsers(w http.ResponseWriter, r *http.Request, chatID int) error {
	if h.handler == nil {
		return &HTTPError{
			StatusCode: http.StatusNotFound,
			Message:    "Not available on this server",
			ErrorLog:   fmt.Errorf("connected users requested without a websocket handler"),
		}
	}

	return WriteJSON(w, http.StatusOK, dto.ConnectedUsersResponse{
		ChatID:         chatID,
		ConnectedUsers: h.handler.Registry().ConnectedUserIDs(chatID),
	})
}

func (h *chatEndpoints) pathSegments(path string) []string {
	rest := strings.Trim(strings.TrimPrefix(path, h.prefix), "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

func (h *chatEndpoints) notFound(path string) error {
	return &HTTPError{
		StatusCode: http.StatusNotFound,
		Message:    "Not found",
		ErrorLog:   fmt.Errorf("unexpected chat path %q", path),
	}
}

func toChatResponse(chat model.ChatItem) dto.ChatResponse {
	return dto.ChatResponse{
		ChatID:      chat.ChatID,
		Title:       chat.Title,
		Description: chat.Description,
		OwnerID:     chat.OwnerID,
		CreatedAt:   chat.CreatedAt,
		ExpiresAt:   chat.ExpiresAt,
	}
}

func chatServiceError(err error) error {
	if err == nil {
		return nil
	}

	svcErr, ok := err.(*chatsvc.Error)
	if !ok {
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   fmt.Errorf("chat service: %w", err),
		}
	}

	var errorLog error
	if svcErr.Err != nil {
		errorLog = fmt.Errorf("%s: %w", svcErr.Message, svcErr.Err)
	} else {
		errorLog = svcErr
	}

	switch svcErr.Code {
	case chatsvc.ErrorCodeValidation:
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case chatsvc.ErrorCodeForbidden:
		return &HTTPError{
			StatusCode: http.StatusForbidden,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case chatsvc.ErrorCodeNotFound:
		return &HTTPError{
			StatusCode: http.StatusNotFound,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case chatsvc.ErrorCodeConflict:
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
