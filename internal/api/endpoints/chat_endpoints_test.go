package endpoints

import (
	"chat-admin-backend/internal/api"
	"chat-admin-backend/internal/dto"
	"chat-admin-backend/internal/model"
	"chat-admin-backend/internal/queue"
	chatsvc "chat-admin-backend/internal/service/chat"
	usersvc "chat-admin-backend/internal/service/user"
	"chat-admin-backend/internal/websocket"
	"context"
	"net/http"
	"sync"
	"testing"
)

type testChatRepository struct {
	mu          sync.Mutex
	chats       map[int]model.ChatItem
	invitations map[string]model.InvitationItem
	nextID      int
}

func newTestChatRepository() *testChatRepository {
	return &testChatRepository{
		chats:       make(map[int]model.ChatItem),
		invitations: make(map[string]model.InvitationItem),
	}
}

func (m *testChatRepository) CreateChat(ctx context.Context, chat model.ChatItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chats[chat.ChatID] = chat
	return nil
}

func (m *testChatRepository) SaveChat(ctx context.Context, chat model.ChatItem) error {
	return m.CreateChat(ctx, chat)
}

func (m *testChatRepository) GetChat(ctx context.Context, chatID int) (model.ChatItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	chat, ok := m.chats[chatID]
	if !ok {
		return model.ChatItem{}, chatsvc.ErrNotFound
	}
	return chat, nil
}

func (m *testChatRepository) DeleteChat(ctx context.Context, chatID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.chats, chatID)
	return nil
}

func (m *testChatRepository) ListChats(ctx context.Context) ([]model.ChatItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	chats := make([]model.ChatItem, 0, len(m.chats))
	for _, chat := range m.chats {
		chats = append(chats, chat)
	}
	return chats, nil
}

func (m *testChatRepository) ListChatsByOwner(ctx context.Context, ownerID int) ([]model.ChatItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var chats []model.ChatItem
	for _, chat := range m.chats {
		if chat.OwnerID == ownerID {
			chats = append(chats, chat)
		}
	}
	return chats, nil
}

func (m *testChatRepository) NextChatID(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return m.nextID, nil
}

func (m *testChatRepository) CreateInvitation(ctx context.Context, invitation model.InvitationItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invitations[invitation.PK] = invitation
	return nil
}

func (m *testChatRepository) GetInvitation(ctx context.Context, chatID, userID int) (model.InvitationItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	invitation, ok := m.invitations[model.InvitationPK(chatID, userID)]
	if !ok {
		return model.InvitationItem{}, chatsvc.ErrNotFound
	}
	return invitation, nil
}

func (m *testChatRepository) DeleteInvitation(ctx context.Context, chatID, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.invitations, model.InvitationPK(chatID, userID))
	return nil
}

func (m *testChatRepository) ListInvitationsByChat(ctx context.Context, chatID int) ([]model.InvitationItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var invitations []model.InvitationItem
	for _, invitation := range m.invitations {
		if invitation.ChatID == chatID {
			invitations = append(invitations, invitation)
		}
	}
	return invitations, nil
}

func (m *testChatRepository) ListInvitationsByUser(ctx context.Context, userID int) ([]model.InvitationItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var invitations []model.InvitationItem
	for _, invitation := range m.invitations {
		if invitation.UserID == userID {
			invitations = append(invitations, invitation)
		}
	}
	return invitations, nil
}

func (m *testChatRepository) DeleteInvitationsForChat(ctx context.Context, chatID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for pk, invitation := range m.invitations {
		if invitation.ChatID == chatID {
			delete(m.invitations, pk)
		}
	}
	return nil
}

func setupChatHandler(t *testing.T, userIDs ...int) (http.Handler, *testChatRepository, *websocket.Handler, func()) {
	t.Helper()

	userRepo := newTestUserRepository()
	for _, id := range userIDs {
		userRepo.users[id] = model.UserItem{UserID: id, IsActivated: true}
	}

	chatRepo := newTestChatRepository()
	chatService := chatsvc.NewWithRepository(chatRepo, userRepo, fixedTime)
	userService := usersvc.NewWithRepository(userRepo, fixedTime)
	wsHandler := websocket.NewHandler(websocket.NewRegistry())

	chatEndpoints := NewChatEndpointsWithServices(chatService, userService, wsHandler, "/api")
	wsEndpoints := NewWebsocketEndpoints(wsHandler, "/api")

	queueManager := queue.NewRequestQueueManager(10, 1)
	server := api.NewAPIServer(":0", queueManager, nil, wsHandler)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/chats", server.MakeHTTPHandleFunc(chatEndpoints.Chats))
	mux.HandleFunc("/api/chats/", server.MakeHTTPHandleFunc(chatEndpoints.Chat))
	mux.HandleFunc("/api/chat/", server.MakeHTTPHandleFunc(wsEndpoints.JoinChat))

	return mux, chatRepo, wsHandler, func() {
		queueManager.Shutdown()
	}
}

func TestChatEndpointsEndToEnd(t *testing.T) {
	handler, chatRepo, _, cleanup := setupChatHandler(t, 1, 2, 3)
	defer cleanup()

	createPayload := map[string]interface{}{
		"title":       "Standup",
		"description": "Daily sync",
		"ownerId":     1,
	}
	created := doJSONRequest[dto.ChatResponse](t, handler, http.MethodPost, "/api/chats", createPayload, nil, http.StatusCreated)
	if created.ChatID != 1 || created.OwnerID != 1 {
		t.Fatalf("unexpected chat: %+v", created)
	}

	fetched := doJSONRequest[dto.ChatResponse](t, handler, http.MethodGet, "/api/chats/1", nil, nil, http.StatusOK)
	if fetched.Title != "Standup" {
		t.Fatalf("expected fetched chat, got %+v", fetched)
	}

	doJSONRequest[api.ApiError](t, handler, http.MethodGet, "/api/chats/42", nil, nil, http.StatusNotFound)
	doJSONRequest[api.ApiError](t, handler, http.MethodGet, "/api/chats/abc", nil, nil, http.StatusBadRequest)

	invitePayload := map[string]interface{}{"userId": 2}
	invitation := doJSONRequest[dto.InvitationResponse](t, handler, http.MethodPost, "/api/chats/1/users", invitePayload, nil, http.StatusCreated)
	if invitation.ChatID != 1 || invitation.UserID != 2 {
		t.Fatalf("unexpected invitation: %+v", invitation)
	}

	doJSONRequest[api.ApiError](t, handler, http.MethodPost, "/api/chats/1/users", invitePayload, nil, http.StatusConflict)

	participants := doJSONRequest[dto.ListUsersResponse](t, handler, http.MethodGet, "/api/chats/1/users", nil, nil, http.StatusOK)
	if len(participants.Users) != 2 {
		t.Fatalf("expected owner plus guest, got %d", len(participants.Users))
	}

	userChats := doJSONRequest[dto.ListChatsResponse](t, handler, http.MethodGet, "/api/chats/user/2", nil, nil, http.StatusOK)
	if userChats.Total != 1 || userChats.Chats[0].ChatID != 1 {
		t.Fatalf("expected invited chat for user 2, got %+v", userChats)
	}

	doJSONRequest[ApiMessageResponse](t, handler, http.MethodDelete, "/api/chats/1/users/2", nil, nil, http.StatusOK)
	doJSONRequest[api.ApiError](t, handler, http.MethodDelete, "/api/chats/1/users/2", nil, nil, http.StatusNotFound)

	doJSONRequest[dto.InvitationResponse](t, handler, http.MethodPost, "/api/chats/1/users", invitePayload, nil, http.StatusCreated)
	doJSONRequest[ApiMessageResponse](t, handler, http.MethodDelete, "/api/chats/1", nil, nil, http.StatusOK)
	if len(chatRepo.invitations) != 0 {
		t.Fatal("expected invitations removed with the chat")
	}
}

func TestConnectedUsersEndpoint(t *testing.T) {
	handler, _, wsHandler, cleanup := setupChatHandler(t, 1)
	defer cleanup()

	createPayload := map[string]interface{}{"title": "Standup", "ownerId": 1}
	doJSONRequest[dto.ChatResponse](t, handler, http.MethodPost, "/api/chats", createPayload, nil, http.StatusCreated)

	resp := doJSONRequest[dto.ConnectedUsersResponse](t, handler, http.MethodGet, "/api/chats/1/connected-users", nil, nil, http.StatusOK)
	if resp.ChatID != 1 || len(resp.ConnectedUsers) != 0 {
		t.Fatalf("expected empty connected users, got %+v", resp)
	}

	wsHandler.Registry().Register(&websocket.Client{RoomID: 1, UserID: 7})

	resp = doJSONRequest[dto.ConnectedUsersResponse](t, handler, http.MethodGet, "/api/chats/1/connected-users", nil, nil, http.StatusOK)
	if len(resp.ConnectedUsers) != 1 || resp.ConnectedUsers[0] != 7 {
		t.Fatalf("expected user 7 connected, got %+v", resp)
	}
}

func TestJoinChatRejectsMalformedPath(t *testing.T) {
	handler, _, wsHandler, cleanup := setupChatHandler(t, 1)
	defer cleanup()

	doJSONRequest[api.ApiError](t, handler, http.MethodGet, "/api/chat/5", nil, nil, http.StatusBadRequest)
	doJSONRequest[api.ApiError](t, handler, http.MethodGet, "/api/chat/abc/1", nil, nil, http.StatusBadRequest)
	doJSONRequest[api.ApiError](t, handler, http.MethodGet, "/api/chat/5/xyz", nil, nil, http.StatusBadRequest)

	if ids := wsHandler.Registry().ConnectedUserIDs(5); len(ids) != 0 {
		t.Fatalf("malformed joins must not register connections, got %v", ids)
	}
}
