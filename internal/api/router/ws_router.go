package router

import (
	"chat-admin-backend/internal/api"
	"chat-admin-backend/internal/api/endpoints"
	"net/http"
)

// WebsocketRoutes exposes the chat join endpoint plus the chat CRUD
// surface, including the presence query that has to live next to the
// registry.
func WebsocketRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		wsEndpoints := endpoints.NewWebsocketEndpoints(s.Handler(), prefix)
		chatEndpoints := endpoints.NewChatEndpoints(s.Database(), s.Handler(), prefix)

		mux.HandleFunc(prefix+"/chat/", s.MakeHTTPHandleFunc(wsEndpoints.JoinChat))
		mux.HandleFunc(prefix+"/chats", s.MakeHTTPHandleFunc(chatEndpoints.Chats))
		mux.HandleFunc(prefix+"/chats/", s.MakeHTTPHandleFunc(chatEndpoints.Chat))
	}
}
