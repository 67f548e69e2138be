package router

import (
	"chat-admin-backend/internal/api"
	"chat-admin-backend/internal/api/endpoints"
	"chat-admin-backend/internal/api/middleware"
	"net/http"
)

func ChatRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		chatEndpoints := endpoints.NewChatEndpoints(s.Database(), s.Handler(), prefix)
		mux.HandleFunc(prefix+"/chats", s.MakeHTTPHandleFunc(chatEndpoints.Chats, middleware.ValidateAnyJWT))
		mux.HandleFunc(prefix+"/chats/", s.MakeHTTPHandleFunc(chatEndpoints.Chat, middleware.ValidateAnyJWT))
	}
}
