package router

import (
	"chat-admin-backend/internal/api"
	"chat-admin-backend/internal/api/endpoints"
	"chat-admin-backend/internal/api/middleware"
	"net/http"
)

func UserRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		userEndpoints := endpoints.NewUserEndpoints(s.Database(), prefix)
		mux.HandleFunc(prefix+"/users", s.MakeHTTPHandleFunc(userEndpoints.Users, middleware.ValidateAdminJWT))
		mux.HandleFunc(prefix+"/users/", s.MakeHTTPHandleFunc(userEndpoints.User, middleware.ValidateAdminJWT))
	}
}
