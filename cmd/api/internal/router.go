package internal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(api *API, jwtMgr *JWTManager) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CorsMiddleware)

	r.Get("/health", api.HandleHealth)

	r.Group(func(r chi.Router) {
		r.Use(PrivilegeMiddleware(jwtMgr))
		r.Get("/api/signals", api.HandleGetSignals)
	})

	r.Post("/api/analyze", api.HandleAnalyze)

	return r
}
