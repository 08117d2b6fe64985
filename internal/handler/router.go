/*
Package handler provides the HTTP handlers and routing setup for the pairlink server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"pairlink/internal/pkg/auth/jwt"
	"pairlink/internal/pkg/limiter"
	"pairlink/internal/pkg/logx"
	"pairlink/internal/pkg/resp"
)

const (
	// CreateRate limits room creation per IP (one room every 20 seconds, burst 2).
	CreateRate  = 0.05
	CreateBurst = 2

	// JoinRate limits join attempts per IP, which also throttles password guessing.
	JoinRate  = 0.2
	JoinBurst = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and
// per-route middleware.
func Router(deps *AppDeps) http.Handler {
	createLimiter := limiter.NewIPRateLimiter(rate.Limit(CreateRate), CreateBurst)
	joinLimiter := limiter.NewIPRateLimiter(rate.Limit(JoinRate), JoinBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "pairlink",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.With(createLimiter.Middleware).Post("/rooms", HandleCreateRoom(deps))
		api.With(joinLimiter.Middleware).Post("/rooms/join", HandleJoinRoom(deps))

		api.Get("/rooms/{roomID}", HandleGetSnapshot(deps))
		api.Post("/rooms/{roomID}/start", HandleStartGame(deps))
		api.Post("/rooms/{roomID}/vote", HandleSubmitVote(deps))
		api.Post("/rooms/{roomID}/acknowledge", HandleAcknowledge(deps))
		api.Post("/rooms/{roomID}/role", HandleChangeRole(deps))
		api.Post("/rooms/{roomID}/kick", HandleKickMember(deps))
		api.Post("/rooms/{roomID}/leave", HandleLeaveRoom(deps))

		api.Post("/heartbeat", HandleHeartbeat(deps))

		api.Route("/admin", func(admin chi.Router) {
			admin.Post("/login", HandleAdminLogin(deps))

			admin.Group(func(priv chi.Router) {
				priv.Use(jwt.RequireAdminMiddleware(deps.Config.JWTSecret))

				priv.Get("/rooms", HandleAdminListRooms(deps))
				priv.Delete("/rooms/{roomID}", HandleAdminDismissRoom(deps))
				priv.Post("/rooms/{roomID}/kick", HandleAdminKickMember(deps))
			})
		})
	})

	return r
}
