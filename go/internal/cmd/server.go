package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/auth"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/web"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func setupServer(cfg *Config, services *Services) *http.Server {
	// Setup HTTP/2 server
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           h2c.NewHandler(setupRouter(cfg, services), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func setupRouter(cfg *Config, services *Services) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: cfg.CORSOrigins,
		AllowedHeaders: []string{"*"},
	})
	r.Use(c.Handler)

	// Register services
	registerServices(r, services)

	// Add health check endpoint
	setupHealthCheck(r)

	return r
}

func registerServices(r chi.Router, services *Services) {
	requireAuth := auth.RequireAuth(services.Tokens)

	// Accounts
	r.Post("/api/register", services.Users.Register)
	r.Post("/api/login", services.Users.Login)
	r.Post("/api/logout", services.Users.Logout)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		// Plant
		r.Get("/api/plant/state", services.Plant.GetState)
		r.Post("/api/plant/grow", services.Plant.Grow)
		r.Post("/api/plant/new", services.Plant.NewPlant)
		r.Get("/api/user/collection", services.Plant.GetCollection)

		// Pomodoro sessions
		r.Get("/api/pomodoro/settings", services.Pomodoro.GetSettings)
		r.Post("/api/pomodoro/start", services.Pomodoro.Start)
		r.Post("/api/pomodoro/complete", services.Pomodoro.Complete)

		// Stats
		r.Get("/api/user/stats", services.Stats.GetStats)
	})

	// Sync relay
	services.Gateway.RegisterRoutes(r, requireAuth)
}

func setupHealthCheck(r chi.Router) {
	health := func(w http.ResponseWriter, r *http.Request) {
		web.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
	r.Get("/health", health)
	r.Get("/api/health", health)
}

// requestLogger logs one line per request with zerolog
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
