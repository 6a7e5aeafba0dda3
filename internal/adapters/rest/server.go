package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"six-cities/internal/adapters/notifier"
	"six-cities/internal/core/port"
	"six-cities/internal/core/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// ServerConfig - параметры HTTP-сервера BFF.
type ServerConfig struct {
	Port              string
	AllowedOrigins    []string
	SessionCookieName string
	SessionCookieTTL  time.Duration
}

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewRouter собирает маршруты /api/v1. Вынесен отдельно, чтобы тесты могли работать с ним через httptest.
func NewRouter(cfg ServerConfig, manager *session.Manager, n *notifier.SessionNotifier, logger port.LoggerPort) http.Handler {
	handlers := NewHandlers()
	streams := NewStreamHandlers(n, cfg.AllowedOrigins, logger)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "sessions": manager.Len()})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SessionMiddleware(manager, cfg.SessionCookieName, cfg.SessionCookieTTL))

		r.Route("/main", func(r chi.Router) {
			r.Get("/", handlers.GetMainPage)
			r.Put("/city", handlers.ChangeCity)
			r.Put("/sorting", handlers.ChangeSorting)
			r.Delete("/error", handlers.ClearOffersError)
		})

		r.Get("/offers/{id}", handlers.GetOfferPage)
		r.With(RequireAuth).Post("/offers/{id}/comments", handlers.PostComment)

		r.Route("/favorites", func(r chi.Router) {
			r.Use(RequireAuth)
			r.Get("/", handlers.GetFavorites)
			r.Post("/{id}/{status}", handlers.ChangeFavoriteStatus)
			r.Delete("/error", handlers.ClearFavoritesError)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Get("/", handlers.GetAuth)
			r.Post("/login", handlers.Login)
			r.Post("/logout", handlers.Logout)
		})

		r.Get("/events", streams.Events)
		r.Get("/ws", streams.WebSocket)
	})

	return r
}

func NewServer(cfg ServerConfig, manager *session.Manager, n *notifier.SessionNotifier, logger port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           NewRouter(cfg, manager, n, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger.WithFields(port.Fields{"component": "RestServer"}),
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
