// Package server provides the HTTP API for the SmartUTB assistant.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hyperjump/smartutb/internal/chat"
	"github.com/hyperjump/smartutb/internal/config"
	"github.com/hyperjump/smartutb/internal/history"
	"github.com/hyperjump/smartutb/internal/models"
	"github.com/hyperjump/smartutb/pkg/utils"
	"go.uber.org/zap"
)

// Authenticator checks credentials against the account list.
type Authenticator interface {
	Authenticate(nim, password string) (*models.Account, bool)
}

// Resolver answers chat messages.
type Resolver interface {
	Resolve(ctx context.Context, req chat.Request) chat.Response
}

// SessionStore reads chat history.
type SessionStore interface {
	ListSessions(ctx context.Context, nim string) []models.SessionSummary
	GetSessionDetail(ctx context.Context, nim, sessionID string) ([]models.Message, error)
}

// Server is the HTTP server for the SmartUTB API.
type Server struct {
	auth     Authenticator
	resolver Resolver
	history  SessionStore
	config   *config.ServerConfig
	logger   *zap.Logger
	newID    func() string
	server   *http.Server
}

// NewServer creates a server with the given dependencies. A nil newSessionID
// uses history.NewSessionID.
func NewServer(
	auth Authenticator,
	resolver Resolver,
	sessions SessionStore,
	cfg *config.ServerConfig,
	logger *zap.Logger,
	newSessionID func() string,
) *Server {
	if newSessionID == nil {
		newSessionID = history.NewSessionID
	}
	return &Server{
		auth:     auth,
		resolver: resolver,
		history:  sessions,
		config:   cfg,
		logger:   utils.OrNop(logger),
		newID:    newSessionID,
	}
}

// Handler returns the router with all routes and middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Post("/login", s.handleLogin)
	r.Post("/get_sessions", s.handleGetSessions)
	r.Post("/get_chat_detail", s.handleGetChatDetail)
	r.Post("/chat", s.handleChat)
	r.Post("/new_session", s.handleNewSession)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
