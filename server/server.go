package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/daykeep/daykeep/internal/profile"
	"github.com/daykeep/daykeep/plugin/assistant"
	"github.com/daykeep/daykeep/server/ai"
	apiv1 "github.com/daykeep/daykeep/server/router/api/v1"
	"github.com/daykeep/daykeep/store"
)

// Server is the HTTP process: an echo instance with the v1 API mounted and
// the assistant wired behind it.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	assistant  *assistant.Assistant
}

// NewServer builds the server. The AI provider comes from the profile; when
// no API key is configured the server still starts, and chat requests fail
// with a configuration error instead of a crash.
func NewServer(ctx context.Context, profile *profile.Profile, st *store.Store) (*Server, error) {
	echoServer := echo.New()
	echoServer.Debug = true
	echoServer.HideBanner = true
	echoServer.HidePort = true

	echoServer.Use(echomw.Recover())
	echoServer.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			slog.Info("http request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status)
			return nil
		},
	}))
	echoServer.Use(echomw.TimeoutWithConfig(echomw.TimeoutConfig{
		Timeout: 120 * time.Second,
	}))

	provider, err := ai.NewProvider(&ai.Config{
		BaseURL:    profile.AIBaseURL,
		APIKey:     profile.AIAPIKey,
		ChatModel:  profile.AIChatModel,
		MaxRetries: 3,
		Timeout:    60 * time.Second,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create AI provider")
	}

	s := &Server{
		Profile:    profile,
		Store:      st,
		echoServer: echoServer,
		assistant:  assistant.New(st, provider, slog.Default()),
	}

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(200, "Service ready.")
	})

	apiV1Service := apiv1.NewAPIV1Service(profile, st, s.assistant)
	apiV1Service.Register(echoServer)

	return s, nil
}

// Start begins serving and blocks until the listener fails.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	return s.echoServer.Start(address)
}

// Shutdown drains in-flight requests and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", errors.WithStack(err))
	}

	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", errors.WithStack(err))
	}

	slog.Info("daykeep stopped properly")
}
