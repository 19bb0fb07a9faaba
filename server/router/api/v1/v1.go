package v1

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/daykeep/daykeep/internal/profile"
	"github.com/daykeep/daykeep/plugin/assistant"
	"github.com/daykeep/daykeep/server/middleware"
	"github.com/daykeep/daykeep/store"
)

// APIV1Service exposes the assistant over HTTP. Identity resolution happens
// upstream; handlers read the resolved user id and never re-authenticate.
type APIV1Service struct {
	Profile   *profile.Profile
	Store     *store.Store
	Assistant *assistant.Assistant

	rateLimiter *middleware.RateLimiter
}

// NewAPIV1Service creates the HTTP service.
func NewAPIV1Service(profile *profile.Profile, st *store.Store, asst *assistant.Assistant) *APIV1Service {
	return &APIV1Service{
		Profile:     profile,
		Store:       st,
		Assistant:   asst,
		rateLimiter: middleware.NewRateLimiter(),
	}
}

// Register mounts the API routes on the given Echo instance.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	group := echoServer.Group("/api/v1")
	group.Use(echomw.CORS())

	group.POST("/assistant/chat", s.Chat)
	group.GET("/assistant/context", s.ContextBundle)
	group.GET("/assistant/conversations", s.ListConversations)
	group.GET("/assistant/conversations/:id/messages", s.ListMessages)
}
