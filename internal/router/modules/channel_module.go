package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vidhub/vidhub-api/internal/container"
	"github.com/vidhub/vidhub-api/internal/domain/repository"
	handlers "github.com/vidhub/vidhub-api/internal/interface/http"
	"github.com/vidhub/vidhub-api/internal/interface/middleware"
	"github.com/vidhub/vidhub-api/pkg/helpers"
)

// ChannelModule wires the channel views under /api/users. All routes require
// an authenticated viewer.
type ChannelModule struct {
	Handler *handlers.ChannelHandler
	JWT     *helpers.JWTManager
	Users   repository.UserRepository
}

func NewChannelModule(h *handlers.ChannelHandler, jwt *helpers.JWTManager, users repository.UserRepository) *ChannelModule {
	return &ChannelModule{Handler: h, JWT: jwt, Users: users}
}

func (m *ChannelModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/users")
	auth.Use(middleware.Auth(m.JWT, m.Users))
	auth.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/channel/:username", m.Handler.Channel)
		auth.GET("/history", m.Handler.History)
		auth.GET("/channels/search", m.Handler.Search)
	}
}
