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

// UserModule wires the account endpoints under /api/users.
// Public: register, login, refresh-token
// Protected: logout, change-password, current-user, update-account,
// avatar, cover-image
type UserModule struct {
	Sessions *handlers.SessionHandler
	Profiles *handlers.ProfileHandler
	JWT      *helpers.JWTManager
	Users    repository.UserRepository
}

func NewUserModule(sessions *handlers.SessionHandler, profiles *handlers.ProfileHandler, jwt *helpers.JWTManager, users repository.UserRepository) *UserModule {
	return &UserModule{Sessions: sessions, Profiles: profiles, JWT: jwt, Users: users}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	users := rg.Group("/users")
	users.POST("/register", registerLimiter, m.Sessions.Register)
	users.POST("/login", loginLimiter, m.Sessions.Login)
	users.POST("/refresh-token", refreshLimiter, m.Sessions.Refresh)

	auth := users.Group("/")
	auth.Use(middleware.Auth(m.JWT, m.Users))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/logout", m.Sessions.Logout)
		auth.POST("/change-password", m.Sessions.ChangePassword)
		auth.GET("/current-user", m.Profiles.CurrentUser)
		auth.PATCH("/update-account", m.Profiles.UpdateAccount)
		auth.PATCH("/avatar", m.Profiles.UpdateAvatar)
		auth.PATCH("/cover-image", m.Profiles.UpdateCoverImage)
	}
}
