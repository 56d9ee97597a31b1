package router

import (
	"github.com/vidhub/vidhub-api/internal/application"
	"github.com/vidhub/vidhub-api/internal/container"
	pginfra "github.com/vidhub/vidhub-api/internal/infrastructure/postgres"
	handlers "github.com/vidhub/vidhub-api/internal/interface/http"
	"github.com/vidhub/vidhub-api/internal/router/modules"
	"github.com/vidhub/vidhub-api/pkg/helpers"
)

// InitModules builds the repositories, services, and handlers from the
// container singletons and registers every feature module. Call once during
// startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	subs := pginfra.NewSubscriptionRepository(pool)
	videos := pginfra.NewVideoRepository(pool)

	indexer := application.NewChannelIndexer(container.GetES(), cfg.ESChannelsIndex, logger)

	var notify *application.Notifier
	if pub := container.GetRabbitPub(); pub != nil {
		notify = application.NewNotifier(pub, logger)
	}

	sessions := application.NewSessionService(users, container.GetJWT(), container.GetAssets(), notify, indexer, logger)
	profiles := application.NewProfileService(users, container.GetAssets(), indexer, logger)
	channels := application.NewChannelService(users, subs, videos, indexer)

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	sessionHandler := handlers.NewSessionHandler(sessions, cookies, logger)
	profileHandler := handlers.NewProfileHandler(profiles)
	channelHandler := handlers.NewChannelHandler(channels)

	r.Add(modules.NewUserModule(sessionHandler, profileHandler, container.GetJWT(), users))
	r.Add(modules.NewChannelModule(channelHandler, container.GetJWT(), users))
}
