package router

import (
	"bloghub/internal/application"
	"bloghub/internal/container"
	"bloghub/internal/infrastructure/cache"
	"bloghub/internal/infrastructure/media"
	pginfra "bloghub/internal/infrastructure/postgres"
	"bloghub/internal/infrastructure/search"
	handlers "bloghub/internal/interface/http"
	"bloghub/internal/interface/middleware"
	"bloghub/internal/router/modules"
)

// InitModules builds all services and handlers from the container singletons
// and registers the feature modules. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	blogs := pginfra.NewBlogRepository(pool)
	comments := pginfra.NewCommentRepository(pool)

	listingCache := cache.NewListingCache(container.GetRedis(), cfg.BlogCacheTTL)
	mediaStore := media.NewGCSStore(container.GetGCS(), cfg.GCSBucket)
	blogIndex := search.NewBlogIndex(container.GetES(), cfg.ESBlogsIndex, logger)

	authSvc := application.NewAuthService(users, container.GetTokens(), container.GetRabbitPub(), logger,
		cfg.BcryptCost, cfg.LockoutMaxAttempts, cfg.LockoutDuration)
	blogSvc := application.NewBlogService(blogs, listingCache, mediaStore, blogIndex, logger)
	commentSvc := application.NewCommentService(comments, blogs, logger)
	userSvc := application.NewUserService(users, logger, cfg.BcryptCost)

	guard := middleware.Auth(users, container.GetTokens())

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger)))
	r.Add(modules.NewBlogModule(handlers.NewBlogHandler(blogSvc, logger), guard))
	r.Add(modules.NewCommentModule(handlers.NewCommentHandler(commentSvc, logger), guard))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), guard))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
