package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	accessapp "github.com/inkwell-press/inkwell/internal/application/access"
	chapterapp "github.com/inkwell-press/inkwell/internal/application/chapter"
	novelapp "github.com/inkwell-press/inkwell/internal/application/novel"
	rentalapp "github.com/inkwell-press/inkwell/internal/application/rental"
	topupapp "github.com/inkwell-press/inkwell/internal/application/topup"
	"github.com/inkwell-press/inkwell/internal/application/unlock"
	userapp "github.com/inkwell-press/inkwell/internal/application/user"
	volumeapp "github.com/inkwell-press/inkwell/internal/application/volume"
	"github.com/inkwell-press/inkwell/internal/infrastructure/auth"
	"github.com/inkwell-press/inkwell/internal/infrastructure/cache"
	"github.com/inkwell-press/inkwell/internal/infrastructure/config"
	"github.com/inkwell-press/inkwell/internal/infrastructure/pubsub"
	"github.com/inkwell-press/inkwell/internal/infrastructure/ratelimit"
	"github.com/inkwell-press/inkwell/internal/infrastructure/repository"
	"github.com/inkwell-press/inkwell/internal/interfaces/http/handlers"
	"github.com/inkwell-press/inkwell/internal/interfaces/http/middleware"
	"github.com/inkwell-press/inkwell/internal/shared/db"
	"github.com/inkwell-press/inkwell/internal/shared/goroutine"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
	"github.com/inkwell-press/inkwell/internal/shared/retry"
	"github.com/inkwell-press/inkwell/internal/shared/services/markdown"
)

// Container wires repositories, services, and handlers together and owns the
// background goroutines that outlive a single request.
type Container struct {
	engine *gin.Engine
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	authMiddleware *middleware.AuthMiddleware
	limiter        ratelimit.Limiter

	authHandler    *handlers.AuthHandler
	novelHandler   *handlers.NovelHandler
	volumeHandler  *handlers.VolumeHandler
	chapterHandler *handlers.ChapterHandler
	topUpHandler   *handlers.TopUpHandler
	eventsHandler  *handlers.EventsHandler

	cancelBackground context.CancelFunc
}

// NewContainer builds the full dependency graph on top of an open database
// handle and Redis client.
func NewContainer(database *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Container {
	gin.SetMode(cfg.Server.Mode)
	registerValidations()
	engine := gin.New()

	// Repositories
	userRepo := repository.NewUserRepository(database)
	novelRepo := repository.NewNovelRepository(database)
	volumeRepo := repository.NewVolumeRepository(database)
	chapterRepo := repository.NewChapterRepository(database)
	rentalRepo := repository.NewRentalRepository(database)
	topUpRepo := repository.NewTopUpRepository(database)

	tx := db.NewTransactionManager(database)

	// Caches and event bus
	slugCache := cache.NewSlugCache(cfg.Cache.SlugCacheSize, cfg.Cache.SlugTTL())
	bodyCache := cache.NewRedisChapterBodyCache(redisClient, cfg.Cache.ChapterTTL(), log)
	eventBus := pubsub.NewRedisUnlockEventBus(redisClient, log)
	sink := pubsub.NewInvalidationSink(bodyCache, eventBus, log)
	limiter := ratelimit.NewRedisLimiter(redisClient)

	// Unlock engine
	unlockPolicy := retry.Policy{
		MaxAttempts:         cfg.Unlock.MaxAttempts,
		InitialInterval:     time.Duration(cfg.Unlock.InitialBackoffMs) * time.Millisecond,
		MaxInterval:         time.Duration(cfg.Unlock.MaxBackoffSeconds) * time.Second,
		RandomizationFactor: 0.3,
	}
	unlockEngine := unlock.NewEngine(novelRepo, chapterRepo, tx, sink, unlockPolicy, log)

	// Auth infrastructure
	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)

	// Application services
	userService := userapp.NewService(userRepo, hasher, jwtService, log)
	novelService := novelapp.NewService(novelRepo, userRepo, slugCache, unlockEngine, tx, log)
	volumeService := volumeapp.NewService(volumeRepo, novelRepo, log)
	chapterService := chapterapp.NewService(chapterRepo, volumeRepo, novelRepo, markdown.NewRenderer(), bodyCache, unlockEngine, log)
	accessService := accessapp.NewService(chapterRepo, volumeRepo, novelRepo, userRepo, rentalRepo, bodyCache, log)
	rentalService := rentalapp.NewService(rentalRepo, volumeRepo, userRepo, tx, cfg.Rental.Duration(), log)
	topUpService := topupapp.NewService(topUpRepo, userRepo, tx, log)

	c := &Container{
		engine:         engine,
		cfg:            cfg,
		log:            log,
		redis:          redisClient,
		authMiddleware: middleware.NewAuthMiddleware(jwtService, log),
		limiter:        limiter,
		authHandler:    handlers.NewAuthHandler(userService, log),
		novelHandler:   handlers.NewNovelHandler(novelService, log),
		volumeHandler:  handlers.NewVolumeHandler(volumeService, rentalService, log),
		chapterHandler: handlers.NewChapterHandler(chapterService, accessService, log),
		topUpHandler:   handlers.NewTopUpHandler(topUpService, log),
		eventsHandler:  handlers.NewEventsHandler(eventBus, log),
	}

	c.registerRoutes()
	return c
}

// Engine exposes the configured gin engine for the HTTP server.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Start launches the background consumers.
func (c *Container) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelBackground = cancel

	goroutine.SafeGo(c.log, "unlock-event-fanout", func() {
		if err := c.eventsHandler.Run(ctx); err != nil && ctx.Err() == nil {
			c.log.Errorw("unlock event stream stopped", "error", err)
		}
	})
}

// Shutdown stops background consumers. The HTTP server itself is closed by
// the caller.
func (c *Container) Shutdown() {
	if c.cancelBackground != nil {
		c.cancelBackground()
	}
}
