package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-press/inkwell/internal/infrastructure/ratelimit"
	"github.com/inkwell-press/inkwell/internal/interfaces/http/middleware"
)

func (c *Container) registerRoutes() {
	c.engine.Use(middleware.Recovery())
	c.engine.Use(middleware.CustomLogger(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())

	c.engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := c.authMiddleware.RequireAuth()
	optionalAuth := c.authMiddleware.OptionalAuth()
	requireStaff := c.authMiddleware.RequireStaff()
	requireAdmin := c.authMiddleware.RequireAdmin()

	loginLimit := middleware.RateLimit(c.limiter, c.log, "login", ratelimit.Limit{PerMinute: 10, PerHour: 60})
	registerLimit := middleware.RateLimit(c.limiter, c.log, "register", ratelimit.Limit{PerMinute: 5, PerHour: 20})
	webhookLimit := middleware.RateLimit(c.limiter, c.log, "webhook", ratelimit.Limit{PerMinute: 60})

	// Authentication and account
	auth := c.engine.Group("/auth")
	{
		auth.POST("/register", registerLimit, c.authHandler.Register)
		auth.POST("/login", loginLimit, c.authHandler.Login)
		auth.GET("/me", requireAuth, c.authHandler.GetProfile)
	}

	c.engine.PUT("/users/:id/role", requireAuth, requireAdmin, c.authHandler.SetRole)

	// Novels
	novels := c.engine.Group("/novels")
	{
		novels.GET("", c.novelHandler.ListNovels)
		novels.GET("/:id", c.novelHandler.GetNovel)
		novels.GET("/slug/:slug", c.novelHandler.GetNovelBySlug)
		novels.POST("", requireAuth, requireStaff, c.novelHandler.CreateNovel)
		novels.PUT("/:id", requireAuth, requireStaff, c.novelHandler.UpdateNovel)
		novels.PUT("/:id/roster", requireAuth, requireStaff, c.novelHandler.SetRoster)
		novels.DELETE("/:id", requireAuth, requireAdmin, c.novelHandler.DeleteNovel)
		novels.POST("/:id/contribute", requireAuth, c.novelHandler.Contribute)

		novels.GET("/:id/volumes", c.volumeHandler.ListVolumes)
		novels.POST("/:id/volumes", requireAuth, requireStaff, c.volumeHandler.CreateVolume)
	}

	// Volumes
	volumes := c.engine.Group("/volumes")
	{
		volumes.GET("/:id", c.volumeHandler.GetVolume)
		volumes.PUT("/:id", requireAuth, requireStaff, c.volumeHandler.UpdateVolume)
		volumes.PUT("/:id/mode", requireAuth, requireStaff, c.volumeHandler.ChangeMode)
		volumes.PUT("/:id/pricing", requireAuth, requireStaff, c.volumeHandler.SetPricing)
		volumes.DELETE("/:id", requireAuth, requireStaff, c.volumeHandler.DeleteVolume)

		volumes.POST("/:id/rent", requireAuth, c.volumeHandler.RentVolume)
		volumes.GET("/:id/rental", requireAuth, c.volumeHandler.GetActiveRental)

		volumes.GET("/:id/chapters", c.chapterHandler.ListChapters)
		volumes.POST("/:id/chapters", requireAuth, requireStaff, c.chapterHandler.CreateChapter)
	}

	// Chapters
	chapters := c.engine.Group("/chapters")
	{
		chapters.GET("/:id/read", optionalAuth, c.chapterHandler.ReadChapter)
		chapters.GET("/:id", requireAuth, requireStaff, c.chapterHandler.GetChapter)
		chapters.PUT("/:id", requireAuth, requireStaff, c.chapterHandler.UpdateChapter)
		chapters.PUT("/:id/mode", requireAuth, requireStaff, c.chapterHandler.ChangeMode)
		chapters.PUT("/:id/price", requireAuth, requireStaff, c.chapterHandler.SetPrice)
		chapters.DELETE("/:id", requireAuth, requireStaff, c.chapterHandler.DeleteChapter)
	}

	// Rentals and coin purchases
	c.engine.GET("/rentals", requireAuth, c.volumeHandler.ListRentals)

	topups := c.engine.Group("/topups", requireAuth)
	{
		topups.POST("", c.topUpHandler.CreateTopUp)
		topups.GET("", c.topUpHandler.ListTopUps)
		topups.GET("/:id", c.topUpHandler.GetTopUp)
	}

	// Payment provider callback; authenticated by provider_ref knowledge, not
	// by a user token.
	c.engine.POST("/webhooks/topup", webhookLimit, c.topUpHandler.SettleWebhook)

	// Live unlock stream
	c.engine.GET("/events/unlocks", c.eventsHandler.StreamUnlocks)
}
