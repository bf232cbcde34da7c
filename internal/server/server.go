package server

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"offbytes.com/offersapi/internal/middleware"
	"offbytes.com/offersapi/pkg/storage"

	adminHttp "offbytes.com/offersapi/internal/modules/admin/delivery/http"
	adminService "offbytes.com/offersapi/internal/modules/admin/service"

	businessHttp "offbytes.com/offersapi/internal/modules/business/delivery/http"
	businessService "offbytes.com/offersapi/internal/modules/business/service"

	engagementHttp "offbytes.com/offersapi/internal/modules/engagement/delivery/http"
	engagementService "offbytes.com/offersapi/internal/modules/engagement/service"

	notifHttp "offbytes.com/offersapi/internal/modules/notification/delivery/http"
	notifRepo "offbytes.com/offersapi/internal/modules/notification/repository"
	notifService "offbytes.com/offersapi/internal/modules/notification/service"

	offerHttp "offbytes.com/offersapi/internal/modules/offer/delivery/http"
	offerRepo "offbytes.com/offersapi/internal/modules/offer/repository"
	offerService "offbytes.com/offersapi/internal/modules/offer/service"

	savedHttp "offbytes.com/offersapi/internal/modules/savedoffer/delivery/http"
	savedRepo "offbytes.com/offersapi/internal/modules/savedoffer/repository"
	savedService "offbytes.com/offersapi/internal/modules/savedoffer/service"

	searchHttp "offbytes.com/offersapi/internal/modules/search/delivery/http"
	searchRepo "offbytes.com/offersapi/internal/modules/search/repository"
	searchService "offbytes.com/offersapi/internal/modules/search/service"

	userHttp "offbytes.com/offersapi/internal/modules/user/delivery/http"
	userRepo "offbytes.com/offersapi/internal/modules/user/repository"
	userService "offbytes.com/offersapi/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const defaultSweepInterval = time.Hour

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(db *gorm.DB, redisClient *redis.Client) *Server {
	users := userRepo.NewUserRepository(db)
	posts := offerRepo.NewPostRepository(db)
	saved := savedRepo.NewSavedOfferRepository(db)
	notifications := notifRepo.NewNotificationRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Warn().Err(err).Msg("cloudinary disabled, image uploads will be rejected")
		imageStorage = nil
	}

	meiliClient := newMeiliClient()
	indexer := offerService.NewOfferIndexer(meiliClient)

	notificationSvc := notifService.NewNotificationService(notifications, redisClient)
	notificationHandler := notifHttp.NewNotificationHandler(notificationSvc, redisClient)
	fanout := notifService.NewFanout(notificationSvc, users, saved)

	authSvc := userService.NewAuthService(users, userService.NewGoogleVerifier())
	authHandler := userHttp.NewAuthHandler(authSvc)

	postSvc := offerService.NewPostService(posts, users, fanout, indexer, imageStorage)
	postHandler := offerHttp.NewPostHandler(postSvc)

	engagementSvc := engagementService.NewEngagementService(posts, users, saved, fanout)
	engagementHandler := engagementHttp.NewEngagementHandler(engagementSvc)

	savedSvc := savedService.NewSavedOfferService(saved, posts, users)
	savedHandler := savedHttp.NewSavedOfferHandler(savedSvc)

	businessSvc := businessService.NewBusinessService(users, posts, saved, fanout)
	businessHandler := businessHttp.NewBusinessHandler(businessSvc)

	searchSvc := searchService.NewSearchService(searchRepo.NewSearchRepository(db))
	searchHandler := searchHttp.NewSearchHandler(searchSvc)

	adminSvc := adminService.NewAdminService(users)
	adminHandler := adminHttp.NewAdminHandler(adminSvc)

	startExpirySweep(postSvc)

	router := gin.New()
	setupCORS(router)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	router.GET("/health", healthHandler(db))

	requireAuth := middleware.Auth(users)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/google", authHandler.GoogleAuth)
		auth.POST("/register-business", authHandler.RegisterBusiness)
	}

	// Public routes
	api.GET("/posts/feed", postHandler.GetFeed)
	api.GET("/business/:id/card", businessHandler.GetPublicCard)
	api.GET("/business/:id/profile", businessHandler.GetPublicProfile)

	protected := api.Group("")
	protected.Use(requireAuth)
	{
		// Posts
		protected.GET("/posts/:id", postHandler.GetPost)
		protected.POST("/posts", postHandler.CreatePost)
		protected.PUT("/posts/:id", postHandler.UpdatePost)
		protected.PUT("/posts/:id/like", engagementHandler.ToggleLike)
		protected.POST("/posts/:id/comment", engagementHandler.AddComment)
		protected.PUT("/posts/:id/save", engagementHandler.ToggleSave)

		// Search
		protected.GET("/search", searchHandler.Search)

		// Saved offers
		protected.GET("/saved-offers", savedHandler.GetSavedOffers)
		protected.POST("/saved-offers", savedHandler.SaveOffer)
		protected.DELETE("/saved-offers/:postId", savedHandler.UnsaveOffer)

		// User
		protected.GET("/user/profile", authHandler.GetProfile)
		protected.GET("/user/:id/profile", authHandler.GetPublicProfile)

		// Business dashboard
		businessGroup := protected.Group("/business")
		businessGroup.Use(middleware.RequireBusiness())
		{
			businessGroup.GET("/insights", businessHandler.GetInsights)
			businessGroup.GET("/posts", businessHandler.GetMyPosts)
			businessGroup.PUT("/profile", businessHandler.UpdateProfile)
		}

		// Notifications
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.GetUnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.Stream)

		// Admin
		adminGroup := protected.Group("/admin")
		adminGroup.Use(middleware.RequireAdmin())
		{
			adminGroup.POST("/business/:id/verify", adminHandler.VerifyBusiness)
			adminGroup.POST("/business/:id/reject", adminHandler.RejectBusiness)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func newMeiliClient() meilisearch.ServiceManager {
	meiliHost := os.Getenv("MEILISEARCH_HOST")
	if meiliHost == "" {
		return nil
	}
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}

	return meilisearch.New(meiliHost, meilisearch.WithAPIKey(os.Getenv("MEILI_MASTER_KEY")))
}

// startExpirySweep periodically warns savers about offers lapsing within 24h.
// The check is idempotent, so the interval only affects how promptly users
// hear about it.
func startExpirySweep(posts offerService.PostService) {
	interval := defaultSweepInterval
	if raw := os.Getenv("EXPIRY_SWEEP_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			interval = parsed
		}
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			count, err := posts.CheckExpiryAndNotify(context.Background())
			if err != nil {
				log.Error().Err(err).Msg("expiry sweep failed")
				continue
			}
			if count > 0 {
				log.Info().Int("notified", count).Msg("expiry sweep completed")
			}
		}
	}()
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"database":  "up",
			"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
		})
	}
}

func setupCORS(router *gin.Engine) {
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
