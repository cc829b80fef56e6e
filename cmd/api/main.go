package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beatclash/backend/internal/config"
	"github.com/beatclash/backend/internal/handlers"
	"github.com/beatclash/backend/internal/middleware"
	"github.com/beatclash/backend/internal/models"
	"github.com/beatclash/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.New()

	// Initialize database
	db, err := models.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Run migrations
	if err := models.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis
	redisClient := models.InitRedis(cfg)
	defer redisClient.Close()

	// Initialize services
	s3Service, err := services.NewS3Service(cfg)
	if err != nil {
		log.Fatalf("Failed to init S3 service: %v", err)
	}
	authService := services.NewAuthService(db, redisClient, cfg)
	userService := services.NewUserService(db)
	genreService := services.NewGenreService(db)
	battleService := services.NewBattleService(db)
	trackService := services.NewTrackService(db, cfg, s3Service)
	voteService := services.NewVoteService(db)
	trialService := services.NewTrialService(db)
	referralService := services.NewReferralService(db, cfg)
	leaderboardService := services.NewLeaderboardService(db)
	subscriptionService := services.NewSubscriptionService(db, cfg)
	adminService := services.NewAdminService(db, cfg, leaderboardService)

	// Create admin user if not exists
	if err := adminService.CreateDefaultAdmin(); err != nil {
		log.Printf("Failed to create default admin: %v", err)
	}

	// Background jobs
	authService.StartCleanupScheduler()
	battleService.StartLifecycleScheduler()
	trialService.StartExpiryScheduler()

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimiter(redisClient, cfg))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg)
	publicHandler := handlers.NewPublicHandler(genreService, battleService, trackService, voteService, leaderboardService)
	userHandler := handlers.NewUserHandler(userService, voteService, trialService, referralService, subscriptionService)
	battleHandler := handlers.NewBattleHandler(battleService, trackService)
	adminHandler := handlers.NewAdminHandler(adminService, userService, genreService, battleService, referralService)
	stripeHandler := handlers.NewStripeHandler(subscriptionService, cfg)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Setup routes
	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		// Catch-all OPTIONS handler for CORS preflight requests
		api.OPTIONS("/*path", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		// Public routes
		public := api.Group("/public")
		{
			public.GET("/genres", publicHandler.GetGenres)
			public.GET("/genres/:id/trial-slots", publicHandler.GetGenreTrialAvailability)
			public.GET("/battles", publicHandler.GetBattles)
			public.GET("/battles/:id", publicHandler.GetBattle)
			public.GET("/battles/:id/tracks", publicHandler.GetBattleTracks)
			public.GET("/battles/:id/results", publicHandler.GetBattleResults)
			public.GET("/tracks/:id/votes", publicHandler.GetTrackVotes)
			public.GET("/leaderboard/artists", publicHandler.GetTopArtists)
			public.GET("/leaderboard/referrers", publicHandler.GetTopReferrers)
		}

		// Audio streaming sits outside the public group so <audio> tags can
		// hit it without headers
		api.GET("/tracks/:id/stream", publicHandler.StreamTrack)

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", middleware.Auth(authService), authHandler.Logout)
			auth.GET("/user", middleware.Auth(authService), authHandler.Me)
			auth.GET("/google", authHandler.GoogleLogin)
			auth.GET("/google/callback", authHandler.GoogleCallback)
		}

		// User routes
		user := api.Group("/user")
		user.Use(middleware.Auth(authService))
		{
			user.PUT("/profile", userHandler.UpdateProfile)
			user.POST("/votes", userHandler.CastVote)
			user.GET("/battles/:id/vote", userHandler.GetMyVote)
			user.POST("/trial-slots", userHandler.ClaimTrialSlot)
			user.GET("/trial-slots", userHandler.GetMyTrialSlots)
			user.POST("/referrals", userHandler.CreateReferral)
			user.GET("/referrals", userHandler.GetMyReferrals)
			user.GET("/referrals/qr.png", userHandler.GetReferralQR)
			user.POST("/subscription", userHandler.CreateSubscription)
			user.GET("/payments", userHandler.GetMyPayments)
		}

		// Participant routes
		participant := api.Group("/participant")
		participant.Use(middleware.Auth(authService))
		participant.Use(middleware.RequireRole(authService, models.RoleParticipant))
		{
			participant.POST("/battles", battleHandler.CreateBattle)
			participant.POST("/battles/:id/tracks", battleHandler.CreateTrack)
			participant.POST("/tracks/:id/audio", battleHandler.UploadTrackAudio)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(authService))
		admin.Use(middleware.RequireRole(authService, models.RoleAdmin))
		{
			admin.GET("/stats", adminHandler.GetDashboardStats)
			admin.GET("/users", adminHandler.GetUsers)
			admin.PUT("/users/:id/role", adminHandler.UpdateUserRole)
			admin.POST("/genres", adminHandler.CreateGenre)
			admin.PUT("/battles/:id/status", adminHandler.UpdateBattleStatus)
			admin.PUT("/tracks/:id/rating", adminHandler.SetTrackRating)
			admin.PUT("/referrals/:id/status", adminHandler.UpdateReferralStatus)
			admin.GET("/settings", adminHandler.GetSettings)
			admin.POST("/settings", adminHandler.UpsertSettings)
			admin.GET("/leaderboard.pdf", adminHandler.DownloadLeaderboardPDF)
		}

		// Payment webhooks
		api.POST("/stripe/webhook", stripeHandler.HandleWebhook)
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  120 * time.Second, // 2 min for large audio uploads
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
