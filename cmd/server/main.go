package main

import (
	"context"
	"log"
	"strings"
	"time"

	"anoa.com/fitmentor/internal/agent"
	"anoa.com/fitmentor/internal/bootstrap"
	"anoa.com/fitmentor/internal/config"
	"anoa.com/fitmentor/internal/handler"
	"anoa.com/fitmentor/internal/middleware"
	"anoa.com/fitmentor/internal/model"
	"anoa.com/fitmentor/internal/repository"
	"anoa.com/fitmentor/internal/service"
	"anoa.com/fitmentor/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	if err := bootstrap.SeedAchievementCatalog(db); err != nil {
		log.Fatalf("failed to seed achievement catalog: %v", err)
	}
	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	// Redis is optional: without it the exhausted-flag fast path and the
	// generation rate limit fall back to DB-only behavior.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("⚠️ redis unreachable, continuing without it: %v", err)
			redisClient = nil
		}
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	planSearch := service.NewPlanSearchService(meiliClient)

	llm, err := agent.NewLLMClient(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("failed to initialize LLM client: %v", err)
	}
	defer llm.Close()

	userRepo := repository.NewUserRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	planRepo := repository.NewPlanRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	checkinRepo := repository.NewCheckinRepository(db)

	achievementService := service.NewAchievementService(achievementRepo)
	creditService := service.NewCreditService(creditRepo, redisClient)
	planService := service.NewPlanService(planRepo, llm, planSearch)
	coachService := service.NewCoachService(db, llm, llm, planService, creditService, redisClient, cfg.RateLimitGenerate)
	checkinService := service.NewCheckinService(checkinRepo, achievementService, cfg.WeeklyCheckinGoal)
	authService := service.NewAuthService(userRepo, creditRepo, achievementService, cfg.JWTSecret)

	authHandler := handler.NewAuthHandler(authService)
	creditHandler := handler.NewCreditHandler(creditService)
	planHandler := handler.NewPlanHandler(planService, coachService)
	achievementHandler := handler.NewAchievementHandler(achievementService)
	checkinHandler := handler.NewCheckinHandler(checkinService)
	assessmentHandler := handler.NewAssessmentHandler(coachService)

	router := gin.New()
	setupCORS(router, cfg.AllowedOrigins)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/users", authHandler.CreateUser)

		userAdmin := protected.Group("/users")
		userAdmin.Use(authMiddleware.RequireRole(model.RoleAdmin))
		{
			userAdmin.GET("", authHandler.ListUsers)
		}

		// Credit routes
		protected.POST("/credits/debit", creditHandler.Debit)
		protected.GET("/credits/history/:actorId", creditHandler.History)
		protected.GET("/credits/balance/:actorId", creditHandler.Balance)

		creditAdmin := protected.Group("/credits")
		creditAdmin.Use(authMiddleware.RequireRole(model.RoleManager, model.RoleAdmin))
		{
			creditAdmin.POST("/credit", creditHandler.Credit)
		}

		// Plan routes
		protected.POST("/plans", planHandler.CreatePlan)
		protected.POST("/plans/generate", planHandler.GeneratePlan)
		protected.GET("/plans", planHandler.ListPlans)
		protected.GET("/plans/:id", planHandler.GetPlan)
		protected.POST("/plans/:id/revise", planHandler.RevisePlan)
		protected.DELETE("/plans/:id", planHandler.DeletePlan)

		// Assessment routes
		protected.POST("/assessments", assessmentHandler.PerformAssessment)

		// Achievement routes
		protected.GET("/achievements/:actorId/progress", achievementHandler.GetProgress)
		protected.POST("/actions", achievementHandler.RecordAction)

		// Check-in routes
		protected.POST("/checkins", checkinHandler.CreateCheckin)
		protected.GET("/checkins/:actorId/week", checkinHandler.GetWeek)
		protected.GET("/checkins/:actorId/streak", checkinHandler.GetStreak)
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := strings.Split(allowedOrigins, ",")

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
