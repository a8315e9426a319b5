package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"specforge/internal/config"
	"specforge/internal/features/briefs/application"
	"specforge/internal/features/briefs/infrastructure"
	briefs_http "specforge/internal/features/briefs/presentation/http"
	configapp "specforge/internal/features/config/application"
	config_http "specforge/internal/features/config/presentation/http"
	health_http "specforge/internal/features/health/presentation/http"
	"specforge/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := infrastructure.OpenDatabase(infrastructure.DatabaseConfig{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		DSN:    cfg.Database.DSN,
		Debug:  !cfg.IsProduction(),
	})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database handle: %v", err)
	}
	defer sqlDB.Close()

	// Initialize AI client
	aiClient, err := infrastructure.NewOpenAIClient(infrastructure.AIConfig{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		BaseURL:  cfg.AI.BaseURL,
		Model:    cfg.AI.Model,
	}, cfg.AI.Timeout)
	if err != nil {
		log.Fatalf("Failed to create AI client: %v", err)
	}
	defer aiClient.Close()

	var listCache infrastructure.BriefListCache
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Printf("[WARN] Redis unavailable at %s, list cache disabled: %v", cfg.Redis.Addr, err)
		} else {
			listCache = infrastructure.NewRedisBriefListCache(redisClient, cfg.Redis.ListTTL)
			log.Printf("Brief list cache enabled (redis=%s ttl=%s)", cfg.Redis.Addr, cfg.Redis.ListTTL)
		}
		cancel()
	}

	// Initialize services
	briefService := application.NewBriefService(aiClient, infrastructure.NewBriefRepository(db), listCache)
	configService := configapp.NewConfigService(config.NewAppConfigService(cfg.App.SettingsPath))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.CORSOrigins,
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	api := r.Group("/api")
	health_http.NewHealthHandler(cfg.App.ServiceName, cfg.App.Version, sqlDB).RegisterRoutes(api)
	briefs_http.NewBriefHandler(briefService, configService).RegisterRoutes(api.Group("/briefs"))
	config_http.NewAppConfigHandler(configService).RegisterRoutes(api.Group("/config"))

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("%s %s listening on :%s (env=%s, ai=%s, db=%s)",
			cfg.App.ServiceName, cfg.App.Version, cfg.Server.Port, cfg.App.Environment, cfg.AI.Provider, cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] Server forced to shutdown: %v", err)
	}
}
