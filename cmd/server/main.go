package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/cache"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/catalog"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/config"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/repository"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/service"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/transport/rest"
)

func main() {
	log.Println("server started")
	ctx := context.Background()
	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Catalog
	cat, err := catalog.Load(cfg.CatalogVersion)
	if err != nil {
		log.Fatal("Failed to load catalog:", err)
	}
	log.Printf("Catalog %s loaded (%d questions)", cat.Version(), cat.Len())

	// Repositories and caches
	sessionRepo := repository.NewSessionRepo(db)
	if err := sessionRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to ensure indexes:", err)
	}
	sessionCache := cache.NewSessionCache(rdb, 5*time.Minute)
	eventQueue := cache.NewEventQueue(rdb, cfg.QueueName)

	// Services
	authSvc := service.NewAuthService(cfg.OperatorUsername, cfg.OperatorPassword, cfg.JWTSecret)

	// Create router with container
	container := &rest.Container{
		AuthService:  authSvc,
		SessionRepo:  sessionRepo,
		SessionCache: sessionCache,
		EventQueue:   eventQueue,
		Catalog:      cat,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/events")
		log.Println("  POST /v1/auth/login")
		log.Println("  GET  /v1/admin/sessions/{respondentId}")
		log.Println("  POST /v1/admin/sessions/{respondentId}/reset")
		log.Println("  POST /v1/admin/sessions/{respondentId}/goto")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
