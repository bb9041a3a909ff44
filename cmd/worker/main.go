package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/audio"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/cache"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/catalog"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/config"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/repository"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/service"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/transcribe"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/worker"
)

func main() {
	log.Println("worker started")
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
	eventQueue := cache.NewEventQueue(rdb, cfg.QueueName)
	respondentLock := cache.NewRespondentLock(rdb, cfg.LockTTL)
	dedupeGuard := cache.NewDedupeGuard(rdb, 24*time.Hour)
	sessionCache := cache.NewSessionCache(rdb, 5*time.Minute)

	// Outbound delivery
	var deliverer service.Deliverer = service.NewWhatsAppService(cfg.WhatsApp)
	if !cfg.WhatsApp.IsEnabled() {
		log.Println("Warning: WhatsApp credentials not set, outbound messages will be logged only")
		deliverer = service.LogDeliverer{}
	}

	// Completion analysis
	gemini := service.NewGeminiClient(cfg.AI)
	if cfg.AI.IsEnabled() {
		log.Printf("Gemini model: %s", cfg.AI.Model)
	} else {
		log.Println("Warning: GEMINI_API_KEY not set, completed surveys keep default analysis")
	}
	analyzerSvc := service.NewAnalyzerService(sessionRepo, gemini)

	// Step engine
	surveySvc := service.NewSurveyService(sessionRepo, cat, deliverer, analyzerSvc)
	surveySvc.SetDedupeGuard(dedupeGuard)
	surveySvc.SetSessionCache(sessionCache)

	// Voice note pipeline
	mediaFetcher := transcribe.NewGraphMediaFetcher(cfg.WhatsApp.BaseURL, cfg.WhatsApp.APIToken, cfg.WhatsApp.Timeout)
	processor := audio.NewProcessor(
		getEnv("FFMPEG_PATH", "ffmpeg"),
		getEnv("FFPROBE_PATH", "ffprobe"),
		os.TempDir(),
	)
	stt := transcribe.NewHTTPTranscriber(cfg.STT.URL, cfg.STT.Timeout)
	surveySvc.SetAudioPipeline(mediaFetcher, processor, stt)

	// Events left on the processing list by a previous run go back on the
	// queue before the pool starts consuming.
	if moved, err := eventQueue.Recover(ctx); err != nil {
		log.Printf("Queue recovery failed: %v", err)
	} else if moved > 0 {
		log.Printf("Requeued %d in-flight events from previous run", moved)
	}

	pool := worker.NewPool(eventQueue, respondentLock, surveySvc, cfg.WorkerCount)

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		pool.Run(runCtx)
		close(done)
	}()
	log.Printf("Worker pool running (%d workers, queue %s)", cfg.WorkerCount, cfg.QueueName)

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down worker...")

	stop()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		log.Println("Worker forced to shutdown")
	}

	log.Println("Worker exited")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
