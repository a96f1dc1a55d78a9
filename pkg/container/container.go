package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"trailguide-backend/internal/config"
	infraCache "trailguide-backend/internal/infrastructure/cache"
	"trailguide-backend/internal/infrastructure/database"
	"trailguide-backend/internal/notification"
	"trailguide-backend/pkg/cache"
	"trailguide-backend/pkg/jwt"

	bookingRepo "trailguide-backend/internal/domains/booking/repository"
	reviewHandler "trailguide-backend/internal/domains/review/handler"
	reviewRepo "trailguide-backend/internal/domains/review/repository"
	reviewService "trailguide-backend/internal/domains/review/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the application and is the root
// of the dependency graph.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	// Shared singletons, one instance for the app lifetime

	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================

	BookingRepo bookingRepo.BookingRepository
	ReviewRepo  reviewRepo.ReviewRepository

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================

	Dispatcher    notification.Dispatcher
	ReviewService reviewService.ReviewService

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================

	ReviewHandler *reviewHandler.ReviewHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer creates and initializes the whole dependency graph.
// Initialization order matters: config, then infrastructure, then
// repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	// Connect is not part of the cache.Cache interface
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			// Redis failure is non-critical: statistics fall back to the
			// database on every read
			log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}

	c.Cache = redisCache
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// ========================================
	// STEP 4: INITIALIZE QUEUE CLIENT
	// ========================================
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// ========================================
	// STEP 5: INITIALIZE REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")

	c.BookingRepo = bookingRepo.NewPostgresBookingRepository(c.DB.Pool)
	c.ReviewRepo = reviewRepo.NewPostgresReviewRepository(c.DB.Pool)
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 6: INITIALIZE SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")

	c.Dispatcher = notification.NewAsynqDispatcher(c.AsynqClient)
	c.ReviewService = reviewService.NewReviewService(
		c.ReviewRepo,
		c.BookingRepo,
		c.Dispatcher,
		c.Cache,
		cfg.Review.AvailabilityDelay,
		cfg.Review.ExpiryWindow,
		cfg.Review.StatsCacheTTL,
	)
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 7: INITIALIZE HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")

	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// Cleanup releases container resources on shutdown.
// Called from the graceful shutdown path of both binaries.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close task queue client: %v", err)
		} else {
			log.Println("✅ Task queue client closed")
		}
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("⚠️  Failed to close Redis connection: %v", err)
			} else {
				log.Println("✅ Redis connection closed")
			}
		}
	}

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		log.Println("✅ Database connections closed")
	}
}
