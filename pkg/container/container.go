package container

import (
	"context"
	"fmt"
	"time"

	"catalog-backend/internal/config"
	categoryHandler "catalog-backend/internal/domains/category/handler"
	categoryJob "catalog-backend/internal/domains/category/job"
	categoryRepo "catalog-backend/internal/domains/category/repository"
	categoryService "catalog-backend/internal/domains/category/service"
	infraCache "catalog-backend/internal/infrastructure/cache"
	"catalog-backend/internal/infrastructure/database"
	"catalog-backend/internal/infrastructure/export"
	"catalog-backend/internal/infrastructure/queue"
	"catalog-backend/internal/infrastructure/storage"
	"catalog-backend/pkg/cache"
	"catalog-backend/pkg/jwt"
	"catalog-backend/pkg/logger"
	"catalog-backend/pkg/metrics"

	"github.com/hibiken/asynq"
)

const metricsNamespace = "catalog"

// Container giữ toàn bộ dependency graph của app.
//
// Thứ tự init: Config → Infrastructure (DB, Redis, Queue, Storage) → Repositories → Services → Handlers
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient // nil khi REDIS_ENABLED=false
	Cache       cache.Cache
	AsynqClient *asynq.Client          // nil khi QUEUE_ENABLED=false
	Storage     *storage.MinIOStorage  // nil khi SNAPSHOT_ENABLED=false
	JWTManager  *jwt.Manager
	Metrics     *metrics.Collector

	// Repositories
	CategoryTx    categoryRepo.TxRunner
	CategoryQuery categoryRepo.CategoryQueryRepository

	// Services
	CategoryService categoryService.CategoryService

	// Handlers
	CategoryHandler         *categoryHandler.CategoryHandler
	SnapshotHandler         *categoryHandler.SnapshotHandler
	CategoryEventHandler    *categoryJob.CategoryEventHandler
	CategorySnapshotHandler *categoryJob.CategorySnapshotHandler // nil khi không có Storage
}

func NewContainer() (*Container, error) {
	c := &Container{}

	// ========== STEP 1: Config ==========
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment)

	// ========== STEP 2: Infrastructure ==========
	if err := c.initDatabase(); err != nil {
		c.Cleanup()
		return nil, err
	}
	c.initCache()
	c.initQueue()
	if err := c.initStorage(); err != nil {
		c.Cleanup()
		return nil, err
	}
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	c.Metrics = metrics.NewCollector(metricsNamespace)

	// ========== STEP 3: Layers ==========
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("container initialized", map[string]interface{}{
		"env":           cfg.App.Environment,
		"redis_enabled": c.Redis != nil,
		"queue_enabled": c.AsynqClient != nil,
		"snapshots":     c.Storage != nil,
		"max_depth":     cfg.Category.MaxDepth,
	})
	return c, nil
}

func (c *Container) initDatabase() error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	return nil
}

// initCache: Redis lỗi không chặn app khởi động, fallback sang in-memory
func (c *Container) initCache() {
	if !c.Config.Redis.Enabled {
		c.Cache = cache.NewMemoryCache()
		return
	}

	rc := infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rc.Connect(ctx); err != nil {
		logger.Error("redis unavailable, falling back to in-memory cache", err)
		_ = rc.Close()
		c.Cache = cache.NewMemoryCache()
		return
	}

	c.Redis = rc
	c.Cache = infraCache.NewRedisCache(rc.Client)
}

func (c *Container) initQueue() {
	if !c.Config.Queue.Enabled || c.Redis == nil {
		return
	}

	c.AsynqClient = asynq.NewClient(c.RedisClientOpt())
}

// initStorage: MinIO chỉ cần cho snapshot job, lỗi kết nối là lỗi khởi động
func (c *Container) initStorage() error {
	if !c.Config.Snapshot.Enabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := storage.NewMinIOStorage(ctx, c.Config.MinIO)
	if err != nil {
		return fmt.Errorf("failed to init minio storage: %w", err)
	}

	c.Storage = store
	return nil
}

// RedisClientOpt dùng chung cho asynq client (API) và asynq server (worker)
func (c *Container) RedisClientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
}

func (c *Container) initRepositories() {
	c.CategoryTx = categoryRepo.NewTxRunner(c.DB.Pool, c.Config.Category.TxTimeout)
	c.CategoryQuery = categoryRepo.NewPostgresQueryRepository(c.DB.Pool)
}

func (c *Container) initServices() {
	var publisher categoryService.EventPublisher = queue.NoopPublisher{}
	if c.AsynqClient != nil {
		publisher = queue.NewAsynqPublisher(c.AsynqClient)
	}

	c.CategoryService = categoryService.NewCategoryService(
		categoryService.Deps{
			Tx:        c.CategoryTx,
			Query:     c.CategoryQuery,
			Cache:     c.Cache,
			Publisher: publisher,
			Exporter:  export.NewXLSXExporter(),
			Metrics:   c.Metrics,
		},
		categoryService.Config{
			MaxDepth:     c.Config.Category.MaxDepth,
			TreeCacheTTL: c.Config.Category.TreeCacheTTL,
		},
	)
}

func (c *Container) initHandlers() {
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.CategoryEventHandler = categoryJob.NewCategoryEventHandler(c.Cache)

	// Không truyền *MinIOStorage nil vào interface
	c.SnapshotHandler = categoryHandler.NewSnapshotHandler(nil)
	if c.Storage != nil {
		c.SnapshotHandler = categoryHandler.NewSnapshotHandler(c.Storage)
		c.CategorySnapshotHandler = categoryJob.NewCategorySnapshotHandler(c.CategoryService, c.Storage, c.Config.Snapshot.Retention)
	}
}

// Migrate chạy goose migrations (API gọi khi DB_AUTO_MIGRATE=true)
func (c *Container) Migrate(ctx context.Context) error {
	return database.Migrate(ctx, c.DB.Pool)
}

// HealthCheck: DB bắt buộc, Redis chỉ check khi đang dùng
func (c *Container) HealthCheck(ctx context.Context) map[string]string {
	status := map[string]string{"database": "ok"}

	if err := c.DB.HealthCheck(ctx); err != nil {
		status["database"] = err.Error()
	}

	if c.Redis != nil {
		status["redis"] = "ok"
		if err := c.Redis.HealthCheck(ctx); err != nil {
			status["redis"] = err.Error()
		}
	} else {
		status["redis"] = "disabled"
	}

	if c.Storage != nil {
		status["storage"] = "ok"
		if err := c.Storage.HealthCheck(ctx); err != nil {
			status["storage"] = err.Error()
		}
	}

	return status
}

func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("failed to close asynq client", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}
}
