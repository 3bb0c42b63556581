package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/todo-sync/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds the storage settings of the store module.
type Config struct {
	DBPath string
	Debug  bool

	// RedisAddr enables the list cache when non-empty.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
}

// StoreModule owns the durable task list and serves it over request-reply.
type StoreModule struct {
	cfg      Config
	logger   types.Logger
	now      func() time.Time
	db       *gorm.DB
	repo     *Repository
	cache    *ListCache
	eventBus mono.EventBus
	loads    singleflight.Group
}

var _ mono.Module = (*StoreModule)(nil)
var _ mono.ServiceProviderModule = (*StoreModule)(nil)
var _ mono.EventEmitterModule = (*StoreModule)(nil)
var _ mono.HealthCheckableModule = (*StoreModule)(nil)

func NewModule(cfg Config, logger types.Logger) *StoreModule {
	if cfg.DBPath == "" {
		cfg.DBPath = "tasks.db"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	return &StoreModule{
		cfg:    cfg,
		logger: logger.WithModule("store"),
		now:    time.Now,
	}
}

func (m *StoreModule) Name() string {
	return "store"
}

func (m *StoreModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *StoreModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskCompletedV1.ToBase(),
		events.TaskReworkedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

func (m *StoreModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceListTasks, json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListTasks, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceCreateTask, json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceCreateTask, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceUpdateTask, json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceUpdateTask, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceDeleteTask, json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceDeleteTask, err)
	}

	m.logger.Info("registered services", "services", []string{
		ServiceListTasks, ServiceCreateTask, ServiceUpdateTask, ServiceDeleteTask,
	})
	return nil
}

// Start opens the database, runs the migration and connects the optional cache.
func (m *StoreModule) Start(ctx context.Context) error {
	logLevel := logger.Silent
	if m.cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.cfg.DBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := m.useDB(db); err != nil {
		return err
	}

	if m.cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:         m.cfg.RedisAddr,
			Password:     m.cfg.RedisPassword,
			DB:           m.cfg.RedisDB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			m.logger.Warn("redis unavailable, serving lists without cache", "addr", m.cfg.RedisAddr, "error", err)
			_ = client.Close()
		} else {
			m.cache = NewListCache(client, "tasks:", m.cfg.CacheTTL)
			m.logger.Info("list cache enabled", "addr", m.cfg.RedisAddr, "ttl", m.cfg.CacheTTL)
		}
	}

	m.logger.Info("module started", "db", m.cfg.DBPath)
	return nil
}

// useDB wires an opened database into the module.
func (m *StoreModule) useDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// SQLite allows a single writer.
	sqlDB.SetMaxOpenConns(1)

	repo := NewRepository(db)
	if err := repo.Migrate(); err != nil {
		return err
	}
	m.db = db
	m.repo = repo
	return nil
}

// Stop closes the cache and the database connection.
func (m *StoreModule) Stop(_ context.Context) error {
	if m.cache != nil {
		if err := m.cache.Close(); err != nil {
			m.logger.Warn("error closing redis connection", "error", err)
		}
	}
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	m.logger.Info("module stopped")
	return nil
}

// Health pings the database and, when enabled, the cache.
func (m *StoreModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{Healthy: false, Message: "database not initialized"}
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("failed to get sql.DB: %v", err)}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("database ping failed: %v", err)}
	}

	details := map[string]any{
		"driver": "sqlite",
		"path":   m.cfg.DBPath,
		"cache":  m.cache != nil,
	}
	if m.cache != nil {
		if err := m.cache.Ping(ctx); err != nil {
			details["cache_error"] = err.Error()
		}
		details["cache_stats"] = m.cache.Stats()
	}
	return mono.HealthStatus{Healthy: true, Message: "operational", Details: details}
}
