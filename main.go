package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/example/todo-sync/config"
	"github.com/example/todo-sync/modules/access"
	"github.com/example/todo-sync/modules/api"
	"github.com/example/todo-sync/modules/notification"
	"github.com/example/todo-sync/modules/store"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("=== %s (%s) ===", cfg.App.Name, cfg.App.Env)
	log.Printf("HTTP Port: %d", cfg.HTTP.Port)
	log.Printf("Database: %s", cfg.Store.DBPath)

	shutdownTimeout := cfg.App.ShutdownTimeout.Duration()

	// Only error is quieter than the framework default.
	level := mono.LogLevelInfo
	if strings.EqualFold(cfg.App.LogLevel, "error") {
		level = mono.LogLevelError
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(level),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	logger := app.Logger()

	// Independent modules first, then the ones that depend on them.
	app.Register(access.NewModule(cfg.Access.Tokens, logger))
	app.Register(notification.NewModule(logger))
	app.Register(store.NewModule(store.Config{
		DBPath:        cfg.Store.DBPath,
		Debug:         cfg.Store.Debug,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		CacheTTL:      cfg.Redis.TTL.Duration(),
	}, logger))
	app.Register(api.NewModule(api.Config{
		Port:         cfg.HTTP.Port,
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
	}, logger))

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	log.Printf("Task API listening on http://localhost:%d/api/v1/tasks", cfg.HTTP.Port)
	if len(cfg.Access.Tokens) == 0 {
		log.Println("ACCESS_TOKENS is empty: the API accepts unauthenticated requests")
	}

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// loadConfig reads CONFIG_FILE when set, otherwise the environment alone.
func loadConfig() (config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
