package main

import (
	"context"
	"fmt"
	"os"

	"github.com/example/todo-sync/config"
	"github.com/example/todo-sync/modules/remote"
	"github.com/example/todo-sync/modules/tasksync"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/spf13/cobra"
)

// cli holds the persistent flags shared by every command.
type cli struct {
	configPath string
	baseURL    string
	token      string
	output     string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "taskctl",
		Short:         "Manage a remote task list from the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "YAML config file (environment variables still override it)")
	flags.StringVar(&c.baseURL, "base-url", "", "Task list host, overrides TASKS_BASE_URL")
	flags.StringVar(&c.token, "token", "", "Bearer token, overrides TASKS_TOKEN")
	flags.StringVarP(&c.output, "output", "o", "table", "Output format (table, json, yaml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Log remote requests to stderr")

	rootCmd.AddCommand(c.listCmd())
	rootCmd.AddCommand(c.addCmd())
	rootCmd.AddCommand(c.completeCmd())
	rootCmd.AddCommand(c.reworkCmd())
	rootCmd.AddCommand(c.editCmd())
	rootCmd.AddCommand(c.deleteCmd())
	rootCmd.AddCommand(c.mcpCmd())
	rootCmd.AddCommand(envCmd())

	return rootCmd
}

func (c *cli) loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return config.Config{}, err
	}
	if c.baseURL != "" {
		cfg.Remote.BaseURL = c.baseURL
	}
	if c.token != "" {
		cfg.Remote.Token = c.token
	}
	return cfg, nil
}

func (c *cli) logger(cfg config.Config) types.Logger {
	level := cfg.App.LogLevel
	if c.verbose {
		level = "debug"
	}
	return newLogger(os.Stderr, level)
}

// engine builds an engine over the configured host and loads the list.
func (c *cli) engine(ctx context.Context) (*tasksync.Engine, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := c.logger(cfg)

	client, err := remote.NewClient(
		remote.HostContext{BaseURL: cfg.Remote.BaseURL, Token: cfg.Remote.Token},
		remote.WithTimeout(cfg.Remote.Timeout.Duration()),
		remote.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	engine := tasksync.NewEngine(client, tasksync.WithLogger(logger))
	if err := engine.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("load tasks from %s: %w", cfg.Remote.BaseURL, err)
	}
	return engine, nil
}
