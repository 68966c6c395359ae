// Package cmd contains the runbook CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/runbook/builtinworkflows"
	"github.com/zjrosen/runbook/internal/assistant"
	"github.com/zjrosen/runbook/internal/catalog"
	"github.com/zjrosen/runbook/internal/config"
	"github.com/zjrosen/runbook/internal/log"
	"github.com/zjrosen/runbook/internal/telemetry"
	"github.com/zjrosen/runbook/internal/ui"
	"github.com/zjrosen/runbook/internal/ui/chat"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "runbook",
	Short: "Conversational runner for operational workflows",
	Long: `Runbook drives predefined operational playbooks through a chat interface:
start a run, complete steps, capture notes, check progress, and export a
summary when you're done.`,
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: <user config dir>/runbook/config.yaml)")
	rootCmd.PersistentFlags().String("catalog-dir", "", "directory with user workflow YAML files")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("catalog_dir", rootCmd.PersistentFlags().Lookup("catalog-dir"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// loadConfig layers defaults, the config file, environment, and flags.
func loadConfig() (config.Config, error) {
	defaults := config.Default()
	viper.SetDefault("catalog_dir", defaults.CatalogDir)
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("auto_reload_debounce", defaults.AutoReloadDebounce)
	viper.SetDefault("history_cap", defaults.HistoryCap)
	viper.SetDefault("log_level", defaults.LogLevel)
	viper.SetDefault("ui.show_history", defaults.UI.ShowHistory)
	viper.SetDefault("ui.show_quick_actions", defaults.UI.ShowQuickActions)
	viper.SetDefault("telemetry.exporter", defaults.Telemetry.Exporter)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if dir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(dir, "runbook"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("RUNBOOK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return config.Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadCatalog builds the catalog from embedded built-ins plus the user
// directory. User definitions override built-ins with the same id.
func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	builtins, err := catalog.LoadFS(builtinworkflows.FS(), catalog.SourceBuiltIn)
	if err != nil {
		return nil, fmt.Errorf("loading built-in workflows: %w", err)
	}
	users := catalog.LoadDir(cfg.CatalogDir)
	return catalog.New(append(builtins, users...)...)
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cleanup, err := log.Init(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	shutdown, err := telemetry.Init(ctx, cfg.Telemetry, traceWriter(cfg))
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(ctx) }()

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	log.Info(log.CatConfig, "starting runbook", "workflows", cat.Len(), "catalog_dir", cfg.CatalogDir)

	zone.NewGlobal()
	model := chat.New(chat.Config{
		Interpreter:      assistant.New(cat),
		HistoryCap:       cfg.HistoryCap,
		ShowHistory:      cfg.UI.ShowHistory,
		ShowQuickActions: cfg.UI.ShowQuickActions,
	})
	program := tea.NewProgram(ui.NewApp(model), tea.WithAltScreen(), tea.WithMouseCellMotion())

	if cfg.AutoReload && cfg.CatalogDir != "" {
		watcher, err := catalog.Watch(cfg.CatalogDir, cfg.AutoReloadDebounce, func() {
			reloaded, err := loadCatalog(cfg)
			if err != nil {
				log.Warn(log.CatCatalog, "reloading catalog", "error", err.Error())
				return
			}
			program.Send(chat.CatalogReloadedMsg{Catalog: reloaded})
		})
		if err != nil {
			log.Warn(log.CatCatalog, "starting catalog watcher", "error", err.Error())
		} else {
			defer func() { _ = watcher.Close() }()
		}
	}

	_, err = program.Run()
	return err
}

// traceWriter returns the destination for stdout-exported spans. The TUI owns
// the terminal, so spans land in a file next to the log.
func traceWriter(cfg config.Config) io.Writer {
	if cfg.Telemetry.Exporter != "stdout" {
		return io.Discard
	}
	path := cfg.LogFile
	if path == "" {
		path = log.DefaultPath()
	}
	path = filepath.Join(filepath.Dir(path), "traces.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Warn(log.CatConfig, "opening trace file", "error", err.Error())
		return io.Discard
	}
	return f
}
