package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pomodoro/tracker/internal/config"
	"pomodoro/tracker/internal/db"
	"pomodoro/tracker/internal/repository"
	"pomodoro/tracker/internal/service"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pomodoro",
	Short: "Pomodoro timer with points, a rewards shop and tags",
	Long: `pomodoro runs a work/break timer and rewards every completed work
session with points that can be spent in a small shop.

Run 'pomodoro serve' to start the timer and its HTTP API. The other
commands read and change the saved settings, tags, shop and theme directly
and should not be used while a server is running against the same data.`,
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("POMODORO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./pomodoro.yaml if present)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		statusCmd(),
		statsCmd(),
		historyCmd(),
		settingsCmd(),
		tagsCmd(),
		shopCmd(),
		themeCmd(),
	)
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, setupLogger(cfg.Logging), nil
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Logs go to stderr so command output on stdout stays clean.
	if cfg.Format == "text" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// openStore returns the configured record store and a function releasing
// it. The SQLite schema is migrated on open.
func openStore(cfg *config.Config, logger zerolog.Logger) (service.Store, func(), error) {
	switch cfg.Storage.Type {
	case config.StorageSQLite:
		database, err := db.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		applied, err := db.RunMigrations(database)
		if err != nil {
			_ = database.Close()
			return nil, nil, err
		}
		for _, name := range applied {
			logger.Info().Str("migration", name).Msg("Applied migration")
		}
		return repository.NewSQLiteStore(database), func() { _ = database.Close() }, nil
	default:
		return repository.NewFileStore(cfg.Storage.Path), func() {}, nil
	}
}

// withService builds the service over the configured store. Mutations
// save the record themselves.
func withService(ctx context.Context, fn func(context.Context, *service.PomodoroService) error) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	store, release, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer release()

	return fn(ctx, service.NewPomodoroService(ctx, store, nil, logger))
}

// saved turns a save warning on a mutation into an error; a CLI run has no
// later save that could recover it.
func saved(state service.StateView, err error) error {
	if err != nil {
		return err
	}
	if state.Warning != "" {
		return errors.New(state.Warning)
	}
	return nil
}

func withDatabase(fn func(*sql.DB) error) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Storage.Type != config.StorageSQLite {
		return fmt.Errorf("storage type %q has no database; set storage.type to %q", cfg.Storage.Type, config.StorageSQLite)
	}
	database, err := db.OpenSQLite(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer database.Close()
	return fn(database)
}

func jsonOutput() bool {
	return viper.GetBool("json")
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
