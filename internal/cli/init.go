// Package cli provides the goldvault subcommands and the bootstrap they
// share: environment loading, logging, configuration and opening the vault.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"goldvault/internal/amqp"
	"goldvault/internal/backend"
	"goldvault/internal/config"
	"goldvault/internal/log"
	"goldvault/internal/services"
	"goldvault/internal/storage"
)

// SetupLogger initializes structured logging at the given level on stderr.
// Returns the configured logger and sets it as the default logger.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	if l, err := log.ParseLevel(level); err == nil {
		cfg.Level = l
	}
	cfg.Component = log.ComponentCLI
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Session is an opened vault together with what was used to open it.
type Session struct {
	Config   *config.Config
	Logger   *log.Logger
	Vault    *services.Vault
	Location *time.Location
}

// Close releases the vault, its publisher and its store.
func (s *Session) Close() {
	if err := s.Vault.Close(); err != nil {
		s.Logger.Warn("Failed to close vault", log.FieldError, err)
	}
}

// Open runs the whole bootstrap and returns a loaded vault.
func Open(ctx context.Context) (*Session, error) {
	LoadEnvFile()
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return nil, err
	}
	logger := SetupLogger(cfg.LogLevel)
	cal, err := cfg.Calendar()
	if err != nil {
		return nil, err
	}
	v, err := OpenVault(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Session{Config: cfg, Logger: logger, Vault: v, Location: cal.Location}, nil
}

// OpenVault creates the configured store, connects the change publisher when
// AMQP is enabled and loads every collection. A broker that cannot be reached
// only disables notifications. wrap, if given, decorates the store.
func OpenVault(ctx context.Context, cfg *config.Config, logger *log.Logger, wrap ...func(storage.Store) storage.Store) (*services.Vault, error) {
	cal, err := cfg.Calendar()
	if err != nil {
		return nil, err
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateStore(ctx, backendCfg)
	if err != nil {
		return nil, err
	}

	store := res.Store
	for _, w := range wrap {
		store = w(store)
	}

	opts := services.Options{
		Logger:   logger,
		Calendar: cal,
		Strict:   cfg.StrictValidation,
	}
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.WarnContext(ctx, "Change notifications disabled: broker unavailable", log.FieldError, err)
		} else {
			opts.Publisher = client
		}
	}

	v := services.NewVault(store, opts)
	if err := v.Load(ctx); err != nil {
		v.Close()
		return nil, fmt.Errorf("load vault: %w", err)
	}
	return v, nil
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. cleanup
// runs once the signal arrives, bounded by timeout.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()

		if cleanup == nil {
			return
		}
		finished := make(chan struct{})
		go func() {
			cleanup()
			close(finished)
		}()
		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-time.After(timeout):
			logger.Warn("Shutdown timeout reached")
		}
	}()

	return ctx, done
}
