// Package server parses server flags and launches the HTTP API service.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/camposanto/camposanto/internal/burial"
	"github.com/camposanto/camposanto/internal/cemetery"
	"github.com/camposanto/camposanto/internal/deceased"
	"github.com/camposanto/camposanto/internal/directory"
	"github.com/camposanto/camposanto/internal/httpapi"
	"github.com/camposanto/camposanto/internal/platform/config"
	"github.com/camposanto/camposanto/internal/platform/otel"
	"github.com/camposanto/camposanto/internal/platform/timeouts"
	"github.com/camposanto/camposanto/internal/platform/token"
	"github.com/camposanto/camposanto/internal/storage/sqlite"
)

// Config holds server command configuration.
type Config struct {
	Port   int    `env:"CAMPOSANTO_PORT" envDefault:"8080"`
	DBPath string `env:"CAMPOSANTO_DB_PATH" envDefault:"camposanto.db"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The HTTP API server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database file")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the HTTP API service and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	shutdownTracing, err := otel.Setup(ctx, "camposanto-server")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	tokens, err := token.NewManagerFromEnv()
	if err != nil {
		return fmt.Errorf("session tokens: %w", err)
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close database: %v", err)
		}
	}()

	api := httpapi.NewServer(
		tokens,
		directory.NewService(store),
		cemetery.NewService(store),
		burial.NewService(store),
		deceased.NewService(store),
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.Handler(),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return <-serveErr
}
