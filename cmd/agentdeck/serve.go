package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/agentdeck/internal/config"
	"github.com/aretw0/agentdeck/pkg/adapters/file"
	deckhttp "github.com/aretw0/agentdeck/pkg/adapters/http"
	"github.com/aretw0/agentdeck/pkg/adapters/memory"
	"github.com/aretw0/agentdeck/pkg/adapters/postgres"
	"github.com/aretw0/agentdeck/pkg/adapters/redis"
	"github.com/aretw0/agentdeck/pkg/executor"
	"github.com/aretw0/agentdeck/pkg/ports"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reference agent backend",
	Long: `Starts a local agent backend exposing the JSON API the console consumes:
GET/POST /agents, POST /agents/{id}/execute, GET /components, GET /health and GET /metrics.

Agents are stored according to AGENTDECK_STORE (file, memory, redis, postgres).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		api := deckhttp.NewServer(store, executor.NewPlanner(executor.WithLogger(logger)),
			deckhttp.WithLogger(logger),
			deckhttp.WithCatalog(deckhttp.DefaultCatalog(cfg.Models)),
		)
		srv := &http.Server{
			Addr:              addr,
			Handler:           api.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("agent backend listening", "address", addr, "store", cfg.Store)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			logger.Info("shutting down agent backend")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("graceful shutdown did not complete: %w", err)
			}
			return nil
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default $AGENTDECK_ADDR or :8000)")
}

// openStore returns the configured agent store and its release function.
func openStore(ctx context.Context, c config.Config) (ports.AgentStore, func(), error) {
	noop := func() {}
	switch c.Store {
	case config.StoreMemory:
		return memory.NewStore(), noop, nil
	case config.StoreFile:
		return file.New(c.DataDir), noop, nil
	case config.StoreRedis:
		store, err := redis.NewFromURL(c.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open redis store: %w", err)
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("failed to reach redis: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	case config.StorePostgres:
		store, err := postgres.Connect(ctx, c.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		if err := store.CreateSchema(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("failed to create schema: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown store %q", config.ErrInvalid, c.Store)
	}
}
