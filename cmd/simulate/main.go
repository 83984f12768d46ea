// Package main runs a headless AI-versus-AI skirmish: it generates a
// campaign map, lets two AI crews fight a boarding battle, optionally
// streams every event to websocket observers, and saves the resulting map.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/corsair/internal/config"
	"github.com/cory-johannsen/corsair/internal/feed"
	"github.com/cory-johannsen/corsair/internal/game/event"
	"github.com/cory-johannsen/corsair/internal/observability"
	"github.com/cory-johannsen/corsair/internal/server"
	"github.com/cory-johannsen/corsair/internal/storage"
	"github.com/cory-johannsen/corsair/internal/storage/postgres"
	"github.com/cory-johannsen/corsair/internal/storage/sqlite"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	seed := flag.Int64("seed", 0, "map and dice seed (0 = use config)")
	slot := flag.String("save", "", "save slot name (default skirmish-<seed>)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *seed != 0 {
		cfg.Map.Seed = *seed
	}
	if *slot == "" {
		*slot = fmt.Sprintf("skirmish-%d", cfg.Map.Seed)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("opening save store", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
	}

	bus := event.NewBus()
	lifecycle := server.NewLifecycle(logger)

	if cfg.Feed.Enabled {
		hub := feed.NewHub(cfg.Feed.Buffer, logger)
		detach := hub.Attach(bus)
		defer detach()
		srv, err := feed.Listen(cfg.Feed.Addr(), hub, logger)
		if err != nil {
			logger.Fatal("starting feed", zap.Error(err))
		}
		lifecycle.Add("feed", &server.FuncService{
			StartFn: func(context.Context) error { return srv.Serve() },
			StopFn: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(ctx); err != nil {
					logger.Warn("feed shutdown", zap.Error(err))
				}
			},
		})
	}

	run := skirmishRun{cfg: cfg, bus: bus, store: store, slot: *slot, logger: logger}
	lifecycle.AddJob("skirmish", &server.FuncService{
		StartFn: func(ctx context.Context) error {
			out, err := run.run(ctx)
			if err != nil {
				return err
			}
			report(out)
			return nil
		},
	})

	logger.Info("simulator initialized",
		zap.Int64("seed", cfg.Map.Seed),
		zap.String("saves", cfg.Saves.Backend),
		zap.Bool("feed", cfg.Feed.Enabled),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
}

// openStore returns the configured save backend, or nil for "none".
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Store, error) {
	switch cfg.Saves.Backend {
	case "postgres":
		dbStart := time.Now()
		s, err := postgres.Open(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
			zap.String("database", cfg.Database.Name),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		return s, nil
	case "sqlite":
		s, err := sqlite.Open(cfg.Saves.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, nil
	}
}

func report(out outcome) {
	fmt.Fprintf(os.Stdout, "result: %s after %d rounds\n", out.Result, out.Rounds)
	fmt.Fprintf(os.Stdout, "afloat: %s\n", strings.Join(out.Afloat, ", "))
	for _, line := range out.Log {
		fmt.Fprintf(os.Stdout, "  %s\n", line)
	}
	if out.Save != nil {
		fmt.Fprintf(os.Stdout, "saved %q (%s, %d bytes)\n", out.Save.Name, out.Save.ID, out.Save.Size)
	}
}
