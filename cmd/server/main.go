package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/magefree/realms-server-go/internal/config"
	"github.com/magefree/realms-server-go/internal/game"
	"github.com/magefree/realms-server-go/internal/server"
	"github.com/magefree/realms-server-go/internal/table"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting realms server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("realms server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	engine := game.NewEngine(logger)
	var recorder *game.ReplayRecorder
	if cfg.Replay.Enabled {
		if err := os.MkdirAll(cfg.Replay.Directory, 0o755); err != nil {
			return fmt.Errorf("failed to create replay directory: %w", err)
		}
		recorder = game.NewReplayRecorder(logger, cfg.Replay.Directory)
		engine.SetReplayRecorder(recorder)
		logger.Info("replay recording enabled", zap.String("directory", cfg.Replay.Directory))
	}

	tables := table.NewManager(engine, table.Options{
		Setup:        cfg.Game.Setup,
		Seed:         cfg.Game.Seed,
		MinPlayers:   cfg.Game.MinPlayers,
		MaxPlayers:   cfg.Game.MaxPlayers,
		ViewerBuffer: cfg.Server.ViewerBuffer,
	}, logger)
	logger.Info("table manager initialized",
		zap.String("setup", cfg.Game.Setup),
		zap.Int("min_players", cfg.Game.MinPlayers),
		zap.Int("max_players", cfg.Game.MaxPlayers),
	)

	srv := server.NewServer(tables, server.Options{
		ActionTimeout: cfg.Server.ActionTimeout,
		Replays:       recorder,
	}, logger)
	httpServer := &http.Server{
		Addr:              cfg.Server.WebSocketAddress,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	health := server.NewHealth(logger)
	lis, err := net.Listen("tcp", cfg.Server.HealthAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.HealthAddress, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("websocket server listening",
			zap.String("address", httpServer.Addr),
			zap.Duration("action_timeout", cfg.Server.ActionTimeout),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("websocket server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return health.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down gracefully...")

		health.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		for _, snap := range tables.GetAllTables() {
			if rmErr := tables.RemoveTable(snap.ID); rmErr != nil {
				logger.Warn("failed to remove table", zap.String("table_id", snap.ID), zap.Error(rmErr))
			}
		}
		return err
	})

	return g.Wait()
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
