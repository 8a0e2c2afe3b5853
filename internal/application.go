package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-peer/internal/config"
	"github.com/rocketscienceinc/tictactoe-peer/internal/peer"
	"github.com/rocketscienceinc/tictactoe-peer/internal/repository"
	"github.com/rocketscienceinc/tictactoe-peer/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-peer/internal/scheduler"
	"github.com/rocketscienceinc/tictactoe-peer/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-peer/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-peer/transport/rest"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	results, closeResults, err := newResultRepository(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeResults()

	peerClient := peer.New(logger, conf.OpponentURL, conf.Peer.Timeout, conf.Peer.MaxRetries)
	gameManager := usecase.NewGameManager(logger, tictactoe.NewEngine(), peerClient, results)

	if conf.AutoPlayer.Disabled {
		log.Info("Auto player disabled, only answering the opponent")
	} else {
		autoPlayer := scheduler.NewAutoPlayer(logger, gameManager, conf.AutoPlayer.Interval)
		go autoPlayer.Run(ctx)
	}

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "own_url", conf.OwnURL, "opponent_url", conf.OpponentURL)

	if err = rest.New(logger, conf.HTTPPort, gameManager).Start(ctx); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

func newResultRepository(ctx context.Context, logger *slog.Logger, conf *config.Config) (repository.ResultRepository, func(), error) {
	log := logger.With("component", "app")

	if !conf.Redis.Enabled {
		log.Info("Redis disabled, keeping results in memory")
		return repository.NewMemoryResultRepository(), func() {}, nil
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeFn := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewResultRepository(redisStorage.Connection), closeFn, nil
}
