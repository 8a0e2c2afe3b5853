package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-peer/internal/entity"
)

type mover interface {
	AutoMove(ctx context.Context) (*entity.Move, error)
}

// AutoPlayer calls the mover with a fixed delay between the end of one call and the start of the next.
type AutoPlayer struct {
	logger   *slog.Logger
	mover    mover
	interval time.Duration
}

func NewAutoPlayer(logger *slog.Logger, mover mover, interval time.Duration) *AutoPlayer {
	return &AutoPlayer{
		logger:   logger.With("component", "auto_player"),
		mover:    mover,
		interval: interval,
	}
}

// Run - blocks until ctx is canceled.
func (that *AutoPlayer) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")
	log.Info("auto player started", "interval", that.interval)

	timer := time.NewTimer(that.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("auto player stopped")
			return
		case <-timer.C:
		}

		if _, err := that.mover.AutoMove(ctx); err != nil {
			log.Error("auto move failed", "error", err)
		}

		timer.Reset(that.interval)
	}
}
