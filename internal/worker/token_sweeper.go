package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/encenape/event-service/internal/clock"
	"github.com/encenape/event-service/internal/repository"
)

// TokenSweeper periodically deletes expired password reset tokens so the
// table does not grow without bound. Redeemed tokens are kept until they
// expire; sweeping is purely a hygiene task.
type TokenSweeper struct {
	resets   repository.PasswordResetRepository
	interval time.Duration
	clock    clock.Clock
	logger   *zap.Logger
}

// NewTokenSweeper constructs the sweeper.
func NewTokenSweeper(resets repository.PasswordResetRepository, interval time.Duration, clk clock.Clock, logger *zap.Logger) *TokenSweeper {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &TokenSweeper{resets: resets, interval: interval, clock: clk, logger: logger}
}

// Run sweeps once immediately and then on every tick until the context is
// canceled. It blocks; callers run it in a goroutine.
func (s *TokenSweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("token sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *TokenSweeper) sweep(ctx context.Context) {
	deleted, err := s.resets.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		s.logger.Warn("token sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.logger.Info("expired reset tokens removed", zap.Int64("count", deleted))
	}
}
