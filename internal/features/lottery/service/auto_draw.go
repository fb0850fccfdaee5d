package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"hunting-reserve-backend/internal/common/logger"
)

const autoDrawTimeout = 30 * time.Second

// AutoDrawWorker periodically draws lotteries whose draw date has passed.
type AutoDrawWorker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	service  LotteryService
	interval time.Duration
	wg       sync.WaitGroup
	log      zerolog.Logger
}

func NewAutoDrawWorker(service LotteryService, interval time.Duration) *AutoDrawWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AutoDrawWorker{
		ctx:      ctx,
		cancel:   cancel,
		service:  service,
		interval: interval,
		log:      logger.Component("lottery_auto_draw"),
	}
}

func (w *AutoDrawWorker) Start() {
	w.log.Info().Dur("interval", w.interval).Msg("Starting lottery auto draw")
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.tick()
			case <-w.ctx.Done():
				return
			}
		}
	}()
}

func (w *AutoDrawWorker) tick() {
	ctx, cancel := context.WithTimeout(w.ctx, autoDrawTimeout)
	defer cancel()

	drawn, err := w.service.DrawDue(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("Error drawing due lotteries")
	}
	if drawn > 0 {
		w.log.Info().Int("drawn", drawn).Msg("Due lotteries drawn")
	}
}

// Stop cancels the loop and waits for an in-flight tick to finish.
func (w *AutoDrawWorker) Stop() {
	w.log.Info().Msg("Stopping lottery auto draw")
	w.cancel()
	w.wg.Wait()
}
