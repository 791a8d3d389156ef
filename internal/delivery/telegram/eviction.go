package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartEviction schedules a job that drops chats idle for longer than ttl.
// The job only queues a sweep; Run performs it so chat state is never
// touched outside the update loop. The scheduler stops with ctx.
func (h *Handler) StartEviction(ctx context.Context, schedule string, ttl time.Duration) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(schedule, func() {
		h.logger.Debug("cron triggered: queueing idle chat sweep")
		h.requestSweep(ttl)
	})
	if err != nil {
		return fmt.Errorf("add eviction job: %w", err)
	}

	c.Start()
	h.logger.Info("chat eviction scheduled",
		zap.String("schedule", schedule),
		zap.Duration("idle_ttl", ttl),
	)

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		h.logger.Info("chat eviction stopped")
	}()

	return nil
}

// requestSweep queues a sweep unless one is already pending.
func (h *Handler) requestSweep(ttl time.Duration) {
	select {
	case h.sweeps <- ttl:
	default:
	}
}

func (h *Handler) evictIdle(ttl time.Duration) {
	evicted := h.chats.EvictIdle(h.now().Add(-ttl))
	if len(evicted) == 0 {
		return
	}

	h.logger.Info("idle chats evicted",
		zap.Int("evicted", len(evicted)),
		zap.Int("remaining", h.chats.Len()),
	)
}
