package payroll

import (
	"context"
	"errors"
	"time"

	"etqan-payroll/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultVersionPoll = 5 * time.Second

// VersionWatcher reloads a view when another process bumps the periods
// cache version, e.g. after a rotation run in the worker.
type VersionWatcher struct {
	rdb      *redis.Client
	refresh  func(ctx context.Context) error
	interval time.Duration
	logger   *zap.Logger

	last string
	seen bool
}

func NewVersionWatcher(rdb *redis.Client, refresh func(ctx context.Context) error, interval time.Duration, logger ...*zap.Logger) *VersionWatcher {
	l := zap.L().Named("payroll.version_watcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.version_watcher")
	}
	if interval <= 0 {
		interval = DefaultVersionPoll
	}
	return &VersionWatcher{rdb: rdb, refresh: refresh, interval: interval, logger: l}
}

// Check reads the current version and refreshes when it differs from the
// last one seen. The first read only records the version.
func (w *VersionWatcher) Check(ctx context.Context) (bool, error) {
	v, err := w.rdb.Get(ctx, PeriodsVersionKey).Result()
	switch {
	case errors.Is(err, redis.Nil):
		v = "0"
	case err != nil:
		return false, err
	}

	if !w.seen {
		w.last, w.seen = v, true
		return false, nil
	}
	if v == w.last {
		return false, nil
	}

	w.last = v
	return true, w.refresh(ctx)
}

// Run polls until ctx is cancelled.
func (w *VersionWatcher) Run(ctx context.Context) {
	log := contextutil.GetLogger(ctx, w.logger)
	if _, err := w.Check(ctx); err != nil {
		log.Warn("read periods cache version failed", zap.Error(err))
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			changed, err := w.Check(ctx)
			if err != nil {
				log.Warn("periods cache version check failed", zap.Error(err))
				continue
			}
			if changed {
				log.Info("periods cache version changed, view reloaded", zap.String("version", w.last))
			}
		}
	}
}
