package rotation

import (
	"context"
	"time"

	"etqan-payroll/internal/shared/contextutil"

	"go.uber.org/zap"
)

const DefaultSettleDelay = 2 * time.Second

//go:generate mockgen -source=refresh.go -destination=mock/refresh_mock.go -package=mock
type Runner interface {
	RunOnce(ctx context.Context, trigger string) (RunSummary, error)
}

// RefreshFunc reloads something that caches payroll periods.
type RefreshFunc func(ctx context.Context) error

// RunAndRefresh runs one rotation and, once it succeeded, settles and
// refreshes with SettleAndRefresh.
func RunAndRefresh(ctx context.Context, runner Runner, trigger string, settle time.Duration, refreshers ...RefreshFunc) (RunSummary, error) {
	summary, err := runner.RunOnce(ctx, trigger)
	if err != nil {
		return summary, err
	}
	return summary, SettleAndRefresh(ctx, settle, refreshers...)
}

// SettleAndRefresh waits settle for the backend to catch up, then calls
// every refresher in order. Refresh errors are logged, not returned. A
// cancelled ctx abandons the wait without refreshing.
func SettleAndRefresh(ctx context.Context, settle time.Duration, refreshers ...RefreshFunc) error {
	log := contextutil.GetLogger(ctx, zap.L().Named("rotation.refresh"))

	if settle > 0 {
		t := time.NewTimer(settle)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	for _, refresh := range refreshers {
		if refresh == nil {
			continue
		}
		if err := refresh(ctx); err != nil {
			log.Warn("refresh after rotation failed", zap.Error(err))
		}
	}
	return nil
}
