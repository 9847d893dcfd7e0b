package consumer

import (
	"context"
	"encoding/json"
	"time"

	"etqan-payroll/internal/employee"
	"etqan-payroll/internal/events"
	"etqan-payroll/internal/rotation"

	"github.com/cenkalti/backoff/v4"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type EmployeeReconciler interface {
	ReconcileEmployee(ctx context.Context, emp employee.Employee, trigger string) (rotation.Outcome, error)
}

type DirectoryCache interface {
	Forget(ctx context.Context) error
}

// RetryPolicy shapes the exponential backoff used after a failed fetch and
// between reconcile attempts for one message.
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxRetries      uint64
}

var DefaultRetryPolicy = RetryPolicy{
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     30 * time.Second,
	MaxRetries:      4,
}

func (p RetryPolicy) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// ConsumeEmployeeLifecycle keeps payroll in step with the directory: an
// activated employee gets their current period opened right away, and any
// lifecycle change drops the cached active employee list.
//
// A failed reconcile is retried in place per policy. Once retries run out
// the message is committed anyway; the next scheduled rotation opens the
// period instead.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	reconciler EmployeeReconciler,
	directory DirectoryCache,
	logger *zap.Logger,
	policy RetryPolicy,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	if policy.InitialInterval <= 0 {
		policy = DefaultRetryPolicy
	}
	fetchBackOff := policy.newBackOff()
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			wait := fetchBackOff.NextBackOff()
			log.Error("fetch employee lifecycle message failed",
				zap.Duration("retry_in", wait),
				zap.Error(err),
			)
			if !sleepCtx(ctx, wait) {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			continue
		}
		fetchBackOff.Reset()

		var event events.EmployeeLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		evtLog := log.With(
			zap.String("event_type", event.EventType),
			zap.String("employee_id", event.EmployeeID),
			zap.String("teacher_id", event.TeacherID),
		)

		if directory != nil {
			if err := directory.Forget(ctx); err != nil {
				evtLog.Warn("drop cached employee directory failed", zap.Error(err))
			}
		}

		switch event.EventType {
		case events.EmployeeActivated:
			if event.TeacherID == "" {
				evtLog.Warn("activated employee has no teacher id, skipping")
				break
			}
			emp := employee.Employee{
				ID:        event.EmployeeID,
				Name:      event.Name,
				TeacherID: event.TeacherID,
				Active:    true,
			}
			outcome, err := reconcileWithRetry(ctx, reconciler, emp, policy, evtLog)
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			if err != nil {
				evtLog.Error("reconcile activated employee gave up, leaving it to the next rotation", zap.Error(err))
				break
			}
			evtLog.Info("activated employee reconciled", zap.String("outcome", string(outcome)))
		case events.EmployeeDeactivated:
			evtLog.Info("employee deactivated, directory cache dropped")
		default:
			evtLog.Debug("ignoring unknown employee lifecycle event")
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			evtLog.Error("commit employee lifecycle message failed", zap.Error(err))
		}
	}
}

func reconcileWithRetry(
	ctx context.Context,
	reconciler EmployeeReconciler,
	emp employee.Employee,
	policy RetryPolicy,
	log *zap.Logger,
) (rotation.Outcome, error) {
	var outcome rotation.Outcome
	op := func() error {
		var err error
		outcome, err = reconciler.ReconcileEmployee(ctx, emp, rotation.TriggerLifecycle)
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy.newBackOff(), policy.MaxRetries), ctx)
	err := backoff.RetryNotify(op, b, func(err error, wait time.Duration) {
		log.Warn("reconcile activated employee failed, retrying",
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)
	})
	return outcome, err
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
