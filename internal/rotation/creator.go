package rotation

import (
	"context"
	"errors"
	"time"

	"etqan-payroll/internal/backend"
	"etqan-payroll/internal/payroll"
	"etqan-payroll/internal/shared/contextutil"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Outcome string

const (
	OutcomeCreated       Outcome = "created"
	OutcomeAlreadyExists Outcome = "already_exists"
	OutcomeFailed        Outcome = "failed"
	OutcomeSkipped       Outcome = "skipped"
)

type CreateResult struct {
	Outcome Outcome
	Period  payroll.Period
	Reason  string
}

//go:generate mockgen -source=creator.go -destination=mock/creator_mock.go -package=mock
type PeriodCreator interface {
	CreatePeriod(ctx context.Context, req payroll.CreatePeriodRequest) (payroll.Period, error)
}

// Pacer spaces out successive create calls.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NewPacer returns a pacer that lets one call through every interval. The
// first Wait already blocks for a full interval. Spacing is measured between
// successive Waits, so time spent in a slow create counts toward the next
// pause rather than adding to it.
func NewPacer(interval time.Duration) Pacer {
	if interval <= 0 {
		return noPacer{}
	}
	l := rate.NewLimiter(rate.Every(interval), 1)
	l.Allow()
	return l
}

type noPacer struct{}

func (noPacer) Wait(context.Context) error { return nil }

// Creator opens payroll periods, treating a backend uniqueness conflict as
// confirmation that the period exists.
type Creator struct {
	backend PeriodCreator
	pacer   Pacer
	logger  *zap.Logger
}

func NewCreator(backend PeriodCreator, pacer Pacer, logger ...*zap.Logger) *Creator {
	l := zap.L().Named("rotation.creator")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rotation.creator")
	}
	if pacer == nil {
		pacer = noPacer{}
	}
	return &Creator{backend: backend, pacer: pacer, logger: l}
}

func (c *Creator) Create(ctx context.Context, teacherID, userID, monthYear string) CreateResult {
	log := contextutil.GetLogger(ctx, c.logger).With(
		zap.String("teacher_id", teacherID),
		zap.String("month_year", monthYear),
	)

	result := c.create(ctx, teacherID, userID, monthYear)
	switch result.Outcome {
	case OutcomeCreated:
		log.Info("payroll period created", zap.String("period_id", result.Period.ID))
	case OutcomeAlreadyExists:
		log.Info("payroll period already exists")
	default:
		log.Error("create payroll period failed", zap.String("reason", result.Reason))
	}

	if err := c.pacer.Wait(ctx); err != nil {
		log.Debug("pacing abandoned", zap.Error(err))
	}
	return result
}

func (c *Creator) create(ctx context.Context, teacherID, userID, monthYear string) CreateResult {
	period, err := c.backend.CreatePeriod(ctx, payroll.NewCreatePeriodRequest(teacherID, userID, monthYear))
	if err == nil {
		return CreateResult{Outcome: OutcomeCreated, Period: period}
	}
	if errors.Is(err, backend.ErrConflict) {
		return CreateResult{
			Outcome: OutcomeAlreadyExists,
			Period:  payroll.Period{TeacherID: teacherID, UserID: userID, MonthYear: monthYear},
		}
	}
	return CreateResult{Outcome: OutcomeFailed, Reason: err.Error()}
}
