package rotation

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"etqan-payroll/internal/employee"
	"etqan-payroll/internal/events"
	"etqan-payroll/internal/payroll"
	rotationerrors "etqan-payroll/internal/rotation/errors"
	"etqan-payroll/internal/shared/apperror"
	"etqan-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const runBookkeepingTimeout = 5 * time.Second

//go:generate mockgen -source=orchestrator.go -destination=mock/orchestrator_mock.go -package=mock
type DirectoryClient interface {
	ActiveEmployees(ctx context.Context) ([]employee.Employee, error)
}

type InventoryClient interface {
	PeriodsForEmployee(ctx context.Context, teacherID string) ([]payroll.Period, error)
}

type PeriodOpener interface {
	Create(ctx context.Context, teacherID, userID, monthYear string) CreateResult
}

// RunSummary counts what one run did. Every checked employee lands in
// exactly one of the other four counters.
type RunSummary struct {
	RunID          string `json:"run_id"`
	Checked        int    `json:"checked"`
	Created        int    `json:"created"`
	AlreadyExisted int    `json:"already_existed"`
	Skipped        int    `json:"skipped"`
	Failed         int    `json:"failed"`
}

func (s *RunSummary) count(o Outcome) {
	switch o {
	case OutcomeCreated:
		s.Created++
	case OutcomeAlreadyExists:
		s.AlreadyExisted++
	case OutcomeFailed:
		s.Failed++
	default:
		s.Skipped++
	}
}

type OrchestratorOptions struct {
	Lock      RunLock
	Runs      RunRepository
	Publisher events.Publisher
	// AfterRun is called after a successful background run started with
	// Start, while the run still holds the in-flight flag.
	AfterRun func(ctx context.Context, summary RunSummary)
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Orchestrator walks the active employee list and opens any payroll period
// that is due, one employee at a time.
type Orchestrator struct {
	directory DirectoryClient
	inventory InventoryClient
	creator   PeriodOpener
	lock      RunLock
	runs      RunRepository
	publisher events.Publisher
	afterRun  func(ctx context.Context, summary RunSummary)
	clock     func() time.Time
	logger    *zap.Logger

	inFlight atomic.Bool
}

func NewOrchestrator(directory DirectoryClient, inventory InventoryClient, creator PeriodOpener, opts OrchestratorOptions) *Orchestrator {
	l := zap.L().Named("rotation.orchestrator")
	if opts.Logger != nil {
		l = opts.Logger.Named("rotation.orchestrator")
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Orchestrator{
		directory: directory,
		inventory: inventory,
		creator:   creator,
		lock:      opts.Lock,
		runs:      opts.Runs,
		publisher: publisher,
		afterRun:  opts.AfterRun,
		clock:     clock,
		logger:    l,
	}
}

func (o *Orchestrator) InFlight() bool {
	return o.inFlight.Load()
}

// RunOnce executes a full rotation and blocks until it finishes. It returns
// ErrRunInFlight if another run is executing in this or, with a lock
// configured, another process.
func (o *Orchestrator) RunOnce(ctx context.Context, trigger string) (RunSummary, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return RunSummary{}, rotationerrors.ErrRunInFlight
	}
	defer o.inFlight.Store(false)

	return o.run(ctx, trigger, uuid.New())
}

// Start claims the in-flight flag synchronously and runs the rotation in the
// background, detached from ctx cancellation. The returned id names the run.
func (o *Orchestrator) Start(ctx context.Context, trigger string) (string, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return "", rotationerrors.ErrRunInFlight
	}

	id := uuid.New()
	runCtx := context.WithoutCancel(ctx)
	go func() {
		defer o.inFlight.Store(false)
		summary, err := o.run(runCtx, trigger, id)
		if err != nil {
			contextutil.GetLogger(runCtx, o.logger).Error("background rotation run failed",
				zap.String("run_id", id.String()),
				zap.Error(err),
			)
			return
		}
		if o.afterRun != nil {
			o.afterRun(runCtx, summary)
		}
	}()
	return id.String(), nil
}

// ReconcileEmployee runs the decision and create steps for a single
// employee. It does not take the run flag; the backend's uniqueness rule
// keeps it safe alongside a full run.
func (o *Orchestrator) ReconcileEmployee(ctx context.Context, emp employee.Employee, trigger string) (Outcome, error) {
	ctx = contextutil.WithTrigger(ctx, trigger)
	res := o.reconcile(ctx, emp)
	if res.Outcome == OutcomeFailed {
		return res.Outcome, fmt.Errorf("reconcile employee %s: %s", emp.ID, res.Reason)
	}
	return res.Outcome, nil
}

func (o *Orchestrator) run(ctx context.Context, trigger string, id uuid.UUID) (RunSummary, error) {
	ctx = contextutil.WithTrigger(ctx, trigger)
	log := contextutil.GetLogger(ctx, o.logger).With(
		zap.String("run_id", id.String()),
		zap.String("trigger", trigger),
	)
	ctx = contextutil.WithLogger(ctx, log)

	summary := RunSummary{RunID: id.String()}

	if o.lock != nil {
		ok, err := o.lock.Acquire(ctx, id.String())
		switch {
		case err != nil:
			log.Warn("rotation lock unavailable, relying on local guard", zap.Error(err))
		case !ok:
			log.Info("rotation already running in another process")
			return summary, rotationerrors.ErrRunInFlight
		default:
			defer func() {
				releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), runBookkeepingTimeout)
				defer cancel()
				if err := o.lock.Release(releaseCtx, id.String()); err != nil {
					log.Warn("release rotation lock failed", zap.Error(err))
				}
			}()
		}
	}

	runInFlight.Set(1)
	defer runInFlight.Set(0)

	started := o.clock()
	record := &RotationRun{ID: id, Trigger: trigger, Status: RunStatusRunning, StartedAt: started}
	o.saveRun(ctx, record, true)

	log.Info("rotation run started")

	emps, err := o.directory.ActiveEmployees(ctx)
	if err != nil {
		log.Error("fetch active employees failed, aborting run", zap.Error(err))
		o.finish(ctx, record, summary, err)
		return summary, apperror.Wrap(rotationerrors.ErrDirectoryUnavailable, err)
	}

	for _, emp := range emps {
		if err := ctx.Err(); err != nil {
			log.Warn("rotation run cancelled", zap.Int("checked", summary.Checked), zap.Error(err))
			o.finish(ctx, record, summary, err)
			return summary, err
		}
		summary.Checked++
		summary.count(o.reconcile(ctx, emp).Outcome)
	}

	o.finish(ctx, record, summary, nil)
	log.Info("rotation run finished",
		zap.Int("checked", summary.Checked),
		zap.Int("created", summary.Created),
		zap.Int("already_existed", summary.AlreadyExisted),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (o *Orchestrator) reconcile(ctx context.Context, emp employee.Employee) CreateResult {
	log := contextutil.GetLogger(ctx, o.logger).With(
		zap.String("employee_id", emp.ID),
		zap.String("teacher_id", emp.TeacherID),
	)

	if !emp.HasTeacher() {
		log.Warn("employee has no teacher id, skipping")
		return CreateResult{Outcome: OutcomeSkipped}
	}

	periods, err := o.inventory.PeriodsForEmployee(ctx, emp.TeacherID)
	if err != nil {
		log.Warn("fetch payroll periods failed, assuming none", zap.Error(err))
		periods = nil
	}

	action := Decide(emp, periods, o.clock())
	if action.Kind != ActionCreate {
		log.Debug("current payroll period is fresh, skipping")
		return CreateResult{Outcome: OutcomeSkipped}
	}

	res := o.creator.Create(ctx, emp.TeacherID, emp.ID, action.MonthYear)
	if res.Outcome == OutcomeCreated {
		o.publishCreated(ctx, emp, action.MonthYear, res.Period)
	}
	return res
}

func (o *Orchestrator) publishCreated(ctx context.Context, emp employee.Employee, monthYear string, p payroll.Period) {
	evt := events.PayrollPeriodCreatedEvent{
		EventType:  events.PayrollPeriodCreated,
		RequestID:  contextutil.GetRequestID(ctx),
		PeriodID:   p.ID,
		TeacherID:  emp.TeacherID,
		UserID:     emp.ID,
		MonthYear:  monthYear,
		Trigger:    contextutil.GetTrigger(ctx),
		OccurredAt: o.clock().UTC(),
	}
	if err := o.publisher.Publish(ctx, evt); err != nil {
		contextutil.GetLogger(ctx, o.logger).Error("enqueue payroll_period_created failed",
			zap.String("teacher_id", emp.TeacherID),
			zap.Error(err),
		)
	}
}

func (o *Orchestrator) finish(ctx context.Context, record *RotationRun, summary RunSummary, runErr error) {
	finished := o.clock()
	record.FinishedAt = &finished
	record.apply(summary)
	record.Status = RunStatusSucceeded
	if runErr != nil {
		record.Status = RunStatusFailed
		record.Error = runErr.Error()
	}
	o.saveRun(ctx, record, false)
	observeRun(record.Trigger, record.Status, finished.Sub(record.StartedAt), summary)
}

func (o *Orchestrator) saveRun(ctx context.Context, record *RotationRun, create bool) {
	if o.runs == nil {
		return
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), runBookkeepingTimeout)
	defer cancel()

	var err error
	if create {
		err = o.runs.Create(saveCtx, record)
	} else {
		err = o.runs.Update(saveCtx, record)
	}
	if err != nil {
		contextutil.GetLogger(ctx, o.logger).Warn("persist rotation run failed",
			zap.String("run_id", record.ID.String()),
			zap.Error(err),
		)
	}
}
