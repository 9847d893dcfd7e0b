package payroll

import (
	"context"
	"sync"
	"time"

	"etqan-payroll/internal/events"
	payrollerrors "etqan-payroll/internal/payroll/errors"
	"etqan-payroll/internal/shared/apperror"
	"etqan-payroll/internal/shared/contextutil"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// Transition states of a single mark-paid attempt.
const (
	TransitionPending            = "pending"
	TransitionOptimisticallyPaid = "optimistically_paid"
	TransitionConfirmedPaid      = "confirmed_paid"
	TransitionRolledBack         = "rolled_back"
)

const (
	transitionEventRequest = "request"
	transitionEventConfirm = "confirm"
	transitionEventFail    = "fail"
)

const rollbackRefreshTimeout = 10 * time.Second

type PaidMarker interface {
	MarkPeriodPaid(ctx context.Context, id string) error
}

// OptimisticView is the locally loaded collection the manager flips and,
// on failure, reloads from the backend. Invalidate drops any cached query
// results so the next Refresh goes to the backend.
type OptimisticView interface {
	ApplyOptimisticPaid(id string) (Status, bool)
	Invalidate(ctx context.Context) error
	Refresh(ctx context.Context) error
}

type PaidTransitioner interface {
	MarkPaid(ctx context.Context, id string) (bool, error)
	State(id string) string
}

type TransitionManager struct {
	marker    PaidMarker
	view      OptimisticView
	publisher events.Publisher
	logger    *zap.Logger

	mu       sync.Mutex
	inFlight map[string]*fsm.FSM
	last     map[string]string
}

func NewTransitionManager(marker PaidMarker, view OptimisticView, publisher events.Publisher, logger ...*zap.Logger) *TransitionManager {
	l := zap.L().Named("payroll.transition")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.transition")
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &TransitionManager{
		marker:    marker,
		view:      view,
		publisher: publisher,
		logger:    l,
		inFlight:  make(map[string]*fsm.FSM),
		last:      make(map[string]string),
	}
}

func newTransitionFSM() *fsm.FSM {
	return fsm.NewFSM(
		TransitionPending,
		fsm.Events{
			{Name: transitionEventRequest, Src: []string{TransitionPending}, Dst: TransitionOptimisticallyPaid},
			{Name: transitionEventConfirm, Src: []string{TransitionOptimisticallyPaid}, Dst: TransitionConfirmedPaid},
			{Name: transitionEventFail, Src: []string{TransitionOptimisticallyPaid}, Dst: TransitionRolledBack},
		},
		fsm.Callbacks{},
	)
}

// MarkPaid flips id to paid optimistically, submits the change and, if the
// backend rejects it, reloads the view so it shows the authoritative state.
// A second call for an id that is still in flight is rejected.
func (m *TransitionManager) MarkPaid(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, payrollerrors.ErrInvalidPeriodID
	}
	log := contextutil.GetLogger(ctx, m.logger).With(zap.String("period_id", id))

	machine, err := m.begin(id)
	if err != nil {
		log.Warn("mark paid rejected, already in flight")
		return false, err
	}
	defer m.end(id, machine)

	prev, found := m.view.ApplyOptimisticPaid(id)
	if found && prev == StatusPaid {
		return false, payrollerrors.ErrAlreadyPaid
	}
	if err := machine.Event(ctx, transitionEventRequest); err != nil {
		return false, err
	}

	if err := m.marker.MarkPeriodPaid(ctx, id); err != nil {
		_ = machine.Event(ctx, transitionEventFail)
		log.Error("mark paid failed, reloading view", zap.Error(err))

		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackRefreshTimeout)
		defer cancel()
		if invErr := m.view.Invalidate(refreshCtx); invErr != nil {
			log.Warn("drop cached payroll periods failed", zap.Error(invErr))
		}
		if refreshErr := m.view.Refresh(refreshCtx); refreshErr != nil {
			log.Error("reload after failed mark paid failed", zap.Error(refreshErr))
		}
		return false, apperror.Wrap(payrollerrors.ErrTransitionFailed, err)
	}

	if err := machine.Event(ctx, transitionEventConfirm); err != nil {
		return false, err
	}

	// Cached lists still hold the record as pending.
	if err := m.view.Invalidate(context.WithoutCancel(ctx)); err != nil {
		log.Warn("drop cached payroll periods failed", zap.Error(err))
	}

	if err := m.publisher.Publish(ctx, events.PayrollPeriodPaidEvent{
		EventType:  events.PayrollPeriodPaid,
		RequestID:  contextutil.GetRequestID(ctx),
		PeriodID:   id,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		log.Error("enqueue payroll_period_paid failed", zap.Error(err))
	}

	log.Info("payroll period marked as paid")
	return true, nil
}

// State returns the current or last transition state recorded for id.
func (m *TransitionManager) State(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if machine, ok := m.inFlight[id]; ok {
		return machine.Current()
	}
	if s, ok := m.last[id]; ok {
		return s
	}
	return TransitionPending
}

func (m *TransitionManager) begin(id string) (*fsm.FSM, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, busy := m.inFlight[id]; busy {
		return nil, payrollerrors.ErrTransitionInFlight
	}
	machine := newTransitionFSM()
	m.inFlight[id] = machine
	return machine, nil
}

func (m *TransitionManager) end(id string, machine *fsm.FSM) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.inFlight, id)
	m.last[id] = machine.Current()
}
