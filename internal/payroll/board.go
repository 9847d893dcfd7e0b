package payroll

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultDebounce = 300 * time.Millisecond

// BoardSnapshot is a copy of the board's state at one instant.
type BoardSnapshot struct {
	Params    QueryParams
	Items     []Period
	Stats     Stats
	LoadedAt  time.Time
	Pending   bool
	LastError error
}

// Board is the dashboard's loaded payroll view. Parameter changes are
// debounced so a burst of edits produces one backend query after the quiet
// period; every load carries a generation number and only the newest
// generation may write its result, so a slow stale response never replaces
// a newer one. A failed load keeps the previously loaded items.
type Board struct {
	query    QueryService
	debounce time.Duration
	clock    func() time.Time
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	params     QueryParams
	items      []Period
	stats      Stats
	loadedAt   time.Time
	lastErr    error
	generation uint64
	timer      *time.Timer
	closed     bool
}

func NewBoard(query QueryService, debounce time.Duration, logger ...*zap.Logger) *Board {
	l := zap.L().Named("payroll.board")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.board")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Board{
		query:    query,
		debounce: debounce,
		clock:    time.Now,
		logger:   l,
		ctx:      ctx,
		cancel:   cancel,
		params:   QueryParams{Status: FilterAll},
		items:    []Period{},
	}
}

// SetParams schedules a load for params after the debounce period, replacing
// any load that was scheduled but not yet started.
func (b *Board) SetParams(params QueryParams) {
	params = params.Normalize()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	b.params = params
	b.generation++
	gen := b.generation

	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.debounce, func() {
		if err := b.load(b.ctx, gen, params); err != nil {
			b.logger.Warn("debounced board load failed", zap.Error(err))
		}
	})
}

// Refresh loads the current params immediately.
func (b *Board) Refresh(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return context.Canceled
	}
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.generation++
	gen := b.generation
	params := b.params
	b.mu.Unlock()

	return b.load(ctx, gen, params)
}

// Invalidate drops the query service's cached results.
func (b *Board) Invalidate(ctx context.Context) error {
	return b.query.Invalidate(ctx)
}

func (b *Board) load(ctx context.Context, gen uint64, params QueryParams) error {
	res, err := b.query.Query(ctx, params)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || gen != b.generation {
		b.logger.Debug("discarding superseded board load",
			zap.Uint64("generation", gen),
			zap.Uint64("current", b.generation),
		)
		return nil
	}
	b.timer = nil

	if err != nil {
		b.lastErr = err
		return err
	}

	// The query result may be shared with other callers; the board flips
	// statuses in place, so it keeps its own copy.
	b.items = append(make([]Period, 0, len(res.Items)), res.Items...)
	b.stats = ComputeStats(b.items, b.clock())
	b.loadedAt = b.clock()
	b.lastErr = nil
	return nil
}

// ApplyOptimisticPaid flips a pending record to paid locally and returns the
// status it had before. Records that are not pending are left untouched.
func (b *Board) ApplyOptimisticPaid(id string) (Status, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.items {
		if b.items[i].ID != id {
			continue
		}
		prev := b.items[i].Status
		if prev == StatusPending {
			b.items[i].Status = StatusPaid
			b.stats = ComputeStats(b.items, b.clock())
		}
		return prev, true
	}
	return "", false
}

// StatusOf returns the locally known status of a record.
func (b *Board) StatusOf(id string) (Status, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.items {
		if p.ID == id {
			return p.Status, true
		}
	}
	return "", false
}

func (b *Board) Snapshot() BoardSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := make([]Period, len(b.items))
	copy(items, b.items)
	return BoardSnapshot{
		Params:    b.params,
		Items:     items,
		Stats:     b.stats,
		LoadedAt:  b.loadedAt,
		Pending:   b.timer != nil,
		LastError: b.lastErr,
	}
}

// Close abandons any scheduled load. Loads already running finish but their
// results are dropped.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.cancel()
}
