package payroll_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"etqan-payroll/internal/payroll"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestVersionWatcher_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("refreshes only when the version moves", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		refreshes := 0
		w := payroll.NewVersionWatcher(rdb, func(ctx context.Context) error {
			refreshes++
			return nil
		}, time.Second)

		mock.ExpectGet(payroll.PeriodsVersionKey).SetVal("4")
		mock.ExpectGet(payroll.PeriodsVersionKey).SetVal("4")
		mock.ExpectGet(payroll.PeriodsVersionKey).SetVal("5")

		for _, want := range []bool{false, false, true} {
			changed, err := w.Check(ctx)
			assert.NoError(t, err)
			assert.Equal(t, want, changed)
		}
		assert.Equal(t, 1, refreshes)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing key counts as version zero", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		refreshes := 0
		w := payroll.NewVersionWatcher(rdb, func(ctx context.Context) error {
			refreshes++
			return nil
		}, time.Second)

		mock.ExpectGet(payroll.PeriodsVersionKey).RedisNil()
		mock.ExpectGet(payroll.PeriodsVersionKey).SetVal("1")

		_, _ = w.Check(ctx)
		changed, err := w.Check(ctx)

		assert.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, 1, refreshes)
	})

	t.Run("redis error leaves the view alone", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		w := payroll.NewVersionWatcher(rdb, func(ctx context.Context) error {
			t.Fatal("refresh must not run")
			return nil
		}, time.Second)

		mock.ExpectGet(payroll.PeriodsVersionKey).SetErr(errors.New("conn refused"))

		changed, err := w.Check(ctx)

		assert.Error(t, err)
		assert.False(t, changed)
	})

	t.Run("refresh error is returned", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		w := payroll.NewVersionWatcher(rdb, func(ctx context.Context) error {
			return errors.New("backend down")
		}, time.Second)

		mock.ExpectGet(payroll.PeriodsVersionKey).SetVal("1")
		mock.ExpectGet(payroll.PeriodsVersionKey).SetVal("2")

		_, _ = w.Check(ctx)
		changed, err := w.Check(ctx)

		assert.True(t, changed)
		assert.EqualError(t, err, "backend down")
	})
}

// A worker-side rotation bumps the version; the API's board must reload.
func TestVersionWatcher_ReloadsBoardAfterRemoteInvalidate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	loads := 0
	q := &fakeQueryService{QueryFn: func(ctx context.Context, params payroll.QueryParams) (payroll.QueryResult, error) {
		loads++
		if loads == 1 {
			return resultOf(samplePeriods()[0]), nil
		}
		return resultOf(samplePeriods()...), nil
	}}
	board := payroll.NewBoard(q, time.Hour)
	defer board.Close()
	assert.NoError(t, board.Refresh(context.Background()))

	w := payroll.NewVersionWatcher(rdb, board.Refresh, time.Second)
	mock.ExpectGet(payroll.PeriodsVersionKey).SetVal("1")
	mock.ExpectGet(payroll.PeriodsVersionKey).SetVal("2")

	_, _ = w.Check(context.Background())
	changed, err := w.Check(context.Background())

	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Len(t, board.Snapshot().Items, len(samplePeriods()))
}

func TestVersionWatcher_RunStopsOnCancel(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(payroll.PeriodsVersionKey).SetVal("1")
	w := payroll.NewVersionWatcher(rdb, func(ctx context.Context) error { return nil }, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
