package payroll_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"etqan-payroll/internal/payroll"
	payrollerrors "etqan-payroll/internal/payroll/errors"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

type fakeLister struct {
	ListPeriodsFn func(ctx context.Context, search, status string) ([]payroll.Period, error)
}

func (f *fakeLister) ListPeriods(ctx context.Context, search, status string) ([]payroll.Period, error) {
	return f.ListPeriodsFn(ctx, search, status)
}

func fixedClock() time.Time { return filterNow }

func TestQueryService_Query(t *testing.T) {
	ctx := context.Background()

	t.Run("server filtered narrows pending_old locally", func(t *testing.T) {
		lister := &fakeLister{ListPeriodsFn: func(ctx context.Context, search, status string) ([]payroll.Period, error) {
			assert.Equal(t, "quran", search)
			assert.Equal(t, "pending", status)
			return []payroll.Period{samplePeriods()[0], samplePeriods()[1]}, nil
		}}
		svc := payroll.NewQueryService(lister, payroll.QueryOptions{ServerFiltered: true, Clock: fixedClock})

		res, err := svc.Query(ctx, payroll.QueryParams{Search: " quran ", Status: payroll.FilterPendingOld})

		assert.NoError(t, err)
		assert.Equal(t, []string{"1"}, ids(res.Items))
		assert.Equal(t, "1000", res.Stats.TotalDue.String())
		assert.Equal(t, 1, res.Stats.StaleCount)
		assert.Equal(t, "quran", res.Params.Search)
	})

	t.Run("client filtered fetches everything", func(t *testing.T) {
		lister := &fakeLister{ListPeriodsFn: func(ctx context.Context, search, status string) ([]payroll.Period, error) {
			assert.Empty(t, search)
			assert.Empty(t, status)
			return samplePeriods(), nil
		}}
		svc := payroll.NewQueryService(lister, payroll.QueryOptions{Clock: fixedClock})

		res, err := svc.Query(ctx, payroll.QueryParams{Search: "arabic", Status: payroll.FilterPending})

		assert.NoError(t, err)
		assert.Equal(t, []string{"2", "5"}, ids(res.Items))
		assert.Equal(t, "1300.5", res.Stats.TotalPending.String())
	})

	t.Run("invalid status never reaches the backend", func(t *testing.T) {
		svc := payroll.NewQueryService(&fakeLister{}, payroll.QueryOptions{Clock: fixedClock})

		_, err := svc.Query(ctx, payroll.QueryParams{Status: "late"})

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusFilter)
	})

	t.Run("backend failure", func(t *testing.T) {
		lister := &fakeLister{ListPeriodsFn: func(ctx context.Context, search, status string) ([]payroll.Period, error) {
			return nil, errors.New("502")
		}}
		svc := payroll.NewQueryService(lister, payroll.QueryOptions{Clock: fixedClock})

		_, err := svc.Query(ctx, payroll.QueryParams{})

		assert.ErrorIs(t, err, payrollerrors.ErrQueryFailed)
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		lister := &fakeLister{ListPeriodsFn: func(ctx context.Context, search, status string) ([]payroll.Period, error) {
			return nil, nil
		}}
		svc := payroll.NewQueryService(lister, payroll.QueryOptions{ServerFiltered: true, Clock: fixedClock})

		res, err := svc.Query(ctx, payroll.QueryParams{})

		assert.NoError(t, err)
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
	})

	t.Run("concurrent identical queries share one call", func(t *testing.T) {
		var calls int32
		entered := make(chan struct{})
		release := make(chan struct{})
		var once sync.Once
		lister := &fakeLister{ListPeriodsFn: func(ctx context.Context, search, status string) ([]payroll.Period, error) {
			atomic.AddInt32(&calls, 1)
			once.Do(func() { close(entered) })
			<-release
			return samplePeriods(), nil
		}}
		svc := payroll.NewQueryService(lister, payroll.QueryOptions{Clock: fixedClock})

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Query(ctx, payroll.QueryParams{Status: payroll.FilterPaid})
		}()
		<-entered
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := svc.Query(ctx, payroll.QueryParams{Status: payroll.FilterPaid})
				assert.NoError(t, err)
				assert.Equal(t, []string{"3"}, ids(res.Items))
			}()
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}

func TestQueryService_Cache(t *testing.T) {
	ctx := context.Background()

	t.Run("hit skips the backend", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		svc := payroll.NewQueryService(&fakeLister{}, payroll.QueryOptions{Redis: rdb, TTL: time.Minute, Clock: fixedClock})

		cached, _ := json.Marshal(samplePeriods()[:2])
		mock.ExpectGet(payroll.PeriodsVersionKey).SetVal("3")
		mock.ExpectGet("payroll:periods:v3:all:").SetVal(string(cached))

		res, err := svc.Query(ctx, payroll.QueryParams{})

		assert.NoError(t, err)
		assert.Equal(t, []string{"1", "2"}, ids(res.Items))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss stores the result", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		lister := &fakeLister{ListPeriodsFn: func(ctx context.Context, search, status string) ([]payroll.Period, error) {
			return samplePeriods(), nil
		}}
		svc := payroll.NewQueryService(lister, payroll.QueryOptions{Redis: rdb, TTL: time.Minute, Clock: fixedClock})

		want, _ := json.Marshal(payroll.FilterPeriods(samplePeriods(), payroll.QueryParams{Status: payroll.FilterPaid}, filterNow))
		mock.ExpectGet(payroll.PeriodsVersionKey).RedisNil()
		mock.ExpectGet("payroll:periods:v0:paid:").RedisNil()
		mock.ExpectSet("payroll:periods:v0:paid:", want, time.Minute).SetVal("OK")

		res, err := svc.Query(ctx, payroll.QueryParams{Status: payroll.FilterPaid})

		assert.NoError(t, err)
		assert.Equal(t, []string{"3"}, ids(res.Items))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalidate bumps the version", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		svc := payroll.NewQueryService(&fakeLister{}, payroll.QueryOptions{Redis: rdb, TTL: time.Minute})

		mock.ExpectIncr(payroll.PeriodsVersionKey).SetVal(4)

		assert.NoError(t, svc.Invalidate(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalidate without redis is a no-op", func(t *testing.T) {
		svc := payroll.NewQueryService(&fakeLister{}, payroll.QueryOptions{})
		assert.NoError(t, svc.Invalidate(ctx))
	})
}

func TestQueryService_SharedFlightCallersGetOwnItems(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	lister := &fakeLister{ListPeriodsFn: func(ctx context.Context, search, status string) ([]payroll.Period, error) {
		calls.Add(1)
		<-release
		return []payroll.Period{{ID: "1", Status: payroll.StatusPending}}, nil
	}}
	svc := payroll.NewQueryService(lister, payroll.QueryOptions{ServerFiltered: true, Clock: fixedClock})

	results := make(chan payroll.QueryResult, 2)
	for i := 0; i < 2; i++ {
		go func() {
			res, err := svc.Query(context.Background(), payroll.QueryParams{})
			assert.NoError(t, err)
			results <- res
		}()
	}
	time.Sleep(30 * time.Millisecond)
	close(release)

	a, b := <-results, <-results
	a.Items[0].Status = payroll.StatusPaid

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, payroll.StatusPending, b.Items[0].Status)
}
