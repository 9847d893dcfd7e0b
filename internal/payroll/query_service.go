package payroll

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	payrollerrors "etqan-payroll/internal/payroll/errors"
	"etqan-payroll/internal/shared/apperror"
	"etqan-payroll/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	PeriodsCacheKeyPrefix = "payroll:periods:"
	PeriodsVersionKey     = PeriodsCacheKeyPrefix + "version"
)

//go:generate mockgen -source=query_service.go -destination=mock/query_service_mock.go -package=mock
type PeriodLister interface {
	ListPeriods(ctx context.Context, search, status string) ([]Period, error)
}

type QueryResult struct {
	Params QueryParams
	Items  []Period
	Stats  Stats
}

type QueryService interface {
	Query(ctx context.Context, params QueryParams) (QueryResult, error)
	// Invalidate makes every cached query stale, e.g. after a rotation run.
	Invalidate(ctx context.Context) error
}

type QueryOptions struct {
	Redis *redis.Client
	TTL   time.Duration
	// ServerFiltered means the backend honours search/status; otherwise the
	// full collection is fetched and filtered here.
	ServerFiltered bool
	Clock          func() time.Time
	Logger         *zap.Logger
}

type queryService struct {
	lister         PeriodLister
	rdb            *redis.Client
	ttl            time.Duration
	serverFiltered bool
	clock          func() time.Time
	sf             *singleflight.Group
	logger         *zap.Logger
}

func NewQueryService(lister PeriodLister, opts QueryOptions) QueryService {
	l := zap.L().Named("payroll.query")
	if opts.Logger != nil {
		l = opts.Logger.Named("payroll.query")
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &queryService{
		lister:         lister,
		rdb:            opts.Redis,
		ttl:            opts.TTL,
		serverFiltered: opts.ServerFiltered,
		clock:          clock,
		sf:             &singleflight.Group{},
		logger:         l,
	}
}

func (s *queryService) Query(ctx context.Context, params QueryParams) (QueryResult, error) {
	params = params.Normalize()
	status, err := ParseStatusFilter(string(params.Status))
	if err != nil {
		return QueryResult{}, err
	}
	params.Status = status

	log := contextutil.GetLogger(ctx, s.logger)
	key := s.cacheKey(ctx, params)

	if items, ok := s.fromCache(ctx, key); ok {
		return s.result(params, items), nil
	}

	v, err, shared := s.sf.Do(key, func() (any, error) {
		items, err := s.fetch(ctx, params)
		if err != nil {
			return nil, err
		}
		s.toCache(ctx, key, items)
		return items, nil
	})
	if err != nil {
		log.Error("query payroll periods failed",
			zap.String("search", params.Search),
			zap.String("status", string(params.Status)),
			zap.Error(err),
		)
		return QueryResult{}, apperror.Wrap(payrollerrors.ErrQueryFailed, err)
	}

	log.Debug("query payroll periods",
		zap.String("search", params.Search),
		zap.String("status", string(params.Status)),
		zap.Bool("shared", shared),
	)

	return s.result(params, v.([]Period)), nil
}

func (s *queryService) Invalidate(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Incr(ctx, PeriodsVersionKey).Err()
}

func (s *queryService) fetch(ctx context.Context, params QueryParams) ([]Period, error) {
	if !s.serverFiltered {
		all, err := s.lister.ListPeriods(ctx, "", "")
		if err != nil {
			return nil, err
		}
		return FilterPeriods(all, params, s.clock()), nil
	}

	items, err := s.lister.ListPeriods(ctx, params.Search, params.Status.BackendStatus())
	if err != nil {
		return nil, err
	}
	// The backend result is authoritative for search; the status predicate is
	// reapplied because pending_old can only be decided here.
	return FilterByStatus(items, params.Status, s.clock()), nil
}

// result copies items because singleflight hands the same slice to every
// caller that joined the flight.
func (s *queryService) result(params QueryParams, items []Period) QueryResult {
	own := make([]Period, len(items))
	copy(own, items)
	return QueryResult{
		Params: params,
		Items:  own,
		Stats:  ComputeStats(own, s.clock()),
	}
}

func (s *queryService) cacheKey(ctx context.Context, params QueryParams) string {
	version := "0"
	if s.cacheEnabled() {
		if v, err := s.rdb.Get(ctx, PeriodsVersionKey).Result(); err == nil && v != "" {
			version = v
		}
	}
	return fmt.Sprintf("%sv%s:%s:%s", PeriodsCacheKeyPrefix, version, params.Status, params.Search)
}

func (s *queryService) fromCache(ctx context.Context, key string) ([]Period, bool) {
	if !s.cacheEnabled() {
		return nil, false
	}
	cached, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var items []Period
	if err := json.Unmarshal([]byte(cached), &items); err != nil {
		return nil, false
	}
	return items, true
}

func (s *queryService) toCache(ctx context.Context, key string, items []Period) {
	if !s.cacheEnabled() {
		return
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.logger.Warn("cache payroll periods failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *queryService) cacheEnabled() bool {
	return s.rdb != nil && s.ttl > 0
}
