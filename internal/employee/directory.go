package employee

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const ActiveEmployeesKey = "employees:active"

type Source interface {
	ActiveEmployees(ctx context.Context) ([]Employee, error)
}

// Directory serves the active employee list, collapsing concurrent loads and
// caching the result in Redis for a short TTL when a client is configured.
type Directory struct {
	source Source
	rdb    *redis.Client
	ttl    time.Duration
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewDirectory(source Source, rdb *redis.Client, ttl time.Duration, logger ...*zap.Logger) *Directory {
	l := zap.L().Named("employee.directory")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.directory")
	}
	return &Directory{
		source: source,
		rdb:    rdb,
		ttl:    ttl,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (d *Directory) ActiveEmployees(ctx context.Context) ([]Employee, error) {
	if d.cacheEnabled() {
		if cached, err := d.rdb.Get(ctx, ActiveEmployeesKey).Result(); err == nil {
			var emps []Employee
			if json.Unmarshal([]byte(cached), &emps) == nil {
				return emps, nil
			}
		}
	}

	v, err, _ := d.sf.Do(ActiveEmployeesKey, func() (any, error) {
		emps, err := d.source.ActiveEmployees(ctx)
		if err != nil {
			return nil, err
		}

		if d.cacheEnabled() {
			if payload, err := json.Marshal(emps); err == nil {
				if err := d.rdb.Set(ctx, ActiveEmployeesKey, payload, d.ttl).Err(); err != nil {
					d.logger.Warn("cache active employees failed", zap.Error(err))
				}
			}
		}
		return emps, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]Employee), nil
}

// Forget drops the cached list so the next read goes to the backend.
func (d *Directory) Forget(ctx context.Context) error {
	if !d.cacheEnabled() {
		return nil
	}
	return d.rdb.Del(ctx, ActiveEmployeesKey).Err()
}

func (d *Directory) cacheEnabled() bool {
	return d.rdb != nil && d.ttl > 0
}
