package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"etqan-payroll/internal/backend"
	"etqan-payroll/internal/config"
	"etqan-payroll/internal/employee"
	"etqan-payroll/internal/events"
	"etqan-payroll/internal/messaging/kafka"
	"etqan-payroll/internal/payroll"
	"etqan-payroll/internal/rotation"
	"etqan-payroll/internal/shared/connection"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	connectRetries = 5
	schemaTimeout  = 30 * time.Second
)

// infrastructure holds the optional stores. Each field is nil when the
// matching setting is empty.
type infrastructure struct {
	gormDB *gorm.DB
	sqlDB  *sql.DB
	redis  *redis.Client
}

func connectInfrastructure(cfg *config.Config) (*infrastructure, error) {
	infra := &infrastructure{}

	if cfg.Database.Enabled() {
		gormDB, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), connectRetries)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, err
		}
		infra.gormDB = gormDB
		infra.sqlDB = sqlDB
	}

	if cfg.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.redis = rdb
	}

	return infra, nil
}

func (i *infrastructure) Close() {
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.sqlDB != nil {
		_ = i.sqlDB.Close()
	}
}

type components struct {
	backend      *backend.Client
	directory    *employee.Directory
	runs         rotation.RunRepository
	outbox       kafka.OutboxRepository
	publisher    events.Publisher
	query        payroll.QueryService
	board        *payroll.Board
	transition   *payroll.TransitionManager
	orchestrator *rotation.Orchestrator
}

// buildComponents wires the payroll engine on top of infra. Every process
// builds the same graph and uses the parts it needs.
func buildComponents(cfg *config.Config, infra *infrastructure, logger *zap.Logger) (*components, error) {
	c := &components{publisher: events.NopPublisher{}}

	if err := c.migrate(infra); err != nil {
		return nil, err
	}

	var tokens backend.TokenSource
	if cfg.Backend.ServiceSecret != "" {
		tokens = backend.NewJWTTokenSource(cfg.Backend.ServiceSecret, 0)
	} else {
		logger.Warn("BACKEND_SERVICE_SECRET not set, calling backend without a token")
	}
	c.backend = backend.NewClient(backend.Options{
		BaseURL: cfg.Backend.BaseURL,
		Tokens:  tokens,
		Timeout: cfg.Backend.Timeout,
		Logger:  logger,
	})

	c.directory = employee.NewDirectory(c.backend, infra.redis, cfg.Rotation.DirectoryCacheTTL, logger)

	c.query = payroll.NewQueryService(c.backend, payroll.QueryOptions{
		Redis:          infra.redis,
		TTL:            cfg.Query.CacheTTL,
		ServerFiltered: cfg.Query.ServerFiltered,
		Logger:         logger,
	})
	c.board = payroll.NewBoard(c.query, cfg.Query.Debounce, logger)
	c.transition = payroll.NewTransitionManager(c.backend, c.board, c.publisher, logger)

	opts := rotation.OrchestratorOptions{
		Runs:      c.runs,
		Publisher: c.publisher,
		AfterRun: func(ctx context.Context, _ rotation.RunSummary) {
			_ = rotation.SettleAndRefresh(ctx, cfg.Rotation.SettleDelay, c.refreshers()...)
		},
		Logger: logger,
	}
	if infra.redis != nil {
		opts.Lock = rotation.NewRedisLock(infra.redis, cfg.Rotation.LockTTL)
	}
	creator := rotation.NewCreator(c.backend, rotation.NewPacer(cfg.Rotation.Pacing), logger)
	c.orchestrator = rotation.NewOrchestrator(c.directory, c.backend, creator, opts)

	return c, nil
}

// migrate prepares the run history and outbox tables and switches the
// publisher to the outbox when a database is configured.
func (c *components) migrate(infra *infrastructure) error {
	if infra.gormDB == nil {
		return nil
	}

	if err := infra.gormDB.AutoMigrate(&rotation.RotationRun{}); err != nil {
		return fmt.Errorf("migrate rotation runs: %w", err)
	}
	c.runs = rotation.NewRunRepository(infra.gormDB)

	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()
	c.outbox = kafka.NewOutboxRepository(infra.sqlDB)
	if err := c.outbox.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure outbox schema: %w", err)
	}
	c.publisher = kafka.NewOutboxPublisher(c.outbox)
	return nil
}

// refreshers drop the cached query results first so the board reload sees
// fresh backend data.
func (c *components) refreshers() []rotation.RefreshFunc {
	return []rotation.RefreshFunc{
		c.query.Invalidate,
		c.board.Refresh,
	}
}

func (c *components) versionWatcher(infra *infrastructure, cfg *config.Config) *payroll.VersionWatcher {
	if infra.redis == nil {
		return nil
	}
	return payroll.NewVersionWatcher(infra.redis, c.board.Refresh, cfg.Query.VersionPoll, zap.L())
}

func (c *components) Close() {
	c.board.Close()
}
