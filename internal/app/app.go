package app

import (
	"context"
	"net/http"
	"time"

	"etqan-payroll/internal/config"
	"etqan-payroll/internal/middleware"
	"etqan-payroll/internal/payroll"
	"etqan-payroll/internal/rotation"
	"etqan-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const initialBoardLoadTimeout = 30 * time.Second

// BuildApp wires the API process onto router. The returned func releases
// everything BuildApp opened.
func BuildApp(router *gin.Engine, cfg *config.Config) (func(), error) {
	logger := zap.L().Named("app.api")

	infra, err := connectInfrastructure(cfg)
	if err != nil {
		return nil, err
	}

	comps, err := buildComponents(cfg, infra, zap.L())
	if err != nil {
		infra.Close()
		return nil, err
	}

	registerModules(router, comps, infra)

	watchCtx, stopWatch := context.WithCancel(context.Background())
	go func() {
		ctx, cancel := context.WithTimeout(watchCtx, initialBoardLoadTimeout)
		defer cancel()
		if err := comps.board.Refresh(ctx); err != nil {
			logger.Warn("initial payroll board load failed", zap.Error(err))
		}
	}()

	// Rotations in the worker only bump the cache version; follow it so the
	// board served here picks up the periods they open.
	if watcher := comps.versionWatcher(infra, cfg); watcher != nil {
		go watcher.Run(watchCtx)
	} else {
		logger.Warn("no redis configured, board reloads only on local runs and requests")
	}

	logger.Info("api wired",
		zap.Bool("database", infra.gormDB != nil),
		zap.Bool("redis", infra.redis != nil),
	)

	return func() {
		stopWatch()
		comps.Close()
		infra.Close()
	}, nil
}

func registerModules(router *gin.Engine, comps *components, infra *infrastructure) {
	router.Use(middleware.ContextLogger(zap.L()), middleware.AccessLog(zap.L().Named("http")))

	router.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{
			"status":           "ok",
			"rotation_running": comps.orchestrator.InFlight(),
		}, nil)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// --- Handlers ---
	payrollHandler := payroll.NewHandlerWithRedis(comps.query, comps.board, comps.transition, infra.redis)
	rotationHandler := rotation.NewHandler(rotation.NewService(comps.orchestrator, comps.runs))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		payroll.RegisterRoutes(api, payrollHandler, infra.redis)
		rotation.RegisterRoutes(api, rotationHandler)
	}
}
