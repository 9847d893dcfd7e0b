package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"etqan-payroll/internal/bootstrap"
	"etqan-payroll/internal/config"
	"etqan-payroll/internal/messaging/kafka/producer"
	"etqan-payroll/internal/rotation"
	"etqan-payroll/internal/shared/connection"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const schedulerStopTimeout = 30 * time.Second

// RunWorker performs the startup rotation, keeps the cron schedule and
// drains the outbox until the process is signalled.
func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")
	audit := bootstrap.NewStdoutAuditLogger()

	infra, err := connectInfrastructure(cfg)
	if err != nil {
		return err
	}
	defer infra.Close()

	comps, err := buildComponents(cfg, infra, zap.L())
	if err != nil {
		return err
	}
	defer comps.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.KafkaBroker != "" && comps.outbox != nil {
		kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, connectRetries)
		if err != nil {
			return err
		}
		defer kafkaWriter.Close()

		go producer.ProcessOutboxEvents(ctx, comps.outbox, kafkaWriter, logger, producer.DefaultPollInterval)
	} else {
		logger.Warn("outbox relay disabled, needs KAFKA_BROKER and a database")
	}

	rotate := func(ctx context.Context, trigger string) {
		summary, err := rotation.RunAndRefresh(ctx, comps.orchestrator, trigger, cfg.Rotation.SettleDelay, comps.refreshers()...)
		if err != nil {
			logger.Error("rotation failed", zap.String("trigger", trigger), zap.Error(err))
			return
		}
		logger.Info("rotation complete",
			zap.String("trigger", trigger),
			zap.String("run_id", summary.RunID),
			zap.Int("checked", summary.Checked),
			zap.Int("created", summary.Created),
		)
	}

	if cfg.Rotation.RunOnStartup {
		go rotate(ctx, rotation.TriggerStartup)
	}

	var scheduler *rotation.Scheduler
	if cfg.Rotation.Cron != "" {
		scheduler, err = rotation.NewScheduler(ctx, cfg.Rotation.Cron, cfg.Location, func(ctx context.Context) {
			rotate(ctx, rotation.TriggerSchedule)
		}, logger)
		if err != nil {
			return err
		}
		scheduler.Start()
		audit.Log(ctx, bootstrap.AuditLog{
			Action:  "ROTATION_SCHEDULED",
			Message: "Rotation cron registered",
			Meta: map[string]any{
				"cron":     cfg.Rotation.Cron,
				"next_run": scheduler.Next().Format(time.RFC3339),
			},
		})
	}

	metricsServer := startMetricsServer(cfg.MetricsPort, logger)

	sig := bootstrap.WaitForSignal()
	audit.Log(context.Background(), bootstrap.AuditLog{
		Action:  "WORKER_SHUTDOWN",
		Message: "Worker is shutting down",
		Meta:    map[string]any{"signal": sig.String()},
	})

	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), schedulerStopTimeout)
	defer stopCancel()
	if scheduler != nil {
		scheduler.Stop(stopCtx)
	}
	if metricsServer != nil {
		_ = metricsServer.Shutdown(stopCtx)
	}

	return nil
}

func startMetricsServer(port string, logger *zap.Logger) *http.Server {
	if port == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("metrics server running", zap.String("port", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
	return server
}
