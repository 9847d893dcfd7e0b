package app

import (
	"context"
	"fmt"

	"etqan-payroll/internal/bootstrap"
	"etqan-payroll/internal/config"
	"etqan-payroll/internal/events"
	"etqan-payroll/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const lifecycleConsumerGroup = "etqan-payroll-employee-lifecycle"

func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

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

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.EmployeeLifecycleTopic,
		GroupID:        lifecycleConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.ConsumeEmployeeLifecycle(ctx, reader, comps.orchestrator, comps.directory, logger, consumer.DefaultRetryPolicy)
	}()

	sig := bootstrap.WaitForSignal()
	logger.Info("consumer shutting down", zap.String("signal", sig.String()))
	cancel()
	<-done

	return nil
}
