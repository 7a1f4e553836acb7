package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cardiocare/platform/pkg/common/config"
	"github.com/cardiocare/platform/pkg/common/kafka"
	"github.com/cardiocare/platform/pkg/common/logger"
	"github.com/cardiocare/platform/pkg/common/models"
)

// record-audit-service writes one audit log line per record event.
func main() {
	logger.Init("record-audit-service")
	cfg := config.Load()

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.RecordEventsTopic, cfg.KafkaGroupID)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log.WithFields(map[string]interface{}{
		"topic": cfg.RecordEventsTopic,
		"group": cfg.KafkaGroupID,
	}).Info("record audit consumer started")

	if err := consumer.Consume(ctx, audit); err != nil && ctx.Err() == nil {
		logger.Log.WithError(err).Fatal("record audit consumer failed")
	}
	logger.Log.Info("record audit consumer stopped")
}

func audit(ctx context.Context, event models.Event) error {
	entry := logger.Log.WithFields(map[string]interface{}{
		"event_id":   event.ID,
		"event_type": event.Type,
		"source":     event.Source,
		"timestamp":  event.Timestamp,
	})
	for key, value := range event.Data {
		entry = entry.WithField(key, value)
	}
	switch event.Type {
	case models.EventRecordAdded, models.EventRecordDeleted:
		entry.Info("record event")
	default:
		entry.Warn("unexpected record event type")
	}
	return nil
}
