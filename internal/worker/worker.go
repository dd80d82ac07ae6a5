package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"sellsync/internal/config"
	"sellsync/internal/logger"
	"sellsync/internal/worker/processors"

	"github.com/segmentio/kafka-go"
)

// Processor handles one decoded event.
type Processor interface {
	Process(ctx context.Context, event processors.Event) error
}

type Worker struct {
	config    *config.Config
	logger    *logger.Logger
	reader    *kafka.Reader
	processor Processor
}

func New(cfg *config.Config, logger *logger.Logger, processor Processor) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        Brokers(cfg.KafkaBrokers),
		GroupID:        "sellsync-worker",
		Topic:          cfg.KafkaSyncTopic,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config:    cfg,
		logger:    logger,
		reader:    reader,
		processor: processor,
	}
}

// Brokers splits a comma separated broker list.
func Brokers(list string) []string {
	var brokers []string
	for _, b := range strings.Split(list, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Start consumes sync events until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Worker started, listening for sync events on %s...", w.config.KafkaSyncTopic)

	for {
		message, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			w.logger.Error("Failed to read message: %v", err)
			time.Sleep(time.Second)
			continue
		}

		w.logger.Debug("Received message: %s", string(message.Value))
		w.handle(ctx, message.Value)
	}
}

func (w *Worker) handle(ctx context.Context, payload []byte) {
	var event processors.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		w.logger.Error("Failed to parse event: %v", err)
		return
	}

	if err := w.processor.Process(ctx, event); err != nil {
		w.logger.Error("Failed to process event for account %s: %v", event.AccountID, err)
		return
	}

	w.logger.Debug("Event processed successfully")
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
