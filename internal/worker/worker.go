package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"shopwidget/internal/config"
	"shopwidget/internal/logger"
	"shopwidget/internal/widget"

	"github.com/segmentio/kafka-go"
)

// Worker listens for catalog change events and re-fetches the widget's
// catalog when one lands. It shares the store with the API, so a refresh is
// visible to embeds on their next read.
type Worker struct {
	config *config.Config
	logger *logger.Logger
	reader *kafka.Reader
	store  *widget.Store
}

func New(cfg *config.Config, logger *logger.Logger, store *widget.Store) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.KafkaBrokers},
		GroupID:        "widget-refresher",
		Topic:          cfg.CatalogTopic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config: cfg,
		logger: logger,
		reader: reader,
		store:  store,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for catalog events...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if errors.Is(err, io.EOF) {
			// Reader closed, we are shutting down.
			return
		}
		if err != nil {
			if !errors.Is(err, context.DeadlineExceeded) {
				w.logger.Error("Failed to read message: %v", err)
			}
			continue
		}

		w.logger.Debug("Received message: %s", string(message.Value))

		var event Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		w.process(event)
	}
}

func (w *Worker) process(event Event) {
	switch event.Type {
	case "catalog.updated":
		scope := event.Dealers
		if len(scope) == 0 {
			scope = w.config.DealerScope
		}
		w.logger.Info("Catalog updated, refreshing (scope: %v)", scope)
		w.store.Initialize(context.Background(), scope)
	default:
		w.logger.Debug("Ignoring event type: %s", event.Type)
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}

// Event is a catalog change notification. Dealers optionally narrows the
// refresh scope; empty means the configured widget scope.
type Event struct {
	Type      string    `json:"type"`
	Dealers   []string  `json:"dealers"`
	Timestamp time.Time `json:"timestamp"`
}
