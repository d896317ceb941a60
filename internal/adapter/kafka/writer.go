package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/climate-data-etl/internal/config"
	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
)

// maxDocumentBytes caps the single message carrying the whole document.
// Brokers must allow at least this much via message.max.bytes.
const maxDocumentBytes = 16 << 20

// Writer publishes the dataset document to a Kafka topic as one message.
// It implements pipeline.Loader.
type Writer struct {
	writer  *kafkago.Writer
	key     string
	timeout time.Duration
	clock   clockwork.Clock
	newID   func() string
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic. Messages are
// keyed by the output file name so compacted topics keep the latest document.
func NewWriter(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    1,
		BatchBytes:   maxDocumentBytes,
	}
	return &Writer{
		writer:  w,
		key:     filepath.Base(cfg.OutputPath),
		timeout: cfg.ShutdownTimeout,
		clock:   clock,
		newID:   uuid.NewString,
		logger:  logger,
	}
}

// Load serializes datasets and publishes them, bounded by the configured timeout.
func (w *Writer) Load(ctx context.Context, datasets []*domain.Dataset) error {
	docID := w.newID()
	msg, err := serializeToMessage(w.key, docID, datasets, w.clock.Now())
	if err != nil {
		return err
	}

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish datasets to %s: %w", w.writer.Topic, err)
	}

	w.logger.Info("dataset document published", "topic", w.writer.Topic, "key", w.key, "document_id", docID, "bytes", len(msg.Value))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals the dataset document into a Kafka message.
// documentID is unique per Load.
func serializeToMessage(key, documentID string, datasets []*domain.Dataset, processedAt time.Time) (kafkago.Message, error) {
	if datasets == nil {
		datasets = []*domain.Dataset{}
	}
	data, err := json.Marshal(datasets)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize datasets: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "dataset_count", Value: []byte(strconv.Itoa(len(datasets)))},
			{Key: "processed_at", Value: []byte(processedAt.UTC().Format(time.RFC3339))},
			{Key: "document_id", Value: []byte(documentID)},
		},
	}, nil
}
