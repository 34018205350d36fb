// Package kafka publishes completed turn audit records to a Kafka topic when
// the audit stream is enabled.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/hi-updesh/my-space-agent/internal/agent"
	"github.com/hi-updesh/my-space-agent/internal/config"
)

// AuditWriter produces turn audit records to the audit topic.
// It implements agent.AuditSink.
type AuditWriter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewAuditWriter creates a Kafka producer for the configured audit topic.
func NewAuditWriter(cfg *config.Config, logger *slog.Logger) *AuditWriter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.AuditTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &AuditWriter{writer: w, logger: logger}
}

// Publish serializes one audit record and writes it keyed by turn ID.
func (w *AuditWriter) Publish(ctx context.Context, audit agent.TurnAudit) error {
	msg, err := serializeToMessage(audit)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *AuditWriter) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a TurnAudit into a Kafka message.
func serializeToMessage(audit agent.TurnAudit) (kafkago.Message, error) {
	data, err := json.Marshal(audit)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize turn audit: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(audit.TurnID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "outcome", Value: []byte(audit.Outcome)},
			{Key: "completed_at", Value: []byte(audit.CompletedAt.Format(time.RFC3339))},
		},
	}, nil
}
