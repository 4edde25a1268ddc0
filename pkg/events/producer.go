// Package events publishes match events to Kafka
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/Oikion/mvp-sub017/pkg/metrics"
	"github.com/Oikion/mvp-sub017/pkg/models"
	"github.com/Oikion/mvp-sub017/pkg/tracing"
)

// EventMatchesRanked is emitted after a stored client or property has been ranked
const EventMatchesRanked = "matches.ranked"

// Subject types of a ranking
const (
	SubjectClient   = "client"
	SubjectProperty = "property"
)

// MessageWriter is the part of kafka.Writer the producer uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer handles Kafka event emission
type Producer struct {
	writer MessageWriter
	logger ectologger.Logger
	topic  string
}

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg ProducerConfig, logger ectologger.Logger) *Producer {
	compression := kafka.Snappy
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	case "none":
		compression = 0
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}

	return NewProducerWithWriter(writer, cfg.Topic, logger)
}

// NewProducerWithWriter creates a producer on an existing writer
func NewProducerWithWriter(writer MessageWriter, topic string, logger ectologger.Logger) *Producer {
	return &Producer{
		writer: writer,
		logger: logger,
		topic:  topic,
	}
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// RankedMatch is the compact form of a MatchResult carried by events
type RankedMatch struct {
	ProfileID       string `json:"profile_id"`
	ListingID       string `json:"listing_id"`
	OverallScore    int    `json:"overall_score"`
	MatchedCriteria int    `json:"matched_criteria"`
	TotalCriteria   int    `json:"total_criteria"`
}

// MatchesRankedEvent describes one ranking of a stored client or property
type MatchesRankedEvent struct {
	EventType   string        `json:"event_type"`
	TenantID    string        `json:"tenant_id"`
	SubjectType string        `json:"subject_type"`
	SubjectID   string        `json:"subject_id"`
	Threshold   int           `json:"threshold"`
	Limit       int           `json:"limit"`
	Matches     []RankedMatch `json:"matches"`
	Timestamp   time.Time     `json:"timestamp"`
}

// NewMatchesRankedEvent builds the event for a ranking result
func NewMatchesRankedEvent(tenantID, subjectType, subjectID string, threshold, limit int, results []models.MatchResult) *MatchesRankedEvent {
	matches := make([]RankedMatch, len(results))
	for i, r := range results {
		matches[i] = RankedMatch{
			ProfileID:       r.ProfileID,
			ListingID:       r.ListingID,
			OverallScore:    r.OverallScore,
			MatchedCriteria: r.MatchedCriteria,
			TotalCriteria:   r.TotalCriteria,
		}
	}

	return &MatchesRankedEvent{
		EventType:   EventMatchesRanked,
		TenantID:    tenantID,
		SubjectType: subjectType,
		SubjectID:   subjectID,
		Threshold:   threshold,
		Limit:       limit,
		Matches:     matches,
	}
}

// PublishMatchesRanked publishes a ranking event keyed by its subject
func (p *Producer) PublishMatchesRanked(ctx context.Context, event *MatchesRankedEvent) error {
	ctx, span := tracing.StartSpan(ctx, "events.Producer.PublishMatchesRanked")
	defer span.End()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.SubjectID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "tenant_id", Value: []byte(event.TenantID)},
			{Key: "subject_type", Value: []byte(event.SubjectType)},
			{Key: "schema_version", Value: []byte("1.0")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		metrics.RecordKafkaPublish(p.topic, metrics.StatusFailure)
		p.logger.WithContext(ctx).WithError(err).Error("Failed to publish matches ranked event")
		return err
	}
	metrics.RecordKafkaPublish(p.topic, metrics.StatusSuccess)

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"event_type":   event.EventType,
		"subject_type": event.SubjectType,
		"subject_id":   event.SubjectID,
		"matches":      len(event.Matches),
	}).Debug("Published matches ranked event")

	return nil
}
