package broker

import (
	"context"
	"encoding/json"
	"time"

	"aircon_control/internal/logger"
	"aircon_control/internal/models"
	"aircon_control/internal/repository"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const publishTimeout = 5 * time.Second

// NewKafkaWriter returns a writer for the control-event topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}

// PublishingEventRepo stores events in the wrapped repository and then
// publishes them, keyed by event type. Publish failures are logged only;
// the database stays the source of truth.
type PublishingEventRepo struct {
	next   repository.EventRepo
	writer messageWriter
	log    *logger.Logger
}

func NewPublishingEventRepo(next repository.EventRepo, w messageWriter, log *logger.Logger) *PublishingEventRepo {
	return &PublishingEventRepo{next: next, writer: w, log: log}
}

var _ repository.EventRepo = (*PublishingEventRepo)(nil)

func (p *PublishingEventRepo) Append(ctx context.Context, e models.ControlEvent) error {
	// fill identity here so the stored and published copies agree
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	if err := p.next.Append(ctx, e); err != nil {
		return err
	}

	value, err := json.Marshal(e)
	if err != nil {
		p.log.Warnw("event not published", "event_id", e.EventID, "err", err)
		return nil
	}
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(pctx, kafka.Message{
		Key:   []byte(e.Type),
		Value: value,
		Time:  e.OccurredAt,
	}); err != nil {
		p.log.Warnw("kafka publish failed", "event_id", e.EventID, "type", e.Type, "err", err)
	}
	return nil
}

func (p *PublishingEventRepo) List(ctx context.Context, from, to time.Time, typ string, limit int) ([]models.ControlEvent, error) {
	return p.next.List(ctx, from, to, typ, limit)
}

// Close flushes and closes the Kafka writer.
func (p *PublishingEventRepo) Close() error {
	return p.writer.Close()
}
