package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"github.com/jhoicas/cuentas-api/internal/application/ports"
	"github.com/jhoicas/cuentas-api/pkg/logger"
)

const (
	schemaVersion              = "1.0"
	eventTypeAccountRegistered = "account.registered"
)

var (
	_ ports.EventPublisher = (*Publisher)(nil)
	_ ports.EventPublisher = NoopPublisher{}
)

// Config brokers y prefijo de tópicos.
type Config struct {
	Brokers     []string
	TopicPrefix string
	ClientID    string
}

// Publisher publica eventos de dominio con un SyncProducer de sarama.
type Publisher struct {
	producer sarama.SyncProducer
	prefix   string
	source   string
	log      *logger.Logger
}

type eventEnvelope struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Payload   any       `json:"payload"`
}

// NewSyncProducer crea el productor con acks del líder y reintentos acotados.
func NewSyncProducer(cfg Config) (sarama.SyncProducer, error) {
	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Producer.RequiredAcks = sarama.WaitForLocal
	sc.Producer.Retry.Max = 3
	sc.Producer.Return.Successes = true
	sc.Metadata.Retry.Max = 3
	sc.Metadata.Retry.Backoff = 250 * time.Millisecond

	p, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("crear productor kafka: %w", err)
	}
	return p, nil
}

// NewPublisher envuelve un productor existente (real o mock).
func NewPublisher(producer sarama.SyncProducer, cfg Config, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.Nop()
	}
	return &Publisher{producer: producer, prefix: cfg.TopicPrefix, source: cfg.ClientID, log: log.Named("kafka")}
}

// Topic nombre completo del tópico para un tipo de evento.
func (p *Publisher) Topic(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

// PublishAccountRegistered clave = ID de la cuenta.
func (p *Publisher) PublishAccountRegistered(ctx context.Context, evt ports.AccountRegisteredEvent) error {
	return p.publish(ctx, eventTypeAccountRegistered, evt.AccountID, evt.OccurredAt, evt)
}

func (p *Publisher) publish(ctx context.Context, eventType, key string, ts time.Time, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ts.IsZero() {
		ts = time.Now()
	}
	body, err := json.Marshal(eventEnvelope{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Source:    p.source,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
	})
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	topic := p.Topic(eventType)
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(body),
	})
	if err != nil {
		return fmt.Errorf("publicar %s: %w", topic, err)
	}
	p.log.Debug().Str("topic", topic).Int32("partition", partition).Int64("offset", offset).Msg("evento publicado")
	return nil
}

// Close cierra el productor.
func (p *Publisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher descarta eventos cuando no hay brokers configurados.
type NoopPublisher struct{}

func (NoopPublisher) PublishAccountRegistered(context.Context, ports.AccountRegisteredEvent) error {
	return nil
}
