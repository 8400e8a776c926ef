package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/care-coord/internal/config"
	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/MKhiriev/care-coord/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpChannel is the subset of *amqp.Channel used by the publisher.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// amqpPublisher publishes JSON encoded events to a durable topic exchange.
// An AMQP channel is not safe for concurrent publishing, so every publish
// holds mu.
type amqpPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
	closed   bool

	logger *logger.Logger
}

// NewAMQPPublisher dials cfg.AMQPURL, opens a channel and declares the
// durable topic exchange cfg.Exchange.
func NewAMQPPublisher(cfg config.Broker, log *logger.Logger) (EventPublisher, error) {
	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		log.Err(err).Str("func", "NewAMQPPublisher").Msg("rabbitmq: dial failed")
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		log.Err(err).Str("func", "NewAMQPPublisher").Msg("rabbitmq: channel open failed")
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // autoDelete
		false,        // internal
		false,        // noWait
		nil,          // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		log.Err(err).Str("func", "NewAMQPPublisher").Str("exchange", cfg.Exchange).Msg("rabbitmq: exchange declare failed")
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	log.Info().Str("func", "NewAMQPPublisher").Str("exchange", cfg.Exchange).Msg("connected to message broker")
	return newAMQPPublisher(conn, ch, cfg.Exchange, log), nil
}

func newAMQPPublisher(conn *amqp.Connection, ch amqpChannel, exchange string, log *logger.Logger) *amqpPublisher {
	return &amqpPublisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		logger:   log,
	}
}

// Publish implements [EventPublisher]. Messages are persistent and carry the
// event id as AMQP message id so consumers can deduplicate.
func (p *amqpPublisher) Publish(ctx context.Context, event models.UserEvent) error {
	log := logger.FromContext(ctx)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event: %w", ErrPublishFailed, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         string(event.Type),
		Timestamp:    event.OccurredAt.UTC().Truncate(time.Second),
		AppId:        "care-coord",
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPublisherClosed
	}

	if err = p.channel.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, msg); err != nil {
		log.Err(err).
			Str("func", "*amqpPublisher.Publish").
			Str("event_type", string(event.Type)).
			Str("event_id", event.ID).
			Msg("rabbitmq: publish failed")
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	log.Debug().
		Str("func", "*amqpPublisher.Publish").
		Str("event_type", string(event.Type)).
		Str("event_id", event.ID).
		Int64("user_id", event.UserID).
		Msg("event published")
	return nil
}

// Close implements [EventPublisher].
func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	err := p.channel.Close()
	if p.conn != nil {
		if connErr := p.conn.Close(); connErr != nil && err == nil {
			err = connErr
		}
	}
	return err
}
