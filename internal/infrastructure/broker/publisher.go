package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"

	"github.com/compunet/ticketing-api/internal/core/domain"
)

const (
	streamName     = "TICKETING"
	subjectPrefix  = "ticketing"
	publishTimeout = 5 * time.Second
)

// Publisher writes domain events to a JetStream stream. Subjects follow
// ticketing.<entity>.<action>.
type Publisher struct {
	nc  *nats.Conn
	js  jetstream.JetStream
	log zerolog.Logger
}

// NewPublisher connects to NATS and makes sure the TICKETING stream exists.
func NewPublisher(ctx context.Context, natsURL string, log zerolog.Logger) (*Publisher, error) {
	nc, err := nats.Connect(natsURL, nats.Name("ticketing-api"))
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create jetstream: %w", err)
	}

	streamCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(streamCtx, jetstream.StreamConfig{
		Name:      streamName,
		Subjects:  []string{subjectPrefix + ".>"},
		Retention: jetstream.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   jetstream.FileStorage,
	})
	if err != nil {
		log.Warn().Err(err).Str("stream", streamName).Msg("failed to create stream (may already exist)")
	}

	return &Publisher{nc: nc, js: js, log: log}, nil
}

func (p *Publisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	subject := Subject(event)
	// The event id doubles as the JetStream dedup id so retries are absorbed.
	if _, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(event.ID)); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.log.Debug().Str("subject", subject).Str("event_id", event.ID).Msg("published event")
	return nil
}

// Ping reports whether the NATS connection is usable.
func (p *Publisher) Ping(context.Context) error {
	if !p.nc.IsConnected() {
		return fmt.Errorf("nats: %s", p.nc.Status())
	}
	return nil
}

func (p *Publisher) Close() {
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
	}
}

// Subject returns the stream subject for an event.
func Subject(event domain.DomainEvent) string {
	return subjectPrefix + "." + event.Entity + "." + event.Action
}

// LogPublisher stands in for NATS when no broker is configured. It only logs.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.DomainEvent) error {
	p.log.Info().
		Str("subject", Subject(event)).
		Str("event_id", event.ID).
		Str("entity_id", event.EntityID).
		Msg("domain event")
	return nil
}
