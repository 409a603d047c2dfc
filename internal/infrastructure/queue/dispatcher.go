package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/compunet/ticketing-api/internal/api/metrics"
	"github.com/compunet/ticketing-api/internal/core/domain"
	"github.com/compunet/ticketing-api/internal/core/ports"
	"github.com/compunet/ticketing-api/internal/infrastructure/broker"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes domain events to a fixed set of workers using consistent
// hashing on the entity id, preserving per-entity publish order.
type Dispatcher struct {
	workers   []chan domain.DomainEvent
	publisher ports.EventPublisher
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, publisher ports.EventPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.DomainEvent, numWorkers),
		publisher: publisher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.DomainEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain what is already queued
// and stop once ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands an event to the worker responsible for its entity. It never
// blocks the request path: when the worker queue is full the event is
// dropped and counted.
func (d *Dispatcher) Enqueue(event domain.DomainEvent) {
	idx := d.shardIndex(event.EntityID)
	select {
	case d.workers[idx] <- event:
		metrics.DomainEventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.DomainEventsDroppedTotal.Inc()
		d.log.Warn().
			Str("subject", broker.Subject(event)).
			Str("entity_id", event.EntityID).
			Int("worker_id", idx).
			Msg("dispatcher queue full, event dropped")
	}
}

// shardIndex maps an entity id deterministically to a worker index.
func (d *Dispatcher) shardIndex(entityID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(entityID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.DomainEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case event := <-ch:
			metrics.DomainEventsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.publish(ctx, id, event)
		}
	}
}

// drain flushes events still buffered at shutdown with a short deadline of
// their own, since the worker context is already cancelled.
func (d *Dispatcher) drain(id int, ch <-chan domain.DomainEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case event := <-ch:
			d.publish(ctx, id, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) publish(ctx context.Context, id int, event domain.DomainEvent) {
	subject := broker.Subject(event)
	start := time.Now()
	err := d.publisher.Publish(ctx, event)
	metrics.DomainEventPublishDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.DomainEventsPublishedTotal.WithLabelValues(subject, "error").Inc()
		d.log.Error().Err(err).
			Str("subject", subject).
			Str("entity_id", event.EntityID).
			Int("worker_id", id).
			Msg("domain event publish failed")
		return
	}
	metrics.DomainEventsPublishedTotal.WithLabelValues(subject, "ok").Inc()
}
