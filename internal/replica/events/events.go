// Package events publishes booking events of the dev replica to RabbitMQ.
// Publishing is best effort and happens off the request path: a broker
// outage is logged and never fails or delays the booking that caused the
// event.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/msto63/mTix/pkg/core/logging"
)

// Event types, used as routing keys and queue names
const (
	ReservationConfirmed = "reservation.confirmed"
	ReservationCancelled = "reservation.cancelled"
)

// Event describes one booking state change
type Event struct {
	Type               string    `json:"type"`
	ReservationID      string    `json:"reservation_id"`
	Kind               string    `json:"kind"`
	ConcertID          string    `json:"concert_id"`
	Holder             string    `json:"holder"`
	SeatTier           string    `json:"seat_tier"`
	SeatCount          int       `json:"seat_count"`
	AfterPartyQuantity int       `json:"after_party_quantity"`
	TotalPrice         float64   `json:"total_price"`
	At                 time.Time `json:"at"`
}

// Publisher delivers events somewhere
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop drops every event
type Nop struct{}

func (Nop) Publish(ctx context.Context, e Event) error { return nil }
func (Nop) Close() error                               { return nil }

// Memory keeps events in order, for tests and local inspection
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Publish(ctx context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *Memory) Close() error { return nil }

// Events returns a copy of everything published so far
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// Exchange is the durable topic exchange events are published to, with
// the event type as routing key
const Exchange = "mtix.events"

const (
	DefaultDialTimeout    = 2 * time.Second
	DefaultRedialBackoff  = 5 * time.Second
	DefaultPublishTimeout = 5 * time.Second

	queueSize = 256
)

var errClosed = errors.New("publisher closed")

// AMQP publishes persistent JSON messages to the topic exchange. Publish
// only queues the event; one goroutine owns the broker connection, opens
// it lazily and waits out a backoff after a failed dial before trying
// again. Events that cannot be delivered are logged and dropped.
type AMQP struct {
	url            string
	logger         *slog.Logger
	dialTimeout    time.Duration
	backoff        time.Duration
	publishTimeout time.Duration

	queue     chan Event
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	dropped   atomic.Uint64

	// owned by run
	conn    *amqp.Connection
	ch      *amqp.Channel
	retryAt time.Time
}

// AMQPOption configures an AMQP publisher
type AMQPOption func(*AMQP)

// WithDialTimeout bounds connecting and the AMQP handshake
func WithDialTimeout(d time.Duration) AMQPOption {
	return func(p *AMQP) {
		p.dialTimeout = d
	}
}

// WithRedialBackoff sets how long events are dropped after a failed dial
func WithRedialBackoff(d time.Duration) AMQPOption {
	return func(p *AMQP) {
		p.backoff = d
	}
}

// NewAMQP creates a publisher for the broker at url and starts its
// delivery goroutine
func NewAMQP(url string, logger *slog.Logger, opts ...AMQPOption) *AMQP {
	p := &AMQP{
		url:            url,
		logger:         logging.Component(logger, "events"),
		dialTimeout:    DefaultDialTimeout,
		backoff:        DefaultRedialBackoff,
		publishTimeout: DefaultPublishTimeout,
		queue:          make(chan Event, queueSize),
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	go p.run()
	return p
}

// Publish queues e for delivery. It fails only when the publisher is
// closed or its queue is full.
func (p *AMQP) Publish(ctx context.Context, e Event) error {
	select {
	case <-p.stop:
		return errClosed
	default:
	}
	select {
	case p.queue <- e:
		return nil
	default:
		p.drop(e, errors.New("event queue full"))
		return fmt.Errorf("event %s for %s dropped: queue full", e.Type, e.ReservationID)
	}
}

// Dropped returns how many events were given up on
func (p *AMQP) Dropped() uint64 {
	return p.dropped.Load()
}

// Close delivers what is already queued, then shuts the connection down.
// Idempotent.
func (p *AMQP) Close() error {
	p.closeOnce.Do(func() { close(p.stop) })
	<-p.done
	return nil
}

func (p *AMQP) run() {
	defer close(p.done)
	defer p.reset()
	for {
		select {
		case e := <-p.queue:
			p.deliver(e)
		case <-p.stop:
			for {
				select {
				case e := <-p.queue:
					p.deliver(e)
				default:
					return
				}
			}
		}
	}
}

func (p *AMQP) deliver(e Event) {
	body, err := json.Marshal(e)
	if err != nil {
		p.drop(e, err)
		return
	}
	ch, err := p.channel()
	if err != nil {
		p.drop(e, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.publishTimeout)
	defer cancel()
	err = ch.PublishWithContext(ctx, Exchange, e.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.At,
		MessageId:    e.ReservationID,
		Body:         body,
	})
	if err != nil {
		p.reset()
		p.drop(e, err)
	}
}

func (p *AMQP) drop(e Event, err error) {
	p.dropped.Add(1)
	p.logger.Warn("event dropped", "type", e.Type, "reservation_id", e.ReservationID, "error", err)
}

func (p *AMQP) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()
	if time.Now().Before(p.retryAt) {
		return nil, errors.New("broker unavailable")
	}

	ch, err := p.open()
	if err != nil {
		p.retryAt = time.Now().Add(p.backoff)
		return nil, err
	}
	return ch, nil
}

func (p *AMQP) open() (*amqp.Channel, error) {
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.dialTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declare(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn, p.ch = conn, ch
	p.logger.Info("broker connected", "exchange", Exchange)
	return ch, nil
}

// declare sets up the exchange and one durable queue per event type bound
// by its routing key
func declare(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", Exchange, err)
	}
	for _, q := range []string{ReservationConfirmed, ReservationCancelled} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
		if err := ch.QueueBind(q, q, Exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", q, err)
		}
	}
	return nil
}

func (p *AMQP) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
