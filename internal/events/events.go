package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/therealutkarshpriyadarshi/videolib/internal/config"
	"github.com/therealutkarshpriyadarshi/videolib/internal/metrics"
	"github.com/therealutkarshpriyadarshi/videolib/pkg/models"
)

const (
	// VideoCreated is the routing key for newly persisted videos
	VideoCreated = "video.created"

	publishTimeout = 5 * time.Second
)

// Event is the message body published for domain events
type Event struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"`
	OccurredAt string        `json:"occurred_at"`
	Video      *models.Video `json:"video"`
}

// Publisher publishes domain events to a topic exchange
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string

	// amqp channels are not safe for concurrent publishing
	mu sync.Mutex
}

// URL builds the broker URL from configuration, escaping credentials
func URL(cfg config.EventsConfig) string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   cfg.Vhost,
	}
	return u.String()
}

// New connects to the broker and declares the events exchange
func New(cfg config.EventsConfig) (*Publisher, error) {
	conn, err := amqp.Dial(URL(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: cfg.Exchange,
	}, nil
}

// Close closes the broker connection
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NewMessage builds the persistent JSON message for an event
func NewMessage(eventType string, video *models.Video, now time.Time) (amqp.Publishing, error) {
	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: models.FormatTimestamp(now),
		Video:      video,
	}

	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal event: %w", err)
	}

	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    event.ID,
		Type:         eventType,
		Body:         body,
		Timestamp:    now,
	}, nil
}

// PublishVideoCreated publishes a video.created event
func (p *Publisher) PublishVideoCreated(ctx context.Context, video *models.Video) error {
	err := p.publish(ctx, VideoCreated, video)

	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.RecordEventPublished(VideoCreated, status)

	return err
}

func (p *Publisher) publish(ctx context.Context, eventType string, video *models.Video) error {
	msg, err := NewMessage(eventType, video, time.Now())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		eventType,
		false, // mandatory
		false, // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}

	return nil
}
