package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Report lifecycle event types published for downstream consumers
// (dispatch dashboards, notification services).
const (
	EventReportFiled       = "report.filed"
	EventOfficerAssigned   = "report.officer_assigned"
	EventCaseAccepted      = "report.case_accepted"
	EventNeedsManualReview = "report.needs_manual_review"
)

// ReportEvent is the payload published for every report lifecycle event.
type ReportEvent struct {
	Event       string    `json:"event"`
	ReportID    string    `json:"report_id"`
	ReportType  string    `json:"report_type"`
	Status      string    `json:"status"`
	Urgency     string    `json:"urgency,omitempty"`
	Category    string    `json:"category,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher emits report lifecycle events. Publish failures must never block
// or fail report processing; callers log and continue.
type Publisher interface {
	Publish(event *ReportEvent) error
	Close() error
}

type amqpPublisher struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

// NewAMQPPublisher connects to RabbitMQ and declares the event queue.
func NewAMQPPublisher(uri, queueName string, logger *zap.Logger) (Publisher, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	logger.Info("Connected to RabbitMQ", zap.String("queue", queueName))
	return &amqpPublisher{conn: conn, channel: ch, queueName: queueName, logger: logger}, nil
}

func (p *amqpPublisher) Publish(event *ReportEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (p *amqpPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

type noopPublisher struct{}

// NewNoopPublisher returns a Publisher that discards all events. Used when the
// queue is disabled in config and in tests.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(*ReportEvent) error { return nil }
func (noopPublisher) Close() error               { return nil }
