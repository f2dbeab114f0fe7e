package notifications

import (
	"context"
	"fmt"
	"time"

	"busly/internal/metrics"
	"busly/internal/shared/config"
	"busly/pkg/logger"

	"github.com/IBM/sarama"
)

// Publisher hands a notification to its delivery path
type Publisher interface {
	Publish(ctx context.Context, notification *EmailNotification) error
	Close() error
}

// KafkaProducer publishes notifications for the consumer group to deliver
type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *logger.Logger
}

func newProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Timeout = 10 * time.Second
	cfg.Producer.Idempotent = true
	cfg.Producer.MaxMessageBytes = 1000000
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	cfg.Net.MaxOpenRequests = 1
	return cfg
}

func NewKafkaProducer(cfg config.KafkaConfig) (*KafkaProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, newProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaProducerWith(producer, cfg.Topic), nil
}

// NewKafkaProducerWith wraps an existing sync producer
func NewKafkaProducerWith(producer sarama.SyncProducer, topic string) *KafkaProducer {
	return &KafkaProducer{producer: producer, topic: topic, logger: logger.GetDefault()}
}

func (kp *KafkaProducer) Publish(ctx context.Context, notification *EmailNotification) error {
	notification.setStatus(NotificationStatusQueued)

	payload, err := notification.Encode()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     kp.topic,
		Key:       sarama.StringEncoder(notification.PartitionKey()),
		Value:     sarama.ByteEncoder(payload),
		Headers:   kp.createHeaders(notification),
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := kp.producer.SendMessage(message)
	if err != nil {
		notification.MarkFailed(err)
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	kp.logger.DebugContext(ctx, "Notification published",
		"topic", kp.topic,
		"partition", partition,
		"offset", offset,
		"type", string(notification.Type))
	return nil
}

func (kp *KafkaProducer) createHeaders(n *EmailNotification) []sarama.RecordHeader {
	headers := []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(n.ID.String())},
		{Key: []byte("notification_type"), Value: []byte(n.Type)},
		{Key: []byte("priority"), Value: []byte(n.Priority)},
		{Key: []byte("producer"), Value: []byte("busly-api")},
		{Key: []byte("created_at"), Value: []byte(n.CreatedAt.Format(time.RFC3339))},
		{Key: []byte("booking_id"), Value: []byte(n.BookingID.String())},
	}
	return headers
}

func (kp *KafkaProducer) Close() error {
	if err := kp.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

// DirectPublisher delivers in-process when no broker is configured
type DirectPublisher struct {
	emailService EmailService
	maxRetries   int
	backoff      time.Duration
	logger       *logger.Logger
}

func NewDirectPublisher(emailService EmailService, maxRetries int, backoff time.Duration) *DirectPublisher {
	return &DirectPublisher{
		emailService: emailService,
		maxRetries:   maxRetries,
		backoff:      backoff,
		logger:       logger.GetDefault(),
	}
}

func (dp *DirectPublisher) Publish(ctx context.Context, notification *EmailNotification) error {
	return deliver(ctx, dp.emailService, notification, dp.maxRetries, dp.backoff, dp.logger)
}

func (dp *DirectPublisher) Close() error { return nil }

// deliver sends with retries and records the outcome on the notification
func deliver(ctx context.Context, sender EmailService, n *EmailNotification, maxRetries int, backoff time.Duration, log *logger.Logger) error {
	n.setStatus(NotificationStatusSending)
	err := withRetry(ctx, maxRetries, backoff, func(attempt int) error {
		n.Attempts = attempt
		err := sender.SendNotification(ctx, n)
		if err != nil && attempt < maxRetries {
			log.WarnContext(ctx, "Email delivery failed, retrying",
				"notification_id", n.ID.String(), "attempt", attempt+1, "error", err)
		}
		return err
	})
	if err != nil {
		n.MarkFailed(err)
		metrics.NotificationFailures.WithLabelValues(n.Type.Label(), "deliver").Inc()
		return err
	}

	n.MarkSent()
	metrics.NotificationsDelivered.WithLabelValues(n.Type.Label()).Inc()
	return nil
}
