package notifications

import (
	"context"
	"fmt"
	"time"

	"busly/internal/shared/config"
	"busly/pkg/logger"
)

// Service owns the notification pipeline: dispatcher, publisher and, when
// Kafka is configured, the consumer group that performs delivery.
type Service struct {
	dispatcher *Dispatcher
	consumer   *KafkaConsumer
	workers    int
	notifier   *BookingNotifier
	cancel     context.CancelFunc
	logger     *logger.Logger
}

func NewService(cfg *config.Config) (*Service, error) {
	emailService := NewEmailService(cfg.Email)

	var (
		publisher Publisher
		consumer  *KafkaConsumer
	)
	if cfg.KafkaEnabled() {
		producer, err := NewKafkaProducer(cfg.Kafka)
		if err != nil {
			return nil, fmt.Errorf("failed to create notification producer: %w", err)
		}
		consumer, err = NewKafkaConsumer(cfg.Kafka, emailService)
		if err != nil {
			producer.Close()
			return nil, fmt.Errorf("failed to create notification consumer: %w", err)
		}
		publisher = producer
	} else {
		publisher = NewDirectPublisher(emailService, cfg.Kafka.MaxRetries, time.Second)
	}

	dispatcher := NewDispatcher(publisher, cfg.Booking.NotificationQueueSize, cfg.Booking.NotificationWorkers)

	return &Service{
		dispatcher: dispatcher,
		consumer:   consumer,
		workers:    cfg.Kafka.Workers,
		notifier:   NewBookingNotifier(dispatcher),
		logger:     logger.GetDefault(),
	}, nil
}

// Notifier is the booking-facing side of the pipeline
func (s *Service) Notifier() *BookingNotifier {
	return s.notifier
}

func (s *Service) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.dispatcher.Start(ctx)
	if s.consumer != nil {
		s.consumer.Start(ctx, s.workers)
	}
	s.logger.Info("Notification service started", "kafka", s.consumer != nil)
}

// Stop drains queued notifications, then shuts the consumers down
func (s *Service) Stop(ctx context.Context) error {
	err := s.dispatcher.Stop(ctx)
	if s.cancel != nil {
		s.cancel()
	}
	if s.consumer != nil {
		if cerr := s.consumer.Stop(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
