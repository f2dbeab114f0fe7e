package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"busly/internal/shared/config"
	"busly/pkg/logger"

	"github.com/IBM/sarama"
)

// KafkaConsumer runs the consumer group that turns published notifications into email
type KafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	topics        []string
	emailService  EmailService
	maxRetries    int
	backoff       time.Duration
	logger        *logger.Logger
	wg            sync.WaitGroup
}

func NewKafkaConsumer(cfg config.KafkaConfig, emailService EmailService) (*KafkaConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Consumer.MaxProcessingTime = 5 * time.Minute
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroup, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaConsumer{
		consumerGroup: group,
		topics:        []string{cfg.Topic},
		emailService:  emailService,
		maxRetries:    cfg.MaxRetries,
		backoff:       time.Second,
		logger:        logger.GetDefault(),
	}, nil
}

// Start launches numWorkers group members; they exit when ctx is cancelled
func (kc *KafkaConsumer) Start(ctx context.Context, numWorkers int) {
	kc.logger.Info("Starting notification consumers", "workers", numWorkers, "topics", kc.topics)

	kc.wg.Add(1)
	go func() {
		defer kc.wg.Done()
		for err := range kc.consumerGroup.Errors() {
			kc.logger.Error("Consumer group error", "error", err)
		}
	}()

	for i := 0; i < numWorkers; i++ {
		kc.wg.Add(1)
		go func(workerID int) {
			defer kc.wg.Done()
			kc.runWorker(ctx, workerID)
		}(i)
	}
}

func (kc *KafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &consumerGroupHandler{consumer: kc, workerID: workerID}
	for {
		if err := kc.consumerGroup.Consume(ctx, kc.topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			kc.logger.Error("Error consuming notifications", "worker", workerID, "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

// Stop closes the group and waits for the workers
func (kc *KafkaConsumer) Stop() error {
	err := kc.consumerGroup.Close()
	kc.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type consumerGroupHandler struct {
	consumer *KafkaConsumer
	workerID int
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.consumer.processMessage(session.Context(), message); err != nil {
				h.consumer.logger.Error("Failed to process notification",
					"worker", h.workerID,
					"partition", message.Partition,
					"offset", message.Offset,
					"error", err)
			}
			// failed deliveries are not redelivered; the failure is logged and counted
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (kc *KafkaConsumer) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var notification EmailNotification
	if err := json.Unmarshal(message.Value, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	if err := deliver(ctx, kc.emailService, &notification, kc.maxRetries, kc.backoff, kc.logger); err != nil {
		return fmt.Errorf("deliver notification %s: %w", notification.ID, err)
	}
	return nil
}
