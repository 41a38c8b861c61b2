package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/HanapBahay/service-booking/internal/application"
	"github.com/HanapBahay/service-booking/internal/domain/booking"
	"github.com/HanapBahay/service-booking/internal/pkg/domain"
	"github.com/HanapBahay/service-booking/internal/pkg/kafka"
)

// Gateway webhook verdicts relayed onto the payment topic.
const (
	PaymentPaid   = "payment.paid"
	PaymentFailed = "payment.failed"
)

// PaymentResultEvent is the payload relayed from the gateway webhook.
type PaymentResultEvent struct {
	BookingID uuid.UUID `json:"booking_id"`
	PaymentID string    `json:"payment_id"`
	Reason    string    `json:"reason,omitempty"`
}

// PaymentEventConsumer listens to gateway payment verdicts and applies the
// matching booking transition.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	service  *application.BookingService
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	service *application.BookingService,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, booking.TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case PaymentPaid:
		return c.handleResult(ctx, cloudEvent, true)
	case PaymentFailed:
		return c.handleResult(ctx, cloudEvent, false)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handleResult(ctx context.Context, cloudEvent kafka.CloudEvent, paid bool) error {
	var evt PaymentResultEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse payment result data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing payment result",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("payment_id", evt.PaymentID),
		zap.Bool("paid", paid),
	)

	_, err := c.service.ApplyGatewayResult(ctx, evt.BookingID, evt.PaymentID, paid, evt.Reason)
	if err != nil {
		// A replayed verdict lands on a booking that already moved on.
		// That is a terminal outcome for the message, not a retry.
		if domain.IsCode(err, domain.CodeInvalidState) || domain.IsCode(err, domain.CodeConflict) || domain.IsCode(err, domain.CodeNotFound) {
			c.logger.Warn("payment result no longer applicable",
				zap.String("booking_id", evt.BookingID.String()),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to apply payment result",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return err
	}

	return nil
}
