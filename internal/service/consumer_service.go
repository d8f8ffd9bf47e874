// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"time"

	"resume-roaster-be/internal/dto"
	"resume-roaster-be/internal/entity"
	"resume-roaster-be/internal/pkg/logger"
	"resume-roaster-be/internal/repository/contract"
	"resume-roaster-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// EventForwarder ships events out of the process (NATS in production).
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

// PaymentNotifier pushes a recorded payment state to browsers waiting on it.
type PaymentNotifier interface {
	NotifyPayment(ctx context.Context, correlationId, status string) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	ledger     contract.PaymentLedgerRepository
	forwarder  EventForwarder
	notifier   PaymentNotifier
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	ledger contract.PaymentLedgerRepository,
	forwarder EventForwarder,
	notifier PaymentNotifier,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		ledger:     ledger,
		forwarder:  forwarder,
		notifier:   notifier,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PaymentEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(paymentModule, "Failed to unmarshal payment event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err,
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	status := entity.PaymentStatusPending
	switch payload.Type {
	case events.TypePaymentConfirmed:
		status = entity.PaymentStatusPaid
	case events.TypePaymentFailed:
		status = entity.PaymentStatusFailed
	}

	// A late failure notice must not revoke an order that already settled.
	existing, err := cs.ledger.FindByOrderId(ctx, payload.OrderId)
	if err == nil && existing != nil && existing.Status == entity.PaymentStatusPaid && status != entity.PaymentStatusPaid {
		msg.Ack()
		return
	}

	err = cs.ledger.Save(ctx, &entity.PaymentRecord{
		CorrelationId: payload.CorrelationId,
		OrderId:       payload.OrderId,
		Status:        status,
		GrossAmount:   payload.GrossAmount,
		UpdatedAt:     time.Now(),
	})
	if err != nil {
		cs.logger.Error(paymentModule, "Failed to record payment", map[string]interface{}{
			"correlation_id": payload.CorrelationId,
			"error":          err,
		})
		msg.Nack()
		return
	}

	cs.logger.Info(paymentModule, "Payment recorded", map[string]interface{}{
		"correlation_id": payload.CorrelationId,
		"order_id":       payload.OrderId,
		"status":         string(status),
	})

	if cs.notifier != nil {
		if err := cs.notifier.NotifyPayment(ctx, payload.CorrelationId, string(status)); err != nil {
			cs.logger.Warn(paymentModule, "Failed to notify waiting clients", map[string]interface{}{
				"correlation_id": payload.CorrelationId,
				"error":          err.Error(),
			})
		}
	}

	if cs.forwarder != nil {
		evt := events.NewPaymentEvent(payload.Type, payload.CorrelationId, payload.OrderId, payload.GrossAmount)
		if err := cs.forwarder.Publish(ctx, evt); err != nil {
			cs.logger.Warn(paymentModule, "Failed to forward payment event", map[string]interface{}{
				"event": payload.Type,
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}
