// FILE: internal/service/publisher_service.go
package service

import (
	"context"
	"encoding/json"

	"resume-roaster-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	PublishPayment(ctx context.Context, payload dto.PaymentEventMessage) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (s *publisherService) PublishPayment(ctx context.Context, payload dto.PaymentEventMessage) error {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payloadJson)
	msg.SetContext(ctx)
	return s.publisher.Publish(s.topicName, msg)
}
