package service

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	TopicCheckoutCompleted = "checkout.completed"
	TopicPacketGenerated   = "packet.generated"
)

type IPublisherService interface {
	Publish(topic string, payload interface{}) error
}

type publisherService struct {
	publisher message.Publisher
}

func NewPublisherService(publisher message.Publisher) IPublisherService {
	return &publisherService{
		publisher: publisher,
	}
}

func (p *publisherService) Publish(topic string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	return p.publisher.Publish(topic, msg)
}
