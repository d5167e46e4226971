package service

import (
	"context"
	"encoding/json"

	"visaforge-be/internal/dto"
	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/internal/pkg/logger"
	"visaforge-be/internal/pkg/mailer"
	"visaforge-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	mailer     mailer.IEmailService
	events     EventPublisher
	logger     logger.ILogger
	from       string
	clientURL  string
}

// NewConsumerService drains the in-process topics. The mailer and the
// external publisher may both be nil.
func NewConsumerService(
	subscriber message.Subscriber,
	emailService mailer.IEmailService,
	eventPublisher EventPublisher,
	log logger.ILogger,
	from string,
	clientURL string,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		mailer:     emailService,
		events:     eventPublisher,
		logger:     log,
		from:       from,
		clientURL:  clientURL,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	checkouts, err := cs.subscriber.Subscribe(ctx, TopicCheckoutCompleted)
	if err != nil {
		return err
	}
	packets, err := cs.subscriber.Subscribe(ctx, TopicPacketGenerated)
	if err != nil {
		return err
	}

	go func() {
		for msg := range checkouts {
			cs.handleCheckout(ctx, msg)
		}
	}()
	go func() {
		for msg := range packets {
			cs.handlePacket(ctx, msg)
		}
	}()

	return nil
}

// Handlers always ack: every side effect here is best effort and a redelivery
// would only duplicate receipts.
func (cs *consumerService) handleCheckout(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.CheckoutCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(moduleEvents, "Malformed checkout message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	if cs.mailer != nil && payload.Email != "" {
		receipt := mailer.PurchaseReceipt(cs.from, payload.Email, cs.clientURL, mailer.Receipt{
			Tier:         payload.Tier,
			VisaType:     payload.VisaType,
			AmountCents:  payload.AmountTotal,
			Currency:     payload.Currency,
			StorageUntil: payload.StorageUntil,
			Credits:      payload.Credits,
		})
		_ = apperror.BestEffort(cs.logger, moduleEvents, "send purchase receipt", func() error {
			return cs.mailer.Send(receipt)
		})
	}

	cs.forward(ctx, events.NewCheckoutCompleted(
		payload.UserId.String(), payload.CaseId.String(), payload.Tier, payload.SessionId, payload.OccurredAt,
	))
}

func (cs *consumerService) handlePacket(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.PacketGeneratedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(moduleEvents, "Malformed packet message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	cs.forward(ctx, events.NewPacketGenerated(
		payload.UserId.String(), payload.CaseId.String(), payload.Path, payload.OccurredAt,
	))
}

func (cs *consumerService) forward(ctx context.Context, event events.Event) {
	if cs.events == nil {
		return
	}
	_ = apperror.BestEffort(cs.logger, moduleEvents, "forward "+event.EventType(), func() error {
		return cs.events.Publish(ctx, event)
	})
}
