package service

import (
	"context"
	"testing"
	"time"

	"visaforge-be/internal/dto"
	"visaforge-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerSendsReceiptAndForwardsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	m := &fakeMailer{}
	ev := &fakeEvents{}
	consumer := NewConsumerService(pubSub, m, ev, nopLogger(), "billing@popimmigration.com", "https://app.test")
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService(pubSub)
	storageUntil := fixedNow.AddDate(0, 0, 90)
	require.NoError(t, publisher.Publish(TopicCheckoutCompleted, dto.CheckoutCompletedMessage{
		UserId:       uuid.New(),
		CaseId:       uuid.New(),
		Email:        "ana@example.com",
		Tier:         "premium",
		VisaType:     "Marriage-Green-Card",
		SessionId:    "cs_1",
		AmountTotal:  49900,
		Currency:     "usd",
		Credits:      2,
		StorageUntil: &storageUntil,
		OccurredAt:   fixedNow,
	}))
	require.NoError(t, publisher.Publish(TopicPacketGenerated, dto.PacketGeneratedMessage{
		UserId:     uuid.New(),
		CaseId:     uuid.New(),
		Path:       "u/c/packet-1.pdf",
		OccurredAt: fixedNow,
	}))

	assert.Eventually(t, func() bool {
		return len(ev.types()) == 2 && len(m.messages()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.ElementsMatch(t, []string{events.CheckoutCompleted, events.PacketGenerated}, ev.types())
	receipt := m.messages()[0]
	assert.Equal(t, "ana@example.com", receipt.To)
	assert.Contains(t, receipt.Text, "Amount: 499.00 USD")
	assert.Contains(t, receipt.Text, "Mock interview credits: 2")
}

func TestConsumerAcksMalformedMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ev := &fakeEvents{err: errBoom}
	consumer := NewConsumerService(pubSub, nil, ev, nopLogger(), "", "")
	require.NoError(t, consumer.Consume(ctx))

	require.NoError(t, pubSub.Publish(TopicPacketGenerated, message.NewMessage(watermill.NewUUID(), []byte("not json"))))
	require.NoError(t, NewPublisherService(pubSub).Publish(TopicPacketGenerated, dto.PacketGeneratedMessage{Path: "p.pdf"}))

	// the second message is only delivered once the first was acked
	assert.Eventually(t, func() bool {
		return len(ev.types()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
