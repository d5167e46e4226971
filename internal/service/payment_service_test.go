package service

import (
	"context"
	"testing"

	"visaforge-be/internal/dto"
	"visaforge-be/internal/entity"
	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/pkg/billing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentFixture(gw *fakeGateway) (*fakeDB, *fakePublisher, *paymentService) {
	db := newFakeDB()
	pub := &fakePublisher{}
	prices := billing.PriceBook{CaseStarter: "price_starter", CaseComplete: "price_complete"}
	var gateway billing.Gateway
	if gw != nil {
		gateway = gw
	}
	svc := NewPaymentService(db, gateway, prices, pub, nopLogger(), "https://app.test/").(*paymentService)
	svc.now = fixedClock
	return db, pub, svc
}

func completedEvent(email string, metadata map[string]string) *billing.Event {
	return &billing.Event{
		ID:   "evt_1",
		Type: billing.EventCheckoutCompleted,
		Checkout: &billing.CheckoutCompletion{
			SessionID:   "cs_1",
			Email:       email,
			Metadata:    metadata,
			AmountTotal: 49900,
			Currency:    "usd",
		},
	}
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	_, _, svc := newPaymentFixture(&fakeGateway{})

	_, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.EqualError(t, err, "Missing stripe-signature")
}

func TestWebhookWithoutStripeKey(t *testing.T) {
	_, _, svc := newPaymentFixture(nil)

	_, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=abc")
	assert.True(t, apperror.Is(err, apperror.KindPersistence))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	_, _, svc := newPaymentFixture(&fakeGateway{parseErr: billing.ErrInvalidSignature})

	_, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=abc")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	db, pub, svc := newPaymentFixture(&fakeGateway{event: &billing.Event{ID: "evt_2", Type: "invoice.paid"}})

	res, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=abc")
	require.NoError(t, err)
	assert.True(t, res.Received)
	assert.Empty(t, db.users)
	assert.Empty(t, pub.topics)
}

func TestWebhookRequiresCustomerEmail(t *testing.T) {
	event := completedEvent("", map[string]string{"tier": "complete"})
	event.Checkout.CustomerID = "cus_1"
	_, _, svc := newPaymentFixture(&fakeGateway{event: event, customerErr: errBoom})

	_, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=abc")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.EqualError(t, err, "No customer email on session")
}

func TestWebhookFallsBackToCustomerLookup(t *testing.T) {
	event := completedEvent("", map[string]string{"tier": "starter"})
	event.Checkout.CustomerID = "cus_1"
	db, _, svc := newPaymentFixture(&fakeGateway{event: event, customerEmail: "lookup@example.com"})

	_, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=abc")
	require.NoError(t, err)
	require.Len(t, db.users, 1)
	assert.Equal(t, "lookup@example.com", db.users[0].Email)
}

func TestWebhookAppliesPurchaseToHintedCase(t *testing.T) {
	event := completedEvent("Ana@Example.com", map[string]string{
		"tier":     "premium",
		"visaType": "marriage green card",
	})
	db, pub, svc := newPaymentFixture(&fakeGateway{event: event})
	user := db.addUser("ana@example.com")
	marriage := db.addCase(user.Id, "Marriage-Green-Card")
	newest := db.addCase(user.Id, "H1B")

	res, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=abc")
	require.NoError(t, err)
	assert.True(t, res.Received)
	assert.Len(t, db.users, 1)

	assert.Equal(t, entity.PlanTierPremium, marriage.Meta.PlanTier)
	require.NotNil(t, marriage.Meta.Entitlements)
	assert.Equal(t, 4, marriage.Meta.Entitlements.TranslationsIncluded)
	require.NotNil(t, marriage.Meta.Usage.MockInterviewCreditsRemaining)
	assert.Equal(t, 2, *marriage.Meta.Usage.MockInterviewCreditsRemaining)
	assert.True(t, marriage.Meta.Flags.RFEReadiness)
	require.NotNil(t, marriage.Meta.StorageUntil)
	assert.Equal(t, fixedNow.AddDate(0, 0, 90), *marriage.Meta.StorageUntil)
	assert.Equal(t, "cs_1", marriage.Meta.StripeCheckoutSessionID)
	require.Len(t, marriage.Meta.Audit, 1)
	assert.Equal(t, entity.AuditPurchase, marriage.Meta.Audit[0].Type)
	assert.Empty(t, newest.Meta.PlanTier)

	require.Equal(t, []string{TopicCheckoutCompleted}, pub.topics)
	msg := pub.payloads[0].(dto.CheckoutCompletedMessage)
	assert.Equal(t, marriage.Id, msg.CaseId)
	assert.Equal(t, 2, msg.Credits)
}

func TestWebhookFallsBackToNewestCase(t *testing.T) {
	event := completedEvent("ana@example.com", map[string]string{"tier": "complete", "visaType": "K1"})
	db, _, svc := newPaymentFixture(&fakeGateway{event: event})
	user := db.addUser("ana@example.com")
	older := db.addCase(user.Id, "Marriage-Green-Card")
	newest := db.addCase(user.Id, "H1B")

	_, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=abc")
	require.NoError(t, err)
	assert.Equal(t, entity.PlanTierComplete, newest.Meta.PlanTier)
	assert.Empty(t, older.Meta.PlanTier)
}

func TestWebhookCreatesUserAndCase(t *testing.T) {
	event := completedEvent("new@example.com", map[string]string{"tier": "bogus"})
	db, _, svc := newPaymentFixture(&fakeGateway{event: event})

	_, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=abc")
	require.NoError(t, err)

	require.Len(t, db.users, 1)
	require.Len(t, db.cases, 1)
	vc := db.cases[0]
	assert.Equal(t, db.users[0].Id, vc.UserId)
	assert.Equal(t, "H1B", vc.VisaType)
	assert.Equal(t, entity.CaseStatusInProgress, vc.Status)
	assert.Equal(t, entity.PlanTierStarter, vc.Meta.PlanTier)
	require.NotNil(t, vc.Meta.Usage.MockInterviewCreditsRemaining)
	assert.Equal(t, 0, *vc.Meta.Usage.MockInterviewCreditsRemaining)
}

func TestWebhookPrefersMetadataUser(t *testing.T) {
	db, _, svc := newPaymentFixture(nil)
	owner := db.addUser("owner@example.com")
	vc := db.addCase(owner.Id, "H1B")
	svc.gateway = &fakeGateway{event: completedEvent("billing-alias@example.com", map[string]string{
		"tier":   "complete",
		"userId": owner.Id.String(),
	})}

	_, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=abc")
	require.NoError(t, err)
	assert.Len(t, db.users, 1)
	assert.Equal(t, entity.PlanTierComplete, vc.Meta.PlanTier)
}

func TestWebhookRetriesMetaConflicts(t *testing.T) {
	event := completedEvent("ana@example.com", map[string]string{"tier": "complete"})
	db, _, svc := newPaymentFixture(&fakeGateway{event: event})
	user := db.addUser("ana@example.com")
	vc := db.addCase(user.Id, "H1B")
	db.metaConflicts = metaWriteAttempts - 1

	_, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=abc")
	require.NoError(t, err)
	assert.Equal(t, entity.PlanTierComplete, vc.Meta.PlanTier)

	db.metaConflicts = metaWriteAttempts
	_, err = svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=abc")
	assert.True(t, apperror.Is(err, apperror.KindPersistence))
}

func TestCreateCheckout(t *testing.T) {
	gw := &fakeGateway{}
	_, _, svc := newPaymentFixture(gw)
	userId := uuid.New()

	res, err := svc.CreateCheckout(context.Background(), userId, "a@example.com", &dto.CheckoutRequest{
		Tier:     "complete",
		VisaType: "marriage gc",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", res.SessionId)

	require.NotNil(t, gw.checkoutReq)
	assert.Equal(t, "price_complete", gw.checkoutReq.PriceID)
	assert.Equal(t, "https://app.test/dashboard?session_id={CHECKOUT_SESSION_ID}", gw.checkoutReq.SuccessURL)
	assert.Equal(t, "https://app.test/pricing", gw.checkoutReq.CancelURL)
	assert.Equal(t, map[string]string{
		"tier":     "complete",
		"userId":   userId.String(),
		"visaType": "Marriage-Green-Card",
	}, gw.checkoutReq.Metadata)

	_, err = svc.CreateCheckout(context.Background(), userId, "a@example.com", &dto.CheckoutRequest{Tier: "premium"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestGetPlans(t *testing.T) {
	_, _, svc := newPaymentFixture(&fakeGateway{})

	plans := svc.GetPlans()
	require.Len(t, plans, 3)
	assert.Equal(t, entity.PlanTierStarter, plans[0].Tier)
	assert.True(t, plans[0].Purchasable)
	assert.False(t, plans[2].Purchasable)
	assert.Equal(t, 90, plans[2].StorageDays)
}
