package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"visaforge-be/internal/dto"
	"visaforge-be/internal/entity"
	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/internal/pkg/logger"
	"visaforge-be/internal/repository/specification"
	"visaforge-be/internal/repository/unitofwork"
	"visaforge-be/pkg/billing"
	"visaforge-be/pkg/casework"
	"visaforge-be/pkg/visatype"

	"github.com/google/uuid"
)

type IPaymentService interface {
	GetPlans() []*dto.PlanResponse
	CreateCheckout(ctx context.Context, userId uuid.UUID, email string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*dto.WebhookResponse, error)
}

type paymentService struct {
	uowFactory unitofwork.RepositoryFactory
	gateway    billing.Gateway
	prices     billing.PriceBook
	publisher  IPublisherService
	logger     logger.ILogger
	clientURL  string
	now        func() time.Time
}

// NewPaymentService accepts a nil gateway; billing endpoints then report the
// missing Stripe key.
func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	gateway billing.Gateway,
	prices billing.PriceBook,
	publisher IPublisherService,
	log logger.ILogger,
	clientURL string,
) IPaymentService {
	return &paymentService{
		uowFactory: uowFactory,
		gateway:    gateway,
		prices:     prices,
		publisher:  publisher,
		logger:     log,
		clientURL:  strings.TrimRight(clientURL, "/"),
		now:        utcNow,
	}
}

func (s *paymentService) GetPlans() []*dto.PlanResponse {
	tiers := casework.Tiers()
	res := make([]*dto.PlanResponse, 0, len(tiers))
	for _, tier := range tiers {
		d := casework.DefaultsFor(tier)
		priceId, ok := s.prices.ForTier(string(tier))
		res = append(res, &dto.PlanResponse{
			Tier:         tier,
			PriceId:      priceId,
			Purchasable:  ok && s.gateway != nil,
			Entitlements: d.Entitlements,
			StorageDays:  d.StorageDays,
			Flags:        d.Flags,
		})
	}
	return res
}

func (s *paymentService) CreateCheckout(ctx context.Context, userId uuid.UUID, email string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if s.gateway == nil {
		return nil, apperror.Persistence("STRIPE_SECRET_KEY missing", nil)
	}

	tier := casework.NormalizeTier(req.Tier)
	priceId, ok := s.prices.ForTier(string(tier))
	if !ok {
		return nil, apperror.Validationf("No price configured for tier %s", tier)
	}

	metadata := map[string]string{
		"tier":   string(tier),
		"userId": userId.String(),
	}
	if strings.TrimSpace(req.VisaType) != "" {
		metadata["visaType"] = string(visatype.Normalize(req.VisaType))
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, billing.CheckoutRequest{
		PriceID:    priceId,
		UserID:     userId.String(),
		Email:      email,
		SuccessURL: s.clientURL + "/dashboard?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.clientURL + "/pricing",
		Metadata:   metadata,
	})
	if err != nil {
		return nil, apperror.Upstream("stripe checkout", err)
	}

	s.logger.Info(moduleBilling, "Checkout session created", map[string]interface{}{
		"user_id":    userId.String(),
		"tier":       string(tier),
		"session_id": sess.ID,
	})
	return &dto.CheckoutResponse{SessionId: sess.ID, URL: sess.URL}, nil
}

// HandleWebhook applies a completed checkout to the payer's case ledger.
// Deliveries are not deduplicated; a redelivery re-applies the same grants.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*dto.WebhookResponse, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, apperror.Validation("Missing stripe-signature")
	}
	if s.gateway == nil {
		return nil, apperror.Persistence("STRIPE_SECRET_KEY missing", nil)
	}

	evt, err := s.gateway.ParseEvent(payload, signature)
	if err != nil {
		if errors.Is(err, billing.ErrNotConfigured) {
			return nil, apperror.Persistence("STRIPE_WEBHOOK_SECRET missing", nil)
		}
		fmt.Printf("[WEBHOOK] Rejected delivery: %v\n", err)
		return nil, apperror.Validation(err.Error())
	}

	fmt.Printf("[WEBHOOK] Received %s (%s)\n", evt.Type, evt.ID)
	if evt.Type != billing.EventCheckoutCompleted || evt.Checkout == nil {
		return &dto.WebhookResponse{Received: true}, nil
	}
	co := evt.Checkout

	email := strings.TrimSpace(co.Email)
	if email == "" && co.CustomerID != "" {
		_ = apperror.BestEffort(s.logger, moduleBilling, "customer email lookup", func() error {
			found, err := s.gateway.CustomerEmail(ctx, co.CustomerID)
			email = strings.TrimSpace(found)
			return err
		})
	}
	if email == "" {
		return nil, apperror.Validation("No customer email on session")
	}

	purchase := casework.ResolvePurchase(co.Metadata)

	user, err := s.resolveUser(ctx, co.Metadata["userId"], email)
	if err != nil {
		return nil, apperror.Persistence("Could not link Stripe customer to user", err)
	}
	vc, err := s.resolveCase(ctx, user.Id, purchase.VisaTypeHint)
	if err != nil {
		return nil, apperror.Persistence("Failed to resolve visa app", err)
	}

	now := s.now()
	updated, err := updateCaseMeta(ctx, s.uowFactory, func(c *entity.VisaCase) error {
		casework.ApplyPurchase(&c.Meta, purchase, co.SessionID, now)
		return nil
	}, specification.ByID{ID: vc.Id})
	if err != nil {
		return nil, apperror.Critical("Update failed", err)
	}

	fmt.Printf("[WEBHOOK] Ledger updated: case=%s tier=%s\n", updated.Id, purchase.Tier)
	s.logger.Info(moduleBilling, "Checkout applied", map[string]interface{}{
		"user_id":    user.Id.String(),
		"case_id":    updated.Id.String(),
		"tier":       string(purchase.Tier),
		"session_id": co.SessionID,
	})

	credits := 0
	if c := updated.Meta.Usage.MockInterviewCreditsRemaining; c != nil {
		credits = *c
	}
	_ = apperror.BestEffort(s.logger, moduleBilling, "publish checkout event", func() error {
		return s.publisher.Publish(TopicCheckoutCompleted, dto.CheckoutCompletedMessage{
			UserId:       user.Id,
			CaseId:       updated.Id,
			Email:        email,
			Tier:         string(purchase.Tier),
			VisaType:     updated.VisaType,
			SessionId:    co.SessionID,
			AmountTotal:  co.AmountTotal,
			Currency:     co.Currency,
			Credits:      credits,
			StorageUntil: updated.Meta.StorageUntil,
			OccurredAt:   now,
		})
	})

	return &dto.WebhookResponse{Received: true}, nil
}

// resolveUser prefers the user id our checkout stamped into the metadata and
// falls back to a case-insensitive email match, creating the user if needed.
func (s *paymentService) resolveUser(ctx context.Context, metadataUserId, email string) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	repo := uow.UserRepository()
	if id, err := uuid.Parse(metadataUserId); err == nil {
		user, err := repo.FindOne(ctx, specification.ByID{ID: id})
		if err != nil {
			return nil, err
		}
		if user != nil {
			return user, uow.Commit()
		}
	}

	user, err := repo.FindOne(ctx, specification.ByEmailInsensitive{Email: email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &entity.User{Id: uuid.New(), Email: email}
		if err := repo.Create(ctx, user); err != nil {
			return nil, err
		}
	}
	return user, uow.Commit()
}

// resolveCase picks the newest case matching the hint, else the newest case,
// else creates one.
func (s *paymentService) resolveCase(ctx context.Context, userId uuid.UUID, hint string) (*entity.VisaCase, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.VisaCaseRepository()

	cases, err := repo.FindAll(ctx, specification.UserOwnedBy{UserID: userId}, specification.Newest())
	if err != nil {
		return nil, err
	}
	if hint != "" {
		for _, c := range cases {
			if visatype.SameType(c.VisaType, hint) {
				return c, nil
			}
		}
	}
	if len(cases) > 0 {
		return cases[0], nil
	}

	visaType := visatype.Default
	if hint != "" {
		visaType = visatype.Normalize(hint)
	}
	vc := &entity.VisaCase{
		Id:       uuid.New(),
		UserId:   userId,
		VisaType: string(visaType),
		Status:   entity.CaseStatusInProgress,
	}
	if err := repo.Create(ctx, vc); err != nil {
		return nil, err
	}
	return vc, nil
}
