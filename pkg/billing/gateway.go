// Package billing talks to Stripe: webhook verification, checkout sessions
// and customer lookups.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
)

const EventCheckoutCompleted = "checkout.session.completed"

var (
	ErrNotConfigured    = errors.New("stripe is not configured")
	ErrMissingSignature = errors.New("missing stripe signature")
	ErrInvalidSignature = errors.New("invalid stripe signature")
)

// Event is a verified webhook delivery. Checkout is set only for completed
// checkout sessions.
type Event struct {
	ID       string
	Type     string
	Checkout *CheckoutCompletion
}

type CheckoutCompletion struct {
	SessionID   string
	Email       string
	CustomerID  string
	Metadata    map[string]string
	AmountTotal int64
	Currency    string
}

type CheckoutRequest struct {
	PriceID    string
	UserID     string
	Email      string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type CheckoutSession struct {
	ID  string `json:"session_id"`
	URL string `json:"url"`
}

type Gateway interface {
	ParseEvent(payload []byte, signature string) (*Event, error)
	CustomerEmail(ctx context.Context, customerID string) (string, error)
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

type StripeGateway struct {
	sc            *client.API
	webhookSecret string
}

// NewStripeGateway returns nil when no secret key is configured; callers
// treat a nil gateway as "billing disabled".
func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	if secretKey == "" {
		return nil
	}
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeGateway{sc: sc, webhookSecret: webhookSecret}
}

func (g *StripeGateway) ParseEvent(payload []byte, signature string) (*Event, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, ErrMissingSignature
	}
	if g.webhookSecret == "" {
		return nil, ErrNotConfigured
	}

	evt, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: evt.ID, Type: string(evt.Type)}
	if out.Type != EventCheckoutCompleted {
		return out, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(evt.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}

	completion := &CheckoutCompletion{
		SessionID:   sess.ID,
		Metadata:    sess.Metadata,
		AmountTotal: sess.AmountTotal,
		Currency:    string(sess.Currency),
	}
	if sess.CustomerDetails != nil {
		completion.Email = sess.CustomerDetails.Email
	}
	if completion.Email == "" {
		completion.Email = sess.CustomerEmail
	}
	if sess.Customer != nil {
		completion.CustomerID = sess.Customer.ID
	}
	if completion.Metadata == nil {
		completion.Metadata = map[string]string{}
	}
	out.Checkout = completion
	return out, nil
}

// CustomerEmail returns "" for deleted customers.
func (g *StripeGateway) CustomerEmail(ctx context.Context, customerID string) (string, error) {
	if customerID == "" {
		return "", nil
	}
	params := &stripe.CustomerParams{}
	params.Context = ctx
	c, err := g.sc.Customers.Get(customerID, params)
	if err != nil {
		return "", fmt.Errorf("retrieve customer %s: %w", customerID, err)
	}
	if c.Deleted {
		return "", nil
	}
	return c.Email, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(req.PriceID),
			Quantity: stripe.Int64(1),
		}},
		Metadata: req.Metadata,
	}
	if req.UserID != "" {
		params.ClientReferenceID = stripe.String(req.UserID)
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.Context = ctx

	sess, err := g.sc.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}
