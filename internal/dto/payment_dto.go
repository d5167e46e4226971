package dto

import (
	"visaforge-be/internal/entity"
)

type CheckoutRequest struct {
	Tier     string `json:"tier" validate:"required,oneof=starter complete premium"`
	VisaType string `json:"visa_type"`
}

type CheckoutResponse struct {
	SessionId string `json:"session_id"`
	URL       string `json:"url"`
}

type PlanResponse struct {
	Tier         entity.PlanTier     `json:"tier"`
	PriceId      string              `json:"price_id,omitempty"`
	Purchasable  bool                `json:"purchasable"`
	Entitlements entity.Entitlements `json:"entitlements"`
	StorageDays  int                 `json:"storage_days"`
	Flags        entity.CaseFlags    `json:"flags"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}
