package dto

import (
	"time"

	"visaforge-be/internal/entity"
	"visaforge-be/pkg/visatype"

	"github.com/google/uuid"
)

type QuizRequest struct {
	VisaType string            `json:"visa_type" validate:"required"`
	Answers  map[string]string `json:"answers" validate:"required"`
}

type SaveDraftRequest struct {
	Inputs         map[string]interface{} `json:"inputs"`
	AffidavitDraft *string                `json:"affidavit_draft"`
	Progress       *int                   `json:"progress" validate:"omitempty,min=0,max=100"`
}

type VisaTypeResponse struct {
	visatype.UseCaseConfig
	BaseCost  float64             `json:"baseCost"`
	Questions []visatype.Question `json:"questions"`
}

type LedgerResponse struct {
	PlanTier         entity.PlanTier      `json:"plan_tier,omitempty"`
	Entitlements     *entity.Entitlements `json:"entitlements,omitempty"`
	CreditsRemaining *int                 `json:"credits_remaining"`
	StorageUntil     *time.Time           `json:"storage_until,omitempty"`
	Flags            entity.CaseFlags     `json:"flags"`
}

type CaseResponse struct {
	Id              uuid.UUID              `json:"id"`
	VisaType        string                 `json:"visa_type"`
	Title           string                 `json:"title"`
	Status          string                 `json:"status"`
	Score           int                    `json:"score"`
	Progress        int                    `json:"progress"`
	CostEstimate    float64                `json:"cost_estimate"`
	PolicyNotes     *string                `json:"policy_notes,omitempty"`
	Ready           bool                   `json:"ready"`
	MissingEvidence []string               `json:"missing_evidence"`
	Inputs          map[string]interface{} `json:"inputs,omitempty"`
	AffidavitDraft  string                 `json:"affidavit_draft,omitempty"`
	Ledger          LedgerResponse         `json:"ledger"`
	Config          visatype.UseCaseConfig `json:"config"`
	CreatedAt       time.Time              `json:"created_at"`
}
