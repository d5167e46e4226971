package dto

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutCompletedMessage is published on the in-process bus once the
// ledger write has committed.
type CheckoutCompletedMessage struct {
	UserId       uuid.UUID  `json:"user_id"`
	CaseId       uuid.UUID  `json:"case_id"`
	Email        string     `json:"email"`
	Tier         string     `json:"tier"`
	VisaType     string     `json:"visa_type"`
	SessionId    string     `json:"session_id"`
	AmountTotal  int64      `json:"amount_total"`
	Currency     string     `json:"currency"`
	Credits      int        `json:"credits"`
	StorageUntil *time.Time `json:"storage_until,omitempty"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

type PacketGeneratedMessage struct {
	UserId     uuid.UUID `json:"user_id"`
	CaseId     uuid.UUID `json:"case_id"`
	Path       string    `json:"path"`
	OccurredAt time.Time `json:"occurred_at"`
}
