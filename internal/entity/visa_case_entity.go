package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	CaseStatusInProgress        = "In Progress"
	CaseStatusEligible          = "Eligible"
	CaseStatusNeedsOptimization = "Needs Optimization"
)

// VisaCase is one immigration case. Only the most recently created case of a
// user is surfaced by the dashboard flows.
type VisaCase struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	VisaType     string
	Score        int
	Status       string
	Progress     int
	CostEstimate float64
	PolicyNotes  *string
	Meta         CaseMeta
	// MetaVersion guards meta writes; it increments on every successful write.
	MetaVersion int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
