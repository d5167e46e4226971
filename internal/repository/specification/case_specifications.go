package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByVisaAppID struct {
	VisaAppID uuid.UUID
}

func (s ByVisaAppID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("visa_app_id = ?", s.VisaAppID)
}

type ByEvidenceID struct {
	EvidenceID string
}

func (s ByEvidenceID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("evidence_id = ?", s.EvidenceID)
}

type StatusNot struct {
	Status string
}

func (s StatusNot) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status <> ?", s.Status)
}

// DueOnOrBefore excludes rows without a due date.
type DueOnOrBefore struct {
	At time.Time
}

func (s DueOnOrBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("due_date IS NOT NULL AND due_date <= ?", s.At)
}
