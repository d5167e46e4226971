package entity

import (
	"time"

	"github.com/google/uuid"
)

type EvidenceFile struct {
	Name string `json:"name"`
	// Path is the permanent object key used to re-sign URLs.
	Path string `json:"path,omitempty"`
	// URL is a short-lived signed link and may be stale.
	URL string `json:"url,omitempty"`
}

// EvidenceUpload is unique per (UserId, VisaAppId, EvidenceId).
type EvidenceUpload struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	VisaAppId  uuid.UUID
	EvidenceId string
	Files      []EvidenceFile
	Notes      *string
	InEnglish  *bool
	Complete   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
