package dto

import (
	"io"
	"time"

	"visaforge-be/internal/entity"

	"github.com/google/uuid"
)

// RecordEvidenceRequest fields left out of the body keep their stored value.
type RecordEvidenceRequest struct {
	Notes     *string `json:"notes"`
	InEnglish *bool   `json:"in_english"`
	Complete  *bool   `json:"complete"`
}

type EvidenceFileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type EvidenceUploadResponse struct {
	Id         uuid.UUID             `json:"id"`
	EvidenceId string                `json:"evidence_id"`
	Files      []entity.EvidenceFile `json:"files"`
	Notes      *string               `json:"notes"`
	InEnglish  *bool                 `json:"in_english"`
	Complete   bool                  `json:"complete"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

type RecordEvidenceResponse struct {
	Upload *EvidenceUploadResponse `json:"upload"`
	// Saved is false when the row could not be written; the request still succeeds.
	Saved                  bool `json:"saved"`
	TranslationTaskCreated bool `json:"translation_task_created"`
}

type ProgressResponse struct {
	Progress        int      `json:"progress"`
	Ready           bool     `json:"ready"`
	MissingEvidence []string `json:"missing_evidence"`
}
