package contract

import (
	"context"

	"visaforge-be/internal/entity"
	"visaforge-be/internal/repository/specification"

	"github.com/google/uuid"
)

type EvidenceUploadRepository interface {
	// Upsert keys on (user_id, visa_app_id, evidence_id).
	Upsert(ctx context.Context, upload *entity.EvidenceUpload) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EvidenceUpload, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EvidenceUpload, error)
	UpdateFiles(ctx context.Context, id uuid.UUID, files []entity.EvidenceFile) error
}
