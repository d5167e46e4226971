package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type EvidenceUpload struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_evidence_uploads_owner_item,priority:1"`
	VisaAppId  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_evidence_uploads_owner_item,priority:2"`
	EvidenceId string         `gorm:"type:varchar(128);not null;uniqueIndex:idx_evidence_uploads_owner_item,priority:3"`
	Files      datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	Notes      *string        `gorm:"type:text"`
	InEnglish  *bool
	Complete   bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (EvidenceUpload) TableName() string {
	return "evidence_uploads"
}
