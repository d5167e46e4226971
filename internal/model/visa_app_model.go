package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type VisaApp struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index:idx_visa_apps_user_created,priority:1"`
	VisaType     string         `gorm:"type:varchar(64);not null"`
	Score        int            `gorm:"not null;default:0"`
	Status       string         `gorm:"type:varchar(64);not null;default:'In Progress'"`
	Progress     int            `gorm:"not null;default:0"`
	CostEstimate float64        `gorm:"type:numeric(10,2);not null;default:0"`
	PolicyNotes  *string        `gorm:"type:text"`
	Meta         datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"`
	MetaVersion  int            `gorm:"not null;default:0"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index:idx_visa_apps_user_created,priority:2,sort:desc"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
}

func (VisaApp) TableName() string {
	return "visa_apps"
}
