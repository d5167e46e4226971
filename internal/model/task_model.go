package model

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID  `gorm:"type:uuid;not null;index"`
	VisaAppId  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title      string     `gorm:"type:text;not null"`
	EvidenceId *string    `gorm:"type:varchar(128)"`
	Status     string     `gorm:"type:varchar(16);not null;default:'todo'"`
	DueDate    *time.Time `gorm:"index"`
	CreatedAt  time.Time  `gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime"`
}

func (Task) TableName() string {
	return "tasks"
}
