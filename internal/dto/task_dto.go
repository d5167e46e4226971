package dto

import (
	"time"

	"visaforge-be/pkg/casework"

	"github.com/google/uuid"
)

type SeedTasksRequest struct {
	Items []casework.TaskItem `json:"items" validate:"omitempty,dive"`
}

type SetTaskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type TaskResponse struct {
	Id         uuid.UUID  `json:"id"`
	VisaAppId  uuid.UUID  `json:"visa_app_id"`
	Title      string     `json:"title"`
	EvidenceId *string    `json:"evidence_id"`
	Status     string     `json:"status"`
	DueDate    *time.Time `json:"due_date"`
	CreatedAt  time.Time  `json:"created_at"`
}
