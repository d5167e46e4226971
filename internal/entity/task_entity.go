package entity

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusTodo    TaskStatus = "todo"
	TaskStatusWaiting TaskStatus = "waiting"
	TaskStatusDone    TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusWaiting, TaskStatusDone:
		return true
	}
	return false
}

type Task struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	VisaAppId  uuid.UUID
	Title      string
	EvidenceId *string
	Status     TaskStatus
	DueDate    *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
