package unitofwork

import (
	"context"

	"visaforge-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	VisaCaseRepository() contract.VisaCaseRepository
	EvidenceUploadRepository() contract.EvidenceUploadRepository
	TaskRepository() contract.TaskRepository
}
