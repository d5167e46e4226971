package contract

import (
	"context"

	"visaforge-be/internal/entity"
	"visaforge-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	CreateBatch(ctx context.Context, tasks []*entity.Task) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Task, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Task, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.TaskStatus) error
	// MarkDoneWhereTitleContains completes every open task of the case whose
	// title contains fragment, ignoring case. It returns the affected rows.
	MarkDoneWhereTitleContains(ctx context.Context, visaAppID uuid.UUID, fragment string) (int64, error)
}
