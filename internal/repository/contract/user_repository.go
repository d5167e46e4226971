package contract

import (
	"context"

	"visaforge-be/internal/entity"
	"visaforge-be/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// Upsert inserts the user or refreshes the email of an existing id.
	Upsert(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
}
