package contract

import (
	"context"
	"errors"

	"visaforge-be/internal/entity"
	"visaforge-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ErrVersionConflict is returned by UpdateMeta when the row was written by
// someone else since it was read.
var ErrVersionConflict = errors.New("visa app meta was modified concurrently")

type VisaCaseRepository interface {
	Create(ctx context.Context, visaCase *entity.VisaCase) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VisaCase, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.VisaCase, error)
	// UpdateMeta writes meta only if meta_version still equals
	// visaCase.MetaVersion, then bumps the version on the entity.
	UpdateMeta(ctx context.Context, visaCase *entity.VisaCase) error
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error
	// RaiseProgress never lowers the stored value.
	RaiseProgress(ctx context.Context, id uuid.UUID, atLeast int) error
}
