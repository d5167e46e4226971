package service

import (
	"context"
	"errors"
	"time"

	"visaforge-be/internal/entity"
	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/internal/repository/contract"
	"visaforge-be/internal/repository/specification"
	"visaforge-be/internal/repository/unitofwork"
	"visaforge-be/pkg/events"
	"visaforge-be/pkg/visatype"

	"github.com/google/uuid"
)

// Log module tags.
const (
	moduleCase        = "CASE"
	moduleEvidence    = "EVIDENCE"
	moduleTask        = "TASK"
	modulePacket      = "PACKET"
	moduleBilling     = "BILLING"
	moduleInterview   = "INTERVIEW"
	moduleAssistant   = "ASSISTANT"
	moduleGrounding   = "GROUNDING"
	moduleTranslation = "TRANSLATION"
	moduleContact     = "CONTACT"
	moduleReminder    = "REMINDER"
	moduleEvents      = "EVENTS"
)

const metaWriteAttempts = 3

// EventPublisher forwards domain events to the external broker.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

func caseConfig(vc *entity.VisaCase) visatype.UseCaseConfig {
	return visatype.Get(visatype.Normalize(vc.VisaType))
}

func findOwnedCase(ctx context.Context, uow unitofwork.UnitOfWork, userID, caseID uuid.UUID) (*entity.VisaCase, error) {
	vc, err := uow.VisaCaseRepository().FindOne(ctx,
		specification.ByID{ID: caseID},
		specification.UserOwnedBy{UserID: userID},
	)
	if err != nil {
		return nil, apperror.Persistence("load case", err)
	}
	if vc == nil {
		return nil, apperror.NotFound("Case not found")
	}
	return vc, nil
}

// updateCaseMeta re-reads the case, applies mutate and writes meta back with
// a version check, retrying when another writer got there first.
func updateCaseMeta(
	ctx context.Context,
	uowFactory unitofwork.RepositoryFactory,
	mutate func(vc *entity.VisaCase) error,
	specs ...specification.Specification,
) (*entity.VisaCase, error) {
	var lastErr error
	for attempt := 0; attempt < metaWriteAttempts; attempt++ {
		repo := uowFactory.NewUnitOfWork(ctx).VisaCaseRepository()

		vc, err := repo.FindOne(ctx, specs...)
		if err != nil {
			return nil, apperror.Persistence("load case", err)
		}
		if vc == nil {
			return nil, apperror.NotFound("Case not found")
		}
		if err := mutate(vc); err != nil {
			return nil, err
		}

		err = repo.UpdateMeta(ctx, vc)
		if err == nil {
			return vc, nil
		}
		if !errors.Is(err, contract.ErrVersionConflict) {
			return nil, apperror.Persistence("save case meta", err)
		}
		lastErr = err
	}
	return nil, apperror.Persistence("save case meta", lastErr)
}

func utcNow() time.Time {
	return time.Now().UTC()
}
