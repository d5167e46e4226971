package service

import (
	"context"
	"time"

	"visaforge-be/internal/dto"
	"visaforge-be/internal/entity"
	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/internal/pkg/logger"
	"visaforge-be/internal/repository/specification"
	"visaforge-be/internal/repository/unitofwork"
	"visaforge-be/pkg/casework"
	"visaforge-be/pkg/visatype"

	"github.com/google/uuid"
)

// quizProgress is where a freshly scored case starts on the progress bar.
const quizProgress = 10

type IVisaCaseService interface {
	ListVisaTypes() []*dto.VisaTypeResponse
	GetVisaType(slug string) (*dto.VisaTypeResponse, error)
	SubmitQuiz(ctx context.Context, userId uuid.UUID, email string, req *dto.QuizRequest) (*dto.CaseResponse, error)
	GetLatest(ctx context.Context, userId uuid.UUID) (*dto.CaseResponse, error)
	GetByID(ctx context.Context, userId, caseId uuid.UUID) (*dto.CaseResponse, error)
	SaveDraft(ctx context.Context, userId, caseId uuid.UUID, req *dto.SaveDraftRequest) (*dto.CaseResponse, error)
}

type visaCaseService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	now        func() time.Time
}

func NewVisaCaseService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IVisaCaseService {
	return &visaCaseService{
		uowFactory: uowFactory,
		logger:     log,
		now:        utcNow,
	}
}

func toVisaTypeResponse(cfg visatype.UseCaseConfig) *dto.VisaTypeResponse {
	return &dto.VisaTypeResponse{
		UseCaseConfig: cfg,
		BaseCost:      visatype.BaseCost(cfg.Type),
		Questions:     visatype.Questions(cfg.Type),
	}
}

func (s *visaCaseService) ListVisaTypes() []*dto.VisaTypeResponse {
	all := visatype.All()
	res := make([]*dto.VisaTypeResponse, 0, len(all))
	for _, cfg := range all {
		res = append(res, toVisaTypeResponse(cfg))
	}
	return res
}

func (s *visaCaseService) GetVisaType(slug string) (*dto.VisaTypeResponse, error) {
	t, ok := visatype.FromSlug(slug)
	if !ok {
		return nil, apperror.NotFound("Unknown visa type")
	}
	return toVisaTypeResponse(visatype.Get(t)), nil
}

func (s *visaCaseService) SubmitQuiz(ctx context.Context, userId uuid.UUID, email string, req *dto.QuizRequest) (*dto.CaseResponse, error) {
	visaType := visatype.Normalize(req.VisaType)
	score := visatype.Score(req.Answers)
	status := entity.CaseStatusNeedsOptimization
	if score >= visatype.EligibleScore {
		status = entity.CaseStatusEligible
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence("begin transaction", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Upsert(ctx, &entity.User{Id: userId, Email: email}); err != nil {
		return nil, apperror.Persistence("save user", err)
	}

	vc := &entity.VisaCase{
		Id:           uuid.New(),
		UserId:       userId,
		VisaType:     string(visaType),
		Score:        score,
		Status:       status,
		Progress:     quizProgress,
		CostEstimate: visatype.BaseCost(visaType),
	}
	if err := uow.VisaCaseRepository().Create(ctx, vc); err != nil {
		return nil, apperror.Persistence("create case", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Persistence("commit case", err)
	}

	s.logger.Info(moduleCase, "Case created from quiz", map[string]interface{}{
		"user_id":   userId.String(),
		"case_id":   vc.Id.String(),
		"visa_type": vc.VisaType,
		"score":     score,
	})

	return buildCaseResponse(vc, nil), nil
}

func (s *visaCaseService) GetLatest(ctx context.Context, userId uuid.UUID) (*dto.CaseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	vc, err := uow.VisaCaseRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.Newest(),
	)
	if err != nil {
		return nil, apperror.Persistence("load latest case", err)
	}
	if vc == nil {
		return nil, apperror.NotFound("No case yet")
	}
	return s.withReadiness(ctx, uow, vc)
}

func (s *visaCaseService) GetByID(ctx context.Context, userId, caseId uuid.UUID) (*dto.CaseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	vc, err := findOwnedCase(ctx, uow, userId, caseId)
	if err != nil {
		return nil, err
	}
	return s.withReadiness(ctx, uow, vc)
}

func (s *visaCaseService) SaveDraft(ctx context.Context, userId, caseId uuid.UUID, req *dto.SaveDraftRequest) (*dto.CaseResponse, error) {
	now := s.now()
	vc, err := updateCaseMeta(ctx, s.uowFactory, func(vc *entity.VisaCase) error {
		vc.Meta.MergeInputs(req.Inputs)
		if req.AffidavitDraft != nil {
			vc.Meta.AffidavitDraft = *req.AffidavitDraft
		}
		vc.Meta.UpdatedAt = &now
		return nil
	}, specification.ByID{ID: caseId}, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if req.Progress != nil {
		if err := uow.VisaCaseRepository().RaiseProgress(ctx, vc.Id, *req.Progress); err != nil {
			return nil, apperror.Persistence("save progress", err)
		}
		if *req.Progress > vc.Progress {
			vc.Progress = *req.Progress
		}
	}
	return s.withReadiness(ctx, uow, vc)
}

func (s *visaCaseService) withReadiness(ctx context.Context, uow unitofwork.UnitOfWork, vc *entity.VisaCase) (*dto.CaseResponse, error) {
	uploads, err := uow.EvidenceUploadRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: vc.UserId},
		specification.ByVisaAppID{VisaAppID: vc.Id},
	)
	if err != nil {
		return nil, apperror.Persistence("load evidence", err)
	}
	return buildCaseResponse(vc, uploads), nil
}

func buildCaseResponse(vc *entity.VisaCase, uploads []*entity.EvidenceUpload) *dto.CaseResponse {
	cfg := caseConfig(vc)
	index := casework.IndexUploads(uploads)
	missing := casework.MissingEvidence(cfg, index)
	if missing == nil {
		missing = []string{}
	}

	return &dto.CaseResponse{
		Id:              vc.Id,
		VisaType:        vc.VisaType,
		Title:           cfg.Title,
		Status:          vc.Status,
		Score:           vc.Score,
		Progress:        vc.Progress,
		CostEstimate:    vc.CostEstimate,
		PolicyNotes:     vc.PolicyNotes,
		Ready:           len(missing) == 0,
		MissingEvidence: missing,
		Inputs:          vc.Meta.Inputs,
		AffidavitDraft:  vc.Meta.AffidavitDraft,
		Ledger: dto.LedgerResponse{
			PlanTier:         vc.Meta.PlanTier,
			Entitlements:     vc.Meta.Entitlements,
			CreditsRemaining: vc.Meta.Usage.MockInterviewCreditsRemaining,
			StorageUntil:     vc.Meta.StorageUntil,
			Flags:            vc.Meta.Flags,
		},
		Config:    cfg,
		CreatedAt: vc.CreatedAt,
	}
}
