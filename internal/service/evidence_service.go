package service

import (
	"context"
	"io"
	"time"

	"visaforge-be/internal/dto"
	"visaforge-be/internal/entity"
	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/internal/pkg/logger"
	"visaforge-be/internal/repository/specification"
	"visaforge-be/internal/repository/unitofwork"
	"visaforge-be/pkg/casework"
	"visaforge-be/pkg/storage"
	"visaforge-be/pkg/visatype"

	"github.com/google/uuid"
)

type IEvidenceService interface {
	Record(ctx context.Context, userId, caseId uuid.UUID, evidenceId string, req *dto.RecordEvidenceRequest) (*dto.RecordEvidenceResponse, error)
	Attach(ctx context.Context, userId, caseId uuid.UUID, evidenceId string, file *dto.EvidenceFileUpload) (*dto.EvidenceUploadResponse, error)
	List(ctx context.Context, userId, caseId uuid.UUID) ([]*dto.EvidenceUploadResponse, error)
	Refresh(ctx context.Context, userId, caseId uuid.UUID) ([]*dto.EvidenceUploadResponse, error)
	Progress(ctx context.Context, userId, caseId uuid.UUID) (*dto.ProgressResponse, error)
}

type evidenceService struct {
	uowFactory  unitofwork.RepositoryFactory
	store       storage.Store
	taskService ITaskService
	logger      logger.ILogger
	bucket      string
	urlTTL      time.Duration
	now         func() time.Time
}

func NewEvidenceService(
	uowFactory unitofwork.RepositoryFactory,
	store storage.Store,
	taskService ITaskService,
	log logger.ILogger,
	bucket string,
	urlTTL time.Duration,
) IEvidenceService {
	if urlTTL <= 0 {
		urlTTL = storage.DefaultSignedURLTTL
	}
	return &evidenceService{
		uowFactory:  uowFactory,
		store:       store,
		taskService: taskService,
		logger:      log,
		bucket:      bucket,
		urlTTL:      urlTTL,
		now:         utcNow,
	}
}

func (s *evidenceService) checklistItem(vc *entity.VisaCase, evidenceId string) (visatype.EvidenceItem, error) {
	cfg := caseConfig(vc)
	item, ok := cfg.EvidenceItem(evidenceId)
	if !ok {
		return visatype.EvidenceItem{}, apperror.Validationf("Unknown evidence item %q for %s", evidenceId, cfg.Type)
	}
	return item, nil
}

func (s *evidenceService) findUpload(ctx context.Context, uow unitofwork.UnitOfWork, userId, caseId uuid.UUID, evidenceId string) (*entity.EvidenceUpload, error) {
	return uow.EvidenceUploadRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByVisaAppID{VisaAppID: caseId},
		specification.ByEvidenceID{EvidenceID: evidenceId},
	)
}

// Record saves notes and flags for one checklist item. A failed write is
// logged and reported through Saved instead of failing the request.
func (s *evidenceService) Record(ctx context.Context, userId, caseId uuid.UUID, evidenceId string, req *dto.RecordEvidenceRequest) (*dto.RecordEvidenceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	vc, err := findOwnedCase(ctx, uow, userId, caseId)
	if err != nil {
		return nil, err
	}
	item, err := s.checklistItem(vc, evidenceId)
	if err != nil {
		return nil, err
	}

	upload := &entity.EvidenceUpload{Id: uuid.New(), UserId: userId, VisaAppId: vc.Id, EvidenceId: evidenceId}
	saveErr := apperror.BestEffort(s.logger, moduleEvidence, "record evidence", func() error {
		existing, err := s.findUpload(ctx, uow, userId, vc.Id, evidenceId)
		if err != nil {
			return err
		}
		if existing != nil {
			upload = existing
		}
		if req.Notes != nil {
			upload.Notes = req.Notes
		}
		if req.InEnglish != nil {
			upload.InEnglish = req.InEnglish
		}
		if req.Complete != nil {
			upload.Complete = *req.Complete
		}
		return uow.EvidenceUploadRepository().Upsert(ctx, upload)
	})

	res := &dto.RecordEvidenceResponse{
		Upload: toEvidenceResponse(upload),
		Saved:  saveErr == nil,
	}

	if item.RequiresTranslationIfNotEnglish && req.InEnglish != nil && !*req.InEnglish {
		_ = apperror.BestEffort(s.logger, moduleEvidence, "ensure translation task", func() error {
			created, err := s.taskService.EnsureTranslationTask(ctx, userId, vc.Id, item)
			res.TranslationTaskCreated = created
			return err
		})
	}
	return res, nil
}

// Attach stores the file privately and appends it to the item's file list.
func (s *evidenceService) Attach(ctx context.Context, userId, caseId uuid.UUID, evidenceId string, file *dto.EvidenceFileUpload) (*dto.EvidenceUploadResponse, error) {
	if file == nil || file.Content == nil {
		return nil, apperror.Validation("Missing file")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	vc, err := findOwnedCase(ctx, uow, userId, caseId)
	if err != nil {
		return nil, err
	}
	if _, err := s.checklistItem(vc, evidenceId); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(file.Content)
	if err != nil {
		return nil, apperror.Validation("Could not read file")
	}

	key := storage.EvidenceKey(userId.String(), vc.Id.String(), evidenceId, s.now(), file.Filename)
	if err := s.store.Put(ctx, s.bucket, key, body, file.ContentType); err != nil {
		return nil, apperror.Persistence("Upload failed", err)
	}
	url, err := s.store.SignedURL(ctx, s.bucket, key, s.urlTTL)
	if err != nil {
		return nil, apperror.Persistence("Failed to create signed URL", err)
	}

	upload, err := s.findUpload(ctx, uow, userId, vc.Id, evidenceId)
	if err != nil {
		return nil, apperror.Persistence("load evidence", err)
	}
	if upload == nil {
		upload = &entity.EvidenceUpload{Id: uuid.New(), UserId: userId, VisaAppId: vc.Id, EvidenceId: evidenceId}
	}
	upload.Files = append(upload.Files, entity.EvidenceFile{
		Name: storage.CleanFilename(file.Filename),
		Path: key,
		URL:  url,
	})
	if err := apperror.Critical("save evidence file", uow.EvidenceUploadRepository().Upsert(ctx, upload)); err != nil {
		return nil, err
	}

	s.logger.Info(moduleEvidence, "File attached", map[string]interface{}{
		"case_id":     vc.Id.String(),
		"evidence_id": evidenceId,
		"path":        key,
	})
	return toEvidenceResponse(upload), nil
}

// List returns the case's uploads, minting links for files that lost theirs.
func (s *evidenceService) List(ctx context.Context, userId, caseId uuid.UUID) ([]*dto.EvidenceUploadResponse, error) {
	return s.listAndSign(ctx, userId, caseId, false)
}

// Refresh re-signs every stored file of the case.
func (s *evidenceService) Refresh(ctx context.Context, userId, caseId uuid.UUID) ([]*dto.EvidenceUploadResponse, error) {
	return s.listAndSign(ctx, userId, caseId, true)
}

func (s *evidenceService) listAndSign(ctx context.Context, userId, caseId uuid.UUID, all bool) ([]*dto.EvidenceUploadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	vc, err := findOwnedCase(ctx, uow, userId, caseId)
	if err != nil {
		return nil, err
	}
	uploads, err := uow.EvidenceUploadRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByVisaAppID{VisaAppID: vc.Id},
		specification.Oldest(),
	)
	if err != nil {
		return nil, apperror.Persistence("load evidence", err)
	}

	res := make([]*dto.EvidenceUploadResponse, 0, len(uploads))
	for _, u := range uploads {
		if s.resign(ctx, u, all) {
			upload := u
			_ = apperror.BestEffort(s.logger, moduleEvidence, "persist refreshed urls", func() error {
				return uow.EvidenceUploadRepository().UpdateFiles(ctx, upload.Id, upload.Files)
			})
		}
		res = append(res, toEvidenceResponse(u))
	}
	return res, nil
}

// resign reports whether any file link changed.
func (s *evidenceService) resign(ctx context.Context, u *entity.EvidenceUpload, all bool) bool {
	changed := false
	for i := range u.Files {
		f := &u.Files[i]
		if f.Path == "" || (!all && storage.IsSignedURL(f.URL)) {
			continue
		}
		_ = apperror.BestEffort(s.logger, moduleEvidence, "re-sign evidence url", func() error {
			url, err := s.store.SignedURL(ctx, s.bucket, f.Path, s.urlTTL)
			if err != nil {
				return err
			}
			f.URL = url
			changed = true
			return nil
		})
	}
	return changed
}

func (s *evidenceService) Progress(ctx context.Context, userId, caseId uuid.UUID) (*dto.ProgressResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	vc, err := findOwnedCase(ctx, uow, userId, caseId)
	if err != nil {
		return nil, err
	}
	uploads, err := uow.EvidenceUploadRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByVisaAppID{VisaAppID: vc.Id},
	)
	if err != nil {
		return nil, apperror.Persistence("load evidence", err)
	}

	cfg := caseConfig(vc)
	index := casework.IndexUploads(uploads)
	progress := casework.ComputeProgress(cfg, index)
	missing := casework.MissingEvidence(cfg, index)
	if missing == nil {
		missing = []string{}
	}

	_ = apperror.BestEffort(s.logger, moduleEvidence, "persist progress", func() error {
		return uow.VisaCaseRepository().UpdateProgress(ctx, vc.Id, progress)
	})

	return &dto.ProgressResponse{
		Progress:        progress,
		Ready:           len(missing) == 0,
		MissingEvidence: missing,
	}, nil
}

func toEvidenceResponse(u *entity.EvidenceUpload) *dto.EvidenceUploadResponse {
	files := u.Files
	if files == nil {
		files = []entity.EvidenceFile{}
	}
	return &dto.EvidenceUploadResponse{
		Id:         u.Id,
		EvidenceId: u.EvidenceId,
		Files:      files,
		Notes:      u.Notes,
		InEnglish:  u.InEnglish,
		Complete:   u.Complete,
		UpdatedAt:  u.UpdatedAt,
	}
}
