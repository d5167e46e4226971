package service

import (
	"context"
	"strings"
	"time"

	"visaforge-be/internal/dto"
	"visaforge-be/internal/entity"
	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/internal/pkg/logger"
	"visaforge-be/internal/repository/specification"
	"visaforge-be/internal/repository/unitofwork"
	"visaforge-be/pkg/casework"
	"visaforge-be/pkg/packet"
	"visaforge-be/pkg/storage"
	"visaforge-be/pkg/visatype"

	"github.com/google/uuid"
)

type IPacketService interface {
	Generate(ctx context.Context, userId uuid.UUID, req *dto.GeneratePacketRequest) (*dto.GeneratePacketResponse, error)
}

type packetService struct {
	uowFactory unitofwork.RepositoryFactory
	store      storage.Store
	publisher  IPublisherService
	logger     logger.ILogger
	bucket     string
	urlTTL     time.Duration
	now        func() time.Time
}

func NewPacketService(
	uowFactory unitofwork.RepositoryFactory,
	store storage.Store,
	publisher IPublisherService,
	log logger.ILogger,
	bucket string,
	urlTTL time.Duration,
) IPacketService {
	if urlTTL <= 0 {
		urlTTL = storage.DefaultSignedURLTTL
	}
	return &packetService{
		uowFactory: uowFactory,
		store:      store,
		publisher:  publisher,
		logger:     log,
		bucket:     bucket,
		urlTTL:     urlTTL,
		now:        utcNow,
	}
}

// Generate checks the gates against stored evidence, renders the packet and
// returns a signed link. Nothing is written to storage unless every gate passes.
func (s *packetService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GeneratePacketRequest) (*dto.GeneratePacketResponse, error) {
	cfg, ok := visatype.Lookup(visatype.Normalize(req.VisaType))
	if !ok {
		return nil, apperror.Validation("Unknown visa_type")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	vc, err := findOwnedCase(ctx, uow, userId, req.VisaAppId)
	if err != nil {
		return nil, err
	}

	if missing := casework.MissingInputs(cfg, req.Inputs); len(missing) > 0 {
		return nil, apperror.MissingFields("Missing required inputs: "+strings.Join(missing, ", "), missing)
	}

	uploads, err := uow.EvidenceUploadRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByVisaAppID{VisaAppID: vc.Id},
	)
	if err != nil {
		return nil, apperror.Persistence("DB error", err)
	}
	index := casework.IndexUploads(uploads)
	if missing := casework.MissingEvidence(cfg, index); len(missing) > 0 {
		return nil, apperror.MissingFields("Required evidence incomplete: "+strings.Join(missing, ", "), missing)
	}

	affidavit := req.Affidavit
	if strings.TrimSpace(affidavit) == "" {
		affidavit = vc.Meta.AffidavitDraft
	}

	now := s.now()
	pdf, err := packet.Render(packet.Document{
		PathTitle:   cfg.Title,
		CoreForms:   cfg.CoreForms,
		GeneratedAt: now,
		Inputs:      req.Inputs,
		Evidence:    evidenceEntries(cfg, index),
		Affidavit:   affidavit,
	})
	if err != nil {
		return nil, apperror.Critical("Generation failed", err)
	}

	key := storage.PacketKey(userId.String(), vc.Id.String(), now)
	if err := s.store.Put(ctx, s.bucket, key, pdf, "application/pdf"); err != nil {
		return nil, apperror.Persistence("Upload failed", err)
	}
	url, err := s.store.SignedURL(ctx, s.bucket, key, s.urlTTL)
	if err != nil {
		return nil, apperror.Persistence("Failed to create signed URL", err)
	}

	s.logger.Info(modulePacket, "Packet generated", map[string]interface{}{
		"case_id": vc.Id.String(),
		"path":    key,
		"bytes":   len(pdf),
	})

	_ = apperror.BestEffort(s.logger, modulePacket, "complete packet tasks", func() error {
		_, err := uow.TaskRepository().MarkDoneWhereTitleContains(ctx, vc.Id, "packet")
		return err
	})
	_ = apperror.BestEffort(s.logger, modulePacket, "record packet audit", func() error {
		_, err := updateCaseMeta(ctx, s.uowFactory, func(c *entity.VisaCase) error {
			c.Meta.AppendAudit(entity.AuditPacketGenerated, now, key)
			return nil
		}, specification.ByID{ID: vc.Id})
		return err
	})
	_ = apperror.BestEffort(s.logger, modulePacket, "publish packet event", func() error {
		return s.publisher.Publish(TopicPacketGenerated, dto.PacketGeneratedMessage{
			UserId:     userId,
			CaseId:     vc.Id,
			Path:       key,
			OccurredAt: now,
		})
	})

	return &dto.GeneratePacketResponse{URL: url}, nil
}

func evidenceEntries(cfg visatype.UseCaseConfig, index map[string]*entity.EvidenceUpload) []packet.EvidenceEntry {
	entries := make([]packet.EvidenceEntry, 0, len(cfg.Evidence))
	for _, item := range cfg.Evidence {
		entry := packet.EvidenceEntry{Title: item.Title, Required: item.Required}
		if u, ok := index[item.ID]; ok {
			entry.Present = true
			entry.Complete = u.Complete
			entry.InEnglish = u.InEnglish
			if u.Notes != nil {
				entry.Notes = *u.Notes
			}
			for _, f := range u.Files {
				entry.FileNames = append(entry.FileNames, f.Name)
			}
		}
		entries = append(entries, entry)
	}
	return entries
}
