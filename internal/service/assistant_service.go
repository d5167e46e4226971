package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"visaforge-be/internal/constant"
	"visaforge-be/internal/dto"
	"visaforge-be/internal/entity"
	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/internal/pkg/logger"
	"visaforge-be/internal/repository/specification"
	"visaforge-be/internal/repository/unitofwork"
	"visaforge-be/pkg/events"
	"visaforge-be/pkg/llm"
	"visaforge-be/pkg/visatype"

	"github.com/google/uuid"
)

// draftProgress is the progress floor once an affidavit has been drafted.
const draftProgress = 50

type IAssistantService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	DraftAffidavit(ctx context.Context, userId uuid.UUID, req *dto.AffidavitRequest) (*dto.AffidavitResponse, error)
}

type assistantService struct {
	uowFactory unitofwork.RepositoryFactory
	llm        llm.LLMProvider
	grounding  IGroundingService
	events     EventPublisher
	logger     logger.ILogger
	now        func() time.Time
}

func NewAssistantService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	grounding IGroundingService,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		uowFactory: uowFactory,
		llm:        llmProvider,
		grounding:  grounding,
		events:     eventPublisher,
		logger:     log,
		now:        utcNow,
	}
}

func (s *assistantService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	if s.llm == nil {
		return nil, apperror.Persistence("Server misconfiguration: OPENAI_API_KEY is missing", nil)
	}

	history := make([]llm.Message, 0, len(req.Messages)+2)
	hasSystem := false
	lastUser := -1
	for _, m := range req.Messages {
		if m.Role == llm.RoleSystem {
			hasSystem = true
		}
		if m.Role == llm.RoleUser {
			lastUser = len(history)
		}
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}
	if !hasSystem {
		date := s.now().Format("January 2, 2006")
		history = append([]llm.Message{{
			Role:    llm.RoleSystem,
			Content: fmt.Sprintf(constant.AdvisorSystemPrompt, date, date),
		}}, history...)
		if lastUser >= 0 {
			lastUser++
		}
	}

	res := &dto.ChatResponse{Sources: []dto.SourceLink{}}
	if lastUser >= 0 && s.grounding != nil {
		grounded := s.grounding.Ground(ctx, history[lastUser].Content)
		if len(grounded.References) > 0 {
			var excerpts strings.Builder
			for i, ref := range grounded.References {
				fmt.Fprintf(&excerpts, "[%d] %s - %s\n%s\n\n", i+1, ref.Title, ref.URL, ref.Text)
				res.Sources = append(res.Sources, dto.SourceLink{I: i + 1, Title: ref.Title, URL: ref.URL})
			}
			note := llm.Message{
				Role:    llm.RoleSystem,
				Content: fmt.Sprintf(constant.GroundingSystemPrompt, strings.TrimSpace(excerpts.String())),
			}
			history = append(history[:lastUser], append([]llm.Message{note}, history[lastUser:]...)...)
			res.Grounded = true
		}
	}

	answer, err := s.llm.Chat(ctx, history)
	if err != nil {
		return nil, apperror.Upstream("Failed to fetch OpenAI response", err)
	}
	res.Answer = answer
	return res, nil
}

func (s *assistantService) DraftAffidavit(ctx context.Context, userId uuid.UUID, req *dto.AffidavitRequest) (*dto.AffidavitResponse, error) {
	if s.llm == nil {
		return nil, apperror.Persistence("Server misconfiguration: OPENAI_API_KEY is missing", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	vc, err := findOwnedCase(ctx, uow, userId, req.VisaAppId)
	if err != nil {
		return nil, err
	}
	cfg, ok := visatype.Lookup(visatype.Normalize(req.VisaType))
	if !ok {
		cfg = caseConfig(vc)
	}

	inputs := req.Inputs
	if inputs == nil {
		inputs = map[string]interface{}{}
	}
	data, err := json.Marshal(inputs)
	if err != nil {
		return nil, apperror.Validation("inputs must be JSON serialisable")
	}

	prompt := fmt.Sprintf(constant.AffidavitPrompt, cfg.Title, string(data), constant.AffidavitSuggestions[string(cfg.Type)])
	draft, err := s.llm.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: constant.DraftingSystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		return nil, apperror.Upstream("Drafting failed", err)
	}

	now := s.now()
	_, err = updateCaseMeta(ctx, s.uowFactory, func(c *entity.VisaCase) error {
		c.Meta.MergeInputs(req.Inputs)
		c.Meta.AffidavitDraft = draft
		c.Meta.UpdatedAt = &now
		c.Meta.AppendAudit(entity.AuditAffidavitDrafted, now, "")
		return nil
	}, specification.ByID{ID: vc.Id})
	if err != nil {
		return nil, err
	}

	_ = apperror.BestEffort(s.logger, moduleAssistant, "raise progress", func() error {
		return uow.VisaCaseRepository().RaiseProgress(ctx, vc.Id, draftProgress)
	})
	if s.events != nil {
		_ = apperror.BestEffort(s.logger, moduleAssistant, "publish affidavit event", func() error {
			return s.events.Publish(ctx, events.NewAffidavitDrafted(userId.String(), vc.Id.String(), string(cfg.Type), now))
		})
	}

	s.logger.Info(moduleAssistant, "Affidavit drafted", map[string]interface{}{
		"case_id":   vc.Id.String(),
		"visa_type": string(cfg.Type),
	})
	return &dto.AffidavitResponse{Draft: draft}, nil
}
