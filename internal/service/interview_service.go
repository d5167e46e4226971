package service

import (
	"context"
	"strings"
	"time"

	"visaforge-be/internal/constant"
	"visaforge-be/internal/dto"
	"visaforge-be/internal/entity"
	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/internal/pkg/logger"
	"visaforge-be/internal/repository/specification"
	"visaforge-be/internal/repository/unitofwork"
	"visaforge-be/pkg/casework"
	"visaforge-be/pkg/llm"

	"github.com/google/uuid"
)

const noInterviewInput = "No transcript or answers provided. Send JSON with { transcript } or multipart with audio."

type IInterviewService interface {
	Feedback(ctx context.Context, userId uuid.UUID, req *dto.InterviewFeedbackRequest) (*dto.InterviewFeedbackResponse, error)
	// DecrementCredit spends one mock-interview credit. It returns nil when the
	// case is missing or the ledger could not be written.
	DecrementCredit(ctx context.Context, userId, caseId uuid.UUID) *int
}

type interviewService struct {
	uowFactory  unitofwork.RepositoryFactory
	llm         llm.LLMProvider
	transcriber llm.Transcriber
	logger      logger.ILogger
	now         func() time.Time
}

func NewInterviewService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	transcriber llm.Transcriber,
	log logger.ILogger,
) IInterviewService {
	return &interviewService{
		uowFactory:  uowFactory,
		llm:         llmProvider,
		transcriber: transcriber,
		logger:      log,
		now:         utcNow,
	}
}

func (s *interviewService) Feedback(ctx context.Context, userId uuid.UUID, req *dto.InterviewFeedbackRequest) (*dto.InterviewFeedbackResponse, error) {
	if s.llm == nil {
		return nil, apperror.Persistence("OPENAI_API_KEY is missing", nil)
	}

	transcript := strings.TrimSpace(req.Transcript)
	if transcript == "" && req.Audio != nil && s.transcriber != nil {
		text, err := s.transcriber.Transcribe(ctx, req.AudioFilename, req.Audio)
		if err != nil {
			return nil, apperror.Upstream("Transcription failed", err)
		}
		transcript = strings.TrimSpace(text)
	}
	if transcript == "" && len(req.Answers) == 0 {
		return nil, apperror.Validation(noInterviewInput)
	}

	body := transcript
	if body == "" {
		body = strings.Join(req.Answers, "\n\n• ")
	}
	contextLine := ""
	if c := strings.TrimSpace(req.PromptContext); c != "" {
		contextLine = "Context: " + c
	}
	prompt := constant.InterviewCoachPrompt + "\n" + contextLine + "\n\nAnswers / Transcript:\n" + body

	feedback, err := s.llm.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: constant.InterviewCoachSystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}, llm.WithTemperature(constant.InterviewTemperature))
	if err != nil {
		return nil, apperror.Upstream("Feedback analysis failed", err)
	}

	res := &dto.InterviewFeedbackResponse{
		Feedback:       feedback,
		UsedTranscript: transcript != "",
		UsedAnswers:    len(req.Answers) > 0,
	}
	if req.VisaAppId != nil {
		res.CreditsRemaining = s.DecrementCredit(ctx, userId, *req.VisaAppId)
	}
	return res, nil
}

func (s *interviewService) DecrementCredit(ctx context.Context, userId, caseId uuid.UUID) *int {
	var remaining *int
	_ = apperror.BestEffort(s.logger, moduleInterview, "decrement interview credit", func() error {
		now := s.now()
		left := 0
		_, err := updateCaseMeta(ctx, s.uowFactory, func(vc *entity.VisaCase) error {
			left = casework.UseMockInterviewCredit(&vc.Meta, now)
			return nil
		}, specification.ByID{ID: caseId}, specification.UserOwnedBy{UserID: userId})
		if err != nil {
			return err
		}
		remaining = &left
		return nil
	})
	return remaining
}
