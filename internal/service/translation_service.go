package service

import (
	"context"
	"errors"

	"visaforge-be/internal/dto"
	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/internal/pkg/logger"
	"visaforge-be/pkg/translation"
)

// TranslationClient is the vendor port; *translation.Client satisfies it.
type TranslationClient interface {
	Configured() bool
	Submit(ctx context.Context, req translation.Request) (*translation.Response, error)
}

type ITranslationService interface {
	Order(ctx context.Context, req *dto.TranslationOrderRequest) (*translation.Response, error)
}

type translationService struct {
	client TranslationClient
	logger logger.ILogger
}

func NewTranslationService(client TranslationClient, log logger.ILogger) ITranslationService {
	return &translationService{client: client, logger: log}
}

func (s *translationService) Order(ctx context.Context, req *dto.TranslationOrderRequest) (*translation.Response, error) {
	if s.client == nil || !s.client.Configured() {
		return nil, apperror.Persistence(translation.ErrMissingAPIKey.Error(), nil)
	}
	if req.File == nil {
		return nil, apperror.Validation("Missing file")
	}

	targetLang := req.TargetLang
	if targetLang == "" {
		targetLang = translation.DefaultTargetLang
	}

	res, err := s.client.Submit(ctx, translation.Request{
		Filename:   req.Filename,
		File:       req.File,
		TargetLang: targetLang,
		Fields: map[string]string{
			"visa_app_id": req.VisaAppId,
			"evidence_id": req.EvidenceId,
		},
	})
	if err != nil {
		if errors.Is(err, translation.ErrMissingAPIKey) {
			return nil, apperror.Persistence(err.Error(), nil)
		}
		s.logger.Error(moduleTranslation, "Vendor request failed", map[string]interface{}{
			"filename": req.Filename,
			"error":    err.Error(),
		})
		return nil, apperror.Upstream("Translation request failed", err)
	}

	s.logger.Info(moduleTranslation, "Translation order forwarded", map[string]interface{}{
		"filename":    req.Filename,
		"target_lang": targetLang,
		"status":      res.Status,
	})
	return res, nil
}
