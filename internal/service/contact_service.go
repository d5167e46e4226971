package service

import (
	"context"
	"strings"

	"visaforge-be/internal/dto"
	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/internal/pkg/logger"
	"visaforge-be/internal/pkg/mailer"
)

type IContactService interface {
	Submit(ctx context.Context, req *dto.ContactRequest) (*dto.ContactResponse, error)
}

type contactService struct {
	mailer mailer.IEmailService
	from   string
	logger logger.ILogger
}

func NewContactService(emailService mailer.IEmailService, from string, log logger.ILogger) IContactService {
	return &contactService{mailer: emailService, from: from, logger: log}
}

func (s *contactService) Submit(ctx context.Context, req *dto.ContactRequest) (*dto.ContactResponse, error) {
	email := strings.TrimSpace(req.Email)
	message := strings.TrimSpace(req.Message)
	if email == "" || message == "" {
		return nil, apperror.Validation("Email and message are required.")
	}

	msg := mailer.Contact(s.from, mailer.ContactForm{
		Name:    req.Name,
		Email:   email,
		Topic:   req.Topic,
		Message: message,
	})
	if err := s.mailer.Send(msg); err != nil {
		s.logger.Error(moduleContact, "Contact email failed", map[string]interface{}{
			"to":    msg.To,
			"error": err.Error(),
		})
		return nil, apperror.Upstream("Failed to send message", err)
	}

	s.logger.Info(moduleContact, "Contact message delivered", map[string]interface{}{
		"to":    msg.To,
		"topic": req.Topic,
	})
	return &dto.ContactResponse{Ok: true}, nil
}
