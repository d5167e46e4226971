package service

import (
	"context"
	"time"

	"visaforge-be/internal/dto"
	"visaforge-be/internal/entity"
	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/internal/pkg/logger"
	"visaforge-be/internal/pkg/mailer"
	"visaforge-be/internal/repository/specification"
	"visaforge-be/internal/repository/unitofwork"
	"visaforge-be/pkg/events"

	"github.com/google/uuid"
)

// DefaultReminderWindow is how far ahead the sweep looks for due tasks.
const DefaultReminderWindow = 7 * 24 * time.Hour

type IReminderService interface {
	// Sweep emails every user with open tasks due within window. In dry-run
	// mode nothing is sent and Sent counts the emails that would have gone out.
	Sweep(ctx context.Context, window time.Duration, dryRun bool) (*dto.ReminderSweepResult, error)
}

type reminderService struct {
	uowFactory unitofwork.RepositoryFactory
	mailer     mailer.IEmailService
	events     EventPublisher
	logger     logger.ILogger
	from       string
	clientURL  string
	now        func() time.Time
}

func NewReminderService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher EventPublisher,
	log logger.ILogger,
	from string,
	clientURL string,
) IReminderService {
	return &reminderService{
		uowFactory: uowFactory,
		mailer:     emailService,
		events:     eventPublisher,
		logger:     log,
		from:       from,
		clientURL:  clientURL,
		now:        utcNow,
	}
}

func (s *reminderService) Sweep(ctx context.Context, window time.Duration, dryRun bool) (*dto.ReminderSweepResult, error) {
	if window <= 0 {
		window = DefaultReminderWindow
	}
	now := s.now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	tasks, err := uow.TaskRepository().FindAll(ctx,
		specification.StatusNot{Status: string(entity.TaskStatusDone)},
		specification.DueOnOrBefore{At: now.Add(window)},
		specification.OrderBy{Field: "due_date"},
	)
	if err != nil {
		return nil, apperror.Persistence("load due tasks", err)
	}

	byUser := make(map[uuid.UUID][]mailer.ReminderItem)
	order := make([]uuid.UUID, 0)
	for _, t := range tasks {
		if _, seen := byUser[t.UserId]; !seen {
			order = append(order, t.UserId)
		}
		byUser[t.UserId] = append(byUser[t.UserId], mailer.ReminderItem{Title: t.Title, DueDate: t.DueDate})
	}

	result := &dto.ReminderSweepResult{DryRun: dryRun}
	if len(order) == 0 {
		s.logger.Info(moduleReminder, "No due tasks", map[string]interface{}{"window": window.String()})
		return result, nil
	}

	users, err := uow.UserRepository().FindAll(ctx, specification.ByIDs{IDs: order})
	if err != nil {
		return nil, apperror.Persistence("load users", err)
	}
	emails := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		emails[u.Id] = u.Email
	}

	for _, userId := range order {
		to := emails[userId]
		if to == "" {
			result.Skipped++
			continue
		}
		msg := mailer.DueReminder(s.from, to, s.clientURL, byUser[userId])
		if dryRun {
			s.logger.Info(moduleReminder, "Dry run: reminder not sent", map[string]interface{}{
				"user_id": userId.String(),
				"items":   len(byUser[userId]),
			})
			result.Sent++
			continue
		}
		if err := apperror.BestEffort(s.logger, moduleReminder, "send reminder", func() error {
			return s.mailer.Send(msg)
		}); err != nil {
			result.Failed++
			continue
		}
		result.Sent++
	}

	if !dryRun && s.events != nil {
		_ = apperror.BestEffort(s.logger, moduleReminder, "publish reminders event", func() error {
			return s.events.Publish(ctx, events.NewRemindersSent(result.Sent, result.Failed, result.Skipped, now))
		})
	}

	s.logger.Info(moduleReminder, "Reminder sweep finished", map[string]interface{}{
		"sent":    result.Sent,
		"failed":  result.Failed,
		"skipped": result.Skipped,
		"dry_run": dryRun,
	})
	return result, nil
}
