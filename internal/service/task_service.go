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

const taskDueIn = 7 * 24 * time.Hour

type ITaskService interface {
	Seed(ctx context.Context, userId, caseId uuid.UUID, req *dto.SeedTasksRequest) ([]*dto.TaskResponse, error)
	List(ctx context.Context, userId, caseId uuid.UUID) ([]*dto.TaskResponse, error)
	SetStatus(ctx context.Context, userId, taskId uuid.UUID, req *dto.SetTaskStatusRequest) (*dto.TaskResponse, error)
	// EnsureTranslationTask reports whether a new task was created.
	EnsureTranslationTask(ctx context.Context, userId, caseId uuid.UUID, item visatype.EvidenceItem) (bool, error)
}

type taskService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	now        func() time.Time
}

func NewTaskService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) ITaskService {
	return &taskService{
		uowFactory: uowFactory,
		logger:     log,
		now:        utcNow,
	}
}

// Seed is a no-op when the case already has tasks.
func (s *taskService) Seed(ctx context.Context, userId, caseId uuid.UUID, req *dto.SeedTasksRequest) ([]*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	vc, err := findOwnedCase(ctx, uow, userId, caseId)
	if err != nil {
		return nil, err
	}

	existing, err := uow.TaskRepository().Count(ctx, specification.ByVisaAppID{VisaAppID: vc.Id})
	if err != nil {
		return nil, apperror.Persistence("count tasks", err)
	}
	if existing > 0 {
		return s.List(ctx, userId, caseId)
	}

	items := req.Items
	if len(items) == 0 {
		items = casework.DefaultTaskItems(caseConfig(vc))
	}

	due := s.now().Add(taskDueIn)
	tasks := make([]*entity.Task, 0, len(items))
	for _, it := range items {
		d := due
		tasks = append(tasks, &entity.Task{
			Id:         uuid.New(),
			UserId:     userId,
			VisaAppId:  vc.Id,
			Title:      it.Title,
			EvidenceId: it.EvidenceId,
			Status:     entity.TaskStatusTodo,
			DueDate:    &d,
		})
	}
	if err := uow.TaskRepository().CreateBatch(ctx, tasks); err != nil {
		return nil, apperror.Persistence("seed tasks", err)
	}

	s.logger.Info(moduleTask, "Tasks seeded", map[string]interface{}{
		"case_id": vc.Id.String(),
		"count":   len(tasks),
	})
	return s.List(ctx, userId, caseId)
}

func (s *taskService) List(ctx context.Context, userId, caseId uuid.UUID) ([]*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	tasks, err := uow.TaskRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByVisaAppID{VisaAppID: caseId},
		specification.Oldest(),
	)
	if err != nil {
		return nil, apperror.Persistence("list tasks", err)
	}

	res := make([]*dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, toTaskResponse(t))
	}
	return res, nil
}

// SetStatus overwrites the status; every transition between known states is allowed.
func (s *taskService) SetStatus(ctx context.Context, userId, taskId uuid.UUID, req *dto.SetTaskStatusRequest) (*dto.TaskResponse, error) {
	status := entity.TaskStatus(req.Status)
	if !status.Valid() {
		return nil, apperror.Validationf("Invalid status %q: use todo, waiting or done", req.Status)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	task, err := uow.TaskRepository().FindOne(ctx,
		specification.ByID{ID: taskId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Persistence("load task", err)
	}
	if task == nil {
		return nil, apperror.NotFound("Task not found")
	}

	if err := uow.TaskRepository().UpdateStatus(ctx, task.Id, status); err != nil {
		return nil, apperror.Persistence("update task", err)
	}
	task.Status = status
	return toTaskResponse(task), nil
}

func (s *taskService) EnsureTranslationTask(ctx context.Context, userId, caseId uuid.UUID, item visatype.EvidenceItem) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.TaskRepository()

	title := casework.TranslationTaskTitle(item)
	// seeded upload tasks share the evidence id, so the title identifies the order
	n, err := repo.Count(ctx,
		specification.ByVisaAppID{VisaAppID: caseId},
		specification.ByEvidenceID{EvidenceID: item.ID},
		specification.Filter("title", title),
	)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	id := item.ID
	due := s.now().Add(taskDueIn)
	err = repo.Create(ctx, &entity.Task{
		Id:         uuid.New(),
		UserId:     userId,
		VisaAppId:  caseId,
		Title:      title,
		EvidenceId: &id,
		Status:     entity.TaskStatusWaiting,
		DueDate:    &due,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func toTaskResponse(t *entity.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		Id:         t.Id,
		VisaAppId:  t.VisaAppId,
		Title:      t.Title,
		EvidenceId: t.EvidenceId,
		Status:     string(t.Status),
		DueDate:    t.DueDate,
		CreatedAt:  t.CreatedAt,
	}
}
