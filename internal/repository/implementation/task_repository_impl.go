package implementation

import (
	"context"
	"errors"

	"visaforge-be/internal/entity"
	"visaforge-be/internal/mapper"
	"visaforge-be/internal/model"
	"visaforge-be/internal/repository/contract"
	"visaforge-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TaskMapper
}

func NewTaskRepository(db *gorm.DB) contract.TaskRepository {
	return &TaskRepositoryImpl{
		db:     db,
		mapper: mapper.NewTaskMapper(),
	}
}

func (r *TaskRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entity.Task) error {
	m := r.mapper.ToModel(task)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*task = *r.mapper.ToEntity(m)
	return nil
}

func (r *TaskRepositoryImpl) CreateBatch(ctx context.Context, tasks []*entity.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	models := make([]*model.Task, 0, len(tasks))
	for _, t := range tasks {
		models = append(models, r.mapper.ToModel(t))
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*tasks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *TaskRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Task, error) {
	var m model.Task
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}

func (r *TaskRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Task, error) {
	var models []*model.Task
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}

func (r *TaskRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Task{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TaskRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.TaskStatus) error {
	return r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

func (r *TaskRepositoryImpl) MarkDoneWhereTitleContains(ctx context.Context, visaAppID uuid.UUID, fragment string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("visa_app_id = ? AND status <> ? AND title ILIKE ?", visaAppID, string(entity.TaskStatusDone), "%"+fragment+"%").
		Update("status", string(entity.TaskStatusDone))
	return result.RowsAffected, result.Error
}
