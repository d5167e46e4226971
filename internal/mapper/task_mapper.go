package mapper

import (
	"visaforge-be/internal/entity"
	"visaforge-be/internal/model"
)

type TaskMapper struct{}

func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

func (m *TaskMapper) ToEntity(t *model.Task) *entity.Task {
	if t == nil {
		return nil
	}
	return &entity.Task{
		Id:         t.Id,
		UserId:     t.UserId,
		VisaAppId:  t.VisaAppId,
		Title:      t.Title,
		EvidenceId: t.EvidenceId,
		Status:     entity.TaskStatus(t.Status),
		DueDate:    t.DueDate,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func (m *TaskMapper) ToModel(t *entity.Task) *model.Task {
	if t == nil {
		return nil
	}
	return &model.Task{
		Id:         t.Id,
		UserId:     t.UserId,
		VisaAppId:  t.VisaAppId,
		Title:      t.Title,
		EvidenceId: t.EvidenceId,
		Status:     string(t.Status),
		DueDate:    t.DueDate,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func (m *TaskMapper) ToEntities(list []*model.Task) []*entity.Task {
	out := make([]*entity.Task, 0, len(list))
	for _, t := range list {
		out = append(out, m.ToEntity(t))
	}
	return out
}
