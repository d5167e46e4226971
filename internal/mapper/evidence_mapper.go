package mapper

import (
	"encoding/json"

	"visaforge-be/internal/entity"
	"visaforge-be/internal/model"

	"gorm.io/datatypes"
)

type EvidenceMapper struct{}

func NewEvidenceMapper() *EvidenceMapper {
	return &EvidenceMapper{}
}

func (m *EvidenceMapper) ToEntity(e *model.EvidenceUpload) *entity.EvidenceUpload {
	if e == nil {
		return nil
	}
	var files []entity.EvidenceFile
	if len(e.Files) > 0 {
		// a malformed files column reads as no files rather than failing the checklist
		_ = json.Unmarshal(e.Files, &files)
	}
	return &entity.EvidenceUpload{
		Id:         e.Id,
		UserId:     e.UserId,
		VisaAppId:  e.VisaAppId,
		EvidenceId: e.EvidenceId,
		Files:      files,
		Notes:      e.Notes,
		InEnglish:  e.InEnglish,
		Complete:   e.Complete,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func (m *EvidenceMapper) ToModel(e *entity.EvidenceUpload) *model.EvidenceUpload {
	if e == nil {
		return nil
	}
	return &model.EvidenceUpload{
		Id:         e.Id,
		UserId:     e.UserId,
		VisaAppId:  e.VisaAppId,
		EvidenceId: e.EvidenceId,
		Files:      m.EncodeFiles(e.Files),
		Notes:      e.Notes,
		InEnglish:  e.InEnglish,
		Complete:   e.Complete,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func (m *EvidenceMapper) EncodeFiles(files []entity.EvidenceFile) datatypes.JSON {
	if files == nil {
		files = []entity.EvidenceFile{}
	}
	raw, _ := json.Marshal(files)
	return datatypes.JSON(raw)
}

func (m *EvidenceMapper) ToEntities(list []*model.EvidenceUpload) []*entity.EvidenceUpload {
	out := make([]*entity.EvidenceUpload, 0, len(list))
	for _, e := range list {
		out = append(out, m.ToEntity(e))
	}
	return out
}
