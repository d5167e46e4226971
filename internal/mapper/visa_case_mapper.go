package mapper

import (
	"encoding/json"
	"fmt"

	"visaforge-be/internal/entity"
	"visaforge-be/internal/model"

	"gorm.io/datatypes"
)

type VisaCaseMapper struct{}

func NewVisaCaseMapper() *VisaCaseMapper {
	return &VisaCaseMapper{}
}

// ToEntity fails when stored meta cannot be decoded; writing back a
// half-read ledger would lose data.
func (m *VisaCaseMapper) ToEntity(v *model.VisaApp) (*entity.VisaCase, error) {
	if v == nil {
		return nil, nil
	}
	var meta entity.CaseMeta
	if len(v.Meta) > 0 && string(v.Meta) != "null" {
		if err := json.Unmarshal(v.Meta, &meta); err != nil {
			return nil, fmt.Errorf("decode meta of visa app %s: %w", v.Id, err)
		}
	}
	return &entity.VisaCase{
		Id:           v.Id,
		UserId:       v.UserId,
		VisaType:     v.VisaType,
		Score:        v.Score,
		Status:       v.Status,
		Progress:     v.Progress,
		CostEstimate: v.CostEstimate,
		PolicyNotes:  v.PolicyNotes,
		Meta:         meta,
		MetaVersion:  v.MetaVersion,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}, nil
}

func (m *VisaCaseMapper) ToModel(c *entity.VisaCase) (*model.VisaApp, error) {
	if c == nil {
		return nil, nil
	}
	meta, err := m.EncodeMeta(c.Meta)
	if err != nil {
		return nil, err
	}
	return &model.VisaApp{
		Id:           c.Id,
		UserId:       c.UserId,
		VisaType:     c.VisaType,
		Score:        c.Score,
		Status:       c.Status,
		Progress:     c.Progress,
		CostEstimate: c.CostEstimate,
		PolicyNotes:  c.PolicyNotes,
		Meta:         meta,
		MetaVersion:  c.MetaVersion,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}, nil
}

func (m *VisaCaseMapper) EncodeMeta(meta entity.CaseMeta) (datatypes.JSON, error) {
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encode meta: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func (m *VisaCaseMapper) ToEntities(apps []*model.VisaApp) ([]*entity.VisaCase, error) {
	out := make([]*entity.VisaCase, 0, len(apps))
	for _, a := range apps {
		c, err := m.ToEntity(a)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
