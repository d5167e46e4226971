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

type VisaCaseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VisaCaseMapper
}

func NewVisaCaseRepository(db *gorm.DB) contract.VisaCaseRepository {
	return &VisaCaseRepositoryImpl{
		db:     db,
		mapper: mapper.NewVisaCaseMapper(),
	}
}

func (r *VisaCaseRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *VisaCaseRepositoryImpl) Create(ctx context.Context, visaCase *entity.VisaCase) error {
	m, err := r.mapper.ToModel(visaCase)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	created, err := r.mapper.ToEntity(m)
	if err != nil {
		return err
	}
	*visaCase = *created
	return nil
}

func (r *VisaCaseRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VisaCase, error) {
	var m model.VisaApp
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m)
}

func (r *VisaCaseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.VisaCase, error) {
	var models []*model.VisaApp
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models)
}

func (r *VisaCaseRepositoryImpl) UpdateMeta(ctx context.Context, visaCase *entity.VisaCase) error {
	meta, err := r.mapper.EncodeMeta(visaCase.Meta)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&model.VisaApp{}).
		Where("id = ? AND meta_version = ?", visaCase.Id, visaCase.MetaVersion).
		Updates(map[string]interface{}{
			"meta":         meta,
			"meta_version": gorm.Expr("meta_version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return contract.ErrVersionConflict
	}

	visaCase.MetaVersion++
	return nil
}

func (r *VisaCaseRepositoryImpl) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error {
	return r.db.WithContext(ctx).Model(&model.VisaApp{}).
		Where("id = ?", id).
		Update("progress", progress).Error
}

func (r *VisaCaseRepositoryImpl) RaiseProgress(ctx context.Context, id uuid.UUID, atLeast int) error {
	return r.db.WithContext(ctx).Model(&model.VisaApp{}).
		Where("id = ?", id).
		Update("progress", gorm.Expr("GREATEST(progress, ?)", atLeast)).Error
}
