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
	"gorm.io/gorm/clause"
)

type EvidenceUploadRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EvidenceMapper
}

func NewEvidenceUploadRepository(db *gorm.DB) contract.EvidenceUploadRepository {
	return &EvidenceUploadRepositoryImpl{
		db:     db,
		mapper: mapper.NewEvidenceMapper(),
	}
}

func (r *EvidenceUploadRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *EvidenceUploadRepositoryImpl) Upsert(ctx context.Context, upload *entity.EvidenceUpload) error {
	m := r.mapper.ToModel(upload)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "visa_app_id"}, {Name: "evidence_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"files", "notes", "in_english", "complete", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}

	// On conflict the returned id is the generated one, not the stored row's.
	stored, err := r.FindOne(ctx,
		specification.UserOwnedBy{UserID: upload.UserId},
		specification.ByVisaAppID{VisaAppID: upload.VisaAppId},
		specification.ByEvidenceID{EvidenceID: upload.EvidenceId},
	)
	if err != nil {
		return err
	}
	if stored != nil {
		*upload = *stored
	}
	return nil
}

func (r *EvidenceUploadRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EvidenceUpload, error) {
	var m model.EvidenceUpload
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}

func (r *EvidenceUploadRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EvidenceUpload, error) {
	var models []*model.EvidenceUpload
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}

func (r *EvidenceUploadRepositoryImpl) UpdateFiles(ctx context.Context, id uuid.UUID, files []entity.EvidenceFile) error {
	return r.db.WithContext(ctx).Model(&model.EvidenceUpload{}).
		Where("id = ?", id).
		Update("files", r.mapper.EncodeFiles(files)).Error
}
