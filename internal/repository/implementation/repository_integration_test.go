package implementation

import (
	"context"
	"os"
	"testing"

	"visaforge-be/internal/entity"
	"visaforge-be/internal/model"
	"visaforge-be/internal/repository/contract"
	"visaforge-be/internal/repository/specification"
	"visaforge-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("DB_CONNECTION_STRING not set")
	}
	db, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.VisaApp{}, &model.EvidenceUpload{}, &model.Task{}))
	return db
}

func seedCase(t *testing.T, db *gorm.DB) (*entity.User, *entity.VisaCase) {
	t.Helper()
	ctx := context.Background()
	user := &entity.User{Id: uuid.New(), Email: uuid.NewString() + "@example.com"}
	require.NoError(t, NewUserRepository(db).Upsert(ctx, user))

	vc := &entity.VisaCase{UserId: user.Id, VisaType: "H1B", Status: entity.CaseStatusInProgress}
	require.NoError(t, NewVisaCaseRepository(db).Create(ctx, vc))
	return user, vc
}

func TestVisaCaseMetaVersionConflict(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, vc := seedCase(t, db)
	repo := NewVisaCaseRepository(db)

	stale := *vc
	vc.Meta.AffidavitDraft = "first"
	require.NoError(t, repo.UpdateMeta(ctx, vc))
	assert.Equal(t, 1, vc.MetaVersion)

	stale.Meta.AffidavitDraft = "second"
	assert.ErrorIs(t, repo.UpdateMeta(ctx, &stale), contract.ErrVersionConflict)

	got, err := repo.FindOne(ctx, specification.ByID{ID: vc.Id})
	require.NoError(t, err)
	assert.Equal(t, "first", got.Meta.AffidavitDraft)
}

func TestVisaCaseRaiseProgressNeverLowers(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, vc := seedCase(t, db)
	repo := NewVisaCaseRepository(db)

	require.NoError(t, repo.UpdateProgress(ctx, vc.Id, 60))
	require.NoError(t, repo.RaiseProgress(ctx, vc.Id, 50))

	got, err := repo.FindOne(ctx, specification.ByID{ID: vc.Id})
	require.NoError(t, err)
	assert.Equal(t, 60, got.Progress)
}

func TestEvidenceUpsertKeepsOneRow(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user, vc := seedCase(t, db)
	repo := NewEvidenceUploadRepository(db)

	first, second := "first", "second"
	require.NoError(t, repo.Upsert(ctx, &entity.EvidenceUpload{UserId: user.Id, VisaAppId: vc.Id, EvidenceId: "passport", Notes: &first}))
	row := &entity.EvidenceUpload{UserId: user.Id, VisaAppId: vc.Id, EvidenceId: "passport", Notes: &second, Complete: true}
	require.NoError(t, repo.Upsert(ctx, row))

	all, err := repo.FindAll(ctx, specification.ByVisaAppID{VisaAppID: vc.Id})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "second", *all[0].Notes)
	assert.Equal(t, all[0].Id, row.Id)
}

func TestTaskMarkDoneWhereTitleContains(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user, vc := seedCase(t, db)
	repo := NewTaskRepository(db)

	tasks := []*entity.Task{
		{UserId: user.Id, VisaAppId: vc.Id, Title: "Generate USCIS packet", Status: entity.TaskStatusTodo},
		{UserId: user.Id, VisaAppId: vc.Id, Title: "Review Forms Checklist", Status: entity.TaskStatusTodo},
	}
	require.NoError(t, repo.CreateBatch(ctx, tasks))

	n, err := repo.MarkDoneWhereTitleContains(ctx, vc.Id, "PACKET")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	open, err := repo.Count(ctx, specification.ByVisaAppID{VisaAppID: vc.Id}, specification.StatusNot{Status: string(entity.TaskStatusDone)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), open)
}
