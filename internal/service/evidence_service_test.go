package service

import (
	"context"
	"strings"
	"testing"

	"visaforge-be/internal/dto"
	"visaforge-be/internal/entity"
	"visaforge-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvidenceFixture() (*fakeDB, *fakeStore, *evidenceService) {
	db := newFakeDB()
	store := newFakeStore()
	tasks := NewTaskService(db, nopLogger()).(*taskService)
	tasks.now = fixedClock
	svc := NewEvidenceService(db, store, tasks, nopLogger(), "evidence", 0).(*evidenceService)
	svc.now = fixedClock
	return db, store, svc
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestRecordEvidenceUpsertsOneRow(t *testing.T) {
	db, _, svc := newEvidenceFixture()
	user := db.addUser("a@example.com")
	vc := db.addCase(user.Id, "H1B")
	ctx := context.Background()

	res, err := svc.Record(ctx, user.Id, vc.Id, "lca", &dto.RecordEvidenceRequest{Notes: strPtr("first")})
	require.NoError(t, err)
	assert.True(t, res.Saved)

	res, err = svc.Record(ctx, user.Id, vc.Id, "lca", &dto.RecordEvidenceRequest{
		Notes:    strPtr("second"),
		Complete: boolPtr(true),
	})
	require.NoError(t, err)
	assert.True(t, res.Saved)

	require.Len(t, db.uploads, 1)
	assert.Equal(t, "second", *db.uploads[0].Notes)
	assert.True(t, db.uploads[0].Complete)

	// fields left out keep their stored values
	_, err = svc.Record(ctx, user.Id, vc.Id, "lca", &dto.RecordEvidenceRequest{InEnglish: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "second", *db.uploads[0].Notes)
	assert.True(t, db.uploads[0].Complete)
}

func TestRecordEvidenceSwallowsWriteFailure(t *testing.T) {
	db, _, svc := newEvidenceFixture()
	db.failUploadUpsert = true
	user := db.addUser("a@example.com")
	vc := db.addCase(user.Id, "H1B")

	res, err := svc.Record(context.Background(), user.Id, vc.Id, "lca", &dto.RecordEvidenceRequest{Complete: boolPtr(true)})
	require.NoError(t, err)
	assert.False(t, res.Saved)
	assert.Empty(t, db.uploads)
}

func TestRecordEvidenceRejectsUnknownItem(t *testing.T) {
	db, _, svc := newEvidenceFixture()
	user := db.addUser("a@example.com")
	vc := db.addCase(user.Id, "H1B")

	_, err := svc.Record(context.Background(), user.Id, vc.Id, "marriage-certificate", &dto.RecordEvidenceRequest{})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestRecordEvidenceOrdersTranslationOnce(t *testing.T) {
	db, _, svc := newEvidenceFixture()
	user := db.addUser("a@example.com")
	vc := db.addCase(user.Id, "H1B")
	ctx := context.Background()

	res, err := svc.Record(ctx, user.Id, vc.Id, "degree-eval", &dto.RecordEvidenceRequest{InEnglish: boolPtr(false)})
	require.NoError(t, err)
	assert.True(t, res.TranslationTaskCreated)

	res, err = svc.Record(ctx, user.Id, vc.Id, "degree-eval", &dto.RecordEvidenceRequest{InEnglish: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, res.TranslationTaskCreated)
	assert.Len(t, db.tasksOf(vc.Id), 1)

	// items that never need translation do not create tasks
	_, err = svc.Record(ctx, user.Id, vc.Id, "lca", &dto.RecordEvidenceRequest{InEnglish: boolPtr(false)})
	require.NoError(t, err)
	assert.Len(t, db.tasksOf(vc.Id), 1)
}

func TestRecordEvidenceTranslationFailureIsSwallowed(t *testing.T) {
	db, _, svc := newEvidenceFixture()
	db.failTaskCreate = true
	user := db.addUser("a@example.com")
	vc := db.addCase(user.Id, "H1B")

	res, err := svc.Record(context.Background(), user.Id, vc.Id, "degree-eval", &dto.RecordEvidenceRequest{InEnglish: boolPtr(false)})
	require.NoError(t, err)
	assert.True(t, res.Saved)
	assert.False(t, res.TranslationTaskCreated)
}

func TestAttachEvidenceFile(t *testing.T) {
	db, store, svc := newEvidenceFixture()
	user := db.addUser("a@example.com")
	vc := db.addCase(user.Id, "H1B")

	res, err := svc.Attach(context.Background(), user.Id, vc.Id, "lca", &dto.EvidenceFileUpload{
		Filename:    "../lca approval.pdf",
		ContentType: "application/pdf",
		Content:     strings.NewReader("%PDF-1.4 test"),
	})
	require.NoError(t, err)

	require.Len(t, res.Files, 1)
	file := res.Files[0]
	assert.Equal(t, "lca approval.pdf", file.Name)
	assert.True(t, strings.HasPrefix(file.Path, user.Id.String()+"/"+vc.Id.String()+"/lca/"))
	assert.True(t, strings.HasSuffix(file.Path, "-lca approval.pdf"))
	assert.Contains(t, file.URL, "https://storage.test/evidence/")
	assert.Contains(t, store.puts, "evidence/"+file.Path)
	require.Len(t, db.uploads, 1)
	assert.Len(t, db.uploads[0].Files, 1)
}

func TestAttachEvidenceUploadFailureIsLoud(t *testing.T) {
	db, store, svc := newEvidenceFixture()
	store.failPut = true
	user := db.addUser("a@example.com")
	vc := db.addCase(user.Id, "H1B")

	_, err := svc.Attach(context.Background(), user.Id, vc.Id, "lca", &dto.EvidenceFileUpload{
		Filename: "lca.pdf",
		Content:  strings.NewReader("x"),
	})
	assert.True(t, apperror.Is(err, apperror.KindPersistence))
	assert.Empty(t, db.uploads)
}

func TestListEvidenceResignsMissingLinks(t *testing.T) {
	db, store, svc := newEvidenceFixture()
	user := db.addUser("a@example.com")
	vc := db.addCase(user.Id, "H1B")
	upload := db.addUpload(user.Id, vc.Id, "lca", true)
	upload.Files = []entity.EvidenceFile{
		{Name: "old.pdf", Path: "u/c/lca/1-old.pdf"},
		{Name: "fresh.pdf", Path: "u/c/lca/2-fresh.pdf", URL: "https://storage.test/evidence/u/c/lca/2-fresh.pdf?token=old"},
	}

	res, err := svc.List(context.Background(), user.Id, vc.Id)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, []string{"u/c/lca/1-old.pdf"}, store.signed)
	assert.Contains(t, res[0].Files[0].URL, "token=signed")
	assert.Contains(t, upload.Files[0].URL, "token=signed")

	_, err = svc.Refresh(context.Background(), user.Id, vc.Id)
	require.NoError(t, err)
	assert.Len(t, store.signed, 3)
}

func TestEvidenceProgress(t *testing.T) {
	db, _, svc := newEvidenceFixture()
	user := db.addUser("a@example.com")
	vc := db.addCase(user.Id, "H1B")
	db.addUpload(user.Id, vc.Id, "lca", true)
	db.addUpload(user.Id, vc.Id, "soc-wage", true)
	db.addUpload(user.Id, vc.Id, "degree-eval", false)

	res, err := svc.Progress(context.Background(), user.Id, vc.Id)
	require.NoError(t, err)
	assert.Equal(t, 40, res.Progress)
	assert.False(t, res.Ready)
	assert.Equal(t, []string{"degree-eval", "employer-letter"}, res.MissingEvidence)
	assert.Equal(t, 40, vc.Progress)
}
