package service

import (
	"context"
	"testing"

	"visaforge-be/internal/dto"
	"visaforge-be/internal/entity"
	"visaforge-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func h1bInputs() map[string]interface{} {
	return map[string]interface{}{
		"employerName":    "Acme Robotics",
		"socCode":         "15-1252",
		"wageLevel":       "II",
		"petitionerName":  "Acme Robotics Inc.",
		"beneficiaryName": "Priya Raman",
	}
}

func newPacketFixture() (*fakeDB, *fakeStore, *fakePublisher, *packetService) {
	db := newFakeDB()
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := NewPacketService(db, store, pub, nopLogger(), "packets", 0).(*packetService)
	svc.now = fixedClock
	return db, store, pub, svc
}

func TestGeneratePacketReportsExactMissingInput(t *testing.T) {
	db, store, _, svc := newPacketFixture()
	user := db.addUser("priya@example.com")
	vc := db.addCase(user.Id, "H1B")

	inputs := h1bInputs()
	delete(inputs, "employerName")

	_, err := svc.Generate(context.Background(), user.Id, &dto.GeneratePacketRequest{
		VisaAppId: vc.Id,
		VisaType:  "H1B",
		Inputs:    inputs,
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Equal(t, []string{"employerName"}, appErr.Missing)
	assert.Equal(t, "Missing required inputs: employerName", appErr.Message)
	assert.Empty(t, store.puts)
}

func TestGeneratePacketReportsIncompleteEvidence(t *testing.T) {
	db, store, _, svc := newPacketFixture()
	user := db.addUser("priya@example.com")
	vc := db.addCase(user.Id, "H1B")
	db.addUpload(user.Id, vc.Id, "lca", true)
	db.addUpload(user.Id, vc.Id, "soc-wage", false)

	_, err := svc.Generate(context.Background(), user.Id, &dto.GeneratePacketRequest{
		VisaAppId: vc.Id,
		VisaType:  "h1b",
		Inputs:    h1bInputs(),
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{"soc-wage", "degree-eval", "employer-letter"}, appErr.Missing)
	assert.Equal(t, "Required evidence incomplete: soc-wage, degree-eval, employer-letter", appErr.Message)
	assert.Empty(t, store.puts)
}

func TestGeneratePacketSuccess(t *testing.T) {
	db, store, pub, svc := newPacketFixture()
	user := db.addUser("priya@example.com")
	vc := db.addCase(user.Id, "H1B")
	vc.Meta.AffidavitDraft = "Stored affidavit text."
	for _, id := range []string{"lca", "soc-wage", "degree-eval", "employer-letter"} {
		db.addUpload(user.Id, vc.Id, id, true)
	}
	packetTask := db.addTask(user.Id, vc.Id, "Generate USCIS packet", entity.TaskStatusTodo, nil)
	otherTask := db.addTask(user.Id, vc.Id, "Review Forms Checklist", entity.TaskStatusTodo, nil)

	res, err := svc.Generate(context.Background(), user.Id, &dto.GeneratePacketRequest{
		VisaAppId: vc.Id,
		VisaType:  "H1B",
		Inputs:    h1bInputs(),
	})
	require.NoError(t, err)

	assert.Contains(t, res.URL, vc.Id.String())
	assert.Contains(t, res.URL, ".pdf")
	require.Len(t, store.puts, 1)
	for key, body := range store.puts {
		assert.Contains(t, key, "packets/"+user.Id.String()+"/"+vc.Id.String()+"/packet-")
		assert.Equal(t, "%PDF", string(body[:4]))
	}

	assert.Equal(t, entity.TaskStatusDone, packetTask.Status)
	assert.Equal(t, entity.TaskStatusTodo, otherTask.Status)

	require.Len(t, vc.Meta.Audit, 1)
	assert.Equal(t, entity.AuditPacketGenerated, vc.Meta.Audit[0].Type)
	assert.Equal(t, []string{TopicPacketGenerated}, pub.topics)
}

func TestGeneratePacketSurvivesPublishFailure(t *testing.T) {
	db, _, pub, svc := newPacketFixture()
	pub.err = errBoom
	user := db.addUser("priya@example.com")
	vc := db.addCase(user.Id, "H1B")
	for _, id := range []string{"lca", "soc-wage", "degree-eval", "employer-letter"} {
		db.addUpload(user.Id, vc.Id, id, true)
	}

	res, err := svc.Generate(context.Background(), user.Id, &dto.GeneratePacketRequest{
		VisaAppId: vc.Id,
		VisaType:  "H1B",
		Inputs:    h1bInputs(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.URL)
}

func TestGeneratePacketUploadFailureIsLoud(t *testing.T) {
	db, store, _, svc := newPacketFixture()
	store.failPut = true
	user := db.addUser("priya@example.com")
	vc := db.addCase(user.Id, "H1B")
	for _, id := range []string{"lca", "soc-wage", "degree-eval", "employer-letter"} {
		db.addUpload(user.Id, vc.Id, id, true)
	}

	_, err := svc.Generate(context.Background(), user.Id, &dto.GeneratePacketRequest{
		VisaAppId: vc.Id,
		VisaType:  "H1B",
		Inputs:    h1bInputs(),
	})
	assert.True(t, apperror.Is(err, apperror.KindPersistence))
}

func TestGeneratePacketRejectsUnknownTypeAndForeignCase(t *testing.T) {
	db, _, _, svc := newPacketFixture()
	owner := db.addUser("owner@example.com")
	vc := db.addCase(owner.Id, "H1B")

	_, err := svc.Generate(context.Background(), owner.Id, &dto.GeneratePacketRequest{
		VisaAppId: vc.Id,
		VisaType:  "Tourist",
		Inputs:    h1bInputs(),
	})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.EqualError(t, err, "Unknown visa_type")

	_, err = svc.Generate(context.Background(), uuid.New(), &dto.GeneratePacketRequest{
		VisaAppId: vc.Id,
		VisaType:  "H1B",
		Inputs:    h1bInputs(),
	})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
