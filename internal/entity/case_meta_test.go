package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseMetaKeepsUnknownKeys(t *testing.T) {
	stored := []byte(`{
		"planTier": "complete",
		"usage": {"mockInterviewCreditsRemaining": 1},
		"legacyNotes": {"reviewer": "qa-team"},
		"inputs": {"petitionerName": "Ana"}
	}`)

	var meta CaseMeta
	require.NoError(t, json.Unmarshal(stored, &meta))
	assert.Equal(t, PlanTierComplete, meta.PlanTier)
	require.NotNil(t, meta.Usage.MockInterviewCreditsRemaining)
	assert.Equal(t, 1, *meta.Usage.MockInterviewCreditsRemaining)
	assert.Contains(t, meta.Extra, "legacyNotes")

	meta.AffidavitDraft = "updated"
	out, err := json.Marshal(meta)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &raw))
	assert.Equal(t, map[string]interface{}{"reviewer": "qa-team"}, raw["legacyNotes"])
	assert.Equal(t, "updated", raw["affidavitDraft"])
	assert.Equal(t, float64(CaseMetaSchemaVersion), raw["schemaVersion"])
}

func TestCaseMetaMergeInputs(t *testing.T) {
	meta := CaseMeta{}
	meta.MergeInputs(map[string]interface{}{"a": "1"})
	meta.MergeInputs(map[string]interface{}{"b": "2", "a": "3"})
	assert.Equal(t, map[string]interface{}{"a": "3", "b": "2"}, meta.Inputs)
}

func TestTaskStatusValid(t *testing.T) {
	assert.True(t, TaskStatusWaiting.Valid())
	assert.False(t, TaskStatus("archived").Valid())
}
