// Package casework holds the business rules of a case: evidence progress,
// packet generation gates, default tasks and the entitlement ledger.
package casework

import (
	"math"
	"strings"

	"visaforge-be/internal/entity"
	"visaforge-be/pkg/visatype"
)

// ProgressCeiling is the share of the progress bar earned by evidence. The
// rest is reserved for packet generation and final checks.
const ProgressCeiling = 80

// IndexUploads keys uploads by evidence id. Later entries win.
func IndexUploads(uploads []*entity.EvidenceUpload) map[string]*entity.EvidenceUpload {
	out := make(map[string]*entity.EvidenceUpload, len(uploads))
	for _, u := range uploads {
		if u != nil {
			out[u.EvidenceId] = u
		}
	}
	return out
}

// ComputeProgress returns round(80 * complete / required) over the gate's
// required evidence ids, or 0 when the gate requires nothing.
func ComputeProgress(cfg visatype.UseCaseConfig, uploads map[string]*entity.EvidenceUpload) int {
	required := cfg.GenerationGates.RequiredEvidenceIDs
	if len(required) == 0 {
		return 0
	}
	done := 0
	for _, id := range required {
		if u, ok := uploads[id]; ok && u.Complete {
			done++
		}
	}
	return int(math.Round(float64(ProgressCeiling) * float64(done) / float64(len(required))))
}

// MissingEvidence lists required evidence ids without a complete upload, in gate order.
func MissingEvidence(cfg visatype.UseCaseConfig, uploads map[string]*entity.EvidenceUpload) []string {
	var missing []string
	for _, id := range cfg.GenerationGates.RequiredEvidenceIDs {
		if u, ok := uploads[id]; !ok || !u.Complete {
			missing = append(missing, id)
		}
	}
	return missing
}

// IsGenerationReady reports whether every required evidence id is complete.
func IsGenerationReady(cfg visatype.UseCaseConfig, uploads map[string]*entity.EvidenceUpload) bool {
	return len(MissingEvidence(cfg, uploads)) == 0
}

// MissingInputs lists required input keys that are absent, nil or blank strings.
func MissingInputs(cfg visatype.UseCaseConfig, inputs map[string]interface{}) []string {
	var missing []string
	for _, key := range cfg.GenerationGates.RequiredInputs {
		v, ok := inputs[key]
		if !ok || v == nil {
			missing = append(missing, key)
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

type TaskItem struct {
	Title      string  `json:"title" validate:"required"`
	EvidenceId *string `json:"evidence_id,omitempty"`
}

// DefaultTaskItems is the dashboard seed: one upload task per checklist item,
// followed by the interview, forms review and packet steps.
func DefaultTaskItems(cfg visatype.UseCaseConfig) []TaskItem {
	items := make([]TaskItem, 0, len(cfg.Evidence)+3)
	for _, e := range cfg.Evidence {
		id := e.ID
		prefix := "Upload (Recommended) "
		if e.Required {
			prefix = "Upload (Required) "
		}
		items = append(items, TaskItem{Title: prefix + e.Title, EvidenceId: &id})
	}
	return append(items,
		TaskItem{Title: "Book Mock Interview session"},
		TaskItem{Title: "Review Forms Checklist"},
		TaskItem{Title: "Generate USCIS packet"},
	)
}

// TranslationTaskTitle names the waiting task created for non-English evidence.
func TranslationTaskTitle(item visatype.EvidenceItem) string {
	return "Order translation: " + item.Title
}
