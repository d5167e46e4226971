package entity

import (
	"encoding/json"
	"time"
)

// CaseMetaSchemaVersion is bumped whenever the stored meta layout changes.
const CaseMetaSchemaVersion = 1

type PlanTier string

const (
	PlanTierStarter  PlanTier = "starter"
	PlanTierComplete PlanTier = "complete"
	PlanTierPremium  PlanTier = "premium"
)

type Entitlements struct {
	TranslationsIncluded   int  `json:"translationsIncluded"`
	QAIncluded             int  `json:"qaIncluded"`
	Validations            bool `json:"validations"`
	MockInterviewPro       bool `json:"mockInterviewPro"`
	MockInterviewsIncluded int  `json:"mockInterviewsIncluded"`
}

type Usage struct {
	// MockInterviewCreditsRemaining is nil until the first purchase sets it.
	MockInterviewCreditsRemaining *int `json:"mockInterviewCreditsRemaining,omitempty"`
}

type CaseFlags struct {
	RFEReadiness bool `json:"rfeReadiness"`
	Expedited    bool `json:"expedited"`
}

const (
	AuditPurchase         = "purchase"
	AuditUsed             = "used"
	AuditPacketGenerated  = "packet_generated"
	AuditAffidavitDrafted = "affidavit_drafted"
)

type AuditEvent struct {
	Type   string    `json:"type"`
	At     time.Time `json:"at"`
	Detail string    `json:"detail,omitempty"`
}

// CaseMeta is the typed form of visa_apps.meta: drafted content, form inputs
// and the entitlement/usage ledger. Keys it does not know are kept in Extra
// and written back untouched.
type CaseMeta struct {
	SchemaVersion           int                    `json:"schemaVersion"`
	Inputs                  map[string]interface{} `json:"inputs,omitempty"`
	AffidavitDraft          string                 `json:"affidavitDraft,omitempty"`
	PlanTier                PlanTier               `json:"planTier,omitempty"`
	Entitlements            *Entitlements          `json:"entitlements,omitempty"`
	Usage                   Usage                  `json:"usage"`
	StorageUntil            *time.Time             `json:"storageUntil,omitempty"`
	Flags                   CaseFlags              `json:"flags"`
	Audit                   []AuditEvent           `json:"audit,omitempty"`
	StripeCheckoutSessionID string                 `json:"stripeCheckoutSessionId,omitempty"`
	UpdatedAt               *time.Time             `json:"updatedAt,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type caseMetaAlias CaseMeta

var caseMetaKeys = []string{
	"schemaVersion", "inputs", "affidavitDraft", "planTier", "entitlements", "usage",
	"storageUntil", "flags", "audit", "stripeCheckoutSessionId", "updatedAt",
}

func (m *CaseMeta) UnmarshalJSON(data []byte) error {
	var alias caseMetaAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range caseMetaKeys {
		delete(raw, k)
	}
	*m = CaseMeta(alias)
	if len(raw) > 0 {
		m.Extra = raw
	}
	return nil
}

func (m CaseMeta) MarshalJSON() ([]byte, error) {
	m.SchemaVersion = CaseMetaSchemaVersion
	known, err := json.Marshal(caseMetaAlias(m))
	if err != nil {
		return nil, err
	}
	if len(m.Extra) == 0 {
		return known, nil
	}

	merged := make(map[string]json.RawMessage, len(m.Extra)+len(caseMetaKeys))
	for k, v := range m.Extra {
		merged[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// AppendAudit records an event in the append-only log.
func (m *CaseMeta) AppendAudit(eventType string, at time.Time, detail string) {
	m.Audit = append(m.Audit, AuditEvent{Type: eventType, At: at, Detail: detail})
}

// MergeInputs overlays the given inputs onto the stored ones.
func (m *CaseMeta) MergeInputs(inputs map[string]interface{}) {
	if len(inputs) == 0 {
		return
	}
	if m.Inputs == nil {
		m.Inputs = make(map[string]interface{}, len(inputs))
	}
	for k, v := range inputs {
		m.Inputs[k] = v
	}
}
