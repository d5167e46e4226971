// Package visatype holds the static per-visa configuration: forms, evidence
// checklist and the gates that must be met before a packet can be generated.
package visatype

// VisaType is the canonical slug of an immigration case category.
type VisaType string

const (
	H1B                 VisaType = "H1B"
	MarriageGreenCard   VisaType = "Marriage-Green-Card"
	K1Fiance            VisaType = "K1-Fiance"
	RemovalOfConditions VisaType = "Removal-of-Conditions"
	ImmigrantSpouse     VisaType = "Immigrant-Spouse"
	GreenCard           VisaType = "Green-Card"
)

// Default is returned by Get for unknown slugs.
const Default = H1B

type EvidenceItem struct {
	ID                              string   `json:"id"`
	Title                           string   `json:"title"`
	Description                     string   `json:"description,omitempty"`
	Required                        bool     `json:"required"`
	Accepts                         []string `json:"accepts,omitempty"`
	NeedsLanguageChoice             bool     `json:"needsLanguageChoice"`
	RequiresTranslationIfNotEnglish bool     `json:"requiresTranslationIfNotEnglish"`
}

type GenerationGates struct {
	RequiredEvidenceIDs []string `json:"requiredEvidenceIds"`
	RequiredInputs      []string `json:"requiredInputs"`
}

type UseCaseConfig struct {
	Type             VisaType        `json:"type"`
	Title            string          `json:"title"`
	CoreForms        []string        `json:"coreForms"`
	Evidence         []EvidenceItem  `json:"evidence"`
	GenerationGates  GenerationGates `json:"generationGates"`
	RecommendedNotes []string        `json:"recommendedNotes,omitempty"`
}

// EvidenceItem returns the checklist item with the given id.
func (c UseCaseConfig) EvidenceItem(id string) (EvidenceItem, bool) {
	for _, e := range c.Evidence {
		if e.ID == id {
			return e, true
		}
	}
	return EvidenceItem{}, false
}

var order = []VisaType{MarriageGreenCard, K1Fiance, RemovalOfConditions, ImmigrantSpouse, GreenCard, H1B}

var useCases = map[VisaType]UseCaseConfig{
	MarriageGreenCard: {
		Type:      MarriageGreenCard,
		Title:     "Marriage Green Card",
		CoreForms: []string{"I-130 (Petition)", "I-485 (Adjustment)", "I-864 (Affidavit of Support)", "I-693 (Medical)"},
		Evidence: []EvidenceItem{
			{ID: "ids-passports", Title: "Passports / Government IDs", Description: "If not in English, add certified translation.", Required: true, Accepts: []string{"pdf", "jpg", "png"}, NeedsLanguageChoice: true, RequiresTranslationIfNotEnglish: true},
			{ID: "marriage-certificate", Title: "Marriage Certificate", Description: "Certified copy. Translate if needed.", Required: true, Accepts: []string{"pdf", "jpg", "png"}, NeedsLanguageChoice: true, RequiresTranslationIfNotEnglish: true},
			{ID: "proof-bona-fide", Title: "Proof of Bona Fide Marriage", Description: "Joint lease/mortgage, bank statements, insurance, photos with captions.", Required: true, Accepts: []string{"pdf", "jpg", "png"}},
			{ID: "affidavits-friends", Title: "Affidavits from Friends/Family", Description: "Name, address, status, relationship, anecdotes with dates.", Required: false, Accepts: []string{"pdf", "docx"}},
			{ID: "i864-income", Title: "I-864 Income Evidence", Description: "Taxes (3y), W-2s, pay stubs, employment letter, assets.", Required: true, Accepts: []string{"pdf"}},
		},
		GenerationGates: GenerationGates{
			RequiredEvidenceIDs: []string{"ids-passports", "marriage-certificate", "proof-bona-fide", "i864-income"},
			RequiredInputs:      []string{"sponsorIncome", "householdSize", "petitionerName", "beneficiaryName"},
		},
		RecommendedNotes: []string{"Add 10+ photos with captions (date/place/people).", "Include 2–3 affidavits for extra strength."},
	},
	K1Fiance: {
		Type:      K1Fiance,
		Title:     "K-1 Fiancé(e)",
		CoreForms: []string{"I-129F (Petition)"},
		Evidence: []EvidenceItem{
			{ID: "meeting-proof", Title: "Proof of In-Person Meeting (last 2 yrs)", Required: true, Accepts: []string{"pdf", "jpg", "png"}},
			{ID: "intent-to-marry", Title: "Intent to Marry Letters (both)", Required: true, Accepts: []string{"pdf", "docx"}},
			{ID: "relationship-evidence", Title: "Relationship Evidence", Required: false, Accepts: []string{"pdf", "jpg", "png"}},
			{ID: "identity-docs", Title: "Identity Documents", Required: true, Accepts: []string{"pdf", "jpg", "png"}, NeedsLanguageChoice: true, RequiresTranslationIfNotEnglish: true},
		},
		GenerationGates: GenerationGates{
			RequiredEvidenceIDs: []string{"meeting-proof", "intent-to-marry", "identity-docs"},
			RequiredInputs:      []string{"petitionerName", "beneficiaryName", "dateOfMeeting"},
		},
	},
	RemovalOfConditions: {
		Type:      RemovalOfConditions,
		Title:     "Removal of Conditions (I-751)",
		CoreForms: []string{"I-751"},
		Evidence: []EvidenceItem{
			{ID: "joint-docs", Title: "Joint Docs Since Marriage", Required: true, Accepts: []string{"pdf", "jpg", "png"}},
			{ID: "children-birth-cert", Title: "Children’s Birth Certificates (if any)", Required: false, Accepts: []string{"pdf", "jpg", "png"}, NeedsLanguageChoice: true, RequiresTranslationIfNotEnglish: true},
			{ID: "affidavits-friends-roc", Title: "Affidavits from Friends/Family", Required: false, Accepts: []string{"pdf", "docx"}},
		},
		GenerationGates: GenerationGates{
			RequiredEvidenceIDs: []string{"joint-docs"},
			RequiredInputs:      []string{"petitionerName", "beneficiaryName"},
		},
	},
	ImmigrantSpouse: {
		Type:      ImmigrantSpouse,
		Title:     "Immigrant Spouse",
		CoreForms: []string{"I-130", "I-485 (if adjusting in U.S.)", "I-864"},
		Evidence: []EvidenceItem{
			{ID: "marriage-certificate", Title: "Marriage Certificate", Required: true, Accepts: []string{"pdf", "jpg", "png"}, NeedsLanguageChoice: true, RequiresTranslationIfNotEnglish: true},
			{ID: "bona-fide", Title: "Bona Fide Marriage Evidence", Required: true, Accepts: []string{"pdf", "jpg", "png"}},
			{ID: "petitioner-status", Title: "Petitioner Proof of Status", Required: true, Accepts: []string{"pdf", "jpg", "png"}},
			{ID: "i864-income", Title: "I-864 Income Evidence", Required: true, Accepts: []string{"pdf"}},
		},
		GenerationGates: GenerationGates{
			RequiredEvidenceIDs: []string{"marriage-certificate", "bona-fide", "petitioner-status", "i864-income"},
			RequiredInputs:      []string{"sponsorIncome", "householdSize", "petitionerName", "beneficiaryName"},
		},
	},
	GreenCard: {
		Type:      GreenCard,
		Title:     "Employment-Based Green Card",
		CoreForms: []string{"I-140", "I-485 (when eligible)"},
		Evidence: []EvidenceItem{
			{ID: "degrees", Title: "Degrees & Evaluations", Required: true, Accepts: []string{"pdf"}},
			{ID: "experience-letters", Title: "Experience Letters", Required: true, Accepts: []string{"pdf", "docx"}},
			{ID: "employer-letter", Title: "Employer Support Letter", Required: true, Accepts: []string{"pdf", "docx"}},
			{ID: "translations", Title: "Translations (if needed)", Required: false, Accepts: []string{"pdf"}},
		},
		GenerationGates: GenerationGates{
			RequiredEvidenceIDs: []string{"degrees", "experience-letters", "employer-letter"},
			RequiredInputs:      []string{"petitionerName", "beneficiaryName", "category"},
		},
	},
	H1B: {
		Type:      H1B,
		Title:     "H-1B Specialty Occupation",
		CoreForms: []string{"LCA (DOL)", "I-129"},
		Evidence: []EvidenceItem{
			{ID: "lca", Title: "LCA Approval", Required: true, Accepts: []string{"pdf"}},
			{ID: "soc-wage", Title: "SOC Code & Wage Level", Required: true, Accepts: []string{"pdf", "docx"}},
			{ID: "degree-eval", Title: "Degree Transcripts/Evaluations", Required: true, Accepts: []string{"pdf"}, NeedsLanguageChoice: true, RequiresTranslationIfNotEnglish: true},
			{ID: "employer-letter", Title: "Employer Support Letter (duties)", Required: true, Accepts: []string{"pdf", "docx"}},
			{ID: "client-letter", Title: "Client Letter/SOW (if third-party)", Required: false, Accepts: []string{"pdf", "docx"}},
		},
		GenerationGates: GenerationGates{
			RequiredEvidenceIDs: []string{"lca", "soc-wage", "degree-eval", "employer-letter"},
			RequiredInputs:      []string{"employerName", "socCode", "wageLevel", "petitionerName", "beneficiaryName"},
		},
	},
}

// Get returns the configuration for t, falling back to Default.
func Get(t VisaType) UseCaseConfig {
	if cfg, ok := useCases[t]; ok {
		return cfg
	}
	return useCases[Default]
}

// Lookup returns the configuration for t and whether t is known.
func Lookup(t VisaType) (UseCaseConfig, bool) {
	cfg, ok := useCases[t]
	return cfg, ok
}

// FromSlug resolves an exact slug.
func FromSlug(slug string) (VisaType, bool) {
	t := VisaType(slug)
	_, ok := useCases[t]
	return t, ok
}

// All returns every configuration in display order.
func All() []UseCaseConfig {
	out := make([]UseCaseConfig, 0, len(order))
	for _, t := range order {
		out = append(out, useCases[t])
	}
	return out
}
