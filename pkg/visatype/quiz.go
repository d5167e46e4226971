package visatype

// EligibleScore is the minimum quiz score considered a strong fit.
const EligibleScore = 8

type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"q"`
	Options []string `json:"opts"`
}

var questions = map[VisaType][]Question{
	H1B: {
		{ID: "degree", Text: "Do you have a bachelor’s degree or higher (or equivalent)?", Options: []string{"Yes", "No"}},
		{ID: "offer", Text: "Do you have a valid specialty occupation job offer?", Options: []string{"Yes", "No"}},
		{ID: "lca", Text: "Is the wage at or above the required level for your SOC code?", Options: []string{"Yes", "No/Unsure"}},
		{ID: "timeline", Text: "Can your employer support same-day draft and filing coordination?", Options: []string{"Yes", "No"}},
	},
	K1Fiance: {
		{ID: "met", Text: "Have you met in person within the last 2 years?", Options: []string{"Yes", "No"}},
		{ID: "intent", Text: "Do you intend to marry within 90 days of entry?", Options: []string{"Yes", "No"}},
		{ID: "proof", Text: "Do you have evidence of relationship (photos, chats, itineraries)?", Options: []string{"Strong", "Limited"}},
		{ID: "support", Text: "Is the financial support sufficient (sponsor or joint sponsor)?", Options: []string{"Yes", "No/Unsure"}},
	},
	RemovalOfConditions: {
		{ID: "joint", Text: "Do you maintain joint documentation (lease, taxes, insurance)?", Options: []string{"Strong", "Limited"}},
		{ID: "timeline", Text: "Are you within the 90-day filing window?", Options: []string{"Yes", "No/Unsure"}},
		{ID: "evidence", Text: "Can you provide affidavits from friends/family?", Options: []string{"Yes", "No"}},
		{ID: "history", Text: "Any extended separations or complexities?", Options: []string{"No", "Yes"}},
	},
	MarriageGreenCard: marriageQuestions,
	ImmigrantSpouse:   marriageQuestions,
	GreenCard: {
		{ID: "cat", Text: "Do you have a clear category (EB-2, EB-3, family, etc.)?", Options: []string{"Yes", "No/Unsure"}},
		{ID: "docs", Text: "Do you have core documents (IDs, civil docs, degrees)?", Options: []string{"Strong", "Limited"}},
		{ID: "work", Text: "Any employment letters or proof of eligibility ready?", Options: []string{"Yes", "No"}},
		{ID: "timeline", Text: "Do you want a same-day draft of your packet?", Options: []string{"Yes", "No"}},
	},
}

var marriageQuestions = []Question{
	{ID: "married", Text: "Are you legally married and living together or maintaining joint finances?", Options: []string{"Yes", "No"}},
	{ID: "sponsor", Text: "Is the sponsor income or assets sufficient?", Options: []string{"Yes", "No/Unsure"}},
	{ID: "proof", Text: "Do you have relationship evidence (photos, leases, bills)?", Options: []string{"Strong", "Limited"}},
	{ID: "language", Text: "Any non-English documents needing translation?", Options: []string{"No", "Yes"}},
}

// Questions returns the eligibility questions for t (Green Card set for unknown types).
func Questions(t VisaType) []Question {
	if q, ok := questions[t]; ok {
		return q
	}
	return questions[GreenCard]
}

// Score adds 3 for every Yes/Strong answer and 1 for every No/Limited/No/Unsure.
// Other values do not count.
func Score(answers map[string]string) int {
	score := 0
	for _, a := range answers {
		switch a {
		case "Yes", "Strong":
			score += 3
		case "No", "Limited", "No/Unsure":
			score++
		}
	}
	return score
}
