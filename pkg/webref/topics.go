package webref

import "strings"

// Source is an official page that answers a class of volatile questions.
type Source struct {
	Topic string `json:"topic"`
	URL   string `json:"url"`
}

type topicRule struct {
	source   Source
	keywords []string
}

var topicRules = []topicRule{
	{
		source:   Source{Topic: "filing fees", URL: "https://www.uscis.gov/forms/filing-fees"},
		keywords: []string{"fee", "fees", "cost to file", "filing cost"},
	},
	{
		source:   Source{Topic: "processing times", URL: "https://egov.uscis.gov/processing-times/"},
		keywords: []string{"processing time", "how long", "wait time"},
	},
	{
		source:   Source{Topic: "H-1B cap", URL: "https://www.uscis.gov/working-in-the-united-states/h-1b-specialty-occupations/h-1b-electronic-registration-process"},
		keywords: []string{"cap", "lottery", "registration"},
	},
	{
		source:   Source{Topic: "visa bulletin", URL: "https://travel.state.gov/content/travel/en/legal/visa-law0/visa-bulletin.html"},
		keywords: []string{"visa bulletin", "priority date", "final action date"},
	},
	{
		source:   Source{Topic: "form editions", URL: "https://www.uscis.gov/forms/all-forms"},
		keywords: []string{"edition", "latest version of form", "which version"},
	},
	{
		source:   Source{Topic: "prevailing wage", URL: "https://flag.dol.gov/wage-data/wage-search"},
		keywords: []string{"prevailing wage", "wage level", "lca wage"},
	},
}

// SourcesFor picks the reference pages relevant to a question. Keywords match
// on word boundaries so "cap" does not fire on "capital".
func SourcesFor(question string) []Source {
	q := " " + normalizeQuestion(question) + " "
	var out []Source
	for _, rule := range topicRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, " "+kw+" ") {
				out = append(out, rule.source)
				break
			}
		}
	}
	return out
}

func normalizeQuestion(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
