package billing

import "strings"

// PriceBook maps purchasable products to configured Stripe price ids.
type PriceBook struct {
	CaseStarter       string
	CaseComplete      string
	CasePremium       string
	MembershipMonthly string
	Upsells           map[string]string
}

// ForTier returns the case price id for a plan tier.
func (p PriceBook) ForTier(tier string) (string, bool) {
	var id string
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case "starter":
		id = p.CaseStarter
	case "complete":
		id = p.CaseComplete
	case "premium":
		id = p.CasePremium
	}
	return id, id != ""
}
