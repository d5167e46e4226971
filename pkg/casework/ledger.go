package casework

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"visaforge-be/internal/entity"
)

type TierDefaults struct {
	Entitlements entity.Entitlements `json:"entitlements"`
	StorageDays  int                 `json:"storageDays"`
	Flags        entity.CaseFlags    `json:"flags"`
}

var tierDefaults = map[entity.PlanTier]TierDefaults{
	entity.PlanTierStarter: {
		Entitlements: entity.Entitlements{},
		StorageDays:  30,
	},
	entity.PlanTierComplete: {
		Entitlements: entity.Entitlements{
			TranslationsIncluded:   2,
			QAIncluded:             1,
			Validations:            true,
			MockInterviewPro:       true,
			MockInterviewsIncluded: 1,
		},
		StorageDays: 90,
	},
	entity.PlanTierPremium: {
		Entitlements: entity.Entitlements{
			TranslationsIncluded:   4,
			QAIncluded:             2,
			Validations:            true,
			MockInterviewPro:       true,
			MockInterviewsIncluded: 2,
		},
		StorageDays: 90,
		Flags:       entity.CaseFlags{RFEReadiness: true, Expedited: true},
	},
}

// Tiers lists the purchasable tiers in ascending order.
func Tiers() []entity.PlanTier {
	return []entity.PlanTier{entity.PlanTierStarter, entity.PlanTierComplete, entity.PlanTierPremium}
}

// NormalizeTier lowercases s and falls back to starter for anything unknown.
func NormalizeTier(s string) entity.PlanTier {
	t := entity.PlanTier(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := tierDefaults[t]; ok {
		return t
	}
	return entity.PlanTierStarter
}

func DefaultsFor(tier entity.PlanTier) TierDefaults {
	return tierDefaults[NormalizeTier(string(tier))]
}

// Purchase is a completed checkout resolved to concrete grants.
type Purchase struct {
	Tier         entity.PlanTier
	Entitlements entity.Entitlements
	StorageDays  int
	Flags        entity.CaseFlags
	VisaTypeHint string
}

// ResolvePurchase applies checkout metadata overrides on top of the tier
// defaults. Unparsable values fall back to the default; negative counts are
// clamped to zero.
func ResolvePurchase(metadata map[string]string) Purchase {
	tier := NormalizeTier(metadata["tier"])
	d := tierDefaults[tier]

	ent := d.Entitlements
	ent.TranslationsIncluded = asCount(metadata["translationsIncluded"], ent.TranslationsIncluded)
	ent.QAIncluded = asCount(metadata["qaIncluded"], ent.QAIncluded)
	ent.MockInterviewsIncluded = asCount(metadata["mockInterviewsIncluded"], ent.MockInterviewsIncluded)

	expedited := metadata["Expedited"]
	if expedited == "" {
		expedited = metadata["expedited"]
	}

	return Purchase{
		Tier:         tier,
		Entitlements: ent,
		StorageDays:  asCount(metadata["storageDays"], d.StorageDays),
		Flags: entity.CaseFlags{
			RFEReadiness: asBool(metadata["rfeReadiness"], d.Flags.RFEReadiness),
			Expedited:    asBool(expedited, d.Flags.Expedited),
		},
		VisaTypeHint: strings.TrimSpace(metadata["visaType"]),
	}
}

// ApplyPurchase merges a purchase into the ledger. Entitlements, flags and the
// storage window are replaced by the purchase; remaining interview credits are
// only initialised when they have never been set.
func ApplyPurchase(meta *entity.CaseMeta, p Purchase, sessionID string, now time.Time) {
	ent := p.Entitlements
	meta.PlanTier = p.Tier
	meta.Entitlements = &ent

	if meta.Usage.MockInterviewCreditsRemaining == nil {
		credits := ent.MockInterviewsIncluded
		meta.Usage.MockInterviewCreditsRemaining = &credits
	}

	until := now.AddDate(0, 0, p.StorageDays)
	meta.StorageUntil = &until
	meta.Flags = p.Flags
	meta.StripeCheckoutSessionID = sessionID
	meta.UpdatedAt = &now
	meta.AppendAudit(entity.AuditPurchase, now, fmt.Sprintf("tier=%s session=%s", p.Tier, sessionID))
}

// UseMockInterviewCredit spends one credit, never going below zero, and
// returns what is left. A ledger that was never funded stays unset.
func UseMockInterviewCredit(meta *entity.CaseMeta, now time.Time) int {
	remaining := 0
	if current := meta.Usage.MockInterviewCreditsRemaining; current != nil {
		remaining = *current - 1
		if remaining < 0 {
			remaining = 0
		}
		meta.Usage.MockInterviewCreditsRemaining = &remaining
	}
	meta.UpdatedAt = &now
	meta.AppendAudit(entity.AuditUsed, now, "")
	return remaining
}

func asCount(v string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	if n < 0 {
		return 0
	}
	return n
}

func asBool(v string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "y":
		return true
	case "false", "0", "no", "n":
		return false
	}
	return fallback
}
