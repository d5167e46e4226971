package visatype

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// Normalize maps a human label ("Marriage Green Card", "roc", ...) to its
// canonical slug. Labels it does not recognise keep their casing and have
// whitespace runs replaced by hyphens.
func Normalize(label string) VisaType {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "h1b":
		return H1B
	case "marriage green card", "marriage-green-card", "marriage gc":
		return MarriageGreenCard
	case "k1 fiance", "k-1 fiance", "k1-fiancé", "k1", "k1-fiance":
		return K1Fiance
	case "removal of conditions", "roc", "removal-of-conditions":
		return RemovalOfConditions
	case "immigrant spouse", "spouse immigrant", "immigrant-spouse":
		return ImmigrantSpouse
	case "green card", "employment-based", "employment", "green-card":
		return GreenCard
	}
	return VisaType(whitespace.ReplaceAllString(label, "-"))
}

// SameType reports whether two labels resolve to the same slug, ignoring case.
func SameType(a, b string) bool {
	return strings.EqualFold(string(Normalize(a)), string(Normalize(b)))
}

var baseCosts = map[VisaType]float64{
	MarriageGreenCard:   1800,
	ImmigrantSpouse:     1800,
	K1Fiance:            1500,
	RemovalOfConditions: 800,
	H1B:                 1200,
	GreenCard:           1600,
}

// BaseCost is the rough government plus preparation cost anchor for a path.
func BaseCost(t VisaType) float64 {
	if c, ok := baseCosts[t]; ok {
		return c
	}
	return baseCosts[Default]
}
