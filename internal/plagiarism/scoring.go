package plagiarism

import (
	"sort"
)

// Risk levels derived from the highest coverage of a result
const (
	RiskClean            = "clean"
	RiskSuspicious       = "suspicious"
	RiskHighlySuspicious = "highly suspicious"
	RiskNearCopy         = "near copy"
)

// SortBySeverity orders results by descending number of matching fragments.
// Ties keep their sweep order.
func SortBySeverity(results []PlagiarismResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return len(results[i].MatchingFragments) > len(results[j].MatchingFragments)
	})
}

// GetRiskLevel returns risk level based on coverage percent
func GetRiskLevel(coverage int) string {
	if coverage < 30 {
		return RiskClean
	} else if coverage < 60 {
		return RiskSuspicious
	} else if coverage < 85 {
		return RiskHighlySuspicious
	}
	return RiskNearCopy
}

// Summary aggregates the highlights of one run
type Summary struct {
	Results       int    `json:"results" bson:"results"`
	FlaggedOwners int    `json:"flaggedOwners" bson:"flaggedOwners"`
	MaxCoverage   int    `json:"maxCoverage" bson:"maxCoverage"`
	Risk          string `json:"risk" bson:"risk"`
}

// Summarize counts the untrusted owners involved in any non-clean result
// and reports the worst coverage seen.
func Summarize(highlights []Highlight) Summary {
	flagged := make(map[TextOwnerID]bool)
	maxCoverage := 0

	for _, h := range highlights {
		coverage := max(h.Coverage1, h.Coverage2)
		if coverage > maxCoverage {
			maxCoverage = coverage
		}
		if h.Risk == RiskClean {
			continue
		}
		if !h.TrustedOwner1 {
			flagged[h.OwnerID1] = true
		}
		flagged[h.OwnerID2] = true
	}

	return Summary{
		Results:       len(highlights),
		FlaggedOwners: len(flagged),
		MaxCoverage:   maxCoverage,
		Risk:          GetRiskLevel(maxCoverage),
	}
}
