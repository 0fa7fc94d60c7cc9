package plagiarism

import (
	"sort"
	"strings"
)

// Segment is a run of words that is either entirely highlighted or entirely plain
type Segment struct {
	Text string `json:"text" bson:"text"`
	Bold bool   `json:"bold" bson:"bold"`
}

// Highlight is a PlagiarismResult projected onto both cleaned texts
type Highlight struct {
	OwnerID1       TextOwnerID `json:"ownerId1"`
	OwnerID2       TextOwnerID `json:"ownerId2"`
	TrustedOwner1  bool        `json:"trustedOwner1"`
	EqualFragments bool        `json:"equalFragments"`
	Matches        int         `json:"matches"`
	Display1       []Segment   `json:"display1"`
	Display2       []Segment   `json:"display2"`
	Coverage1      int         `json:"coverage1"`
	Coverage2      int         `json:"coverage2"`
	Risk           string      `json:"risk"`
}

// MergeLocations returns the union of the ranges as sorted, disjoint ranges.
// Overlapping and adjacent ranges are merged; empty ranges are dropped.
func MergeLocations(locations []FragmentLocation) []FragmentLocation {
	sorted := make([]FragmentLocation, 0, len(locations))
	for _, loc := range locations {
		if loc.End > loc.Start {
			sorted = append(sorted, loc)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	merged := make([]FragmentLocation, 0, len(sorted))
	for _, loc := range sorted {
		last := len(merged) - 1
		if last >= 0 && loc.Start <= merged[last].End {
			if loc.End > merged[last].End {
				merged[last].End = loc.End
			}
			continue
		}
		merged = append(merged, loc)
	}
	return merged
}

// Project splits words into alternating highlighted and plain segments and
// returns the percentage of words covered by any location, truncated.
func Project(words []string, locations []FragmentLocation) ([]Segment, int) {
	covered := make([]bool, len(words))
	coveredCount := 0
	for _, loc := range MergeLocations(locations) {
		for i := max(loc.Start, 0); i < loc.End && i < len(words); i++ {
			covered[i] = true
			coveredCount++
		}
	}

	segments := make([]Segment, 0)
	var run []string
	bold := false
	for i, word := range words {
		if len(run) > 0 && covered[i] != bold {
			segments = append(segments, Segment{Text: strings.Join(run, " "), Bold: bold})
			run = run[:0]
		}
		bold = covered[i]
		run = append(run, word)
	}
	if len(run) > 0 {
		segments = append(segments, Segment{Text: strings.Join(run, " "), Bold: bold})
	}

	return segments, coveragePercent(coveredCount, len(words))
}

func coveragePercent(covered, total int) int {
	if total == 0 {
		return 0
	}
	return covered * 100 / total
}

// Highlight projects every matching location of r onto both texts.
// Owner 1 is read from the trusted partition when r.TrustedOwner1, owner 2 is always untrusted.
func (db *Database) Highlight(r PlagiarismResult) Highlight {
	var firstLocations, secondLocations []FragmentLocation
	for _, pair := range r.MatchingFragmentLocations {
		firstLocations = append(firstLocations, pair.First...)
		secondLocations = append(secondLocations, pair.Second...)
	}

	words1, _ := db.CleanText(r.OwnerID1, r.TrustedOwner1)
	words2, _ := db.CleanText(r.OwnerID2, false)

	display1, coverage1 := Project(words1, firstLocations)
	display2, coverage2 := Project(words2, secondLocations)

	return Highlight{
		OwnerID1:       r.OwnerID1,
		OwnerID2:       r.OwnerID2,
		TrustedOwner1:  r.TrustedOwner1,
		EqualFragments: r.EqualFragments,
		Matches:        len(r.MatchingFragments),
		Display1:       display1,
		Display2:       display2,
		Coverage1:      coverage1,
		Coverage2:      coverage2,
		Risk:           GetRiskLevel(max(coverage1, coverage2)),
	}
}

// HighlightAll projects results in the order given
func (db *Database) HighlightAll(results []PlagiarismResult) []Highlight {
	highlights := make([]Highlight, 0, len(results))
	for _, r := range results {
		highlights = append(highlights, db.Highlight(r))
	}
	return highlights
}
