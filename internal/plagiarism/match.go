package plagiarism

import (
	"github.com/rs/zerolog/log"
)

// FragmentPair is one match: a fragment of the first text and its counterpart
// in the second. Both sides are identical under the equality metric.
type FragmentPair struct {
	First  string `json:"first" bson:"first"`
	Second string `json:"second" bson:"second"`
}

// LocationPair holds every occurrence of a FragmentPair in each text
type LocationPair struct {
	First  []FragmentLocation `json:"first" bson:"first"`
	Second []FragmentLocation `json:"second" bson:"second"`
}

// PlagiarismResult reports the overlap between two owners.
// MatchingFragments is never empty.
type PlagiarismResult struct {
	OwnerID1 TextOwnerID `json:"ownerId1"`
	OwnerID2 TextOwnerID `json:"ownerId2"`
	// MatchingFragmentLocations is parallel to MatchingFragments
	MatchingFragments         []FragmentPair `json:"matchingFragments"`
	MatchingFragmentLocations []LocationPair `json:"matchingFragmentLocations"`
	TrustedOwner1             bool           `json:"trustedOwner1"`
	EqualFragments            bool           `json:"equalFragments"`
}

// Pair is one comparison scheduled by a sweep
type Pair struct {
	Source        *TextEntry
	Against       *TextEntry
	TrustedSource bool
}

// UntrustedPairs lists every unordered pair of distinct untrusted texts once
func (db *Database) UntrustedPairs() []Pair {
	owners := db.UntrustedOwners()
	pairs := make([]Pair, 0, len(owners)*(len(owners)-1)/2+1)
	for i, sourceOwner := range owners {
		// only look forward so {A,B} is never visited as {B,A}
		for _, againstOwner := range owners[i+1:] {
			pairs = append(pairs, Pair{
				Source:  db.untrusted[sourceOwner],
				Against: db.untrusted[againstOwner],
			})
		}
	}
	return pairs
}

// UntrustedPairCount is len(UntrustedPairs()) without building the pairs
func (db *Database) UntrustedPairCount() int {
	k := len(db.untrusted)
	return k * (k - 1) / 2
}

// TrustedPairCount is len(TrustedPairs()) without building the pairs
func (db *Database) TrustedPairCount() int {
	return len(db.trusted) * len(db.untrusted)
}

// TrustedPairs lists every trusted text against every untrusted text
func (db *Database) TrustedPairs() []Pair {
	trustedOwners := db.TrustedOwners()
	untrustedOwners := db.UntrustedOwners()
	pairs := make([]Pair, 0, len(trustedOwners)*len(untrustedOwners))
	for _, sourceOwner := range trustedOwners {
		for _, againstOwner := range untrustedOwners {
			pairs = append(pairs, Pair{
				Source:        db.trusted[sourceOwner],
				Against:       db.untrusted[againstOwner],
				TrustedSource: true,
			})
		}
	}
	return pairs
}

// CheckUntrustedPlagiarism compares the untrusted texts with each other
func (db *Database) CheckUntrustedPlagiarism() []PlagiarismResult {
	results := db.sweep(db.UntrustedPairs())
	log.Debug().Int("results", len(results)).Msg("Untrusted sweep completed")
	return results
}

// CheckTrustedPlagiarism compares every trusted text with every untrusted text
func (db *Database) CheckTrustedPlagiarism() []PlagiarismResult {
	results := db.sweep(db.TrustedPairs())
	log.Debug().Int("results", len(results)).Msg("Trusted sweep completed")
	return results
}

func (db *Database) sweep(pairs []Pair) []PlagiarismResult {
	results := make([]PlagiarismResult, 0)
	for _, pair := range pairs {
		if result, ok := db.RunMetrics(pair); ok {
			results = append(results, result)
		}
	}
	return results
}

// RunMetrics compares one pair. ok is false when nothing matched.
func (db *Database) RunMetrics(pair Pair) (PlagiarismResult, bool) {
	var matches []FragmentPair
	switch db.metric.Kind {
	case MetricEqual:
		matches = matchEqual(pair.Source, pair.Against)
	case MetricLevenshtein:
		matches = matchByMetric(pair.Source, pair.Against, db.metric)
	}

	if len(matches) == 0 {
		return PlagiarismResult{}, false
	}

	// Source locations come from the partition the source was drawn from;
	// the against side is always untrusted. Both are carried by the pair.
	locations := make([]LocationPair, 0, len(matches))
	for _, match := range matches {
		locations = append(locations, LocationPair{
			First:  copyLocations(pair.Source.FragmentLocations[match.First]),
			Second: copyLocations(pair.Against.FragmentLocations[match.Second]),
		})
	}

	return PlagiarismResult{
		OwnerID1:                  pair.Source.Owner,
		OwnerID2:                  pair.Against.Owner,
		MatchingFragments:         matches,
		MatchingFragmentLocations: locations,
		TrustedOwner1:             pair.TrustedSource,
		EqualFragments:            db.metric.Kind == MetricEqual,
	}, true
}

// matchEqual intersects the fragment sets, probing with the smaller one
func matchEqual(source, against *TextEntry) []FragmentPair {
	small, large := source.Fragments, against.Fragments
	if len(large) < len(small) {
		small, large = large, small
	}

	var matches []FragmentPair
	for _, fragment := range small.Sorted() {
		if large.Contains(fragment) {
			matches = append(matches, FragmentPair{First: fragment, Second: fragment})
		}
	}
	return matches
}

// matchByMetric tests every fragment of source against every fragment of against.
// Cost is |source| * |against| metric evaluations.
func matchByMetric(source, against *TextEntry, metric Metric) []FragmentPair {
	againstFragments := against.Fragments.Sorted()

	var matches []FragmentPair
	for _, sourceFragment := range source.Fragments.Sorted() {
		for _, againstFragment := range againstFragments {
			if metric.IsMatch(sourceFragment, againstFragment) {
				matches = append(matches, FragmentPair{First: sourceFragment, Second: againstFragment})
			}
		}
	}
	return matches
}

func copyLocations(locations []FragmentLocation) []FragmentLocation {
	out := make([]FragmentLocation, len(locations))
	copy(out, locations)
	return out
}
