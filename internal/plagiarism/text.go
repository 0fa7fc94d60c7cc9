package plagiarism

import (
	"regexp"
	"sort"
	"strings"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9 ]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// FragmentLocation is a [Start, End) range of word indices into a cleaned text
type FragmentLocation struct {
	Start int `json:"start" bson:"start"`
	End   int `json:"end" bson:"end"`
}

// FragmentSet holds the distinct fragment strings of a text
type FragmentSet map[string]struct{}

// Contains reports whether fragment is in the set
func (s FragmentSet) Contains(fragment string) bool {
	_, ok := s[fragment]
	return ok
}

// Difference returns the fragments of s that are not in other
func (s FragmentSet) Difference(other FragmentSet) FragmentSet {
	out := make(FragmentSet, len(s))
	for fragment := range s {
		if !other.Contains(fragment) {
			out[fragment] = struct{}{}
		}
	}
	return out
}

// Sorted returns the fragments in lexical order
func (s FragmentSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for fragment := range s {
		out = append(out, fragment)
	}
	sort.Strings(out)
	return out
}

// Normalize turns raw text into lowercase ASCII alphanumeric words.
// Every other character acts as a word separator.
func Normalize(text string) []string {
	// Strip before lowering so only ASCII letters are case folded.
	cleaned := nonAlphanumeric.ReplaceAllString(text, " ")
	cleaned = strings.ToLower(cleaned)
	cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")
	return strings.Fields(strings.TrimSpace(cleaned))
}

// NGrams joins every run of n consecutive words with single spaces, in text order.
// Returns nil when the text is shorter than n words.
func NGrams(words []string, n int) []string {
	if n <= 0 || n > len(words) {
		return nil
	}

	ngrams := make([]string, 0, len(words)-n+1)
	for i := 0; i <= len(words)-n; i++ {
		ngrams = append(ngrams, strings.Join(words[i:i+n], " "))
	}
	return ngrams
}

// Fragments indexes the n-grams of words. Recurring n-grams collapse into one
// set entry but keep one location per occurrence.
func Fragments(words []string, n int) (FragmentSet, map[string][]FragmentLocation) {
	fragments := make(FragmentSet)
	locations := make(map[string][]FragmentLocation)

	for start, ngram := range NGrams(words, n) {
		locations[ngram] = append(locations[ngram], FragmentLocation{Start: start, End: start + n})
		fragments[ngram] = struct{}{}
	}

	return fragments, locations
}

// BuildIgnoreSet collects the fragments of every ignored text into one set.
// Locations are dropped, only membership matters.
func BuildIgnoreSet(texts []string, n int) FragmentSet {
	ignored := make(FragmentSet)
	for _, text := range texts {
		fragments, _ := Fragments(Normalize(text), n)
		for fragment := range fragments {
			ignored[fragment] = struct{}{}
		}
	}
	return ignored
}
