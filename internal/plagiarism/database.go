package plagiarism

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
)

// ErrInvalidSensitivity is returned when the fragment width is below one word
var ErrInvalidSensitivity = errors.New("sensitivity must be at least 1")

// TextOwnerID identifies the author of one text within its partition
type TextOwnerID = string

// TextKey addresses a text by owner and partition; the same owner ID may
// exist in both the trusted and the untrusted partition.
type TextKey struct {
	Owner   TextOwnerID
	Trusted bool
}

// TextEntry is one indexed text
type TextEntry struct {
	Owner      TextOwnerID
	CleanWords []string
	// Fragments excludes ignored fragments, FragmentLocations does not
	Fragments         FragmentSet
	FragmentLocations map[string][]FragmentLocation
}

// Database holds the trusted and untrusted corpora of one run
type Database struct {
	n         int
	metric    Metric
	ignored   FragmentSet
	trusted   map[TextOwnerID]*TextEntry
	untrusted map[TextOwnerID]*TextEntry
}

// NewDatabase builds an empty corpus store. The ignore set is computed once here
// and subtracted from every text added afterwards.
func NewDatabase(n int, metric Metric, ignoredTexts []string) (*Database, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSensitivity, n)
	}
	if metric.Cutoff < 0 {
		return nil, fmt.Errorf("similarity cutoff must not be negative, got %d", metric.Cutoff)
	}

	ignored := BuildIgnoreSet(ignoredTexts, n)
	log.Debug().
		Int("n", n).
		Str("metric", metric.String()).
		Int("cutoff", metric.Cutoff).
		Int("ignoredFragments", len(ignored)).
		Msg("Plagiarism database initialized")

	return &Database{
		n:         n,
		metric:    metric,
		ignored:   ignored,
		trusted:   make(map[TextOwnerID]*TextEntry),
		untrusted: make(map[TextOwnerID]*TextEntry),
	}, nil
}

// N returns the fragment width in words
func (db *Database) N() int { return db.n }

// Similarity returns the metric cutoff
func (db *Database) Similarity() int { return db.metric.Cutoff }

// Metric returns the comparison rule
func (db *Database) Metric() Metric { return db.metric }

// IgnoredFragments returns the number of distinct ignored fragments
func (db *Database) IgnoredFragments() int { return len(db.ignored) }

// AddTrustedText indexes text as potential source material, replacing any previous text of owner
func (db *Database) AddTrustedText(owner TextOwnerID, text string) {
	db.trusted[owner] = db.newEntry(owner, text)
}

// AddUntrustedText indexes text as a submission, replacing any previous text of owner
func (db *Database) AddUntrustedText(owner TextOwnerID, text string) {
	db.untrusted[owner] = db.newEntry(owner, text)
}

func (db *Database) newEntry(owner TextOwnerID, text string) *TextEntry {
	words := Normalize(text)
	fragments, locations := Fragments(words, db.n)
	fragments = fragments.Difference(db.ignored)

	log.Trace().
		Str("owner", owner).
		Int("words", len(words)).
		Int("fragments", len(fragments)).
		Msg("Indexed text")

	return &TextEntry{
		Owner:             owner,
		CleanWords:        words,
		Fragments:         fragments,
		FragmentLocations: locations,
	}
}

// Entry returns the indexed text of owner in the given partition
func (db *Database) Entry(owner TextOwnerID, trusted bool) (*TextEntry, bool) {
	var entry *TextEntry
	var ok bool
	if trusted {
		entry, ok = db.trusted[owner]
	} else {
		entry, ok = db.untrusted[owner]
	}
	return entry, ok
}

// CleanText returns the cleaned words of owner in the given partition
func (db *Database) CleanText(owner TextOwnerID, trusted bool) ([]string, bool) {
	entry, ok := db.Entry(owner, trusted)
	if !ok {
		return nil, false
	}
	return entry.CleanWords, true
}

// AllCleanText returns the cleaned words of every text in both partitions
func (db *Database) AllCleanText() map[TextKey][]string {
	out := make(map[TextKey][]string, len(db.trusted)+len(db.untrusted))
	for owner, entry := range db.trusted {
		out[TextKey{Owner: owner, Trusted: true}] = entry.CleanWords
	}
	for owner, entry := range db.untrusted {
		out[TextKey{Owner: owner}] = entry.CleanWords
	}
	return out
}

// TrustedOwners returns the trusted owner IDs in sorted order
func (db *Database) TrustedOwners() []TextOwnerID {
	return sortedOwners(db.trusted)
}

// UntrustedOwners returns the untrusted owner IDs in sorted order
func (db *Database) UntrustedOwners() []TextOwnerID {
	return sortedOwners(db.untrusted)
}

func sortedOwners(texts map[TextOwnerID]*TextEntry) []TextOwnerID {
	owners := make([]TextOwnerID, 0, len(texts))
	for owner := range texts {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	return owners
}
