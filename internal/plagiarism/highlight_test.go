package plagiarism

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fiveWords = []string{"a", "b", "c", "d", "e"}

func TestProject_FirstWordsBold(t *testing.T) {
	segments, coverage := Project(fiveWords, []FragmentLocation{{Start: 0, End: 2}})

	assert.Equal(t, []Segment{{Text: "a b", Bold: true}, {Text: "c d e", Bold: false}}, segments)
	assert.Equal(t, 40, coverage)
}

func TestProject_LastWordsBold(t *testing.T) {
	segments, _ := Project(fiveWords, []FragmentLocation{{Start: 2, End: 5}})

	assert.Equal(t, []Segment{{Text: "a b", Bold: false}, {Text: "c d e", Bold: true}}, segments)
}

func TestProject_NoneBold(t *testing.T) {
	segments, coverage := Project(fiveWords, nil)

	assert.Equal(t, []Segment{{Text: "a b c d e", Bold: false}}, segments)
	assert.Equal(t, 0, coverage)
}

func TestProject_AllBold(t *testing.T) {
	segments, coverage := Project(fiveWords, []FragmentLocation{{Start: 0, End: 5}})

	assert.Equal(t, []Segment{{Text: "a b c d e", Bold: true}}, segments)
	assert.Equal(t, 100, coverage)
}

func TestProject_BothEndsBold(t *testing.T) {
	segments, coverage := Project(fiveWords, []FragmentLocation{{Start: 0, End: 1}, {Start: 4, End: 5}})

	assert.Equal(t, []Segment{
		{Text: "a", Bold: true},
		{Text: "b c d", Bold: false},
		{Text: "e", Bold: true},
	}, segments)
	assert.Equal(t, 40, coverage)
}

func TestProject_SingleWordsBold(t *testing.T) {
	segments, _ := Project(fiveWords, []FragmentLocation{{Start: 0, End: 1}, {Start: 2, End: 3}})

	assert.Equal(t, []Segment{
		{Text: "a", Bold: true},
		{Text: "b", Bold: false},
		{Text: "c", Bold: true},
		{Text: "d e", Bold: false},
	}, segments)
}

func TestProject_OverlappingRangesCountOnce(t *testing.T) {
	_, coverage := Project(fiveWords, []FragmentLocation{{Start: 0, End: 2}, {Start: 1, End: 3}, {Start: 0, End: 2}})

	assert.Equal(t, 60, coverage)
}

func TestProject_CoverageTruncates(t *testing.T) {
	words := []string{"a", "b", "c"}
	_, coverage := Project(words, []FragmentLocation{{Start: 0, End: 2}})

	// 2/3 is 66.67%
	assert.Equal(t, 66, coverage)
}

func TestProject_EmptyText(t *testing.T) {
	segments, coverage := Project(nil, nil)

	assert.Empty(t, segments)
	assert.Equal(t, 0, coverage)
}

func TestProject_SegmentsAlternate(t *testing.T) {
	words := Normalize("one two three four five six seven eight nine ten")
	segments, _ := Project(words, []FragmentLocation{{Start: 1, End: 3}, {Start: 3, End: 4}, {Start: 6, End: 8}})

	require.NotEmpty(t, segments)
	for i := 1; i < len(segments); i++ {
		assert.NotEqual(t, segments[i-1].Bold, segments[i].Bold)
		assert.NotEmpty(t, segments[i].Text)
	}
}

func TestMergeLocations(t *testing.T) {
	merged := MergeLocations([]FragmentLocation{
		{Start: 6, End: 8},
		{Start: 0, End: 2},
		{Start: 2, End: 3},
		{Start: 1, End: 2},
		{Start: 4, End: 4},
	})

	assert.Equal(t, []FragmentLocation{{Start: 0, End: 3}, {Start: 6, End: 8}}, merged)
}

func TestHighlight_UsesUnionOfAllFragments(t *testing.T) {
	db := newTestDatabase(t, 2, Equal())
	db.AddUntrustedText("A", "alpha beta gamma delta epsilon")
	db.AddUntrustedText("B", "alpha beta zeta delta epsilon")

	results := db.CheckUntrustedPlagiarism()
	require.Len(t, results, 1)

	h := db.Highlight(results[0])

	assert.Equal(t, 2, h.Matches)
	assert.Equal(t, []Segment{
		{Text: "alpha beta", Bold: true},
		{Text: "gamma", Bold: false},
		{Text: "delta epsilon", Bold: true},
	}, h.Display1)
	assert.Equal(t, 80, h.Coverage1)
	assert.Equal(t, 80, h.Coverage2)
	assert.Equal(t, RiskHighlySuspicious, h.Risk)
}

func TestHighlight_TrustedOwnerReadFromTrustedPartition(t *testing.T) {
	db := newTestDatabase(t, 2, Equal())
	db.AddTrustedText("doc", "origin words here and more")
	db.AddUntrustedText("doc", "origin words")

	results := db.CheckTrustedPlagiarism()
	require.Len(t, results, 1)

	h := db.Highlight(results[0])

	assert.Equal(t, []Segment{{Text: "origin words", Bold: true}, {Text: "here and more", Bold: false}}, h.Display1)
	assert.Equal(t, 40, h.Coverage1)
	assert.Equal(t, []Segment{{Text: "origin words", Bold: true}}, h.Display2)
	assert.Equal(t, 100, h.Coverage2)
}

func TestGetRiskLevel(t *testing.T) {
	assert.Equal(t, RiskClean, GetRiskLevel(0))
	assert.Equal(t, RiskClean, GetRiskLevel(29))
	assert.Equal(t, RiskSuspicious, GetRiskLevel(30))
	assert.Equal(t, RiskHighlySuspicious, GetRiskLevel(60))
	assert.Equal(t, RiskNearCopy, GetRiskLevel(85))
	assert.Equal(t, RiskNearCopy, GetRiskLevel(100))
}

func TestSummarize(t *testing.T) {
	summary := Summarize([]Highlight{
		{OwnerID1: "A", OwnerID2: "B", Coverage1: 10, Coverage2: 20, Risk: RiskClean},
		{OwnerID1: "T", OwnerID2: "C", TrustedOwner1: true, Coverage1: 90, Coverage2: 50, Risk: RiskNearCopy},
	})

	assert.Equal(t, 2, summary.Results)
	assert.Equal(t, 1, summary.FlaggedOwners)
	assert.Equal(t, 90, summary.MaxCoverage)
	assert.Equal(t, RiskNearCopy, summary.Risk)
}
