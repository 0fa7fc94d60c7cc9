package plagiarism

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_StripsPunctuationAndNewlines(t *testing.T) {
	assert.Equal(t,
		[]string{"a", "b", "c", "2", "3", "4", "224acb"},
		Normalize("  a  b c \n 2 3 @ 4\n224acb@\n"))
}

func TestNormalize_Lowercases(t *testing.T) {
	assert.Equal(t, []string{"mary", "had", "a", "lamb"}, Normalize("MARY Had a LaMb"))
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize(""))
	assert.Empty(t, Normalize(" \n\t@@@ ... "))
}

func TestNormalize_NonASCIISeparatesWords(t *testing.T) {
	assert.Equal(t, []string{"r", "sum"}, Normalize("résumé"))
}

func TestNormalize_FoldsASCIIOnly(t *testing.T) {
	assert.Equal(t, []string{"elvin"}, Normalize("\u212Aelvin"))
	assert.Equal(t, []string{"elvin", "stanbul"}, Normalize("\u212Aelvin \u0130stanbul"))
}

func TestNGrams(t *testing.T) {
	assert.Equal(t, []string{"mary had", "had a"}, NGrams([]string{"mary", "had", "a"}, 2))
	assert.Equal(t, []string{"mary had", "had a"}, NGrams(Normalize("    ||| mary\n  @@@@ ....  had a\n\n\n"), 2))
}

func TestNGrams_WindowLargerThanText(t *testing.T) {
	assert.Nil(t, NGrams([]string{"a", "b"}, 3))
	assert.Nil(t, NGrams(nil, 1))
}

func TestFragments_Locations(t *testing.T) {
	fragments, locations := Fragments([]string{"mary", "had", "a"}, 2)

	assert.Equal(t, FragmentSet{"mary had": {}, "had a": {}}, fragments)
	assert.Equal(t, []FragmentLocation{{Start: 0, End: 2}}, locations["mary had"])
	assert.Equal(t, []FragmentLocation{{Start: 1, End: 3}}, locations["had a"])
}

func TestFragments_RecurringFragmentKeepsEveryLocation(t *testing.T) {
	fragments, locations := Fragments(Normalize("to be or not to be"), 2)

	assert.Len(t, fragments, 4)
	assert.Equal(t, []FragmentLocation{{Start: 0, End: 2}, {Start: 4, End: 6}}, locations["to be"])
}

func TestFragments_WindowLargerThanText(t *testing.T) {
	for _, words := range [][]string{nil, {"a"}, {"a", "b", "c"}} {
		fragments, locations := Fragments(words, len(words)+1)
		assert.Empty(t, fragments)
		assert.Empty(t, locations)
	}
}

func TestFragments_LocationsSpanExactlyN(t *testing.T) {
	_, locations := Fragments(Normalize("one two three four five six"), 3)
	for _, locs := range locations {
		for _, loc := range locs {
			assert.Equal(t, 3, loc.End-loc.Start)
		}
	}
}

func TestBuildIgnoreSet_UnionsAllTexts(t *testing.T) {
	ignored := BuildIgnoreSet([]string{"The cat sat.", "a dog ran"}, 2)

	assert.Equal(t, FragmentSet{"the cat": {}, "cat sat": {}, "a dog": {}, "dog ran": {}}, ignored)
}

func TestFragmentSet_Difference(t *testing.T) {
	s := FragmentSet{"a b": {}, "b c": {}}
	assert.Equal(t, FragmentSet{"b c": {}}, s.Difference(FragmentSet{"a b": {}}))
	assert.Equal(t, []string{"a b", "b c"}, s.Sorted())
}
