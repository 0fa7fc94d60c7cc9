package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/RishiKendai/overlap/internal/plagiarism"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintUntrusted_IdenticalFragments(t *testing.T) {
	var buf bytes.Buffer
	err := PrintUntrusted(&buf, []plagiarism.PlagiarismResult{{
		OwnerID1:          "a.txt",
		OwnerID2:          "b.txt",
		EqualFragments:    true,
		MatchingFragments: []plagiarism.FragmentPair{{First: "mary had", Second: "mary had"}},
	}})

	require.NoError(t, err)
	assert.Equal(t, "\t===== BEGIN UNTRUSTED COMPARISON REPORT (Sorted by decreasing severity) ===== \n\n"+
		"\n\t REPORT: UNTRUSTED ID a.txt vs UNTRUSTED ID b.txt\n"+
		"Identical fragment detected: mary had\n"+
		"\n\t===== END UNTRUSTED COMPARISON REPORT ===== \n\n", buf.String())
}

func TestPrintTrusted_SimilarFragments(t *testing.T) {
	var buf bytes.Buffer
	err := PrintTrusted(&buf, []plagiarism.PlagiarismResult{{
		OwnerID1:          "src",
		OwnerID2:          "essay",
		TrustedOwner1:     true,
		MatchingFragments: []plagiarism.FragmentPair{{First: "cats run", Second: "cat run"}},
	}})

	require.NoError(t, err)
	assert.Equal(t, "\t**** BEGIN TRUSTED COMPARISON REPORT (Sorted by decreasing severity) **** \n\n"+
		"\n\t REPORT: TRUSTED ID src vs UNTRUSTED ID essay\n"+
		"Similar fragments detected: cats run\nVS\ncat run\n"+
		"\n\t**** END TRUSTED COMPARISON REPORT **** \n\n", buf.String())
}

func TestPrintUntrusted_EmptyStillPrintsFrame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintUntrusted(&buf, nil))

	assert.Contains(t, buf.String(), "BEGIN UNTRUSTED")
	assert.Contains(t, buf.String(), "END UNTRUSTED")
	assert.NotContains(t, buf.String(), "REPORT:")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrint_ReturnsWriteError(t *testing.T) {
	assert.ErrorContains(t, PrintTrusted(failingWriter{}, nil), "disk full")
}
