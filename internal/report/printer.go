// Package report renders sweep results for people: a plain-text listing and an HTML page
package report

import (
	"fmt"
	"io"

	"github.com/RishiKendai/overlap/internal/plagiarism"
)

// PrintUntrusted writes the untrusted-vs-untrusted section. Results are
// printed in the order given; callers sort them with plagiarism.SortBySeverity.
func PrintUntrusted(w io.Writer, results []plagiarism.PlagiarismResult) error {
	p := &printer{w: w}
	p.printf("\t===== BEGIN UNTRUSTED COMPARISON REPORT (Sorted by decreasing severity) ===== \n\n")
	for _, r := range results {
		p.printf("\n\t REPORT: UNTRUSTED ID %s vs UNTRUSTED ID %s\n", r.OwnerID1, r.OwnerID2)
		p.printResult(r)
	}
	p.printf("\n\t===== END UNTRUSTED COMPARISON REPORT ===== \n\n")
	return p.err
}

// PrintTrusted writes the trusted-vs-untrusted section
func PrintTrusted(w io.Writer, results []plagiarism.PlagiarismResult) error {
	p := &printer{w: w}
	p.printf("\t**** BEGIN TRUSTED COMPARISON REPORT (Sorted by decreasing severity) **** \n\n")
	for _, r := range results {
		p.printf("\n\t REPORT: TRUSTED ID %s vs UNTRUSTED ID %s\n", r.OwnerID1, r.OwnerID2)
		p.printResult(r)
	}
	p.printf("\n\t**** END TRUSTED COMPARISON REPORT **** \n\n")
	return p.err
}

// printer remembers the first write error so the section bodies stay linear
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) printResult(r plagiarism.PlagiarismResult) {
	for _, pair := range r.MatchingFragments {
		if r.EqualFragments {
			p.printf("Identical fragment detected: %s\n", pair.First)
			continue
		}
		p.printf("Similar fragments detected: %s\nVS\n%s\n", pair.First, pair.Second)
	}
}
