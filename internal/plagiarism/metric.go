package plagiarism

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// MetricKind selects the fragment comparison rule
type MetricKind int

const (
	// MetricEqual matches identical fragments only
	MetricEqual MetricKind = iota
	// MetricLevenshtein matches fragments within an edit distance cutoff
	MetricLevenshtein
)

// Metric is the comparison rule applied between two fragment strings
type Metric struct {
	Kind   MetricKind
	Cutoff int
}

// Equal returns the exact-equality metric
func Equal() Metric {
	return Metric{Kind: MetricEqual}
}

// EditDistance returns a metric matching fragments at most cutoff edits apart
func EditDistance(cutoff int) Metric {
	return Metric{Kind: MetricLevenshtein, Cutoff: cutoff}
}

// ParseMetric maps the CLI/API metric names ("equal", "lev") to a Metric
func ParseMetric(name string, cutoff int) (Metric, error) {
	if cutoff < 0 {
		return Metric{}, fmt.Errorf("similarity cutoff must not be negative, got %d", cutoff)
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "equal":
		return Metric{Kind: MetricEqual, Cutoff: cutoff}, nil
	case "lev", "levenshtein":
		return EditDistance(cutoff), nil
	default:
		return Metric{}, fmt.Errorf("unknown metric %q (expected equal or lev)", name)
	}
}

// IsMatch reports whether two fragments count as plagiarised under the metric.
// Distance is measured over whole fragment strings, spaces included.
func (m Metric) IsMatch(a, b string) bool {
	switch m.Kind {
	case MetricEqual:
		return a == b
	case MetricLevenshtein:
		return levenshtein.ComputeDistance(a, b) <= m.Cutoff
	default:
		return false
	}
}

func (m Metric) String() string {
	switch m.Kind {
	case MetricEqual:
		return "equal"
	case MetricLevenshtein:
		return "lev"
	default:
		return fmt.Sprintf("metric(%d)", int(m.Kind))
	}
}
