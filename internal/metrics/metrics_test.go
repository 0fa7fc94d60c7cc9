package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveSweep(t *testing.T) {
	beforePairs := testutil.ToFloat64(ComparisonsTotal.WithLabelValues(SweepTrusted))
	beforeResults := testutil.ToFloat64(ResultsTotal.WithLabelValues(SweepTrusted))

	ObserveSweep(SweepTrusted, 6, 2)

	assert.Equal(t, beforePairs+6, testutil.ToFloat64(ComparisonsTotal.WithLabelValues(SweepTrusted)))
	assert.Equal(t, beforeResults+2, testutil.ToFloat64(ResultsTotal.WithLabelValues(SweepTrusted)))
}

func TestInitPrometheus_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		InitPrometheus()
		InitPrometheus()
	})
}
