package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutput = `goos: linux
BenchmarkEngineEvaluate-8   	 5000000	       210 ns/op	      48 B/op	       1 allocs/op
BenchmarkEngineEvaluate-8   	 5000000	       230 ns/op	      48 B/op	       1 allocs/op
BenchmarkEngineEvaluate-8   	 5000000	       220 ns/op	      48 B/op	       1 allocs/op
BenchmarkMetricsInc-8       	100000000	        10.5 ns/op
BenchmarkUntracked-8        	 1000000	      1000 ns/op
PASS`

func TestParseBenchmarksKeepsTrackedOnly(t *testing.T) {
	s, err := parseBenchmarks(strings.NewReader(sampleOutput))
	require.NoError(t, err)

	assert.Equal(t, []float64{210, 230, 220}, s["BenchmarkEngineEvaluate"]["ns/op"])
	assert.Equal(t, []float64{1, 1, 1}, s["BenchmarkEngineEvaluate"]["allocs/op"])
	assert.Equal(t, []float64{10.5}, s["BenchmarkMetricsInc"]["ns/op"])
	assert.NotContains(t, s, "BenchmarkUntracked")
}

func TestCompareFlagsRegression(t *testing.T) {
	base := sampleSet{}
	cand := sampleSet{}
	for name, metrics := range trackedMetrics {
		base[name] = map[string][]float64{}
		cand[name] = map[string][]float64{}
		for _, m := range metrics {
			base[name][m] = []float64{100}
			cand[name][m] = []float64{110}
		}
	}
	cand["BenchmarkEngineEvaluate"]["ns/op"] = []float64{200}

	_, failures := compare(base, cand, 0.30)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "BenchmarkEngineEvaluate ns/op")
}

func TestCompareReportsMissingSamples(t *testing.T) {
	_, failures := compare(sampleSet{}, sampleSet{}, 0.30)
	assert.NotEmpty(t, failures)
}

func TestNormalizeBenchmarkName(t *testing.T) {
	assert.Equal(t, "BenchmarkRender", normalizeBenchmarkName("BenchmarkRender-16"))
	assert.Equal(t, "BenchmarkRender", normalizeBenchmarkName("BenchmarkRender"))
	assert.Equal(t, 220.0, median([]float64{230, 210, 220}))
}
