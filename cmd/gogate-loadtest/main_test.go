package main

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPhaseRunsExactlyOps(t *testing.T) {
	res := phase{name: "t", ops: 1000, workers: 7}.run(func(r *rand.Rand) bool {
		_ = r.IntN(2)
		return true
	})
	assert.Equal(t, 1000, res.ops)
	assert.Zero(t, res.failures)
}

func TestPhaseCountsFailures(t *testing.T) {
	res := phase{name: "t", ops: 50, workers: 3}.run(func(*rand.Rand) bool { return false })
	assert.Equal(t, int64(50), res.failures)
}

func TestQuantile(t *testing.T) {
	r := result{samples: []time.Duration{
		1 * time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond, 4 * time.Millisecond, 5 * time.Millisecond,
	}}
	assert.Equal(t, 1*time.Millisecond, r.quantile(0))
	assert.Equal(t, 3*time.Millisecond, r.quantile(0.5))
	assert.Equal(t, 5*time.Millisecond, r.quantile(1))
	assert.Zero(t, result{}.quantile(0.5))
	assert.Zero(t, result{}.rate())
}
