package internaldefs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	goGate "github.com/MrEthical07/goGate"
)

func TestEveryCounterBelongsToOneFamily(t *testing.T) {
	seen := map[goGate.MetricID]string{}
	for _, f := range Families {
		for _, s := range f.Series {
			if prev, dup := seen[s.ID]; dup {
				t.Fatalf("metric %d in both %s and %s", s.ID, prev, f.Name)
			}
			seen[s.ID] = f.Name
			if f.Label == "" {
				assert.Len(t, f.Series, 1, f.Name)
			}
		}
	}
	assert.NotContains(t, seen, goGate.MetricEvaluateLatency)
}

func TestCumulativeBuckets(t *testing.T) {
	got := CumulativeBuckets([]uint64{1, 2, 3})
	assert.Equal(t, uint64(1), got[0])
	assert.Equal(t, uint64(6), got[2])
	assert.Equal(t, uint64(6), got[BucketCount-1])
	assert.Equal(t, "0.00001", HistogramBounds[0])
	assert.Equal(t, "+Inf", HistogramBounds[BucketCount-1])
}
