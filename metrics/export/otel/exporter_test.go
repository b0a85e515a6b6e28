package otel

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	goGate "github.com/MrEthical07/goGate"
)

type fakeSource struct {
	mu       sync.RWMutex
	counters map[goGate.MetricID]uint64
	latency  []uint64
	audit    goGate.AuditStats
}

func (f *fakeSource) MetricsSnapshot() goGate.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := goGate.MetricsSnapshot{
		Counters:   make(map[goGate.MetricID]uint64, len(f.counters)),
		Histograms: map[goGate.MetricID][]uint64{},
	}
	for k, v := range f.counters {
		out.Counters[k] = v
	}
	if f.latency != nil {
		out.Histograms[goGate.MetricEvaluateLatency] = append([]uint64(nil), f.latency...)
	}
	return out
}

func (f *fakeSource) AuditStats() goGate.AuditStats {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.audit
}

func newReader(t *testing.T, src Source) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	exp, err := NewOTelExporterFromSource(provider.Meter("gogate-test"), src)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, exp.Close()) })
	return reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func point(t *testing.T, data metricdata.Aggregation, key, value string) int64 {
	t.Helper()
	var points []metricdata.DataPoint[int64]
	switch d := data.(type) {
	case metricdata.Sum[int64]:
		points = d.DataPoints
	case metricdata.Gauge[int64]:
		points = d.DataPoints
	default:
		t.Fatalf("unexpected aggregation %T", data)
	}
	for _, p := range points {
		if key == "" && p.Attributes.Len() == 0 {
			return p.Value
		}
		if v, ok := p.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			return p.Value
		}
	}
	t.Fatalf("no point %s=%q", key, value)
	return 0
}

func TestExporterObservesLabeledFamilies(t *testing.T) {
	src := &fakeSource{
		counters: map[goGate.MetricID]uint64{
			goGate.MetricLoginSuccess:   3,
			goGate.MetricLoginThrottled: 1,
			goGate.MetricLogout:         2,
			goGate.MetricDecisionDenied: 4,
		},
		latency: []uint64{1, 1, 1, 1, 1, 1, 1, 1},
		audit:   goGate.AuditStats{Delivered: 5, Skipped: 1},
	}
	got := collect(t, newReader(t, src))

	assert.Equal(t, int64(3), point(t, got["gogate_logins_total"], "outcome", "success"))
	assert.Equal(t, int64(1), point(t, got["gogate_logins_total"], "outcome", "throttled"))
	assert.Equal(t, int64(2), point(t, got["gogate_logouts_total"], "", ""))
	assert.Equal(t, int64(4), point(t, got["gogate_decisions_total"], "decision", "redirect_to_access_denied"))
	assert.Equal(t, int64(1), point(t, got["gogate_evaluate_latency_seconds_bucket"], "le", "0.00001"))
	assert.Equal(t, int64(8), point(t, got["gogate_evaluate_latency_seconds_bucket"], "le", "+Inf"))
	assert.Equal(t, int64(8), point(t, got["gogate_evaluate_latency_seconds_count"], "", ""))
	assert.Equal(t, int64(5), point(t, got["gogate_audit_events_total"], "state", "delivered"))
	assert.Equal(t, int64(1), point(t, got["gogate_audit_events_total"], "state", "skipped"))
}

func TestExporterSkipsLatencyWhenOff(t *testing.T) {
	src := &fakeSource{counters: map[goGate.MetricID]uint64{goGate.MetricDecisionAllow: 1}}
	got := collect(t, newReader(t, src))

	assert.Contains(t, got, "gogate_decisions_total")
	if data, ok := got["gogate_evaluate_latency_seconds_bucket"]; ok {
		g, _ := data.(metricdata.Gauge[int64])
		assert.Empty(t, g.DataPoints)
	}
}

func TestExporterRejectsNilArguments(t *testing.T) {
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))

	_, err := NewOTelExporterFromSource(provider.Meter("gogate-test"), nil)
	assert.ErrorIs(t, err, ErrNilSource)
	_, err = NewOTelExporterFromSource(nil, &fakeSource{})
	assert.ErrorIs(t, err, ErrNilMeter)
}

func TestExporterConcurrentCollect(t *testing.T) {
	src := &fakeSource{counters: map[goGate.MetricID]uint64{goGate.MetricLoginSuccess: 1}}
	reader := newReader(t, src)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			src.mu.Lock()
			src.counters[goGate.MetricLoginSuccess] = v
			src.mu.Unlock()

			var rm metricdata.ResourceMetrics
			_ = reader.Collect(context.Background(), &rm)
		}(uint64(i + 1))
	}
	wg.Wait()
}
