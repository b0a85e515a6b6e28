package goGate

import (
	"context"
	"testing"
	"time"

	"github.com/MrEthical07/goGate/session"
)

func BenchmarkMetricsInc(b *testing.B) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		m.Inc(MetricLoginSuccess)
	}
}

func BenchmarkMetricsIncDisabled(b *testing.B) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		m.Inc(MetricLoginSuccess)
	}
}

var mixedDecisionIDs = [...]MetricID{
	MetricDecisionAllow,
	MetricDecisionAllow,
	MetricDecisionLogin,
	MetricDecisionDenied,
}

func BenchmarkMetricsIncMixedParallel(b *testing.B) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		idx := 0
		for pb.Next() {
			m.Inc(mixedDecisionIDs[idx])
			idx++
			if idx == len(mixedDecisionIDs) {
				idx = 0
			}
		}
	})
}

func BenchmarkMetricsObserveLatencyParallel(b *testing.B) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})
	d := 40 * time.Microsecond
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m.Observe(MetricEvaluateLatency, d)
		}
	})
}

func BenchmarkEngineEvaluate(b *testing.B) {
	cfg := testConfig()
	cfg.Metrics.EnableLatencyHistograms = true
	engine, err := New().WithConfig(cfg).Build()
	if err != nil {
		b.Fatalf("build failed: %v", err)
	}
	defer engine.Close()

	p := session.NewPrincipal("2", "Manager", []string{RoleManager}, time.Now(), time.Hour)
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = engine.Evaluate(ctx, p, "/employees")
	}
}
