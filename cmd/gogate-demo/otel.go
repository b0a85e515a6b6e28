package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	goGate "github.com/MrEthical07/goGate"
	gogateotel "github.com/MrEthical07/goGate/metrics/export/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// otelMetrics serves a JSON dump of one OpenTelemetry collection pass.
type otelMetrics struct {
	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
	exporter *gogateotel.Exporter
}

func newOTelMetrics(engine *goGate.Engine) (*otelMetrics, error) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	exp, err := gogateotel.NewOTelExporter(provider.Meter("github.com/MrEthical07/goGate"), engine)
	if err != nil {
		return nil, fmt.Errorf("otel exporter: %w", err)
	}
	return &otelMetrics{reader: reader, provider: provider, exporter: exp}, nil
}

func (m *otelMetrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var rm metricdata.ResourceMetrics
	if err := m.reader.Collect(r.Context(), &rm); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rm.ScopeMetrics)
}

func (m *otelMetrics) Close(ctx context.Context) {
	_ = m.exporter.Close()
	_ = m.provider.Shutdown(ctx)
}
