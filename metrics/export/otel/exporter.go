package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/metrics/export/internaldefs"
)

// Constructor errors.
var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

// Source is what the exporter reads; *goGate.Engine implements it.
type Source interface {
	MetricsSnapshot() goGate.MetricsSnapshot
	AuditStats() goGate.AuditStats
}

type series struct {
	id    goGate.MetricID
	attrs metric.MeasurementOption
}

type family struct {
	instrument metric.Int64ObservableCounter
	series     []series
}

// Exporter owns the callback registration that feeds engine metrics to a
// Meter. Close unregisters it.
type Exporter struct {
	source       Source
	registration metric.Registration
	families     []family
	buckets      metric.Int64ObservableGauge
	bucketAttrs  [internaldefs.BucketCount]metric.MeasurementOption
	count        metric.Int64ObservableGauge
	audit        metric.Int64ObservableCounter
	auditAttrs   [3]metric.MeasurementOption
}

// NewOTelExporter registers instruments for engine on meter.
func NewOTelExporter(meter metric.Meter, engine *goGate.Engine) (*Exporter, error) {
	return NewOTelExporterFromSource(meter, engine)
}

// NewOTelExporterFromSource registers instruments for source on meter.
func NewOTelExporterFromSource(meter metric.Meter, source Source) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &Exporter{source: source}
	observables := make([]metric.Observable, 0, len(internaldefs.Families)+3)

	for _, f := range internaldefs.Families {
		ins, err := meter.Int64ObservableCounter(f.Name, metric.WithDescription(f.Help))
		if err != nil {
			return nil, fmt.Errorf("create counter %s: %w", f.Name, err)
		}
		fam := family{instrument: ins, series: make([]series, 0, len(f.Series))}
		for _, s := range f.Series {
			var attrs metric.MeasurementOption
			if f.Label != "" {
				attrs = metric.WithAttributes(attribute.String(f.Label, s.Value))
			}
			fam.series = append(fam.series, series{id: s.ID, attrs: attrs})
		}
		e.families = append(e.families, fam)
		observables = append(observables, ins)
	}

	h := internaldefs.EvaluateLatency
	var err error
	e.buckets, err = meter.Int64ObservableGauge(h.Name+"_bucket",
		metric.WithDescription(h.Help+" Cumulative count per upper bound."))
	if err != nil {
		return nil, fmt.Errorf("create gauge %s_bucket: %w", h.Name, err)
	}
	for i, le := range internaldefs.HistogramBounds {
		e.bucketAttrs[i] = metric.WithAttributes(attribute.String("le", le))
	}
	e.count, err = meter.Int64ObservableGauge(h.Name+"_count",
		metric.WithDescription(h.Help+" Sample count."))
	if err != nil {
		return nil, fmt.Errorf("create gauge %s_count: %w", h.Name, err)
	}
	observables = append(observables, e.buckets, e.count)

	e.audit, err = meter.Int64ObservableCounter(internaldefs.AuditEventsName,
		metric.WithDescription(internaldefs.AuditEventsHelp))
	if err != nil {
		return nil, fmt.Errorf("create counter %s: %w", internaldefs.AuditEventsName, err)
	}
	for i, s := range internaldefs.AuditSeries(goGate.AuditStats{}) {
		e.auditAttrs[i] = metric.WithAttributes(attribute.String(internaldefs.AuditEventsLabel, s.Value))
	}
	observables = append(observables, e.audit)

	e.registration, err = meter.RegisterCallback(e.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	return e, nil
}

func (e *Exporter) observe(_ context.Context, o metric.Observer) error {
	snap := e.source.MetricsSnapshot()
	for _, f := range e.families {
		for _, s := range f.series {
			v := int64(snap.Counters[s.id])
			if s.attrs == nil {
				o.ObserveInt64(f.instrument, v)
				continue
			}
			o.ObserveInt64(f.instrument, v, s.attrs)
		}
	}

	if raw, ok := snap.Histograms[internaldefs.EvaluateLatency.ID]; ok {
		cumulative := internaldefs.CumulativeBuckets(raw)
		for i, v := range cumulative {
			o.ObserveInt64(e.buckets, int64(v), e.bucketAttrs[i])
		}
		o.ObserveInt64(e.count, int64(cumulative[len(cumulative)-1]))
	}

	for i, s := range internaldefs.AuditSeries(e.source.AuditStats()) {
		o.ObserveInt64(e.audit, int64(s.Count), e.auditAttrs[i])
	}
	return nil
}

// Close unregisters the collection callback.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
