package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/metrics/export/internaldefs"
)

// Source is what the exporter reads; *goGate.Engine implements it.
type Source interface {
	MetricsSnapshot() goGate.MetricsSnapshot
	AuditStats() goGate.AuditStats
}

// Exporter renders engine metrics in the Prometheus text format.
type Exporter struct {
	source Source
}

// NewPrometheusExporter returns an exporter reading engine.
func NewPrometheusExporter(engine *goGate.Engine) *Exporter {
	return &Exporter{source: engine}
}

// NewPrometheusExporterFromSource returns an exporter reading source.
func NewPrometheusExporterFromSource(source Source) *Exporter {
	return &Exporter{source: source}
}

// Handler serves Render.
func (p *Exporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render returns the exposition text, or "" when the engine keeps no
// metrics and audits nothing.
func (p *Exporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	snap := p.source.MetricsSnapshot()
	audit := p.source.AuditStats()
	if len(snap.Counters) == 0 && len(snap.Histograms) == 0 && audit == (goGate.AuditStats{}) {
		return ""
	}

	var b strings.Builder
	b.Grow(4096)

	for _, f := range internaldefs.Families {
		header(&b, f.Name, f.Help, "counter")
		for _, s := range f.Series {
			sample(&b, f.Name, f.Label, s.Value, snap.Counters[s.ID])
		}
	}

	if raw, ok := snap.Histograms[internaldefs.EvaluateLatency.ID]; ok {
		h := internaldefs.EvaluateLatency
		header(&b, h.Name, h.Help, "histogram")
		cumulative := internaldefs.CumulativeBuckets(raw)
		for i, le := range internaldefs.HistogramBounds {
			sample(&b, h.Name+"_bucket", "le", le, cumulative[i])
		}
		sample(&b, h.Name+"_count", "", "", cumulative[len(cumulative)-1])
		// Only bucket counts are kept; the sum is unknown.
		b.WriteString(h.Name)
		b.WriteString("_sum 0\n")
	}

	header(&b, internaldefs.AuditEventsName, internaldefs.AuditEventsHelp, "counter")
	for _, s := range internaldefs.AuditSeries(audit) {
		sample(&b, internaldefs.AuditEventsName, internaldefs.AuditEventsLabel, s.Value, s.Count)
	}

	return b.String()
}

func header(b *strings.Builder, name, help, kind string) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(escapeHelp(help))
	b.WriteString("\n# TYPE ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(kind)
	b.WriteByte('\n')
}

func sample(b *strings.Builder, name, label, value string, v uint64) {
	b.WriteString(name)
	if label != "" {
		b.WriteByte('{')
		b.WriteString(label)
		b.WriteString(`="`)
		b.WriteString(value)
		b.WriteString(`"}`)
	}
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(v, 10))
	b.WriteByte('\n')
}

func escapeHelp(help string) string {
	return strings.NewReplacer(`\`, `\\`, "\n", `\n`).Replace(help)
}
