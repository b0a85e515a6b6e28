package internaldefs

import (
	"strconv"

	goGate "github.com/MrEthical07/goGate"
)

// Series is one engine counter exposed under a family, identified by the
// value of the family label. Families without a label have one series with
// an empty Value.
type Series struct {
	ID    goGate.MetricID
	Value string
}

// Family groups counters that differ by one label.
type Family struct {
	Name   string
	Help   string
	Label  string
	Series []Series
}

// Families lists every exported counter family in render order.
var Families = []Family{
	{
		Name:  "gogate_logins_total",
		Help:  "Login attempts by outcome.",
		Label: "outcome",
		Series: []Series{
			{ID: goGate.MetricLoginSuccess, Value: "success"},
			{ID: goGate.MetricLoginFailure, Value: "failure"},
			{ID: goGate.MetricLoginTimeout, Value: "timeout"},
			{ID: goGate.MetricLoginThrottled, Value: "throttled"},
			{ID: goGate.MetricLoginDiscarded, Value: "discarded"},
		},
	},
	{
		Name:   "gogate_logouts_total",
		Help:   "Logouts.",
		Series: []Series{{ID: goGate.MetricLogout}},
	},
	{
		Name:  "gogate_sessions_discarded_total",
		Help:  "Stored session tokens dropped on read, by reason.",
		Label: "reason",
		Series: []Series{
			{ID: goGate.MetricSessionExpired, Value: "expired"},
			{ID: goGate.MetricSessionMalformed, Value: "malformed"},
			{ID: goGate.MetricStorageReadFailure, Value: "unreadable"},
		},
	},
	{
		Name:  "gogate_decisions_total",
		Help:  "Route access decisions.",
		Label: "decision",
		Series: []Series{
			{ID: goGate.MetricDecisionAllow, Value: "allow"},
			{ID: goGate.MetricDecisionLogin, Value: "redirect_to_login"},
			{ID: goGate.MetricDecisionDenied, Value: "redirect_to_access_denied"},
		},
	},
}

// EvaluateLatency describes the Engine.Evaluate latency histogram.
var EvaluateLatency = struct {
	ID   goGate.MetricID
	Name string
	Help string
}{
	ID:   goGate.MetricEvaluateLatency,
	Name: "gogate_evaluate_latency_seconds",
	Help: "Route evaluation latency.",
}

// AuditEvents is the audit delivery family, labeled by state.
const (
	AuditEventsName  = "gogate_audit_events_total"
	AuditEventsHelp  = "Audit events by delivery state."
	AuditEventsLabel = "state"
)

// AuditSeries returns the audit family's label values and counts.
func AuditSeries(st goGate.AuditStats) [3]struct {
	Value string
	Count uint64
} {
	return [3]struct {
		Value string
		Count uint64
	}{
		{"delivered", st.Delivered},
		{"dropped", st.Dropped},
		{"skipped", st.Skipped},
	}
}

// BucketCount is the number of histogram buckets, the unbounded one included.
const BucketCount = len(goGate.HistogramBucketBounds) + 1

// HistogramBounds are the le label values of the buckets in seconds.
var HistogramBounds = boundLabels()

func boundLabels() []string {
	out := make([]string, 0, BucketCount)
	for _, d := range goGate.HistogramBucketBounds {
		out = append(out, strconv.FormatFloat(d.Seconds(), 'f', -1, 64))
	}
	return append(out, "+Inf")
}

// CumulativeBuckets turns per-bucket counts into running totals. Missing
// trailing buckets count as zero.
func CumulativeBuckets(raw []uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	var running uint64
	for i := range out {
		if i < len(raw) {
			running += raw[i]
		}
		out[i] = running
	}
	return out
}
