package audit

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event types emitted by the engine.
const (
	LoginSuccess      = "login_success"
	LoginFailure      = "login_failure"
	LoginDiscarded    = "login_discarded"
	Logout            = "logout"
	SessionExpired    = "session_expired"
	SessionMalformed  = "session_malformed"
	SessionUnreadable = "session_unreadable"
	AccessDenied      = "access_denied"
	LoginRequired     = "login_required"
)

// Event is one session transition or access decision. Request and trace
// ids are copied from the request context when present.
type Event struct {
	Time      time.Time         `json:"time"`
	Type      string            `json:"type"`
	UserID    string            `json:"user_id,omitempty"`
	Path      string            `json:"path,omitempty"`
	Decision  string            `json:"decision,omitempty"`
	Success   bool              `json:"success"`
	Reason    string            `json:"reason,omitempty"`
	IP        string            `json:"ip,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	TraceID   string            `json:"trace_id,omitempty"`
	SpanID    string            `json:"span_id,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// Sink consumes events. Implementations must be safe for the dispatcher's
// single delivery goroutine; sinks shared across dispatchers need their own
// locking.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink discards everything.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, Event) {}

// MultiSink delivers each event to every sink in order.
type MultiSink []Sink

func (m MultiSink) Emit(ctx context.Context, event Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(ctx, event)
		}
	}
}

// ChannelSink hands events to a reader, mostly tests.
type ChannelSink struct {
	events chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan Event, buffer)}
}

func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// JSONWriterSink writes JSON lines.
type JSONWriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	if w == nil {
		w = io.Discard
	}
	return &JSONWriterSink{enc: json.NewEncoder(w)}
}

func (s *JSONWriterSink) Emit(_ context.Context, event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.Encode(event)
}

// ZapSink logs events under the "audit" logger. Denials and failures log at
// warn, everything else at info.
type ZapSink struct {
	logger *zap.Logger
}

func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger.Named("audit")}
}

func (s *ZapSink) Emit(_ context.Context, event Event) {
	fields := []zap.Field{zap.Time("time", event.Time)}
	for _, kv := range [...]struct{ k, v string }{
		{"user_id", event.UserID},
		{"path", event.Path},
		{"decision", event.Decision},
		{"reason", event.Reason},
		{"ip", event.IP},
		{"request_id", event.RequestID},
		{"trace_id", event.TraceID},
	} {
		if kv.v != "" {
			fields = append(fields, zap.String(kv.k, kv.v))
		}
	}
	if len(event.Extra) > 0 {
		fields = append(fields, zap.Any("extra", event.Extra))
	}

	if event.Success || event.Type == LoginRequired || event.Type == Logout {
		s.logger.Info(event.Type, fields...)
		return
	}
	s.logger.Warn(event.Type, fields...)
}
