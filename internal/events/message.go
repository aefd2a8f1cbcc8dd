package events

import "log/slog"

// Severity classifies user-facing messages.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Message is a user-visible status report tied to a subject (usually a
// unit path or datasource root). Messages are fire-and-forget; they never
// influence control flow.
type Message struct {
	Severity Severity
	Subject  string
	Key      string
	Args     []any
}

// Sink accepts messages. Implementations must not block.
type Sink interface {
	Report(m Message)
}

// Progress reports current/total counters with a label.
// Implementations must not block.
type Progress func(current, total int, label string)

// NopProgress discards progress updates.
func NopProgress(int, int, string) {}

// LogSink writes messages to a structured logger. It is the default sink
// when no UI is attached.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Report(m Message) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{"subject", m.Subject}
	if len(m.Args) > 0 {
		attrs = append(attrs, "args", m.Args)
	}
	switch m.Severity {
	case SeverityError:
		logger.Error(m.Key, attrs...)
	case SeverityWarning:
		logger.Warn(m.Key, attrs...)
	default:
		logger.Info(m.Key, attrs...)
	}
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(m Message)

func (f SinkFunc) Report(m Message) { f(m) }
