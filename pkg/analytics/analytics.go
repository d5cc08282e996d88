package analytics

import (
	"github.com/hashicorp/go-hclog"
)

// Sink receives product analytics events. Track is fire-and-forget: callers
// never wait on delivery and a failing sink must not fail the caller.
type Sink interface {
	Track(event string, properties map[string]any)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Track(string, map[string]any) {}

// LogSink writes events to a logger. Useful for development and as a default
// when no analytics backend is configured.
type LogSink struct {
	log hclog.Logger
}

// NewLogSink creates a sink that logs events at debug level.
func NewLogSink(log hclog.Logger) *LogSink {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &LogSink{log: log.Named("analytics")}
}

func (s *LogSink) Track(event string, properties map[string]any) {
	s.log.Debug("track", "event", event, "properties", properties)
}
