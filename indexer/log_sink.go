package indexer

import (
	"context"

	"cosmossdk.io/log"
)

// LogSink writes each event as a structured log line.
type LogSink struct {
	logger log.Logger
}

// NewLogSink returns a sink logging through logger.
func NewLogSink(logger log.Logger) *LogSink {
	return &LogSink{logger: logger.With("module", "indexer")}
}

func (s *LogSink) Index(_ context.Context, events []Event) error {
	for _, e := range events {
		kv := make([]any, 0, 4+2*len(e.Attributes))
		kv = append(kv, "height", e.Height, "type", e.Type)
		for k, v := range e.Attributes {
			kv = append(kv, k, v)
		}
		s.logger.Info("pinservice event", kv...)
	}
	return nil
}

func (s *LogSink) Close() error { return nil }
