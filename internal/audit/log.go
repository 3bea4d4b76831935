package audit

import (
	"context"
	"log/slog"
)

// LogPublisher writes each event as one structured log line. It is the
// server's sink when no broker is configured and retains nothing.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Emit(ctx context.Context, event Event) error {
	p.logger.InfoContext(ctx, "audit event",
		"log_type", "audit",
		"action", event.Action,
		"subject", event.Subject,
		"kind", event.Kind,
		"operator", event.Operator,
		"request_id", event.RequestID,
		"detail", event.Detail,
		"timestamp", event.Timestamp,
	)
	return nil
}
