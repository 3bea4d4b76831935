package audit

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Worker decouples callers from a slow sink. Emit enqueues without
// blocking; Run drains the queue into the sink until the context ends.
type Worker struct {
	sink    Publisher
	inbox   chan Event
	logger  *slog.Logger
	dropped atomic.Int64
}

const defaultWorkerBuffer = 1024

func NewWorker(sink Publisher, buffer int, logger *slog.Logger) *Worker {
	if buffer <= 0 {
		buffer = defaultWorkerBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{sink: sink, inbox: make(chan Event, buffer), logger: logger}
}

// Emit queues the event. When the queue is full the event is dropped and
// counted.
func (w *Worker) Emit(_ context.Context, event Event) error {
	select {
	case w.inbox <- event:
	default:
		w.dropped.Add(1)
		w.logger.Warn("audit queue full, event dropped", "action", event.Action, "subject", event.Subject)
	}
	return nil
}

// Dropped reports how many events were discarded because the queue was full.
func (w *Worker) Dropped() int64 {
	return w.dropped.Load()
}

// Run delivers queued events. On cancellation it flushes what is already
// queued with a fresh context and returns ctx.Err().
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.flush(context.WithoutCancel(ctx))
			return ctx.Err()
		case event := <-w.inbox:
			w.deliver(ctx, event)
		}
	}
}

func (w *Worker) flush(ctx context.Context) {
	for {
		select {
		case event := <-w.inbox:
			w.deliver(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) deliver(ctx context.Context, event Event) {
	if err := w.sink.Emit(ctx, event); err != nil {
		w.logger.ErrorContext(ctx, "failed to deliver audit event",
			"action", event.Action,
			"subject", event.Subject,
			"error", err,
		)
	}
}
