package events

import (
	"context"
	"log/slog"
)

// RegisterAuditLog writes one structured log line per security-relevant event.
func RegisterAuditLog(bus *EventBus, logger *slog.Logger) {
	for _, eventType := range AuditEventTypes {
		bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
			attrs := []any{
				"event_id", event.EventID(),
				"event_type", event.EventType(),
				"occurred_at", event.OccurredAt(),
			}
			if data, ok := event.Payload().(map[string]interface{}); ok {
				for k, v := range data {
					attrs = append(attrs, k, v)
				}
			}
			logger.InfoContext(ctx, "audit", attrs...)
			return nil
		})
	}
}
