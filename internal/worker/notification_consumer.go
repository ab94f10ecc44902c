package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/logger"
	"go-recruitment-crm/pkg/mq"
)

// Bindings are the routing keys the notification queue subscribes to.
var Bindings = []string{
	domain.EventApplicationStageChanged,
	domain.EventMessageSent,
}

type NotificationConsumer struct {
	notificationUC domain.NotificationUsecase
}

func NewNotificationConsumer(notificationUC domain.NotificationUsecase) *NotificationConsumer {
	return &NotificationConsumer{notificationUC: notificationUC}
}

// Handle decodes one event and routes it by key. Undecodable payloads are
// permanent failures; unknown keys are acked and ignored.
func (w *NotificationConsumer) Handle(ctx context.Context, routingKey string, body []byte) error {
	switch routingKey {
	case domain.EventApplicationStageChanged:
		var ev domain.StageChangedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return &mq.PermanentError{Err: fmt.Errorf("decode %s: %w", routingKey, err)}
		}
		return w.notificationUC.HandleStageChanged(ctx, ev)

	case domain.EventMessageSent:
		var ev domain.MessageSentEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return &mq.PermanentError{Err: fmt.Errorf("decode %s: %w", routingKey, err)}
		}
		return w.notificationUC.HandleMessageSent(ctx, ev)

	default:
		logger.Log.Debug("ignoring event", "routing_key", routingKey)
		return nil
	}
}

// HandlerFunc adapts Handle to mq.Consumer.Run.
func (w *NotificationConsumer) HandlerFunc() mq.HandlerFunc {
	return w.Handle
}
