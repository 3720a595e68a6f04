package eventbus

import (
	"context"
	"errors"
)

var globalBus EventBus

// Init устанавливает глобальную шину событий процесса.
func Init(bus EventBus) { globalBus = bus }

// Publish публикует событие через глобальную шину.
func Publish(ctx context.Context, ev *Envelope) error {
	if globalBus == nil {
		return errors.New("eventbus: глобальная шина не инициализирована")
	}
	return globalBus.Publish(ctx, ev)
}
