package notifier

import "errors"

var (
	// ErrEncode событие не удалось сериализовать
	ErrEncode = errors.New("notifier: failed to encode event")

	// ErrPublish брокер не принял сообщение
	ErrPublish = errors.New("notifier: failed to publish event")
)
