package notifier

import (
	"context"
	"time"
)

// LogDispatcher пишет события в лог, когда брокер не настроен
type LogDispatcher struct {
	log Logger
}

// NewLogDispatcher создает диспетчер в лог
func NewLogDispatcher(log Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) Dispatch(_ context.Context, event Event) error {
	d.log.Info("notifier: %s appointment_id=%d staff_id=%d client_id=%d scheduled_for=%s",
		event.Type, event.AppointmentID, event.StaffID, event.ClientID, event.ScheduledFor.Format(time.RFC3339))
	return nil
}

func (d *LogDispatcher) Close() error {
	return nil
}
