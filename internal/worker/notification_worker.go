package worker

import (
	"github.com/spec-kit/hostel-complaint-service/internal/service"
)

// NotificationWorker hooks the notification service into the complaint
// event stream. With a synchronous dispatcher there is no goroutine to
// run; starting the worker means subscribing the handlers.
type NotificationWorker struct {
	notifications *service.NotificationService
}

// NewNotificationWorker constructs the worker.
func NewNotificationWorker(notifications *service.NotificationService) *NotificationWorker {
	return &NotificationWorker{notifications: notifications}
}

// Start subscribes the notification handlers to complaint and feedback
// events. Safe to call with a nil service.
func (w *NotificationWorker) Start() {
	if w.notifications == nil {
		return
	}
	w.notifications.RegisterHandlers()
}
