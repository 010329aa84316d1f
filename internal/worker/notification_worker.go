package worker

import (
	"github.com/spec-kit/student-portal/internal/events"
	"github.com/spec-kit/student-portal/internal/service"
)

// StartNotificationWorker registers notification and roster cache handlers.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService, rosterService *service.RosterService) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if rosterService != nil {
		rosterService.RegisterHandlers(dispatcher)
	}
}
