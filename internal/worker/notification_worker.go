package worker

import (
	"github.com/spec-kit/glpi-gateway/internal/service"
)

// StartNotificationWorker subscribes the notification service to the ticket
// pipeline events. Called once during startup, before the HTTP server begins
// accepting requests, so no event can be published without a listener.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
