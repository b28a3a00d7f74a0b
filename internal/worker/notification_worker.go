package worker

import (
	"go.uber.org/zap"

	"github.com/facilityhub/helpdesk/internal/service"
)

// StartNotificationWorker subscribes the notification service to the ticket
// and material request event streams. Delivery is synchronous in-process;
// this is the single place to swap in a queue-backed worker later.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		logger.Warn("notification service not configured; events will not be delivered")
		return
	}
	notificationService.RegisterHandlers()
	logger.Info("notification handlers registered")
}
