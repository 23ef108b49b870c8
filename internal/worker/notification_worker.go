package worker

import (
	"github.com/ManasMalla/devfest-vizag-2025/internal/cache"
	"github.com/ManasMalla/devfest-vizag-2025/internal/events"
	"github.com/ManasMalla/devfest-vizag-2025/internal/service"
)

// StartEventSubscribers registers the push notifier and the page revalidator
// on dispatcher. Nil subscribers are skipped.
func StartEventSubscribers(dispatcher events.Dispatcher, notificationService *service.NotificationService, revalidator *cache.Revalidator) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if revalidator != nil {
		revalidator.RegisterHandlers(dispatcher)
	}
}
