package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ManasMalla/devfest-vizag-2025/internal/config"
	"github.com/ManasMalla/devfest-vizag-2025/internal/events"
	"github.com/ManasMalla/devfest-vizag-2025/internal/notify"
	"github.com/ManasMalla/devfest-vizag-2025/pkg/util/errorutil"
)

const pushBodyLimit = 140

// errPushQueueFull is reported when the background runner refuses a broadcast.
var errPushQueueFull = errors.New("push queue full")

// BackgroundRunner executes work outside the publishing request.
type BackgroundRunner interface {
	Submit(name string, run func(context.Context) error) bool
}

// NotificationService turns domain events into push broadcasts.
type NotificationService struct {
	dispatcher events.Dispatcher
	sender     notify.Sender
	runner     BackgroundRunner
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NotificationDependencies bundles collaborators for NotificationService.
// Without a Runner broadcasts are sent inline.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	Sender     notify.Sender
	Runner     BackgroundRunner
	Logger     *zap.Logger
	Config     config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		sender:     deps.Sender,
		runner:     deps.Runner,
		logger:     deps.Logger,
		cfg:        deps.Config,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil || n.sender == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAnnouncementCreated, n.handleAnnouncementCreated)
}

// handleAnnouncementCreated broadcasts a new announcement on the background
// runner. Failures are logged as integration errors and never reach the
// creating request.
func (n *NotificationService) handleAnnouncementCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AnnouncementCreatedPayload)
	if !ok {
		return nil
	}
	msg := notify.Message{
		Title: "New announcement",
		Body:  pushBody(payload.Content),
		Link:  strings.TrimRight(n.cfg.SiteURL, "/") + "/",
	}
	send := func(ctx context.Context) error {
		if err := n.sender.SendToTopic(ctx, n.cfg.PushTopic, msg); err != nil {
			return errorutil.NewIntegrationError(err)
		}
		n.logger.Info("announcement broadcast sent", zap.String("announcement_id", event.ResourceID), zap.String("topic", n.cfg.PushTopic))
		return nil
	}
	if n.runner == nil {
		return send(ctx)
	}
	if !n.runner.Submit("announcement-push:"+event.ResourceID, send) {
		return errorutil.NewIntegrationError(errPushQueueFull)
	}
	return nil
}

// pushBody strips markdown markers and truncates to a notification-sized line.
func pushBody(content string) string {
	replacer := strings.NewReplacer("#", "", "*", "", "_", "", "`", "", ">", "")
	body := strings.Join(strings.Fields(replacer.Replace(content)), " ")
	if utf8.RuneCountInString(body) <= pushBodyLimit {
		return body
	}
	runes := []rune(body)
	return strings.TrimSpace(string(runes[:pushBodyLimit-1])) + "…"
}
