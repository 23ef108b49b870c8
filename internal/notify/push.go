// Package notify delivers push broadcasts to topic subscribers.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/ManasMalla/devfest-vizag-2025/internal/config"
)

// Message is a push notification.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Link  string `json:"link,omitempty"`
}

// Sender broadcasts a message to every device subscribed to a topic.
type Sender interface {
	SendToTopic(ctx context.Context, topic string, msg Message) error
}

type topicRequest struct {
	Topic   string  `json:"topic"`
	Message Message `json:"notification"`
}

// PushSender posts topic broadcasts to an HTTP push gateway.
type PushSender struct {
	client *resty.Client
}

// NewSender returns a PushSender, or a logging no-op sender when no endpoint is configured.
func NewSender(cfg config.NotificationConfig, logger *zap.Logger) Sender {
	if strings.TrimSpace(cfg.PushEndpoint) == "" {
		return &logSender{logger: logger}
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.PushEndpoint, "/")).
		SetTimeout(cfg.Timeout()).
		SetHeader("Content-Type", "application/json")
	if cfg.PushAPIKey != "" {
		client.SetAuthToken(cfg.PushAPIKey)
	}
	return &PushSender{client: client}
}

// SendToTopic posts the broadcast. Non-2xx responses are errors.
func (s *PushSender) SendToTopic(ctx context.Context, topic string, msg Message) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(topicRequest{Topic: topic, Message: msg}).
		Post("/topics/" + topic + "/messages")
	if err != nil {
		return fmt.Errorf("push to topic %s: %w", topic, err)
	}
	if resp.IsError() {
		return fmt.Errorf("push to topic %s: status %d: %s", topic, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}

type logSender struct {
	logger *zap.Logger
}

func (s *logSender) SendToTopic(_ context.Context, topic string, msg Message) error {
	s.logger.Debug("push endpoint not configured; dropping broadcast",
		zap.String("topic", topic),
		zap.String("title", msg.Title))
	return nil
}
