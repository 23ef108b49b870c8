package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ManasMalla/devfest-vizag-2025/internal/config"
)

func TestPushSenderPostsTopicMessage(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody topicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	sender := NewSender(config.NotificationConfig{PushEndpoint: server.URL, PushAPIKey: "key", TimeoutSeconds: 2}, zap.NewNop())
	err := sender.SendToTopic(context.Background(), "announcements", Message{Title: "New Announcement!", Body: "Doors open at 9", Link: "/"})
	require.NoError(t, err)

	assert.Equal(t, "/topics/announcements/messages", gotPath)
	assert.Equal(t, "Bearer key", gotAuth)
	assert.Equal(t, "announcements", gotBody.Topic)
	assert.Equal(t, "Doors open at 9", gotBody.Message.Body)
}

func TestPushSenderReportsGatewayErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	sender := NewSender(config.NotificationConfig{PushEndpoint: server.URL, TimeoutSeconds: 2}, zap.NewNop())
	err := sender.SendToTopic(context.Background(), "announcements", Message{Title: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestNewSenderWithoutEndpointIsNoop(t *testing.T) {
	sender := NewSender(config.NotificationConfig{}, zap.NewNop())
	assert.NoError(t, sender.SendToTopic(context.Background(), "announcements", Message{Title: "t"}))
}
