package dto

import "time"

// AgendaItemResponse view.
type AgendaItemResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Speaker     string `json:"speaker,omitempty"`
	Description string `json:"description,omitempty"`
	TrackID     string `json:"trackId"`
	TrackName   string `json:"trackName"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Category    string `json:"category,omitempty"`
}

// TrackResponse view.
type TrackResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AnnouncementResponse view.
type AnnouncementResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubscriptionResponse acknowledges a subscription.
type SubscriptionResponse struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	SubscribedAt time.Time `json:"subscribedAt"`
}
