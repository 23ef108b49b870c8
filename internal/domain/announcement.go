package domain

import "time"

// Announcement is a markdown notice shown on the site.
type Announcement struct {
	ID        string
	Content   string
	CreatedAt time.Time
}

// SubscriptionKind distinguishes newsletter emails from push device tokens.
type SubscriptionKind string

const (
	SubscriptionKindEmail  SubscriptionKind = "email"
	SubscriptionKindDevice SubscriptionKind = "device"
)

// Subscription records a newsletter email or a push device token.
type Subscription struct {
	ID           string
	Kind         SubscriptionKind
	Value        string
	SubscribedAt time.Time
}
