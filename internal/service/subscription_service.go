package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/events"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
	"github.com/ManasMalla/devfest-vizag-2025/pkg/util/errorutil"
)

// SubscriptionService stores newsletter emails and push device tokens.
type SubscriptionService struct {
	subscriptions repository.SubscriptionRepository
	dispatcher    events.Dispatcher
}

// SubscribeInput is the newsletter form.
type SubscribeInput struct {
	Email string `json:"email" validate:"required,email"`
}

// RegisterDeviceInput carries a push token.
type RegisterDeviceInput struct {
	Token string `json:"token" validate:"required,min=10,max=4096"`
}

// NewSubscriptionService constructs the service.
func NewSubscriptionService(subscriptions repository.SubscriptionRepository, dispatcher events.Dispatcher) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions, dispatcher: dispatcher}
}

// Subscribe adds an email to the newsletter list.
func (s *SubscriptionService) Subscribe(ctx context.Context, input SubscribeInput) (*domain.Subscription, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return s.store(ctx, domain.SubscriptionKindEmail, input.Email, "This email is already subscribed.")
}

// RegisterDevice records a device token for topic pushes.
func (s *SubscriptionService) RegisterDevice(ctx context.Context, input RegisterDeviceInput) (*domain.Subscription, error) {
	input.Token = strings.TrimSpace(input.Token)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return s.store(ctx, domain.SubscriptionKindDevice, input.Token, "This device is already registered.")
}

func (s *SubscriptionService) store(ctx context.Context, kind domain.SubscriptionKind, value, duplicateMsg string) (*domain.Subscription, error) {
	if _, err := s.subscriptions.FindByValue(ctx, kind, value); err == nil {
		return nil, errorutil.NewConflict(duplicateMsg, nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	sub := &domain.Subscription{Kind: kind, Value: value}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errorutil.NewConflict(duplicateMsg, nil)
		}
		return nil, err
	}
	publish(ctx, s.dispatcher, events.New(events.EventSubscriptionAdded, sub.ID, "", nil))
	return sub, nil
}
