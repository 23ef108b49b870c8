package service

import (
	"context"

	"github.com/ManasMalla/devfest-vizag-2025/internal/auth"
	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/events"
	"github.com/ManasMalla/devfest-vizag-2025/pkg/util/errorutil"
)

// Authorizer resolves the caller's role for each operation and applies the
// policy table. Roles are looked up on every call.
type Authorizer struct {
	gate *auth.Gate
}

// NewAuthorizer wraps gate.
func NewAuthorizer(gate *auth.Gate) *Authorizer {
	return &Authorizer{gate: gate}
}

// Actor returns the resolved caller, or an authentication error when anonymous.
func (a *Authorizer) Actor(ctx context.Context, identity *domain.Identity) (auth.Actor, error) {
	if identity == nil || identity.UID == "" {
		return auth.Actor{}, errorutil.NewUnauthenticated("You must be signed in.")
	}
	return a.gate.ResolveRole(ctx, *identity)
}

// Require resolves the caller and checks req against the policy.
func (a *Authorizer) Require(ctx context.Context, identity *domain.Identity, req auth.Request) (auth.Actor, error) {
	actor, err := a.Actor(ctx, identity)
	if err != nil {
		return auth.Actor{}, err
	}
	req.Actor = actor
	if !auth.Authorize(req) {
		return actor, errorutil.NewForbidden("")
	}
	return actor, nil
}

// RequireAdmin is Require for catalog management.
func (a *Authorizer) RequireAdmin(ctx context.Context, identity *domain.Identity) (auth.Actor, error) {
	return a.Require(ctx, identity, auth.Request{Action: auth.ActionManageCatalog})
}

func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	_ = dispatcher.Publish(ctx, event)
}
