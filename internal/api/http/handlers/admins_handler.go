package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManasMalla/devfest-vizag-2025/internal/api/dto"
	"github.com/ManasMalla/devfest-vizag-2025/internal/auth"
	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/service"
)

// AdminsHandler manages the admins set and public subscriptions.
type AdminsHandler struct {
	admins        *service.AdminService
	subscriptions *service.SubscriptionService
}

// NewAdminsHandler constructs handler.
func NewAdminsHandler(admins *service.AdminService, subscriptions *service.SubscriptionService) *AdminsHandler {
	return &AdminsHandler{admins: admins, subscriptions: subscriptions}
}

// List GET /api/admins.
func (h *AdminsHandler) List(c *fiber.Ctx) error {
	admins, err := h.admins.ListAdmins(c.UserContext(), auth.IdentityFromContext(c))
	if err != nil {
		return err
	}
	if admins == nil {
		admins = []domain.Admin{}
	}
	return ok(c, admins)
}

// Add POST /api/admins.
func (h *AdminsHandler) Add(c *fiber.Ctx) error {
	var input service.AddAdminInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	admin, err := h.admins.AddAdmin(c.UserContext(), auth.IdentityFromContext(c), input)
	if err != nil {
		return err
	}
	return created(c, admin)
}

// Remove DELETE /api/admins/:uid.
func (h *AdminsHandler) Remove(c *fiber.Ctx) error {
	if err := h.admins.RemoveAdmin(c.UserContext(), auth.IdentityFromContext(c), c.Params("uid")); err != nil {
		return err
	}
	return noContent(c)
}

// Subscribe POST /api/subscriptions.
func (h *AdminsHandler) Subscribe(c *fiber.Ctx) error {
	var input service.SubscribeInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	sub, err := h.subscriptions.Subscribe(c.UserContext(), input)
	if err != nil {
		return err
	}
	return created(c, subscriptionResponse(sub))
}

// RegisterDevice POST /api/subscriptions/devices.
func (h *AdminsHandler) RegisterDevice(c *fiber.Ctx) error {
	var input service.RegisterDeviceInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	sub, err := h.subscriptions.RegisterDevice(c.UserContext(), input)
	if err != nil {
		return err
	}
	return created(c, subscriptionResponse(sub))
}

func subscriptionResponse(sub *domain.Subscription) dto.SubscriptionResponse {
	return dto.SubscriptionResponse{ID: sub.ID, Kind: string(sub.Kind), SubscribedAt: sub.SubscribedAt}
}
