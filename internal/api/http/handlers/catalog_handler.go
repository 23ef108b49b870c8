package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManasMalla/devfest-vizag-2025/internal/api/dto"
	"github.com/ManasMalla/devfest-vizag-2025/internal/auth"
	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/service"
)

// CatalogHandler exposes the agenda and announcements.
type CatalogHandler struct {
	agenda        *service.AgendaService
	announcements *service.AnnouncementService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(agenda *service.AgendaService, announcements *service.AnnouncementService) *CatalogHandler {
	return &CatalogHandler{agenda: agenda, announcements: announcements}
}

// ListAgenda GET /api/agenda.
func (h *CatalogHandler) ListAgenda(c *fiber.Ctx) error {
	items, err := h.agenda.ListItems(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.AgendaItemResponse, 0, len(items))
	for i := range items {
		out = append(out, agendaItemResponse(&items[i]))
	}
	return ok(c, out)
}

// CreateAgendaItem POST /api/agenda.
func (h *CatalogHandler) CreateAgendaItem(c *fiber.Ctx) error {
	return h.saveAgendaItem(c, "")
}

// UpdateAgendaItem PUT /api/agenda/:id.
func (h *CatalogHandler) UpdateAgendaItem(c *fiber.Ctx) error {
	return h.saveAgendaItem(c, c.Params("id"))
}

func (h *CatalogHandler) saveAgendaItem(c *fiber.Ctx, id string) error {
	var input service.AgendaItemInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	item, err := h.agenda.SaveItem(c.UserContext(), auth.IdentityFromContext(c), id, input)
	if err != nil {
		return err
	}
	if id == "" {
		return created(c, agendaItemResponse(item))
	}
	return ok(c, agendaItemResponse(item))
}

// DeleteAgendaItem DELETE /api/agenda/:id.
func (h *CatalogHandler) DeleteAgendaItem(c *fiber.Ctx) error {
	if err := h.agenda.DeleteItem(c.UserContext(), auth.IdentityFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return noContent(c)
}

// ListTracks GET /api/agenda/tracks.
func (h *CatalogHandler) ListTracks(c *fiber.Ctx) error {
	tracks, err := h.agenda.ListTracks(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.TrackResponse, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, dto.TrackResponse{ID: t.ID, Name: t.Name})
	}
	return ok(c, out)
}

// CreateTrack POST /api/agenda/tracks.
func (h *CatalogHandler) CreateTrack(c *fiber.Ctx) error {
	return h.saveTrack(c, "")
}

// UpdateTrack PUT /api/agenda/tracks/:id.
func (h *CatalogHandler) UpdateTrack(c *fiber.Ctx) error {
	return h.saveTrack(c, c.Params("id"))
}

func (h *CatalogHandler) saveTrack(c *fiber.Ctx, id string) error {
	var input service.TrackInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	track, err := h.agenda.SaveTrack(c.UserContext(), auth.IdentityFromContext(c), id, input)
	if err != nil {
		return err
	}
	resp := dto.TrackResponse{ID: track.ID, Name: track.Name}
	if id == "" {
		return created(c, resp)
	}
	return ok(c, resp)
}

// DeleteTrack DELETE /api/agenda/tracks/:id.
func (h *CatalogHandler) DeleteTrack(c *fiber.Ctx) error {
	if err := h.agenda.DeleteTrack(c.UserContext(), auth.IdentityFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return noContent(c)
}

// ListAnnouncements GET /api/announcements.
func (h *CatalogHandler) ListAnnouncements(c *fiber.Ctx) error {
	list, err := h.announcements.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.AnnouncementResponse, 0, len(list))
	for i := range list {
		out = append(out, announcementResponse(&list[i]))
	}
	return ok(c, out)
}

// CreateAnnouncement POST /api/announcements.
func (h *CatalogHandler) CreateAnnouncement(c *fiber.Ctx) error {
	return h.saveAnnouncement(c, "")
}

// UpdateAnnouncement PUT /api/announcements/:id.
func (h *CatalogHandler) UpdateAnnouncement(c *fiber.Ctx) error {
	return h.saveAnnouncement(c, c.Params("id"))
}

func (h *CatalogHandler) saveAnnouncement(c *fiber.Ctx, id string) error {
	var input service.AnnouncementInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	announcement, err := h.announcements.Save(c.UserContext(), auth.IdentityFromContext(c), id, input)
	if err != nil {
		return err
	}
	if id == "" {
		return created(c, announcementResponse(announcement))
	}
	return ok(c, announcementResponse(announcement))
}

// DeleteAnnouncement DELETE /api/announcements/:id.
func (h *CatalogHandler) DeleteAnnouncement(c *fiber.Ctx) error {
	if err := h.announcements.Delete(c.UserContext(), auth.IdentityFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return noContent(c)
}

func agendaItemResponse(item *domain.AgendaItem) dto.AgendaItemResponse {
	return dto.AgendaItemResponse{
		ID:          item.ID,
		Title:       item.Title,
		Speaker:     item.Speaker,
		Description: item.Description,
		TrackID:     item.TrackID,
		TrackName:   item.TrackName,
		StartTime:   item.StartTime,
		EndTime:     item.EndTime,
		Category:    item.Category,
	}
}

func announcementResponse(a *domain.Announcement) dto.AnnouncementResponse {
	return dto.AnnouncementResponse{ID: a.ID, Content: a.Content, CreatedAt: a.CreatedAt}
}
