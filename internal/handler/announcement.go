package handler

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/middleware"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/repository"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/service"
)

type AnnouncementHandler struct {
	annRepo  *repository.AnnouncementRepository
	hub      service.Broadcaster
	webhooks *service.DiscordWebhookService
}

func NewAnnouncementHandler(annRepo *repository.AnnouncementRepository, hub service.Broadcaster, webhooks *service.DiscordWebhookService) *AnnouncementHandler {
	return &AnnouncementHandler{annRepo: annRepo, hub: hub, webhooks: webhooks}
}

// List returns every announcement, newest first.
// GET /api/v1/announcements
func (h *AnnouncementHandler) List(c *fiber.Ctx) error {
	anns, err := h.annRepo.List(c.Context())
	if err != nil {
		log.Printf("[announcements] list: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to list announcements"})
	}
	if anns == nil {
		anns = []model.Announcement{}
	}
	return c.JSON(anns)
}

// Create persists an announcement, broadcasts the saved row to the public
// room and mirrors it to Discord.
// POST /api/v1/admin/announcements
func (h *AnnouncementHandler) Create(c *fiber.Ctx) error {
	var req model.AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Title == "" || req.Content == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title and content are required"})
	}

	saved, err := h.annRepo.Insert(c.Context(), req.Title, req.Content, middleware.UserID(c), time.Now().UnixMilli())
	if err != nil {
		log.Printf("[announcements] create: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create announcement"})
	}

	h.hub.Publish(service.RoomPublic, model.EventAnnouncement, saved)
	h.webhooks.SendAnnouncement(saved.Title, saved.Content)

	return c.JSON(fiber.Map{"success": true, "announcement": saved})
}
