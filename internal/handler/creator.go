package handler

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/middleware"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/repository"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/service"
)

// CreatorHandler serves the creator-only maintenance surface.
type CreatorHandler struct {
	userRepo      *repository.UserRepository
	chatRepo      *repository.ChatRepository
	annRepo       *repository.AnnouncementRepository
	checklistRepo *repository.ChecklistRepository
	sessionRepo   *repository.SessionRepository
	chatSvc       *service.ChatService
	hub           *service.Hub
}

func NewCreatorHandler(
	userRepo *repository.UserRepository,
	chatRepo *repository.ChatRepository,
	annRepo *repository.AnnouncementRepository,
	checklistRepo *repository.ChecklistRepository,
	sessionRepo *repository.SessionRepository,
	chatSvc *service.ChatService,
	hub *service.Hub,
) *CreatorHandler {
	return &CreatorHandler{
		userRepo:      userRepo,
		chatRepo:      chatRepo,
		annRepo:       annRepo,
		checklistRepo: checklistRepo,
		sessionRepo:   sessionRepo,
		chatSvc:       chatSvc,
		hub:           hub,
	}
}

// Stats reports high-level community numbers.
// GET /api/v1/creator/stats
func (h *CreatorHandler) Stats(c *fiber.Ctx) error {
	totalUsers, _ := h.userRepo.CountTotal(c.Context())
	totalMessages, _ := h.chatRepo.CountTotal(c.Context())
	totalAnnouncements, _ := h.annRepo.CountTotal(c.Context())
	totalChecklists, _ := h.checklistRepo.CountTotal(c.Context())

	return c.JSON(fiber.Map{
		"users_total":         totalUsers,
		"users_online":        h.hub.OnlineCount(),
		"messages_total":      totalMessages,
		"announcements_total": totalAnnouncements,
		"checklists_total":    totalChecklists,
	})
}

// Users lists every account, including the caller.
// GET /api/v1/creator/users
func (h *CreatorHandler) Users(c *fiber.Ctx) error {
	users, err := h.userRepo.List(c.Context())
	if err != nil {
		log.Printf("[creator] list users: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to list users"})
	}
	return c.JSON(users)
}

// DeleteUser removes an account and revokes its sessions. The creator
// account itself cannot be deleted.
// DELETE /api/v1/creator/users/:id
func (h *CreatorHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid user id"})
	}
	if id == middleware.UserID(c) {
		return c.Status(400).JSON(fiber.Map{"error": "impossible de supprimer votre propre compte ici"})
	}

	if err := h.userRepo.Delete(c.Context(), id); err != nil {
		log.Printf("[creator] delete user %d: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete user"})
	}
	if err := h.sessionRepo.RevokeAllForUser(c.Context(), id); err != nil {
		log.Printf("[creator] revoke sessions for %d: %v", id, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// ClearChat wipes the public chat history.
// POST /api/v1/creator/clear-chat
func (h *CreatorHandler) ClearChat(c *fiber.Ctx) error {
	deleted, err := h.chatSvc.Clear(c.Context(), service.RoomPublic)
	if err != nil {
		log.Printf("[creator] clear chat: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to clear chat"})
	}
	return c.JSON(fiber.Map{"success": true, "deleted": deleted})
}

// ClearAnnouncements deletes every announcement and tells connected
// clients to refresh their list.
// POST /api/v1/creator/clear-announcements
func (h *CreatorHandler) ClearAnnouncements(c *fiber.Ctx) error {
	if err := h.annRepo.Clear(c.Context()); err != nil {
		log.Printf("[creator] clear announcements: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to clear announcements"})
	}
	h.hub.Publish(service.RoomPublic, model.EventAnnouncementsCleared, nil)
	return c.JSON(fiber.Map{"success": true})
}
