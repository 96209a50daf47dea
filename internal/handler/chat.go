package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/middleware"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/service"
)

type ChatHandler struct {
	chatSvc *service.ChatService
}

func NewChatHandler(chatSvc *service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

// PurgeChat deletes chat history past the retention horizon and tells
// connected listeners to refetch. Same operation the hourly sweeper runs,
// triggered on demand by an admin.
// POST /api/v1/admin/purge-chat
func (h *ChatHandler) PurgeChat(c *fiber.Ctx) error {
	deleted, err := h.chatSvc.Purge(c.Context())
	if err != nil {
		log.Printf("[chat] manual purge: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to purge chat"})
	}
	return c.JSON(fiber.Map{"success": true, "deleted": deleted})
}

// History returns a room's init snapshot over REST, for clients that poll
// instead of holding a socket.
// GET /api/v1/chat/:room/history
func (h *ChatHandler) History(c *fiber.Ctx) error {
	room := c.Params("room")
	if room != service.RoomPublic && room != service.RoomAdmin {
		return c.Status(404).JSON(fiber.Map{"error": "unknown room"})
	}
	if room == service.RoomAdmin && !model.RoleAtLeast(middleware.Role(c), model.RoleAdmin) {
		return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
	}

	msgs, err := h.chatSvc.History(c.Context(), room)
	if err != nil {
		log.Printf("[chat] history %s: %v", room, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to get history"})
	}
	return c.JSON(fiber.Map{"messages": msgs})
}
