package handler

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/middleware"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/repository"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/service"
)

// maxPrivateMessageLen caps private message text; longer input is truncated.
const maxPrivateMessageLen = 500

type PrivateMessageHandler struct {
	pmRepo *repository.PrivateMessageRepository
	hub    service.Broadcaster
}

func NewPrivateMessageHandler(pmRepo *repository.PrivateMessageRepository, hub service.Broadcaster) *PrivateMessageHandler {
	return &PrivateMessageHandler{pmRepo: pmRepo, hub: hub}
}

// Conversation returns all messages between the caller and :userID, oldest
// first, and marks the caller's received messages read (read-on-fetch).
// GET /api/v1/messages/:userID
func (h *PrivateMessageHandler) Conversation(c *fiber.Ctx) error {
	otherID, err := strconv.ParseInt(c.Params("userID"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid user id"})
	}
	userID := middleware.UserID(c)

	msgs, err := h.pmRepo.Conversation(c.Context(), userID, otherID)
	if err != nil {
		log.Printf("[pm] conversation %d<->%d: %v", userID, otherID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to load messages"})
	}
	if msgs == nil {
		msgs = []model.PrivateMessage{}
	}

	if err := h.pmRepo.MarkRead(c.Context(), userID, otherID); err != nil {
		log.Printf("[pm] mark read %d<-%d: %v", userID, otherID, err)
	}

	return c.JSON(msgs)
}

// Send stores a private message and pushes it to the messages room.
// POST /api/v1/messages/:userID
func (h *PrivateMessageHandler) Send(c *fiber.Ctx) error {
	receiverID, err := strconv.ParseInt(c.Params("userID"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid user id"})
	}

	var req model.PrivateMessageSendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return c.Status(400).JSON(fiber.Map{"error": "message cannot be empty"})
	}
	if runes := []rune(text); len(runes) > maxPrivateMessageLen {
		text = string(runes[:maxPrivateMessageLen])
	}

	saved, err := h.pmRepo.Insert(c.Context(), middleware.UserID(c), receiverID, text, time.Now().UnixMilli())
	if err != nil {
		log.Printf("[pm] send %d->%d: %v", middleware.UserID(c), receiverID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to send message"})
	}

	h.hub.Publish(service.RoomMessages, model.EventNewPrivateMessage, saved)

	return c.JSON(saved)
}
