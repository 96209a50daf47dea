package handler

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/middleware"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/repository"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/service"
)

const systemMessageListLimit = 50

type SystemMessageHandler struct {
	sysRepo *repository.SystemMessageRepository
	hub     service.Broadcaster
}

func NewSystemMessageHandler(sysRepo *repository.SystemMessageRepository, hub service.Broadcaster) *SystemMessageHandler {
	return &SystemMessageHandler{sysRepo: sysRepo, hub: hub}
}

// List returns broadcast system messages plus private ones targeting the
// caller, newest first. Dismissal state lives client-side; the server keeps
// no per-user read state for these.
// GET /api/v1/system-messages
func (h *SystemMessageHandler) List(c *fiber.Ctx) error {
	msgs, err := h.sysRepo.ListForUser(c.Context(), middleware.UserID(c), systemMessageListLimit)
	if err != nil {
		log.Printf("[system] list: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to list system messages"})
	}
	if msgs == nil {
		msgs = []model.SystemMessage{}
	}
	return c.JSON(msgs)
}

// Create persists a system message. Broadcast ones are pushed immediately to
// the public and admin rooms; private ones wait for the target's next fetch.
// POST /api/v1/creator/system-message
func (h *SystemMessageHandler) Create(c *fiber.Ctx) error {
	var req model.SystemMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "message is required"})
	}

	var title *string
	if req.Title != "" {
		title = &req.Title
	}
	target := req.TargetUser
	if !req.IsPrivate {
		target = nil
	}

	saved, err := h.sysRepo.Insert(c.Context(), title, req.Message, middleware.UserID(c), req.IsPrivate, target, time.Now().UnixMilli())
	if err != nil {
		log.Printf("[system] create: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create system message"})
	}

	if !saved.IsPrivate {
		h.hub.Publish(service.RoomPublic, model.EventSystemMessage, saved)
		h.hub.Publish(service.RoomAdmin, model.EventSystemMessage, saved)
	}

	return c.JSON(fiber.Map{"success": true})
}
