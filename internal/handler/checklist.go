package handler

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/middleware"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/repository"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/service"
)

type ChecklistHandler struct {
	listRepo *repository.ChecklistRepository
	hub      service.Broadcaster
}

func NewChecklistHandler(listRepo *repository.ChecklistRepository, hub service.Broadcaster) *ChecklistHandler {
	return &ChecklistHandler{listRepo: listRepo, hub: hub}
}

// notifyUpdated tells public-room listeners to refetch checklists.
func (h *ChecklistHandler) notifyUpdated() {
	h.hub.Publish(service.RoomPublic, model.EventChecklistUpdated, nil)
}

// Create adds a checklist.
// POST /api/v1/checklists
func (h *ChecklistHandler) Create(c *fiber.Ctx) error {
	var req model.ChecklistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}

	list, err := h.listRepo.Create(c.Context(), req.Name, req.Description, middleware.UserID(c))
	if err != nil {
		log.Printf("[checklists] create: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create checklist"})
	}

	h.notifyUpdated()
	return c.JSON(list)
}

// List returns every checklist with items nested.
// GET /api/v1/checklists
func (h *ChecklistHandler) List(c *fiber.Ctx) error {
	lists, err := h.listRepo.List(c.Context())
	if err != nil {
		log.Printf("[checklists] list: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to list checklists"})
	}
	if lists == nil {
		lists = []model.Checklist{}
	}
	return c.JSON(lists)
}

// AddItem appends an item (optionally nested under a parent item).
// POST /api/v1/checklists/:id/items
func (h *ChecklistHandler) AddItem(c *fiber.Ctx) error {
	listID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid checklist id"})
	}

	var req model.ChecklistItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Text == "" {
		return c.Status(400).JSON(fiber.Map{"error": "text is required"})
	}

	item, err := h.listRepo.AddItem(c.Context(), listID, req.Text, req.ParentID)
	if err != nil {
		log.Printf("[checklists] add item to %d: %v", listID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to add item"})
	}

	h.notifyUpdated()
	return c.JSON(item)
}

// ToggleItem flips an item's checked state.
// POST /api/v1/checklists/items/:id/toggle
func (h *ChecklistHandler) ToggleItem(c *fiber.Ctx) error {
	itemID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid item id"})
	}

	checked, err := h.listRepo.ToggleItem(c.Context(), itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "not found"})
		}
		log.Printf("[checklists] toggle item %d: %v", itemID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to toggle item"})
	}

	h.notifyUpdated()
	return c.JSON(fiber.Map{"success": true, "checked": checked})
}

// Delete removes a checklist. Allowed for its owner and for admin+.
// DELETE /api/v1/checklists/:id
func (h *ChecklistHandler) Delete(c *fiber.Ctx) error {
	listID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid checklist id"})
	}

	list, err := h.listRepo.Get(c.Context(), listID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load checklist"})
	}

	isOwner := list.CreatedBy != nil && *list.CreatedBy == middleware.UserID(c)
	if !isOwner && !model.RoleAtLeast(middleware.Role(c), model.RoleAdmin) {
		return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
	}

	if err := h.listRepo.Delete(c.Context(), listID); err != nil {
		log.Printf("[checklists] delete %d: %v", listID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete checklist"})
	}

	h.notifyUpdated()
	return c.JSON(fiber.Map{"success": true})
}
