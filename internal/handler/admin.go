package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/middleware"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/service"
)

type AdminHandler struct {
	authSvc  *service.AuthService
	webhooks *service.DiscordWebhookService
}

func NewAdminHandler(authSvc *service.AuthService, webhooks *service.DiscordWebhookService) *AdminHandler {
	return &AdminHandler{authSvc: authSvc, webhooks: webhooks}
}

// GenerateCode creates a single-use invite code. Admins can mint member
// codes; codes granting admin or creator require the creator role.
// POST /api/v1/admin/codes
func (h *AdminHandler) GenerateCode(c *fiber.Ctx) error {
	var req model.CreateCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Role == "" {
		req.Role = model.RoleMember
	}
	if !model.ValidRole(req.Role) {
		return c.Status(400).JSON(fiber.Map{"error": "rôle invalide"})
	}
	if req.Role != model.RoleMember && middleware.Role(c) != model.RoleCreator {
		return c.Status(403).JSON(fiber.Map{"error": "accès refusé"})
	}

	createdBy := middleware.UserID(c)
	code, err := h.authSvc.GenerateInviteCode(c.Context(), req.Role, &createdBy)
	if err != nil {
		log.Printf("[admin] generate code: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to generate code"})
	}

	return c.JSON(code)
}

// ClubOpen pushes the "club is open" notification to Discord.
// POST /api/v1/admin/club-open
func (h *AdminHandler) ClubOpen(c *fiber.Ctx) error {
	if err := h.webhooks.SendClubOpen(); err != nil {
		log.Printf("[admin] club open webhook: %v", err)
		return c.Status(502).JSON(fiber.Map{"error": "notification discord échouée"})
	}
	return c.JSON(fiber.Map{"success": true})
}
