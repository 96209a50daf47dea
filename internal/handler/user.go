package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/middleware"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/repository"
)

type UserHandler struct {
	userRepo    *repository.UserRepository
	sessionRepo *repository.SessionRepository
}

func NewUserHandler(userRepo *repository.UserRepository, sessionRepo *repository.SessionRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo, sessionRepo: sessionRepo}
}

// Me returns the caller's identity, resolved from the access token.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"user_id":  middleware.UserID(c),
		"username": middleware.Username(c),
		"role":     middleware.Role(c),
	})
}

// List returns every other user, for the private-message recipient picker.
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userRepo.ListExcept(c.Context(), middleware.UserID(c))
	if err != nil {
		log.Printf("[users] list: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to list users"})
	}
	if users == nil {
		users = []model.User{}
	}
	return c.JSON(users)
}

// Delete removes an account. Members may delete themselves; admins and the
// creator may delete anyone. Creator accounts are never deleted here.
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	var req model.DeleteUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.UserID != middleware.UserID(c) && !model.RoleAtLeast(middleware.Role(c), model.RoleAdmin) {
		return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
	}

	if err := h.userRepo.Delete(c.Context(), req.UserID); err != nil {
		log.Printf("[users] delete %d: %v", req.UserID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete user"})
	}
	_ = h.sessionRepo.RevokeAllForUser(c.Context(), req.UserID)

	return c.JSON(fiber.Map{"success": true})
}

// ChangePassword sets a new password for an account, same authorization
// rules as Delete.
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var req model.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.UserID != middleware.UserID(c) && !model.RoleAtLeast(middleware.Role(c), model.RoleAdmin) {
		return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
	}
	if len(req.NewPassword) < 6 {
		return c.Status(400).JSON(fiber.Map{"error": "le mot de passe doit comporter au moins 6 caractères"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "internal server error"})
	}

	if err := h.userRepo.UpdatePassword(c.Context(), req.UserID, string(hash)); err != nil {
		log.Printf("[users] change password %d: %v", req.UserID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to change password"})
	}
	_ = h.sessionRepo.RevokeAllForUser(c.Context(), req.UserID)

	return c.JSON(fiber.Map{"success": true})
}
