package handler

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/middleware"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/repository"
)

type ProfileHandler struct {
	profileRepo *repository.ProfileRepository
	userRepo    *repository.UserRepository
	chatRepo    *repository.ChatRepository
}

func NewProfileHandler(profileRepo *repository.ProfileRepository, userRepo *repository.UserRepository, chatRepo *repository.ChatRepository) *ProfileHandler {
	return &ProfileHandler{profileRepo: profileRepo, userRepo: userRepo, chatRepo: chatRepo}
}

// Me returns the caller's profile, creating a default one on first access.
// GET /api/v1/profile
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	profile, err := h.profileRepo.Get(c.Context(), userID)
	if errors.Is(err, repository.ErrNotFound) {
		profile, err = h.profileRepo.CreateDefault(c.Context(), userID, middleware.Username(c), time.Now().UnixMilli())
	}
	if err != nil {
		log.Printf("[profile] get %d: %v", userID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to load profile"})
	}

	if count, err := h.chatRepo.CountByUser(c.Context(), userID); err == nil {
		profile.MessageCount = count
	}

	return c.JSON(profile)
}

// Update upserts the caller's profile.
// POST /api/v1/profile
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var req model.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.DisplayName == "" {
		req.DisplayName = middleware.Username(c)
	}

	if err := h.profileRepo.Upsert(c.Context(), middleware.UserID(c), &req, time.Now().UnixMilli()); err != nil {
		log.Printf("[profile] update %d: %v", middleware.UserID(c), err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to save profile"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// Get returns another user's profile if it is public. Message count is only
// included when the owner opted into stats.
// GET /api/v1/profile/:userID
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("userID"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid user id"})
	}

	profile, err := h.profileRepo.Get(c.Context(), userID)
	if err != nil || !profile.IsPublic {
		return c.Status(404).JSON(fiber.Map{"error": "profile not found or private"})
	}

	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "profile not found or private"})
	}
	profile.Username = user.Username
	profile.Role = user.Role

	if profile.ShowStats {
		if count, err := h.chatRepo.CountByUser(c.Context(), userID); err == nil {
			profile.MessageCount = count
		}
	}

	return c.JSON(profile)
}
