package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/config"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/database"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/discord"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/handler"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/middleware"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/repository"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/service"
)

func main() {
	cfg := config.Load()

	// Database
	db, err := database.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations applied successfully")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	codeRepo := repository.NewCodeRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	chatRepo := repository.NewChatRepository(db)
	pmRepo := repository.NewPrivateMessageRepository(db)
	annRepo := repository.NewAnnouncementRepository(db)
	sysRepo := repository.NewSystemMessageRepository(db)
	checklistRepo := repository.NewChecklistRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Services
	hub := service.NewHub()
	authSvc := service.NewAuthService(userRepo, codeRepo, sessionRepo, cfg.JWTSecret)
	chatSvc := service.NewChatService(chatRepo, hub)
	webhooks := service.NewDiscordWebhookService(cfg.DiscordWebhookURL)
	sweeper := service.NewSweeper(chatSvc, sessionRepo)

	if err := authSvc.BootstrapCreatorCode(context.Background()); err != nil {
		log.Printf("[auth] bootstrap creator code: %v", err)
	}

	// Discord bot (optional)
	bot, err := discord.NewBot(cfg.DiscordBotToken, cfg.DiscordChannelID, userRepo, chatRepo, annRepo, hub)
	if err != nil {
		log.Printf("[discord-bot] init failed: %v", err)
	}
	if err := bot.Start(); err != nil {
		log.Printf("[discord-bot] start failed: %v", err)
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           30 * time.Second,
		BodyLimit:             1 * 1024 * 1024, // 1MB
		DisableStartupMessage: cfg.IsProduction(),
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// Health
	healthH := handler.NewHealthHandler(db)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)

	// API v1
	v1 := app.Group("/api/v1")

	// Auth (public)
	authH := handler.NewAuthHandler(authSvc)
	auth := v1.Group("/auth")
	auth.Post("/register", middleware.RateLimit(5, time.Minute), authH.Register)
	auth.Post("/login", middleware.RateLimit(10, time.Minute), authH.Login)
	auth.Post("/refresh", middleware.RateLimit(20, time.Minute), authH.Refresh)
	auth.Post("/logout", authH.Logout)

	// JWT-protected routes
	protected := v1.Group("", middleware.Auth(cfg.JWTSecret))

	userH := handler.NewUserHandler(userRepo, sessionRepo)
	protected.Get("/me", userH.Me)
	protected.Get("/users", userH.List)
	protected.Post("/users/delete", userH.Delete)
	protected.Post("/users/change-password", userH.ChangePassword)

	chatH := handler.NewChatHandler(chatSvc)
	protected.Get("/chat/:room/history", chatH.History)

	pmH := handler.NewPrivateMessageHandler(pmRepo, hub)
	protected.Get("/messages/:userID", pmH.Conversation)
	protected.Post("/messages/:userID", pmH.Send)

	annH := handler.NewAnnouncementHandler(annRepo, hub, webhooks)
	protected.Get("/announcements", annH.List)

	sysH := handler.NewSystemMessageHandler(sysRepo, hub)
	protected.Get("/system-messages", sysH.List)

	checklistH := handler.NewChecklistHandler(checklistRepo, hub)
	protected.Post("/checklists", checklistH.Create)
	protected.Get("/checklists", checklistH.List)
	protected.Post("/checklists/:id/items", checklistH.AddItem)
	protected.Post("/checklists/items/:id/toggle", checklistH.ToggleItem)
	protected.Delete("/checklists/:id", checklistH.Delete)

	profileH := handler.NewProfileHandler(profileRepo, userRepo, chatRepo)
	protected.Get("/profile", profileH.Me)
	protected.Post("/profile", profileH.Update)
	protected.Get("/profile/:userID", profileH.Get)

	// Admin (role admin or creator)
	admin := protected.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	adminH := handler.NewAdminHandler(authSvc, webhooks)
	admin.Post("/purge-chat", chatH.PurgeChat)
	admin.Post("/announcements", annH.Create)
	admin.Post("/codes", adminH.GenerateCode)
	admin.Post("/club-open", adminH.ClubOpen)

	// Creator only
	creator := protected.Group("/creator", middleware.RequireRole(model.RoleCreator))
	creatorH := handler.NewCreatorHandler(userRepo, chatRepo, annRepo, checklistRepo, sessionRepo, chatSvc, hub)
	creator.Get("/stats", creatorH.Stats)
	creator.Get("/users", creatorH.Users)
	creator.Delete("/users/:id", creatorH.DeleteUser)
	creator.Post("/system-message", sysH.Create)
	creator.Post("/clear-chat", creatorH.ClearChat)
	creator.Post("/clear-announcements", creatorH.ClearAnnouncements)

	// WebSocket
	wsH := handler.NewWSHandler(hub, chatSvc, authSvc, cfg.WSMaxConns)
	app.Get("/ws/:room", wsH.Upgrade)

	// Background loops
	go hub.Run()
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go sweeper.Run(sweepCtx)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("Hacker Space backend running on :%s (%s)", cfg.Port, cfg.Env)

	<-quit
	log.Println("Shutting down...")
	_ = app.ShutdownWithTimeout(5 * time.Second)
	stopSweeper()
	hub.Shutdown()
	bot.Stop()
	log.Println("Server stopped")
}
