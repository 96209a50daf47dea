package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/repository"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/service"
)

// CommandHandler processes bot prefix commands.
type CommandHandler struct {
	userRepo *repository.UserRepository
	chatRepo *repository.ChatRepository
	annRepo  *repository.AnnouncementRepository
	hub      *service.Hub
}

func NewCommandHandler(
	userRepo *repository.UserRepository,
	chatRepo *repository.ChatRepository,
	annRepo *repository.AnnouncementRepository,
	hub *service.Hub,
) *CommandHandler {
	return &CommandHandler{
		userRepo: userRepo,
		chatRepo: chatRepo,
		annRepo:  annRepo,
		hub:      hub,
	}
}

// Handle dispatches a prefix command.
func (h *CommandHandler) Handle(s *discordgo.Session, m *discordgo.MessageCreate) {
	parts := strings.Fields(m.Content)
	if len(parts) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch strings.ToLower(parts[0]) {
	case "!club":
		h.cmdClub(ctx, s, m)
	case "!annonce":
		h.cmdLatestAnnouncement(ctx, s, m)
	case "!help":
		h.cmdHelp(s, m)
	}
}

func (h *CommandHandler) cmdClub(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	totalUsers, _ := h.userRepo.CountTotal(ctx)
	totalMessages, _ := h.chatRepo.CountTotal(ctx)
	online := h.hub.OnlineCount()

	embed := &discordgo.MessageEmbed{
		Title: "Hacker Space — Statut du club",
		Color: 0x2ECC71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Membres", Value: fmt.Sprintf("%d", totalUsers), Inline: true},
			{Name: "En ligne", Value: fmt.Sprintf("%d", online), Inline: true},
			{Name: "Messages", Value: fmt.Sprintf("%d", totalMessages), Inline: true},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: "Hacker Space"},
	}
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}

func (h *CommandHandler) cmdLatestAnnouncement(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	anns, err := h.annRepo.List(ctx)
	if err != nil || len(anns) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Aucune annonce pour le moment.")
		return
	}

	latest := anns[0]
	embed := &discordgo.MessageEmbed{
		Title:       latest.Title,
		Description: latest.Content,
		Color:       0x00C8FF,
		Timestamp:   time.UnixMilli(latest.Timestamp).UTC().Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Hacker Space"},
	}
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}

func (h *CommandHandler) cmdHelp(s *discordgo.Session, m *discordgo.MessageCreate) {
	embed := &discordgo.MessageEmbed{
		Title: "Hacker Space Bot — Commandes",
		Color: 0x00C8FF,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "`!club`", Value: "Affiche le statut du club et le nombre de membres en ligne"},
			{Name: "`!annonce`", Value: "Affiche la dernière annonce du club"},
			{Name: "`!help`", Value: "Affiche cette aide"},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Hacker Space"},
	}
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}
