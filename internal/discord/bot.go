package discord

import (
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/repository"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/service"
)

// Bot manages the Discord bot lifecycle and command dispatch.
type Bot struct {
	session   *discordgo.Session
	channelID string
	commands  *CommandHandler
}

// NewBot creates and configures a new Discord bot. Returns a nil bot when
// no token is configured; all methods are safe on a nil receiver.
func NewBot(
	token string,
	channelID string,
	userRepo *repository.UserRepository,
	chatRepo *repository.ChatRepository,
	annRepo *repository.AnnouncementRepository,
	hub *service.Hub,
) (*Bot, error) {
	if token == "" {
		log.Println("[discord-bot] No bot token configured, bot disabled")
		return nil, nil
	}

	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	s.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages

	bot := &Bot{
		session:   s,
		channelID: channelID,
		commands:  NewCommandHandler(userRepo, chatRepo, annRepo, hub),
	}

	// Register message handler for prefix commands
	s.AddHandler(bot.onMessageCreate)

	return bot, nil
}

// Start opens the Discord gateway connection.
func (b *Bot) Start() error {
	if b == nil || b.session == nil {
		return nil
	}
	if err := b.session.Open(); err != nil {
		return err
	}
	log.Println("[discord-bot] Bot connected to Discord")
	return nil
}

// Stop closes the Discord gateway connection.
func (b *Bot) Stop() {
	if b == nil || b.session == nil {
		return
	}
	_ = b.session.Close()
	log.Println("[discord-bot] Bot disconnected")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore own messages
	if m.Author.ID == s.State.User.ID {
		return
	}
	if b.channelID != "" && m.ChannelID != b.channelID {
		return
	}
	if len(m.Content) == 0 || m.Content[0] != '!' {
		return
	}
	b.commands.Handle(s, m)
}
