package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// DiscordWebhookService posts club notifications to a Discord channel via a
// webhook. A service constructed with an empty URL is a no-op.
type DiscordWebhookService struct {
	webhookURL string
	client     *http.Client
}

func NewDiscordWebhookService(webhookURL string) *DiscordWebhookService {
	return &DiscordWebhookService{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type discordEmbed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Color       int    `json:"color,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

type discordWebhookPayload struct {
	Username string         `json:"username,omitempty"`
	Content  string         `json:"content,omitempty"`
	Embeds   []discordEmbed `json:"embeds,omitempty"`
}

// SendClubOpen tells the Discord server the club is open. Synchronous: the
// admin endpoint reports delivery failure to its caller.
func (s *DiscordWebhookService) SendClubOpen() error {
	return s.post(discordWebhookPayload{
		Username: "Club Bot",
		Content:  "🟢 Le club est maintenant ouvert! Vous pouvez venir.",
	})
}

// SendAnnouncement mirrors a club announcement to Discord, fire and forget.
func (s *DiscordWebhookService) SendAnnouncement(title, content string) {
	if s.webhookURL == "" {
		return
	}
	go func() {
		err := s.post(discordWebhookPayload{
			Username: "Club Bot",
			Embeds: []discordEmbed{{
				Title:       "📢 " + title,
				Description: content,
				Color:       0x3498DB,
				Timestamp:   time.Now().UTC().Format(time.RFC3339),
			}},
		})
		if err != nil {
			log.Printf("[discord-webhook] announcement: %v", err)
		}
	}()
}

func (s *DiscordWebhookService) post(payload discordWebhookPayload) error {
	if s.webhookURL == "" {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}
	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
