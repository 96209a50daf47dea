package model

import "encoding/json"

// Event types pushed to WebSocket clients.
const (
	EventInit                 = "init"
	EventMessage              = "message"
	EventPurge                = "purge"
	EventNewPrivateMessage    = "new_message"
	EventSystemMessage        = "system_message"
	EventAnnouncement         = "announcement"
	EventAnnouncementsCleared = "announcements_cleared"
	EventChecklistUpdated     = "checklist_updated"
	EventPong                 = "pong"
)

// Event types accepted from WebSocket clients.
const (
	EventSend = "send"
	EventPing = "ping"
)

type WSEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewWSEvent builds an event with the payload marshaled into Data.
// A nil payload yields an event with no data, e.g. purge.
func NewWSEvent(eventType string, payload any) (*WSEvent, error) {
	ev := &WSEvent{Type: eventType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		ev.Data = data
	}
	return ev, nil
}
