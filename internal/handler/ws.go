package handler

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
	"github.com/nnyaqu-sketch/site-hacker-space/internal/service"
)

const readDeadline = 60 * time.Second

type WSHandler struct {
	hub      *service.Hub
	chatSvc  *service.ChatService
	authSvc  *service.AuthService
	maxConns int
}

func NewWSHandler(hub *service.Hub, chatSvc *service.ChatService, authSvc *service.AuthService, maxConns int) *WSHandler {
	return &WSHandler{hub: hub, chatSvc: chatSvc, authSvc: authSvc, maxConns: maxConns}
}

// Upgrade authenticates and upgrades GET /ws/:room. The public room accepts
// anonymous connections; the messages room needs a valid token; the admin
// room additionally needs role admin or creator. This is the only place the
// admin room's read access is enforced, the hub itself trusts its callers.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	room := c.Params("room")
	if !service.ValidRoom(room) {
		return c.Status(404).JSON(fiber.Map{"error": "unknown room"})
	}

	if h.maxConns > 0 && h.hub.OnlineCount() >= h.maxConns {
		return c.Status(503).JSON(fiber.Map{"error": "server full"})
	}

	var ident *service.Identity
	if token := c.Query("token"); token != "" {
		var err error
		ident, err = h.authSvc.ValidateAccessToken(token)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "invalid token"})
		}
	}

	switch room {
	case service.RoomAdmin:
		if ident == nil || !model.RoleAtLeast(ident.Role, model.RoleAdmin) {
			return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
		}
	case service.RoomMessages:
		if ident == nil {
			return c.Status(401).JSON(fiber.Map{"error": "unauthenticated"})
		}
	}

	c.Locals("room", room)
	c.Locals("identity", ident)
	return websocket.New(h.handleConnection)(c)
}

func (h *WSHandler) handleConnection(conn *websocket.Conn) {
	room, _ := conn.Locals("room").(string)
	ident, _ := conn.Locals("identity").(*service.Identity)

	client := &service.Client{
		Conn: conn,
		Room: room,
		Send: make(chan []byte, 256),
	}
	if ident != nil {
		client.UserID = ident.UserID
		client.Username = ident.Username
		client.Role = ident.Role
	}

	// Registered before the init snapshot is queued, so an event published
	// in between arrives ahead of init and may repeat inside it. Accepted
	// window; clients treat init as authoritative.
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	// Writer goroutine: the only place conn is written to.
	go func() {
		defer conn.Close()
		for msg := range client.Send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}()

	h.sendInit(conn, client)

	conn.SetReadDeadline(time.Now().Add(readDeadline))
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		conn.SetReadDeadline(time.Now().Add(readDeadline))

		var ev model.WSEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			continue
		}

		switch ev.Type {
		case model.EventSend:
			h.handleSend(client, ev.Data)
		case model.EventPing:
			pong, _ := json.Marshal(model.WSEvent{Type: model.EventPong})
			select {
			case client.Send <- pong:
			default:
			}
		default:
			log.Printf("[ws] unknown event type %q in %s", ev.Type, room)
		}
	}
}

// sendInit pushes the room's history snapshot to a freshly connected client.
// Only chat rooms carry history; the messages room loads over REST.
func (h *WSHandler) sendInit(conn *websocket.Conn, client *service.Client) {
	if client.Room != service.RoomPublic && client.Room != service.RoomAdmin {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	history, err := h.chatSvc.History(ctx, client.Room)
	if err != nil {
		log.Printf("[ws] init snapshot for %s: %v", client.Room, err)
		return
	}

	ev, err := model.NewWSEvent(model.EventInit, history)
	if err != nil {
		return
	}
	data, _ := json.Marshal(ev)
	select {
	case client.Send <- data:
	default:
	}
}

// handleSend ingests a chat message from the socket. Errors are logged, not
// surfaced: delivery of the ack path is as fire-and-forget as the events.
func (h *WSHandler) handleSend(client *service.Client, data json.RawMessage) {
	if client.Room != service.RoomPublic && client.Room != service.RoomAdmin {
		return
	}

	var req model.ChatSendRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return
	}

	// Authenticated senders are pinned to their own identity.
	if client.UserID != 0 {
		id := client.UserID
		req.UserID = &id
		req.Username = client.Username
	} else {
		req.UserID = nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := h.chatSvc.Ingest(ctx, client.Room, &req); err != nil {
		log.Printf("[ws] ingest in %s: %v", client.Room, err)
	}
}
