package model

// ChatMessage represents a stored chat message row. Timestamp is epoch millis
// assigned by the server; Username is a snapshot of the sender's display name
// at send time. UserID is nil for anonymous senders.
type ChatMessage struct {
	ID        int64  `json:"id"`
	UserID    *int64 `json:"user_id"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	ChatType  string `json:"chat_type"`
}

// ChatSendRequest is the client payload for sending a chat message.
type ChatSendRequest struct {
	Text     string `json:"text"`
	Username string `json:"username"`
	UserID   *int64 `json:"user_id"`
}
