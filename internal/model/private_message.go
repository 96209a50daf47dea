package model

// PrivateMessage is a direct message between two users. Only the read flag
// mutates after creation; it flips when the receiver fetches the conversation.
type PrivateMessage struct {
	ID               int64  `json:"id"`
	SenderID         int64  `json:"sender_id"`
	ReceiverID       int64  `json:"receiver_id"`
	Text             string `json:"text"`
	Timestamp        int64  `json:"timestamp"`
	Read             bool   `json:"read"`
	SenderUsername   string `json:"sender_username"`
	ReceiverUsername string `json:"receiver_username"`
}

type PrivateMessageSendRequest struct {
	Text string `json:"text"`
}
