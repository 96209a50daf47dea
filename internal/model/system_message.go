package model

// SystemMessage is an operator notice, either broadcast to everyone or
// targeted at a single user. Never mutated after creation; dismissal state
// lives client-side.
type SystemMessage struct {
	ID         int64   `json:"id"`
	Title      *string `json:"title"`
	Content    string  `json:"content"`
	CreatedBy  *int64  `json:"created_by,omitempty"`
	IsPrivate  bool    `json:"is_private"`
	TargetUser *int64  `json:"target_user,omitempty"`
	Timestamp  int64   `json:"timestamp"`
}

type SystemMessageRequest struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	IsPrivate  bool   `json:"is_private"`
	TargetUser *int64 `json:"target_user"`
}
